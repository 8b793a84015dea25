// Package model defines the data structures shared by the report builder,
// the document writers and the configuration loader.
//
// This package contains the following main types:
//   - ReportSpec: The content and styling of a report (title, table, footer)
//   - TextStyle: Font family, size, style flags, alignment and color
//   - Element: One unit of document content (BlankLine, Paragraph, Table)
//
// Design decision: We keep these types free of any output format knowledge.
// The PDF, Markdown and JSON writers all consume the same element list, so
// the emission order is decided once and never duplicated per format.
//
// ReportSpec carries YAML tags so a report can be described in a file, and
// the style enums implement encoding.TextMarshaler so they read naturally in
// both YAML and JSON ("center", "bold,italic", "#0000ff").
package model
