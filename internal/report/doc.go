// Package report builds the countries-by-GDP report and writes it out.
//
// Builder turns a model.ReportSpec into an ordered element list and drives a
// document.Writer through it. Three writers are provided:
//   - PDFWriter: The primary output, laid out with github.com/go-pdf/fpdf
//   - MarkdownWriter: GitHub Flavored Markdown via github.com/nao1215/markdown
//   - JSONWriter: The element list as JSON for tool integration
//
// Build writes into a temporary file next to the destination and renames it
// into place only after the writer closed successfully, so a failed build
// never leaves a partial report behind.
//
// BatchBuilder produces several formats of the same report concurrently.
package report
