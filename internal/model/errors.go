package model

import "errors"

// Report specification validation errors.
// These errors are returned by ReportSpec.Validate() and the text parsers
// for style values.
var (
	// ErrNegativeSpacing is returned when the number of blank lines between
	// blocks is negative.
	ErrNegativeSpacing = errors.New("invalid spacing: must be non-negative")

	// ErrEmptyTable is returned when the table has no rows or no columns.
	ErrEmptyTable = errors.New("invalid table: at least one row with one cell is required")

	// ErrRaggedTable is returned when a row has a different number of cells
	// than the header row.
	ErrRaggedTable = errors.New("invalid table: every row must have the same number of cells as the header")

	// ErrInvalidColumnWidths is returned when the relative column widths do not
	// match the column count or contain a non-positive value.
	ErrInvalidColumnWidths = errors.New("invalid table: column widths must be positive and match the column count")

	// ErrInvalidWidthPercent is returned when the table width percentage is
	// outside (0, 100].
	ErrInvalidWidthPercent = errors.New("invalid table: width percent must be in (0, 100]")

	// ErrInvalidFontSize is returned when a text style has a non-positive size.
	ErrInvalidFontSize = errors.New("invalid font size: must be positive")

	// ErrUnknownAlignment is returned when an alignment name is not recognized.
	ErrUnknownAlignment = errors.New("unknown alignment: use left, center, right or justify")

	// ErrUnknownFontStyle is returned when a font style flag is not recognized.
	ErrUnknownFontStyle = errors.New("unknown font style: use normal, bold, italic or underline")

	// ErrInvalidColor is returned when a color is not in #rrggbb form.
	ErrInvalidColor = errors.New("invalid color: use #rrggbb")
)
