package model

// ElementKind identifies the variant of an Element.
type ElementKind int

const (
	// KindBlankLine is an empty line of default leading.
	KindBlankLine ElementKind = iota
	// KindParagraph is a styled block of text.
	KindParagraph
	// KindTable is a grid of text cells.
	KindTable
)

// String returns the lower-case name of the kind.
func (k ElementKind) String() string {
	switch k {
	case KindBlankLine:
		return "blank"
	case KindParagraph:
		return "paragraph"
	case KindTable:
		return "table"
	default:
		return "unknown"
	}
}

// Element is one unit of document content.
// Writers receive elements in emission order and switch on the concrete type.
type Element interface {
	// Kind returns the element variant.
	Kind() ElementKind
}

// BlankLine is a vertical gap of one line.
type BlankLine struct{}

// Kind implements Element.
func (BlankLine) Kind() ElementKind { return KindBlankLine }

// Paragraph is a block of text drawn in a single style.
type Paragraph struct {
	Text  string
	Style TextStyle
}

// Kind implements Element.
func (Paragraph) Kind() ElementKind { return KindParagraph }

// Table is a grid of cells. The first row is the header row.
type Table struct {
	// Rows holds the cells row by row, header first.
	Rows [][]string `yaml:"rows" json:"rows"`

	// Widths holds the relative column widths. Empty means equal widths.
	Widths []float64 `yaml:"widths,omitempty" json:"widths,omitempty"`

	// WidthPercent is the share of the content width the table occupies.
	WidthPercent float64 `yaml:"widthPercent,omitempty" json:"widthPercent"`

	// CellStyle is the style used for every cell.
	CellStyle TextStyle `yaml:"cellStyle,omitempty" json:"cellStyle"`
}

// Kind implements Element.
func (Table) Kind() ElementKind { return KindTable }

// DefaultTableWidthPercent is the width of a table relative to the content area.
const DefaultTableWidthPercent = 80

// Columns returns the number of columns, taken from the header row.
func (t Table) Columns() int {
	if len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows[0])
}

// Header returns the first row, or nil for an empty table.
func (t Table) Header() []string {
	if len(t.Rows) == 0 {
		return nil
	}
	return t.Rows[0]
}

// Body returns every row after the header.
func (t Table) Body() [][]string {
	if len(t.Rows) < 2 {
		return nil
	}
	return t.Rows[1:]
}

// ColumnWidths returns the relative widths normalized to sum to 1.
// When Widths is empty every column gets the same share.
func (t Table) ColumnWidths() []float64 {
	n := t.Columns()
	if n == 0 {
		return nil
	}

	out := make([]float64, n)
	if len(t.Widths) != n {
		for i := range out {
			out[i] = 1 / float64(n)
		}
		return out
	}

	var sum float64
	for _, w := range t.Widths {
		sum += w
	}
	for i, w := range t.Widths {
		out[i] = w / sum
	}
	return out
}

// Validate checks the table shape.
func (t Table) Validate() error {
	cols := t.Columns()
	if cols == 0 {
		return ErrEmptyTable
	}
	for _, row := range t.Rows {
		if len(row) != cols {
			return ErrRaggedTable
		}
	}
	if len(t.Widths) > 0 {
		if len(t.Widths) != cols {
			return ErrInvalidColumnWidths
		}
		for _, w := range t.Widths {
			if w <= 0 {
				return ErrInvalidColumnWidths
			}
		}
	}
	if t.WidthPercent <= 0 || t.WidthPercent > 100 {
		return ErrInvalidWidthPercent
	}
	return t.CellStyle.Validate()
}

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	out := t
	out.Rows = make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		out.Rows[i] = append([]string(nil), row...)
	}
	if t.Widths != nil {
		out.Widths = append([]float64(nil), t.Widths...)
	}
	return out
}
