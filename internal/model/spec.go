package model

import "fmt"

// TextBlock is a paragraph described in a report specification.
type TextBlock struct {
	Text  string    `yaml:"text" json:"text"`
	Style TextStyle `yaml:"style" json:"style"`
}

// Paragraph converts the block into a document element.
func (b TextBlock) Paragraph() Paragraph {
	return Paragraph{Text: b.Text, Style: b.Style}
}

// ReportSpec is the content and styling of a report.
//
// The builder emits Spacing blank lines, the title, Spacing blank lines,
// the table, Spacing blank lines and finally the footer.
type ReportSpec struct {
	// Spacing is the number of blank lines emitted before the title,
	// before the table and before the footer.
	Spacing int `yaml:"spacing" json:"spacing"`

	// Title is the heading drawn above the table.
	Title TextBlock `yaml:"title" json:"title"`

	// Table is the data table.
	Table Table `yaml:"table" json:"table"`

	// Footer is the citation drawn below the table.
	Footer TextBlock `yaml:"footer" json:"footer"`
}

// DefaultSpacing is the number of blank lines between blocks.
const DefaultSpacing = 3

// Literal content of the default report.
const (
	DefaultTitle  = "Top 10 countries by GDP"
	DefaultFooter = "Source : United Nations"
)

// gdpRows is the ranking shown by the default report, header first.
var gdpRows = [][]string{
	{"Rank", "Country", "GDP"},
	{"1", "United States", "16.24 Trillion dollars"},
	{"2", "China", "08.35 Trillion dollars"},
	{"3", "Japan", "05.96 Trillion dollars"},
	{"4", "Germany", "03.45 Trillion dollars"},
	{"5", "France", "02.61 Trillion dollars"},
	{"6", "United Kingdom", "02.47 Trillion dollars"},
	{"7", "Brazil", "02.25 Trillion dollars"},
	{"8", "Russia", "02.02 Trillion dollars"},
	{"9", "Italy", "02.01 Trillion dollars"},
	{"10", "India", "01.87 Trillion dollars"},
}

// BuildTable returns the countries-by-GDP table: a header row and ten data
// rows of three equally wide columns. Widths is left empty so a spec file
// that replaces the rows may change the column count. Every call returns a
// fresh copy.
func BuildTable() Table {
	t := Table{
		Rows:         gdpRows,
		WidthPercent: DefaultTableWidthPercent,
		CellStyle:    DefaultTextStyle(),
	}
	return t.Clone()
}

// DefaultSpec returns the countries-by-GDP report.
func DefaultSpec() ReportSpec {
	return ReportSpec{
		Spacing: DefaultSpacing,
		Title: TextBlock{
			Text: DefaultTitle,
			Style: TextStyle{
				Family: DefaultFontFamily,
				Size:   14,
				Style:  FontBold,
				Align:  AlignCenter,
				Color:  ColorBlue,
			},
		},
		Table: BuildTable(),
		Footer: TextBlock{
			Text: DefaultFooter,
			Style: TextStyle{
				Family: DefaultFontFamily,
				Size:   10,
				Style:  FontItalic,
				Align:  AlignRight,
				Color:  ColorBlue,
			},
		},
	}
}

// Validate checks that the report spec can be rendered.
// It returns the first problem found.
func (s ReportSpec) Validate() error {
	if s.Spacing < 0 {
		return ErrNegativeSpacing
	}
	if err := s.Title.Style.Validate(); err != nil {
		return fmt.Errorf("title: %w", err)
	}
	if err := s.Table.Validate(); err != nil {
		return err
	}
	if err := s.Footer.Style.Validate(); err != nil {
		return fmt.Errorf("footer: %w", err)
	}
	return nil
}
