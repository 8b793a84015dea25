package model

import (
	"errors"
	"testing"
)

// TestBuildTable verifies the shape and literal content of the GDP table.
func TestBuildTable(t *testing.T) {
	t.Parallel()

	table := BuildTable()

	t.Run("has 11 rows of 3 columns", func(t *testing.T) {
		t.Parallel()
		if len(table.Rows) != 11 {
			t.Fatalf("expected 11 rows, got %d", len(table.Rows))
		}
		for i, row := range table.Rows {
			if len(row) != 3 {
				t.Errorf("row %d: expected 3 cells, got %d", i, len(row))
			}
		}
	})

	t.Run("first, second and last rows", func(t *testing.T) {
		t.Parallel()
		tests := []struct {
			index int
			want  []string
		}{
			{0, []string{"Rank", "Country", "GDP"}},
			{1, []string{"1", "United States", "16.24 Trillion dollars"}},
			{10, []string{"10", "India", "01.87 Trillion dollars"}},
		}
		for _, tt := range tests {
			got := table.Rows[tt.index]
			for j := range tt.want {
				if got[j] != tt.want[j] {
					t.Errorf("row %d cell %d: expected %q, got %q", tt.index, j, tt.want[j], got[j])
				}
			}
		}
	})

	t.Run("columns are equally wide", func(t *testing.T) {
		t.Parallel()
		widths := table.ColumnWidths()
		if len(widths) != 3 {
			t.Fatalf("expected 3 widths, got %d", len(widths))
		}
		for i := 1; i < len(widths); i++ {
			if widths[i] != widths[0] {
				t.Errorf("expected equal widths, got %v", widths)
			}
		}
	})

	t.Run("returns an independent copy", func(t *testing.T) {
		t.Parallel()
		a := BuildTable()
		a.Rows[1][1] = "Atlantis"
		b := BuildTable()
		if b.Rows[1][1] != "United States" {
			t.Errorf("mutation leaked between calls: %q", b.Rows[1][1])
		}
	})
}

// TestDefaultSpec verifies the styling of the default report.
func TestDefaultSpec(t *testing.T) {
	t.Parallel()

	spec := DefaultSpec()

	if err := spec.Validate(); err != nil {
		t.Fatalf("default spec should be valid: %v", err)
	}
	if spec.Spacing != 3 {
		t.Errorf("expected spacing 3, got %d", spec.Spacing)
	}
	if spec.Title.Text != "Top 10 countries by GDP" {
		t.Errorf("unexpected title %q", spec.Title.Text)
	}
	if spec.Title.Style.Size != 14 || !spec.Title.Style.Style.Has(FontBold) || spec.Title.Style.Align != AlignCenter {
		t.Errorf("unexpected title style %+v", spec.Title.Style)
	}
	if spec.Footer.Text != "Source : United Nations" {
		t.Errorf("unexpected footer %q", spec.Footer.Text)
	}
	if spec.Footer.Style.Size != 10 || !spec.Footer.Style.Style.Has(FontItalic) || spec.Footer.Style.Align != AlignRight {
		t.Errorf("unexpected footer style %+v", spec.Footer.Style)
	}
	if spec.Title.Style.Color != ColorBlue || spec.Footer.Style.Color != ColorBlue {
		t.Error("expected blue title and footer")
	}
}

// TestReportSpecValidate tests each validation rule in isolation.
func TestReportSpecValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(s *ReportSpec)
		want   error
	}{
		{"negative spacing", func(s *ReportSpec) { s.Spacing = -1 }, ErrNegativeSpacing},
		{"zero spacing is valid", func(s *ReportSpec) { s.Spacing = 0 }, nil},
		{"empty table", func(s *ReportSpec) { s.Table.Rows = nil }, ErrEmptyTable},
		{"ragged row", func(s *ReportSpec) { s.Table.Rows[3] = []string{"3", "Japan"} }, ErrRaggedTable},
		{"width count mismatch", func(s *ReportSpec) { s.Table.Widths = []float64{1, 2} }, ErrInvalidColumnWidths},
		{"zero width", func(s *ReportSpec) { s.Table.Widths = []float64{1, 0, 1} }, ErrInvalidColumnWidths},
		{"width percent over 100", func(s *ReportSpec) { s.Table.WidthPercent = 120 }, ErrInvalidWidthPercent},
		{"zero title size", func(s *ReportSpec) { s.Title.Style.Size = 0 }, ErrInvalidFontSize},
		{"zero footer size", func(s *ReportSpec) { s.Footer.Style.Size = 0 }, ErrInvalidFontSize},
		{"zero cell size", func(s *ReportSpec) { s.Table.CellStyle.Size = 0 }, ErrInvalidFontSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			spec := DefaultSpec()
			tt.mutate(&spec)

			err := spec.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

// TestColumnWidths tests normalization of relative widths.
func TestColumnWidths(t *testing.T) {
	t.Parallel()

	table := Table{
		Rows:   [][]string{{"a", "b"}},
		Widths: []float64{1, 3},
	}
	widths := table.ColumnWidths()
	if widths[0] != 0.25 || widths[1] != 0.75 {
		t.Errorf("expected [0.25 0.75], got %v", widths)
	}

	table.Widths = nil
	widths = table.ColumnWidths()
	if widths[0] != 0.5 || widths[1] != 0.5 {
		t.Errorf("expected [0.5 0.5], got %v", widths)
	}

	if (Table{}).ColumnWidths() != nil {
		t.Error("expected nil widths for an empty table")
	}
}
