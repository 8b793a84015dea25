package report

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nao1215/gdpreport/internal/config"
)

func TestTargetsFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    string
		formats []Format
		want    []Target
	}{
		{
			name:    "extension picks the owner",
			path:    "/out/report.pdf",
			formats: []Format{FormatPDF, FormatMarkdown, FormatJSON},
			want: []Target{
				{Path: "/out/report.pdf", Format: FormatPDF},
				{Path: "/out/report.md", Format: FormatMarkdown},
				{Path: "/out/report.json", Format: FormatJSON},
			},
		},
		{
			name:    "single format keeps an extensionless path",
			path:    "/out/myreport",
			formats: []Format{FormatPDF},
			want:    []Target{{Path: "/out/myreport", Format: FormatPDF}},
		},
		{
			name:    "single format keeps a mismatched extension",
			path:    "/out/report.md",
			formats: []Format{FormatPDF},
			want:    []Target{{Path: "/out/report.md", Format: FormatPDF}},
		},
		{
			name:    "first format owns an extensionless path",
			path:    "/out/myreport",
			formats: []Format{FormatPDF, FormatJSON},
			want: []Target{
				{Path: "/out/myreport", Format: FormatPDF},
				{Path: "/out/myreport.json", Format: FormatJSON},
			},
		},
		{
			name:    "matching format owns the path when not first",
			path:    "/out/report.md",
			formats: []Format{FormatPDF, FormatMarkdown},
			want: []Target{
				{Path: "/out/report.pdf", Format: FormatPDF},
				{Path: "/out/report.md", Format: FormatMarkdown},
			},
		},
		{
			name:    "unknown extension is kept for siblings",
			path:    "/out/report.v2",
			formats: []Format{FormatPDF, FormatMarkdown},
			want: []Target{
				{Path: "/out/report.v2", Format: FormatPDF},
				{Path: "/out/report.v2.md", Format: FormatMarkdown},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := TargetsFor(tt.path, tt.formats)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d targets, got %d", len(tt.want), len(got))
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("target %d: expected %+v, got %+v", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestBatchBuilder(t *testing.T) {
	t.Parallel()

	t.Run("uses the configured default concurrency", func(t *testing.T) {
		t.Parallel()
		if bb := NewBatchBuilder(newTestBuilder()); bb.concurrency != config.DefaultConcurrency {
			t.Errorf("expected %d, got %d", config.DefaultConcurrency, bb.concurrency)
		}
	})

	t.Run("builds every format", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "report.pdf")
		bb := NewBatchBuilder(newTestBuilder(), WithConcurrency(2))

		results, err := bb.BuildAll(context.Background(), TargetsFor(path, Formats()))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 3 {
			t.Fatalf("expected 3 results, got %d", len(results))
		}
		for i, f := range Formats() {
			if results[i].Format != f {
				t.Errorf("result %d: expected %s, got %s", i, f, results[i].Format)
			}
			if _, err := os.Stat(results[i].Path); err != nil {
				t.Errorf("expected %s to exist: %v", results[i].Path, err)
			}
		}
	})

	t.Run("returns the first failure", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		blocker := filepath.Join(dir, "blocker")
		if err := os.WriteFile(blocker, nil, 0600); err != nil {
			t.Fatalf("failed to create blocker: %v", err)
		}
		targets := []Target{
			{Path: filepath.Join(dir, "ok.pdf"), Format: FormatPDF},
			{Path: filepath.Join(blocker, "bad.md"), Format: FormatMarkdown},
		}

		_, err := NewBatchBuilder(newTestBuilder()).BuildAll(context.Background(), targets)
		var ioErr *IOError
		if !errors.As(err, &ioErr) {
			t.Errorf("expected IOError, got %v", err)
		}
	})
}
