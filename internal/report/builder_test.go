package report

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/gdpreport/internal/document"
	"github.com/nao1215/gdpreport/internal/model"
)

// fixedDate keeps PDF output byte-identical between builds.
var fixedDate = time.Date(2013, time.January, 1, 0, 0, 0, 0, time.UTC)

// newTestBuilder creates a Builder with a silent logger and a fixed date.
func newTestBuilder(opts ...Option) *Builder {
	base := []Option{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithPDFOptions(WithCreationDate(fixedDate)),
	}
	return NewBuilder(append(base, opts...)...)
}

// TestBuilderElements verifies the emission order and styling.
func TestBuilderElements(t *testing.T) {
	t.Parallel()

	rec := document.NewRecorder()
	if err := newTestBuilder().Render(rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	elements := rec.Elements()

	t.Run("emits 12 elements in order", func(t *testing.T) {
		t.Parallel()
		want := []model.ElementKind{
			model.KindBlankLine, model.KindBlankLine, model.KindBlankLine,
			model.KindParagraph,
			model.KindBlankLine, model.KindBlankLine, model.KindBlankLine,
			model.KindTable,
			model.KindBlankLine, model.KindBlankLine, model.KindBlankLine,
			model.KindParagraph,
		}
		if len(elements) != len(want) {
			t.Fatalf("expected %d elements, got %d", len(want), len(elements))
		}
		for i, kind := range want {
			if elements[i].Kind() != kind {
				t.Errorf("element %d: expected %s, got %s", i, kind, elements[i].Kind())
			}
		}
	})

	t.Run("heading is bold 14pt centered", func(t *testing.T) {
		t.Parallel()
		heading, ok := elements[3].(model.Paragraph)
		if !ok {
			t.Fatalf("expected paragraph, got %T", elements[3])
		}
		if heading.Text != "Top 10 countries by GDP" {
			t.Errorf("unexpected heading %q", heading.Text)
		}
		if !heading.Style.Style.Has(model.FontBold) || heading.Style.Size != 14 || heading.Style.Align != model.AlignCenter {
			t.Errorf("unexpected heading style %+v", heading.Style)
		}
	})

	t.Run("footer is italic 10pt right aligned", func(t *testing.T) {
		t.Parallel()
		footer, ok := elements[len(elements)-1].(model.Paragraph)
		if !ok {
			t.Fatalf("expected paragraph, got %T", elements[len(elements)-1])
		}
		if footer.Text != "Source : United Nations" {
			t.Errorf("unexpected footer %q", footer.Text)
		}
		if !footer.Style.Style.Has(model.FontItalic) || footer.Style.Size != 10 || footer.Style.Align != model.AlignRight {
			t.Errorf("unexpected footer style %+v", footer.Style)
		}
	})

	t.Run("table is 11 by 3", func(t *testing.T) {
		t.Parallel()
		table, ok := elements[7].(model.Table)
		if !ok {
			t.Fatalf("expected table, got %T", elements[7])
		}
		if len(table.Rows) != 11 || table.Columns() != 3 {
			t.Errorf("expected 11x3 table, got %dx%d", len(table.Rows), table.Columns())
		}
	})
}

// TestBuilderWithSpec verifies that content is injectable.
func TestBuilderWithSpec(t *testing.T) {
	t.Parallel()

	spec := model.DefaultSpec()
	spec.Spacing = 0
	spec.Title.Text = "Synthetic"
	spec.Table.Rows = [][]string{{"a", "b", "c"}, {"1", "2", "3"}}

	b := newTestBuilder(WithSpec(spec))
	elements := b.Elements()
	if len(elements) != 3 {
		t.Fatalf("expected 3 elements without spacing, got %d", len(elements))
	}
	if p := elements[0].(model.Paragraph); p.Text != "Synthetic" {
		t.Errorf("expected injected title, got %q", p.Text)
	}

	// Mutating the returned table must not change the builder.
	elements[1].(model.Table).Rows[0][0] = "changed"
	if b.Elements()[1].(model.Table).Rows[0][0] != "a" {
		t.Error("builder table was mutated through Elements()")
	}
}

// TestBuild tests writing reports to disk.
func TestBuild(t *testing.T) {
	t.Parallel()

	t.Run("creates a non-empty PDF", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "results", "ListOfCountriesByGDP.pdf")

		res, err := newTestBuilder().Build(context.Background(), path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read output: %v", err)
		}
		if len(data) == 0 {
			t.Fatal("expected non-empty file")
		}
		if !bytes.HasPrefix(data, []byte("%PDF-")) {
			t.Errorf("expected PDF header, got %q", data[:min(len(data), 8)])
		}
		if res.Format != FormatPDF {
			t.Errorf("expected pdf format, got %s", res.Format)
		}
		if res.Size != int64(len(data)) {
			t.Errorf("expected size %d, got %d", len(data), res.Size)
		}
		if len(res.Digest) != 64 {
			t.Errorf("expected 64 hex digest, got %q", res.Digest)
		}
		if res.Elements != 12 {
			t.Errorf("expected 12 elements, got %d", res.Elements)
		}
	})

	t.Run("overwrites deterministically", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "report.pdf")
		b := newTestBuilder()

		first, err := b.Build(context.Background(), path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		firstData, _ := os.ReadFile(path)

		second, err := b.Build(context.Background(), path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		secondData, _ := os.ReadFile(path)

		if first.Digest != second.Digest {
			t.Errorf("expected identical digests, got %s and %s", first.Digest, second.Digest)
		}
		if !bytes.Equal(firstData, secondData) {
			t.Error("expected identical file content")
		}
	})

	t.Run("infers format from extension", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "report.md")

		res, err := newTestBuilder().Build(context.Background(), path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Format != FormatMarkdown {
			t.Errorf("expected markdown, got %s", res.Format)
		}
		data, _ := os.ReadFile(path)
		if !strings.Contains(string(data), "United States") {
			t.Error("expected table content in markdown")
		}
	})

	t.Run("unwritable path returns IOError and leaves no file", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		blocker := filepath.Join(dir, "blocker")
		if err := os.WriteFile(blocker, []byte("x"), 0600); err != nil {
			t.Fatalf("failed to create blocker file: %v", err)
		}
		path := filepath.Join(blocker, "results", "report.pdf")

		_, err := newTestBuilder().Build(context.Background(), path)
		var ioErr *IOError
		if !errors.As(err, &ioErr) {
			t.Fatalf("expected IOError, got %v", err)
		}
		if ioErr.Op != "create directory" {
			t.Errorf("expected create directory op, got %q", ioErr.Op)
		}
		// The parent is a regular file, so Stat fails with ENOTDIR
		// rather than ErrNotExist; any error means there is no output.
		if _, err := os.Stat(path); err == nil {
			t.Error("expected no output file")
		}
	})

	t.Run("failed render leaves no temporary files", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := filepath.Join(dir, "report.pdf")

		_, err := newTestBuilder(WithFormat(Format("xml"))).Build(context.Background(), path)
		if !errors.Is(err, ErrUnknownFormat) {
			t.Fatalf("expected ErrUnknownFormat, got %v", err)
		}
		entries, _ := os.ReadDir(dir)
		if len(entries) != 0 {
			t.Errorf("expected empty directory, found %d entries", len(entries))
		}
	})

	t.Run("invalid spec is rejected before touching disk", func(t *testing.T) {
		t.Parallel()
		spec := model.DefaultSpec()
		spec.Table.Rows = nil
		path := filepath.Join(t.TempDir(), "sub", "report.pdf")

		_, err := newTestBuilder(WithSpec(spec)).Build(context.Background(), path)
		if !errors.Is(err, model.ErrEmptyTable) {
			t.Fatalf("expected ErrEmptyTable, got %v", err)
		}
		if _, err := os.Stat(filepath.Dir(path)); !os.IsNotExist(err) {
			t.Error("expected directory not to be created")
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := newTestBuilder().Build(ctx, filepath.Join(t.TempDir(), "r.pdf"))
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}
