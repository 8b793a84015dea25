package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInspect(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dbDir := filepath.Join(dir, "data")
	pdfPath := filepath.Join(dir, "gdp.pdf")
	mdPath := filepath.Join(dir, "gdp.md")

	_, err := execute(t, "generate", "-o", pdfPath, "-f", "pdf", "-f", "markdown",
		"--db-dir", dbDir, "--creation-date", testCreationDate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("pdf report matches history", func(t *testing.T) {
		out, err := execute(t, "inspect", pdfPath, "--db-dir", dbDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{
			"Creator:  gdpreport",
			"Title:    Top 10 countries by GDP",
			"Pages:    1",
			"Created:  2024-01-02T03:04:05Z",
			"History:  matches build",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output:\n%s", want, out)
			}
		}
	})

	t.Run("markdown report shows digest only", func(t *testing.T) {
		out, err := execute(t, "inspect", mdPath, "--db-dir", dbDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(out, "Creator:") {
			t.Errorf("expected no PDF info for markdown:\n%s", out)
		}
		if !strings.Contains(out, "History:  matches build") {
			t.Errorf("expected history match:\n%s", out)
		}
	})

	t.Run("modified file is detected", func(t *testing.T) {
		f, err := os.OpenFile(mdPath, os.O_APPEND|os.O_WRONLY, 0600) //nolint:gosec // test file
		if err != nil {
			t.Fatalf("failed to open: %v", err)
		}
		if _, err := f.WriteString("\nedited\n"); err != nil {
			t.Fatalf("failed to append: %v", err)
		}
		_ = f.Close()

		var out bytes.Buffer
		if err := runInspect(context.Background(), &out, mdPath, dbDir); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out.String(), "History:  modified since build") {
			t.Errorf("expected modification to be detected:\n%s", out.String())
		}
	})

	t.Run("unknown file is not recorded", func(t *testing.T) {
		other := filepath.Join(t.TempDir(), "other.json")
		if err := os.WriteFile(other, []byte(`{"elements":[]}`), 0600); err != nil {
			t.Fatalf("failed to write: %v", err)
		}
		var out bytes.Buffer
		if err := runInspect(context.Background(), &out, other, t.TempDir()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out.String(), "History:  not recorded") {
			t.Errorf("unexpected output:\n%s", out.String())
		}
	})

	t.Run("missing file is an error", func(t *testing.T) {
		if _, err := execute(t, "inspect", filepath.Join(dir, "missing.pdf")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}
