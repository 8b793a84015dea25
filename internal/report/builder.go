package report

import (
	"context"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/nao1215/gdpreport/internal/document"
	"github.com/nao1215/gdpreport/internal/model"
)

// Result describes a report written to disk.
type Result struct {
	// Path is the destination file.
	Path string
	// Format is the format that was written.
	Format Format
	// Size is the file size in bytes.
	Size int64
	// Digest is the hex encoded BLAKE2b-256 digest of the file content.
	Digest string
	// Elements is the number of elements emitted.
	Elements int
	// GeneratedAt is the time the build finished.
	GeneratedAt time.Time
}

// Builder assembles the report element list and writes it out.
// A Builder is immutable after construction and safe for concurrent use.
type Builder struct {
	spec    model.ReportSpec
	format  Format
	logger  *slog.Logger
	pdfOpts []PDFOption
	now     func() time.Time
}

// Option configures a Builder.
type Option func(*Builder)

// WithSpec replaces the default countries-by-GDP content.
func WithSpec(spec model.ReportSpec) Option {
	return func(b *Builder) {
		b.spec = spec
	}
}

// WithFormat fixes the output format. Without it, Build infers the format
// from the file extension and falls back to PDF.
func WithFormat(f Format) Option {
	return func(b *Builder) {
		b.format = f
	}
}

// WithLogger sets a custom logger for the builder.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// WithPDFOptions passes options to every PDFWriter the builder creates.
func WithPDFOptions(opts ...PDFOption) Option {
	return func(b *Builder) {
		b.pdfOpts = append(b.pdfOpts, opts...)
	}
}

// WithClock sets the time source used for Result.GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		b.now = now
	}
}

// NewBuilder creates a Builder for the default report unless WithSpec is given.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		spec: model.DefaultSpec(),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	return b
}

// Spec returns the report specification.
func (b *Builder) Spec() model.ReportSpec {
	return b.spec
}

// ForFormat returns a copy of the builder that writes the given format.
func (b *Builder) ForFormat(f Format) *Builder {
	c := *b
	c.format = f
	return &c
}

// Elements returns the emission list: blank lines, title, blank lines,
// table, blank lines, footer. Each call returns a fresh list.
func (b *Builder) Elements() []model.Element {
	spacing := max(b.spec.Spacing, 0)
	elements := make([]model.Element, 0, 3*spacing+3)

	blanks := func() {
		for range spacing {
			elements = append(elements, model.BlankLine{})
		}
	}

	blanks()
	elements = append(elements, b.spec.Title.Paragraph())
	blanks()
	elements = append(elements, b.spec.Table.Clone())
	blanks()
	elements = append(elements, b.spec.Footer.Paragraph())

	return elements
}

// Render drives w through the element list.
func (b *Builder) Render(w document.Writer) error {
	return document.Render(w, b.Elements())
}

// WriteTo renders the report in format f to out.
func (b *Builder) WriteTo(out io.Writer, f Format) error {
	if err := b.spec.Validate(); err != nil {
		return fmt.Errorf("invalid report specification: %w", err)
	}

	w, err := NewWriter(f, out, b.pdfOpts...)
	if err != nil {
		return err
	}
	return b.Render(w)
}

// Build writes the report to outputPath, creating or overwriting the file.
//
// The parent directory is created when missing. The content is written to a
// temporary file in the same directory and renamed over outputPath on
// success; on failure the temporary file is removed, so no partial report
// is ever visible. File system failures are returned as *IOError.
func (b *Builder) Build(ctx context.Context, outputPath string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := b.spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report specification: %w", err)
	}

	format := b.resolveFormat(outputPath)
	dir := filepath.Dir(outputPath)

	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, &IOError{Op: "create directory", Path: dir, Err: err}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(outputPath)+".*.tmp")
	if err != nil {
		return nil, &IOError{Op: "create", Path: outputPath, Err: err}
	}
	tmpName := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()        //nolint:errcheck // already failing
			_ = os.Remove(tmpName) //nolint:errcheck // best effort cleanup
		}
	}()

	digest := newDigest()
	sink := &fileSink{file: tmp, hash: digest}

	if err := b.WriteTo(sink, format); err != nil {
		if sink.err != nil {
			return nil, &IOError{Op: "write", Path: outputPath, Err: sink.err}
		}
		return nil, fmt.Errorf("failed to render %s report: %w", format, err)
	}

	if err := tmp.Chmod(0644); err != nil {
		return nil, &IOError{Op: "chmod", Path: tmpName, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return nil, &IOError{Op: "close", Path: tmpName, Err: err}
	}
	if err := os.Rename(tmpName, outputPath); err != nil {
		return nil, &IOError{Op: "rename", Path: outputPath, Err: err}
	}
	committed = true

	result := &Result{
		Path:        outputPath,
		Format:      format,
		Size:        sink.n,
		Digest:      hex.EncodeToString(digest.Sum(nil)),
		Elements:    len(b.Elements()),
		GeneratedAt: b.now(),
	}

	b.logger.Info("report written",
		"path", result.Path,
		"format", result.Format,
		"bytes", result.Size,
		"digest", result.Digest,
	)

	return result, nil
}

// resolveFormat picks the configured format, then the file extension, then PDF.
func (b *Builder) resolveFormat(path string) Format {
	if b.format != "" {
		return b.format
	}
	if f, ok := FormatFromPath(path); ok {
		return f
	}
	return FormatPDF
}

// fileSink writes to the temporary file while hashing and counting bytes.
// It remembers the first write error so file system failures can be told
// apart from layout failures.
type fileSink struct {
	file *os.File
	hash hash.Hash
	n    int64
	err  error
}

func (s *fileSink) Write(p []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	n, err := s.file.Write(p)
	s.n += int64(n)
	_, _ = s.hash.Write(p[:n]) //nolint:errcheck // hash writes never fail
	if err != nil {
		s.err = err
	}
	return n, err
}
