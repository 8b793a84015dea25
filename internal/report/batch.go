package report

import (
	"context"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/gdpreport/internal/config"
)

// Target is one output of a batch build.
type Target struct {
	Path   string
	Format Format
}

// TargetsFor derives one target per format from a single output path.
// The format that owns the path writes to it verbatim: the format named by
// the path's extension when it was requested, otherwise the first format.
// Every other format gets the path with its own extension, replacing a
// known report extension.
func TargetsFor(outputPath string, formats []Format) []Target {
	if len(formats) == 0 {
		return nil
	}

	owner := formats[0]
	base := outputPath
	if inferred, ok := FormatFromPath(outputPath); ok {
		if slices.Contains(formats, inferred) {
			owner = inferred
		}
		base = strings.TrimSuffix(outputPath, filepath.Ext(outputPath))
	}

	targets := make([]Target, 0, len(formats))
	for _, f := range formats {
		path := outputPath
		if f != owner {
			path = base + f.Extension()
		}
		targets = append(targets, Target{Path: path, Format: f})
	}
	return targets
}

// BatchBuilder builds several outputs of the same report concurrently.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because each output is an independent build with its own writer and
// file; errgroup gives bounded concurrency and first-error cancellation.
type BatchBuilder struct {
	builder     *Builder
	concurrency int
	logger      *slog.Logger
}

// BatchOption configures a BatchBuilder.
type BatchOption func(*BatchBuilder)

// WithConcurrency sets the maximum number of concurrent builds.
func WithConcurrency(n int) BatchOption {
	return func(bb *BatchBuilder) {
		if n > 0 {
			bb.concurrency = n
		}
	}
}

// WithBatchLogger sets a custom logger for batch-level logging.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(bb *BatchBuilder) {
		bb.logger = logger
	}
}

// NewBatchBuilder creates a BatchBuilder around b.
func NewBatchBuilder(b *Builder, opts ...BatchOption) *BatchBuilder {
	bb := &BatchBuilder{
		builder:     b,
		concurrency: config.DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(bb)
	}
	if bb.logger == nil {
		bb.logger = slog.Default()
	}
	return bb
}

// BuildAll writes every target. Results are returned in target order.
// The first failure cancels the builds that have not started yet and is
// returned; outputs that already succeeded stay on disk.
func (bb *BatchBuilder) BuildAll(ctx context.Context, targets []Target) ([]*Result, error) {
	bb.logger.Debug("starting batch build",
		"targets", len(targets),
		"concurrency", bb.concurrency,
	)
	startTime := time.Now()

	results := make([]*Result, len(targets))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bb.concurrency)

	for i, target := range targets {
		g.Go(func() error {
			res, err := bb.builder.ForFormat(target.Format).Build(ctx, target.Path)
			if err != nil {
				bb.logger.Warn("build failed",
					"path", target.Path,
					"format", target.Format,
					"error", err,
				)
				return err
			}
			// Each goroutine writes its own index.
			results[i] = res
			return nil
		})
	}

	err := g.Wait()

	bb.logger.Debug("batch build complete",
		"targets", len(targets),
		"elapsed", time.Since(startTime),
	)

	return results, err
}
