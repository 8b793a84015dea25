package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/gdpreport/internal/config"
	"github.com/nao1215/gdpreport/internal/database"
	"github.com/nao1215/gdpreport/internal/document"
	applog "github.com/nao1215/gdpreport/internal/log"
	"github.com/nao1215/gdpreport/internal/model"
	"github.com/nao1215/gdpreport/internal/report"
)

// NewGenerateCmd creates the generate command.
func NewGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the report to disk",
		Long: `Generate writes the report to the output path, creating the directory if needed.
An existing file at the path is replaced; a failed build leaves no file behind.

Examples:
  # Write ./results/ListOfCountriesByGDP.pdf
  gdpreport generate

  # Write to a specific path
  gdpreport generate -o /tmp/gdp.pdf

  # Write PDF, Markdown and JSON next to each other
  gdpreport generate -o out/gdp.pdf -f pdf -f markdown -f json

  # Show the elements without writing anything
  gdpreport generate --dry-run

  # Use a custom report specification
  gdpreport generate -s myreport.yaml`,
		Args: cobra.NoArgs,
		RunE: runGenerateCmd,
	}

	addGenerateFlags(cmd)
	return cmd
}

// addGenerateFlags registers the flags shared by the root and generate commands.
func addGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "",
		"Report file path (default: $RESULT or ./results/"+config.DefaultResultFile+")")
	cmd.Flags().StringSliceP("format", "f", []string{config.DefaultFormat},
		"Output format: pdf, markdown or json (repeatable)")
	cmd.Flags().StringP("spec", "s", "",
		"Report specification file (default: "+config.DefaultSpecFile+" in current, home or config directory)")
	cmd.Flags().IntP("concurrency", "c", config.DefaultConcurrency,
		"Number of formats built at the same time")
	cmd.Flags().Bool("dry-run", false,
		"Print the report elements instead of writing files")
	cmd.Flags().Bool("no-history", false,
		"Do not record the build in the history database")
	cmd.Flags().String("creation-date", "",
		"Fixed PDF creation date (RFC 3339) for byte-identical builds")
	cmd.Flags().String("db-dir", "",
		"History database directory (default: XDG data directory)")
}

// runGenerateCmd executes the generate command.
func runGenerateCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runGenerate(ctx, cmd.OutOrStdout(), cfg, logger)
}

// commandContext returns the command's context, or Background when the
// command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// getVerboseFlag reads the verbose flag from the command or the root.
func getVerboseFlag(cmd *cobra.Command) bool {
	return getBoolFlag(cmd, "verbose")
}

// getBoolFlag reads a persistent bool flag, falling back to false.
func getBoolFlag(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		v, err = cmd.Root().PersistentFlags().GetBool(name)
		if err != nil {
			return false
		}
	}
	return v
}

// buildConfig creates a Config from cobra command flags and the environment.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := config.LoadEnv(); err != nil {
		return nil, err
	}

	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)
	cfg.LogJSON = getBoolFlag(cmd, "log-json")

	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}
	cfg.OutputPath, err = config.ResolveOutputPath(output)
	if err != nil {
		return nil, err
	}

	formats, err := cmd.Flags().GetStringSlice("format")
	if err != nil {
		return nil, err
	}
	if !cmd.Flags().Changed("format") {
		// Without an explicit format, an output path like report.md picks
		// its format from the extension.
		if f, ok := report.FormatFromPath(cfg.OutputPath); ok {
			formats = []string{string(f)}
		}
	}
	cfg.Formats = make([]string, 0, len(formats))
	for _, name := range formats {
		f, err := report.ParseFormat(name)
		if err != nil {
			return nil, err
		}
		cfg.Formats = append(cfg.Formats, string(f))
	}

	cfg.Concurrency, err = cmd.Flags().GetInt("concurrency")
	if err != nil {
		return nil, err
	}

	cfg.DryRun, err = cmd.Flags().GetBool("dry-run")
	if err != nil {
		return nil, err
	}

	noHistory, err := cmd.Flags().GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveHistory = !noHistory

	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if dbDir != "" {
		cfg.DBDir = dbDir
	}

	creationDate, err := cmd.Flags().GetString("creation-date")
	if err != nil {
		return nil, err
	}
	if creationDate != "" {
		cfg.CreationDate, err = time.Parse(time.RFC3339, creationDate)
		if err != nil {
			return nil, fmt.Errorf("invalid creation date %q: %w", creationDate, err)
		}
	}

	cfg.SpecFilePath, err = cmd.Flags().GetString("spec")
	if err != nil {
		return nil, err
	}
	cfg.Spec, err = loadSpec(cfg.SpecFilePath)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadSpec loads the report specification.
// If the user explicitly specified a file, it must exist. If no path was
// given and no file is found, the default specification is used.
func loadSpec(specPath string) (model.ReportSpec, error) {
	path := config.FindSpecFile(specPath)
	if path == "" {
		if specPath != "" {
			return model.ReportSpec{}, fmt.Errorf("%w: %s", config.ErrSpecNotFound, specPath)
		}
		return model.DefaultSpec(), nil
	}

	spec, err := config.LoadSpecFile(path)
	if err != nil {
		return model.ReportSpec{}, fmt.Errorf("failed to load spec file %s: %w", path, err)
	}
	return spec, nil
}

// setupLogger creates a structured logger from the configuration.
func setupLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	return applog.NewLogger(w, applog.Options{
		Verbose: cfg.Verbose,
		JSON:    cfg.LogJSON,
	})
}

// newBuilder creates the report builder described by the configuration.
func newBuilder(cfg *config.Config, logger *slog.Logger) *report.Builder {
	pdfOpts := []report.PDFOption{report.WithDocumentTitle(cfg.Spec.Title.Text)}
	if !cfg.CreationDate.IsZero() {
		pdfOpts = append(pdfOpts, report.WithCreationDate(cfg.CreationDate))
	}
	return report.NewBuilder(
		report.WithSpec(cfg.Spec),
		report.WithLogger(logger),
		report.WithPDFOptions(pdfOpts...),
	)
}

// runGenerate builds every requested format and records the results.
func runGenerate(ctx context.Context, out io.Writer, cfg *config.Config, logger *slog.Logger) error {
	builder := newBuilder(cfg, logger)

	if cfg.DryRun {
		return printElements(out, builder)
	}

	formats := make([]report.Format, 0, len(cfg.Formats))
	for _, name := range cfg.Formats {
		f, err := report.ParseFormat(name)
		if err != nil {
			return err
		}
		formats = append(formats, f)
	}

	batch := report.NewBatchBuilder(builder,
		report.WithConcurrency(cfg.Concurrency),
		report.WithBatchLogger(logger),
	)
	results, err := batch.BuildAll(ctx, report.TargetsFor(cfg.OutputPath, formats))
	if err != nil {
		return err
	}

	if cfg.SaveHistory {
		// The reports are already on disk; a history failure is not fatal.
		if err := recordHistory(ctx, cfg.DBDir, results, logger); err != nil {
			logger.Warn("failed to record build history", "error", err)
		}
	}

	for _, r := range results {
		fmt.Fprintf(out, "Created %s report: %s (%d bytes, blake2b-256 %s)\n",
			r.Format, r.Path, r.Size, r.Digest)
	}
	return nil
}

// printElements renders the report into a Recorder and lists what it received.
func printElements(out io.Writer, builder *report.Builder) error {
	rec := document.NewRecorder()
	if err := builder.Render(rec); err != nil {
		return err
	}
	for i, el := range rec.Elements() {
		fmt.Fprintf(out, "%2d  %s\n", i, describeElement(el))
	}
	return nil
}

// describeElement returns a one-line description of an element.
func describeElement(el model.Element) string {
	switch el := el.(type) {
	case model.BlankLine:
		return "blank"
	case model.Paragraph:
		return fmt.Sprintf("paragraph %q (%s %g %s, %s, %s)",
			el.Text, el.Style.FontFamily(), el.Style.Size, el.Style.Style, el.Style.Align, el.Style.Color)
	case model.Table:
		header := strings.Join(el.Header(), " | ")
		return fmt.Sprintf("table %dx%d, %g%% wide, header %q",
			len(el.Rows), el.Columns(), el.WidthPercent, header)
	default:
		return fmt.Sprintf("%T", el)
	}
}

// recordHistory stores each result in the history database and logs whether
// its content changed since the previous build of the same path.
func recordHistory(ctx context.Context, dbDir string, results []*report.Result, logger *slog.Logger) error {
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return err
	}
	defer db.Close()

	for _, r := range results {
		path, err := filepath.Abs(r.Path)
		if err != nil {
			path = r.Path
		}

		prev, err := db.LatestBuild(ctx, path)
		switch {
		case errors.Is(err, database.ErrNotFound):
			logger.Info("first build of report", "path", path)
		case err != nil:
			return err
		case prev.Digest == r.Digest:
			logger.Info("report unchanged since last build", "path", path, "previous", prev.GeneratedAt)
		default:
			logger.Info("report changed since last build", "path", path, "previous", prev.GeneratedAt)
		}

		record := &database.BuildRecord{
			Path:        path,
			Format:      string(r.Format),
			Size:        r.Size,
			Digest:      r.Digest,
			Elements:    r.Elements,
			GeneratedAt: r.GeneratedAt,
		}
		if err := db.InsertBuild(ctx, record); err != nil {
			return err
		}
		logger.Debug("build recorded", "id", record.ID, "path", path)
	}
	return nil
}
