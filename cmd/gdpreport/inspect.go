package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/gdpreport/internal/config"
	"github.com/nao1215/gdpreport/internal/database"
	"github.com/nao1215/gdpreport/internal/report"
)

// NewInspectCmd creates the inspect command.
func NewInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <report-file>",
		Short: "Show metadata of a generated report",
		Long: `Inspect prints the digest of a report file and, for PDF files, the document
information (creator, title, dates, page count). The digest is compared with
the last build of the same path recorded in the history database, which tells
whether the file was modified after it was generated.

Examples:
  gdpreport inspect results/ListOfCountriesByGDP.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: runInspectCmd,
	}

	cmd.Flags().String("db-dir", "",
		"History database directory (default: XDG data directory)")

	return cmd
}

// runInspectCmd executes the inspect command.
func runInspectCmd(cmd *cobra.Command, args []string) error {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}
	return runInspect(commandContext(cmd), cmd.OutOrStdout(), args[0], dbDir)
}

// runInspect prints what is known about the report at path.
func runInspect(ctx context.Context, out io.Writer, path, dbDir string) error {
	digest, size, err := report.DigestFile(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "File:     %s\n", path)
	fmt.Fprintf(out, "Size:     %d bytes\n", size)
	fmt.Fprintf(out, "Digest:   %s\n", digest)

	if f, ok := report.FormatFromPath(path); !ok || f == report.FormatPDF {
		info, err := report.InspectPDFFile(path)
		switch {
		case errors.Is(err, report.ErrNotPDF):
			// Not every report is a PDF; the digest is still useful.
		case err != nil:
			return err
		default:
			printPDFInfo(out, info)
		}
	}

	status, err := historyStatus(ctx, dbDir, path, digest)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "History:  %s\n", status)
	return nil
}

func printPDFInfo(out io.Writer, info *report.PDFInfo) {
	fmt.Fprintf(out, "PDF:      %s\n", info.Version)
	fmt.Fprintf(out, "Pages:    %d\n", info.Pages)
	if info.Title != "" {
		fmt.Fprintf(out, "Title:    %s\n", info.Title)
	}
	fmt.Fprintf(out, "Creator:  %s\n", info.Creator)
	fmt.Fprintf(out, "Producer: %s\n", info.Producer)
	if !info.CreationDate.IsZero() {
		fmt.Fprintf(out, "Created:  %s\n", info.CreationDate.Format(time.RFC3339))
	}
}

// historyStatus compares digest with the last recorded build of path.
func historyStatus(ctx context.Context, dbDir, path, digest string) (string, error) {
	if _, err := os.Stat(filepath.Join(dbDir, database.DBFileName)); os.IsNotExist(err) {
		return "not recorded", nil
	}

	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false})
	if err != nil {
		return "", err
	}
	defer db.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	prev, err := db.LatestBuild(ctx, abs)
	switch {
	case errors.Is(err, database.ErrNotFound):
		return "not recorded", nil
	case err != nil:
		return "", err
	case prev.Digest == digest:
		return fmt.Sprintf("matches build %s from %s", prev.ID, prev.GeneratedAt.Local().Format(time.DateTime)), nil
	default:
		return fmt.Sprintf("modified since build %s from %s", prev.ID, prev.GeneratedAt.Local().Format(time.DateTime)), nil
	}
}
