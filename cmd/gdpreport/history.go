package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/spf13/cobra"

	"github.com/nao1215/gdpreport/internal/config"
	"github.com/nao1215/gdpreport/internal/database"
)

// digestPrefixLen is the number of digest characters shown in the table.
const digestPrefixLen = 12

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently generated reports",
		Long: `History lists the most recent builds recorded by generate as a Markdown table.

Examples:
  # Show the last 20 builds
  gdpreport history

  # Show the last 5 builds
  gdpreport history -n 5`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", config.DefaultHistoryLimit,
		"Maximum number of builds to list (0 lists all)")
	cmd.Flags().String("db-dir", "",
		"History database directory (default: XDG data directory)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	return runHistory(commandContext(cmd), cmd.OutOrStdout(), dbDir, limit)
}

// runHistory prints the build history stored in dbDir.
func runHistory(ctx context.Context, out io.Writer, dbDir string, limit int) error {
	if _, err := os.Stat(filepath.Join(dbDir, database.DBFileName)); os.IsNotExist(err) {
		fmt.Fprintln(out, "No reports have been generated yet.")
		return nil
	}

	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false})
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := db.ListBuilds(ctx, limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(out, "No reports have been generated yet.")
		return nil
	}

	return renderHistory(out, records)
}

// renderHistory writes the records as a Markdown table.
func renderHistory(out io.Writer, records []database.BuildRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		digest := r.Digest
		if len(digest) > digestPrefixLen {
			digest = digest[:digestPrefixLen]
		}
		rows = append(rows, []string{
			r.GeneratedAt.Local().Format(time.DateTime),
			r.Format,
			r.Path,
			strconv.FormatInt(r.Size, 10),
			digest,
		})
	}

	return markdown.NewMarkdown(out).
		H2("Report History").
		Table(markdown.TableSet{
			Header: []string{"Generated", "Format", "Path", "Bytes", "Digest"},
			Rows:   rows,
		}).
		Build()
}
