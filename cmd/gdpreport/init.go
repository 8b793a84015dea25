package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/gdpreport/internal/config"
)

//go:embed templates/gdpreport.yaml
var specTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a report specification file",
		Long: `Init creates a new .gdpreport.yaml report specification in the current directory.

The generated file holds the default title and footer with their styles,
plus a commented example of the table rows. Edit it to change the report
content; generate picks it up automatically.

Examples:
  # Create .gdpreport.yaml in current directory
  gdpreport init

  # Create the file at a specific path
  gdpreport init -o myreport.yaml

  # Force overwrite existing file
  gdpreport init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultSpecFile,
		"Output file path for the report spec file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing specification file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("specification file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := specTemplate.ReadFile("templates/gdpreport.yaml")
	if err != nil {
		return fmt.Errorf("failed to read spec template: %w", err)
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write specification file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created specification file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to change:")
	fmt.Fprintln(out, "  - Title and footer text")
	fmt.Fprintln(out, "  - Fonts, sizes, alignment and colors")
	fmt.Fprintln(out, "  - Table rows and column widths")

	return nil
}
