// Package main provides the entry point for the gdpreport CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for gdpreport.
// Running the root command without a subcommand generates the report.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gdpreport",
		Short: "Generate the Top 10 countries by GDP report",
		Long: `gdpreport writes a one-page "Top 10 countries by GDP" report.

Without a subcommand the report is generated, exactly like "gdpreport generate".
The output path is taken from --output, then the RESULT environment variable
(also read from a .env file), then ./results/ListOfCountriesByGDP.pdf.`,
		Version:       getVersion(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runGenerateCmd,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")

	addGenerateFlags(cmd)

	// Add subcommands
	cmd.AddCommand(NewGenerateCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInspectCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
