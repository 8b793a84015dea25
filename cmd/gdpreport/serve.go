package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/gdpreport/internal/config"
	"github.com/nao1215/gdpreport/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the report over HTTP",
		Long: `Serve renders the report on every request.

Endpoints:
  GET /healthz       health check
  GET /report.pdf    the report as PDF
  GET /report.md     the report as Markdown
  GET /report.json   the report elements as JSON

Examples:
  # Listen on the default loopback address
  gdpreport serve

  # Listen on all interfaces
  gdpreport serve --listen :8080`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("listen", "l", config.DefaultListenAddress,
		"Address to listen on")
	cmd.Flags().Duration("shutdown-timeout", config.DefaultShutdownTimeout,
		"Time allowed for in-flight requests on shutdown")
	cmd.Flags().StringP("spec", "s", "",
		"Report specification file (default: "+config.DefaultSpecFile+" in current, home or config directory)")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	if err := config.LoadEnv(); err != nil {
		return err
	}

	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)
	cfg.LogJSON = getBoolFlag(cmd, "log-json")

	var err error
	cfg.ListenAddress, err = cmd.Flags().GetString("listen")
	if err != nil {
		return err
	}
	cfg.ShutdownTimeout, err = cmd.Flags().GetDuration("shutdown-timeout")
	if err != nil {
		return err
	}
	cfg.SpecFilePath, err = cmd.Flags().GetString("spec")
	if err != nil {
		return err
	}
	cfg.Spec, err = loadSpec(cfg.SpecFilePath)
	if err != nil {
		return err
	}
	if err := cfg.ValidateServer(); err != nil {
		return err
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(newBuilder(cfg, logger),
		server.WithAddress(cfg.ListenAddress),
		server.WithLogger(logger),
		server.WithShutdownTimeout(cfg.ShutdownTimeout),
	)
	return srv.Run(ctx)
}
