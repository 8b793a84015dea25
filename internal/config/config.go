package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"

	"github.com/nao1215/gdpreport/internal/model"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "gdpreport"

	// EnvResult names the environment variable holding the output path.
	EnvResult = "RESULT"

	// DefaultResultDir is the directory, relative to the working directory,
	// that receives the report.
	DefaultResultDir = "results"

	// DefaultResultFile is the report file name.
	DefaultResultFile = "ListOfCountriesByGDP.pdf"

	// DefaultFormat is the output format when none is requested.
	DefaultFormat = "pdf"

	// DefaultConcurrency is the number of formats built at the same time.
	DefaultConcurrency = 3

	// DefaultListenAddress is the address used by the serve command.
	// We bind to loopback so the server is not exposed by accident.
	DefaultListenAddress = "127.0.0.1:8080"

	// DefaultShutdownTimeout bounds graceful server shutdown.
	DefaultShutdownTimeout = 10 * time.Second

	// DefaultHistoryLimit is the number of history records listed.
	DefaultHistoryLimit = 20
)

// Config holds all configuration options for gdpreport.
// This struct is populated from CLI flags and the environment and passed
// through the application rather than kept in global state.
//
// Design decision: We use a single flat struct instead of nested structs.
// The number of options is small, and nesting would add complexity without
// significant benefit.
type Config struct {
	// OutputPath is the report file path. When several formats are built,
	// the extension is replaced per format.
	OutputPath string

	// Formats lists the output formats to build ("pdf", "markdown", "json").
	Formats []string

	// Concurrency is the number of formats built at the same time.
	Concurrency int

	// SpecFilePath is the path to a YAML report specification.
	// If empty, the tool searches the working directory, the home directory
	// and the XDG config directory for DefaultSpecFile.
	SpecFilePath string

	// Spec is the report content. Defaults to model.DefaultSpec().
	Spec model.ReportSpec

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// LogJSON switches the log handler to JSON output.
	LogJSON bool

	// DryRun prints the element list instead of writing files.
	DryRun bool

	// SaveHistory records each build in the history database.
	SaveHistory bool

	// DBDir is the directory holding the history database.
	// Defaults to the XDG data directory (~/.local/share/gdpreport on Linux).
	DBDir string

	// CreationDate, when non-zero, is recorded in PDF output instead of the
	// current time so repeated builds are byte-identical.
	CreationDate time.Time

	// ListenAddress is the address the serve command binds to.
	ListenAddress string

	// ShutdownTimeout bounds graceful server shutdown.
	ShutdownTimeout time.Duration
}

// NewConfig creates a new Config with default values.
// The output path is left empty; use ResolveOutputPath to fill it from the
// flag, the environment or the working directory.
func NewConfig() *Config {
	return &Config{
		Formats:         []string{DefaultFormat},
		Concurrency:     DefaultConcurrency,
		Spec:            model.DefaultSpec(),
		SaveHistory:     true,
		DBDir:           XDGDataDir(),
		ListenAddress:   DefaultListenAddress,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

// DefaultOutputPath returns <working-dir>/results/ListOfCountriesByGDP.pdf.
func DefaultOutputPath() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to determine working directory: %w", err)
	}
	return filepath.Join(cwd, DefaultResultDir, DefaultResultFile), nil
}

// ResolveOutputPath picks the output path in order of precedence:
// the explicit flag value, the RESULT environment variable, the default.
func ResolveOutputPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if env := os.Getenv(EnvResult); env != "" {
		return env, nil
	}
	return DefaultOutputPath()
}

// LoadEnv loads variables from .env files into the process environment.
// Missing files are ignored; variables already set are not overridden.
// With no arguments, .env in the working directory is read.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// XDGDataDir returns the XDG data directory for gdpreport.
// On Linux: ~/.local/share/gdpreport
// On macOS: ~/Library/Application Support/gdpreport
// On Windows: %LOCALAPPDATA%\gdpreport
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for gdpreport.
// On Linux: ~/.config/gdpreport
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if c.OutputPath == "" && !c.DryRun {
		return ErrNoOutputPath
	}

	if len(c.Formats) == 0 {
		return ErrNoFormat
	}
	seen := make(map[string]bool, len(c.Formats))
	for _, f := range c.Formats {
		if seen[f] {
			return fmt.Errorf("%w: %s", ErrDuplicateFormat, f)
		}
		seen[f] = true
	}

	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	if err := c.Spec.Validate(); err != nil {
		return fmt.Errorf("invalid report specification: %w", err)
	}

	return nil
}

// ValidateServer checks the options used by the serve command.
func (c *Config) ValidateServer() error {
	if c.ListenAddress == "" {
		return ErrNoListenAddress
	}
	if err := c.Spec.Validate(); err != nil {
		return fmt.Errorf("invalid report specification: %w", err)
	}
	return nil
}
