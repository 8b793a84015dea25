// Package log provides the gdpreport logger, built on top of the standard
// slog package.
//
// This package extends slog to provide:
//   - Home directory shortening in path values ("/home/alice/r.pdf" becomes "~/r.pdf")
//   - Masking of credentials that reach the report server through HTTP headers
//   - Text or JSON output with verbose mode support
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, log.Options{Verbose: true})
//	logger.Info("report written", "path", "/home/alice/results/ListOfCountriesByGDP.pdf")
//	// path=~/results/ListOfCountriesByGDP.pdf
//
//	slog.SetDefault(logger)
package log
