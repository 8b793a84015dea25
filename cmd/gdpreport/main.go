// Package main provides the entry point for the gdpreport CLI.
//
// gdpreport writes the "Top 10 countries by GDP" report as PDF, Markdown or
// JSON, records every build in a local history database and can serve the
// report over HTTP.
//
// Usage:
//
//	gdpreport
//	gdpreport generate -o report.pdf -f pdf -f markdown
//	gdpreport serve --listen 127.0.0.1:8080
//
// See --help for all available options.
package main

// main is the entry point for gdpreport.
func main() {
	Execute()
}
