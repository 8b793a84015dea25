// Package database provides SQLite-based storage for gdpreport.
//
// This package implements the HistoryDB, which records every report written
// to disk: where it went, in which format, how large it was and the digest of
// its content. Comparing digests tells whether a rebuild changed anything.
//
// Design decision: We use SQLite (via modernc.org/sqlite) because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for a handful of records per run
package database
