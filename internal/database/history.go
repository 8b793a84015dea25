package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver
)

// DBFileName is the name of the database file inside the data directory.
const DBFileName = "gdpreport.db"

// timeLayout has a fixed-width fraction so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned when no record matches a query.
var ErrNotFound = errors.New("record not found")

// HistoryDB stores the generation history of reports.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging so concurrent builds do not
	// block each other while recording.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in the given directory.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, DBFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite takes the open mode in the DSN: rw refuses to
	// create a missing file, rwc creates it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

// Path returns the database file path.
func (h *HistoryDB) Path() string {
	return h.dbPath
}

// Ping verifies the database connection is alive.
func (h *HistoryDB) Ping(ctx context.Context) error {
	return h.db.PingContext(ctx)
}

// createTables creates the database schema if it doesn't exist.
func (h *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id TEXT PRIMARY KEY,
		path TEXT NOT NULL,
		format TEXT NOT NULL,
		size INTEGER NOT NULL,
		digest TEXT NOT NULL,
		elements INTEGER NOT NULL,
		generated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_builds_path ON builds(path);
	CREATE INDEX IF NOT EXISTS idx_builds_generated_at ON builds(generated_at);
	`

	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// BuildRecord is one report written to disk.
type BuildRecord struct {
	ID          string
	Path        string
	Format      string
	Size        int64
	Digest      string
	Elements    int
	GeneratedAt time.Time
}

// InsertBuild stores a record. An empty ID is replaced with a new UUID and a
// zero GeneratedAt with the current time; both are written back to record.
func (h *HistoryDB) InsertBuild(ctx context.Context, record *BuildRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.GeneratedAt.IsZero() {
		record.GeneratedAt = time.Now()
	}

	query := `
	INSERT INTO builds (id, path, format, size, digest, elements, generated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := h.db.ExecContext(ctx, query,
		record.ID,
		record.Path,
		record.Format,
		record.Size,
		record.Digest,
		record.Elements,
		record.GeneratedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to insert build record: %w", err)
	}

	return nil
}

// LatestBuild returns the most recent record for a path.
// It returns ErrNotFound when the path was never built.
func (h *HistoryDB) LatestBuild(ctx context.Context, path string) (*BuildRecord, error) {
	query := `
	SELECT id, path, format, size, digest, elements, generated_at
	FROM builds
	WHERE path = ?
	ORDER BY generated_at DESC
	LIMIT 1
	`

	record, err := scanBuild(h.db.QueryRowContext(ctx, query, path))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest build: %w", err)
	}
	return record, nil
}

// ListBuilds returns up to limit records, newest first.
// A non-positive limit returns every record.
func (h *HistoryDB) ListBuilds(ctx context.Context, limit int) ([]BuildRecord, error) {
	query := `
	SELECT id, path, format, size, digest, elements, generated_at
	FROM builds
	ORDER BY generated_at DESC
	`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query builds: %w", err)
	}
	defer rows.Close()

	var results []BuildRecord
	for rows.Next() {
		record, err := scanBuild(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan build: %w", err)
		}
		results = append(results, *record)
	}

	return results, rows.Err()
}

// CountBuilds returns the number of stored records.
func (h *HistoryDB) CountBuilds(ctx context.Context) (int, error) {
	var count int
	if err := h.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM builds").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count builds: %w", err)
	}
	return count, nil
}

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanBuild(row rowScanner) (*BuildRecord, error) {
	var record BuildRecord
	var generatedAt string

	err := row.Scan(
		&record.ID,
		&record.Path,
		&record.Format,
		&record.Size,
		&record.Digest,
		&record.Elements,
		&generatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.GeneratedAt = parseTimestamp(generatedAt)
	return &record, nil
}

// timestampFormats contains the timestamp formats that may be stored.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
