package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/typescore/internal/model"
)

// HistoryDB stores completed scoring runs in a single SQLite file.
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

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Run describes one stored scoring run.
type Run struct {
	// ID is the run's primary key, shown by "compare --list".
	ID int64

	// StartedAt is when the run began.
	StartedAt time.Time

	// PackagesFile is the input list the run scored.
	PackagesFile string

	// Packages is the number of distinct packages in the run.
	Packages int

	// Verbose records whether the run used the extended column set.
	Verbose bool
}

// Open opens or creates a HistoryDB under dbDir.
// If CreateIfNotExists is false and no database exists, an error is
// returned instead of silently creating an empty history.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, "typescore.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("history database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to refuse creating new files and
	// mode=rwc to allow creation.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; keep the pool at a single
	// connection to avoid lock contention.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close() //nolint:errcheck // Best effort cleanup
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close() //nolint:errcheck // Best effort cleanup
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- Runs store one record per completed scoring run
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		packages_file TEXT NOT NULL,
		packages INTEGER NOT NULL,
		verbose INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	-- Scores store the report rows of each run
	CREATE TABLE IF NOT EXISTS scores (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		package TEXT NOT NULL,
		module TEXT NOT NULL,
		score REAL NOT NULL,
		succeeded INTEGER NOT NULL,
		version TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_scores_run ON scores(run_id);
	CREATE INDEX IF NOT EXISTS idx_scores_package ON scores(package);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRun stores a completed run with all its rows in one transaction and
// returns the new run ID.
func (hdb *HistoryDB) SaveRun(ctx context.Context, packagesFile string, verbose bool, rows []model.ReportRow) (int64, error) {
	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	summary := model.NewRunSummary(rows)
	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (packages_file, packages, verbose) VALUES (?, ?, ?)`,
		packagesFile, summary.Packages, verbose,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO scores (run_id, package, module, score, succeeded, version) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare score insert: %w", err)
	}
	defer stmt.Close() //nolint:errcheck // Statement dies with the transaction

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx,
			runID, row.PackageName, row.ModuleName, row.Score, row.Succeeded, row.Version,
		); err != nil {
			return 0, fmt.Errorf("failed to insert score row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// ListRuns returns stored runs, newest first, up to limit (0 means all).
func (hdb *HistoryDB) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, started_at, packages_file, packages, verbose FROM runs ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only cursor

	var runs []Run
	for rows.Next() {
		var r Run
		var startedAt string
		if err := rows.Scan(&r.ID, &startedAt, &r.PackagesFile, &r.Packages, &r.Verbose); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.StartedAt = parseTimestamp(startedAt)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunScores returns the stored rows of a run in their original order.
func (hdb *HistoryDB) RunScores(ctx context.Context, runID int64) ([]model.ReportRow, error) {
	rows, err := hdb.db.QueryContext(ctx,
		`SELECT package, module, score, succeeded, version FROM scores WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query scores: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only cursor

	var out []model.ReportRow
	for rows.Next() {
		var row model.ReportRow
		if err := rows.Scan(&row.PackageName, &row.ModuleName, &row.Score, &row.Succeeded, &row.Version); err != nil {
			return nil, fmt.Errorf("failed to scan score row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// parseTimestamp handles the timestamp formats SQLite may return
// depending on version and configuration.
func parseTimestamp(s string) time.Time {
	formats := []string{
		"2006-01-02 15:04:05",
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
