package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/gitpan/rgetlinks/internal/model"
)

// LinkDB persists the records of one traversal run to a SQLite file.
//
// The database holds exactly one run: Open truncates any previous content.
// This keeps the export a pure function of the current invocation, so the
// crawl itself stays stateless across runs. Anyone who wants history can
// point --db at a different file per run.
type LinkDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Open opens or creates a LinkDB at the specified file path, creating parent
// directories as needed, and clears any records from a previous run.
func Open(dbPath string) (*LinkDB, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string; mode=rwc allows file creation.
	db, err := sql.Open("sqlite", dbPath+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	ldb := &LinkDB{
		db:     db,
		dbPath: dbPath,
	}

	if err := ldb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	if err := ldb.truncate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to clear previous run: %w", err)
	}

	return ldb, nil
}

// Close closes the database connection.
func (ldb *LinkDB) Close() error {
	return ldb.db.Close()
}

// Path returns the database file path.
func (ldb *LinkDB) Path() string {
	return ldb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (ldb *LinkDB) createTables() error {
	schema := `
	-- One row per emitted record, in emission order (ascending id).
	CREATE TABLE IF NOT EXISTS links (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL,
		depth INTEGER NOT NULL,
		discovered_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_links_depth ON links(depth);

	-- One row per run describing what produced the links table.
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		start_url TEXT NOT NULL,
		max_depth INTEGER NOT NULL,
		pages INTEGER NOT NULL,
		failures INTEGER NOT NULL,
		skipped INTEGER NOT NULL,
		elapsed_ms INTEGER NOT NULL,
		finished_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := ldb.db.ExecContext(context.Background(), schema)
	return err
}

// truncate removes the records of any previous run.
func (ldb *LinkDB) truncate() error {
	_, err := ldb.db.ExecContext(context.Background(), "DELETE FROM links; DELETE FROM runs;")
	return err
}

// InsertRecord appends a single record. SaveResult is preferred for whole
// runs; this exists for callers that persist records as they stream in.
func (ldb *LinkDB) InsertRecord(ctx context.Context, rec model.LinkRecord) error {
	if _, err := ldb.db.ExecContext(ctx,
		"INSERT INTO links (url, depth) VALUES (?, ?)", rec.URL, rec.Depth,
	); err != nil {
		return fmt.Errorf("failed to insert link %s: %w", rec.URL, err)
	}
	return nil
}

// SaveResult writes a complete traversal result in one transaction.
// Either everything is persisted or nothing is.
func (ldb *LinkDB) SaveResult(ctx context.Context, result *model.CrawlResult) error {
	tx, err := ldb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO links (url, depth) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, rec := range result.Records {
		if _, err := stmt.ExecContext(ctx, rec.URL, rec.Depth); err != nil {
			return fmt.Errorf("failed to insert link %s: %w", rec.URL, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO runs (id, start_url, max_depth, pages, failures, skipped, elapsed_ms) VALUES (1, ?, ?, ?, ?, ?, ?)",
		result.StartURL, result.MaxDepth,
		result.Stats.Pages, result.Stats.Failures, result.Stats.Skipped,
		result.Elapsed.Milliseconds(),
	); err != nil {
		return fmt.Errorf("failed to insert run summary: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Records returns the persisted records in emission order.
func (ldb *LinkDB) Records(ctx context.Context) ([]model.LinkRecord, error) {
	rows, err := ldb.db.QueryContext(ctx, "SELECT url, depth FROM links ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query links: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.LinkRecord
	for rows.Next() {
		var rec model.LinkRecord
		if err := rows.Scan(&rec.URL, &rec.Depth); err != nil {
			return nil, fmt.Errorf("failed to scan link row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate link rows: %w", err)
	}

	return records, nil
}

// CountByDepth returns the number of persisted records at each depth.
func (ldb *LinkDB) CountByDepth(ctx context.Context) (map[int]int, error) {
	rows, err := ldb.db.QueryContext(ctx, "SELECT depth, COUNT(*) FROM links GROUP BY depth")
	if err != nil {
		return nil, fmt.Errorf("failed to query depth counts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[int]int)
	for rows.Next() {
		var depth, count int
		if err := rows.Scan(&depth, &count); err != nil {
			return nil, fmt.Errorf("failed to scan count row: %w", err)
		}
		counts[depth] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate count rows: %w", err)
	}

	return counts, nil
}
