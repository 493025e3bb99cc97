package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/fdacrawl/refusalscan/internal/model"
)

// DatabaseFile is the SQLite file name inside the database directory.
const DatabaseFile = "refusalscan.db"

// RefusalDB provides SQLite-based storage for crawl runs and the refusal
// records they produced. Runs accumulate in one database file so the
// history command can compare crawls over time.
type RefusalDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures RefusalDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a RefusalDB under the given directory.
// With CreateIfNotExists the directory and database file are created as
// needed; without it a missing database is an error.
func Open(dbDir string, opts Options) (*RefusalDB, error) {
	dbPath := filepath.Join(dbDir, DatabaseFile)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating a
	// new file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports only one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &RefusalDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return rdb, nil
}

// Close closes the database connection.
func (rdb *RefusalDB) Close() error {
	return rdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (rdb *RefusalDB) createTables() error {
	schema := `
	-- One row per crawl invocation
	CREATE TABLE IF NOT EXISTS crawl_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		seed_url TEXT NOT NULL,
		date_crawled DATETIME DEFAULT CURRENT_TIMESTAMP,
		pages_visited INTEGER NOT NULL DEFAULT 0,
		record_count INTEGER NOT NULL DEFAULT 0,
		branch_errors TEXT,
		error TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_seed ON crawl_runs(seed_url);
	CREATE INDEX IF NOT EXISTS idx_runs_date ON crawl_runs(date_crawled);

	-- Refusal records keep their dynamic field schema as ordered JSON;
	-- position preserves the flattened traversal order within a run
	CREATE TABLE IF NOT EXISTS refusals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES crawl_runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		source_url TEXT NOT NULL,
		fields TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_refusals_run ON refusals(run_id);

	CREATE TABLE IF NOT EXISTS charges (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		refusal_id INTEGER NOT NULL REFERENCES refusals(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		fields TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_charges_refusal ON charges(refusal_id);
	`

	_, err := rdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveReport stores a crawl report and all of its records in one
// transaction and returns the new run's ID. A report is stored even when
// the run failed; the failure is recorded on the run row.
func (rdb *RefusalDB) SaveReport(ctx context.Context, report *model.CrawlReport) (int64, error) {
	tx, err := rdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	branchJSON, err := json.Marshal(report.BranchErrors)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize branch errors: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
	INSERT INTO crawl_runs (seed_url, date_crawled, pages_visited, record_count, branch_errors, error)
	VALUES (?, ?, ?, ?, ?, ?)
	`,
		report.SeedURL,
		report.DateCrawled.UTC().Format("2006-01-02 15:04:05"),
		report.PagesVisited,
		report.RecordCount(),
		string(branchJSON),
		report.ErrorMessage,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert crawl run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run ID: %w", err)
	}

	for i, record := range report.Records {
		fieldsJSON, err := json.Marshal(record.Fields)
		if err != nil {
			return 0, fmt.Errorf("failed to serialize record fields: %w", err)
		}

		res, err := tx.ExecContext(ctx, `
		INSERT INTO refusals (run_id, position, source_url, fields)
		VALUES (?, ?, ?, ?)
		`, runID, i, record.SourceURL, string(fieldsJSON))
		if err != nil {
			return 0, fmt.Errorf("failed to insert refusal: %w", err)
		}

		refusalID, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("failed to read refusal ID: %w", err)
		}

		for j, charge := range record.Charges {
			chargeJSON, err := json.Marshal(charge)
			if err != nil {
				return 0, fmt.Errorf("failed to serialize charge: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `
			INSERT INTO charges (refusal_id, position, fields)
			VALUES (?, ?, ?)
			`, refusalID, j, string(chargeJSON)); err != nil {
				return 0, fmt.Errorf("failed to insert charge: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}

	return runID, nil
}

// RunMetadata summarizes a stored crawl run without loading its records.
type RunMetadata struct {
	// ID is the run's database identifier.
	ID int64

	// SeedURL is the URL the run started from.
	SeedURL string

	// DateCrawled is when the run was performed.
	DateCrawled time.Time

	// PagesVisited counts the pages fetched during the run.
	PagesVisited int

	// RecordCount counts the refusal records the run extracted.
	RecordCount int

	// ErrorMessage is the fatal error of a failed run, empty otherwise.
	ErrorMessage string
}

// ListRuns returns metadata for all stored runs, newest first.
func (rdb *RefusalDB) ListRuns(ctx context.Context) ([]RunMetadata, error) {
	rows, err := rdb.db.QueryContext(ctx, `
	SELECT id, seed_url, date_crawled, pages_visited, record_count, error
	FROM crawl_runs
	ORDER BY date_crawled DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := make([]RunMetadata, 0)
	for rows.Next() {
		var meta RunMetadata
		var timestamp string
		var errMsg sql.NullString

		if err := rows.Scan(&meta.ID, &meta.SeedURL, &timestamp,
			&meta.PagesVisited, &meta.RecordCount, &errMsg); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		meta.DateCrawled = parseTimestamp(timestamp)
		meta.ErrorMessage = errMsg.String
		runs = append(runs, meta)
	}

	return runs, rows.Err()
}

// GetRunRecords loads the refusal records of one run, in their original
// flattened order, with charges attached.
func (rdb *RefusalDB) GetRunRecords(ctx context.Context, runID int64) ([]*model.RefusalRecord, error) {
	rows, err := rdb.db.QueryContext(ctx, `
	SELECT id, source_url, fields
	FROM refusals
	WHERE run_id = ?
	ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query refusals: %w", err)
	}
	defer rows.Close()

	records := make([]*model.RefusalRecord, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		var sourceURL, fieldsJSON string
		if err := rows.Scan(&id, &sourceURL, &fieldsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan refusal: %w", err)
		}

		record := model.NewRefusalRecord(sourceURL)
		if err := json.Unmarshal([]byte(fieldsJSON), record.Fields); err != nil {
			return nil, fmt.Errorf("failed to parse refusal fields: %w", err)
		}

		records = append(records, record)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, id := range ids {
		charges, err := rdb.getCharges(ctx, id)
		if err != nil {
			return nil, err
		}
		records[i].Charges = charges
	}

	return records, nil
}

// getCharges loads the charges of one refusal, in order.
func (rdb *RefusalDB) getCharges(ctx context.Context, refusalID int64) ([]*model.Record, error) {
	rows, err := rdb.db.QueryContext(ctx, `
	SELECT fields FROM charges
	WHERE refusal_id = ?
	ORDER BY position
	`, refusalID)
	if err != nil {
		return nil, fmt.Errorf("failed to query charges: %w", err)
	}
	defer rows.Close()

	charges := make([]*model.Record, 0)
	for rows.Next() {
		var fieldsJSON string
		if err := rows.Scan(&fieldsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan charge: %w", err)
		}

		charge := model.NewRecord()
		if err := json.Unmarshal([]byte(fieldsJSON), charge); err != nil {
			return nil, fmt.Errorf("failed to parse charge: %w", err)
		}
		charges = append(charges, charge)
	}

	return charges, rows.Err()
}

// GetRun returns the metadata of one run, or nil when the run does not
// exist.
func (rdb *RefusalDB) GetRun(ctx context.Context, runID int64) (*RunMetadata, error) {
	var meta RunMetadata
	var timestamp string
	var errMsg sql.NullString

	err := rdb.db.QueryRowContext(ctx, `
	SELECT id, seed_url, date_crawled, pages_visited, record_count, error
	FROM crawl_runs
	WHERE id = ?
	`, runID).Scan(&meta.ID, &meta.SeedURL, &timestamp,
		&meta.PagesVisited, &meta.RecordCount, &errMsg)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	meta.DateCrawled = parseTimestamp(timestamp)
	meta.ErrorMessage = errMsg.String
	return &meta, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// More specific formats come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple
// formats. SQLite returns timestamps in different formats depending on
// configuration; a string no format matches yields zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
