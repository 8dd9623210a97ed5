package notify

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"longview/internal/lvdate"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current ledger schema version.
const schemaVersion = 1

// ErrSchemaMismatch indicates the ledger database was created by a different schema version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// SQLiteLedger keeps notifications in a SQLite database. Entries are keyed
// by their ledger position.
type SQLiteLedger struct {
	db   *sql.DB
	path string
}

// OpenSQLiteLedger opens or creates the ledger database at path.
func OpenSQLiteLedger(ctx context.Context, path string) (*SQLiteLedger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure ledger directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	ledger := &SQLiteLedger{db: db, path: path}
	if err := ledger.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return ledger, nil
}

func (l *SQLiteLedger) initSchema(ctx context.Context) error {
	var tableExists int
	err := l.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		tx, err := l.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin schema tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()
		if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit schema: %w", err)
		}
		return nil
	}

	var version int
	if err := l.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: ledger %s has version %d, expected %d (re-import it with 'longview notify import')",
			ErrSchemaMismatch, l.path, version, schemaVersion)
	}
	return nil
}

// Load returns every entry ordered by position.
func (l *SQLiteLedger) Load(ctx context.Context) ([]Notification, error) {
	rows, err := l.db.QueryContext(ctx,
		"SELECT position, row_id, month, whom, body, status FROM notifications ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var (
			n     Notification
			month int
		)
		if err := rows.Scan(&n.Index, &n.Row, &month, &n.Whom, &n.Text, &n.Status); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Date = lvdate.FromMonths(month)
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}
	return out, nil
}

// Save upserts every entry in one transaction and removes positions that
// are no longer present.
func (l *SQLiteLedger) Save(ctx context.Context, notifications []Notification) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO notifications (position, row_id, month, whom, body, status, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(position) DO UPDATE SET
            row_id = excluded.row_id,
            month = excluded.month,
            whom = excluded.whom,
            body = excluded.body,
            status = excluded.status,
            updated_at = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	for _, n := range notifications {
		if _, err := stmt.ExecContext(ctx, n.Index, n.Row, n.Date.Months(), n.Whom, n.Text, n.Status, timestamp); err != nil {
			return fmt.Errorf("save notification %d: %w", n.Index, err)
		}
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM notifications WHERE position >= ?", len(notifications)); err != nil {
		return fmt.Errorf("trim notifications: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (l *SQLiteLedger) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}
