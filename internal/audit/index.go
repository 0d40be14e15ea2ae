package audit

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

const indexSchemaVersion = 1

// Index is a SQLite mirror of a JSONL trail for fast filtered queries.
// Rebuild repopulates it from the trail; the JSONL file stays the source
// of truth and the only tamper-evident artifact.
type Index struct {
	db *sql.DB
}

// OpenIndex opens (or creates) an index database at path and applies the
// schema.
func OpenIndex(path string) (*Index, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("audit: open index: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("audit: configure index: %w", err)
	}

	ix := &Index{db: db}
	if err := ix.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("audit: index migration failed: %w", err)
	}
	return ix, nil
}

func (ix *Index) migrate() error {
	var currentVersion int
	if err := ix.db.QueryRow("PRAGMA user_version").Scan(&currentVersion); err != nil {
		return err
	}
	if currentVersion >= indexSchemaVersion {
		return nil
	}

	tx, err := ix.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	schema := `
	CREATE TABLE IF NOT EXISTS entries (
		line INTEGER PRIMARY KEY,
		ts TEXT NOT NULL,
		session TEXT NOT NULL,
		event TEXT NOT NULL,
		args TEXT NOT NULL,
		decision TEXT NOT NULL,
		scope TEXT,
		reason TEXT,
		prev_hash TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_entries_event ON entries(event);
	CREATE INDEX IF NOT EXISTS idx_entries_session ON entries(session);
	CREATE INDEX IF NOT EXISTS idx_entries_ts ON entries(ts);
	`
	if _, err := tx.Exec(schema); err != nil {
		return err
	}
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", indexSchemaVersion)); err != nil {
		return err
	}
	return tx.Commit()
}

// Rebuild replaces the index contents with the current state of the trail
// at trailPath. Returns the number of entries indexed.
func (ix *Index) Rebuild(trailPath string) (int, error) {
	entries, err := ReadEntries(trailPath)
	if err != nil {
		return 0, err
	}

	tx, err := ix.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("audit: begin index rebuild: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM entries"); err != nil {
		return 0, fmt.Errorf("audit: clear index: %w", err)
	}

	stmt, err := tx.Prepare(`
	INSERT INTO entries (line, ts, session, event, args, decision, scope, reason, prev_hash)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("audit: prepare index insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		args, err := json.Marshal(e.Args)
		if err != nil {
			return 0, fmt.Errorf("audit: marshal args for line %d: %w", i+1, err)
		}
		if _, err := stmt.Exec(i+1, e.Timestamp, e.Session, e.Event, string(args),
			e.Decision, e.Scope, e.Reason, e.PrevHash); err != nil {
			return 0, fmt.Errorf("audit: index line %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("audit: commit index rebuild: %w", err)
	}
	return len(entries), nil
}

// Query returns indexed entries matching the filter, in trail order.
func (ix *Index) Query(filter Filter) ([]Entry, error) {
	var where []string
	var binds []any

	if filter.Session != "" {
		where = append(where, "session = ?")
		binds = append(binds, filter.Session)
	}
	if filter.Event != "" {
		where = append(where, "event = ?")
		binds = append(binds, filter.Event)
	}
	if filter.Decision != "" {
		where = append(where, "decision = ?")
		binds = append(binds, filter.Decision)
	}
	if !filter.From.IsZero() {
		where = append(where, "ts >= ?")
		binds = append(binds, filter.From.UTC().Format(TimestampFormat))
	}
	if !filter.To.IsZero() {
		where = append(where, "ts <= ?")
		binds = append(binds, filter.To.UTC().Format(TimestampFormat))
	}

	query := "SELECT ts, session, event, args, decision, scope, reason, prev_hash FROM entries"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY line"

	rows, err := ix.db.Query(query, binds...)
	if err != nil {
		return nil, fmt.Errorf("audit: query index: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var args string
		var scope, reason sql.NullString
		if err := rows.Scan(&e.Timestamp, &e.Session, &e.Event, &args,
			&e.Decision, &scope, &reason, &e.PrevHash); err != nil {
			return nil, fmt.Errorf("audit: scan index row: %w", err)
		}
		if err := json.Unmarshal([]byte(args), &e.Args); err != nil {
			return nil, fmt.Errorf("audit: unmarshal indexed args: %w", err)
		}
		e.Scope = scope.String
		e.Reason = reason.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("audit: iterate index rows: %w", err)
	}
	return entries, nil
}

// Close closes the underlying database.
func (ix *Index) Close() error {
	return ix.db.Close()
}
