// Package journal keeps an append-only SQLite log of lifecycle transitions
// and dispatch decisions. It consumes ledger events; it never participates
// in lifecycle or dispatch logic, and callers treat writes as best-effort.
package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Entry is one recorded transition.
type Entry struct {
	ID         string
	TaskID     string
	Action     string
	FromStatus string
	ToStatus   string
	Worker     string
	Detail     string
	CreatedAt  time.Time
}

// Journal is the SQLite-backed transition log.
type Journal struct {
	db *sql.DB
}

// Open creates the journal database and runs migrations.
func Open(dbPath string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}

	// SQLite only supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	j := &Journal{db: db}
	if err := j.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate journal: %w", err)
	}

	return j, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

// migrate runs idempotent schema migrations.
func (j *Journal) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS transitions (
		id TEXT PRIMARY KEY,
		task_id TEXT NOT NULL,
		action TEXT NOT NULL,
		from_status TEXT NOT NULL,
		to_status TEXT NOT NULL,
		worker TEXT,
		detail TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_transitions_task ON transitions(task_id);
	CREATE INDEX IF NOT EXISTS idx_transitions_created ON transitions(created_at);
	`
	if _, err := j.db.Exec(schema); err != nil {
		return err
	}
	return nil
}

// Record appends a transition entry and returns its generated id.
func (j *Journal) Record(taskID, action, from, to, worker, detail string) (string, error) {
	id := uuid.New().String()
	_, err := j.db.Exec(
		`INSERT INTO transitions (id, task_id, action, from_status, to_status, worker, detail, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, taskID, action, from, to, worker, detail, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("record transition: %w", err)
	}
	return id, nil
}

// Recent returns the newest entries, most recent first.
func (j *Journal) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.db.Query(
		`SELECT id, task_id, action, from_status, to_status, worker, detail, created_at
		 FROM transitions ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query transitions: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ForTask returns every entry for a task in the order it was recorded.
func (j *Journal) ForTask(taskID string) ([]Entry, error) {
	rows, err := j.db.Query(
		`SELECT id, task_id, action, from_status, to_status, worker, detail, created_at
		 FROM transitions WHERE task_id = ? ORDER BY created_at, id`, taskID)
	if err != nil {
		return nil, fmt.Errorf("query task transitions: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		var worker, detail sql.NullString
		if err := rows.Scan(&e.ID, &e.TaskID, &e.Action, &e.FromStatus, &e.ToStatus, &worker, &detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transition: %w", err)
		}
		e.Worker = worker.String
		e.Detail = detail.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
