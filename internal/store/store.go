// Package store provides the file-backed task ledger for cursor10x.
//
// The ledger lives in a single directory: tasks.json holds every task plus
// derived metadata, and each task has a plain-text companion file
// task_<id>.txt. The ledger file is the source of truth; it is replaced
// atomically on every mutation so readers and crashes only ever observe the
// last committed state.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aurda012/cursor10x/internal/lifecycle"
	"github.com/aurda012/cursor10x/internal/models"
)

const ledgerFile = "tasks.json"

var (
	// ErrTaskNotFound is returned when no task has the requested id.
	ErrTaskNotFound = errors.New("task not found")

	// ErrEmptyTitle is returned when creating a task with a blank title.
	ErrEmptyTitle = errors.New("task title must not be empty")
)

// ConsistencyError reports that stored metadata disagrees with a full scan
// of the task collection.
type ConsistencyError struct {
	Stored  models.Metadata
	Scanned models.Metadata
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("ledger metadata out of sync with tasks: stored pending=%d in_progress=%d done=%d skipped=%d, scanned pending=%d in_progress=%d done=%d skipped=%d",
		e.Stored.PendingCount, e.Stored.InProgressCount, e.Stored.DoneCount, e.Stored.SkippedCount,
		e.Scanned.PendingCount, e.Scanned.InProgressCount, e.Scanned.DoneCount, e.Scanned.SkippedCount)
}

// Store is the single-writer task ledger. All mutation goes through the
// mutex; readers receive copies.
type Store struct {
	mu     sync.Mutex
	dir    string
	ledger models.Ledger
}

// Open loads the ledger rooted at dir, creating the directory if needed.
// A missing tasks.json yields an empty ledger. Stored metadata is verified
// against a scan of the tasks; a mismatch returns *ConsistencyError, after
// which Repair can rebuild the counts.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create ledger directory: %w", err)
	}

	ledger, err := readLedger(dir)
	if err != nil {
		return nil, err
	}

	scanned := ledger.Recount()
	if !ledger.Metadata.SameCounts(scanned) {
		return nil, &ConsistencyError{Stored: ledger.Metadata, Scanned: scanned}
	}

	return &Store{dir: dir, ledger: ledger}, nil
}

// Repair recomputes the ledger metadata from a full scan and persists the
// corrected ledger. It is the recovery path for a ConsistencyError from Open.
func Repair(dir string) (models.Metadata, error) {
	ledger, err := readLedger(dir)
	if err != nil {
		return models.Metadata{}, err
	}

	meta := ledger.Recount()
	meta.LastUpdated = time.Now().UTC()
	ledger.Metadata = meta

	if err := writeLedger(dir, &ledger); err != nil {
		return models.Metadata{}, err
	}
	return meta, nil
}

// Dir returns the ledger directory.
func (s *Store) Dir() string {
	return s.dir
}

// Create appends a new pending task with the next id and persists it.
func (s *Store) Create(title, file, prompt string) (*models.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextIDLocked()
	now := time.Now().UTC()
	task := models.Task{
		ID:        id,
		Filename:  detailFilename(id),
		Title:     title,
		File:      file,
		Status:    models.TaskStatusPending,
		Prompt:    prompt,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.writeDetail(&task); err != nil {
		return nil, err
	}

	next := s.ledger
	next.Tasks = append(append([]models.Task(nil), s.ledger.Tasks...), task)
	if err := s.commitLocked(next, now); err != nil {
		return nil, err
	}

	out := task
	return &out, nil
}

// Get returns a copy of the task with the given id.
func (s *Store) Get(id string) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.ledger.Tasks {
		if s.ledger.Tasks[i].ID == id {
			t := s.ledger.Tasks[i]
			return &t, nil
		}
	}
	return nil, fmt.Errorf("task %s: %w", id, ErrTaskNotFound)
}

// List returns copies of all tasks in id order, optionally filtered by
// status. An empty filter returns everything.
func (s *Store) List(filter models.TaskStatus) ([]models.Task, error) {
	if filter != "" && !filter.Valid() {
		return nil, fmt.Errorf("unknown status filter %q", filter)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Task, 0, len(s.ledger.Tasks))
	for _, t := range s.ledger.Tasks {
		if filter == "" || t.Status == filter {
			out = append(out, t)
		}
	}
	return out, nil
}

// First returns the first task (lowest id) with the given status, or
// (nil, nil) when none exists.
func (s *Store) First(status models.TaskStatus) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.ledger.Tasks {
		if s.ledger.Tasks[i].Status == status {
			t := s.ledger.Tasks[i]
			return &t, nil
		}
	}
	return nil, nil
}

// Metadata returns a copy of the current ledger metadata.
func (s *Store) Metadata() models.Metadata {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Metadata
}

// ApplyStatus moves the task to the given status, enforcing the transition
// table and the single-in-progress invariant, then persists atomically.
// worker is required when entering in-progress and ignored otherwise; a
// reset back to pending retains the previously assigned worker. On any
// error the ledger is unchanged.
func (s *Store) ApplyStatus(id string, to models.TaskStatus, worker string) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.ledger.Tasks {
		if s.ledger.Tasks[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("task %s: %w", id, ErrTaskNotFound)
	}

	task := s.ledger.Tasks[idx]
	if err := lifecycle.Validate(&task, to); err != nil {
		return nil, err
	}

	if to == models.TaskStatusInProgress {
		if worker == "" {
			return nil, lifecycle.ErrWorkerRequired
		}
		for i := range s.ledger.Tasks {
			if i != idx && s.ledger.Tasks[i].Status == models.TaskStatusInProgress {
				return nil, fmt.Errorf("task %s blocks dispatch of %s: %w",
					s.ledger.Tasks[i].ID, id, lifecycle.ErrTaskActive)
			}
		}
		task.AssignedAgent = worker
	}

	now := time.Now().UTC()
	task.Status = to
	task.UpdatedAt = now

	if task.AssignedAgent != s.ledger.Tasks[idx].AssignedAgent {
		if err := s.writeDetail(&task); err != nil {
			return nil, err
		}
	}

	next := s.ledger
	next.Tasks = append([]models.Task(nil), s.ledger.Tasks...)
	next.Tasks[idx] = task
	if err := s.commitLocked(next, now); err != nil {
		return nil, err
	}

	out := task
	return &out, nil
}

// nextIDLocked returns the next zero-padded ordinal id.
func (s *Store) nextIDLocked() string {
	max := 0
	for i := range s.ledger.Tasks {
		if n, err := strconv.Atoi(s.ledger.Tasks[i].ID); err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("%03d", max+1)
}

// commitLocked recomputes metadata for the candidate ledger, persists it
// atomically, and swaps it in. Caller holds the mutex.
func (s *Store) commitLocked(next models.Ledger, now time.Time) error {
	meta := next.Recount()
	meta.LastUpdated = now
	next.Metadata = meta

	if err := writeLedger(s.dir, &next); err != nil {
		return err
	}
	s.ledger = next
	return nil
}

func readLedger(dir string) (models.Ledger, error) {
	var ledger models.Ledger

	data, err := os.ReadFile(filepath.Join(dir, ledgerFile))
	if err != nil {
		if os.IsNotExist(err) {
			return ledger, nil
		}
		return ledger, fmt.Errorf("read ledger: %w", err)
	}

	if err := json.Unmarshal(data, &ledger); err != nil {
		return ledger, fmt.Errorf("parse ledger: %w", err)
	}
	return ledger, nil
}

// writeLedger replaces tasks.json via a temp file and rename so a crash
// mid-write never leaves a partial ledger.
func writeLedger(dir string, ledger *models.Ledger) error {
	data, err := json.MarshalIndent(ledger, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "tasks-*.json")
	if err != nil {
		return fmt.Errorf("create temp ledger: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp ledger: %w", err)
	}

	if err := os.Rename(tmpName, filepath.Join(dir, ledgerFile)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace ledger: %w", err)
	}
	return nil
}
