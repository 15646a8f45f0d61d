// Package report provides read-only views over the task ledger.
package report

import (
	"time"

	"github.com/aurda012/cursor10x/internal/models"
	"github.com/aurda012/cursor10x/internal/store"
)

// Summary is a point-in-time snapshot of ledger progress.
type Summary struct {
	Pending    int
	InProgress int
	Done       int
	Skipped    int
	Total      int
	// Current is the id of the in-progress task, or "" when idle.
	Current string
	// Next is the id of the first pending task, or "" when none remain.
	Next        string
	LastUpdated time.Time
}

// Reporter answers progress queries. It never mutates the ledger.
type Reporter struct {
	store *store.Store
}

// NewReporter wraps the store for reporting.
func NewReporter(s *store.Store) *Reporter {
	return &Reporter{store: s}
}

// Summary returns per-status counts plus the current and next task ids.
func (r *Reporter) Summary() (Summary, error) {
	meta := r.store.Metadata()
	sum := Summary{
		Pending:     meta.PendingCount,
		InProgress:  meta.InProgressCount,
		Done:        meta.DoneCount,
		Skipped:     meta.SkippedCount,
		Total:       meta.PendingCount + meta.InProgressCount + meta.DoneCount + meta.SkippedCount,
		LastUpdated: meta.LastUpdated,
	}

	current, err := r.store.First(models.TaskStatusInProgress)
	if err != nil {
		return Summary{}, err
	}
	if current != nil {
		sum.Current = current.ID
	}

	next, err := r.store.First(models.TaskStatusPending)
	if err != nil {
		return Summary{}, err
	}
	if next != nil {
		sum.Next = next.ID
	}

	return sum, nil
}

// Current returns the in-progress task, or (nil, nil) when idle.
func (r *Reporter) Current() (*models.Task, error) {
	return r.store.First(models.TaskStatusInProgress)
}

// Next returns the first pending task, or (nil, nil) when none remain.
func (r *Reporter) Next() (*models.Task, error) {
	return r.store.First(models.TaskStatusPending)
}

// List returns tasks in id order, optionally filtered by status.
func (r *Reporter) List(filter models.TaskStatus) ([]models.Task, error) {
	return r.store.List(filter)
}
