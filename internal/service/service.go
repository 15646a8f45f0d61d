// Package service composes the store, dispatcher, reporter, and journal
// behind the operations the command surface exposes.
package service

import (
	"errors"
	"log"

	"github.com/aurda012/cursor10x/internal/dispatch"
	"github.com/aurda012/cursor10x/internal/journal"
	"github.com/aurda012/cursor10x/internal/models"
	"github.com/aurda012/cursor10x/internal/report"
	"github.com/aurda012/cursor10x/internal/store"
)

// ErrNoActiveTask is returned when an operation needs an in-progress task
// and there is none.
var ErrNoActiveTask = errors.New("no task is in progress")

// Service is the composed command surface. All collaborators are injected;
// the journal is optional and its failures never fail an operation.
type Service struct {
	store    *store.Store
	coord    *dispatch.Coordinator
	reporter *report.Reporter
	journal  *journal.Journal
}

// New wires a service over the ledger, worker table, and optional journal.
func New(s *store.Store, table dispatch.Table, j *journal.Journal) *Service {
	return &Service{
		store:    s,
		coord:    dispatch.NewCoordinator(s, table),
		reporter: report.NewReporter(s),
		journal:  j,
	}
}

// CreateTask appends a new pending task to the ledger.
func (s *Service) CreateTask(title, file, prompt string) (*models.Task, error) {
	task, err := s.store.Create(title, file, prompt)
	if err != nil {
		return nil, err
	}
	s.record(task.ID, "create", "", string(models.TaskStatusPending), "", task.Title)
	return task, nil
}

// StartTask dispatches the first pending task to its best-matched worker.
func (s *Service) StartTask() (*models.Task, error) {
	task, err := s.coord.Start()
	if err != nil {
		return nil, err
	}
	s.record(task.ID, "dispatch", string(models.TaskStatusPending), string(task.Status), task.AssignedAgent, "")
	return task, nil
}

// AssignTask dispatches a specific task to its best-matched worker.
func (s *Service) AssignTask(id string) (*models.Task, error) {
	task, err := s.coord.Assign(id)
	if err != nil {
		return nil, err
	}
	s.record(task.ID, "dispatch", string(models.TaskStatusPending), string(task.Status), task.AssignedAgent, "")
	return task, nil
}

// CompleteTask marks a task done. An empty id completes the task currently
// in progress.
func (s *Service) CompleteTask(id string) (*models.Task, error) {
	from := models.TaskStatusInProgress
	if id == "" {
		current, err := s.reporter.Current()
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, ErrNoActiveTask
		}
		id = current.ID
	}

	task, err := s.store.ApplyStatus(id, models.TaskStatusDone, "")
	if err != nil {
		return nil, err
	}
	s.record(task.ID, "complete", string(from), string(task.Status), task.AssignedAgent, "")
	return task, nil
}

// SkipTask marks a pending task skipped.
func (s *Service) SkipTask(id string) (*models.Task, error) {
	task, err := s.store.ApplyStatus(id, models.TaskStatusSkipped, "")
	if err != nil {
		return nil, err
	}
	s.record(task.ID, "skip", string(models.TaskStatusPending), string(task.Status), "", "")
	return task, nil
}

// ResetTask returns an in-progress task to pending, keeping its worker
// assignment on record.
func (s *Service) ResetTask(id string) (*models.Task, error) {
	task, err := s.store.ApplyStatus(id, models.TaskStatusPending, "")
	if err != nil {
		return nil, err
	}
	s.record(task.ID, "reset", string(models.TaskStatusInProgress), string(task.Status), task.AssignedAgent, "")
	return task, nil
}

// CurrentTask returns the in-progress task, or (nil, nil) when idle.
func (s *Service) CurrentTask() (*models.Task, error) {
	return s.reporter.Current()
}

// NextTask returns the first pending task, or (nil, nil) when none remain.
func (s *Service) NextTask() (*models.Task, error) {
	return s.reporter.Next()
}

// TaskDetails returns the full record for a task.
func (s *Service) TaskDetails(id string) (*models.Task, error) {
	return s.store.Get(id)
}

// ListTasks returns tasks in id order, optionally filtered by status.
func (s *Service) ListTasks(filter models.TaskStatus) ([]models.Task, error) {
	return s.reporter.List(filter)
}

// Status returns the ledger progress summary.
func (s *Service) Status() (report.Summary, error) {
	return s.reporter.Summary()
}

// record appends a journal entry. Journal failures are logged, never
// propagated; the ledger mutation has already committed.
func (s *Service) record(taskID, action, from, to, worker, detail string) {
	if s.journal == nil {
		return
	}
	if _, err := s.journal.Record(taskID, action, from, to, worker, detail); err != nil {
		log.Printf("journal: record %s for task %s: %v", action, taskID, err)
	}
}
