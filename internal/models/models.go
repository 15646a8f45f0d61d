// Package models defines the core domain types for cursor10x.
package models

import (
	"fmt"
	"time"
)

// TaskStatus represents the current state of a task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusDone       TaskStatus = "done"
	TaskStatusSkipped    TaskStatus = "skipped"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusDone, TaskStatusSkipped:
		return true
	}
	return false
}

// Terminal reports whether a task in this status can never change again.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusDone || s == TaskStatusSkipped
}

// Task represents a unit of work in the ledger.
type Task struct {
	ID            string     `json:"id"`
	Filename      string     `json:"filename"`
	Title         string     `json:"title"`
	File          string     `json:"file"`
	Status        TaskStatus `json:"status"`
	Prompt        string     `json:"prompt"`
	AssignedAgent string     `json:"assigned_agent,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Descriptor returns the matching view of the task.
func (t *Task) Descriptor() TaskDescriptor {
	return TaskDescriptor{
		ID:     t.ID,
		Title:  t.Title,
		File:   t.File,
		Prompt: t.Prompt,
	}
}

// Metadata holds the aggregate counts derived from the task collection.
// It must match a full scan of the tasks at all times.
type Metadata struct {
	LastUpdated     time.Time `json:"last_updated"`
	PendingCount    int       `json:"pending_count"`
	InProgressCount int       `json:"in_progress_count"`
	DoneCount       int       `json:"done_count"`
	SkippedCount    int       `json:"skipped_count"`
}

// Counts returns the per-status counts keyed by status.
func (m Metadata) Counts() map[TaskStatus]int {
	return map[TaskStatus]int{
		TaskStatusPending:    m.PendingCount,
		TaskStatusInProgress: m.InProgressCount,
		TaskStatusDone:       m.DoneCount,
		TaskStatusSkipped:    m.SkippedCount,
	}
}

// SameCounts reports whether two metadata records carry identical counts,
// ignoring LastUpdated.
func (m Metadata) SameCounts(other Metadata) bool {
	return m.PendingCount == other.PendingCount &&
		m.InProgressCount == other.InProgressCount &&
		m.DoneCount == other.DoneCount &&
		m.SkippedCount == other.SkippedCount
}

// Ledger is the persisted form of the task collection plus derived metadata.
type Ledger struct {
	Tasks    []Task   `json:"tasks"`
	Metadata Metadata `json:"metadata"`
}

// Recount scans the tasks and returns freshly computed metadata.
// LastUpdated is left to the caller.
func (l *Ledger) Recount() Metadata {
	var m Metadata
	for i := range l.Tasks {
		switch l.Tasks[i].Status {
		case TaskStatusPending:
			m.PendingCount++
		case TaskStatusInProgress:
			m.InProgressCount++
		case TaskStatusDone:
			m.DoneCount++
		case TaskStatusSkipped:
			m.SkippedCount++
		}
	}
	return m
}

// TaskDescriptor is the subset of a task that capability rules match against.
type TaskDescriptor struct {
	ID     string
	Title  string
	File   string
	Prompt string
}

// CapabilityRule maps task descriptors to a worker. A rule is either a path
// pattern or a keyword set, never both. Lower precedence classes rank first.
type CapabilityRule struct {
	PathPattern string   `yaml:"path,omitempty"`
	Keywords    []string `yaml:"keywords,omitempty"`
	Precedence  int      `yaml:"precedence"`
}

// Validate checks the rule is well-formed.
func (r CapabilityRule) Validate() error {
	hasPath := r.PathPattern != ""
	hasKeywords := len(r.Keywords) > 0
	if hasPath == hasKeywords {
		return fmt.Errorf("rule must set exactly one of path or keywords")
	}
	if r.Precedence < 1 {
		return fmt.Errorf("rule precedence must be at least 1")
	}
	return nil
}

// WorkerProfile describes an execution collaborator and its capability rules.
// Registration order in the table is the final dispatch tiebreak.
type WorkerProfile struct {
	ID    string           `yaml:"id"`
	Name  string           `yaml:"name"`
	Rules []CapabilityRule `yaml:"rules,omitempty"`
}
