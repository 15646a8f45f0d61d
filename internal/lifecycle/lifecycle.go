// Package lifecycle enforces the task state machine.
package lifecycle

import (
	"errors"
	"fmt"

	"github.com/aurda012/cursor10x/internal/models"
)

var (
	// ErrTaskActive is returned when a dispatch would create a second
	// in-progress task.
	ErrTaskActive = errors.New("another task is already in progress")

	// ErrWorkerRequired is returned when a task enters in-progress without
	// an assigned worker.
	ErrWorkerRequired = errors.New("a worker must be assigned to start a task")
)

// TransitionError reports a disallowed status transition.
type TransitionError struct {
	TaskID string
	From   models.TaskStatus
	To     models.TaskStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("task %s: cannot transition from %s to %s", e.TaskID, e.From, e.To)
}

// allowedEdges is the complete transition table. Absence means the edge is
// disallowed; done and skipped have no outgoing edges.
var allowedEdges = map[models.TaskStatus]map[models.TaskStatus]struct{}{
	models.TaskStatusPending: {
		models.TaskStatusInProgress: {},
		models.TaskStatusSkipped:    {},
	},
	models.TaskStatusInProgress: {
		models.TaskStatusDone: {},
		// Reset path for work that failed externally.
		models.TaskStatusPending: {},
	},
}

// CanTransition reports whether the edge from -> to is allowed.
func CanTransition(from, to models.TaskStatus) bool {
	targets, ok := allowedEdges[from]
	if !ok {
		return false
	}
	_, ok = targets[to]
	return ok
}

// Validate checks that moving t to the given status is legal. It does not
// check the single-in-progress invariant; that requires ledger-wide state
// and is enforced by the store under its writer lock.
func Validate(t *models.Task, to models.TaskStatus) error {
	if !to.Valid() {
		return &TransitionError{TaskID: t.ID, From: t.Status, To: to}
	}
	if !CanTransition(t.Status, to) {
		return &TransitionError{TaskID: t.ID, From: t.Status, To: to}
	}
	return nil
}
