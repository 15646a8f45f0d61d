package dispatch

import (
	"errors"
	"fmt"

	"github.com/aurda012/cursor10x/internal/models"
	"github.com/aurda012/cursor10x/internal/store"
)

var (
	// ErrNoEligibleWorker is returned when matching produces no candidate
	// and the table has no fallback worker.
	ErrNoEligibleWorker = errors.New("no eligible worker for task")

	// ErrNoPendingTasks is returned by Start when the ledger has no
	// pending work.
	ErrNoPendingTasks = errors.New("no pending tasks")
)

// Table is the view of the worker registry the coordinator needs.
type Table interface {
	Profiles() []models.WorkerProfile
	DefaultWorker() string
}

// Coordinator performs match + transition + persist as one unit. A failure
// at any step leaves the ledger unchanged.
type Coordinator struct {
	store *store.Store
	table Table
}

// NewCoordinator wires a coordinator over the ledger and worker table.
func NewCoordinator(s *store.Store, table Table) *Coordinator {
	return &Coordinator{store: s, table: table}
}

// Assign matches the task against the capability table and dispatches it
// to the top-ranked worker.
func (c *Coordinator) Assign(id string) (*models.Task, error) {
	task, err := c.store.Get(id)
	if err != nil {
		return nil, err
	}

	ranked := Match(task.Descriptor(), c.table.Profiles(), c.table.DefaultWorker())
	if len(ranked) == 0 {
		return nil, fmt.Errorf("task %s: %w", id, ErrNoEligibleWorker)
	}

	return c.store.ApplyStatus(id, models.TaskStatusInProgress, ranked[0])
}

// Start dispatches the first pending task.
func (c *Coordinator) Start() (*models.Task, error) {
	task, err := c.store.First(models.TaskStatusPending)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrNoPendingTasks
	}
	return c.Assign(task.ID)
}
