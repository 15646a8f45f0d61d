package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aurda012/cursor10x/internal/lifecycle"
	"github.com/aurda012/cursor10x/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

func mustCreate(t *testing.T, s *Store, title, file, prompt string) *models.Task {
	t.Helper()
	task, err := s.Create(title, file, prompt)
	if err != nil {
		t.Fatalf("Create(%q): %v", title, err)
	}
	return task
}

func TestCreateAssignsSequentialIDs(t *testing.T) {
	s := newTestStore(t)

	first := mustCreate(t, s, "Build login form", "components/Login.tsx", "Implement the login form")
	second := mustCreate(t, s, "Add users table", "db/users.sql", "Create the users schema")
	third := mustCreate(t, s, "Wire CI", ".github/workflows/ci.yml", "Add the CI pipeline")

	for i, task := range []*models.Task{first, second, third} {
		want := []string{"001", "002", "003"}[i]
		if task.ID != want {
			t.Errorf("task %d id = %q, want %q", i, task.ID, want)
		}
		if task.Status != models.TaskStatusPending {
			t.Errorf("task %s status = %s, want pending", task.ID, task.Status)
		}
		if task.Filename != "task_"+want+".txt" {
			t.Errorf("task %s filename = %q", task.ID, task.Filename)
		}
	}

	meta := s.Metadata()
	if meta.PendingCount != 3 || meta.InProgressCount != 0 || meta.DoneCount != 0 || meta.SkippedCount != 0 {
		t.Errorf("unexpected metadata after create: %+v", meta)
	}
}

func TestCreateRejectsEmptyTitle(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Create("   ", "a.go", "p"); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
	if got := s.Metadata().PendingCount; got != 0 {
		t.Errorf("pending count = %d after rejected create", got)
	}
}

func TestGetNotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Get("042"); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestSingleInProgress(t *testing.T) {
	s := newTestStore(t)
	mustCreate(t, s, "First", "a.go", "do a")
	mustCreate(t, s, "Second", "b.go", "do b")

	if _, err := s.ApplyStatus("001", models.TaskStatusInProgress, "backend-developer"); err != nil {
		t.Fatalf("start 001: %v", err)
	}

	_, err := s.ApplyStatus("002", models.TaskStatusInProgress, "backend-developer")
	if !errors.Is(err, lifecycle.ErrTaskActive) {
		t.Fatalf("expected ErrTaskActive, got %v", err)
	}

	// The failed dispatch must not touch the ledger.
	task, err := s.Get("002")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if task.Status != models.TaskStatusPending || task.AssignedAgent != "" {
		t.Errorf("task 002 mutated by failed dispatch: %+v", task)
	}
}

func TestStartRequiresWorker(t *testing.T) {
	s := newTestStore(t)
	mustCreate(t, s, "First", "a.go", "do a")

	if _, err := s.ApplyStatus("001", models.TaskStatusInProgress, ""); !errors.Is(err, lifecycle.ErrWorkerRequired) {
		t.Fatalf("expected ErrWorkerRequired, got %v", err)
	}
}

func TestCompleteAndSkipFlow(t *testing.T) {
	s := newTestStore(t)
	mustCreate(t, s, "First", "a.go", "do a")
	mustCreate(t, s, "Second", "b.go", "do b")

	if _, err := s.ApplyStatus("001", models.TaskStatusInProgress, "qa-engineer"); err != nil {
		t.Fatalf("start: %v", err)
	}
	done, err := s.ApplyStatus("001", models.TaskStatusDone, "")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.AssignedAgent != "qa-engineer" {
		t.Errorf("completed task lost its worker: %+v", done)
	}

	if _, err := s.ApplyStatus("002", models.TaskStatusSkipped, ""); err != nil {
		t.Fatalf("skip: %v", err)
	}

	// Terminal statuses reject further transitions.
	var te *lifecycle.TransitionError
	if _, err := s.ApplyStatus("002", models.TaskStatusDone, ""); !errors.As(err, &te) {
		t.Fatalf("expected TransitionError completing skipped task, got %v", err)
	}

	meta := s.Metadata()
	if meta.DoneCount != 1 || meta.SkippedCount != 1 || meta.PendingCount != 0 || meta.InProgressCount != 0 {
		t.Errorf("unexpected metadata: %+v", meta)
	}
}

func TestSkipInProgressDisallowed(t *testing.T) {
	s := newTestStore(t)
	mustCreate(t, s, "First", "a.go", "do a")

	if _, err := s.ApplyStatus("001", models.TaskStatusInProgress, "architect"); err != nil {
		t.Fatalf("start: %v", err)
	}

	var te *lifecycle.TransitionError
	if _, err := s.ApplyStatus("001", models.TaskStatusSkipped, ""); !errors.As(err, &te) {
		t.Fatalf("expected TransitionError skipping in-progress task, got %v", err)
	}
}

func TestResetRetainsWorker(t *testing.T) {
	s := newTestStore(t)
	mustCreate(t, s, "First", "a.go", "do a")

	if _, err := s.ApplyStatus("001", models.TaskStatusInProgress, "devops-engineer"); err != nil {
		t.Fatalf("start: %v", err)
	}
	task, err := s.ApplyStatus("001", models.TaskStatusPending, "")
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if task.Status != models.TaskStatusPending {
		t.Errorf("status after reset = %s", task.Status)
	}
	if task.AssignedAgent != "devops-engineer" {
		t.Errorf("reset dropped the previously assigned worker: %+v", task)
	}

	// A later dispatch overwrites the retained assignment.
	task, err = s.ApplyStatus("001", models.TaskStatusInProgress, "backend-developer")
	if err != nil {
		t.Fatalf("re-dispatch: %v", err)
	}
	if task.AssignedAgent != "backend-developer" {
		t.Errorf("re-dispatch kept stale worker: %+v", task)
	}
}

func TestListFilter(t *testing.T) {
	s := newTestStore(t)
	mustCreate(t, s, "First", "a.go", "do a")
	mustCreate(t, s, "Second", "b.go", "do b")
	if _, err := s.ApplyStatus("002", models.TaskStatusSkipped, ""); err != nil {
		t.Fatalf("skip: %v", err)
	}

	pending, err := s.List(models.TaskStatusPending)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != "001" {
		t.Errorf("pending list = %+v", pending)
	}

	all, err := s.List("")
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("all list length = %d", len(all))
	}

	if _, err := s.List(models.TaskStatus("bogus")); err == nil {
		t.Error("expected error for unknown status filter")
	}
}

func TestReopenPreservesLedger(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	mustCreate(t, s, "First", "a.go", "line one\nline two")
	if _, err := s.ApplyStatus("001", models.TaskStatusInProgress, "architect"); err != nil {
		t.Fatalf("start: %v", err)
	}

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	task, err := reopened.Get("001")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if task.Status != models.TaskStatusInProgress || task.AssignedAgent != "architect" {
		t.Errorf("reopened task = %+v", task)
	}
	if task.Prompt != "line one\nline two" {
		t.Errorf("prompt lost across reopen: %q", task.Prompt)
	}
}

func TestConsistencyErrorAndRepair(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	mustCreate(t, s, "First", "a.go", "do a")

	// Tamper with the stored counts.
	path := filepath.Join(dir, "tasks.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read ledger: %v", err)
	}
	var ledger models.Ledger
	if err := json.Unmarshal(data, &ledger); err != nil {
		t.Fatalf("parse ledger: %v", err)
	}
	ledger.Metadata.DoneCount = 5
	tampered, err := json.Marshal(&ledger)
	if err != nil {
		t.Fatalf("encode ledger: %v", err)
	}
	if err := os.WriteFile(path, tampered, 0644); err != nil {
		t.Fatalf("write ledger: %v", err)
	}

	var ce *ConsistencyError
	if _, err := Open(dir); !errors.As(err, &ce) {
		t.Fatalf("expected ConsistencyError, got %v", err)
	}
	if ce.Stored.DoneCount != 5 || ce.Scanned.DoneCount != 0 {
		t.Errorf("unexpected consistency error fields: %+v", ce)
	}

	meta, err := Repair(dir)
	if err != nil {
		t.Fatalf("Repair: %v", err)
	}
	if meta.DoneCount != 0 || meta.PendingCount != 1 {
		t.Errorf("repaired metadata = %+v", meta)
	}

	if _, err := Open(dir); err != nil {
		t.Fatalf("reopen after repair: %v", err)
	}
}

func TestDetailFileRoundTrip(t *testing.T) {
	s := newTestStore(t)
	mustCreate(t, s, "Build login form", "components/Login.tsx", "Implement the form.\nValidate inputs.")
	if _, err := s.ApplyStatus("001", models.TaskStatusInProgress, "frontend-developer"); err != nil {
		t.Fatalf("start: %v", err)
	}

	desc, agent, err := s.ReadDetail("001")
	if err != nil {
		t.Fatalf("ReadDetail: %v", err)
	}
	if desc.ID != "001" || desc.Title != "Build login form" || desc.File != "components/Login.tsx" {
		t.Errorf("detail descriptor = %+v", desc)
	}
	if desc.Prompt != "Implement the form.\nValidate inputs." {
		t.Errorf("detail prompt = %q", desc.Prompt)
	}
	if agent != "frontend-developer" {
		t.Errorf("detail agent = %q", agent)
	}
}

func TestMetadataMatchesScanAfterEveryMutation(t *testing.T) {
	s := newTestStore(t)
	mustCreate(t, s, "First", "a.go", "do a")
	mustCreate(t, s, "Second", "b.go", "do b")

	steps := []struct {
		id string
		to models.TaskStatus
	}{
		{"001", models.TaskStatusInProgress},
		{"001", models.TaskStatusDone},
		{"002", models.TaskStatusSkipped},
	}
	for _, step := range steps {
		worker := ""
		if step.to == models.TaskStatusInProgress {
			worker = "qa-engineer"
		}
		if _, err := s.ApplyStatus(step.id, step.to, worker); err != nil {
			t.Fatalf("ApplyStatus(%s, %s): %v", step.id, step.to, err)
		}

		all, err := s.List("")
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		ledger := models.Ledger{Tasks: all}
		if scanned := ledger.Recount(); !s.Metadata().SameCounts(scanned) {
			t.Errorf("metadata diverged from scan after %s -> %s", step.id, step.to)
		}
	}
}
