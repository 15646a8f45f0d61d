package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aurda012/cursor10x/internal/models"
)

// detailFilename returns the companion file name for a task id.
func detailFilename(id string) string {
	return "task_" + id + ".txt"
}

// DetailRecord renders the plain-text companion record for a task.
// PROMPT is the final field so it may span multiple lines.
func DetailRecord(t *models.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ID: %s\n", t.ID)
	fmt.Fprintf(&b, "TITLE: %s\n", t.Title)
	fmt.Fprintf(&b, "FILE: %s\n", t.File)
	if t.AssignedAgent != "" {
		fmt.Fprintf(&b, "ASSIGNED_AGENT: %s\n", t.AssignedAgent)
	}
	fmt.Fprintf(&b, "PROMPT: %s\n", t.Prompt)
	return b.String()
}

// writeDetail writes the companion file for a task. The ledger remains the
// source of truth; detail files are a human-readable export.
func (s *Store) writeDetail(t *models.Task) error {
	path := filepath.Join(s.dir, t.Filename)
	if err := os.WriteFile(path, []byte(DetailRecord(t)), 0644); err != nil {
		return fmt.Errorf("write task detail %s: %w", t.Filename, err)
	}
	return nil
}

// ReadDetail loads and parses a task's companion file into a descriptor
// plus the assigned worker, if any.
func (s *Store) ReadDetail(id string) (models.TaskDescriptor, string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, detailFilename(id)))
	if err != nil {
		return models.TaskDescriptor{}, "", fmt.Errorf("read task detail: %w", err)
	}
	return parseDetail(string(data))
}

func parseDetail(text string) (models.TaskDescriptor, string, error) {
	var desc models.TaskDescriptor
	var agent string

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		key, value, ok := strings.Cut(line, ": ")
		if !ok {
			continue
		}
		switch key {
		case "ID":
			desc.ID = value
		case "TITLE":
			desc.Title = value
		case "FILE":
			desc.File = value
		case "ASSIGNED_AGENT":
			agent = value
		case "PROMPT":
			// PROMPT runs to the end of the record.
			rest := append([]string{value}, lines[i+1:]...)
			desc.Prompt = strings.TrimRight(strings.Join(rest, "\n"), "\n")
			return desc, agent, nil
		}
	}

	if desc.ID == "" {
		return desc, agent, fmt.Errorf("task detail record missing ID field")
	}
	return desc, agent, nil
}
