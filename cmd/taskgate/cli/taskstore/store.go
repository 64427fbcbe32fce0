// Package taskstore reads task lists produced by Claude Code's task tool.
//
// The store is a directory of lists; each list is a subdirectory holding one
// JSON file per task. Taskgate only ever reads the store: tasks are created,
// mutated and deleted by the agent itself. A missing or unreadable list is
// indistinguishable from an empty one, which keeps the stop hook fail-open.
package taskstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Status is the lifecycle state of a task as written by the task tool.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Task is a single task record. Unknown fields in the backing JSON are
// ignored so newer task-tool versions don't break the reader.
type Task struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	Status  Status `json:"status"`
}

// Open returns whether the task is still remaining work.
func (t Task) Open() bool {
	return t.Status == StatusPending || t.Status == StatusInProgress
}

// Store reads task lists from a root directory.
type Store struct {
	root string
}

// NewStore creates a store rooted at dir. The directory does not need to
// exist; a missing root simply yields no lists.
func NewStore(dir string) *Store {
	return &Store{root: dir}
}

// Root returns the store's root directory.
func (s *Store) Root() string {
	return s.root
}

// Lists enumerates the list names (subdirectory names) in the store,
// sorted by name. Returns nil if the root does not exist.
func (s *Store) Lists() []string {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil
	}

	var lists []string
	for _, entry := range entries {
		if entry.IsDir() {
			lists = append(lists, entry.Name())
		}
	}
	sort.Strings(lists)
	return lists
}

// Tasks loads all task records from the named list in file-name order.
// I/O and parse failures are swallowed: a missing directory or a corrupt
// task file contributes nothing to the result. A task observed mid-write by
// the external tool fails to parse and is skipped, never corrupting the
// aggregate.
func (s *Store) Tasks(list string) []Task {
	dir := filepath.Join(s.root, list)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var tasks []Task
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name)) //nolint:gosec // path is store root + list + entry name
		if err != nil {
			continue
		}
		var task Task
		if err := json.Unmarshal(data, &task); err != nil {
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks
}
