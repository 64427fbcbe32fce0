// Package guard decides whether a Claude Code session may stop.
//
// One invocation per Stop event: resolve configuration, work out which task
// lists belong to the session's project, tally their remaining tasks, and
// either approve the stop or block it with a continuation prompt. Every
// failure path approves: the guard must never trap a session on an internal
// fault.
package guard

import (
	"strings"

	"github.com/taskgate/cli/cmd/taskgate/cli/taskstore"
)

// HookInput is the Stop-event payload read from stdin, as Claude Code
// delivers it. Only the fields the guard consumes are declared.
type HookInput struct {
	SessionID      string `json:"session_id"`
	TranscriptPath string `json:"transcript_path"`
	CWD            string `json:"cwd"`
}

// Decision is the single JSON object emitted per invocation.
type Decision struct {
	Decision string `json:"decision"`
	Reason   string `json:"reason,omitempty"`
}

// Approved reports whether the decision allows the stop.
func (d Decision) Approved() bool {
	return d.Decision == "approve"
}

// Approve allows the session to stop.
func Approve() Decision {
	return Decision{Decision: "approve"}
}

// Block forces the session to continue with the given reason.
func Block(reason string) Decision {
	return Decision{Decision: "block", Reason: reason}
}

// TaskSource is the read-only task store the engine consults.
// *taskstore.Store implements it.
type TaskSource interface {
	Lists() []string
	Tasks(list string) []taskstore.Task
}

// Engine evaluates one Stop event against configuration and the task store.
// Configuration tiers are passed in as an explicit ordered list so the
// engine can be tested with injected sources.
type Engine struct {
	Sources []ConfigSource
	Store   TaskSource
}

// NewEngine builds an engine over the given configuration tiers and store.
func NewEngine(sources []ConfigSource, store TaskSource) *Engine {
	return &Engine{Sources: sources, Store: store}
}

// Check runs the decision state machine. The first applicable exit wins and
// no further lists are consulted once a decision is made.
func (e *Engine) Check(input HookInput) Decision {
	cfg, _ := ResolveConfig(e.Sources)

	if !cfg.IsEnabled() {
		return Approve()
	}

	lists := e.resolveLists(cfg, input.CWD)
	if len(lists) == 0 {
		return Approve()
	}

	// A session titled for different work must be free to stop even though
	// the project has unrelated task lists. An explicitly configured list
	// whose id carries a keyword overrides the session title.
	if name := SessionName(input.TranscriptPath); name != "" && len(cfg.Keywords) > 0 {
		sessionMatches := containsAnyKeyword(name, cfg.Keywords)
		listMatches := cfg.TaskListID != "" && containsAnyKeyword(cfg.TaskListID, cfg.Keywords)
		if !sessionMatches && !listMatches {
			return Approve()
		}
	}

	sum := e.aggregate(lists)
	if sum.remaining() == 0 {
		return Approve()
	}
	return Block(blockReason(sum))
}

// resolveLists maps the configuration and working directory to the task
// lists to check. An explicit task_list_id always wins. Otherwise the
// project's ranked candidates are narrowed to lists whose name contains a
// configured keyword; when that filter empties the set, the unfiltered
// ranking is kept. An empty project ranking stays empty: the guard never
// widens to all lists system-wide.
func (e *Engine) resolveLists(cfg *CheckConfig, cwd string) []string {
	if cfg.TaskListID != "" {
		return []string{cfg.TaskListID}
	}

	identifiers := ProjectIdentifiers(cwd)
	ranked := RankLists(e.Store.Lists(), identifiers)
	if len(ranked) == 0 {
		return nil
	}

	var filtered []string
	for _, name := range ranked {
		if containsAnyKeyword(name, cfg.Keywords) {
			filtered = append(filtered, name)
		}
	}
	if len(filtered) > 0 {
		return filtered
	}
	return ranked
}

// taskSummary is the aggregate over all resolved lists.
type taskSummary struct {
	pending    int
	inProgress int
	completed  int

	// pendingSubjects holds every pending subject in store enumeration
	// order; the block message shows the first few.
	pendingSubjects []string

	// contributing names every list with at least one open task.
	contributing []string
}

func (s taskSummary) remaining() int {
	return s.pending + s.inProgress
}

func (e *Engine) aggregate(lists []string) taskSummary {
	var sum taskSummary
	for _, list := range lists {
		open := 0
		for _, task := range e.Store.Tasks(list) {
			switch task.Status {
			case taskstore.StatusPending:
				sum.pending++
				sum.pendingSubjects = append(sum.pendingSubjects, task.Subject)
				open++
			case taskstore.StatusInProgress:
				sum.inProgress++
				open++
			case taskstore.StatusCompleted:
				sum.completed++
			}
		}
		if open > 0 {
			sum.contributing = append(sum.contributing, list)
		}
	}
	return sum
}

func containsAnyKeyword(s string, keywords []string) bool {
	lower := strings.ToLower(s)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
