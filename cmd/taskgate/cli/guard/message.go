package guard

import (
	"fmt"
	"strings"
)

// maxListedSubjects caps how many pending subjects the block message shows.
const maxListedSubjects = 3

// blockReason builds the continuation prompt for a blocked stop. It names
// every contributing list, states the remaining total with its status
// breakdown, previews the first pending subjects, and instructs the agent to
// keep working without pausing for confirmation.
func blockReason(sum taskSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%d %s remaining", sum.remaining(), plural(sum.remaining(), "task", "tasks"))
	if len(sum.contributing) > 0 {
		fmt.Fprintf(&b, " on %s %s", plural(len(sum.contributing), "list", "lists"), quoteJoin(sum.contributing))
	}
	fmt.Fprintf(&b, " (%d pending, %d in progress, %d completed).\n", sum.pending, sum.inProgress, sum.completed)

	if len(sum.pendingSubjects) > 0 {
		b.WriteString("\nPending tasks:\n")
		shown := sum.pendingSubjects
		if len(shown) > maxListedSubjects {
			shown = shown[:maxListedSubjects]
		}
		for _, subject := range shown {
			fmt.Fprintf(&b, "- %s\n", subject)
		}
		if extra := len(sum.pendingSubjects) - len(shown); extra > 0 {
			fmt.Fprintf(&b, "...and %d more pending %s.\n", extra, plural(extra, "task", "tasks"))
		}
	}

	b.WriteString("\nDo not stop yet. Inspect the task list, take the next pending task, " +
		"mark it in_progress, complete the work, then mark it completed. " +
		"Work through the remaining tasks sequentially and do not pause to ask for confirmation.")

	return b.String()
}

func quoteJoin(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = fmt.Sprintf("%q", name)
	}
	return strings.Join(quoted, ", ")
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}
