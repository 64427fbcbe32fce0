package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taskgate/cli/cmd/taskgate/cli/claudesettings"
	"github.com/taskgate/cli/cmd/taskgate/cli/guard"
	"github.com/taskgate/cli/cmd/taskgate/cli/paths"
	"github.com/taskgate/cli/cmd/taskgate/cli/settings"
	"github.com/taskgate/cli/cmd/taskgate/cli/taskstore"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the resolved gate configuration for this project",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cwd := workingDir()
			out := cmd.OutOrStdout()

			projectRoot := paths.ProjectRoot(cwd)
			if claudesettings.Installed(projectRoot) {
				fmt.Fprintln(out, "Stop hook: installed")
			} else {
				fmt.Fprintln(out, "Stop hook: not installed (run 'taskgate enable')")
			}

			cfg, tier := guard.ResolveConfig(settings.Sources(cwd))
			fmt.Fprintf(out, "Config tier: %s\n", tier)
			fmt.Fprintf(out, "Enabled: %v\n", cfg.IsEnabled())
			fmt.Fprintf(out, "Keywords: %s\n", strings.Join(cfg.Keywords, ", "))

			store := taskstore.NewStore(paths.TasksRoot())
			if cfg.TaskListID != "" {
				fmt.Fprintf(out, "Task list (pinned): %s\n", cfg.TaskListID)
				printListCounts(out, store, cfg.TaskListID)
				return nil
			}

			identifiers := guard.ProjectIdentifiers(cwd)
			fmt.Fprintf(out, "Project identifiers: %s\n", strings.Join(identifiers, ", "))

			ranked := guard.RankLists(store.Lists(), identifiers)
			if len(ranked) == 0 {
				fmt.Fprintln(out, "Matched task lists: none")
				return nil
			}
			fmt.Fprintln(out, "Matched task lists:")
			for _, list := range ranked {
				printListCounts(out, store, list)
			}
			return nil
		},
	}
}

func printListCounts(out io.Writer, store *taskstore.Store, list string) {
	pending, inProgress, completed := 0, 0, 0
	for _, task := range store.Tasks(list) {
		switch task.Status {
		case taskstore.StatusPending:
			pending++
		case taskstore.StatusInProgress:
			inProgress++
		case taskstore.StatusCompleted:
			completed++
		}
	}
	fmt.Fprintf(out, "  %s: %d pending, %d in progress, %d completed\n", list, pending, inProgress, completed)
}
