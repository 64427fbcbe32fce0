package cli

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/taskgate/cli/cmd/taskgate/cli/paths"
	"github.com/taskgate/cli/cmd/taskgate/cli/settings"
	"github.com/taskgate/cli/cmd/taskgate/cli/telemetry"
	"github.com/taskgate/cli/cmd/taskgate/cli/versioncheck"
)

const longDescription = `Taskgate keeps Claude Code working until its task list is done.

It installs a Stop hook that checks the project's task lists whenever the
agent tries to end its turn: if pending or in-progress tasks remain, the
stop is blocked and the agent is told to keep going.

Getting Started:
  Run 'taskgate enable' inside a project to install the hook and configure
  which task lists to watch.
`

// Version information (can be set at build time)
var (
	Version = "dev"
	Commit  = "unknown"
)

// NewRootCmd builds the taskgate command tree.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "taskgate",
		Short: "Session-continuation guard for Claude Code",
		Long:  longDescription,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			// Telemetry is opt-in via the global settings file.
			var telemetryEnabled *bool
			if globalPath, err := paths.GlobalSettingsPath(); err == nil {
				if s, err := settings.Load(globalPath); err == nil && s != nil {
					telemetryEnabled = s.Telemetry
				}
			}
			client := telemetry.NewClient(Version, telemetryEnabled)
			defer client.Close()
			client.TrackCommand(cmd)

			versioncheck.CheckAndNotify(cmd, Version)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newEnableCmd())
	cmd.AddCommand(newDisableCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newHooksCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "taskgate %s (commit %s, %s/%s)\n",
				Version, Commit, runtime.GOOS, runtime.GOARCH)
		},
	}
}

// workingDir returns the process working directory, or "." when even that
// fails; callers treat the result as best-effort.
func workingDir() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return cwd
}
