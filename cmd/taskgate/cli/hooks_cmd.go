package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/taskgate/cli/cmd/taskgate/cli/guard"
	"github.com/taskgate/cli/cmd/taskgate/cli/logging"
	"github.com/taskgate/cli/cmd/taskgate/cli/paths"
	"github.com/taskgate/cli/cmd/taskgate/cli/settings"
	"github.com/taskgate/cli/cmd/taskgate/cli/taskstore"
)

func newHooksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:    "hooks",
		Short:  "Hook handlers",
		Long:   "Commands called by agent hooks. These are internal and not for direct user use.",
		Hidden: true, // Internal command, not for direct user use
	}
	cmd.AddCommand(newClaudeCodeHooksCmd())
	return cmd
}

func newClaudeCodeHooksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claude-code",
		Short: "Claude Code hook handlers",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "stop",
		Short: "Gate a Stop event against the project's task lists",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStopHook(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	})
	return cmd
}

// runStopHook evaluates one Stop event: read the hook payload, run the
// decision engine, and emit exactly one decision object on out.
//
// Every failure short of being unable to write the decision approves the
// stop.
func runStopHook(in io.Reader, out io.Writer) error {
	input := parseStopHookInput(in)

	logging.SetLogLevelGetter(func() string { return settings.LogLevel(input.CWD) })
	logging.Init()
	defer logging.Close()

	logCtx := logging.WithComponent(context.Background(), "hooks")
	if input.SessionID != "" {
		logCtx = logging.WithSession(logCtx, input.SessionID)
	}
	logging.Info(logCtx, "stop",
		slog.String("hook", "stop"),
		slog.String("cwd", input.CWD),
		slog.String("transcript_path", input.TranscriptPath),
	)

	engine := guard.NewEngine(settings.Sources(input.CWD), taskstore.NewStore(paths.TasksRoot()))
	decision := engine.Check(input)

	logging.Info(logCtx, "decision",
		slog.String("decision", decision.Decision),
		slog.Bool("approved", decision.Approved()),
	)

	if err := json.NewEncoder(out).Encode(decision); err != nil {
		return fmt.Errorf("failed to encode hook response: %w", err)
	}
	return nil
}

// parseStopHookInput reads the stdin payload once. A missing or malformed
// payload is non-fatal: fall back to the process working directory and skip
// session-name extraction.
func parseStopHookInput(in io.Reader) guard.HookInput {
	var input guard.HookInput

	data, err := io.ReadAll(in)
	if err == nil && len(data) > 0 {
		// Best effort: a parse failure leaves the zero value.
		_ = json.Unmarshal(data, &input)
	}

	if input.CWD == "" {
		input.CWD = workingDir()
	}
	return input
}
