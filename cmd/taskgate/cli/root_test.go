package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findCommand(t *testing.T, root *cobra.Command, name string) *cobra.Command {
	t.Helper()
	for _, cmd := range root.Commands() {
		if cmd.Name() == name {
			return cmd
		}
	}
	t.Fatalf("command %q not found", name)
	return nil
}

func TestNewRootCmd_CommandTree(t *testing.T) {
	root := NewRootCmd()

	for _, name := range []string{"enable", "disable", "status", "version"} {
		cmd := findCommand(t, root, name)
		assert.False(t, cmd.Hidden, "%s should be visible", name)
	}

	hooks := findCommand(t, root, "hooks")
	assert.True(t, hooks.Hidden, "hooks is internal")

	claudeCode := findCommand(t, hooks, "claude-code")
	stop := findCommand(t, claudeCode, "stop")

	// Hidden is not inherited in cobra; post-run side effects (telemetry,
	// version check) key off the ancestor chain instead.
	hiddenAncestor := false
	for c := stop; c != nil; c = c.Parent() {
		if c.Hidden {
			hiddenAncestor = true
		}
	}
	assert.True(t, hiddenAncestor, "hook leaf must sit under a hidden parent")
}

func TestVersionCmd_Output(t *testing.T) {
	cmd := newVersionCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "taskgate")
	assert.Contains(t, out.String(), Version)
}
