package claudesettings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readSettings(t *testing.T, root string) Settings {
	t.Helper()
	data, err := os.ReadFile(SettingsPath(root))
	require.NoError(t, err)
	var s Settings
	require.NoError(t, json.Unmarshal(data, &s))
	return s
}

func writeSettings(t *testing.T, root, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(root, Dir), 0o755))
	require.NoError(t, os.WriteFile(SettingsPath(root), []byte(content), 0o600))
}

func countStopHooks(s Settings, command string) int {
	count := 0
	for _, matcher := range s.Hooks.Stop {
		for _, hook := range matcher.Hooks {
			if hook.Command == command {
				count++
			}
		}
	}
	return count
}

func TestInstall_FreshProject(t *testing.T) {
	root := t.TempDir()

	count, err := Install(root, false)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	s := readSettings(t, root)
	assert.Equal(t, 1, countStopHooks(s, StopHookCommand))
	assert.True(t, Installed(root))
}

func TestInstall_Idempotent(t *testing.T) {
	root := t.TempDir()

	_, err := Install(root, false)
	require.NoError(t, err)
	count, err := Install(root, false)
	require.NoError(t, err)
	assert.Zero(t, count)

	s := readSettings(t, root)
	assert.Equal(t, 1, countStopHooks(s, StopHookCommand))
}

func TestInstall_PreservesUnknownKeysAndHooks(t *testing.T) {
	root := t.TempDir()
	writeSettings(t, root, `{
  "permissions": {"deny": ["Bash(rm -rf *)"]},
  "hooks": {
    "Stop": [{"matcher": "", "hooks": [{"type": "command", "command": "my-other-tool stop"}]}]
  }
}`)

	_, err := Install(root, false)
	require.NoError(t, err)

	data, err := os.ReadFile(SettingsPath(root))
	require.NoError(t, err)
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "permissions")

	s := readSettings(t, root)
	assert.Equal(t, 1, countStopHooks(s, "my-other-tool stop"))
	assert.Equal(t, 1, countStopHooks(s, StopHookCommand))
}

func TestInstall_ForceRemovesStaleTaskgateHooks(t *testing.T) {
	root := t.TempDir()
	writeSettings(t, root, `{
  "hooks": {
    "Stop": [{"matcher": "", "hooks": [{"type": "command", "command": "taskgate hooks claude-code stop --legacy"}]}]
  }
}`)

	count, err := Install(root, true)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	s := readSettings(t, root)
	assert.Equal(t, 0, countStopHooks(s, "taskgate hooks claude-code stop --legacy"))
	assert.Equal(t, 1, countStopHooks(s, StopHookCommand))
}

func TestInstall_MalformedSettingsErrors(t *testing.T) {
	root := t.TempDir()
	writeSettings(t, root, `{broken`)

	_, err := Install(root, false)
	assert.Error(t, err)
}

func TestUninstall(t *testing.T) {
	root := t.TempDir()
	_, err := Install(root, false)
	require.NoError(t, err)

	require.NoError(t, Uninstall(root))
	assert.False(t, Installed(root))
}

func TestUninstall_MissingFile(t *testing.T) {
	assert.NoError(t, Uninstall(t.TempDir()))
}

func TestUninstall_KeepsForeignHooks(t *testing.T) {
	root := t.TempDir()
	writeSettings(t, root, `{
  "hooks": {
    "Stop": [{"matcher": "", "hooks": [
      {"type": "command", "command": "my-other-tool stop"},
      {"type": "command", "command": "taskgate hooks claude-code stop"}
    ]}]
  }
}`)

	require.NoError(t, Uninstall(root))

	s := readSettings(t, root)
	assert.Equal(t, 1, countStopHooks(s, "my-other-tool stop"))
	assert.Equal(t, 0, countStopHooks(s, StopHookCommand))
}

func TestInstalled_NoFile(t *testing.T) {
	assert.False(t, Installed(t.TempDir()))
}
