// Package claudesettings installs the taskgate stop hook into Claude Code's
// .claude/settings.json. Unknown settings keys are preserved byte-for-byte
// by editing through a raw JSON map.
package claudesettings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/taskgate/cli/cmd/taskgate/cli/jsonutil"
)

// FileName is the settings file used by Claude Code.
const FileName = "settings.json"

// Dir is Claude Code's per-project settings directory.
const Dir = ".claude"

// StopHookCommand is the command Claude Code runs on every Stop event.
const StopHookCommand = "taskgate hooks claude-code stop"

// taskgateHookPrefix identifies taskgate hooks for removal.
const taskgateHookPrefix = "taskgate "

// Settings mirrors the parts of .claude/settings.json taskgate edits.
type Settings struct {
	Hooks Hooks `json:"hooks"`
}

// Hooks contains the hook configurations taskgate cares about.
type Hooks struct {
	Stop []HookMatcher `json:"Stop,omitempty"`
}

// HookMatcher matches hooks to specific patterns.
type HookMatcher struct {
	Matcher string      `json:"matcher"`
	Hooks   []HookEntry `json:"hooks"`
}

// HookEntry represents a single hook command.
type HookEntry struct {
	Type    string `json:"type"`
	Command string `json:"command"`
}

// SettingsPath returns the settings file under projectRoot.
func SettingsPath(projectRoot string) string {
	return filepath.Join(projectRoot, Dir, FileName)
}

// Install adds the stop hook to projectRoot's .claude/settings.json,
// preserving everything else in the file. If force is true, existing
// taskgate hooks are removed before installing. Returns the number of hooks
// added (zero when already installed).
func Install(projectRoot string, force bool) (int, error) {
	settingsPath := SettingsPath(projectRoot)

	var settings Settings
	var rawSettings map[string]json.RawMessage

	existingData, readErr := os.ReadFile(settingsPath) //nolint:gosec // path is project root + fixed path
	if readErr == nil {
		if err := json.Unmarshal(existingData, &rawSettings); err != nil {
			return 0, fmt.Errorf("failed to parse existing settings.json: %w", err)
		}
		if hooksRaw, ok := rawSettings["hooks"]; ok {
			if err := json.Unmarshal(hooksRaw, &settings.Hooks); err != nil {
				return 0, fmt.Errorf("failed to parse hooks in settings.json: %w", err)
			}
		}
	} else {
		rawSettings = make(map[string]json.RawMessage)
	}

	if force {
		settings.Hooks.Stop = removeTaskgateHooks(settings.Hooks.Stop)
	}

	count := 0
	if !hookCommandExists(settings.Hooks.Stop, StopHookCommand) {
		settings.Hooks.Stop = addHookToMatcher(settings.Hooks.Stop, "", StopHookCommand)
		count++
	}

	if count == 0 {
		return 0, nil // Already installed
	}

	return count, writeRawSettings(settingsPath, rawSettings, settings)
}

// Uninstall removes taskgate hooks from projectRoot's settings file.
// Missing files are fine: nothing to remove.
func Uninstall(projectRoot string) error {
	settingsPath := SettingsPath(projectRoot)

	existingData, err := os.ReadFile(settingsPath) //nolint:gosec // path is project root + fixed path
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read settings.json: %w", err)
	}

	var rawSettings map[string]json.RawMessage
	if err := json.Unmarshal(existingData, &rawSettings); err != nil {
		return fmt.Errorf("failed to parse settings.json: %w", err)
	}

	var settings Settings
	if hooksRaw, ok := rawSettings["hooks"]; ok {
		if err := json.Unmarshal(hooksRaw, &settings.Hooks); err != nil {
			return fmt.Errorf("failed to parse hooks in settings.json: %w", err)
		}
	}

	settings.Hooks.Stop = removeTaskgateHooks(settings.Hooks.Stop)

	return writeRawSettings(settingsPath, rawSettings, settings)
}

// Installed reports whether the stop hook is present in projectRoot's
// settings file.
func Installed(projectRoot string) bool {
	data, err := os.ReadFile(SettingsPath(projectRoot)) //nolint:gosec // path is project root + fixed path
	if err != nil {
		return false
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return false
	}
	return hookCommandExists(settings.Hooks.Stop, StopHookCommand)
}

func writeRawSettings(settingsPath string, rawSettings map[string]json.RawMessage, settings Settings) error {
	hooksJSON, err := json.Marshal(settings.Hooks)
	if err != nil {
		return fmt.Errorf("failed to marshal hooks: %w", err)
	}
	rawSettings["hooks"] = hooksJSON

	if err := os.MkdirAll(filepath.Dir(settingsPath), 0o750); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", Dir, err)
	}

	output, err := jsonutil.MarshalIndentWithNewline(rawSettings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(settingsPath, output, 0o600); err != nil {
		return fmt.Errorf("failed to write settings.json: %w", err)
	}
	return nil
}

func hookCommandExists(matchers []HookMatcher, command string) bool {
	for _, matcher := range matchers {
		for _, hook := range matcher.Hooks {
			if hook.Command == command {
				return true
			}
		}
	}
	return false
}

func addHookToMatcher(matchers []HookMatcher, matcherName, command string) []HookMatcher {
	entry := HookEntry{Type: "command", Command: command}

	for i, matcher := range matchers {
		if matcher.Matcher == matcherName {
			matchers[i].Hooks = append(matchers[i].Hooks, entry)
			return matchers
		}
	}
	return append(matchers, HookMatcher{Matcher: matcherName, Hooks: []HookEntry{entry}})
}

func isTaskgateHook(command string) bool {
	return strings.HasPrefix(command, taskgateHookPrefix)
}

func removeTaskgateHooks(matchers []HookMatcher) []HookMatcher {
	result := make([]HookMatcher, 0, len(matchers))
	for _, matcher := range matchers {
		filteredHooks := make([]HookEntry, 0, len(matcher.Hooks))
		for _, hook := range matcher.Hooks {
			if !isTaskgateHook(hook.Command) {
				filteredHooks = append(filteredHooks, hook)
			}
		}
		// Only keep the matcher if it has hooks remaining
		if len(filteredHooks) > 0 {
			matcher.Hooks = filteredHooks
			result = append(result, matcher)
		}
	}
	return result
}
