// Package settings loads and saves taskgate configuration files.
// This package is separate from cli so guard sources can be built without
// an import cycle (cli imports guard).
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/taskgate/cli/cmd/taskgate/cli/guard"
	"github.com/taskgate/cli/cmd/taskgate/cli/jsonutil"
	"github.com/taskgate/cli/cmd/taskgate/cli/paths"
)

// Settings is the on-disk shape of .taskgate/settings.json, both project
// local and user global.
type Settings struct {
	// TaskListID pins the gate to one task list instead of auto-detecting
	// by project.
	TaskListID string `json:"task_list_id,omitempty"`

	// Keywords narrow auto-detected lists and gate differently-titled
	// sessions. Defaults to ["dev"] when unset.
	Keywords []string `json:"keywords,omitempty"`

	// Enabled turns the stop gate on or off. Unset means on.
	Enabled *bool `json:"enabled,omitempty"`

	// LogLevel sets logging verbosity (debug, info, warn, error).
	// TASKGATE_LOG_LEVEL overrides it.
	LogLevel string `json:"log_level,omitempty"`

	// Telemetry controls anonymous usage analytics.
	// nil = not asked yet, true = opted in, false = opted out.
	Telemetry *bool `json:"telemetry,omitempty"`
}

// Load reads settings from path. A missing file yields (nil, nil).
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from paths package constants
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading settings file: %w", err)
	}

	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing settings file: %w", err)
	}
	return &s, nil
}

// Save writes settings to path, creating parent directories as needed.
func Save(path string, s *Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}
	data, err := jsonutil.MarshalIndentWithNewline(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing settings file: %w", err)
	}
	return nil
}

// checkConfigKeys are the fields that make a settings file define the check
// configuration. A file carrying only log_level or telemetry does not claim
// its tier.
var checkConfigKeys = []string{"task_list_id", "keywords", "enabled"}

// FileSource adapts a settings file to a guard.ConfigSource. The tier is
// defined only when the file exists, parses, and sets at least one check
// config key; a malformed file counts as undefined (fail open).
type FileSource struct {
	SourceName string
	Path       string
}

func (f FileSource) Name() string { return f.SourceName }

func (f FileSource) Load() (*guard.CheckConfig, bool) {
	data, err := os.ReadFile(f.Path) //nolint:gosec // path comes from paths package constants
	if err != nil {
		return nil, false
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, false
	}
	defined := false
	for _, key := range checkConfigKeys {
		if _, ok := raw[key]; ok {
			defined = true
			break
		}
	}
	if !defined {
		return nil, false
	}

	var cfg guard.CheckConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, false
	}
	return &cfg, true
}

// Sources returns the configuration tiers for an invocation in priority
// order: project settings, then global settings, then environment.
func Sources(cwd string) []guard.ConfigSource {
	sources := []guard.ConfigSource{
		FileSource{SourceName: "project", Path: paths.ProjectSettingsPath(cwd)},
	}
	if globalPath, err := paths.GlobalSettingsPath(); err == nil {
		sources = append(sources, FileSource{SourceName: "global", Path: globalPath})
	}
	return append(sources, guard.EnvSource{})
}

// LogLevel resolves the configured log level from the project then global
// settings file. Returns "" when neither sets one.
func LogLevel(cwd string) string {
	if s, err := Load(paths.ProjectSettingsPath(cwd)); err == nil && s != nil && s.LogLevel != "" {
		return s.LogLevel
	}
	if globalPath, err := paths.GlobalSettingsPath(); err == nil {
		if s, err := Load(globalPath); err == nil && s != nil {
			return s.LogLevel
		}
	}
	return ""
}
