package guard

import (
	"os"
	"strconv"
	"strings"
)

// DefaultKeywords is used when no tier configures keywords.
var DefaultKeywords = []string{"dev"}

// CheckConfig is the resolved stop-gate configuration for one invocation.
// Zero values mean "not set": an empty TaskListID auto-detects the list by
// project, nil Keywords falls back to DefaultKeywords, nil Enabled means on.
type CheckConfig struct {
	TaskListID string   `json:"task_list_id,omitempty"`
	Keywords   []string `json:"keywords,omitempty"`
	Enabled    *bool    `json:"enabled,omitempty"`
}

// IsEnabled reports whether the gate is active.
func (c *CheckConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// ConfigSource supplies a CheckConfig from one configuration tier.
// Load returns (nil, false) when the tier defines nothing; the first tier
// that defines the config wins wholesale, with no merging across tiers.
type ConfigSource interface {
	Name() string
	Load() (*CheckConfig, bool)
}

// ResolveConfig walks the sources in order and returns the first defined
// config plus the name of the tier that supplied it. Sources that fail to
// load count as undefined. When no tier defines anything, a default config
// is returned with tier "default".
//
// Defaults are applied to a copy of the winning config: keywords default to
// DefaultKeywords and are normalized (lowercased, trimmed, empties dropped).
// The struct the source handed out is never mutated; sources may return a
// shared pointer.
func ResolveConfig(sources []ConfigSource) (*CheckConfig, string) {
	for _, src := range sources {
		cfg, ok := src.Load()
		if !ok || cfg == nil {
			continue
		}
		resolved := *cfg
		resolved.Keywords = NormalizeKeywords(resolved.Keywords)
		if resolved.Keywords == nil {
			resolved.Keywords = DefaultKeywords
		}
		return &resolved, src.Name()
	}
	return &CheckConfig{Keywords: DefaultKeywords}, "default"
}

// NormalizeKeywords lowercases and trims keywords, dropping empties.
// Returns nil when nothing survives.
func NormalizeKeywords(keywords []string) []string {
	var out []string
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

// Environment variables for the lowest-priority configuration tier.
const (
	EnvTaskListID = "TASKGATE_TASK_LIST_ID"
	EnvKeywords   = "TASKGATE_KEYWORDS"
	EnvEnabled    = "TASKGATE_ENABLED"
)

// EnvSource reads the check configuration from process environment
// variables. The tier is defined as soon as any of the variables is set.
type EnvSource struct{}

func (EnvSource) Name() string { return "environment" }

func (EnvSource) Load() (*CheckConfig, bool) {
	listID, hasList := os.LookupEnv(EnvTaskListID)
	keywords, hasKeywords := os.LookupEnv(EnvKeywords)
	enabled, hasEnabled := os.LookupEnv(EnvEnabled)

	if !hasList && !hasKeywords && !hasEnabled {
		return nil, false
	}

	cfg := &CheckConfig{TaskListID: listID}
	if hasKeywords {
		cfg.Keywords = strings.Split(keywords, ",")
	}
	if hasEnabled {
		if v, err := strconv.ParseBool(enabled); err == nil {
			cfg.Enabled = &v
		}
	}
	return cfg, true
}

// FuncSource adapts a function to a ConfigSource. Used by tests and by
// callers that already hold a parsed config.
type FuncSource struct {
	SourceName string
	LoadFunc   func() (*CheckConfig, bool)
}

func (f FuncSource) Name() string { return f.SourceName }

func (f FuncSource) Load() (*CheckConfig, bool) { return f.LoadFunc() }
