// Package telemetry reports anonymous command usage. It is strictly opt-in:
// without an explicit opt-in in settings the client is a no-op, and
// TASKGATE_TELEMETRY_OPTOUT silences it regardless of settings.
package telemetry

import (
	"net"
	"net/http"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/denisbrodbeck/machineid"
	"github.com/posthog/posthog-go"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	// PostHogAPIKey is set at build time for production
	PostHogAPIKey = "phc_development_key"
	// PostHogEndpoint is set at build time for production
	PostHogEndpoint = "https://eu.i.posthog.com"
)

// OptOutEnvVar disables telemetry regardless of settings.
const OptOutEnvVar = "TASKGATE_TELEMETRY_OPTOUT"

// Client defines the telemetry interface
type Client interface {
	TrackCommand(cmd *cobra.Command)
	Close()
}

// NoOpClient is a no-op implementation for when telemetry is disabled
type NoOpClient struct{}

func (n *NoOpClient) TrackCommand(_ *cobra.Command) {}
func (n *NoOpClient) Close()                        {}

// silentLogger suppresses PostHog log output - expected for CLI best-effort telemetry
type silentLogger struct{}

func (silentLogger) Logf(_ string, _ ...interface{})   {}
func (silentLogger) Debugf(_ string, _ ...interface{}) {}
func (silentLogger) Warnf(_ string, _ ...interface{})  {}
func (silentLogger) Errorf(_ string, _ ...interface{}) {}

// PostHogClient is the real telemetry client
type PostHogClient struct {
	client    posthog.Client
	machineID string
	mu        sync.RWMutex
}

// NewClient creates a telemetry client based on opt-in settings.
// enabled comes from settings; nil means not configured (default to disabled).
//
//nolint:ireturn // Factory function - returns NoOpClient or PostHogClient based on settings
func NewClient(version string, enabled *bool) Client {
	if os.Getenv(OptOutEnvVar) != "" {
		return &NoOpClient{}
	}
	if enabled == nil || !*enabled {
		return &NoOpClient{}
	}

	id, err := machineid.ProtectedID("taskgate-cli")
	if err != nil {
		return &NoOpClient{}
	}

	// Fast-timeout transport: telemetry must never block CLI exit.
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: 100 * time.Millisecond,
		}).DialContext,
		TLSHandshakeTimeout:   100 * time.Millisecond,
		ResponseHeaderTimeout: 100 * time.Millisecond,
	}

	client, err := posthog.NewWithConfig(PostHogAPIKey, posthog.Config{
		Endpoint:           PostHogEndpoint,
		ShutdownTimeout:    100 * time.Millisecond,
		BatchUploadTimeout: 200 * time.Millisecond,
		Transport:          transport,
		Logger:             silentLogger{},
		DisableGeoIP:       posthog.Ptr(true),
		DefaultEventProperties: posthog.NewProperties().
			Set("cli_version", version).
			Set("os", runtime.GOOS).
			Set("arch", runtime.GOARCH),
	})
	if err != nil {
		return &NoOpClient{}
	}

	return &PostHogClient{client: client, machineID: id}
}

// TrackCommand records the command execution. Flag names are collected
// without their values for privacy; hook commands are skipped.
func (p *PostHogClient) TrackCommand(cmd *cobra.Command) {
	if cmd == nil || hiddenCommand(cmd) {
		return
	}

	p.mu.RLock()
	id := p.machineID
	c := p.client
	p.mu.RUnlock()

	if c == nil {
		return
	}

	var flags []string
	cmd.Flags().Visit(func(flag *pflag.Flag) {
		flags = append(flags, flag.Name)
	})

	_ = c.Enqueue(posthog.Capture{
		DistinctId: id,
		Event:      "command_run",
		Properties: posthog.NewProperties().
			Set("command", cmd.CommandPath()).
			Set("flags", flags),
	})
}

// hiddenCommand reports whether cmd or any ancestor is hidden. The hook
// leaves are not marked hidden themselves; their parent tree is.
func hiddenCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Hidden {
			return true
		}
	}
	return false
}

// Close flushes pending events.
func (p *PostHogClient) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		_ = p.client.Close()
		p.client = nil
	}
}
