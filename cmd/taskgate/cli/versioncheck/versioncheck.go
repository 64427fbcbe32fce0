// Package versioncheck notifies users when a newer taskgate release exists.
// All failures are silent: an update nudge is never worth breaking a command.
package versioncheck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"
)

// VersionCache records when the last remote lookup happened.
type VersionCache struct {
	LastCheckTime time.Time `json:"last_check_time"`
}

// GitHubRelease is the subset of the GitHub release API response we read.
type GitHubRelease struct {
	TagName    string `json:"tag_name"`
	Prerelease bool   `json:"prerelease"`
}

// githubAPIURL is a var (not const) to allow overriding in tests.
var githubAPIURL = "https://api.github.com/repos/taskgate/cli/releases/latest"

const (
	// checkInterval is the duration between remote lookups.
	checkInterval = 24 * time.Hour

	httpTimeout   = 2 * time.Second
	cacheFileName = "version_check.json"

	// globalConfigDirName is relative to the user's home directory.
	globalConfigDirName = ".config/taskgate"
)

// CheckAndNotify checks for a newer release and prints a notice to stderr
// when one exists. At most one remote lookup per checkInterval; dev builds
// and hidden (hook) commands are skipped.
func CheckAndNotify(cmd *cobra.Command, currentVersion string) {
	if hiddenCommand(cmd) {
		return
	}
	if currentVersion == "dev" || currentVersion == "" {
		return
	}

	if err := ensureGlobalConfigDir(); err != nil {
		return
	}

	cache, err := loadCache()
	if err != nil {
		cache = &VersionCache{}
	}
	if time.Since(cache.LastCheckTime) < checkInterval {
		return
	}

	latestVersion, err := fetchLatestVersion()

	// Update the cache even on failure so a flaky network doesn't retry on
	// every invocation.
	cache.LastCheckTime = time.Now()
	_ = saveCache(cache)

	if err != nil {
		return
	}

	if isOutdated(currentVersion, latestVersion) {
		fmt.Fprintf(cmd.ErrOrStderr(),
			"\nA new version of taskgate is available: %s (you have %s)\n",
			latestVersion, currentVersion)
	}
}

// hiddenCommand reports whether cmd or any ancestor is hidden. Cobra does
// not inherit Hidden, and hook leaves sit under a hidden parent without
// being marked themselves.
func hiddenCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Hidden {
			return true
		}
	}
	return false
}

func globalConfigDirPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, globalConfigDirName), nil
}

func ensureGlobalConfigDir() error {
	configDir, err := globalConfigDirPath()
	if err != nil {
		return err
	}
	//nolint:gosec // user config directory, 0o755 is appropriate
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return nil
}

func cacheFilePath() (string, error) {
	configDir, err := globalConfigDirPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, cacheFileName), nil
}

func loadCache() (*VersionCache, error) {
	filePath, err := cacheFilePath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filePath) //nolint:gosec // cacheFilePath is safe
	if err != nil {
		return nil, fmt.Errorf("reading cache file: %w", err)
	}
	var cache VersionCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil, fmt.Errorf("parsing cache: %w", err)
	}
	return &cache, nil
}

func saveCache(cache *VersionCache) error {
	filePath, err := cacheFilePath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling cache: %w", err)
	}

	// Atomic write: temp file then rename.
	tmpFile, err := os.CreateTemp(filepath.Dir(filePath), ".version_check_tmp_")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("writing cache: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpFile.Name(), filePath); err != nil {
		return fmt.Errorf("renaming cache file: %w", err)
	}
	return nil
}

func fetchLatestVersion() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), httpTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, githubAPIURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "taskgate-cli")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching release info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	return parseGitHubRelease(body)
}

func parseGitHubRelease(body []byte) (string, error) {
	var release GitHubRelease
	if err := json.Unmarshal(body, &release); err != nil {
		return "", fmt.Errorf("parsing JSON: %w", err)
	}
	if release.Prerelease {
		return "", errors.New("only prerelease versions available")
	}
	if release.TagName == "" {
		return "", errors.New("missing tag name")
	}
	return release.TagName, nil
}

// isOutdated compares two versions using semver semantics. Tags may carry a
// leading "v"; anything unparseable compares as not outdated.
func isOutdated(current, latest string) bool {
	current = ensureVPrefix(current)
	latest = ensureVPrefix(latest)
	if !semver.IsValid(current) || !semver.IsValid(latest) {
		return false
	}
	return semver.Compare(current, latest) < 0
}

func ensureVPrefix(version string) string {
	if strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}
