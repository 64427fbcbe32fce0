// Package paths resolves the on-disk locations taskgate reads and writes.
package paths

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
)

// Directory and file names.
const (
	TaskgateDir      = ".taskgate"
	SettingsFileName = "settings.json"
	LogsDirName      = "logs"
)

// TasksDirEnvVar overrides the task store root, mainly for tests.
const TasksDirEnvVar = "TASKGATE_TASKS_DIR"

// ProjectRoot returns the root of the git worktree containing dir.
// Falls back to dir itself when it is not inside a repository, so taskgate
// still works in plain directories.
func ProjectRoot(dir string) string {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return dir
	}
	wt, err := repo.Worktree()
	if err != nil {
		// Bare repository; settings live next to it.
		return dir
	}
	return wt.Filesystem.Root()
}

// ProjectSettingsPath returns the project-local settings file for the
// worktree containing cwd.
func ProjectSettingsPath(cwd string) string {
	return filepath.Join(ProjectRoot(cwd), TaskgateDir, SettingsFileName)
}

// GlobalSettingsPath returns the user-global settings file (~/.taskgate/settings.json).
func GlobalSettingsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, TaskgateDir, SettingsFileName), nil
}

// LogsDir returns the directory hook logs are written to (~/.taskgate/logs).
func LogsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, TaskgateDir, LogsDirName), nil
}

// TasksRoot returns the task store root: TASKGATE_TASKS_DIR when set,
// otherwise ~/.claude/tasks where Claude Code's task tool keeps its lists.
func TasksRoot() string {
	if dir := os.Getenv(TasksDirEnvVar); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".claude", "tasks")
}
