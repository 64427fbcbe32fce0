package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/taskgate/cli/cmd/taskgate/cli/claudesettings"
	"github.com/taskgate/cli/cmd/taskgate/cli/guard"
	"github.com/taskgate/cli/cmd/taskgate/cli/paths"
	"github.com/taskgate/cli/cmd/taskgate/cli/settings"
	"github.com/taskgate/cli/cmd/taskgate/cli/taskstore"
)

// autoDetectOption is the select value meaning "no pinned task list".
const autoDetectOption = ""

func newEnableCmd() *cobra.Command {
	var (
		taskList string
		keywords []string
		force    bool
		noInput  bool
	)

	cmd := &cobra.Command{
		Use:   "enable",
		Short: "Install the stop hook and configure the gate for this project",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cwd := workingDir()
			projectRoot := paths.ProjectRoot(cwd)
			settingsPath := paths.ProjectSettingsPath(cwd)

			current, err := settings.Load(settingsPath)
			if err != nil {
				return err
			}
			if current == nil {
				current = &settings.Settings{}
			}

			if cmd.Flags().Changed("task-list") {
				current.TaskListID = taskList
			}
			if cmd.Flags().Changed("keywords") {
				current.Keywords = guard.NormalizeKeywords(keywords)
			}

			interactive := !noInput && term.IsTerminal(int(os.Stdin.Fd()))
			if interactive {
				if err := promptForConfig(current); err != nil {
					return err
				}
			}

			enabled := true
			current.Enabled = &enabled
			if err := settings.Save(settingsPath, current); err != nil {
				return err
			}

			installed, err := claudesettings.Install(projectRoot, force)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if installed > 0 {
				fmt.Fprintf(out, "Installed the stop hook in %s\n", claudesettings.SettingsPath(projectRoot))
			} else {
				fmt.Fprintln(out, "Stop hook already installed")
			}
			if current.TaskListID != "" {
				fmt.Fprintf(out, "Gating on task list %q\n", current.TaskListID)
			} else {
				fmt.Fprintln(out, "Gating on auto-detected project task lists")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&taskList, "task-list", "", "pin the gate to one task list instead of auto-detecting")
	cmd.Flags().StringSliceVar(&keywords, "keywords", nil, "keywords that select task lists and sessions (default dev)")
	cmd.Flags().BoolVar(&force, "force", false, "reinstall the hook, removing stale taskgate entries first")
	cmd.Flags().BoolVar(&noInput, "no-input", false, "skip interactive prompts")

	return cmd
}

// promptForConfig asks for the task list and keywords interactively.
// Task lists come from the store so the user picks from what actually exists;
// auto-generated (canonical) list names are hidden.
func promptForConfig(current *settings.Settings) error {
	store := taskstore.NewStore(paths.TasksRoot())

	options := []huh.Option[string]{
		huh.NewOption("Auto-detect by project", autoDetectOption),
	}
	for _, list := range store.Lists() {
		if guard.IsCanonicalListName(list) {
			continue
		}
		options = append(options, huh.NewOption(list, list))
	}

	keywordsCSV := strings.Join(current.Keywords, ",")
	if keywordsCSV == "" {
		keywordsCSV = strings.Join(guard.DefaultKeywords, ",")
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which task list should gate this project?").
				Options(options...).
				Value(&current.TaskListID),
			huh.NewInput().
				Title("Keywords (comma-separated)").
				Description("Lists and session titles matching a keyword are gated.").
				Value(&keywordsCSV),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("configuration cancelled: %w", err)
	}

	current.Keywords = guard.NormalizeKeywords(strings.Split(keywordsCSV, ","))
	return nil
}

func newDisableCmd() *cobra.Command {
	var uninstall bool

	cmd := &cobra.Command{
		Use:   "disable",
		Short: "Turn the stop gate off for this project",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cwd := workingDir()
			settingsPath := paths.ProjectSettingsPath(cwd)

			current, err := settings.Load(settingsPath)
			if err != nil {
				return err
			}
			if current == nil {
				current = &settings.Settings{}
			}
			enabled := false
			current.Enabled = &enabled
			if err := settings.Save(settingsPath, current); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Stop gate disabled; every stop will be approved")

			if uninstall {
				projectRoot := paths.ProjectRoot(cwd)
				if err := claudesettings.Uninstall(projectRoot); err != nil {
					return err
				}
				fmt.Fprintln(out, "Removed the stop hook from .claude/settings.json")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&uninstall, "uninstall", false, "also remove the hook from .claude/settings.json")
	return cmd
}
