package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/tallgren/codewalk/internal/config"
	"github.com/tallgren/codewalk/internal/display"
	"github.com/tallgren/codewalk/internal/editor"
	"github.com/tallgren/codewalk/internal/lesson"
	"github.com/tallgren/codewalk/internal/profile"
)

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

// activeProfile holds the loaded user profile.
var activeProfile *profile.Profile

var rootCmd = &cobra.Command{
	Use:   "codewalk",
	Short: "Annotate source lines with lessons and replay them as guided walkthroughs",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip setup check for the setup command itself.
		if cmd.Name() == "setup" {
			return nil
		}

		// First-run: profile missing → run setup wizard automatically.
		// Only do this when stdin is an interactive terminal.
		if !profile.Exists() {
			if term.IsTerminal(os.Stdin.Fd()) {
				fmt.Println()
				fmt.Println("  Welcome to codewalk! Looks like this is your first time.")
				if err := runSetup(true); err != nil {
					return err
				}
			}
			// Non-interactive (tests, pipes): continue with defaults, no profile required.
		}

		// Load profile (optional — may not exist in non-interactive environments).
		if profile.Exists() {
			p, err := profile.Load()
			if err != nil {
				return fmt.Errorf("loading profile: %w", err)
			}
			activeProfile = p
		}

		// Load and merge config files.
		global, err := config.LoadGlobal()
		if err != nil {
			return fmt.Errorf("loading global config: %w", err)
		}
		project, err := config.LoadProject()
		if err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		cfg = config.Merge(global, project)

		// Profile values fill in config gaps.
		if activeProfile != nil {
			if cfg.Editor == "" && activeProfile.Editor != "" {
				cfg.Editor = activeProfile.Editor
			}
			if cfg.ExportDir == "." && activeProfile.ExportDir != "" && activeProfile.ExportDir != "." {
				cfg.ExportDir = activeProfile.ExportDir
			}
		}

		return nil
	},
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetConfig returns the merged configuration for use by subcommands.
func GetConfig() config.Config {
	return cfg
}

// GetProfile returns the active user profile.
func GetProfile() *profile.Profile {
	return activeProfile
}

// workspaceRoot locates the workspace this invocation operates on: the
// nearest ancestor holding a lesson store, or the working directory itself
// for a fresh workspace.
func workspaceRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return lesson.FindRoot(cwd), nil
}

// openStore builds the lesson store for the workspace and wires its change
// notifications to cmd's output, so every successful mutation reports which
// lesson is active afterwards.
func openStore(cmd *cobra.Command) (*lesson.Store, string, error) {
	root, err := workspaceRoot()
	if err != nil {
		return nil, "", err
	}
	store := lesson.NewStore(root)
	store.Subscribe(func(active *lesson.Summary) {
		if active == nil {
			cmd.Println("active lesson: none")
		} else {
			cmd.Printf("active lesson: #%d %s\n", active.ID, active.Title)
		}
	})
	return store, root, nil
}

// newDisplay builds the shared terminal display for root, sized per config.
func newDisplay(root string) *display.Display {
	d := display.New(root)
	d.SetContext(cfg.ExcerptContext)
	return d
}

// newOpener builds the editor opener honoring the configured editor.
func newOpener() *editor.Opener {
	return &editor.Opener{Preferred: cfg.Editor}
}
