package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/tallgren/codewalk/internal/display"
	"github.com/tallgren/codewalk/internal/lesson"
	"github.com/tallgren/codewalk/internal/review"
	"github.com/tallgren/codewalk/internal/tui"
)

var reviewPlain bool

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Walk through the active lesson's notes with highlighted code",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, root, err := openStore(cmd)
		if err != nil {
			return err
		}

		disp := newDisplay(root)
		nav := review.NewNavigator(store, root, disp, disp)

		step, err := nav.Start()
		if err != nil {
			if errors.Is(err, lesson.ErrNoActiveLesson) {
				return fmt.Errorf("no active lesson — create one with 'codewalk create <title>'")
			}
			if errors.Is(err, review.ErrNoNotes) {
				return fmt.Errorf("the active lesson has no notes yet — add some with 'codewalk mark' and 'codewalk note'")
			}
			return err
		}

		if reviewPlain || !term.IsTerminal(os.Stdout.Fd()) {
			return runPlainReview(cmd, nav, disp, step)
		}
		return tui.Run(nav, disp, newOpener(), root, step)
	},
}

// runPlainReview prints the whole walkthrough front to back, one step after
// another, for pipes and terminals without a TUI.
func runPlainReview(cmd *cobra.Command, nav *review.Navigator, disp *display.Display, step review.Step) error {
	defer nav.Stop()

	for {
		cmd.Printf("── %s — step %d/%d ──\n", nav.Title(), step.Index+1, step.Total)
		for _, w := range step.Warnings {
			cmd.PrintErrf("warning: %s\n", w)
		}
		if excerpt := disp.Excerpt(); excerpt != "" {
			cmd.Print(excerpt)
		}
		if md := disp.Markdown(); md != "" {
			cmd.Print(md)
		}
		cmd.Println()

		next, err := nav.Next()
		if err != nil {
			return err
		}
		if !next.Moved {
			return nil
		}
		step = next
	}
}

func init() {
	reviewCmd.Flags().BoolVar(&reviewPlain, "plain", false, "print the walkthrough instead of opening the TUI")
	rootCmd.AddCommand(reviewCmd)
}
