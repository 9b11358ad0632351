package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tallgren/codewalk/internal/check"
	"github.com/tallgren/codewalk/internal/lesson"
)

var checkCmd = &cobra.Command{
	Use:   "check [id]",
	Short: "Report notes whose marks no longer fit the working tree",
	Long: `Marks record static line numbers, so editing a file after annotating it can
leave them pointing past the end of the file or at a file that is gone.
check reports those notes without changing anything.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, root, err := openStore(cmd)
		if err != nil {
			return err
		}

		var l *lesson.Lesson
		if len(args) == 1 {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("lesson id must be a number, got %q", args[0])
			}
			if l = store.Get(id); l == nil {
				return lesson.ErrNotFound
			}
		} else {
			if l = store.Active(); l == nil {
				return fmt.Errorf("no active lesson — pass a lesson id or create one first")
			}
		}

		res := check.Run(root, l)
		for _, w := range res.Warnings {
			cmd.PrintErrf("warning: %s\n", w)
		}

		if res.Clean() {
			cmd.Printf("Lesson %d %q: all marks fit the working tree.\n", res.LessonID, res.Title)
			return nil
		}

		cmd.Printf("Lesson %d %q has drifted marks:\n", res.LessonID, res.Title)
		for _, f := range res.Findings {
			cmd.Printf("  note %d (%s): %s\n", f.NoteIndex+1, f.File, f.Detail)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
