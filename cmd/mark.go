package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tallgren/codewalk/internal/annotate"
	"github.com/tallgren/codewalk/internal/display"
	"github.com/tallgren/codewalk/internal/lesson"
)

var markRemove int

var markCmd = &cobra.Command{
	Use:   "mark [file start [end]]",
	Short: "Mark a line range for the note being written",
	Long: `Mark a line range of a file for the pending note. Repeated marks on the
same file accumulate into one note; marking a different file starts over.
Without arguments the pending marks are shown. Lines are 1-based.`,
	Args: cobra.RangeArgs(0, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, root, err := openStore(cmd)
		if err != nil {
			return err
		}

		drafts := annotate.NewDraftStore(store.Dir())
		draft, err := drafts.Load()
		if err != nil && !errors.Is(err, annotate.ErrNoDraft) {
			return err
		}

		disp := newDisplay(root)
		session := annotate.NewSession(store, disp)
		session.Resume(draft)

		switch {
		case markRemove > 0:
			if len(args) != 0 {
				return fmt.Errorf("--remove takes no file arguments")
			}
			session.RemoveRange(markRemove - 1)
			cmd.Printf("Removed mark %d.\n", markRemove)

		case len(args) == 0:
			d := session.Draft()
			disp.Refresh(d.File, d.Ranges)
			return printMarks(cmd, disp, d)

		case len(args) == 1:
			return fmt.Errorf("mark needs a start line: mark %s <start> [end]", args[0])

		default:
			file, r, err := parseMark(root, args)
			if err != nil {
				return err
			}
			if session.AddRange(file, r) {
				cmd.Printf("Marked %s (%s).\n", file, describeRanges([]lesson.LineRange{r}))
			} else {
				cmd.Println("Those lines are already marked.")
			}
		}

		draft = session.Draft()
		if draft.Empty() {
			if err := drafts.Delete(); err != nil {
				return err
			}
		} else if err := drafts.Save(draft); err != nil {
			return err
		}

		cmd.Print(disp.Excerpt())
		return nil
	},
}

// parseMark turns "file start [end]" into a workspace-relative file and a
// zero-based range. Lines on the command line are 1-based.
func parseMark(root string, args []string) (string, lesson.LineRange, error) {
	start, err := strconv.Atoi(args[1])
	if err != nil || start < 1 {
		return "", lesson.LineRange{}, fmt.Errorf("start line must be a positive number, got %q", args[1])
	}
	end := start
	if len(args) == 3 {
		end, err = strconv.Atoi(args[2])
		if err != nil {
			return "", lesson.LineRange{}, fmt.Errorf("end line must be a number, got %q", args[2])
		}
		if end < start {
			return "", lesson.LineRange{}, fmt.Errorf("end line %d is before start line %d", end, start)
		}
	}

	file := args[0]
	if abs, err := filepath.Abs(file); err == nil {
		if rel, err := filepath.Rel(root, abs); err == nil {
			file = rel
		}
	}
	return filepath.ToSlash(file), lesson.LineRange{Start: start - 1, End: end - 1}, nil
}

// printMarks lists the accumulated marks of the pending note.
func printMarks(cmd *cobra.Command, disp *display.Display, draft annotate.Draft) error {
	if draft.Empty() {
		cmd.Println("No annotation in progress.")
		return nil
	}
	if len(draft.Ranges) == 0 {
		cmd.Println("Pending note has no marks (it will be a general note).")
	} else {
		cmd.Printf("Pending marks on %s:\n", draft.File)
		for i, r := range draft.Ranges {
			cmd.Printf("  %d. %s\n", i+1, describeRanges([]lesson.LineRange{r}))
		}
	}
	if draft.Text != "" {
		cmd.Println("Note text is drafted.")
	}
	cmd.Print(disp.Excerpt())
	return nil
}

func init() {
	markCmd.Flags().IntVar(&markRemove, "remove", 0, "remove the n'th pending mark (1-based)")
	rootCmd.AddCommand(markCmd)
}
