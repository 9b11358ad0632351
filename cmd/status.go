package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tallgren/codewalk/internal/annotate"
	"github.com/tallgren/codewalk/internal/lesson"
)

var statusWatch bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the active lesson and any annotation in progress",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore(cmd)
		if err != nil {
			return err
		}

		printStatus(cmd, store)

		if !statusWatch {
			return nil
		}

		// Re-print on every store change until interrupted. External
		// hand-edits to the JSON files show up here too.
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cmd.Println("watching for changes (ctrl-c to stop)")
		err = store.Watch(ctx, func(active *lesson.Summary) {
			printStatus(cmd, store)
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

// printStatus writes the one-screen summary: active lesson and pending draft.
func printStatus(cmd *cobra.Command, store *lesson.Store) {
	active := store.Active()
	if active == nil {
		cmd.Println("no active lesson")
	} else {
		cmd.Printf("Active lesson: #%d %s\n", active.ID, active.Title)
		cmd.Printf("Notes: %d\n", len(active.Notes))
	}

	draft, err := annotate.NewDraftStore(store.Dir()).Load()
	switch {
	case errors.Is(err, annotate.ErrNoDraft):
		cmd.Println("No annotation in progress.")
	case err != nil:
		cmd.PrintErrf("warning: %v\n", err)
	case len(draft.Ranges) == 0:
		cmd.Println("Annotation in progress: general note")
	default:
		cmd.Printf("Annotation in progress: %s (%s)\n", draft.File, describeRanges(draft.Ranges))
	}
}

// describeRanges renders zero-based ranges one-based for people.
func describeRanges(ranges []lesson.LineRange) string {
	out := ""
	for i, r := range ranges {
		if i > 0 {
			out += ", "
		}
		if r.Start == r.End {
			out += fmt.Sprintf("line %d", r.Start+1)
		} else {
			out += fmt.Sprintf("lines %d-%d", r.Start+1, r.End+1)
		}
	}
	return out
}

func init() {
	statusCmd.Flags().BoolVar(&statusWatch, "watch", false, "keep running and refresh on store changes")
	rootCmd.AddCommand(statusCmd)
}
