package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tallgren/codewalk/internal/annotate"
	"github.com/tallgren/codewalk/internal/lesson"
)

var noteMessage string

var noteCmd = &cobra.Command{
	Use:   "note [-m text]",
	Short: "Commit the pending annotation as a note on the active lesson",
	Long: `Commit the pending annotation to the active lesson. With marks pending it
becomes a code note on those lines; without marks it becomes a general note.
Without -m the note text is composed in your editor, seeded with any draft
text.`,
	Args: cobra.NoArgs,
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

		text := noteMessage
		if !cmd.Flags().Changed("message") {
			text, err = newOpener().Compose(draft.Text)
			if err != nil {
				return fmt.Errorf("composing note text: %w", err)
			}
		}
		session.SetText(text)

		note, err := session.Commit()
		if err != nil {
			if errors.Is(err, lesson.ErrNoActiveLesson) {
				// Keep the draft: the marks survive until a lesson exists.
				if d := session.Draft(); !d.Empty() {
					if saveErr := drafts.Save(d); saveErr != nil {
						return saveErr
					}
				}
				return fmt.Errorf("no active lesson — create one with 'codewalk create <title>'")
			}
			return err
		}

		if err := drafts.Delete(); err != nil {
			return err
		}

		active := store.Active()
		total := 0
		title := ""
		if active != nil {
			total = len(active.Notes)
			title = active.Title
		}
		if note.IsCode() {
			cmd.Printf("Added code note on %s to %q (%d notes).\n", note.File, title, total)
		} else {
			cmd.Printf("Added general note to %q (%d notes).\n", title, total)
		}
		return nil
	},
}

func init() {
	noteCmd.Flags().StringVarP(&noteMessage, "message", "m", "", "note text in Markdown (skips the editor)")
	rootCmd.AddCommand(noteCmd)
}
