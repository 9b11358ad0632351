package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tallgren/codewalk/internal/lesson"
	"github.com/tallgren/codewalk/internal/share"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import an exported lesson into this workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("file not found: %s", path)
			}
			return err
		}

		b, err := share.ParserFor(path).Parse(data)
		if err != nil {
			return err
		}

		store, _, err := openStore(cmd)
		if err != nil {
			return err
		}

		// The payload went through someone else's hands; rebuild each note
		// with the usual validation and drop what cannot be salvaged.
		var notes []lesson.Note
		var warnings []string
		for i, n := range b.Lesson.Notes {
			if !n.IsCode() {
				notes = append(notes, lesson.NewGeneralNote(n.Markdown))
				continue
			}
			rebuilt, err := lesson.NewCodeNote(n.File, n.Ranges, n.Markdown)
			if err != nil {
				var vErr *lesson.ValidationError
				if errors.As(err, &vErr) {
					warnings = append(warnings, fmt.Sprintf("skipping note %d: %s", i+1, vErr.Msg))
					continue
				}
				return err
			}
			notes = append(notes, rebuilt)
		}

		// Ids are store-local: the import always gets a fresh one here.
		l, err := store.Create(b.Lesson.Title)
		if err != nil {
			return err
		}
		l.Notes = notes
		if err := store.Save(l); err != nil {
			return err
		}

		for _, w := range warnings {
			cmd.PrintErrf("warning: %s\n", w)
		}
		cmd.Printf("Imported %q as lesson %d (%d notes).\n", l.Title, l.ID, len(notes))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
