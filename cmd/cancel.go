package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/tallgren/codewalk/internal/annotate"
)

var cancelCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Discard the pending annotation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, root, err := openStore(cmd)
		if err != nil {
			return err
		}

		drafts := annotate.NewDraftStore(store.Dir())
		draft, err := drafts.Load()
		if errors.Is(err, annotate.ErrNoDraft) {
			cmd.Println("No annotation in progress.")
			return nil
		}
		if err != nil {
			return err
		}

		session := annotate.NewSession(store, newDisplay(root))
		session.Resume(draft)
		session.Discard()

		if err := drafts.Delete(); err != nil {
			return err
		}
		cmd.Println("Annotation discarded.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cancelCmd)
}
