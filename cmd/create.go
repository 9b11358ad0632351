package cmd

import (
	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a new lesson and make it the active one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore(cmd)
		if err != nil {
			return err
		}

		l, err := store.Create(args[0])
		if err != nil {
			return err
		}

		cmd.Printf("Created lesson %d: %s\n", l.ID, l.Title)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
}
