package cmd

import (
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List lessons in creation order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore(cmd)
		if err != nil {
			return err
		}

		sums := store.List()
		if len(sums) == 0 {
			cmd.Println("no lessons")
			return nil
		}

		active := store.ActiveSummary()
		for _, s := range sums {
			marker := " "
			if active != nil && active.ID == s.ID {
				marker = "*"
			}
			notes := 0
			if l := store.Get(s.ID); l != nil {
				notes = len(l.Notes)
			}
			cmd.Printf("%s %3d  %s (%d notes)\n", marker, s.ID, s.Title, notes)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
