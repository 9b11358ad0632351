package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var useCmd = &cobra.Command{
	Use:   "use <id>",
	Short: "Select which lesson new notes are appended to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("lesson id must be a number, got %q", args[0])
		}

		store, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		return store.SetActive(id)
	},
}

func init() {
	rootCmd.AddCommand(useCmd)
}
