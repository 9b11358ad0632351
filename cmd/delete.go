package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a lesson and its notes",
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

		// A delete is unrecoverable, so ask when someone is at the keyboard
		// and --force was not given.
		if !deleteForce && term.IsTerminal(os.Stdin.Fd()) {
			title := args[0]
			for _, s := range store.List() {
				if s.ID == id {
					title = s.Title
					break
				}
			}
			fmt.Printf("Delete lesson %d %q and all its notes? (y/N): ", id, title)
			line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			if ans := strings.ToLower(strings.TrimSpace(line)); ans != "y" && ans != "yes" {
				cmd.Println("aborted")
				return nil
			}
		}

		if err := store.Delete(id); err != nil {
			return err
		}
		cmd.Printf("Deleted lesson %d.\n", id)
		return nil
	},
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "delete without confirmation")
	rootCmd.AddCommand(deleteCmd)
}
