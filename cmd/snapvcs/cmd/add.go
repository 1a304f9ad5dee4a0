package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add [paths...]",
	Short: "Does nothing: commits always record the whole working tree",
	Long: `snapvcs has no staging area. Every commit records the whole working tree,
minus ignored entries, so there is nothing to add.

This command is accepted for familiarity and leaves the repository untouched.
`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "nothing to do: commit records the whole working tree")
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}
