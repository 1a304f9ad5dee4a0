package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/oneconcern/snapvcs/pkg/core/status"
	"github.com/spf13/cobra"
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout <commit>",
	Short: "Restore the working tree to a commit",
	Long: `Restore every file recorded in a commit into the working tree, then make that
commit the current one.

The commit may be given as its full id or as any prefix matching a single commit of
the log. Checkout refuses to run when the working tree has uncommitted changes.
Files which are not part of the commit are left in place.
`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		repo, err := newRepository()
		if err != nil {
			wrapFatalln("failed to open repository", err)
			return
		}
		if !repo.IsInitialized() {
			wrapFatalln("checkout", status.ErrUninitialized)
			return
		}
		unlock, err := acquireLock(repo.Root())
		if err != nil {
			wrapFatalln("failed to lock repository", err)
			return
		}
		defer unlock()

		id, err := repo.Checkout(context.Background(), args[0])
		if err != nil {
			wrapFatalln("checkout "+args[0], err)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "checked out %s\n", color.MagentaString(id))
	},
}

func init() {
	rootCmd.AddCommand(checkoutCmd)
}
