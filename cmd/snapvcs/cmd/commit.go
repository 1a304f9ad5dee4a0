package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/docker/go-units"
	"github.com/fatih/color"
	"github.com/oneconcern/snapvcs/pkg/core/status"
	"github.com/spf13/cobra"
)

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Record the working tree as a new commit",
	Long: `Record a snapshot of the whole working tree, with a copy of every file, as a new
commit. The new commit becomes the current one and is appended to the log.

Committing a working tree with no change since the current commit fails.
`,
	Example: `snapvcs commit -m "first version"`,
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		message := strings.TrimSpace(snapFlags.commit.message)
		if message == "" {
			wrapFatalln("commit", errors.New("a commit message is required (-m)"))
			return
		}

		repo, err := newRepository()
		if err != nil {
			wrapFatalln("failed to open repository", err)
			return
		}
		if !repo.IsInitialized() {
			wrapFatalln("commit", status.ErrUninitialized)
			return
		}
		unlock, err := acquireLock(repo.Root())
		if err != nil {
			wrapFatalln("failed to lock repository", err)
			return
		}
		defer unlock()

		res, err := repo.Commit(context.Background(), message)
		if err != nil {
			wrapFatalln("commit", err)
			return
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "[%s] %s\n", color.MagentaString(res.ID), res.Record.Message)
		fmt.Fprintf(out, "%d changed file(s), %d file(s) stored (%s)\n",
			len(res.Changes.Paths()), res.Stats.Files, units.HumanSize(float64(res.Stats.Bytes)))
	},
}

func init() {
	addMessageFlag(commitCmd)
	rootCmd.AddCommand(commitCmd)
}
