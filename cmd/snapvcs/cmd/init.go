package cmd

import (
	"context"
	"fmt"

	"github.com/oneconcern/snapvcs/pkg/model"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an empty repository",
	Long: "Create the " + model.ControlDir + " control directory in the working tree, with an empty log, " +
		"no current commit and a default configuration.",
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		repo, err := newRepository()
		if err != nil {
			wrapFatalln("failed to open repository", err)
			return
		}
		if err = repo.Init(context.Background()); err != nil {
			wrapFatalln("init", err)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Initialized empty repository in %s\n", model.ControlDir)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
