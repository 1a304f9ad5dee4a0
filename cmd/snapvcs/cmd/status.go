package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/oneconcern/snapvcs/pkg/model"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show changes in the working tree",
	Long: `Show the files of the working tree which differ from the current commit.

Every change is printed on its own line as "<kind><TAB><path>", where kind is one of
new, modified or deleted. Without any commit yet, all files are reported as new.
`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		repo, err := newRepository()
		if err != nil {
			wrapFatalln("failed to open repository", err)
			return
		}
		report, err := repo.Status(ctx)
		if err != nil {
			wrapFatalln("status", err)
			return
		}

		out := cmd.OutOrStdout()
		if report.IsClean() {
			fmt.Fprintln(out, "nothing to commit, working tree clean")
			return
		}
		printChanges(out, report.Paths())

		if !snapFlags.status.patch {
			return
		}
		for _, change := range report.Paths() {
			patch, err := repo.Patch(ctx, report, change.Path)
			if err != nil {
				wrapFatalln("patch of "+change.Path, err)
				return
			}
			fmt.Fprint(out, patch)
		}
	},
}

var kindColors = map[model.Kind]*color.Color{
	model.KindNew:      color.New(color.FgGreen),
	model.KindModified: color.New(color.FgYellow),
	model.KindDeleted:  color.New(color.FgRed),
}

func printChanges(out io.Writer, changes []model.PathKind) {
	for _, change := range changes {
		kind := change.Kind.String()
		if c, ok := kindColors[change.Kind]; ok {
			kind = c.Sprint(kind)
		}
		fmt.Fprintf(out, "%s\t%s\n", kind, change.Path)
	}
}

func init() {
	addPatchFlag(statusCmd)
	rootCmd.AddCommand(statusCmd)
}
