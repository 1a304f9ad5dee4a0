package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/oneconcern/snapvcs/pkg/model"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the commit history",
	Long: `Show every commit, oldest first, as "<id><TAB><date><TAB><message>".

On a terminal, the history is shown through the configured pager (less -FX by default).
`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		repo, err := newRepository()
		if err != nil {
			wrapFatalln("failed to open repository", err)
			return
		}
		records, err := repo.Log(context.Background())
		if err != nil {
			wrapFatalln("log", err)
			return
		}

		var buf bytes.Buffer
		renderLog(&buf, records)

		out := cmd.OutOrStdout()
		if !snapFlags.log.noPager && out == os.Stdout && isatty.IsTerminal(os.Stdout.Fd()) {
			if err = page(settings.Pager, &buf); err == nil {
				return
			}
			logger.Debug("pager unavailable", zap.String("pager", settings.Pager), zap.Error(err))
		}
		_, _ = io.Copy(out, &buf)
	},
}

func renderLog(out io.Writer, records []model.LogRecord) {
	for _, record := range records {
		fmt.Fprintf(out, "%s\t%s\t%s\n",
			color.MagentaString(record.ID), record.Timestamp.Format(model.LogTimeFormat), record.Message)
	}
}

// page pipes content into a pager command
func page(pager string, content io.Reader) error {
	fields := strings.Fields(pager)
	if len(fields) == 0 {
		return fmt.Errorf("no pager configured")
	}
	cmd := exec.Command(fields[0], fields[1:]...) // #nosec
	cmd.Stdin = content
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func init() {
	addNoPagerFlag(logCmd)
	rootCmd.AddCommand(logCmd)
}
