package cmd

import (
	"github.com/spf13/cobra"
)

// configCmd represents the config related commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Commands to inspect the configuration",
	Long: `Configuration for snapvcs is read from .snapvcs/config.yaml in the working tree,
then from $HOME/.snapvcs/config.yaml. SNAPVCS_CONFIG points to an explicit file, and
SNAPVCS_* environment variables override single settings (e.g. SNAPVCS_PAGER).`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		settings.Ignore = settings.IgnoreList()
		out, err := settings.YAML()
		if err != nil {
			wrapFatalln("failed to render configuration", err)
			return
		}
		_, _ = cmd.OutOrStdout().Write(out)
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
