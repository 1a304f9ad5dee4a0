// Copyright © 2018 One Concern

package cmd

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/oneconcern/snapvcs/pkg/config"
	"github.com/oneconcern/snapvcs/pkg/core"
	"github.com/oneconcern/snapvcs/pkg/dlogger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "snapvcs",
	Short: "snapvcs keeps snapshots of a directory",
	Long: `snapvcs is a minimal version control tool.

It records snapshots of a working directory as commits, reports changes made since
the current commit, and restores the working directory to any recorded commit.

There is no staging step: a commit always records the whole working directory.
`,
	SilenceUsage: true,
}

var (
	settings *config.Config
	logger   *zap.Logger
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		osExit(1)
	}
}

func init() {
	log.SetFlags(0)
	cobra.OnInitialize(initConfig)

	rootCmd.SetGlobalNormalizationFunc(normalizeFlagName)
	addRepoFlag(rootCmd)
	addConfigFileFlag(rootCmd)
	addLogLevelFlag(rootCmd)
	addNoColorFlag(rootCmd)
}

// normalizeFlagName accepts underscores in place of dashes, e.g. --no_color
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	v := config.NewViper(snapFlags.root.repo, snapFlags.root.configFile)
	var err error
	settings, err = config.Load(v)
	if err != nil {
		wrapFatalln("failed to read configuration", err)
		defaults := config.Default()
		settings = &defaults
	}

	level := snapFlags.root.logLevel
	if level == "" {
		level = settings.LogLevel
	}
	logger, err = dlogger.GetLogger(level)
	if err != nil {
		wrapFatalln("invalid log level", err)
		logger = zap.NewNop()
	}

	if snapFlags.root.noColor || !settings.Color {
		color.NoColor = true
	}
}

// newRepository prepares the repository designated by the command line
func newRepository() (*core.Repository, error) {
	return core.NewRepository(
		core.RepoRoot(snapFlags.root.repo),
		core.Ignore(settings.Ignore...),
		core.Logger(logger),
	)
}
