// Copyright © 2018 One Concern

package cmd

import (
	"github.com/spf13/cobra"
)

// flags are zero by default: empty values defer to the configuration
type flagsT struct {
	root struct {
		repo       string
		configFile string
		logLevel   string
		noColor    bool
	}
	commit struct {
		message string
	}
	status struct {
		patch bool
	}
	log struct {
		noPager bool
	}
}

var snapFlags = flagsT{}

func addRepoFlag(cmd *cobra.Command) string {
	repo := "repo"
	cmd.PersistentFlags().StringVar(&snapFlags.root.repo, repo, ".", "The root directory of the working tree")
	return repo
}

func addConfigFileFlag(cmd *cobra.Command) string {
	configFile := "config"
	cmd.PersistentFlags().StringVar(&snapFlags.root.configFile, configFile, "", "An explicit configuration file (overrides SNAPVCS_CONFIG)")
	return configFile
}

func addLogLevelFlag(cmd *cobra.Command) string {
	logLevel := "loglevel"
	cmd.PersistentFlags().StringVar(&snapFlags.root.logLevel, logLevel, "", "The logging level. Levels by increasing order of verbosity: none, error, warn, info, debug")
	return logLevel
}

func addNoColorFlag(cmd *cobra.Command) string {
	noColor := "no-color"
	cmd.PersistentFlags().BoolVar(&snapFlags.root.noColor, noColor, false, "Disable colorized output")
	return noColor
}

func addMessageFlag(cmd *cobra.Command) string {
	message := "message"
	cmd.Flags().StringVarP(&snapFlags.commit.message, message, "m", "", "The message describing the commit (required)")
	return message
}

func addPatchFlag(cmd *cobra.Command) string {
	patch := "patch"
	cmd.Flags().BoolVarP(&snapFlags.status.patch, patch, "p", false, "Show the content changes of each file")
	return patch
}

func addNoPagerFlag(cmd *cobra.Command) string {
	noPager := "no-pager"
	cmd.Flags().BoolVar(&snapFlags.log.noPager, noPager, false, "Do not pipe the log into a pager")
	return noPager
}
