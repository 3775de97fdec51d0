package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree. Each call returns a fresh tree so
// tests can run commands independently.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "checklist",
		Short: "Checklist - a multi-user project and task API",
		Long: `Checklist serves a JSON API for managing projects and their tasks.
Users register, log in with a session cookie and only ever see their own data.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file (default $XDG_CONFIG_HOME/checklist/config.yaml)")

	root.AddCommand(serveCmd())
	root.AddCommand(configCmd())

	return root
}

func Execute() error {
	return NewRootCmd().Execute()
}

// configPath returns the --config flag value
func configPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("config")
	return path
}
