package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "portfolio-backend",
	Short: "Portfolio backend: REST API + real-time dashboard over WebSocket",
	Long:  `HTTP + WebSocket API. Commands: api, migrate, seed, command.`,
	RunE:  runAPI, // default: run API (same as "portfolio-backend api")
}

func init() {
	rootCmd.AddCommand(apiCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

// Execute runs the root command and returns the error (for main to log.Fatal).
func Execute() error {
	return rootCmd.Execute()
}
