package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tracklet",
	Short: "Tracklet - desktop client for remote time tracking",
	Long: `Tracklet is a client for Kimai-style time-tracking servers: pick a
customer/project/activity or a task, run a timer against it, and keep
the local state reconciled with the server.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"Tracklet version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default ~/.tracklet/config.yaml)")

	// Add subcommands
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(trackCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(entriesCmd)
	rootCmd.AddCommand(historyCmd)
}
