package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "dealguard",
	Short: "Deterministic risk analysis for deal and negotiation messages",
	Long:  "Scans free-form negotiation text for scam signals, scores the risk, and drafts a reply that pins down the missing terms before money moves.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "dealguard.yaml", "Path to config file")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
