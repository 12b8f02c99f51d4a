package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "near-intents",
	Short: "A client for privacy-aware token swaps over NEAR Intents",
	Long: `near-intents builds, signs, and publishes token-swap intents against the
NEAR Intents solver bus, with shielded-transaction support for Zcash.

Examples:
  near-intents swap 0.5 NEAR to ZEC
  near-intents swap 100 USDC to ZEC --privacy shielded
  near-intents portfolio --analyze
  near-intents tokens`,
	Version: "0.1.0",
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
}

func printError(err error) {
	fmt.Printf("\nError: %v\n\n", err)
}

func printSuccess(message string) {
	fmt.Printf("\n%s\n\n", message)
}
