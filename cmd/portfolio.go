package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"near-intents/config"
	"near-intents/pkg/account"
	"near-intents/pkg/nearclient"
	"near-intents/pkg/portfolio"
)

var analyzeFlag bool

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Show balances for all registered assets",
	Long: `Read the account's balance for every asset in the registry. Individual
query failures are reported as zero balances so the read always completes.

Examples:
  near-intents portfolio
  near-intents portfolio --analyze`,
	Run: runPortfolio,
}

func init() {
	rootCmd.AddCommand(portfolioCmd)

	portfolioCmd.Flags().BoolVar(&analyzeFlag, "analyze", false, "Include value distribution and privacy ratio")
}

func runPortfolio(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := config.Load()
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	if cfg.AccountFile == "" {
		printError(fmt.Errorf("account file not configured. Set NEAR_INTENTS_ACCOUNT_FILE or account_file in .near-intents.yaml"))
		os.Exit(1)
	}

	acc, err := account.LoadFromFile(cfg.AccountFile)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	registry := cfg.Registry()
	reader := nearclient.NewClient(cfg.NearRPCURL, cfg.RequestTimeout)
	view := portfolio.NewView(registry, reader, nil, acc.AccountID(), nil)

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Fetching balances..."
		s.Start()
	}

	analysis := view.Analyze(context.Background())

	if !jsonOutput {
		s.Stop()
	}

	if jsonOutput {
		output := map[string]any{
			"account":   acc.AccountID(),
			"portfolio": analysis.Portfolio,
		}
		if analyzeFlag {
			output["total_value_near"] = analysis.TotalValue
			output["distributions"] = analysis.Distributions
			output["privacy_ratio"] = analysis.PrivacyRatio
		}
		jsonData, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                      PORTFOLIO")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("\n  Account: %s\n\n", color.CyanString(acc.AccountID()))

	for _, symbol := range registry.Symbols() {
		fmt.Printf("  %-8s %v\n", color.YellowString(symbol), analysis.Portfolio[symbol])
	}

	if analyzeFlag {
		fmt.Printf("\n  Total Value:   %.4f NEAR\n", analysis.TotalValue)
		fmt.Printf("  Privacy Ratio: %.2f%%\n", analysis.PrivacyRatio)
		fmt.Println("  Distribution:")
		for _, symbol := range registry.Symbols() {
			fmt.Printf("    %-8s %.2f%%\n", symbol, analysis.Distributions[symbol])
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
}
