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
	"near-intents/pkg/deposit"
	"near-intents/pkg/logger"
)

var (
	depositTo       string
	depositShielded bool
	depositMemo     string
)

var depositCmd = &cobra.Command{
	Use:   "deposit <amount> <token>",
	Short: "Send an origin-chain deposit toward a swap",
	Long: `Send tokens from a configured origin-chain wallet to a deposit address.
ZEC deposits go out through a local zcash-cli wallet and can use a
shielded z_sendmany with an optional memo. Bridged tokens go out as
ERC20 transfers on their origin chain.

Requires auto_deposit to be enabled in the configuration.

Examples:
  near-intents deposit 1.5 ZEC --to t1abc...
  near-intents deposit 0.5 ZEC --to zs1abc... --shielded --memo "swap funding"
  near-intents deposit 100 USDC --to 0xabc...`,
	Args: cobra.ExactArgs(2),
	Run:  runDeposit,
}

func init() {
	rootCmd.AddCommand(depositCmd)

	depositCmd.Flags().StringVar(&depositTo, "to", "", "Deposit address on the asset's origin chain (required)")
	depositCmd.Flags().BoolVar(&depositShielded, "shielded", false, "Use a shielded transfer (ZEC only)")
	depositCmd.Flags().StringVar(&depositMemo, "memo", "", "Memo for shielded transfers")
	_ = depositCmd.MarkFlagRequired("to")
}

func runDeposit(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	amount := args[0]
	symbol := strings.ToUpper(args[1])

	cfg, err := config.Load()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	manager := deposit.NewManager(cfg.AutoDeposit, cfg.Registry(), logger.L())
	if !manager.IsEnabledFor(symbol) {
		supported := manager.SupportedAssets()
		if len(supported) == 0 {
			printError(fmt.Errorf("auto-deposit is not enabled. Configure auto_deposit in .near-intents.yaml"))
		} else {
			printError(fmt.Errorf("auto-deposit is not enabled for %s (enabled: %s)", symbol, strings.Join(supported, ", ")))
		}
		os.Exit(1)
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = fmt.Sprintf(" Sending %s %s deposit...", amount, symbol)
		s.Start()
	}

	txID, err := manager.SendDeposit(context.Background(), symbol, depositTo, amount, depositShielded, depositMemo)

	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(map[string]any{
			"token":    symbol,
			"amount":   amount,
			"to":       depositTo,
			"shielded": depositShielded,
			"tx_id":    txID,
		}, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                    DEPOSIT SENT")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("\n  Amount:   %s %s\n", amount, color.YellowString(symbol))
	fmt.Printf("  To:       %s\n", depositTo)
	if depositShielded {
		fmt.Printf("  Privacy:  %s\n", color.MagentaString("shielded"))
	}
	fmt.Printf("  Tx:       %s\n", color.CyanString(txID))
	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
}
