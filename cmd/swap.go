package cmd

import (
	"bufio"
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
	"near-intents/pkg/agent"
	"near-intents/pkg/assets"
	"near-intents/pkg/intents"
	"near-intents/pkg/parser"
	"near-intents/pkg/solverbus"
	"near-intents/pkg/types"
)

var (
	privacyLevel string
	noConfirm    bool
)

var swapCmd = &cobra.Command{
	Use:   "swap <amount> <token-in> to <token-out>",
	Short: "Swap tokens through the NEAR Intents solver bus",
	Long: `Build a swap intent, fetch competing quotes from the solver bus, sign a
commitment for the best one, and publish it for execution.

Swaps involving ZEC run shielded by default. Use --privacy to force a
level; pairs without a shielding-capable asset always run transparent.

Examples:
  near-intents swap 0.5 NEAR to ZEC
  near-intents swap 100 USDC to ZEC --privacy shielded
  near-intents swap 1 ZEC to NEAR --privacy transparent --yes`,
	Args: cobra.MinimumNArgs(1),
	Run:  runSwap,
}

func init() {
	rootCmd.AddCommand(swapCmd)

	swapCmd.Flags().StringVar(&privacyLevel, "privacy", "", "Privacy level: transparent or shielded (default: preference-driven)")
	swapCmd.Flags().BoolVarP(&noConfirm, "yes", "y", false, "Skip confirmation prompt")
}

func runSwap(cmd *cobra.Command, args []string) {
	swapReq, err := parser.ParseSwapCommand(strings.Join(args, " "))
	if err != nil {
		printError(err)
		os.Exit(1)
	}

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

	signer, err := account.LoadFromFile(cfg.AccountFile)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	registry := cfg.Registry()
	prefs := agent.NewPreferences()
	swapper := intents.NewSwapper(intents.SwapperConfig{
		Bus:         solverbus.NewClient(cfg.SolverBusURL, cfg.RequestTimeout, nil),
		Builder:     intents.NewCommitmentBuilder(registry, cfg.VerifyingContract, cfg.DeadlineMs),
		Preferences: prefs,
	})

	if !noConfirm && !jsonOutput {
		fmt.Printf("\nSwap %v %s for %s (privacy: %s) as %s\n",
			swapReq.Amount, swapReq.TokenIn, swapReq.TokenOut,
			displayLevel(prefs, privacyLevel), signer.AccountID())
		if !confirm("Proceed with swap?") {
			fmt.Println("\nSwap cancelled.")
			os.Exit(0)
		}
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Fetching quotes and publishing intent..."
		s.Start()
	}

	result, err := swapper.Swap(context.Background(), signer,
		swapReq.TokenIn, swapReq.Amount, swapReq.TokenOut, types.PrivacyLevel(privacyLevel))

	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		output := map[string]any{
			"state":      result.State,
			"amount_in":  swapReq.Amount,
			"token_in":   swapReq.TokenIn,
			"token_out":  swapReq.TokenOut,
			"amount_out": result.Selected.AmountOut,
			"status":     result.Publish.Status,
			"shielded":   result.Commitment.ShieldParams != nil,
		}
		jsonData, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	displaySwapResult(registry, swapReq, result)
}

func displaySwapResult(registry *assets.Registry, swapReq *parser.SwapCommand, result *intents.SwapResult) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                    SWAP SUBMITTED")
	fmt.Println(strings.Repeat("=", 60))

	amountOut := result.Selected.AmountOut
	if asset, err := registry.Resolve(swapReq.TokenOut); err == nil {
		if human, err := assets.FromOnChain(amountOut, asset); err == nil {
			amountOut = fmt.Sprintf("%v", human)
		}
	}

	fmt.Printf("\n  From:        %v %s\n", swapReq.Amount, color.YellowString(swapReq.TokenIn))
	fmt.Printf("  To:          ~%s %s\n", amountOut, color.YellowString(swapReq.TokenOut))
	fmt.Printf("  Status:      %s\n", color.CyanString(result.Publish.Status))
	if result.Commitment.ShieldParams != nil {
		fmt.Printf("  Privacy:     %s\n", color.MagentaString("shielded"))
	} else {
		fmt.Printf("  Privacy:     transparent\n")
	}
	if result.Publish.IntentHash != "" {
		fmt.Printf("  Intent Hash: %s\n", result.Publish.IntentHash)
	}

	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
}

func displayLevel(prefs *agent.Preferences, explicit string) string {
	if explicit != "" {
		return explicit
	}
	return string(prefs.DefaultLevel()) + " (preference)"
}

func confirm(prompt string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("\n%s (y/N): ", prompt)

	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
