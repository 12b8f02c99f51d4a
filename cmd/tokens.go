package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"near-intents/config"
	"near-intents/pkg/assets"
	"near-intents/pkg/client"
)

var (
	remoteTokens bool
	filterSymbol string
)

var tokensCmd = &cobra.Command{
	Use:     "tokens",
	Aliases: []string{"list-tokens", "ls"},
	Short:   "List assets in the registry",
	Long: `List the assets the client can swap, with their on-chain identifiers,
precision, and shielding capability.

With --remote, query the 1Click API for NEAR-side tokens as candidates
for extending the asset table (requires jwt_token in the configuration).

Examples:
  near-intents tokens
  near-intents tokens --remote --symbol USDT`,
	Run: runTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)

	tokensCmd.Flags().BoolVar(&remoteTokens, "remote", false, "Discover candidate assets from the 1Click API")
	tokensCmd.Flags().StringVar(&filterSymbol, "symbol", "", "Filter by token symbol")
}

func runTokens(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := config.Load()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	var list []assets.Asset
	if remoteTokens {
		if cfg.JWTToken == "" {
			printError(fmt.Errorf("token discovery requires jwt_token. Set NEAR_INTENTS_JWT_TOKEN or jwt_token in .near-intents.yaml"))
			os.Exit(1)
		}

		apiClient := client.NewOneClickClient(cfg.JWTToken)

		s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		if !jsonOutput {
			s.Suffix = " Discovering tokens..."
			s.Start()
		}
		list, err = apiClient.DiscoverAssets(filterSymbol)
		if !jsonOutput {
			s.Stop()
		}
		if err != nil {
			printError(err)
			os.Exit(1)
		}
	} else {
		for _, asset := range cfg.Registry().Assets() {
			if filterSymbol != "" && !strings.Contains(asset.Symbol, strings.ToUpper(filterSymbol)) {
				continue
			}
			list = append(list, asset)
		}
	}

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(list, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	displayAssets(list, remoteTokens)
}

func displayAssets(list []assets.Asset, remote bool) {
	if len(list) == 0 {
		fmt.Println("\nNo assets found matching the criteria.")
		return
	}

	title := "                        REGISTERED ASSETS"
	if remote {
		title = "                      CANDIDATE ASSETS (1Click)"
	}

	fmt.Println("\n" + strings.Repeat("=", 80))
	color.Green(title)
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println()

	for _, asset := range list {
		flags := make([]string, 0, 2)
		if asset.Native {
			flags = append(flags, "native")
		}
		if asset.Shielded {
			flags = append(flags, "shielded")
		}

		id := asset.AssetID()
		if len(id) > 48 {
			id = id[:45] + "..."
		}

		fmt.Printf("  %-8s %2d decimals  %-48s %s\n",
			color.YellowString(asset.Symbol),
			asset.Decimals,
			color.HiBlackString(id),
			color.MagentaString(strings.Join(flags, ",")))
	}

	fmt.Printf("\nTotal: %d assets\n\n", len(list))
}
