package client

import (
	"context"
	"fmt"
	"strings"

	oneclick "github.com/defuse-protocol/one-click-sdk-go"

	"near-intents/pkg/assets"
)

// OneClickClient wraps the 1Click SDK for token discovery. The swap
// pipeline itself talks to the solver bus directly; this client only
// surfaces candidate bridged assets for extending the asset table.
type OneClickClient struct {
	client *oneclick.APIClient
	ctx    context.Context
}

// NewOneClickClient creates an authenticated 1Click API client.
func NewOneClickClient(jwtToken string) *OneClickClient {
	cfg := oneclick.NewConfiguration()
	ctx := context.WithValue(context.Background(), oneclick.ContextAccessToken, jwtToken)

	return &OneClickClient{
		client: oneclick.NewAPIClient(cfg),
		ctx:    ctx,
	}
}

// GetSupportedTokens retrieves all tokens known to the 1Click API.
func (c *OneClickClient) GetSupportedTokens() ([]oneclick.TokenResponse, error) {
	resp, httpResp, err := c.client.OneClickAPI.GetTokens(c.ctx).Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get tokens: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != 200 {
		return nil, fmt.Errorf("API returned status code %d", httpResp.StatusCode)
	}
	return resp, nil
}

// DiscoverAssets lists NEAR-side tokens as asset-table candidates,
// optionally filtered by symbol. Privacy capability cannot be inferred
// from the API and defaults to false.
func (c *OneClickClient) DiscoverAssets(symbol string) ([]assets.Asset, error) {
	tokens, err := c.GetSupportedTokens()
	if err != nil {
		return nil, err
	}

	symbol = strings.ToUpper(symbol)
	candidates := make([]assets.Asset, 0)
	for _, token := range tokens {
		if !strings.EqualFold(token.GetBlockchain(), "near") {
			continue
		}
		if symbol != "" && !strings.Contains(strings.ToUpper(token.GetSymbol()), symbol) {
			continue
		}
		candidates = append(candidates, assets.Asset{
			Symbol:   strings.ToUpper(token.GetSymbol()),
			TokenID:  token.GetContractAddress(),
			Decimals: int32(token.GetDecimals()),
		})
	}
	return candidates, nil
}
