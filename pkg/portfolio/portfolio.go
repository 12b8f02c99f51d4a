package portfolio

import (
	"context"
	"log/slog"

	"near-intents/pkg/assets"
	"near-intents/pkg/nearclient"
)

// BalanceReader is the account-state collaborator the view reads from.
type BalanceReader interface {
	AccountState(ctx context.Context, accountID string) (*nearclient.AccountState, error)
	ViewBalance(ctx context.Context, tokenID, ownerID string) (string, error)
}

// Pricer values one token in the reference unit (NEAR).
type Pricer interface {
	PriceOf(asset assets.Asset) float64
}

// FixedRates is a static Pricer. The built-in rates are placeholders
// for portfolio analysis, not a live price feed.
type FixedRates map[string]float64

// PriceOf returns the configured rate, or 0 for unknown symbols.
func (r FixedRates) PriceOf(asset assets.Asset) float64 {
	return r[asset.Symbol]
}

// DefaultRates values portfolios in NEAR terms.
var DefaultRates = FixedRates{
	"NEAR": 1,
	"ZEC":  10,
	"USDC": 0.25,
}

// View reads balances for every registered asset and computes simple
// aggregate statistics.
type View struct {
	registry  *assets.Registry
	reader    BalanceReader
	pricer    Pricer
	accountID string
	log       *slog.Logger
}

// NewView creates a portfolio view for one account. A nil pricer uses
// the default fixed rates.
func NewView(registry *assets.Registry, reader BalanceReader, pricer Pricer, accountID string, log *slog.Logger) *View {
	if pricer == nil {
		pricer = DefaultRates
	}
	if log == nil {
		log = slog.Default()
	}
	return &View{
		registry:  registry,
		reader:    reader,
		pricer:    pricer,
		accountID: accountID,
		log:       log,
	}
}

// GetBalance returns the human-readable balance for one asset. Query
// failures degrade to 0 with a logged warning so a single bad asset
// cannot abort a portfolio read; only an unknown symbol is an error.
func (v *View) GetBalance(ctx context.Context, symbol string) (float64, error) {
	asset, err := v.registry.Resolve(symbol)
	if err != nil {
		return 0, err
	}

	if asset.Native {
		state, err := v.reader.AccountState(ctx, v.accountID)
		if err != nil {
			v.log.Warn("failed to fetch native balance, reporting 0", "symbol", symbol, "error", err)
			return 0, nil
		}
		balance, err := assets.FromOnChain(state.Amount, asset)
		if err != nil {
			v.log.Warn("unparseable native balance, reporting 0", "symbol", symbol, "error", err)
			return 0, nil
		}
		return balance, nil
	}

	raw, err := v.reader.ViewBalance(ctx, asset.TokenID, v.accountID)
	if err != nil {
		v.log.Warn("failed to fetch token balance, reporting 0", "symbol", symbol, "error", err)
		return 0, nil
	}
	balance, err := assets.FromOnChain(raw, asset)
	if err != nil {
		v.log.Warn("unparseable token balance, reporting 0", "symbol", symbol, "error", err)
		return 0, nil
	}
	return balance, nil
}

// GetPortfolio reads balances for every registered asset. Never fails
// as a whole: individual asset failures show up as zero balances.
func (v *View) GetPortfolio(ctx context.Context) map[string]float64 {
	portfolio := make(map[string]float64, len(v.registry.Symbols()))
	for _, symbol := range v.registry.Symbols() {
		balance, err := v.GetBalance(ctx, symbol)
		if err != nil {
			v.log.Warn("skipping unresolvable asset", "symbol", symbol, "error", err)
			balance = 0
		}
		portfolio[symbol] = balance
	}
	return portfolio
}

// Analysis summarizes a portfolio in reference-unit terms.
type Analysis struct {
	Portfolio     map[string]float64
	TotalValue    float64
	Distributions map[string]float64
	PrivacyRatio  float64
}

// Analyze reads the portfolio and computes totals, per-asset
// distribution percentages, and the share of value held in
// shielding-capable assets. Ratios are 0 for an empty portfolio.
func (v *View) Analyze(ctx context.Context) *Analysis {
	return v.AnalyzePortfolio(v.GetPortfolio(ctx))
}

// AnalyzePortfolio is the pure computation behind Analyze.
func (v *View) AnalyzePortfolio(portfolio map[string]float64) *Analysis {
	analysis := &Analysis{
		Portfolio:     portfolio,
		Distributions: make(map[string]float64, len(portfolio)),
	}

	var privacyValue float64
	values := make(map[string]float64, len(portfolio))
	for symbol, balance := range portfolio {
		asset, err := v.registry.Resolve(symbol)
		if err != nil {
			continue
		}
		value := balance * v.pricer.PriceOf(asset)
		values[symbol] = value
		analysis.TotalValue += value
		if asset.Shielded {
			privacyValue += value
		}
	}

	if analysis.TotalValue > 0 {
		for symbol, value := range values {
			analysis.Distributions[symbol] = value / analysis.TotalValue * 100
		}
		analysis.PrivacyRatio = privacyValue / analysis.TotalValue * 100
	}

	return analysis
}
