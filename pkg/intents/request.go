package intents

import (
	"fmt"

	"near-intents/pkg/assets"
	"near-intents/pkg/types"
)

// DefaultDeadlineMs is the relative deadline attached to quote requests
// and the signing window for commitments.
const DefaultDeadlineMs int64 = 120_000

// IntentRequest accumulates the parts of a swap request and serializes
// them into the solver bus wire shape. Asset symbols are validated
// against the registry before anything touches the network.
type IntentRequest struct {
	registry *assets.Registry

	assetIn    assets.Asset
	assetOut   assets.Asset
	amountIn   string
	amountOut  string
	hasIn      bool
	hasOut     bool
	deadlineMs int64
	slippage   float64
}

// NewIntentRequest creates an empty request against the given registry.
func NewIntentRequest(registry *assets.Registry) *IntentRequest {
	return &IntentRequest{
		registry:   registry,
		deadlineMs: DefaultDeadlineMs,
	}
}

// SetAssetIn sets the input asset and its human-readable amount.
func (r *IntentRequest) SetAssetIn(symbol string, amount float64) error {
	asset, err := r.registry.Resolve(symbol)
	if err != nil {
		return err
	}
	if amount <= 0 {
		return fmt.Errorf("%w: got %v %s", ErrInvalidAmount, amount, symbol)
	}
	r.assetIn = asset
	r.amountIn = assets.ToOnChain(amount, asset)
	r.hasIn = true
	return nil
}

// SetAssetOut sets the output asset without a target amount.
func (r *IntentRequest) SetAssetOut(symbol string) error {
	asset, err := r.registry.Resolve(symbol)
	if err != nil {
		return err
	}
	r.assetOut = asset
	r.hasOut = true
	return nil
}

// SetAmountOut sets a target output amount. SetAssetOut must be called
// first so the amount can be encoded at the right precision.
func (r *IntentRequest) SetAmountOut(amount float64) error {
	if !r.hasOut {
		return fmt.Errorf("output asset must be set before target amount")
	}
	if amount <= 0 {
		return fmt.Errorf("%w: got %v %s", ErrInvalidAmount, amount, r.assetOut.Symbol)
	}
	r.amountOut = assets.ToOnChain(amount, r.assetOut)
	return nil
}

// SetSlippage sets an explicit slippage tolerance.
func (r *IntentRequest) SetSlippage(slippage float64) {
	r.slippage = slippage
}

// SetDeadlineMs overrides the relative deadline.
func (r *IntentRequest) SetDeadlineMs(ms int64) {
	r.deadlineMs = ms
}

// AssetIn returns the resolved input asset. Valid after SetAssetIn.
func (r *IntentRequest) AssetIn() assets.Asset { return r.assetIn }

// AssetOut returns the resolved output asset. Valid after SetAssetOut.
func (r *IntentRequest) AssetOut() assets.Asset { return r.assetOut }

// Serialize produces the wire request for the solver bus. Pure
// transformation, no side effects.
func (r *IntentRequest) Serialize() (types.QuoteRequest, error) {
	if !r.hasIn {
		return types.QuoteRequest{}, fmt.Errorf("input asset is required")
	}
	if !r.hasOut {
		return types.QuoteRequest{}, fmt.Errorf("output asset is required")
	}

	return types.QuoteRequest{
		Assets: types.QuoteRequestAssets{
			In:  r.assetIn.AssetID(),
			Out: r.assetOut.AssetID(),
		},
		Amounts: types.QuoteRequestAmounts{
			In:  r.amountIn,
			Out: r.amountOut,
		},
		Deadline: types.QuoteDeadline{
			Type: "relative",
			Ms:   r.deadlineMs,
		},
		Slippage: r.slippage,
	}, nil
}
