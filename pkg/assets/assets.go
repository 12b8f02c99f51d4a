package assets

import (
	"fmt"
	"sort"
	"strings"
)

// ErrUnsupportedAsset is returned when a symbol does not resolve in the registry.
var ErrUnsupportedAsset = fmt.Errorf("unsupported asset")

// Asset describes a token known to the registry. Assets are immutable
// once registered.
type Asset struct {
	Symbol   string `mapstructure:"symbol"`
	TokenID  string `mapstructure:"token_id"`
	OMFT     string `mapstructure:"omft"`
	Decimals int32  `mapstructure:"decimals"`
	Native   bool   `mapstructure:"native"`
	Shielded bool   `mapstructure:"shielded"`
}

// AssetID returns the protocol-level asset identifier expected by the
// solver bus. Native assets use their bare lowercase symbol; everything
// else is addressed as a NEP-141 token.
func (a Asset) AssetID() string {
	if a.Native {
		return strings.ToLower(a.Symbol)
	}
	return "nep141:" + a.TokenID
}

// Registry maps token symbols to their on-chain representation.
type Registry struct {
	bySymbol map[string]Asset
}

// NewRegistry creates a registry from the given asset definitions.
func NewRegistry(defs []Asset) *Registry {
	r := &Registry{bySymbol: make(map[string]Asset, len(defs))}
	for _, a := range defs {
		r.bySymbol[strings.ToUpper(a.Symbol)] = a
	}
	return r
}

// DefaultRegistry returns a registry with the built-in asset table.
// The table can be replaced or extended through configuration.
func DefaultRegistry() *Registry {
	return NewRegistry([]Asset{
		{
			Symbol:   "NEAR",
			TokenID:  "wrap.near",
			Decimals: 24,
			Native:   true,
		},
		{
			Symbol:   "USDC",
			TokenID:  "a0b86991c6218b36c1d19d4a2e9eb0ce3606eb48.factory.bridge.near",
			OMFT:     "eth-0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48.omft.near",
			Decimals: 6,
		},
		{
			Symbol:   "ZEC",
			TokenID:  "zcash.factory.bridge.near",
			OMFT:     "zcash-token.omft.near",
			Decimals: 8,
			Shielded: true,
		},
	})
}

// Resolve looks up an asset by symbol (case-insensitive).
func (r *Registry) Resolve(symbol string) (Asset, error) {
	asset, ok := r.bySymbol[strings.ToUpper(symbol)]
	if !ok {
		return Asset{}, fmt.Errorf("%w: %s", ErrUnsupportedAsset, symbol)
	}
	return asset, nil
}

// Symbols returns all registered symbols in sorted order.
func (r *Registry) Symbols() []string {
	symbols := make([]string, 0, len(r.bySymbol))
	for symbol := range r.bySymbol {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

// Assets returns all registered assets ordered by symbol.
func (r *Registry) Assets() []Asset {
	list := make([]Asset, 0, len(r.bySymbol))
	for _, symbol := range r.Symbols() {
		list = append(list, r.bySymbol[symbol])
	}
	return list
}
