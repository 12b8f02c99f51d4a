package assets

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ToOnChain converts a human-readable amount to the integer fixed-point
// representation at the asset's precision. Fractions below the smallest
// denomination are truncated toward zero, in both directions, so a
// round trip stays within one smallest unit.
func ToOnChain(amount float64, asset Asset) string {
	return decimal.NewFromFloat(amount).Shift(asset.Decimals).Truncate(0).String()
}

// ToOnChainDecimal is ToOnChain for callers already holding a decimal.
func ToOnChainDecimal(amount decimal.Decimal, asset Asset) string {
	return amount.Shift(asset.Decimals).Truncate(0).String()
}

// FromOnChain converts an on-chain integer string back to a
// human-readable amount.
func FromOnChain(raw string, asset Asset) (float64, error) {
	d, err := FromOnChainDecimal(raw, asset)
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}

// FromOnChainDecimal converts an on-chain integer string to an exact decimal.
func FromOnChainDecimal(raw string, asset Asset) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid on-chain amount %q: %w", raw, err)
	}
	return d.Shift(-asset.Decimals), nil
}
