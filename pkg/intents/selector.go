package intents

import (
	"fmt"

	"github.com/shopspring/decimal"

	"near-intents/pkg/solverbus"
)

// SelectBestOption picks the quote with the maximal output amount.
// Ties keep the first maximal element, so selection is deterministic
// for any input order. Ranking is rate-only: privacy capability of the
// assets involved carries no weight.
func SelectBestOption(options []solverbus.QuoteOption) (*solverbus.QuoteOption, error) {
	if len(options) == 0 {
		return nil, ErrNoOptions
	}

	best := &options[0]
	bestAmount, err := decimal.NewFromString(best.AmountOut)
	if err != nil {
		return nil, fmt.Errorf("invalid amount_out %q: %w", best.AmountOut, err)
	}

	for i := 1; i < len(options); i++ {
		amount, err := decimal.NewFromString(options[i].AmountOut)
		if err != nil {
			return nil, fmt.Errorf("invalid amount_out %q: %w", options[i].AmountOut, err)
		}
		if amount.GreaterThan(bestAmount) {
			best = &options[i]
			bestAmount = amount
		}
	}

	return best, nil
}
