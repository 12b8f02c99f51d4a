package intents

import (
	"context"
	"fmt"
	"log/slog"

	"near-intents/pkg/solverbus"
	"near-intents/pkg/types"
)

// State tracks how far a swap attempt progressed. Transitions are
// strictly sequential with no backward moves; any failure ends in
// StateFailed.
type State string

const (
	StateBuilding       State = "building"
	StateQuotesFetched  State = "quotes_fetched"
	StateOptionSelected State = "option_selected"
	StateSigned         State = "signed"
	StatePublished      State = "published"
	StateFailed         State = "failed"
)

// PreferenceSource supplies agent-scoped privacy defaults to the
// orchestrator.
type PreferenceSource interface {
	DefaultLevel() types.PrivacyLevel
	MemosEnabled() bool
}

// SwapResult carries the outcome of one swap attempt together with the
// final pipeline state.
type SwapResult struct {
	State      State
	Request    types.QuoteRequest
	Selected   *solverbus.QuoteOption
	Commitment *types.SignedCommitment
	Publish    *solverbus.PublishResult
}

// Swapper composes the request builder, quote fetch, selection,
// commitment build, and publication into a single operation. It owns
// the privacy-level decision.
type Swapper struct {
	bus     *solverbus.Client
	builder *CommitmentBuilder
	prefs   PreferenceSource
	log     *slog.Logger
}

// SwapperConfig wires a Swapper's collaborators.
type SwapperConfig struct {
	Bus         *solverbus.Client
	Builder     *CommitmentBuilder
	Preferences PreferenceSource
	Logger      *slog.Logger
}

// NewSwapper creates the swap orchestrator.
func NewSwapper(cfg SwapperConfig) *Swapper {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Swapper{
		bus:     cfg.Bus,
		builder: cfg.Builder,
		prefs:   cfg.Preferences,
		log:     log,
	}
}

// Swap executes "swap amountIn tokenIn for tokenOut under privacy level
// level" end to end. An empty or default level defers to the agent
// preferences. Shield parameters are attached only when the pair has a
// shielding-capable asset and the level is shielded, or the level stays
// default with no preference source wired, in which case a shieldable
// pair shields. The transparent level, or a pair without a
// shielding-capable asset, always runs transparent.
//
// Every attempt is independently nonced. There is no retry or rollback:
// a publish failure must surface to the caller as-is.
func (s *Swapper) Swap(ctx context.Context, signer Signer, tokenIn string, amountIn float64, tokenOut string, level types.PrivacyLevel) (*SwapResult, error) {
	result := &SwapResult{State: StateBuilding}

	request := NewIntentRequest(s.builder.registry)
	if err := request.SetAssetIn(tokenIn, amountIn); err != nil {
		result.State = StateFailed
		return result, err
	}
	if err := request.SetAssetOut(tokenOut); err != nil {
		result.State = StateFailed
		return result, err
	}

	serialized, err := request.Serialize()
	if err != nil {
		result.State = StateFailed
		return result, err
	}
	result.Request = serialized

	level = s.resolveLevel(level)
	s.log.Info("executing swap",
		"amount_in", amountIn,
		"token_in", tokenIn,
		"token_out", tokenOut,
		"privacy_level", level,
	)

	options := s.bus.GetQuotes(ctx, serialized)
	if len(options) == 0 {
		result.State = StateFailed
		return result, fmt.Errorf("%w for %s to %s", ErrNoLiquidity, tokenIn, tokenOut)
	}
	result.State = StateQuotesFetched
	s.log.Info("fetched swap options", "count", len(options))

	best, err := SelectBestOption(options)
	if err != nil {
		result.State = StateFailed
		return result, err
	}
	result.State = StateOptionSelected
	result.Selected = best
	s.log.Info("selected best option", "amount_out", best.AmountOut)

	shield := s.shieldOptions(level, request.AssetIn().Shielded || request.AssetOut().Shielded, tokenIn, tokenOut)

	commitment, err := s.builder.Build(signer, tokenIn, amountIn, tokenOut, best.AmountOut, &shield)
	if err != nil {
		result.State = StateFailed
		return result, err
	}
	result.State = StateSigned
	result.Commitment = commitment

	published, err := s.bus.PublishIntent(ctx, commitment)
	if err != nil {
		result.State = StateFailed
		return result, err
	}
	result.State = StatePublished
	result.Publish = published
	s.log.Info("swap request submitted", "status", published.Status)

	return result, nil
}

// resolveLevel applies the privacy-level decision: explicit caller
// level wins, otherwise the agent preference default, otherwise the
// protocol default.
func (s *Swapper) resolveLevel(level types.PrivacyLevel) types.PrivacyLevel {
	if level != "" && level != types.PrivacyDefault {
		return level
	}
	if s.prefs != nil {
		if def := s.prefs.DefaultLevel(); def != "" && def != types.PrivacyDefault {
			return def
		}
	}
	return types.PrivacyDefault
}

func (s *Swapper) shieldOptions(level types.PrivacyLevel, pairShieldable bool, tokenIn, tokenOut string) types.ShieldOptions {
	shielded := pairShieldable && (level == types.PrivacyShielded || level == types.PrivacyDefault)
	if level == types.PrivacyShielded && !pairShieldable {
		s.log.Info("no shielding-capable asset in pair, running transparent",
			"token_in", tokenIn, "token_out", tokenOut)
	}

	opts := types.ShieldOptions{Enabled: shielded}
	if shielded && (s.prefs == nil || s.prefs.MemosEnabled()) {
		opts.Memo = fmt.Sprintf("Swap %s to %s", tokenIn, tokenOut)
	}
	return opts
}
