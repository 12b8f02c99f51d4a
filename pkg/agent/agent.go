package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/big"

	"near-intents/pkg/account"
	"near-intents/pkg/assets"
	"near-intents/pkg/intents"
	"near-intents/pkg/portfolio"
	"near-intents/pkg/types"
)

// MaxGas is the gas attached to contract calls (300 TGas).
const MaxGas uint64 = 300_000_000_000_000

// MinimumNearBalance is the native balance required at initialization.
const MinimumNearBalance = 0.1

// storageDepositYocto covers NEP-145 storage registration (0.00125 NEAR).
var storageDepositYocto, _ = new(big.Int).SetString("1250000000000000000000", 10)

// ChainWriter executes state-changing contract calls. Transaction
// construction and submission live behind this collaborator; the agent
// only decides what to call.
type ChainWriter interface {
	CallFunction(ctx context.Context, contractID, method string, args []byte, gas uint64, deposit *big.Int) (string, error)
}

// Agent ties an account to the swap pipeline, the portfolio view, and
// session privacy preferences.
type Agent struct {
	account  *account.Account
	registry *assets.Registry
	swapper  *intents.Swapper
	view     *portfolio.View
	reader   portfolio.BalanceReader
	chain    ChainWriter
	prefs    *Preferences
	contract string
	log      *slog.Logger
}

// Config wires an Agent's collaborators. Chain may be nil for read-only
// use; deposit and registration operations then fail with a clear error.
type Config struct {
	Account           *account.Account
	Registry          *assets.Registry
	Swapper           *intents.Swapper
	View              *portfolio.View
	Reader            portfolio.BalanceReader
	Chain             ChainWriter
	Preferences       *Preferences
	VerifyingContract string
	Logger            *slog.Logger
}

// New creates an agent. Account, Registry, and Swapper are required.
func New(cfg Config) (*Agent, error) {
	if cfg.Account == nil {
		return nil, fmt.Errorf("account is required")
	}
	if cfg.Registry == nil {
		return nil, fmt.Errorf("asset registry is required")
	}
	if cfg.Swapper == nil {
		return nil, fmt.Errorf("swapper is required")
	}
	prefs := cfg.Preferences
	if prefs == nil {
		prefs = NewPreferences()
	}
	contract := cfg.VerifyingContract
	if contract == "" {
		contract = intents.DefaultVerifyingContract
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	return &Agent{
		account:  cfg.Account,
		registry: cfg.Registry,
		swapper:  cfg.Swapper,
		view:     cfg.View,
		reader:   cfg.Reader,
		chain:    cfg.Chain,
		prefs:    prefs,
		contract: contract,
		log:      log,
	}, nil
}

// Preferences exposes the agent's session privacy preferences, shared
// with the swap orchestrator.
func (a *Agent) Preferences() *Preferences {
	return a.prefs
}

// AccountID returns the agent's NEAR account identifier.
func (a *Agent) AccountID() string {
	return a.account.AccountID()
}

// ValidateAccount checks that the account exists and holds the minimum
// native balance for intent operations.
func (a *Agent) ValidateAccount(ctx context.Context) error {
	if a.reader == nil {
		return fmt.Errorf("no balance reader configured")
	}
	state, err := a.reader.AccountState(ctx, a.account.AccountID())
	if err != nil {
		return fmt.Errorf("account %s not accessible: %w", a.account.AccountID(), err)
	}

	near, err := a.registry.Resolve("NEAR")
	if err != nil {
		return err
	}
	balance, err := assets.FromOnChain(state.Amount, near)
	if err != nil {
		return fmt.Errorf("unparseable native balance: %w", err)
	}
	a.log.Info("account state", "account", a.account.AccountID(), "balance_near", balance)

	if balance < MinimumNearBalance {
		return fmt.Errorf("insufficient balance (%.4f NEAR), minimum required: %v NEAR", balance, MinimumNearBalance)
	}
	return nil
}

// RegisterPublicKey registers the account's signing key with the
// intents contract. An already-registered conflict counts as success.
func (a *Agent) RegisterPublicKey(ctx context.Context) error {
	if a.chain == nil {
		return fmt.Errorf("no chain writer configured")
	}

	args, err := json.Marshal(map[string]string{"public_key": a.account.PublicKeyString()})
	if err != nil {
		return fmt.Errorf("failed to encode registration args: %w", err)
	}

	_, err = a.chain.CallFunction(ctx, a.contract, "add_public_key", args, MaxGas, big.NewInt(1))
	if err != nil {
		if account.IsAlreadyRegisteredConflict(err) {
			a.log.Info("public key already registered", "contract", a.contract)
			return nil
		}
		return fmt.Errorf("failed to register public key: %w", err)
	}

	a.log.Info("public key registered", "contract", a.contract)
	return nil
}

// RegisterTokenStorage registers otherAccount with a token contract's
// storage. An already-registered conflict counts as success.
func (a *Agent) RegisterTokenStorage(ctx context.Context, symbol, otherAccount string) error {
	if a.chain == nil {
		return fmt.Errorf("no chain writer configured")
	}

	asset, err := a.registry.Resolve(symbol)
	if err != nil {
		return err
	}

	args, err := json.Marshal(map[string]string{"account_id": otherAccount})
	if err != nil {
		return fmt.Errorf("failed to encode storage args: %w", err)
	}

	_, err = a.chain.CallFunction(ctx, asset.TokenID, "storage_deposit", args, MaxGas, storageDepositYocto)
	if err != nil {
		if account.IsAlreadyRegisteredConflict(err) {
			a.log.Info("storage already registered", "token", asset.TokenID, "account", otherAccount)
			return nil
		}
		return fmt.Errorf("failed to register storage on %s: %w", asset.TokenID, err)
	}

	a.log.Info("storage registered", "token", asset.TokenID, "account", otherAccount)
	return nil
}

// DepositNear wraps native NEAR and transfers it into the intents
// contract so it can back swap intents.
func (a *Agent) DepositNear(ctx context.Context, amount float64) (string, error) {
	if a.chain == nil {
		return "", fmt.Errorf("no chain writer configured")
	}
	if amount <= 0 {
		return "", fmt.Errorf("%w: got %v NEAR", intents.ErrInvalidAmount, amount)
	}

	near, err := a.registry.Resolve("NEAR")
	if err != nil {
		return "", err
	}

	if a.reader != nil {
		state, err := a.reader.AccountState(ctx, a.account.AccountID())
		if err != nil {
			return "", fmt.Errorf("account %s not accessible: %w", a.account.AccountID(), err)
		}
		balance, err := assets.FromOnChain(state.Amount, near)
		if err != nil {
			return "", fmt.Errorf("unparseable native balance: %w", err)
		}
		if balance < amount {
			return "", fmt.Errorf("insufficient balance (%.4f NEAR) for deposit of %.4f NEAR", balance, amount)
		}
	}

	if err := a.RegisterTokenStorage(ctx, "NEAR", a.contract); err != nil {
		return "", err
	}

	raw := assets.ToOnChain(amount, near)
	yocto, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return "", fmt.Errorf("unencodable deposit amount %q", raw)
	}

	a.log.Info("depositing NEAR for intent operations", "amount", amount)

	if _, err := a.chain.CallFunction(ctx, near.TokenID, "near_deposit", []byte("{}"), MaxGas, yocto); err != nil {
		return "", fmt.Errorf("failed to wrap NEAR: %w", err)
	}

	transferArgs, err := json.Marshal(map[string]string{
		"receiver_id": a.contract,
		"amount":      raw,
		"msg":         "",
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode transfer args: %w", err)
	}

	txHash, err := a.chain.CallFunction(ctx, near.TokenID, "ft_transfer_call", transferArgs, MaxGas, big.NewInt(1))
	if err != nil {
		return "", fmt.Errorf("failed to deposit NEAR: %w", err)
	}

	a.log.Info("deposit transaction submitted", "tx", txHash)
	return txHash, nil
}

// Swap executes a swap with the agent's account and privacy defaults.
func (a *Agent) Swap(ctx context.Context, tokenIn string, amountIn float64, tokenOut string, level types.PrivacyLevel) (*intents.SwapResult, error) {
	return a.swapper.Swap(ctx, a.account, tokenIn, amountIn, tokenOut, level)
}

// SwapToZEC swaps a token into ZEC.
func (a *Agent) SwapToZEC(ctx context.Context, tokenIn string, amountIn float64, level types.PrivacyLevel) (*intents.SwapResult, error) {
	return a.Swap(ctx, tokenIn, amountIn, "ZEC", level)
}

// SwapFromZEC swaps ZEC into another token.
func (a *Agent) SwapFromZEC(ctx context.Context, tokenOut string, amountIn float64, level types.PrivacyLevel) (*intents.SwapResult, error) {
	return a.Swap(ctx, "ZEC", amountIn, tokenOut, level)
}

// GetBalance returns the balance of one asset.
func (a *Agent) GetBalance(ctx context.Context, symbol string) (float64, error) {
	if a.view == nil {
		return 0, fmt.Errorf("no portfolio view configured")
	}
	return a.view.GetBalance(ctx, symbol)
}

// GetPortfolio returns balances for every registered asset.
func (a *Agent) GetPortfolio(ctx context.Context) (map[string]float64, error) {
	if a.view == nil {
		return nil, fmt.Errorf("no portfolio view configured")
	}
	return a.view.GetPortfolio(ctx), nil
}

// AnalyzePortfolio reads the portfolio and computes its aggregate
// statistics.
func (a *Agent) AnalyzePortfolio(ctx context.Context) (*portfolio.Analysis, error) {
	if a.view == nil {
		return nil, fmt.Errorf("no portfolio view configured")
	}
	return a.view.Analyze(ctx), nil
}

// SetPrivacyPreferences merges a loosely typed preferences update,
// logging any unrecognized keys instead of silently accepting them.
func (a *Agent) SetPrivacyPreferences(values map[string]any) {
	for _, key := range a.prefs.ApplyMap(values) {
		a.log.Warn("unknown privacy preference", "key", key)
	}
	a.log.Info("updated privacy preferences", "default_level", a.prefs.DefaultLevel())
}
