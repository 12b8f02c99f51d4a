package deposit

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"near-intents/config"
	"near-intents/pkg/assets"
)

// Depositor sends a deposit on one origin chain and returns the
// transaction identifier.
type Depositor interface {
	SendDeposit(ctx context.Context, address, amount string) (string, error)
}

// Manager routes swap-input deposits to the right origin-chain
// depositor per asset.
type Manager struct {
	cfg      config.AutoDepositConfig
	registry *assets.Registry
	log      *slog.Logger
}

// NewManager creates a deposit manager.
func NewManager(cfg config.AutoDepositConfig, registry *assets.Registry, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{cfg: cfg, registry: registry, log: log}
}

// IsEnabled returns whether auto-deposit is enabled globally.
func (m *Manager) IsEnabled() bool {
	return m.cfg.Enabled
}

// IsEnabledFor returns whether auto-deposit can serve a given asset.
func (m *Manager) IsEnabledFor(symbol string) bool {
	if !m.cfg.Enabled {
		return false
	}
	switch strings.ToUpper(symbol) {
	case "ZEC":
		return m.cfg.Zcash.Enabled
	default:
		if !m.cfg.EVM.Enabled {
			return false
		}
		_, ok := m.cfg.EVM.TokenContracts[strings.ToUpper(symbol)]
		return ok
	}
}

// SendDeposit sends amount of the given asset to a deposit address.
// ZEC deposits honor the shielded flag and memo; bridged tokens go out
// as origin-chain ERC20 transfers.
func (m *Manager) SendDeposit(ctx context.Context, symbol, address, amount string, shielded bool, memo string) (string, error) {
	if !m.IsEnabled() {
		return "", fmt.Errorf("auto-deposit is not enabled in configuration")
	}
	if !m.IsEnabledFor(symbol) {
		return "", fmt.Errorf("auto-deposit is not enabled for asset: %s", symbol)
	}

	asset, err := m.registry.Resolve(symbol)
	if err != nil {
		return "", err
	}

	switch strings.ToUpper(symbol) {
	case "ZEC":
		depositor := NewZcashDepositor(m.cfg.Zcash, m.log)
		if shielded {
			return depositor.SendShielded(ctx, address, amount, memo)
		}
		return depositor.SendDeposit(ctx, address, amount)
	default:
		depositor, err := NewEVMDepositor(m.cfg.EVM, asset, m.log)
		if err != nil {
			return "", err
		}
		defer depositor.Close()
		return depositor.SendDeposit(ctx, address, amount)
	}
}

// SupportedAssets lists the assets auto-deposit can currently serve.
func (m *Manager) SupportedAssets() []string {
	supported := make([]string, 0)
	for _, symbol := range m.registry.Symbols() {
		if m.IsEnabledFor(symbol) {
			supported = append(supported, symbol)
		}
	}
	return supported
}
