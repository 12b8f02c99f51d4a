package deposit

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"

	"near-intents/config"
)

// ZcashDepositor sends ZEC deposits through a local zcash-cli wallet.
// Shielded sends use z_sendmany so the memo travels inside the
// shielded pool.
type ZcashDepositor struct {
	cfg config.ZcashConfig
	log *slog.Logger
}

// NewZcashDepositor creates a new Zcash depositor.
func NewZcashDepositor(cfg config.ZcashConfig, log *slog.Logger) *ZcashDepositor {
	if log == nil {
		log = slog.Default()
	}
	return &ZcashDepositor{cfg: cfg, log: log}
}

// SendDeposit sends a transparent ZEC payment to the given address.
func (z *ZcashDepositor) SendDeposit(ctx context.Context, address, amount string) (string, error) {
	if err := z.validateCLI(ctx); err != nil {
		return "", fmt.Errorf("zcash-cli validation failed: %w", err)
	}

	if err := z.checkBalance(ctx, amount); err != nil {
		return "", err
	}

	output, err := z.run(ctx, "sendtoaddress", address, amount)
	if err != nil {
		return "", err
	}

	txid := strings.TrimSpace(output)
	if txid == "" {
		return "", fmt.Errorf("empty transaction ID returned")
	}
	return txid, nil
}

// SendShielded sends ZEC from the configured shielded address with an
// optional memo. Returns the operation id reported by the wallet.
func (z *ZcashDepositor) SendShielded(ctx context.Context, address, amount, memo string) (string, error) {
	if z.cfg.FromAddress == "" {
		return "", fmt.Errorf("shielded sends require from_address in the zcash config")
	}
	if err := z.validateCLI(ctx); err != nil {
		return "", fmt.Errorf("zcash-cli validation failed: %w", err)
	}

	amountFloat, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return "", fmt.Errorf("invalid amount: %w", err)
	}

	recipient := map[string]any{
		"address": address,
		"amount":  amountFloat,
	}
	if memo != "" {
		recipient["memo"] = hex.EncodeToString([]byte(memo))
	}

	recipients, err := json.Marshal([]map[string]any{recipient})
	if err != nil {
		return "", fmt.Errorf("failed to encode recipients: %w", err)
	}

	output, err := z.run(ctx, "z_sendmany", z.cfg.FromAddress, string(recipients))
	if err != nil {
		return "", err
	}

	opid := strings.TrimSpace(output)
	if opid == "" {
		return "", fmt.Errorf("empty operation ID returned")
	}
	z.log.Info("shielded send queued", "opid", opid)
	return opid, nil
}

func (z *ZcashDepositor) checkBalance(ctx context.Context, amount string) error {
	balance, err := z.getBalance(ctx)
	if err != nil {
		return fmt.Errorf("failed to get wallet balance: %w", err)
	}

	amountFloat, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	if balance < amountFloat {
		return fmt.Errorf("insufficient balance: have %.8f ZEC, need %.8f ZEC", balance, amountFloat)
	}
	return nil
}

func (z *ZcashDepositor) getBalance(ctx context.Context) (float64, error) {
	output, err := z.run(ctx, "getbalance")
	if err != nil {
		return 0, err
	}

	balance, err := strconv.ParseFloat(strings.TrimSpace(output), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse balance: %w", err)
	}
	return balance, nil
}

// validateCLI checks that zcash-cli is reachable and answering.
func (z *ZcashDepositor) validateCLI(ctx context.Context) error {
	output, err := z.run(ctx, "getblockchaininfo")
	if err != nil {
		return fmt.Errorf("zcash-cli not accessible: %w", err)
	}

	var info map[string]any
	if err := json.Unmarshal([]byte(output), &info); err != nil {
		return fmt.Errorf("invalid zcash-cli response: %w", err)
	}
	return nil
}

func (z *ZcashDepositor) run(ctx context.Context, command string, extra ...string) (string, error) {
	args := append([]string{}, z.cfg.CLIArgs...)
	args = append(args, command)
	args = append(args, extra...)

	cmd := exec.CommandContext(ctx, z.cliPath(), args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("zcash-cli %s failed: %w\nOutput: %s", command, err, string(output))
	}
	return string(output), nil
}

func (z *ZcashDepositor) cliPath() string {
	if z.cfg.CLIPath != "" {
		return z.cfg.CLIPath
	}
	return "zcash-cli"
}
