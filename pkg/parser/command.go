package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// SwapCommand is a parsed "swap" instruction.
type SwapCommand struct {
	Amount   float64
	TokenIn  string
	TokenOut string
}

var swapPattern = regexp.MustCompile(`^(\d+\.?\d*)\s+([A-Z0-9]+)\s+TO\s+([A-Z0-9]+)$`)

// ParseSwapCommand parses a swap command of the form
// "<amount> <token-in> to <token-out>", e.g. "0.5 NEAR to ZEC".
func ParseSwapCommand(command string) (*SwapCommand, error) {
	command = strings.TrimSpace(strings.ToUpper(command))
	command = strings.TrimPrefix(command, "SWAP ")

	matches := swapPattern.FindStringSubmatch(command)
	if matches == nil {
		return nil, fmt.Errorf("invalid swap command format. Expected: 'swap <amount> <token> to <token>' (e.g., 'swap 0.5 NEAR to ZEC')")
	}

	amount, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", matches[1], err)
	}

	return &SwapCommand{
		Amount:   amount,
		TokenIn:  matches[2],
		TokenOut: matches[3],
	}, nil
}
