package nearclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultURL is the public mainnet RPC endpoint.
const DefaultURL = "https://rpc.mainnet.near.org"

// Client is a minimal read-only NEAR JSON-RPC client covering the
// account-state and token-balance queries the portfolio view needs.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a NEAR RPC client. An empty url selects mainnet; a
// zero timeout defaults to 15 seconds.
func NewClient(url string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// AccountState is the subset of view_account output the client exposes.
// Amount is the native balance in yoctoNEAR.
type AccountState struct {
	Amount       string `json:"amount"`
	Locked       string `json:"locked"`
	StorageUsage uint64 `json:"storage_usage"`
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Name  string          `json:"name"`
	Cause json.RawMessage `json:"cause"`
	Data  string          `json:"data"`
}

func (e *rpcError) Error() string {
	if e.Data != "" {
		return fmt.Sprintf("rpc error %s: %s", e.Name, e.Data)
	}
	return fmt.Sprintf("rpc error %s: %s", e.Name, string(e.Cause))
}

func (c *Client) query(ctx context.Context, params any, out any) error {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      "near-intents",
		Method:  "query",
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("failed to encode rpc request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build rpc request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("rpc transport failure: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read rpc response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("rpc returned status %d", resp.StatusCode)
	}

	var envelope rpcResponse
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("malformed rpc response: %w", err)
	}
	if envelope.Error != nil {
		return envelope.Error
	}

	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return fmt.Errorf("malformed rpc result: %w", err)
	}
	return nil
}

// AccountState fetches the current state of an account.
func (c *Client) AccountState(ctx context.Context, accountID string) (*AccountState, error) {
	var state AccountState
	err := c.query(ctx, map[string]any{
		"request_type": "view_account",
		"finality":     "final",
		"account_id":   accountID,
	}, &state)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch state for %s: %w", accountID, err)
	}
	return &state, nil
}

// ViewBalance calls ft_balance_of on a NEP-141 token contract and
// returns the raw on-chain balance string.
func (c *Client) ViewBalance(ctx context.Context, tokenID, ownerID string) (string, error) {
	args, err := json.Marshal(map[string]string{"account_id": ownerID})
	if err != nil {
		return "", fmt.Errorf("failed to encode ft_balance_of args: %w", err)
	}

	// The result bytes arrive as a JSON array of numbers, not base64.
	var result struct {
		Result []int `json:"result"`
	}
	err = c.query(ctx, map[string]any{
		"request_type": "call_function",
		"finality":     "final",
		"account_id":   tokenID,
		"method_name":  "ft_balance_of",
		"args_base64":  base64.StdEncoding.EncodeToString(args),
	}, &result)
	if err != nil {
		return "", fmt.Errorf("failed to view balance on %s: %w", tokenID, err)
	}

	raw := make([]byte, len(result.Result))
	for i, b := range result.Result {
		raw[i] = byte(b)
	}

	// The contract returns a JSON string of the raw balance.
	var balance string
	if err := json.Unmarshal(raw, &balance); err != nil {
		return "", fmt.Errorf("malformed ft_balance_of result: %w", err)
	}
	return balance, nil
}
