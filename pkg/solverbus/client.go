package solverbus

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultURL is the production solver bus RPC endpoint.
const DefaultURL = "https://solver-relay-v2.chaindefuser.com/rpc"

const (
	methodGetQuotes     = "intents_getQuotes"
	methodPublishIntent = "intents_publishIntent"
)

// ErrPublish wraps any transport or relay-reported failure during intent
// publication. Publishing never degrades silently: a caller that cannot
// tell whether a commitment was submitted must not retry with the same
// nonce.
var ErrPublish = errors.New("publish intent failed")

// Client talks to the solver bus over its JSON envelope protocol. Both
// logical operations share a single endpoint.
type Client struct {
	url        string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a solver bus client. An empty url selects the
// production endpoint; a zero timeout defaults to 30 seconds.
func NewClient(url string, timeout time.Duration, log *slog.Logger) *Client {
	if url == "" {
		url = DefaultURL
	}
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

type rpcEnvelope struct {
	Method string `json:"method"`
	Params any    `json:"params"`
	ID     int    `json:"id"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("relay error %d: %s", e.Code, e.Message)
}

// call posts one envelope and decodes the result field.
func (c *Client) call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	body, err := json.Marshal(rpcEnvelope{Method: method, Params: params, ID: 1})
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s transport failure: %w", method, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", method, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s returned status %d: %s", method, resp.StatusCode, truncate(data, 200))
	}

	var envelope rpcResponse
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("malformed %s response: %w", method, err)
	}
	if envelope.Error != nil {
		return nil, envelope.Error
	}

	return envelope.Result, nil
}

// GetQuotes fetches candidate quotes for a serialized swap request.
// Transport and protocol failures degrade to an empty list: quote
// absence is a normal market condition, and callers treat an empty
// result as no liquidity. The underlying failure is still logged so the
// two outcomes stay distinguishable in operation.
func (c *Client) GetQuotes(ctx context.Context, request any) []QuoteOption {
	result, err := c.call(ctx, methodGetQuotes, request)
	if err != nil {
		c.log.Warn("quote fetch failed, treating as no liquidity", "error", err)
		return nil
	}

	var options []QuoteOption
	if err := json.Unmarshal(result, &options); err != nil {
		c.log.Warn("malformed quote list, treating as no liquidity", "error", err)
		return nil
	}
	return options
}

type publishParams struct {
	SignedData any `json:"signed_data"`
}

// PublishIntent submits a signed commitment for execution. Any failure
// is surfaced as ErrPublish; the relay may already hold the commitment,
// so retrying requires a freshly nonced commitment.
func (c *Client) PublishIntent(ctx context.Context, commitment any) (*PublishResult, error) {
	result, err := c.call(ctx, methodPublishIntent, publishParams{SignedData: commitment})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPublish, err)
	}

	var pub PublishResult
	if err := json.Unmarshal(result, &pub); err != nil {
		return nil, fmt.Errorf("%w: malformed relay result: %w", ErrPublish, err)
	}
	pub.Raw = result
	return &pub, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
