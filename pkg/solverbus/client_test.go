package solverbus

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, time.Second, nil)
}

func TestGetQuotes(t *testing.T) {
	var gotMethod string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var envelope struct {
			Method string `json:"method"`
		}
		require.NoError(t, json.Unmarshal(body, &envelope))
		gotMethod = envelope.Method

		w.Write([]byte(`{"result":[{"amount_out":"100","solver_id":"a"},{"amount_out":"250","solver_id":"b"}]}`))
	})

	options := client.GetQuotes(context.Background(), map[string]string{})
	assert.Equal(t, "intents_getQuotes", gotMethod)
	require.Len(t, options, 2)
	assert.Equal(t, "100", options[0].AmountOut)
	assert.Equal(t, "250", options[1].AmountOut)
	assert.Contains(t, string(options[1].Raw), `"solver_id":"b"`)
}

func TestGetQuotesDegradesToEmpty(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		assert.Empty(t, client.GetQuotes(context.Background(), nil))
	})

	t.Run("relay error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"error":{"code":-32000,"message":"boom"}}`))
		})
		assert.Empty(t, client.GetQuotes(context.Background(), nil))
	})

	t.Run("malformed result", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"result":{"not":"a list"}}`))
		})
		assert.Empty(t, client.GetQuotes(context.Background(), nil))
	})

	t.Run("transport failure", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		server.Close()
		client := NewClient(server.URL, time.Second, nil)
		assert.Empty(t, client.GetQuotes(context.Background(), nil))
	})
}

func TestPublishIntent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var envelope struct {
			Method string `json:"method"`
			Params struct {
				SignedData map[string]any `json:"signed_data"`
			} `json:"params"`
		}
		require.NoError(t, json.Unmarshal(body, &envelope))
		assert.Equal(t, "intents_publishIntent", envelope.Method)
		assert.Equal(t, "raw_ed25519", envelope.Params.SignedData["standard"])

		w.Write([]byte(`{"result":{"status":"OK","intent_hash":"abc123"}}`))
	})

	result, err := client.PublishIntent(context.Background(), map[string]string{"standard": "raw_ed25519"})
	require.NoError(t, err)
	assert.Equal(t, "OK", result.Status)
	assert.Equal(t, "abc123", result.IntentHash)
}

func TestPublishIntentFailsLoud(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		_, err := client.PublishIntent(context.Background(), nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrPublish)
	})

	t.Run("relay error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"error":{"code":-32000,"message":"expired deadline"}}`))
		})
		_, err := client.PublishIntent(context.Background(), nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrPublish)
		assert.Contains(t, err.Error(), "expired deadline")
	})

	t.Run("transport failure", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		server.Close()
		client := NewClient(server.URL, time.Second, nil)
		_, err := client.PublishIntent(context.Background(), nil)
		assert.ErrorIs(t, err, ErrPublish)
	})
}

func TestDefaultsApplied(t *testing.T) {
	client := NewClient("", 0, nil)
	assert.Equal(t, DefaultURL, client.url)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
}
