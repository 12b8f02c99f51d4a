package nearclient

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func byteArrayJSON(t *testing.T, s string) string {
	t.Helper()
	ints := make([]int, len(s))
	for i := range s {
		ints[i] = int(s[i])
	}
	data, err := json.Marshal(ints)
	require.NoError(t, err)
	return string(data)
}

func TestAccountState(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req struct {
			Method string         `json:"method"`
			Params map[string]any `json:"params"`
		}
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "query", req.Method)
		assert.Equal(t, "view_account", req.Params["request_type"])
		assert.Equal(t, "alice.near", req.Params["account_id"])

		w.Write([]byte(`{"result":{"amount":"2500000000000000000000000","locked":"0","storage_usage":1820}}`))
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, time.Second)
	state, err := client.AccountState(context.Background(), "alice.near")
	require.NoError(t, err)
	assert.Equal(t, "2500000000000000000000000", state.Amount)
	assert.EqualValues(t, 1820, state.StorageUsage)
}

func TestAccountStateError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"name":"HANDLER_ERROR","data":"account alice.near does not exist"}}`))
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, time.Second)
	_, err := client.AccountState(context.Background(), "alice.near")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestViewBalance(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req struct {
			Params map[string]any `json:"params"`
		}
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "call_function", req.Params["request_type"])
		assert.Equal(t, "ft_balance_of", req.Params["method_name"])

		args, err := base64.StdEncoding.DecodeString(req.Params["args_base64"].(string))
		require.NoError(t, err)
		assert.JSONEq(t, `{"account_id":"alice.near"}`, string(args))

		// ft_balance_of returns a JSON string, delivered as raw bytes.
		w.Write([]byte(`{"result":{"result":` + byteArrayJSON(t, `"150000000"`) + `}}`))
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, time.Second)
	balance, err := client.ViewBalance(context.Background(), "zcash.factory.bridge.near", "alice.near")
	require.NoError(t, err)
	assert.Equal(t, "150000000", balance)
}

func TestViewBalanceMalformedResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":{"result":` + byteArrayJSON(t, `not json`) + `}}`))
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, time.Second)
	_, err := client.ViewBalance(context.Background(), "zcash.factory.bridge.near", "alice.near")
	assert.Error(t, err)
}
