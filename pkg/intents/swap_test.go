package intents

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

	"near-intents/pkg/assets"
	"near-intents/pkg/solverbus"
	"near-intents/pkg/types"
)

// relayStub serves both solver bus methods from one endpoint and records
// what was published.
type relayStub struct {
	quotes       string
	publishes    int
	lastPublish  json.RawMessage
	quoteRequest json.RawMessage
}

func (r *relayStub) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		body, _ := io.ReadAll(req.Body)
		var envelope struct {
			Method string          `json:"method"`
			Params json.RawMessage `json:"params"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		switch envelope.Method {
		case "intents_getQuotes":
			r.quoteRequest = envelope.Params
			w.Write([]byte(`{"result":` + r.quotes + `}`))
		case "intents_publishIntent":
			r.publishes++
			var params struct {
				SignedData json.RawMessage `json:"signed_data"`
			}
			_ = json.Unmarshal(envelope.Params, &params)
			r.lastPublish = params.SignedData
			w.Write([]byte(`{"result":{"status":"OK","intent_hash":"hash123"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func newTestSwapper(t *testing.T, relay *relayStub, prefs PreferenceSource) *Swapper {
	t.Helper()
	server := httptest.NewServer(relay.handler())
	t.Cleanup(server.Close)

	return NewSwapper(SwapperConfig{
		Bus:         solverbus.NewClient(server.URL, time.Second, nil),
		Builder:     NewCommitmentBuilder(assets.DefaultRegistry(), "", 0),
		Preferences: prefs,
	})
}

func TestSwapEndToEnd(t *testing.T) {
	relay := &relayStub{
		quotes: `[{"amount_out":"14000000"},{"amount_out":"15000000"},{"amount_out":"13500000"}]`,
	}
	swapper := newTestSwapper(t, relay, nil)

	result, err := swapper.Swap(context.Background(), newTestSigner(t), "NEAR", 0.5, "ZEC", types.PrivacyDefault)
	require.NoError(t, err)

	assert.Equal(t, StatePublished, result.State)
	assert.Equal(t, "15000000", result.Selected.AmountOut)
	assert.Equal(t, "OK", result.Publish.Status)
	assert.Equal(t, "hash123", result.Publish.IntentHash)

	// The quote request went out with on-chain encoded input.
	var quoteReq types.QuoteRequest
	require.NoError(t, json.Unmarshal(relay.quoteRequest, &quoteReq))
	assert.Equal(t, "near", quoteReq.Assets.In)
	assert.Equal(t, "nep141:zcash.factory.bridge.near", quoteReq.Assets.Out)
	assert.Equal(t, "500000000000000000000000", quoteReq.Amounts.In)

	// The published commitment debits the input and credits the selected
	// quote's output verbatim.
	require.Equal(t, 1, relay.publishes)
	var commitment types.SignedCommitment
	require.NoError(t, json.Unmarshal(relay.lastPublish, &commitment))

	var quote types.IntentQuote
	require.NoError(t, json.Unmarshal([]byte(commitment.Payload), &quote))
	require.Len(t, quote.Intents, 1)
	assert.Equal(t, map[string]string{
		"near":                             "-500000000000000000000000",
		"nep141:zcash.factory.bridge.near": "15000000",
	}, quote.Intents[0].Diff)

	// ZEC in the pair shields the swap by default.
	require.NotNil(t, commitment.ShieldParams)
	assert.True(t, commitment.ShieldParams.Shielded)
	require.NotNil(t, commitment.ShieldParams.Memo)
	assert.Equal(t, "Swap NEAR to ZEC", *commitment.ShieldParams.Memo)
}

func TestSwapNoLiquidity(t *testing.T) {
	relay := &relayStub{quotes: `[]`}
	swapper := newTestSwapper(t, relay, nil)

	result, err := swapper.Swap(context.Background(), newTestSigner(t), "NEAR", 0.5, "ZEC", types.PrivacyDefault)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoLiquidity)
	assert.Equal(t, StateFailed, result.State)
	assert.Zero(t, relay.publishes, "nothing may be published without a quote")
}

func TestSwapShieldedLevelOnTransparentPair(t *testing.T) {
	relay := &relayStub{quotes: `[{"amount_out":"250000"}]`}
	swapper := newTestSwapper(t, relay, nil)

	result, err := swapper.Swap(context.Background(), newTestSigner(t), "NEAR", 1, "USDC", types.PrivacyShielded)
	require.NoError(t, err)

	assert.Equal(t, StatePublished, result.State)
	assert.Nil(t, result.Commitment.ShieldParams, "pair without a shielding-capable asset runs transparent")
}

func TestSwapDefaultLevelShieldsShieldablePair(t *testing.T) {
	// With no explicit level and no preference source, a pair holding a
	// shielding-capable asset falls through to shielded.
	relay := &relayStub{quotes: `[{"amount_out":"15000000"}]`}
	swapper := newTestSwapper(t, relay, nil)

	result, err := swapper.Swap(context.Background(), newTestSigner(t), "NEAR", 0.5, "ZEC", types.PrivacyDefault)
	require.NoError(t, err)
	require.NotNil(t, result.Commitment.ShieldParams)
	assert.True(t, result.Commitment.ShieldParams.Shielded)
}

func TestSwapTransparentLevelOverridesDefault(t *testing.T) {
	relay := &relayStub{quotes: `[{"amount_out":"15000000"}]`}
	swapper := newTestSwapper(t, relay, nil)

	result, err := swapper.Swap(context.Background(), newTestSigner(t), "NEAR", 0.5, "ZEC", types.PrivacyTransparent)
	require.NoError(t, err)
	assert.Nil(t, result.Commitment.ShieldParams)
}

type stubPrefs struct {
	level types.PrivacyLevel
	memos bool
}

func (s stubPrefs) DefaultLevel() types.PrivacyLevel { return s.level }
func (s stubPrefs) MemosEnabled() bool               { return s.memos }

func TestSwapPreferenceDefaultApplies(t *testing.T) {
	relay := &relayStub{quotes: `[{"amount_out":"15000000"}]`}
	swapper := newTestSwapper(t, relay, stubPrefs{level: types.PrivacyTransparent, memos: true})

	result, err := swapper.Swap(context.Background(), newTestSigner(t), "NEAR", 0.5, "ZEC", types.PrivacyDefault)
	require.NoError(t, err)
	assert.Nil(t, result.Commitment.ShieldParams, "preference default must apply when no explicit level is given")
}

func TestSwapMemoDisabled(t *testing.T) {
	relay := &relayStub{quotes: `[{"amount_out":"15000000"}]`}
	swapper := newTestSwapper(t, relay, stubPrefs{level: types.PrivacyShielded, memos: false})

	result, err := swapper.Swap(context.Background(), newTestSigner(t), "NEAR", 0.5, "ZEC", types.PrivacyDefault)
	require.NoError(t, err)
	require.NotNil(t, result.Commitment.ShieldParams)
	assert.Nil(t, result.Commitment.ShieldParams.Memo)
}

func TestSwapPublishFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		body, _ := io.ReadAll(req.Body)
		var envelope struct {
			Method string `json:"method"`
		}
		_ = json.Unmarshal(body, &envelope)
		if envelope.Method == "intents_getQuotes" {
			w.Write([]byte(`{"result":[{"amount_out":"100"}]}`))
			return
		}
		w.Write([]byte(`{"error":{"code":-32000,"message":"relay unavailable"}}`))
	}))
	t.Cleanup(server.Close)

	swapper := NewSwapper(SwapperConfig{
		Bus:     solverbus.NewClient(server.URL, time.Second, nil),
		Builder: NewCommitmentBuilder(assets.DefaultRegistry(), "", 0),
	})

	result, err := swapper.Swap(context.Background(), newTestSigner(t), "NEAR", 1, "ZEC", types.PrivacyDefault)
	require.Error(t, err)
	assert.ErrorIs(t, err, solverbus.ErrPublish)
	assert.Equal(t, StateFailed, result.State)
	assert.NotNil(t, result.Commitment, "the signed commitment survives for diagnosis")
}

func TestSwapInvalidInput(t *testing.T) {
	swapper := NewSwapper(SwapperConfig{
		Bus:     solverbus.NewClient("http://127.0.0.1:0", time.Second, nil),
		Builder: NewCommitmentBuilder(assets.DefaultRegistry(), "", 0),
	})

	_, err := swapper.Swap(context.Background(), newTestSigner(t), "NEAR", -1, "ZEC", types.PrivacyDefault)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = swapper.Swap(context.Background(), newTestSigner(t), "DOGE", 1, "ZEC", types.PrivacyDefault)
	assert.Error(t, err)
}
