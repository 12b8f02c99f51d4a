package intents

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"near-intents/pkg/account"
	"near-intents/pkg/assets"
	"near-intents/pkg/types"
)

func newTestSigner(t *testing.T) *account.Account {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return account.NewAccount("alice.near", priv)
}

func decodeSignature(t *testing.T, tagged string) []byte {
	t.Helper()
	require.True(t, strings.HasPrefix(tagged, "ed25519:"))
	raw, err := base58.Decode(strings.TrimPrefix(tagged, "ed25519:"))
	require.NoError(t, err)
	return raw
}

func TestBuildCommitment(t *testing.T) {
	signer := newTestSigner(t)
	builder := NewCommitmentBuilder(assets.DefaultRegistry(), "", 0)

	commitment, err := builder.Build(signer, "NEAR", 0.5, "ZEC", "15000000", nil)
	require.NoError(t, err)

	assert.Equal(t, "raw_ed25519", commitment.Standard)

	var quote types.IntentQuote
	require.NoError(t, json.Unmarshal([]byte(commitment.Payload), &quote))
	assert.Equal(t, "alice.near", quote.SignerID)
	assert.Equal(t, "intents.near", quote.VerifyingContract)

	require.Len(t, quote.Intents, 1)
	intent := quote.Intents[0]
	assert.Equal(t, "token_diff", intent.Intent)
	assert.Equal(t, map[string]string{
		"near":                             "-500000000000000000000000",
		"nep141:zcash.factory.bridge.near": "15000000",
	}, intent.Diff)

	deadline, err := strconv.ParseInt(quote.Deadline, 10, 64)
	require.NoError(t, err)
	remaining := deadline - time.Now().UnixMilli()
	assert.Greater(t, remaining, int64(100_000))
	assert.LessOrEqual(t, remaining, int64(120_000))

	nonce, err := base64.StdEncoding.DecodeString(quote.Nonce)
	require.NoError(t, err)
	assert.Len(t, nonce, 32)
}

func TestCommitmentSignatureVerifies(t *testing.T) {
	signer := newTestSigner(t)
	builder := NewCommitmentBuilder(assets.DefaultRegistry(), "", 0)

	commitment, err := builder.Build(signer, "NEAR", 1, "USDC", "250000", nil)
	require.NoError(t, err)

	sig := decodeSignature(t, commitment.Signature)
	pub := decodeSignature(t, commitment.PublicKey)
	require.Len(t, pub, ed25519.PublicKeySize)

	assert.True(t, ed25519.Verify(ed25519.PublicKey(pub), []byte(commitment.Payload), sig))

	// Any payload corruption must invalidate the signature.
	corrupted := []byte(commitment.Payload)
	corrupted[len(corrupted)/2] ^= 0x01
	assert.False(t, ed25519.Verify(ed25519.PublicKey(pub), corrupted, sig))
}

func TestCommitmentNoncesAreUnique(t *testing.T) {
	signer := newTestSigner(t)
	builder := NewCommitmentBuilder(assets.DefaultRegistry(), "", 0)

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		commitment, err := builder.Build(signer, "NEAR", 1, "ZEC", "100", nil)
		require.NoError(t, err)

		var quote types.IntentQuote
		require.NoError(t, json.Unmarshal([]byte(commitment.Payload), &quote))
		assert.False(t, seen[quote.Nonce], "nonce reused across commitments")
		seen[quote.Nonce] = true
	}
}

func TestCommitmentShieldDefaults(t *testing.T) {
	signer := newTestSigner(t)
	builder := NewCommitmentBuilder(assets.DefaultRegistry(), "", 0)

	t.Run("shieldable pair defaults to shielded", func(t *testing.T) {
		commitment, err := builder.Build(signer, "NEAR", 1, "ZEC", "100", nil)
		require.NoError(t, err)
		require.NotNil(t, commitment.ShieldParams)
		assert.True(t, commitment.ShieldParams.Shielded)
		assert.Nil(t, commitment.ShieldParams.Memo)
		assert.Nil(t, commitment.ShieldParams.ViewingKey)
	})

	t.Run("transparent pair stays transparent", func(t *testing.T) {
		commitment, err := builder.Build(signer, "NEAR", 1, "USDC", "100", nil)
		require.NoError(t, err)
		assert.Nil(t, commitment.ShieldParams)
	})

	t.Run("explicit opt-out wins", func(t *testing.T) {
		commitment, err := builder.Build(signer, "NEAR", 1, "ZEC", "100", &types.ShieldOptions{Enabled: false})
		require.NoError(t, err)
		assert.Nil(t, commitment.ShieldParams)
	})

	t.Run("memo and viewing key carried", func(t *testing.T) {
		commitment, err := builder.Build(signer, "NEAR", 1, "ZEC", "100", &types.ShieldOptions{
			Enabled:    true,
			Memo:       "Swap NEAR to ZEC",
			ViewingKey: "zxviews1...",
		})
		require.NoError(t, err)
		require.NotNil(t, commitment.ShieldParams)
		require.NotNil(t, commitment.ShieldParams.Memo)
		assert.Equal(t, "Swap NEAR to ZEC", *commitment.ShieldParams.Memo)
		require.NotNil(t, commitment.ShieldParams.ViewingKey)
		assert.Equal(t, "zxviews1...", *commitment.ShieldParams.ViewingKey)
	})
}

func TestCommitmentValidation(t *testing.T) {
	signer := newTestSigner(t)
	builder := NewCommitmentBuilder(assets.DefaultRegistry(), "", 0)

	_, err := builder.Build(signer, "DOGE", 1, "ZEC", "100", nil)
	assert.ErrorIs(t, err, assets.ErrUnsupportedAsset)

	_, err = builder.Build(signer, "NEAR", 0, "ZEC", "100", nil)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = builder.Build(signer, "NEAR", 1, "ZEC", "not-a-number", nil)
	assert.Error(t, err)
}
