package intents

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/mr-tron/base58"
	"github.com/shopspring/decimal"

	"near-intents/pkg/assets"
	"near-intents/pkg/types"
)

const (
	// SigningStandard tags commitments signed with a raw ed25519
	// signature over the canonical payload bytes.
	SigningStandard = "raw_ed25519"

	// DefaultVerifyingContract is the authority that verifies published
	// commitments.
	DefaultVerifyingContract = "intents.near"

	signaturePrefix = "ed25519:"
)

// Signer produces raw ed25519 signatures for an on-chain identity.
type Signer interface {
	AccountID() string
	Sign(data []byte) ([]byte, error)
	PublicKey() ed25519.PublicKey
}

// CommitmentBuilder assembles, canonicalizes, and signs token-diff
// intents.
type CommitmentBuilder struct {
	registry          *assets.Registry
	verifyingContract string
	deadlineMs        int64
}

// NewCommitmentBuilder creates a builder. Empty verifyingContract and
// zero deadline fall back to the protocol defaults.
func NewCommitmentBuilder(registry *assets.Registry, verifyingContract string, deadlineMs int64) *CommitmentBuilder {
	if verifyingContract == "" {
		verifyingContract = DefaultVerifyingContract
	}
	if deadlineMs <= 0 {
		deadlineMs = DefaultDeadlineMs
	}
	return &CommitmentBuilder{
		registry:          registry,
		verifyingContract: verifyingContract,
		deadlineMs:        deadlineMs,
	}
}

// Build creates a signed commitment for a swap: input debited by
// amountIn (human units), output credited by amountOutRaw (the selected
// quote's on-chain encoded output amount).
//
// If shield is nil, privacy defaults to enabled whenever either asset
// is shielding-capable. Shield parameters are attached if and only if
// privacy ends up enabled.
func (b *CommitmentBuilder) Build(signer Signer, tokenIn string, amountIn float64, tokenOut string, amountOutRaw string, shield *types.ShieldOptions) (*types.SignedCommitment, error) {
	assetIn, err := b.registry.Resolve(tokenIn)
	if err != nil {
		return nil, err
	}
	assetOut, err := b.registry.Resolve(tokenOut)
	if err != nil {
		return nil, err
	}
	if amountIn <= 0 {
		return nil, fmt.Errorf("%w: got %v %s", ErrInvalidAmount, amountIn, tokenIn)
	}
	if _, err := decimal.NewFromString(amountOutRaw); err != nil {
		return nil, fmt.Errorf("invalid output amount %q: %w", amountOutRaw, err)
	}

	if shield == nil {
		shield = &types.ShieldOptions{Enabled: assetIn.Shielded || assetOut.Shielded}
	}

	nonce, err := newNonce()
	if err != nil {
		return nil, err
	}

	quote := types.IntentQuote{
		Nonce:             nonce,
		SignerID:          signer.AccountID(),
		VerifyingContract: b.verifyingContract,
		Deadline:          strconv.FormatInt(time.Now().UnixMilli()+b.deadlineMs, 10),
		Intents: []types.Intent{
			{
				Intent: "token_diff",
				Diff: map[string]string{
					assetIn.AssetID():  "-" + assets.ToOnChain(amountIn, assetIn),
					assetOut.AssetID(): amountOutRaw,
				},
			},
		},
	}

	// Struct fields keep declaration order and map keys are sorted, so
	// these bytes are reproducible for verification.
	payload, err := json.Marshal(quote)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize intent quote: %w", err)
	}

	signature, err := signer.Sign(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSigning, err)
	}

	commitment := &types.SignedCommitment{
		Standard:  SigningStandard,
		Payload:   string(payload),
		Signature: signaturePrefix + base58.Encode(signature),
		PublicKey: signaturePrefix + base58.Encode(signer.PublicKey()),
	}

	if shield.Enabled {
		commitment.ShieldParams = &types.ShieldParams{
			Shielded:   true,
			Memo:       optional(shield.Memo),
			ViewingKey: optional(shield.ViewingKey),
		}
	}

	return commitment, nil
}

// newNonce returns a fresh 256-bit nonce from a cryptographically
// secure source, base64 encoded. Nonces are single-use: every
// commitment, including retries, gets its own.
func newNonce() (string, error) {
	var buf [32]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf[:]), nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
