package types

// PrivacyLevel selects how a swap involving a shielding-capable asset
// is executed.
type PrivacyLevel string

const (
	PrivacyDefault     PrivacyLevel = "default"
	PrivacyTransparent PrivacyLevel = "transparent"
	PrivacyShielded    PrivacyLevel = "shielded"
)

// Intent is a single atomic balance-change declaration. Diff maps
// protocol asset identifiers to signed decimal deltas: negative for
// debits, positive for credits.
type Intent struct {
	Intent string            `json:"intent"`
	Diff   map[string]string `json:"diff"`
}

// IntentQuote is the canonical payload that gets signed. Field order is
// part of the wire contract: the serialized bytes must be reproducible
// byte-for-byte for signature verification.
type IntentQuote struct {
	Nonce             string   `json:"nonce"`
	SignerID          string   `json:"signer_id"`
	VerifyingContract string   `json:"verifying_contract"`
	Deadline          string   `json:"deadline"`
	Intents           []Intent `json:"intents"`
}

// ShieldOptions carries the caller's privacy choices for one swap.
type ShieldOptions struct {
	Enabled    bool
	Memo       string
	ViewingKey string
}

// ShieldParams is the shielding metadata attached to a commitment when
// privacy is enabled. Memo and viewing key stay null when unset.
type ShieldParams struct {
	Shielded   bool    `json:"shielded"`
	Memo       *string `json:"memo"`
	ViewingKey *string `json:"viewing_key"`
}

// SignedCommitment is a signed intent ready for publication. Payload
// holds the exact serialized IntentQuote bytes that were signed.
type SignedCommitment struct {
	Standard     string        `json:"standard"`
	Payload      string        `json:"payload"`
	Signature    string        `json:"signature"`
	PublicKey    string        `json:"public_key"`
	ShieldParams *ShieldParams `json:"shield_params,omitempty"`
}
