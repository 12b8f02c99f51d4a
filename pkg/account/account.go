package account

import (
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mr-tron/base58"
)

const keyPrefix = "ed25519:"

// Account holds a NEAR identity and its ed25519 signing key. Key
// custody beyond the credentials file is out of scope.
type Account struct {
	accountID  string
	privateKey ed25519.PrivateKey
}

// credentialsFile mirrors the standard NEAR credentials JSON layout.
type credentialsFile struct {
	AccountID  string `json:"account_id"`
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key"`
}

// NewAccount wraps an existing key pair.
func NewAccount(accountID string, privateKey ed25519.PrivateKey) *Account {
	return &Account{accountID: accountID, privateKey: privateKey}
}

// LoadFromFile reads a NEAR credentials file and decodes its
// base58-encoded ed25519 key pair.
func LoadFromFile(path string) (*Account, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read account file: %w", err)
	}

	var creds credentialsFile
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("invalid account file %s: %w", path, err)
	}
	if creds.AccountID == "" {
		return nil, fmt.Errorf("account file %s: missing account_id", path)
	}

	raw, err := base58.Decode(strings.TrimPrefix(creds.PrivateKey, keyPrefix))
	if err != nil {
		return nil, fmt.Errorf("invalid private key encoding: %w", err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("invalid private key length: got %d, want %d", len(raw), ed25519.PrivateKeySize)
	}

	acc := &Account{
		accountID:  creds.AccountID,
		privateKey: ed25519.PrivateKey(raw),
	}

	if creds.PublicKey != "" && creds.PublicKey != acc.PublicKeyString() {
		return nil, fmt.Errorf("account file %s: public key does not match private key", path)
	}

	return acc, nil
}

// AccountID returns the NEAR account identifier.
func (a *Account) AccountID() string {
	return a.accountID
}

// Sign signs arbitrary bytes with the account's ed25519 key.
func (a *Account) Sign(data []byte) ([]byte, error) {
	if len(a.privateKey) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("account %s has no usable signing key", a.accountID)
	}
	return ed25519.Sign(a.privateKey, data), nil
}

// PublicKey returns the raw ed25519 public key.
func (a *Account) PublicKey() ed25519.PublicKey {
	return a.privateKey.Public().(ed25519.PublicKey)
}

// PublicKeyString returns the key in NEAR's tagged base58 form.
func (a *Account) PublicKeyString() string {
	return keyPrefix + base58.Encode(a.PublicKey())
}
