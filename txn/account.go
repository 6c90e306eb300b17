package txn

import (
	"crypto/ed25519"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/decibel-trade/go-decibel/types"
)

// Account is an ed25519 keypair together with the chain address derived from
// its public key.
type Account struct {
	privateKey ed25519.PrivateKey
	address    types.Address
}

// NewAccount wraps an existing private key.
func NewAccount(privateKey ed25519.PrivateKey) (*Account, error) {
	if len(privateKey) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("txn: private key must be %d bytes, got %d", ed25519.PrivateKeySize, len(privateKey))
	}
	pub := privateKey.Public().(ed25519.PublicKey)
	return &Account{privateKey: privateKey, address: types.AuthKeyAddress(pub)}, nil
}

// AccountFromHex parses a 32-byte hex-encoded private key seed, with or
// without the 0x prefix.
func AccountFromHex(key string) (*Account, error) {
	if len(key) >= 2 && key[:2] != "0x" {
		key = "0x" + key
	}
	seed, err := hexutil.Decode(key)
	if err != nil {
		return nil, fmt.Errorf("txn: decoding private key: %w", err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("txn: private key seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	return NewAccount(ed25519.NewKeyFromSeed(seed))
}

// GenerateAccount creates a fresh keypair from the system's entropy source.
func GenerateAccount() (*Account, error) {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, fmt.Errorf("txn: generating key: %w", err)
	}
	return NewAccount(priv)
}

// Address is the account's chain address.
func (a *Account) Address() types.Address { return a.address }

// PublicKey returns the ed25519 public key.
func (a *Account) PublicKey() ed25519.PublicKey {
	return a.privateKey.Public().(ed25519.PublicKey)
}

// SignTransaction signs the appropriate signing message for the transaction:
// the fee payer flavor when a payer is attached, the plain flavor otherwise.
func (a *Account) SignTransaction(txn SimpleTransaction) (AccountAuthenticator, error) {
	var msg []byte
	var err error
	if txn.FeePayerAddress != nil {
		msg, err = FeePayerSigningMessage(txn.Raw, nil, *txn.FeePayerAddress)
	} else {
		msg, err = SigningMessage(txn.Raw)
	}
	if err != nil {
		return AccountAuthenticator{}, err
	}
	return AccountAuthenticator{
		PublicKey: a.PublicKey(),
		Signature: ed25519.Sign(a.privateKey, msg),
	}, nil
}
