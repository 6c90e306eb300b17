// Package types holds the primitive on-chain types shared across the SDK:
// account addresses and the JSON big-integer wire encoding used by the
// trading API.
package types

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"golang.org/x/crypto/sha3"
)

// AddressLength is the byte length of an on-chain account address.
const AddressLength = 32

// Address is a 32-byte account address.
type Address [AddressLength]byte

// ZeroAddress is the all-zero address, used as the fee-payer placeholder in
// envelopes built for fee-payer delegation.
var ZeroAddress = Address{}

// Named-object derivation scheme byte, appended after creator||seed.
const namedObjectScheme = 0xFE

// Auth-key scheme byte for single Ed25519 keys.
const ed25519Scheme = 0x00

// ParseAddress decodes a hex address. Short forms ("0xA") are accepted and
// left-padded to 32 bytes.
func ParseAddress(s string) (Address, error) {
	var a Address

	hex := strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if hex == "" || len(hex) > 2*AddressLength {
		return a, fmt.Errorf("invalid address %q", s)
	}
	if len(hex)%2 != 0 {
		hex = "0" + hex
	}

	b, err := hexutil.Decode("0x" + hex)
	if err != nil {
		return a, fmt.Errorf("invalid address %q: %w", s, err)
	}

	copy(a[AddressLength-len(b):], b)
	return a, nil
}

// MustParseAddress is ParseAddress for static addresses; it panics on error.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Address) String() string {
	return hexutil.Encode(a[:])
}

// Bytes returns the raw 32-byte form.
func (a Address) Bytes() []byte {
	return a[:]
}

// IsZero reports whether the address is the all-zero placeholder.
func (a Address) IsZero() bool {
	return a == ZeroAddress
}

// MarshalJSON encodes the address as a 0x-prefixed hex string.
func (a Address) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON decodes a 0x-prefixed hex string, short forms included.
func (a *Address) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// NamedObjectAddress derives the address of an object created under creator
// with the given seed: sha3-256(creator || seed || 0xFE).
func NamedObjectAddress(creator Address, seed []byte) Address {
	h := sha3.New256()
	h.Write(creator[:])
	h.Write(seed)
	h.Write([]byte{namedObjectScheme})

	var a Address
	copy(a[:], h.Sum(nil))
	return a
}

// AuthKeyAddress derives the account address of a single Ed25519 public key:
// sha3-256(pubkey || 0x00).
func AuthKeyAddress(pubkey []byte) Address {
	h := sha3.New256()
	h.Write(pubkey)
	h.Write([]byte{ed25519Scheme})

	var a Address
	copy(a[:], h.Sum(nil))
	return a
}
