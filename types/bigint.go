package types

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// BigInt is an integer that may arrive on the wire either as a plain JSON
// number/string or wrapped as {"$bigint": "<decimal string>"} when it exceeds
// safe JSON integer precision.
type BigInt struct {
	big.Int
}

// NewBigInt builds a BigInt from a uint64, mostly for tests.
func NewBigInt(v uint64) BigInt {
	var b BigInt
	b.SetUint64(v)
	return b
}

type bigintWrapper struct {
	Value *string `json:"$bigint"`
}

// UnmarshalJSON accepts a number, a decimal string, or the tagged
// {"$bigint": "..."} wrapper.
func (b *BigInt) UnmarshalJSON(data []byte) error {
	var wrapper bigintWrapper
	if err := json.Unmarshal(data, &wrapper); err == nil && wrapper.Value != nil {
		return b.setDecimal(*wrapper.Value)
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return b.setDecimal(s)
	}

	return b.setDecimal(string(data))
}

// MarshalJSON emits the plain decimal form.
func (b BigInt) MarshalJSON() ([]byte, error) {
	return []byte(b.Int.String()), nil
}

func (b *BigInt) setDecimal(s string) error {
	if _, ok := b.Int.SetString(s, 10); !ok {
		return fmt.Errorf("invalid bigint value %q", s)
	}
	return nil
}
