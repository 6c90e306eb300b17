package txn

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// GenerateReplayNonce draws a random 64-bit replay nonce whose two 32-bit
// halves are both nonzero, which the mempool requires of orderless
// transactions. A zero half is redrawn once; a second zero is reported as an
// entropy failure rather than retried forever.
func GenerateReplayNonce() (uint64, error) {
	hi, err := nonzeroU32()
	if err != nil {
		return 0, err
	}
	lo, err := nonzeroU32()
	if err != nil {
		return 0, err
	}
	return uint64(hi)<<32 | uint64(lo), nil
}

func nonzeroU32() (uint32, error) {
	for attempt := 0; attempt < 2; attempt++ {
		var buf [4]byte
		if _, err := rand.Read(buf[:]); err != nil {
			return 0, fmt.Errorf("txn: reading randomness: %w", err)
		}
		if v := binary.LittleEndian.Uint32(buf[:]); v != 0 {
			return v, nil
		}
	}
	return 0, fmt.Errorf("txn: random source produced zero twice while drawing a replay nonce")
}
