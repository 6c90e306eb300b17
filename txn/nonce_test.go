package txn

import (
	"testing"

	"github.com/maxatome/go-testdeep/td"
)

func TestGenerateReplayNonceHalvesNonzero(t *testing.T) {
	seen := make(map[uint64]bool)
	for i := 0; i < 10_000; i++ {
		nonce, err := GenerateReplayNonce()
		td.CmpNoError(t, err)
		td.CmpNot(t, uint32(nonce>>32), uint32(0))
		td.CmpNot(t, uint32(nonce), uint32(0))
		seen[nonce] = true
	}
	// collisions over 10k draws of 64 bits would point at broken entropy
	td.Cmp(t, len(seen), 10_000)
}
