package exchange

import (
	"testing"

	"github.com/maxatome/go-testdeep/td"
)

func TestRoundToTickSize(t *testing.T) {
	td.Cmp(t, RoundToTickSize(1_000_123, 1_000), uint64(1_000_000))
	td.Cmp(t, RoundToTickSize(1_000_000, 1_000), uint64(1_000_000))
	td.Cmp(t, RoundToTickSize(999, 1_000), uint64(0))
	// zero tick means no grid
	td.Cmp(t, RoundToTickSize(1_000_123, 0), uint64(1_000_123))
}

func TestRoundToValidPrice(t *testing.T) {
	// 50123.456 carries 8 significant figures; 5 survive
	got, err := RoundToValidPrice(50123.456, 1_000)
	td.CmpNoError(t, err)
	td.Cmp(t, got, uint64(50_123_000_000))

	// small prices keep their precision
	got, err = RoundToValidPrice(0.12345, 1)
	td.CmpNoError(t, err)
	td.Cmp(t, got, uint64(123_450))

	_, err = RoundToValidPrice(-1, 1)
	td.CmpError(t, err)
}

func TestRoundToValidOrderSize(t *testing.T) {
	got, err := RoundToValidOrderSize(1.234567, 6, 100)
	td.CmpNoError(t, err)
	td.Cmp(t, got, uint64(1_234_500))

	got, err = RoundToValidOrderSize(2, 6, 0)
	td.CmpNoError(t, err)
	td.Cmp(t, got, uint64(2_000_000))

	// more precision than the market carries is an error, not a silent
	// rounding
	_, err = RoundToValidOrderSize(1.23456789, 6, 100)
	td.CmpError(t, err)
}

func TestCollateralConversions(t *testing.T) {
	units, err := AmountToChainUnits(12.5)
	td.CmpNoError(t, err)
	td.Cmp(t, units, uint64(12_500_000))

	td.Cmp(t, ChainUnitsToAmount(12_500_000), 12.5)
}
