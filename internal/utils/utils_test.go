package utils

import (
	"math"
	"testing"

	"github.com/maxatome/go-testdeep/td"
)

func TestFloatToUnits(t *testing.T) {
	cases := []struct {
		x        float64
		decimals int
		want     uint64
	}{
		{0, 6, 0},
		{1, 6, 1_000_000},
		{12.5, 6, 12_500_000},
		{0.000001, 6, 1},
		{1.2345, 4, 12_345},
		{42, 0, 42},
	}
	for _, tc := range cases {
		got, err := FloatToUnits(tc.x, tc.decimals)
		td.CmpNoError(t, err, "FloatToUnits(%v, %d)", tc.x, tc.decimals)
		td.Cmp(t, got, tc.want, "FloatToUnits(%v, %d)", tc.x, tc.decimals)
	}
}

func TestFloatToUnitsRejectsRounding(t *testing.T) {
	// 1.2345678 cannot be represented with 6 decimals
	_, err := FloatToUnits(1.2345678, 6)
	td.CmpError(t, err)
}

func TestFloatToUnitsRejectsBadInput(t *testing.T) {
	for _, x := range []float64{-1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := FloatToUnits(x, 6)
		td.CmpError(t, err, "FloatToUnits(%v, 6)", x)
	}
}

func TestUnitsToFloat(t *testing.T) {
	td.Cmp(t, UnitsToFloat(12_500_000, 6), 12.5)
	td.Cmp(t, UnitsToFloat(0, 6), 0.0)
	td.Cmp(t, UnitsToFloat(42, 0), 42.0)
}

func TestRoundTrip(t *testing.T) {
	for _, x := range []float64{0.25, 1.5, 1000.125} {
		units, err := FloatToUnits(x, 6)
		td.CmpNoError(t, err)
		td.Cmp(t, UnitsToFloat(units, 6), x)
	}
}

func TestRoundToSigfig(t *testing.T) {
	cases := []struct {
		x    float64
		n    int
		want float64
	}{
		{0, 5, 0},
		{50123.456, 5, 50123},
		{0.12345678, 5, 0.12346},
		{123456, 3, 123000},
		{-50123.456, 5, -50123},
		{9.99999, 3, 10},
	}
	for _, tc := range cases {
		td.Cmp(t, RoundToSigfig(tc.x, tc.n), tc.want, "RoundToSigfig(%v, %d)", tc.x, tc.n)
	}
}
