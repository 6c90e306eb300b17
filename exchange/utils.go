package exchange

import (
	"github.com/decibel-trade/go-decibel/internal/utils"
)

// CollateralDecimals is the precision of the collateral assets.
const CollateralDecimals = 6

// PriceSigFigs is the maximum significant figures a price may carry.
const PriceSigFigs = 5

// RoundToTickSize snaps price down to a multiple of the market's tick size.
// Both values are in chain units.
func RoundToTickSize(price, tickSize uint64) uint64 {
	if tickSize == 0 {
		return price
	}
	return price - price%tickSize
}

// RoundToValidPrice limits price to the exchange's significant-figure rule
// and snaps it to the tick grid.
func RoundToValidPrice(price float64, tickSize uint64) (uint64, error) {
	rounded := utils.RoundToSigfig(price, PriceSigFigs)
	units, err := utils.FloatToUnits(rounded, CollateralDecimals)
	if err != nil {
		return 0, err
	}
	return RoundToTickSize(units, tickSize), nil
}

// RoundToValidOrderSize snaps size down to a multiple of the market's lot
// size.
func RoundToValidOrderSize(size float64, sizeDecimals int, lotSize uint64) (uint64, error) {
	units, err := utils.FloatToUnits(size, sizeDecimals)
	if err != nil {
		return 0, err
	}
	if lotSize != 0 {
		units -= units % lotSize
	}
	return units, nil
}

// AmountToChainUnits converts a human collateral amount to chain units.
func AmountToChainUnits(amount float64) (uint64, error) {
	return utils.FloatToUnits(amount, CollateralDecimals)
}

// ChainUnitsToAmount converts collateral chain units back to a float.
func ChainUnitsToAmount(units uint64) float64 {
	return utils.UnitsToFloat(units, CollateralDecimals)
}
