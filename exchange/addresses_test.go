package exchange

import (
	"testing"

	"github.com/maxatome/go-testdeep/td"

	"github.com/decibel-trade/go-decibel/constants"
	"github.com/decibel-trade/go-decibel/types"
)

// Vectors derived independently with sha3-256 over the named-object
// preimage creator || seed || 0xFE.

func TestMarketAddress(t *testing.T) {
	got := MarketAddress(constants.NetnaConfig.Deployment, "BTC/USD")
	td.Cmp(t, got, types.MustParseAddress("0x6a39745aaa7af8258060566f6501d84581de815128694f8ee013cae28e3357e7"))
}

func TestPrimarySubaccountAddress(t *testing.T) {
	owner := types.MustParseAddress("0x1")
	got := PrimarySubaccountAddress(constants.NetnaConfig.Deployment, owner)
	td.Cmp(t, got, types.MustParseAddress("0xae2324dfc53d1a40f797826860e1bcd8aa574c710274cc554d4aa5300820f3a9"))
}

func TestVaultShareAddress(t *testing.T) {
	vault := types.MustParseAddress("0x2")
	got := VaultShareAddress(vault)
	td.Cmp(t, got, types.MustParseAddress("0xf4b0b6a5e6229d883c3a60b178eace2efe720846645f2469769ace6557ed6eed"))
}

func TestDeploymentDerivedAddresses(t *testing.T) {
	deployment := constants.NetnaConfig.Deployment
	td.Cmp(t, deployment.PerpEngineGlobal,
		types.MustParseAddress("0x90033945bd28f73452b357683caf16604f7b721ca1213d772f28fc0e8f677529"))
	td.Cmp(t, deployment.USDC,
		types.MustParseAddress("0x6555ba01030b366f91c999ac943325096495b339d81e216a2af45e1023609f02"))
}

func TestExchangeAddressHelpers(t *testing.T) {
	e := testExchange(t, &fakeNode{})
	td.Cmp(t, e.MarketAddress("BTC/USD"), MarketAddress(e.Config().Deployment, "BTC/USD"))
	td.Cmp(t, e.PrimarySubaccountAddress(), PrimarySubaccountAddress(e.Config().Deployment, e.Address()))
}
