package constants

import (
	"testing"

	"github.com/maxatome/go-testdeep/td"

	"github.com/decibel-trade/go-decibel/types"
)

func TestDerivedDeploymentAddresses(t *testing.T) {
	d := NetnaConfig.Deployment
	td.Cmp(t, d.PerpEngineGlobal, PerpEngineGlobalAddress(d.Package))
	td.Cmp(t, d.USDC, USDCAddress(d.Package))
	td.Cmp(t, d.PerpEngineGlobal,
		types.MustParseAddress("0x90033945bd28f73452b357683caf16604f7b721ca1213d772f28fc0e8f677529"))

	// mainnet USDC predates derivation and is pinned
	td.CmpNot(t, MainnetConfig.Deployment.USDC, USDCAddress(MainnetConfig.Deployment.Package))
}

func TestFromEnv(t *testing.T) {
	t.Setenv("DECIBEL_NETWORK", "netna")
	t.Setenv("DECIBEL_FULLNODE_URL", "http://localhost:9999/v1")
	t.Setenv("DECIBEL_GAS_STATION_API_KEY", "gs-key")
	t.Setenv("DECIBEL_TRADING_HTTP_URL", "")
	t.Setenv("DECIBEL_TRADING_WS_URL", "")
	t.Setenv("DECIBEL_GAS_STATION_URL", "")

	cfg, err := FromEnv()
	td.CmpNoError(t, err)
	td.Cmp(t, cfg.ChainID, uint8(CHAIN_ID_NETNA))
	td.Cmp(t, cfg.FullnodeURL, "http://localhost:9999/v1")
	td.Cmp(t, cfg.GasStationAPIKey, "gs-key")
	// untouched fields keep the preset values
	td.Cmp(t, cfg.TradingWSURL, NetnaConfig.TradingWSURL)
}

func TestFromEnvDefaultsToTestnet(t *testing.T) {
	t.Setenv("DECIBEL_NETWORK", "")
	cfg, err := FromEnv()
	td.CmpNoError(t, err)
	td.Cmp(t, cfg.Network, NetworkTestnet)
}

func TestFromEnvUnknownNetwork(t *testing.T) {
	t.Setenv("DECIBEL_NETWORK", "devnet9000")
	_, err := FromEnv()
	td.CmpError(t, err)
}
