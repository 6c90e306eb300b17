// Package constants carries the per-network configuration of the Decibel
// deployment: node and trading-API endpoints, gas-station relays, chain ids,
// and the deployed package with its derived object addresses.
package constants

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/decibel-trade/go-decibel/types"
)

// Network names the chain environment a Config points at.
type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkTestnet Network = "testnet"
	NetworkCustom  Network = "custom"
)

// Chain ids with hardcoded deployments.
const (
	CHAIN_ID_MAINNET = 1
	CHAIN_ID_TESTNET = 2
	CHAIN_ID_NETNA   = 208
)

// Deployment is the on-chain footprint of one Decibel release.
type Deployment struct {
	Package          types.Address
	USDC             types.Address
	TestC            types.Address
	PerpEngineGlobal types.Address
}

// Config is everything a client needs to talk to one environment.
type Config struct {
	Network          Network
	FullnodeURL      string
	TradingHTTPURL   string
	TradingWSURL     string
	GasStationURL    string
	GasStationAPIKey string
	Deployment       Deployment
	// ChainID is 0 when unknown (local/docker environments); transaction
	// building requires a nonzero value.
	ChainID uint8
}

func USDCAddress(pkg types.Address) types.Address {
	return types.NamedObjectAddress(pkg, []byte("USDC"))
}

func TestCAddress(pkg types.Address) types.Address {
	return types.NamedObjectAddress(pkg, []byte("TESTC"))
}

func PerpEngineGlobalAddress(pkg types.Address) types.Address {
	return types.NamedObjectAddress(pkg, []byte("GlobalPerpEngine"))
}

func newDeployment(pkg types.Address) Deployment {
	return Deployment{
		Package:          pkg,
		USDC:             USDCAddress(pkg),
		TestC:            TestCAddress(pkg),
		PerpEngineGlobal: PerpEngineGlobalAddress(pkg),
	}
}

var (
	mainnetPackage = types.MustParseAddress("0xe6683d451db246750f180fb78d9b5e0a855dacba64ddf5810dffdaeb221e46bf")
	mainnetUSDC    = types.MustParseAddress("0xbae207659db88bea0cbead6da0ed00aac12edcdda169e591cd41c94180b46f3b")
	netnaPackage   = types.MustParseAddress("0xb8a5788314451ce4d2fbbad32e1bad88d4184b73943b7fe5166eab93cf1a5a95")
	testnetPackage = types.MustParseAddress("0x952535c3049e52f195f26798c2f1340d7dd5100edbe0f464e520a974d16fbe9f")
	localPackage   = netnaPackage
)

// MainnetConfig targets the production deployment. Mainnet predates the
// derived-USDC scheme, so its USDC address is pinned rather than derived.
var MainnetConfig = Config{
	Network:        NetworkMainnet,
	FullnodeURL:    "https://api.mainnet.aptoslabs.com/v1",
	TradingHTTPURL: "https://api.mainnet.aptoslabs.com/decibel",
	TradingWSURL:   "wss://api.mainnet.aptoslabs.com/decibel/ws",
	GasStationURL:  "https://api.mainnet.aptoslabs.com/gs/v1",
	Deployment: Deployment{
		Package:          mainnetPackage,
		USDC:             mainnetUSDC,
		TestC:            TestCAddress(mainnetPackage),
		PerpEngineGlobal: PerpEngineGlobalAddress(mainnetPackage),
	},
	ChainID: CHAIN_ID_MAINNET,
}

// NetnaConfig targets the netna staging chain.
var NetnaConfig = Config{
	Network:        NetworkCustom,
	FullnodeURL:    "https://api.netna.staging.aptoslabs.com/v1",
	TradingHTTPURL: "https://api.netna.staging.aptoslabs.com/decibel",
	TradingWSURL:   "wss://api.netna.staging.aptoslabs.com/decibel/ws",
	GasStationURL:  "https://api.netna.staging.aptoslabs.com/gs/v1",
	Deployment:     newDeployment(netnaPackage),
	ChainID:        CHAIN_ID_NETNA,
}

// TestnetConfig targets the public testnet.
var TestnetConfig = Config{
	Network:        NetworkTestnet,
	FullnodeURL:    "https://api.testnet.aptoslabs.com/v1",
	TradingHTTPURL: "https://api.testnet.aptoslabs.com/decibel",
	TradingWSURL:   "wss://api.testnet.aptoslabs.com/decibel/ws",
	GasStationURL:  "https://api.testnet.aptoslabs.com/gs/v1",
	Deployment:     newDeployment(testnetPackage),
	ChainID:        CHAIN_ID_TESTNET,
}

// LocalConfig targets a localnet started by the dev tooling.
var LocalConfig = Config{
	Network:        NetworkCustom,
	FullnodeURL:    "http://localhost:8080/v1",
	TradingHTTPURL: "http://localhost:8084",
	TradingWSURL:   "ws://localhost:8083",
	GasStationURL:  "http://localhost:8085",
	Deployment:     newDeployment(localPackage),
}

// DockerConfig targets the docker-compose test stack.
var DockerConfig = Config{
	Network:        NetworkCustom,
	FullnodeURL:    "http://tradenet:8080/v1",
	TradingHTTPURL: "http://trading-api-http:8080",
	TradingWSURL:   "ws://trading-api-ws:8080",
	GasStationURL:  "http://fee-payer:8080",
	Deployment:     newDeployment(localPackage),
}

// NamedConfigs maps environment names to their presets.
var NamedConfigs = map[string]Config{
	"mainnet": MainnetConfig,
	"netna":   NetnaConfig,
	"testnet": TestnetConfig,
	"local":   LocalConfig,
	"docker":  DockerConfig,
}

// FromEnv loads a named preset from DECIBEL_NETWORK (default testnet) and
// applies DECIBEL_* overrides. A .env file in the working directory is read
// first when present.
func FromEnv() (Config, error) {
	_ = godotenv.Load()

	name := os.Getenv("DECIBEL_NETWORK")
	if name == "" {
		name = "testnet"
	}

	cfg, ok := NamedConfigs[name]
	if !ok {
		return Config{}, fmt.Errorf("unknown network %q", name)
	}

	if v := os.Getenv("DECIBEL_FULLNODE_URL"); v != "" {
		cfg.FullnodeURL = v
	}
	if v := os.Getenv("DECIBEL_TRADING_HTTP_URL"); v != "" {
		cfg.TradingHTTPURL = v
	}
	if v := os.Getenv("DECIBEL_TRADING_WS_URL"); v != "" {
		cfg.TradingWSURL = v
	}
	if v := os.Getenv("DECIBEL_GAS_STATION_URL"); v != "" {
		cfg.GasStationURL = v
	}
	if v := os.Getenv("DECIBEL_GAS_STATION_API_KEY"); v != "" {
		cfg.GasStationAPIKey = v
	}

	return cfg, nil
}
