// Package abi holds the on-chain entry function signatures the transaction
// builder needs to BCS-encode arguments. Signatures for the known deployments
// are embedded at build time so no network round-trip is required; a registry
// built from fresher data can be injected for custom deployments.
package abi

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/decibel-trade/go-decibel/constants"
	"github.com/decibel-trade/go-decibel/types"
)

//go:embed json/netna.json
var netnaData []byte

//go:embed json/testnet.json
var testnetData []byte

// Function describes one Move function as exposed by the node's module ABI.
type Function struct {
	Name              string            `json:"name"`
	Visibility        string            `json:"visibility"`
	IsEntry           bool              `json:"is_entry"`
	IsView            bool              `json:"is_view"`
	GenericTypeParams []json.RawMessage `json:"generic_type_params"`
	Params            []string          `json:"params"`
	Return            []string          `json:"return"`
}

// Data is the snapshot format of an embedded ABI file: every entry function
// of one package deployment, keyed by fully qualified function id.
type Data struct {
	PackageAddress string              `json:"packageAddress"`
	Network        string              `json:"network"`
	ABIs           map[string]Function `json:"abis"`
}

// Registry resolves function ids to their signatures across deployments.
type Registry struct {
	byChain map[uint8]map[string]Function
	// fallback serves chain ids that have no dedicated snapshot.
	fallback map[string]Function
}

// NewRegistry loads the embedded snapshots. The netna snapshot doubles as the
// fallback for unknown chain ids since custom deployments are forks of it.
func NewRegistry() (*Registry, error) {
	netna, err := parseData(netnaData)
	if err != nil {
		return nil, fmt.Errorf("abi: netna snapshot: %w", err)
	}
	testnet, err := parseData(testnetData)
	if err != nil {
		return nil, fmt.Errorf("abi: testnet snapshot: %w", err)
	}
	return &Registry{
		byChain: map[uint8]map[string]Function{
			constants.CHAIN_ID_NETNA:   netna,
			constants.CHAIN_ID_TESTNET: testnet,
		},
		fallback: netna,
	}, nil
}

// NewRegistryFromData builds a registry covering a single chain from raw
// snapshot bytes. Intended for tests and custom deployments.
func NewRegistryFromData(chainID uint8, raw []byte) (*Registry, error) {
	abis, err := parseData(raw)
	if err != nil {
		return nil, fmt.Errorf("abi: snapshot for chain %d: %w", chainID, err)
	}
	return &Registry{
		byChain:  map[uint8]map[string]Function{chainID: abis},
		fallback: abis,
	}, nil
}

func parseData(raw []byte) (map[string]Function, error) {
	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	if len(data.ABIs) == 0 {
		return nil, fmt.Errorf("snapshot contains no function signatures")
	}
	abis := make(map[string]Function, len(data.ABIs))
	for id, fn := range data.ABIs {
		norm, err := normalizeFunctionID(id)
		if err != nil {
			return nil, fmt.Errorf("bad function id %q: %w", id, err)
		}
		abis[norm] = fn
	}
	return abis, nil
}

// Function returns the signature for a fully qualified id such as
// "0xb8a5...::dex_accounts_entry::place_order_to_subaccount" on the given
// chain. The address part is normalized so short-form addresses match.
func (r *Registry) Function(chainID uint8, id string) (Function, error) {
	norm, err := normalizeFunctionID(id)
	if err != nil {
		return Function{}, fmt.Errorf("abi: %w", err)
	}
	abis, ok := r.byChain[chainID]
	if !ok {
		abis = r.fallback
	}
	fn, ok := abis[norm]
	if !ok {
		return Function{}, fmt.Errorf("abi: no signature for %s on chain %d", id, chainID)
	}
	return fn, nil
}

func normalizeFunctionID(id string) (string, error) {
	parts := strings.Split(id, "::")
	if len(parts) != 3 {
		return "", fmt.Errorf("function id %q is not of the form address::module::name", id)
	}
	addr, err := types.ParseAddress(parts[0])
	if err != nil {
		return "", fmt.Errorf("function id %q: %w", id, err)
	}
	return addr.String() + "::" + parts[1] + "::" + parts[2], nil
}
