// Package exchange provides the trading client: it turns high-level actions
// like placing an order into built, simulated, signed and submitted chain
// transactions.
package exchange

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/mo"

	"github.com/decibel-trade/go-decibel/abi"
	"github.com/decibel-trade/go-decibel/constants"
	"github.com/decibel-trade/go-decibel/feepay"
	"github.com/decibel-trade/go-decibel/gas"
	"github.com/decibel-trade/go-decibel/node"
	"github.com/decibel-trade/go-decibel/txn"
	"github.com/decibel-trade/go-decibel/types"
)

// Exchange provides access to trading operations. One instance serves one
// account on one network.
type Exchange struct {
	cfg      constants.Config
	account  *txn.Account
	node     node.ClientInterface
	relay    *feepay.Relay
	registry *abi.Registry

	gasSource    *gas.PriceSource
	ownGasSource bool

	skipSimulate bool
	useFeePayer  bool
	timeDeltaMS  int64
}

// New creates an Exchange for the given network config and signing account.
// By default transactions are simulated before submission and sponsored
// through the network's fee payer relay when one is configured.
func New(cfg constants.Config, account *txn.Account, opts ...Option) (*Exchange, error) {
	if account == nil {
		return nil, fmt.Errorf("exchange: signing account is required")
	}
	if cfg.FullnodeURL == "" {
		return nil, fmt.Errorf("exchange: fullnode URL is required")
	}
	if cfg.ChainID == 0 {
		return nil, fmt.Errorf("exchange: chain id is required to build transactions")
	}

	e := &Exchange{
		cfg:         cfg,
		account:     account,
		useFeePayer: true,
	}
	var nodeAPIKey string
	var timeout time.Duration
	for _, opt := range opts {
		opt(e, &nodeAPIKey, &timeout)
	}

	if e.node == nil {
		e.node = node.New(node.Config{
			BaseUrl: cfg.FullnodeURL,
			APIKey:  nodeAPIKey,
			Timeout: timeout,
		})
	}
	if e.registry == nil {
		registry, err := abi.NewRegistry()
		if err != nil {
			return nil, err
		}
		e.registry = registry
	}
	if e.useFeePayer && e.relay == nil {
		relay, err := feepay.New(feepay.Config{
			URL:     cfg.GasStationURL,
			APIKey:  cfg.GasStationAPIKey,
			Network: cfg.Network,
			ChainID: cfg.ChainID,
			Timeout: timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("exchange: fee payer enabled but %w", err)
		}
		e.relay = relay
	}
	if e.gasSource == nil {
		e.gasSource = gas.NewPriceSource(e.node)
		e.ownGasSource = true
	}
	return e, nil
}

// Address is the signing account's address.
func (e *Exchange) Address() types.Address { return e.account.Address() }

// Config returns the network configuration the client was built with.
func (e *Exchange) Config() constants.Config { return e.cfg }

// Close releases background resources. Gas price sources passed in by the
// caller are left running.
func (e *Exchange) Close() {
	if e.ownGasSource && e.gasSource != nil {
		e.gasSource.Destroy()
	}
}

// BuildTransaction encodes an entry function call against its on-chain ABI
// and wraps it in an unsigned orderless transaction. The fee payer slot is
// filled with the zero address; the relay substitutes the real payer.
func (e *Exchange) BuildTransaction(data txn.EntryFunctionData, cfg sendConfig) (txn.SimpleTransaction, error) {
	fn, err := e.registry.Function(e.cfg.ChainID, data.Function)
	if err != nil {
		return txn.SimpleTransaction{}, err
	}
	args, err := txn.EncodeEntryArguments(fn.Params, data.Args)
	if err != nil {
		return txn.SimpleTransaction{}, fmt.Errorf("exchange: encoding %s: %w", data.Function, err)
	}
	entry, err := txn.NewEntryFunction(data.Function, data.TypeArgs, args)
	if err != nil {
		return txn.SimpleTransaction{}, err
	}

	built, err := txn.Build(e.account.Address(), entry, txn.BuildParams{
		MaxGasAmount:    cfg.maxGasAmount.OrElse(0),
		GasUnitPrice:    cfg.gasUnitPrice.OrElse(0),
		ExpireTimestamp: txn.GenerateExpireTimestamp(e.timeDeltaMS, cfg.expirySecs.OrElse(0)),
		ChainID:         e.cfg.ChainID,
	})
	if err != nil {
		return txn.SimpleTransaction{}, err
	}
	if e.feePayerFor(cfg) {
		built.FeePayerAddress = &types.ZeroAddress
	}
	return built, nil
}

func (e *Exchange) feePayerFor(cfg sendConfig) bool {
	return e.useFeePayer && e.relay != nil && !cfg.noFeePayer
}

// SendEntryFunction runs the full pipeline for one entry function call:
// encode, build, simulate, re-price, sign, submit, and wait for commit. A
// committed-but-aborted transaction is returned with a *node.FailedError.
func (e *Exchange) SendEntryFunction(ctx context.Context, data txn.EntryFunctionData, opts ...SendOption) (*node.Transaction, error) {
	hash, err := e.SubmitEntryFunction(ctx, data, opts...)
	if err != nil {
		return nil, err
	}
	return e.node.WaitForTransaction(ctx, hash)
}

// SubmitEntryFunction is SendEntryFunction without the wait: it returns as
// soon as the transaction is accepted into the mempool.
func (e *Exchange) SubmitEntryFunction(ctx context.Context, data txn.EntryFunctionData, opts ...SendOption) (string, error) {
	cfg := sendConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	if _, ok := cfg.gasUnitPrice.Get(); !ok {
		price, err := e.resolveGasPrice(ctx)
		if err != nil {
			return "", err
		}
		cfg.gasUnitPrice = mo.Some(price)
	}

	built, err := e.BuildTransaction(data, cfg)
	if err != nil {
		return "", err
	}

	if !e.skipSimulate && !cfg.skipSimulate {
		built, err = e.simulateAndReprice(ctx, built)
		if err != nil {
			return "", err
		}
	}

	auth, err := e.account.SignTransaction(built)
	if err != nil {
		return "", err
	}

	if built.FeePayerAddress != nil {
		pending, err := e.relay.Submit(ctx, built, auth)
		if err != nil {
			return "", err
		}
		return pending.Hash, nil
	}

	signed, err := txn.SerializeSignedTransaction(built.Raw, auth)
	if err != nil {
		return "", err
	}
	return e.node.SubmitTransaction(ctx, signed)
}

// SimulationError is returned when the pre-submit simulation ran but the
// transaction aborted, carrying the aborting vm_status. Order placement
// folds it into a rejected result instead of surfacing it.
type SimulationError struct {
	VMStatus string
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("exchange: simulation failed: %s", e.VMStatus)
}

// simulateAndReprice runs the transaction against current state and rewrites
// its gas fields from the result: ceiling is twice the simulated ceiling,
// clamped to [DefaultMaxGasAmount, MaxGasUnitsLimit]; price is the simulated
// price with a floor of 1.
func (e *Exchange) simulateAndReprice(ctx context.Context, built txn.SimpleTransaction) (txn.SimpleTransaction, error) {
	simTxn, err := txn.SerializeForSimulation(built, e.account.PublicKey())
	if err != nil {
		return txn.SimpleTransaction{}, err
	}
	result, err := e.node.SimulateTransaction(ctx, simTxn)
	if err != nil {
		return txn.SimpleTransaction{}, err
	}
	if !result.Success {
		return txn.SimpleTransaction{}, &SimulationError{VMStatus: result.VMStatus}
	}

	simGas, err := result.MaxGasUnits()
	if err != nil {
		return txn.SimpleTransaction{}, err
	}
	simPrice, err := result.GasUnitPriceOctas()
	if err != nil {
		return txn.SimpleTransaction{}, err
	}

	built.Raw.MaxGasAmount = min(max(2*simGas, txn.DefaultMaxGasAmount), txn.MaxGasUnitsLimit)
	built.Raw.GasUnitPrice = max(simPrice, 1)
	return built, nil
}

// resolveGasPrice serves the cached estimate when there is one and fetches
// through the source otherwise. An unreachable node fails the call; the
// caller can pin a price to trade through an outage.
func (e *Exchange) resolveGasPrice(ctx context.Context) (uint64, error) {
	if info, ok := e.gasSource.CachedPrice().Get(); ok {
		return info.GasEstimate, nil
	}
	info, err := e.gasSource.FetchAndSet(ctx)
	if err != nil {
		return 0, err
	}
	return info.GasEstimate, nil
}
