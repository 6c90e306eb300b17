package exchange

import (
	"time"

	"github.com/samber/mo"

	"github.com/decibel-trade/go-decibel/abi"
	"github.com/decibel-trade/go-decibel/feepay"
	"github.com/decibel-trade/go-decibel/gas"
	"github.com/decibel-trade/go-decibel/node"
)

/*//////////////////////////////////////////////////////////////
                             CLIENT
//////////////////////////////////////////////////////////////*/

// Option configures an Exchange at construction time.
type Option func(e *Exchange, nodeAPIKey *string, timeout *time.Duration)

// WithSkipSimulate disables pre-submission simulation for every call.
// Transactions then go out with default gas limits.
func WithSkipSimulate() Option {
	return func(e *Exchange, _ *string, _ *time.Duration) {
		e.skipSimulate = true
	}
}

// WithNoFeePayer submits transactions directly to the node with the sender
// paying gas, even when a relay is configured.
func WithNoFeePayer() Option {
	return func(e *Exchange, _ *string, _ *time.Duration) {
		e.useFeePayer = false
	}
}

// WithNodeAPIKey authenticates fullnode requests.
func WithNodeAPIKey(key string) Option {
	return func(_ *Exchange, nodeAPIKey *string, _ *time.Duration) {
		*nodeAPIKey = key
	}
}

// WithTimeout bounds every node and relay request.
func WithTimeout(timeout time.Duration) Option {
	return func(_ *Exchange, _ *string, t *time.Duration) {
		*t = timeout
	}
}

// WithGasPriceSource shares an externally managed price source. The caller
// keeps ownership; Close will not destroy it.
func WithGasPriceSource(source *gas.PriceSource) Option {
	return func(e *Exchange, _ *string, _ *time.Duration) {
		e.gasSource = source
	}
}

// WithTimeDelta shifts transaction expiry timestamps by the known offset
// between the local clock and the node's.
func WithTimeDelta(delta time.Duration) Option {
	return func(e *Exchange, _ *string, _ *time.Duration) {
		e.timeDeltaMS = delta.Milliseconds()
	}
}

// WithRegistry replaces the embedded ABI registry, for custom deployments.
func WithRegistry(registry *abi.Registry) Option {
	return func(e *Exchange, _ *string, _ *time.Duration) {
		e.registry = registry
	}
}

// WithNodeClient replaces the fullnode client.
func WithNodeClient(client node.ClientInterface) Option {
	return func(e *Exchange, _ *string, _ *time.Duration) {
		e.node = client
	}
}

// WithRelay replaces the fee payer relay.
func WithRelay(relay *feepay.Relay) Option {
	return func(e *Exchange, _ *string, _ *time.Duration) {
		e.relay = relay
	}
}

/*//////////////////////////////////////////////////////////////
                            PER-CALL
//////////////////////////////////////////////////////////////*/

// SendOption tunes a single submission.
type SendOption func(*sendConfig)

type sendConfig struct {
	maxGasAmount mo.Option[uint64]
	gasUnitPrice mo.Option[uint64]
	expirySecs   mo.Option[uint64]
	skipSimulate bool
	noFeePayer   bool
}

// WithMaxGasAmount pins the gas ceiling instead of deriving it from
// simulation.
func WithMaxGasAmount(amount uint64) SendOption {
	return func(cfg *sendConfig) {
		cfg.maxGasAmount = mo.Some(amount)
	}
}

// WithGasUnitPrice pins the gas unit price instead of consulting the price
// source.
func WithGasUnitPrice(price uint64) SendOption {
	return func(cfg *sendConfig) {
		cfg.gasUnitPrice = mo.Some(price)
	}
}

// WithExpirySecs sets how long the transaction stays valid.
func WithExpirySecs(secs uint64) SendOption {
	return func(cfg *sendConfig) {
		cfg.expirySecs = mo.Some(secs)
	}
}

// WithoutSimulation skips simulation for this call only.
func WithoutSimulation() SendOption {
	return func(cfg *sendConfig) {
		cfg.skipSimulate = true
	}
}

// WithoutFeePayer submits this call directly, sender-paid.
func WithoutFeePayer() SendOption {
	return func(cfg *sendConfig) {
		cfg.noFeePayer = true
	}
}
