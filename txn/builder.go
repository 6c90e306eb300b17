// Package txn builds, signs and serializes orderless chain transactions.
// Transactions carry a sentinel sequence number and a random replay nonce
// instead of an account sequence number, so they can be built without reading
// on-chain account state.
package txn

import (
	"fmt"
	"strings"
	"time"

	"github.com/decibel-trade/go-decibel/bcs"
	"github.com/decibel-trade/go-decibel/types"
)

const (
	// DeadbeefSequenceNumber marks a transaction as orderless. The node
	// ignores it in favor of the replay nonce.
	DeadbeefSequenceNumber uint64 = 0xDEADBEEF

	// DefaultMaxGasAmount is the ceiling used when no simulation ran.
	DefaultMaxGasAmount uint64 = 200_000
	// MaxGasUnitsLimit caps the ceiling derived from simulation results.
	MaxGasUnitsLimit uint64 = 2_000_000

	// DefaultExpirySecs is how long a transaction stays valid when the
	// caller does not choose an expiry.
	DefaultExpirySecs uint64 = 20
)

// Payload envelope variants. The exact tag sequence is part of the wire
// format and is checked byte for byte by the node.
const (
	payloadVariantOrderless  = 4 // TransactionPayload::Payload
	innerPayloadVariantV1    = 0 // TransactionInnerPayload::V1
	executableVariantEntryFn = 1 // TransactionExecutable::EntryFunction
	extraConfigVariantV1     = 0 // TransactionExtraConfig::V1
)

// EntryFunction is a fully resolved entry function call: target, type
// arguments and per-argument BCS encodings.
type EntryFunction struct {
	Address  types.Address
	Module   string
	Function string
	TypeArgs []TypeTag
	Args     [][]byte
}

// NewEntryFunction parses "address::module::function" and the type argument
// strings into an EntryFunction. Args must already be BCS-encoded, one
// element per argument.
func NewEntryFunction(functionID string, typeArgStrs []string, args [][]byte) (EntryFunction, error) {
	parts := strings.Split(functionID, "::")
	if len(parts) != 3 {
		return EntryFunction{}, fmt.Errorf("txn: function id %q is not of the form address::module::function", functionID)
	}
	addr, err := types.ParseAddress(parts[0])
	if err != nil {
		return EntryFunction{}, fmt.Errorf("txn: function id %q: %w", functionID, err)
	}
	typeArgs := make([]TypeTag, len(typeArgStrs))
	for i, str := range typeArgStrs {
		tag, err := ParseTypeTag(str)
		if err != nil {
			return EntryFunction{}, fmt.Errorf("txn: type argument %d: %w", i, err)
		}
		typeArgs[i] = tag
	}
	return EntryFunction{
		Address:  addr,
		Module:   parts[1],
		Function: parts[2],
		TypeArgs: typeArgs,
		Args:     args,
	}, nil
}

func (e EntryFunction) serialize(s *bcs.Serializer) error {
	s.FixedBytes(e.Address.Bytes())
	s.Str(e.Module)
	s.Str(e.Function)
	s.Uleb128(uint64(len(e.TypeArgs)))
	for _, tag := range e.TypeArgs {
		if err := tag.serialize(s); err != nil {
			return err
		}
	}
	s.Uleb128(uint64(len(e.Args)))
	for _, arg := range e.Args {
		s.Bytes(arg)
	}
	return nil
}

// OrderlessPayload wraps an entry function in the orderless payload envelope
// together with its replay nonce.
type OrderlessPayload struct {
	Entry       EntryFunction
	ReplayNonce uint64
}

func (p OrderlessPayload) serialize(s *bcs.Serializer) error {
	s.Uleb128(payloadVariantOrderless)
	s.Uleb128(innerPayloadVariantV1)
	s.Uleb128(executableVariantEntryFn)
	if err := p.Entry.serialize(s); err != nil {
		return err
	}
	s.Uleb128(extraConfigVariantV1)
	s.U8(0) // multisig address absent
	s.U8(1) // replay nonce present
	s.U64(p.ReplayNonce)
	return nil
}

// RawTransaction is the unsigned transaction body that gets hashed and
// signed.
type RawTransaction struct {
	Sender                  types.Address
	SequenceNumber          uint64
	Payload                 OrderlessPayload
	MaxGasAmount            uint64
	GasUnitPrice            uint64
	ExpirationTimestampSecs uint64
	ChainID                 uint8
}

func (r RawTransaction) serialize(s *bcs.Serializer) error {
	s.FixedBytes(r.Sender.Bytes())
	s.U64(r.SequenceNumber)
	if err := r.Payload.serialize(s); err != nil {
		return err
	}
	s.U64(r.MaxGasAmount)
	s.U64(r.GasUnitPrice)
	s.U64(r.ExpirationTimestampSecs)
	s.U8(r.ChainID)
	return nil
}

// Serialize returns the BCS encoding of the raw transaction body.
func (r RawTransaction) Serialize() ([]byte, error) {
	s := &bcs.Serializer{}
	if err := r.serialize(s); err != nil {
		return nil, err
	}
	return s.Output(), nil
}

// SimpleTransaction pairs a raw transaction with an optional fee payer. A
// nil FeePayerAddress means the sender pays gas.
type SimpleTransaction struct {
	Raw             RawTransaction
	FeePayerAddress *types.Address
}

// EntryFunctionData names an entry function call by id with loosely typed
// arguments, before ABI encoding.
type EntryFunctionData struct {
	Function string
	Args     []any
	TypeArgs []string
}

// BuildParams are the gas and lifetime settings for one build.
type BuildParams struct {
	MaxGasAmount    uint64
	GasUnitPrice    uint64
	ExpireTimestamp uint64
	ChainID         uint8
	ReplayNonce     uint64
}

// Build assembles an orderless SimpleTransaction from an already-encoded
// entry function. Gas defaults are applied when left zero; the replay nonce
// is generated when the caller did not pin one.
func Build(sender types.Address, entry EntryFunction, params BuildParams) (SimpleTransaction, error) {
	if params.MaxGasAmount == 0 {
		params.MaxGasAmount = DefaultMaxGasAmount
	}
	if params.ExpireTimestamp == 0 {
		params.ExpireTimestamp = GenerateExpireTimestamp(0, 0)
	}
	if params.ReplayNonce == 0 {
		nonce, err := GenerateReplayNonce()
		if err != nil {
			return SimpleTransaction{}, err
		}
		params.ReplayNonce = nonce
	}
	return SimpleTransaction{
		Raw: RawTransaction{
			Sender:                  sender,
			SequenceNumber:          DeadbeefSequenceNumber,
			Payload:                 OrderlessPayload{Entry: entry, ReplayNonce: params.ReplayNonce},
			MaxGasAmount:            params.MaxGasAmount,
			GasUnitPrice:            params.GasUnitPrice,
			ExpirationTimestampSecs: params.ExpireTimestamp,
			ChainID:                 params.ChainID,
		},
	}, nil
}

// GenerateExpireTimestamp returns a unix-seconds expiry. timeDeltaMS shifts
// local time toward the node's clock when they disagree; expirySecs of zero
// uses DefaultExpirySecs.
func GenerateExpireTimestamp(timeDeltaMS int64, expirySecs uint64) uint64 {
	if expirySecs == 0 {
		expirySecs = DefaultExpirySecs
	}
	nowMS := time.Now().UnixMilli() + timeDeltaMS
	return uint64(nowMS/1000) + expirySecs
}
