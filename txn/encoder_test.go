package txn

import (
	"math/big"
	"testing"

	"github.com/maxatome/go-testdeep/td"

	"github.com/decibel-trade/go-decibel/types"
)

func TestEncodeEntryArgumentsSignerFilter(t *testing.T) {
	// leading signers come from the transaction, not the caller
	encoded, err := EncodeEntryArguments([]string{"&signer", "u64"}, []any{uint64(7)})
	td.CmpNoError(t, err)
	td.Cmp(t, encoded, [][]byte{{7, 0, 0, 0, 0, 0, 0, 0}})
}

func TestEncodeEntryArgumentsCountMismatch(t *testing.T) {
	_, err := EncodeEntryArguments([]string{"&signer", "u64", "bool"}, []any{uint64(1)})
	td.CmpErrorIs(t, err, ErrArgumentCount)

	_, err = EncodeEntryArguments([]string{"u64"}, []any{uint64(1), uint64(2)})
	td.CmpErrorIs(t, err, ErrArgumentCount)
}

func TestEncodeEntryArgumentsUnsupportedType(t *testing.T) {
	_, err := EncodeEntryArguments([]string{"0x1::weird::Thing"}, []any{uint64(1)})
	td.CmpErrorIs(t, err, ErrUnsupportedType)
}

func TestEncodePrimitives(t *testing.T) {
	addr := types.MustParseAddress("0x1")

	encoded, err := EncodeEntryArguments(
		[]string{"bool", "u8", "u16", "u32", "u64", "address", "0x1::string::String"},
		[]any{true, uint8(2), uint16(3), uint32(4), uint64(5), addr, "hi"},
	)
	td.CmpNoError(t, err)
	td.Cmp(t, encoded[0], []byte{1})
	td.Cmp(t, encoded[1], []byte{2})
	td.Cmp(t, encoded[2], []byte{3, 0})
	td.Cmp(t, encoded[3], []byte{4, 0, 0, 0})
	td.Cmp(t, encoded[4], []byte{5, 0, 0, 0, 0, 0, 0, 0})
	td.Cmp(t, encoded[5], addr.Bytes())
	td.Cmp(t, encoded[6], []byte{2, 'h', 'i'})
}

func TestEncodeIntCoercion(t *testing.T) {
	encoded, err := EncodeEntryArguments([]string{"u64", "u64"}, []any{int(9), big.NewInt(10)})
	td.CmpNoError(t, err)
	td.Cmp(t, encoded[0][0], byte(9))
	td.Cmp(t, encoded[1][0], byte(10))

	_, err = EncodeEntryArguments([]string{"u64"}, []any{int(-1)})
	td.CmpError(t, err)

	_, err = EncodeEntryArguments([]string{"u8"}, []any{uint64(256)})
	td.CmpError(t, err)
}

func TestEncodeU128(t *testing.T) {
	id, _ := new(big.Int).SetString("340282366920938463463374607431768211455", 10)
	encoded, err := EncodeEntryArguments([]string{"u128"}, []any{id})
	td.CmpNoError(t, err)
	td.Cmp(t, len(encoded[0]), 16)
	td.Cmp(t, encoded[0][0], byte(0xFF))
}

func TestEncodeOption(t *testing.T) {
	price := uint64(100)
	encoded, err := EncodeEntryArguments(
		[]string{"0x1::option::Option<u64>", "0x1::option::Option<u64>"},
		[]any{&price, (*uint64)(nil)},
	)
	td.CmpNoError(t, err)
	td.Cmp(t, encoded[0], []byte{1, 100, 0, 0, 0, 0, 0, 0, 0})
	td.Cmp(t, encoded[1], []byte{0})

	// untyped nil is absent too
	encoded, err = EncodeEntryArguments([]string{"0x1::option::Option<0x1::string::String>"}, []any{nil})
	td.CmpNoError(t, err)
	td.Cmp(t, encoded[0], []byte{0})
}

func TestEncodeVector(t *testing.T) {
	encoded, err := EncodeEntryArguments([]string{"vector<u64>"}, []any{[]uint64{1, 2}})
	td.CmpNoError(t, err)
	td.Cmp(t, encoded[0], []byte{2, 1, 0, 0, 0, 0, 0, 0, 0, 2, 0, 0, 0, 0, 0, 0, 0})

	// vector<u8> takes raw bytes, or hex strings with or without the prefix
	encoded, err = EncodeEntryArguments([]string{"vector<u8>"}, []any{[]byte{0xAA, 0xBB}})
	td.CmpNoError(t, err)
	td.Cmp(t, encoded[0], []byte{2, 0xAA, 0xBB})

	encoded, err = EncodeEntryArguments([]string{"vector<u8>"}, []any{"0xaabb"})
	td.CmpNoError(t, err)
	td.Cmp(t, encoded[0], []byte{2, 0xAA, 0xBB})

	encoded, err = EncodeEntryArguments([]string{"vector<u8>"}, []any{"aabb"})
	td.CmpNoError(t, err)
	td.Cmp(t, encoded[0], []byte{2, 0xAA, 0xBB})

	_, err = EncodeEntryArguments([]string{"vector<u8>"}, []any{"not hex"})
	td.CmpError(t, err)

	_, err = EncodeEntryArguments([]string{"vector<u64>"}, []any{"not a slice"})
	td.CmpError(t, err)
}

func TestEncodeObjectAndAddressString(t *testing.T) {
	encoded, err := EncodeEntryArguments(
		[]string{"0x1::object::Object<0x1::fungible_asset::Metadata>", "address"},
		[]any{"0x2", "0x3"},
	)
	td.CmpNoError(t, err)
	td.Cmp(t, encoded[0][31], byte(2))
	td.Cmp(t, encoded[1][31], byte(3))
}
