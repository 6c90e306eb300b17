package txn

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/decibel-trade/go-decibel/bcs"
	"github.com/decibel-trade/go-decibel/types"
)

var (
	// ErrArgumentCount is returned when the caller supplies a different
	// number of arguments than the function signature expects.
	ErrArgumentCount = errors.New("txn: argument count mismatch")
	// ErrUnsupportedType is returned for parameter types the encoder
	// cannot serialize.
	ErrUnsupportedType = errors.New("txn: unsupported argument type")
)

// EncodeEntryArguments BCS-encodes args against the function's parameter
// list. Leading signer parameters are provided by the transaction itself and
// are skipped; args must match the remaining parameters one to one. Each
// returned element is the standalone encoding of one argument.
func EncodeEntryArguments(params []string, args []any) ([][]byte, error) {
	for len(params) > 0 && isSignerParam(params[0]) {
		params = params[1:]
	}
	if len(params) != len(args) {
		return nil, fmt.Errorf("%w: function takes %d non-signer parameters, got %d arguments",
			ErrArgumentCount, len(params), len(args))
	}
	encoded := make([][]byte, len(args))
	for i, param := range params {
		s := &bcs.Serializer{}
		if err := encodeValue(s, param, args[i]); err != nil {
			return nil, fmt.Errorf("argument %d (%s): %w", i, param, err)
		}
		encoded[i] = s.Output()
	}
	return encoded, nil
}

func isSignerParam(param string) bool {
	return param == "signer" || param == "&signer"
}

func encodeValue(s *bcs.Serializer, param string, value any) error {
	param = strings.TrimSpace(param)
	switch param {
	case "bool":
		v, err := toBool(value)
		if err != nil {
			return err
		}
		s.Bool(v)
		return nil
	case "u8":
		v, err := toUint64(value)
		if err != nil {
			return err
		}
		if v > 0xFF {
			return fmt.Errorf("value %d overflows u8", v)
		}
		s.U8(uint8(v))
		return nil
	case "u16":
		v, err := toUint64(value)
		if err != nil {
			return err
		}
		if v > 0xFFFF {
			return fmt.Errorf("value %d overflows u16", v)
		}
		s.U16(uint16(v))
		return nil
	case "u32":
		v, err := toUint64(value)
		if err != nil {
			return err
		}
		if v > 0xFFFFFFFF {
			return fmt.Errorf("value %d overflows u32", v)
		}
		s.U32(uint32(v))
		return nil
	case "u64":
		v, err := toUint64(value)
		if err != nil {
			return err
		}
		s.U64(v)
		return nil
	case "u128":
		v, err := toBigInt(value)
		if err != nil {
			return err
		}
		return s.U128(v)
	case "u256":
		v, err := toBigInt(value)
		if err != nil {
			return err
		}
		return s.U256(v)
	case "address":
		v, err := toAddress(value)
		if err != nil {
			return err
		}
		s.FixedBytes(v.Bytes())
		return nil
	case "0x1::string::String":
		v, err := toString(value)
		if err != nil {
			return err
		}
		s.Str(v)
		return nil
	case "vector<u8>":
		v, err := toByteSlice(value)
		if err != nil {
			return err
		}
		s.Bytes(v)
		return nil
	}
	if elem, ok := cutGeneric(param, "vector<"); ok {
		return encodeVector(s, elem, value)
	}
	if elem, ok := cutGeneric(param, "0x1::option::Option<"); ok {
		return encodeOption(s, elem, value)
	}
	// Object handles are passed on the wire as their object address.
	if _, ok := cutGeneric(param, "0x1::object::Object<"); ok {
		v, err := toAddress(value)
		if err != nil {
			return err
		}
		s.FixedBytes(v.Bytes())
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedType, param)
}

// cutGeneric strips a "prefix<...>" wrapper, returning the inner type.
func cutGeneric(param, prefix string) (string, bool) {
	inner, ok := strings.CutPrefix(param, prefix)
	if !ok || !strings.HasSuffix(inner, ">") {
		return "", false
	}
	return strings.TrimSuffix(inner, ">"), true
}

func encodeVector(s *bcs.Serializer, elem string, value any) error {
	rv := reflect.ValueOf(value)
	if value == nil || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return fmt.Errorf("expected a slice for vector<%s>, got %T", elem, value)
	}
	s.Uleb128(uint64(rv.Len()))
	for i := 0; i < rv.Len(); i++ {
		if err := encodeValue(s, elem, rv.Index(i).Interface()); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

// encodeOption writes an Option<T>: a presence byte followed by the value.
// Untyped nil and nil pointers both encode as absent.
func encodeOption(s *bcs.Serializer, elem string, value any) error {
	if value == nil {
		s.U8(0)
		return nil
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			s.U8(0)
			return nil
		}
		rv = rv.Elem()
	}
	s.U8(1)
	return encodeValue(s, elem, rv.Interface())
}

func toBool(value any) (bool, error) {
	v, ok := value.(bool)
	if !ok {
		return false, fmt.Errorf("expected bool, got %T", value)
	}
	return v, nil
}

func toUint64(value any) (uint64, error) {
	switch v := value.(type) {
	case uint64:
		return v, nil
	case uint:
		return uint64(v), nil
	case uint8:
		return uint64(v), nil
	case uint16:
		return uint64(v), nil
	case uint32:
		return uint64(v), nil
	case int:
		if v < 0 {
			return 0, fmt.Errorf("negative value %d for unsigned parameter", v)
		}
		return uint64(v), nil
	case int64:
		if v < 0 {
			return 0, fmt.Errorf("negative value %d for unsigned parameter", v)
		}
		return uint64(v), nil
	case *big.Int:
		if v.Sign() < 0 || !v.IsUint64() {
			return 0, fmt.Errorf("value %s out of range for unsigned parameter", v)
		}
		return v.Uint64(), nil
	default:
		return 0, fmt.Errorf("expected an unsigned integer, got %T", value)
	}
}

func toBigInt(value any) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		return v, nil
	case big.Int:
		return &v, nil
	case types.BigInt:
		return &v.Int, nil
	case *types.BigInt:
		return &v.Int, nil
	default:
		n, err := toUint64(value)
		if err != nil {
			return nil, fmt.Errorf("expected a big integer: %w", err)
		}
		return new(big.Int).SetUint64(n), nil
	}
}

func toAddress(value any) (types.Address, error) {
	switch v := value.(type) {
	case types.Address:
		return v, nil
	case *types.Address:
		return *v, nil
	case string:
		return types.ParseAddress(v)
	default:
		return types.Address{}, fmt.Errorf("expected an address, got %T", value)
	}
}

func toString(value any) (string, error) {
	v, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("expected string, got %T", value)
	}
	return v, nil
}

func toByteSlice(value any) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		// strings are hex, 0x prefix optional
		b, err := hex.DecodeString(strings.TrimPrefix(v, "0x"))
		if err != nil {
			return nil, fmt.Errorf("expected hex bytes, got %q: %w", v, err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("expected bytes, got %T", value)
	}
}
