package txn

import (
	"fmt"
	"strings"

	"github.com/decibel-trade/go-decibel/bcs"
	"github.com/decibel-trade/go-decibel/types"
)

// TypeTag is a Move type usable as a generic type argument. Variant indices
// follow the chain's enum ordering and must not be reordered.
type TypeTag interface {
	serialize(s *bcs.Serializer) error
	String() string
}

const (
	tagBool    = 0
	tagU8      = 1
	tagU64     = 2
	tagU128    = 3
	tagAddress = 4
	tagSigner  = 5
	tagVector  = 6
	tagStruct  = 7
	tagU16     = 8
	tagU32     = 9
	tagU256    = 10
)

type primitiveTag struct {
	variant uint64
	name    string
}

func (t primitiveTag) serialize(s *bcs.Serializer) error {
	s.Uleb128(t.variant)
	return nil
}

func (t primitiveTag) String() string { return t.name }

// VectorTag is vector<Elem>.
type VectorTag struct {
	Elem TypeTag
}

func (t VectorTag) serialize(s *bcs.Serializer) error {
	s.Uleb128(tagVector)
	return t.Elem.serialize(s)
}

func (t VectorTag) String() string { return "vector<" + t.Elem.String() + ">" }

// StructTag is a fully qualified struct type, optionally generic.
type StructTag struct {
	Address  types.Address
	Module   string
	Name     string
	TypeArgs []TypeTag
}

func (t StructTag) serialize(s *bcs.Serializer) error {
	s.Uleb128(tagStruct)
	s.FixedBytes(t.Address.Bytes())
	s.Str(t.Module)
	s.Str(t.Name)
	s.Uleb128(uint64(len(t.TypeArgs)))
	for _, arg := range t.TypeArgs {
		if err := arg.serialize(s); err != nil {
			return err
		}
	}
	return nil
}

func (t StructTag) String() string {
	id := t.Address.String() + "::" + t.Module + "::" + t.Name
	if len(t.TypeArgs) == 0 {
		return id
	}
	args := make([]string, len(t.TypeArgs))
	for i, arg := range t.TypeArgs {
		args[i] = arg.String()
	}
	return id + "<" + strings.Join(args, ", ") + ">"
}

// ParseTypeTag parses a Move type string such as "u64", "vector<address>" or
// "0x1::object::Object<0x1::fungible_asset::Metadata>".
func ParseTypeTag(str string) (TypeTag, error) {
	str = strings.TrimSpace(str)
	switch str {
	case "bool":
		return primitiveTag{tagBool, "bool"}, nil
	case "u8":
		return primitiveTag{tagU8, "u8"}, nil
	case "u16":
		return primitiveTag{tagU16, "u16"}, nil
	case "u32":
		return primitiveTag{tagU32, "u32"}, nil
	case "u64":
		return primitiveTag{tagU64, "u64"}, nil
	case "u128":
		return primitiveTag{tagU128, "u128"}, nil
	case "u256":
		return primitiveTag{tagU256, "u256"}, nil
	case "address":
		return primitiveTag{tagAddress, "address"}, nil
	case "signer", "&signer":
		return primitiveTag{tagSigner, "signer"}, nil
	}
	if inner, ok := strings.CutPrefix(str, "vector<"); ok {
		if !strings.HasSuffix(inner, ">") {
			return nil, fmt.Errorf("unterminated vector type %q", str)
		}
		elem, err := ParseTypeTag(strings.TrimSuffix(inner, ">"))
		if err != nil {
			return nil, err
		}
		return VectorTag{Elem: elem}, nil
	}
	return parseStructTag(str)
}

func parseStructTag(str string) (TypeTag, error) {
	var argsPart string
	base := str
	if open := strings.Index(str, "<"); open >= 0 {
		if !strings.HasSuffix(str, ">") {
			return nil, fmt.Errorf("unterminated struct type %q", str)
		}
		base = str[:open]
		argsPart = str[open+1 : len(str)-1]
	}
	parts := strings.Split(base, "::")
	if len(parts) != 3 {
		return nil, fmt.Errorf("invalid type tag %q", str)
	}
	addr, err := types.ParseAddress(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid type tag %q: %w", str, err)
	}
	tag := StructTag{Address: addr, Module: parts[1], Name: parts[2]}
	if argsPart != "" {
		for _, arg := range splitTypeArgs(argsPart) {
			inner, err := ParseTypeTag(arg)
			if err != nil {
				return nil, err
			}
			tag.TypeArgs = append(tag.TypeArgs, inner)
		}
	}
	return tag, nil
}

// splitTypeArgs splits a comma-separated type argument list, respecting
// nested angle brackets.
func splitTypeArgs(str string) []string {
	var args []string
	depth, start := 0, 0
	for i, ch := range str {
		switch ch {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, str[start:i])
				start = i + 1
			}
		}
	}
	return append(args, str[start:])
}
