package txn

import (
	"testing"

	"github.com/maxatome/go-testdeep/td"

	"github.com/decibel-trade/go-decibel/bcs"
)

func serializeTag(t *testing.T, tag TypeTag) []byte {
	t.Helper()
	s := &bcs.Serializer{}
	td.CmpNoError(t, tag.serialize(s))
	return s.Output()
}

func TestParsePrimitiveTags(t *testing.T) {
	cases := []struct {
		str     string
		variant byte
	}{
		{"bool", 0},
		{"u8", 1},
		{"u64", 2},
		{"u128", 3},
		{"address", 4},
		{"signer", 5},
		{"u16", 8},
		{"u32", 9},
		{"u256", 10},
	}
	for _, tc := range cases {
		tag, err := ParseTypeTag(tc.str)
		td.CmpNoError(t, err)
		td.Cmp(t, tag.String(), tc.str)
		td.Cmp(t, serializeTag(t, tag), []byte{tc.variant})
	}
}

func TestParseVectorTag(t *testing.T) {
	tag, err := ParseTypeTag("vector<vector<u8>>")
	td.CmpNoError(t, err)
	td.Cmp(t, tag.String(), "vector<vector<u8>>")
	td.Cmp(t, serializeTag(t, tag), []byte{6, 6, 1})
}

func TestParseStructTag(t *testing.T) {
	tag, err := ParseTypeTag("0x1::string::String")
	td.CmpNoError(t, err)
	td.Cmp(t, tag.String(), "0x0000000000000000000000000000000000000000000000000000000000000001::string::String")

	out := serializeTag(t, tag)
	td.Cmp(t, out[0], byte(7))
	td.Cmp(t, out[32], byte(1)) // address 0x1, last byte of the 32
	td.Cmp(t, out[33:40], []byte{6, 's', 't', 'r', 'i', 'n', 'g'})
}

func TestParseGenericStructTag(t *testing.T) {
	tag, err := ParseTypeTag("0x1::object::Object<0x1::fungible_asset::Metadata>")
	td.CmpNoError(t, err)
	st, ok := tag.(StructTag)
	td.CmpTrue(t, ok)
	td.Cmp(t, st.Module, "object")
	td.Cmp(t, len(st.TypeArgs), 1)

	multi, err := ParseTypeTag("0x1::pair::Pair<u64, vector<address>>")
	td.CmpNoError(t, err)
	mt := multi.(StructTag)
	td.Cmp(t, len(mt.TypeArgs), 2)
	td.Cmp(t, mt.TypeArgs[1].String(), "vector<address>")
}

func TestParseTypeTagErrors(t *testing.T) {
	for _, str := range []string{"", "vector<u8", "0x1::m", "0xzz::m::T", "0x1::m::T<u8"} {
		_, err := ParseTypeTag(str)
		td.CmpError(t, err, "input %q", str)
	}
}
