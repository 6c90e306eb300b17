package bcs

import (
	"math/big"
	"testing"

	"github.com/maxatome/go-testdeep/td"
)

func TestFixedWidthRoundTrip(t *testing.T) {
	s := &Serializer{}
	s.Bool(true)
	s.Bool(false)
	s.U8(0)
	s.U8(0xFF)
	s.U16(0xFFFF)
	s.U32(0xFFFFFFFF)
	s.U64(0xFFFFFFFFFFFFFFFF)

	d := NewDeserializer(s.Output())
	for _, want := range []bool{true, false} {
		got, err := d.Bool()
		td.CmpNoError(t, err)
		td.Cmp(t, got, want)
	}
	u8a, err := d.U8()
	td.CmpNoError(t, err)
	td.Cmp(t, u8a, uint8(0))
	u8b, err := d.U8()
	td.CmpNoError(t, err)
	td.Cmp(t, u8b, uint8(0xFF))
	u16, err := d.U16()
	td.CmpNoError(t, err)
	td.Cmp(t, u16, uint16(0xFFFF))
	u32, err := d.U32()
	td.CmpNoError(t, err)
	td.Cmp(t, u32, uint32(0xFFFFFFFF))
	u64, err := d.U64()
	td.CmpNoError(t, err)
	td.Cmp(t, u64, uint64(0xFFFFFFFFFFFFFFFF))
	td.Cmp(t, d.Remaining(), 0)
}

func TestLittleEndianLayout(t *testing.T) {
	s := &Serializer{}
	s.U64(0xDEADBEEF)
	td.Cmp(t, s.Output(), []byte{0xEF, 0xBE, 0xAD, 0xDE, 0, 0, 0, 0})
}

func TestU128(t *testing.T) {
	max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

	s := &Serializer{}
	td.CmpNoError(t, s.U128(big.NewInt(1)))
	td.CmpNoError(t, s.U128(max))

	d := NewDeserializer(s.Output())
	one, err := d.U128()
	td.CmpNoError(t, err)
	td.Cmp(t, one.String(), "1")
	back, err := d.U128()
	td.CmpNoError(t, err)
	td.Cmp(t, back.String(), max.String())

	// out of range
	s2 := &Serializer{}
	td.CmpError(t, s2.U128(new(big.Int).Add(max, big.NewInt(1))))
	td.CmpError(t, s2.U128(big.NewInt(-1)))
	td.CmpError(t, s2.U128(nil))
}

func TestU256RoundTrip(t *testing.T) {
	v, _ := new(big.Int).SetString("123456789012345678901234567890123456789012345678901234567890", 10)
	s := &Serializer{}
	td.CmpNoError(t, s.U256(v))
	td.Cmp(t, len(s.Output()), 32)

	back, err := NewDeserializer(s.Output()).U256()
	td.CmpNoError(t, err)
	td.Cmp(t, back.String(), v.String())
}

func TestUleb128(t *testing.T) {
	cases := []struct {
		v    uint64
		want []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7F}},
		{128, []byte{0x80, 0x01}},
		{300, []byte{0xAC, 0x02}},
		{16384, []byte{0x80, 0x80, 0x01}},
	}
	for _, tc := range cases {
		s := &Serializer{}
		s.Uleb128(tc.v)
		td.Cmp(t, s.Output(), tc.want)

		got, err := NewDeserializer(tc.want).Uleb128()
		td.CmpNoError(t, err)
		td.Cmp(t, got, tc.v)
	}
}

func TestBytesAndStr(t *testing.T) {
	s := &Serializer{}
	s.Str("BTC/USD")
	s.Bytes([]byte{1, 2, 3})
	s.Bytes(nil)

	d := NewDeserializer(s.Output())
	str, err := d.Str()
	td.CmpNoError(t, err)
	td.Cmp(t, str, "BTC/USD")
	b, err := d.Bytes()
	td.CmpNoError(t, err)
	td.Cmp(t, b, []byte{1, 2, 3})
	empty, err := d.Bytes()
	td.CmpNoError(t, err)
	td.Cmp(t, len(empty), 0)
	td.Cmp(t, d.Remaining(), 0)
}

func TestShortRead(t *testing.T) {
	d := NewDeserializer([]byte{0x01})
	_, err := d.U64()
	td.Cmp(t, err, ErrShortRead)

	_, err = NewDeserializer([]byte{0x05, 0x01}).Bytes()
	td.Cmp(t, err, ErrShortRead)
}

func TestInvalidBool(t *testing.T) {
	_, err := NewDeserializer([]byte{0x02}).Bool()
	td.CmpError(t, err)
}
