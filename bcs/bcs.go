// Package bcs implements the Binary Canonical Serialization encoding used
// for every on-chain data structure this client produces: little-endian
// fixed-width integers, ULEB128 length prefixes and enum variant tags, and
// length-prefixed byte strings.
package bcs

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
)

// ErrShortRead is returned by Deserializer reads past the end of input.
var ErrShortRead = errors.New("bcs: unexpected end of input")

var (
	maxU128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	maxU256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
)

// Serializer accumulates an encoded byte string. The zero value is ready to
// use.
type Serializer struct {
	buf bytes.Buffer
}

// Output returns a copy of the bytes written so far.
func (s *Serializer) Output() []byte {
	out := make([]byte, s.buf.Len())
	copy(out, s.buf.Bytes())
	return out
}

func (s *Serializer) Bool(v bool) {
	if v {
		s.buf.WriteByte(1)
	} else {
		s.buf.WriteByte(0)
	}
}

func (s *Serializer) U8(v uint8) {
	s.buf.WriteByte(v)
}

func (s *Serializer) U16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	s.buf.Write(b[:])
}

func (s *Serializer) U32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	s.buf.Write(b[:])
}

func (s *Serializer) U64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	s.buf.Write(b[:])
}

// U128 writes a 16-byte little-endian integer. v must be in [0, 2^128).
func (s *Serializer) U128(v *big.Int) error {
	return s.bigInt(v, maxU128, 16)
}

// U256 writes a 32-byte little-endian integer. v must be in [0, 2^256).
func (s *Serializer) U256(v *big.Int) error {
	return s.bigInt(v, maxU256, 32)
}

func (s *Serializer) bigInt(v, max *big.Int, width int) error {
	if v == nil || v.Sign() < 0 || v.Cmp(max) > 0 {
		return fmt.Errorf("bcs: integer out of range for u%d: %v", width*8, v)
	}
	be := v.Bytes()
	le := make([]byte, width)
	for i, b := range be {
		le[len(be)-1-i] = b
	}
	s.buf.Write(le)
	return nil
}

// Uleb128 writes a variable-length unsigned integer, used for enum variant
// tags and sequence length prefixes.
func (s *Serializer) Uleb128(v uint64) {
	for v >= 0x80 {
		s.buf.WriteByte(byte(v&0x7F) | 0x80)
		v >>= 7
	}
	s.buf.WriteByte(byte(v))
}

// Bytes writes a ULEB128 length prefix followed by the raw bytes.
func (s *Serializer) Bytes(b []byte) {
	s.Uleb128(uint64(len(b)))
	s.buf.Write(b)
}

// Str writes a UTF-8 string as length-prefixed bytes.
func (s *Serializer) Str(v string) {
	s.Bytes([]byte(v))
}

// FixedBytes embeds pre-encoded bytes with no length prefix.
func (s *Serializer) FixedBytes(b []byte) {
	s.buf.Write(b)
}

// Deserializer reads BCS-encoded values from a byte slice.
type Deserializer struct {
	data []byte
	pos  int
}

func NewDeserializer(data []byte) *Deserializer {
	return &Deserializer{data: data}
}

// Remaining reports the number of unread bytes.
func (d *Deserializer) Remaining() int {
	return len(d.data) - d.pos
}

func (d *Deserializer) take(n int) ([]byte, error) {
	if d.Remaining() < n {
		return nil, ErrShortRead
	}
	b := d.data[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

func (d *Deserializer) Bool() (bool, error) {
	b, err := d.take(1)
	if err != nil {
		return false, err
	}
	switch b[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("bcs: invalid bool byte 0x%02x", b[0])
	}
}

func (d *Deserializer) U8() (uint8, error) {
	b, err := d.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *Deserializer) U16() (uint16, error) {
	b, err := d.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (d *Deserializer) U32() (uint32, error) {
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (d *Deserializer) U64() (uint64, error) {
	b, err := d.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (d *Deserializer) U128() (*big.Int, error) {
	return d.bigInt(16)
}

func (d *Deserializer) U256() (*big.Int, error) {
	return d.bigInt(32)
}

func (d *Deserializer) bigInt(width int) (*big.Int, error) {
	le, err := d.take(width)
	if err != nil {
		return nil, err
	}
	be := make([]byte, width)
	for i, b := range le {
		be[width-1-i] = b
	}
	return new(big.Int).SetBytes(be), nil
}

func (d *Deserializer) Uleb128() (uint64, error) {
	var v uint64
	var shift uint
	for {
		b, err := d.take(1)
		if err != nil {
			return 0, err
		}
		if shift >= 64 {
			return 0, errors.New("bcs: uleb128 overflow")
		}
		v |= uint64(b[0]&0x7F) << shift
		if b[0]&0x80 == 0 {
			return v, nil
		}
		shift += 7
	}
}

func (d *Deserializer) Bytes() ([]byte, error) {
	n, err := d.Uleb128()
	if err != nil {
		return nil, err
	}
	b, err := d.take(int(n))
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

func (d *Deserializer) Str() (string, error) {
	b, err := d.Bytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// FixedBytes reads exactly n raw bytes.
func (d *Deserializer) FixedBytes(n int) ([]byte, error) {
	b, err := d.take(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}
