package protocol

import (
	"errors"
	"io"
	"math"
)

// Allocation limits against hostile length prefixes.
const (
	// MaxAllocation caps a single string or payload (4MB).
	MaxAllocation = 4 * 1024 * 1024

	// MaxCollectionCount caps the number of items in a batch or attribute map.
	MaxCollectionCount = 100_000
)

// Decoding errors.
var (
	ErrVarintOverflow     = errors.New("protocol: varint overflow")
	ErrInvalidBool        = errors.New("protocol: invalid boolean value")
	ErrAllocationTooLarge = errors.New("protocol: allocation size exceeds limit")
	ErrCollectionTooLarge = errors.New("protocol: collection count exceeds limit")
	ErrUnknownValueType   = errors.New("protocol: unknown value type")
)

// ValueType tags an encoded property value.
type ValueType uint8

const (
	ValueNil ValueType = iota
	ValueString
	ValueBool
	ValueInt
	ValueFloat
)

// Decoder reads protocol data from a byte slice.
type Decoder struct {
	buf []byte
	pos int
}

// NewDecoder creates a decoder over buf.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return len(d.buf) - d.pos
}

// EOF reports whether all bytes have been read.
func (d *Decoder) EOF() bool {
	return d.pos >= len(d.buf)
}

// ReadByte reads a single byte.
func (d *Decoder) ReadByte() (byte, error) {
	if d.pos >= len(d.buf) {
		return 0, io.ErrUnexpectedEOF
	}
	b := d.buf[d.pos]
	d.pos++
	return b, nil
}

// ReadUvarint reads an unsigned varint.
func (d *Decoder) ReadUvarint() (uint64, error) {
	var v uint64
	var shift uint

	for {
		if d.pos >= len(d.buf) {
			return 0, io.ErrUnexpectedEOF
		}
		b := d.buf[d.pos]
		d.pos++
		v |= uint64(b&0x7F) << shift
		if b < 0x80 {
			return v, nil
		}
		shift += 7
		if shift >= 64 {
			return 0, ErrVarintOverflow
		}
	}
}

// ReadSvarint reads a ZigZag-encoded signed varint.
func (d *Decoder) ReadSvarint() (int64, error) {
	uv, err := d.ReadUvarint()
	if err != nil {
		return 0, err
	}
	v := int64(uv >> 1)
	if uv&1 != 0 {
		v = ^v
	}
	return v, nil
}

// ReadString reads a length-prefixed string.
func (d *Decoder) ReadString() (string, error) {
	length, err := d.ReadUvarint()
	if err != nil {
		return "", err
	}
	if length > MaxAllocation {
		return "", ErrAllocationTooLarge
	}
	if length > uint64(d.Remaining()) {
		return "", io.ErrUnexpectedEOF
	}
	n := int(length)
	s := string(d.buf[d.pos : d.pos+n])
	d.pos += n
	return s, nil
}

// ReadBool reads a boolean. Bytes other than 0x00 and 0x01 are rejected.
func (d *Decoder) ReadBool() (bool, error) {
	b, err := d.ReadByte()
	if err != nil {
		return false, err
	}
	switch b {
	case 0x00:
		return false, nil
	case 0x01:
		return true, nil
	default:
		return false, ErrInvalidBool
	}
}

// ReadUint32 reads a big-endian uint32.
func (d *Decoder) ReadUint32() (uint32, error) {
	if d.pos+4 > len(d.buf) {
		return 0, io.ErrUnexpectedEOF
	}
	v := uint32(d.buf[d.pos])<<24 | uint32(d.buf[d.pos+1])<<16 |
		uint32(d.buf[d.pos+2])<<8 | uint32(d.buf[d.pos+3])
	d.pos += 4
	return v, nil
}

// ReadFloat64 reads a big-endian IEEE 754 float64.
func (d *Decoder) ReadFloat64() (float64, error) {
	if d.pos+8 > len(d.buf) {
		return 0, io.ErrUnexpectedEOF
	}
	var b uint64
	for i := 0; i < 8; i++ {
		b = b<<8 | uint64(d.buf[d.pos+i])
	}
	d.pos += 8
	return math.Float64frombits(b), nil
}

// ReadCount reads a collection count and checks it against the limits.
// Every item takes at least one byte, so a count larger than the
// remaining input is truncated data.
func (d *Decoder) ReadCount() (int, error) {
	count, err := d.ReadUvarint()
	if err != nil {
		return 0, err
	}
	if count > MaxCollectionCount {
		return 0, ErrCollectionTooLarge
	}
	if count > uint64(d.Remaining()) {
		return 0, io.ErrUnexpectedEOF
	}
	return int(count), nil
}

// ReadValue reads a tagged property value written by Encoder.WriteValue.
// Integers decode as int.
func (d *Decoder) ReadValue() (any, error) {
	tag, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	switch ValueType(tag) {
	case ValueNil:
		return nil, nil
	case ValueString:
		return d.ReadString()
	case ValueBool:
		return d.ReadBool()
	case ValueInt:
		v, err := d.ReadSvarint()
		return int(v), err
	case ValueFloat:
		return d.ReadFloat64()
	default:
		return nil, ErrUnknownValueType
	}
}

// ReadAttrs reads an attribute map written by Encoder.WriteAttrs.
func (d *Decoder) ReadAttrs() (map[string]any, error) {
	n, err := d.ReadCount()
	if err != nil {
		return nil, err
	}
	attrs := make(map[string]any, n)
	for i := 0; i < n; i++ {
		k, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		v, err := d.ReadValue()
		if err != nil {
			return nil, err
		}
		attrs[k] = v
	}
	return attrs, nil
}
