package protocol

import (
	"fmt"
	"math"
	"sort"
)

// Encoder appends protocol data to an internal buffer.
type Encoder struct {
	buf []byte
}

// NewEncoder creates an encoder with a default initial capacity.
func NewEncoder() *Encoder {
	return &Encoder{buf: make([]byte, 0, 256)}
}

// Reset empties the encoder, reusing the underlying buffer.
func (e *Encoder) Reset() {
	e.buf = e.buf[:0]
}

// Bytes returns the encoded bytes. The slice is valid until the next write
// or Reset.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Len returns the number of bytes encoded so far.
func (e *Encoder) Len() int {
	return len(e.buf)
}

// WriteByte appends a single byte. The buffer is unbounded, so unlike
// io.ByteWriter it cannot fail.
func (e *Encoder) WriteByte(b byte) {
	e.buf = append(e.buf, b)
}

// WriteUvarint appends an unsigned varint.
func (e *Encoder) WriteUvarint(v uint64) {
	for v >= 0x80 {
		e.buf = append(e.buf, byte(v)|0x80)
		v >>= 7
	}
	e.buf = append(e.buf, byte(v))
}

// WriteSvarint appends a signed varint using ZigZag encoding.
func (e *Encoder) WriteSvarint(v int64) {
	e.WriteUvarint(uint64((v << 1) ^ (v >> 63)))
}

// WriteString appends a length-prefixed string.
func (e *Encoder) WriteString(s string) {
	e.WriteUvarint(uint64(len(s)))
	e.buf = append(e.buf, s...)
}

// WriteBool appends a boolean as 0x00 or 0x01.
func (e *Encoder) WriteBool(b bool) {
	if b {
		e.buf = append(e.buf, 0x01)
	} else {
		e.buf = append(e.buf, 0x00)
	}
}

// WriteUint32 appends a uint32 in big-endian byte order.
func (e *Encoder) WriteUint32(v uint32) {
	e.buf = append(e.buf, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// WriteFloat64 appends a float64 as its IEEE 754 bits, big-endian.
func (e *Encoder) WriteFloat64(v float64) {
	b := math.Float64bits(v)
	e.buf = append(e.buf,
		byte(b>>56), byte(b>>48), byte(b>>40), byte(b>>32),
		byte(b>>24), byte(b>>16), byte(b>>8), byte(b))
}

// WriteValue appends a tagged property value. Values of types the protocol
// does not know are sent as their fmt.Sprint form.
func (e *Encoder) WriteValue(v any) {
	switch x := v.(type) {
	case nil:
		e.WriteByte(byte(ValueNil))
	case string:
		e.WriteByte(byte(ValueString))
		e.WriteString(x)
	case bool:
		e.WriteByte(byte(ValueBool))
		e.WriteBool(x)
	case int:
		e.WriteByte(byte(ValueInt))
		e.WriteSvarint(int64(x))
	case int32:
		e.WriteByte(byte(ValueInt))
		e.WriteSvarint(int64(x))
	case int64:
		e.WriteByte(byte(ValueInt))
		e.WriteSvarint(x)
	case float32:
		e.WriteByte(byte(ValueFloat))
		e.WriteFloat64(float64(x))
	case float64:
		e.WriteByte(byte(ValueFloat))
		e.WriteFloat64(x)
	default:
		e.WriteByte(byte(ValueString))
		e.WriteString(fmt.Sprint(x))
	}
}

// WriteAttrs appends a count-prefixed attribute map in key order.
func (e *Encoder) WriteAttrs(attrs map[string]any) {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	e.WriteUvarint(uint64(len(keys)))
	for _, k := range keys {
		e.WriteString(k)
		e.WriteValue(attrs[k])
	}
}
