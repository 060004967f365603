package protocol

import (
	"errors"
	"fmt"
	"io"

	arborerrors "github.com/vango-dev/arbor/internal/errors"
)

// FrameHeaderSize is the size of the frame header in bytes.
const FrameHeaderSize = 6

// FrameType identifies the payload of a frame.
type FrameType uint8

const (
	FrameBatch FrameType = 0x01 // Render side → replica mutation batch
	FrameEvent FrameType = 0x02 // Replica → render side event
	FrameError FrameType = 0x03 // Either direction, payload is a message string
)

// String returns the string representation of the frame type.
func (ft FrameType) String() string {
	switch ft {
	case FrameBatch:
		return "Batch"
	case FrameEvent:
		return "Event"
	case FrameError:
		return "Error"
	default:
		return "Unknown"
	}
}

// FrameFlags are optional flags for frame processing.
type FrameFlags uint8

const (
	// FlagReset tells the replica to drop its tree before applying the batch.
	FlagReset FrameFlags = 0x01
)

// Has reports whether ff contains flag.
func (ff FrameFlags) Has(flag FrameFlags) bool {
	return ff&flag != 0
}

// Frame errors.
var (
	ErrFrameTooLarge    = errors.New("protocol: frame payload too large")
	ErrInvalidFrameType = errors.New("protocol: invalid frame type")
)

// Frame is a header plus payload.
type Frame struct {
	Type    FrameType
	Flags   FrameFlags
	Payload []byte
}

// NewFrame creates a frame with no flags.
func NewFrame(ft FrameType, payload []byte) *Frame {
	return &Frame{Type: ft, Payload: payload}
}

// Encode returns the frame with its header.
func (f *Frame) Encode() []byte {
	e := &Encoder{buf: make([]byte, 0, FrameHeaderSize+len(f.Payload))}
	e.WriteByte(byte(f.Type))
	e.WriteByte(byte(f.Flags))
	e.WriteUint32(uint32(len(f.Payload)))
	e.buf = append(e.buf, f.Payload...)
	return e.buf
}

// DecodeFrame decodes a frame from data, which must hold exactly one frame.
func DecodeFrame(data []byte) (*Frame, error) {
	d := NewDecoder(data)
	ft, flags, length, err := readHeader(d)
	if err != nil {
		return nil, malformed(err)
	}
	if d.Remaining() != length {
		return nil, malformed(fmt.Errorf("payload is %d bytes, header says %d: %w", d.Remaining(), length, io.ErrUnexpectedEOF))
	}
	return &Frame{Type: ft, Flags: flags, Payload: data[FrameHeaderSize:]}, nil
}

// ReadFrame reads one frame from r.
func ReadFrame(r io.Reader) (*Frame, error) {
	header := make([]byte, FrameHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}
	ft, flags, length, err := readHeader(NewDecoder(header))
	if err != nil {
		return nil, malformed(err)
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, malformed(err)
	}
	return &Frame{Type: ft, Flags: flags, Payload: payload}, nil
}

// WriteFrame writes f to w.
func WriteFrame(w io.Writer, f *Frame) error {
	if len(f.Payload) > MaxAllocation {
		return ErrFrameTooLarge
	}
	_, err := w.Write(f.Encode())
	return err
}

func readHeader(d *Decoder) (FrameType, FrameFlags, int, error) {
	t, err := d.ReadByte()
	if err != nil {
		return 0, 0, 0, err
	}
	ft := FrameType(t)
	if ft < FrameBatch || ft > FrameError {
		return 0, 0, 0, fmt.Errorf("%w: 0x%02x", ErrInvalidFrameType, t)
	}
	flags, err := d.ReadByte()
	if err != nil {
		return 0, 0, 0, err
	}
	length, err := d.ReadUint32()
	if err != nil {
		return 0, 0, 0, err
	}
	if length > MaxAllocation {
		return 0, 0, 0, ErrFrameTooLarge
	}
	return ft, FrameFlags(flags), int(length), nil
}

// malformed wraps a decoding failure as an A040 error.
func malformed(err error) error {
	return arborerrors.New("A040").WithDetail(err.Error()).Wrap(err)
}
