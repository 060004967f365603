package protocol

import "fmt"

// Op is a host mutation opcode.
type Op uint8

const (
	OpCreate   Op = 0x01 // Node, Tag, Attrs
	OpAppend   Op = 0x02 // Parent, Node
	OpRemove   Op = 0x03 // Parent, Node
	OpSet      Op = 0x04 // Node, Key, Value
	OpUnset    Op = 0x05 // Node, Key
	OpListen   Op = 0x06 // Node, Key (event name)
	OpUnlisten Op = 0x07 // Node, Key (event name)
	OpMount    Op = 0x08 // Node becomes a replica root
	OpRelease  Op = 0x09 // Detached Node is dropped
)

// String returns the string representation of the op.
func (op Op) String() string {
	switch op {
	case OpCreate:
		return "Create"
	case OpAppend:
		return "Append"
	case OpRemove:
		return "Remove"
	case OpSet:
		return "Set"
	case OpUnset:
		return "Unset"
	case OpListen:
		return "Listen"
	case OpUnlisten:
		return "Unlisten"
	case OpMount:
		return "Mount"
	case OpRelease:
		return "Release"
	default:
		return fmt.Sprintf("Op(0x%02x)", uint8(op))
	}
}

// Mutation is one host operation addressed by remote node IDs.
// Fields not used by the op are zero.
type Mutation struct {
	Op     Op
	Node   uint64
	Parent uint64
	Tag    string
	Key    string
	Value  any
	Attrs  map[string]any
}

// String returns a compact form such as "Set 4.class=done".
func (m Mutation) String() string {
	switch m.Op {
	case OpCreate:
		return fmt.Sprintf("Create %d<%s>", m.Node, m.Tag)
	case OpAppend, OpRemove:
		return fmt.Sprintf("%s %d>%d", m.Op, m.Parent, m.Node)
	case OpSet:
		return fmt.Sprintf("Set %d.%s=%v", m.Node, m.Key, m.Value)
	case OpUnset, OpListen, OpUnlisten:
		return fmt.Sprintf("%s %d.%s", m.Op, m.Node, m.Key)
	default:
		return fmt.Sprintf("%s %d", m.Op, m.Node)
	}
}

// Batch is the set of mutations produced by one commit.
type Batch struct {
	Seq uint64
	Ops []Mutation
}

// EncodeBatch encodes b as a batch frame payload.
func EncodeBatch(b *Batch) []byte {
	e := NewEncoder()
	EncodeBatchTo(e, b)
	return e.Bytes()
}

// EncodeBatchTo encodes b using e.
func EncodeBatchTo(e *Encoder, b *Batch) {
	e.WriteUvarint(b.Seq)
	e.WriteUvarint(uint64(len(b.Ops)))
	for _, m := range b.Ops {
		e.WriteByte(byte(m.Op))
		switch m.Op {
		case OpCreate:
			e.WriteUvarint(m.Node)
			e.WriteString(m.Tag)
			e.WriteAttrs(m.Attrs)
		case OpAppend, OpRemove:
			e.WriteUvarint(m.Parent)
			e.WriteUvarint(m.Node)
		case OpSet:
			e.WriteUvarint(m.Node)
			e.WriteString(m.Key)
			e.WriteValue(m.Value)
		case OpUnset, OpListen, OpUnlisten:
			e.WriteUvarint(m.Node)
			e.WriteString(m.Key)
		case OpMount, OpRelease:
			e.WriteUvarint(m.Node)
		}
	}
}

// DecodeBatch decodes a batch frame payload.
func DecodeBatch(data []byte) (*Batch, error) {
	b, err := decodeBatch(NewDecoder(data))
	if err != nil {
		return nil, malformed(err)
	}
	return b, nil
}

func decodeBatch(d *Decoder) (*Batch, error) {
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	n, err := d.ReadCount()
	if err != nil {
		return nil, err
	}
	b := &Batch{Seq: seq, Ops: make([]Mutation, 0, n)}
	for i := 0; i < n; i++ {
		op, err := d.ReadByte()
		if err != nil {
			return nil, err
		}
		m := Mutation{Op: Op(op)}
		switch m.Op {
		case OpCreate:
			if m.Node, err = d.ReadUvarint(); err != nil {
				return nil, err
			}
			if m.Tag, err = d.ReadString(); err != nil {
				return nil, err
			}
			if m.Attrs, err = d.ReadAttrs(); err != nil {
				return nil, err
			}
		case OpAppend, OpRemove:
			if m.Parent, err = d.ReadUvarint(); err != nil {
				return nil, err
			}
			if m.Node, err = d.ReadUvarint(); err != nil {
				return nil, err
			}
		case OpSet:
			if m.Node, err = d.ReadUvarint(); err != nil {
				return nil, err
			}
			if m.Key, err = d.ReadString(); err != nil {
				return nil, err
			}
			if m.Value, err = d.ReadValue(); err != nil {
				return nil, err
			}
		case OpUnset, OpListen, OpUnlisten:
			if m.Node, err = d.ReadUvarint(); err != nil {
				return nil, err
			}
			if m.Key, err = d.ReadString(); err != nil {
				return nil, err
			}
		case OpMount, OpRelease:
			if m.Node, err = d.ReadUvarint(); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("unknown op 0x%02x at index %d", op, i)
		}
		b.Ops = append(b.Ops, m)
	}
	if !d.EOF() {
		return nil, fmt.Errorf("%d trailing bytes after batch", d.Remaining())
	}
	return b, nil
}
