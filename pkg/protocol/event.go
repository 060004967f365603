package protocol

import "fmt"

// Event is a host event raised on a replica node.
type Event struct {
	Node  uint64
	Type  string
	Value string
}

// EncodeEvent encodes ev as an event frame payload.
func EncodeEvent(ev *Event) []byte {
	e := NewEncoder()
	e.WriteUvarint(ev.Node)
	e.WriteString(ev.Type)
	e.WriteString(ev.Value)
	return e.Bytes()
}

// DecodeEvent decodes an event frame payload.
func DecodeEvent(data []byte) (*Event, error) {
	d := NewDecoder(data)
	ev := &Event{}
	var err error
	if ev.Node, err = d.ReadUvarint(); err != nil {
		return nil, malformed(err)
	}
	if ev.Type, err = d.ReadString(); err != nil {
		return nil, malformed(err)
	}
	if ev.Value, err = d.ReadString(); err != nil {
		return nil, malformed(err)
	}
	if !d.EOF() {
		return nil, malformed(fmt.Errorf("%d trailing bytes after event", d.Remaining()))
	}
	return ev, nil
}
