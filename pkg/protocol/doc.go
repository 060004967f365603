// Package protocol is the binary wire format between a remote host adapter
// and its replica.
//
// Mutation batches flow from the render side to the replica; events flow
// back. Every websocket message carries exactly one frame:
//
//	┌─────────────┬──────────────┬───────────────────────────────┐
//	│ Frame Type  │ Flags        │ Payload Length                │
//	│ (1 byte)    │ (1 byte)     │ (4 bytes, big-endian)         │
//	└─────────────┴──────────────┴───────────────────────────────┘
//
// Payloads use protobuf-style varints for integers and varint
// length-prefixed strings. Property values carry a one-byte type tag.
//
// A batch payload is:
//
//	seq:uvarint count:uvarint op*
//
// where each op starts with its opcode byte followed by the op's fields.
// Decoding errors are reported as A040 errors from internal/errors.
package protocol
