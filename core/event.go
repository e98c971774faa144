package core

import (
	"encoding/binary"
	"fmt"
)

// Wire tags, one per event variant.
const (
	TagPhold    byte = 0
	TagInit     byte = 1
	TagComplete byte = 2
)

// Event is the closed set of message types exchanged by LPs. The wire
// form is the tag byte followed by the variant's fields as
// little-endian u64 values.
type Event interface {
	Tag() byte
	appendWire(buf []byte) []byte
}

// PholdEvent is the workload event. SendTime is carried for
// validation; Payload is opaque ballast whose size is fixed by
// configuration.
type PholdEvent struct {
	SendTime Time
	Payload  []byte
}

func (e *PholdEvent) Tag() byte { return TagPhold }

func (e *PholdEvent) appendWire(buf []byte) []byte {
	buf = binary.LittleEndian.AppendUint64(buf, uint64(e.SendTime))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(e.Payload)))
	return append(buf, e.Payload...)
}

// InitEvent announces the spanning-tree broadcast to one LP.
type InitEvent struct {
	SenderID uint64
}

func (e *InitEvent) Tag() byte { return TagInit }

func (e *InitEvent) appendWire(buf []byte) []byte {
	return binary.LittleEndian.AppendUint64(buf, e.SenderID)
}

// CompleteEvent carries a subtree's counter totals up the reduce.
type CompleteEvent struct {
	SendCount uint64
	RecvCount uint64
}

func (e *CompleteEvent) Tag() byte { return TagComplete }

func (e *CompleteEvent) appendWire(buf []byte) []byte {
	buf = binary.LittleEndian.AppendUint64(buf, e.SendCount)
	return binary.LittleEndian.AppendUint64(buf, e.RecvCount)
}

// Encode renders e in wire form.
func Encode(e Event) []byte {
	return e.appendWire([]byte{e.Tag()})
}

// Decode parses one event from wire form.
func Decode(b []byte) (Event, error) {
	if len(b) < 1 {
		return nil, fmt.Errorf("decode: empty buffer")
	}
	tag, rest := b[0], b[1:]
	switch tag {
	case TagPhold:
		if len(rest) < 16 {
			return nil, fmt.Errorf("decode: phold event truncated at %d bytes", len(rest))
		}
		sendTime := binary.LittleEndian.Uint64(rest)
		n := binary.LittleEndian.Uint64(rest[8:])
		rest = rest[16:]
		if uint64(len(rest)) < n {
			return nil, fmt.Errorf("decode: phold payload truncated: want %d bytes, have %d", n, len(rest))
		}
		var payload []byte
		if n > 0 {
			payload = append([]byte(nil), rest[:n]...)
		}
		return &PholdEvent{SendTime: Time(sendTime), Payload: payload}, nil
	case TagInit:
		if len(rest) < 8 {
			return nil, fmt.Errorf("decode: init event truncated at %d bytes", len(rest))
		}
		return &InitEvent{SenderID: binary.LittleEndian.Uint64(rest)}, nil
	case TagComplete:
		if len(rest) < 16 {
			return nil, fmt.Errorf("decode: complete event truncated at %d bytes", len(rest))
		}
		return &CompleteEvent{
			SendCount: binary.LittleEndian.Uint64(rest),
			RecvCount: binary.LittleEndian.Uint64(rest[8:]),
		}, nil
	default:
		return nil, fmt.Errorf("decode: unknown event tag %d", tag)
	}
}
