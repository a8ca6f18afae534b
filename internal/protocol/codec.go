package protocol

import (
	"bytes"
	"encoding/binary"
)

// byteOrder is used for the counter and quit fields. Both ends are expected
// to run on little-endian hosts; a big-endian peer speaking the legacy
// memory-layout format would not interoperate.
var byteOrder = binary.LittleEndian

// Encode serializes a Datagram into exactly Size bytes. Origin and payload
// longer than their maximum are truncated without error.
func Encode(dg *Datagram) []byte {
	buf := make([]byte, Size)
	copy(buf[originOffset:originOffset+MaxOriginLen], dg.Origin)
	copy(buf[payloadOffset:payloadOffset+MaxPayloadLen], dg.Payload)
	byteOrder.PutUint16(buf[counterOffset:], uint16(dg.Counter))
	if dg.Quit {
		byteOrder.PutUint16(buf[quitOffset:], 1)
	}
	return buf
}

// EncodeRaw returns data unchanged. Raw frames bypass the structured layout
// entirely.
func EncodeRaw(data []byte) []byte {
	return data
}

// Decode parses data as a Datagram if and only if len(data) == Size.
// Any other length yields an Unrecognized copy of the frame.
//
// NUL padding is indistinguishable from trailing NUL bytes of the payload,
// so those are dropped: a payload of {'a', 0} decodes as "a". Embedded
// NULs are kept.
func Decode(data []byte) (*Datagram, *Unrecognized) {
	if len(data) != Size {
		raw := make([]byte, len(data))
		copy(raw, data)
		return nil, &Unrecognized{Data: raw, Length: len(data)}
	}

	origin := data[originOffset : originOffset+OriginFieldSize]
	if i := bytes.IndexByte(origin, 0); i >= 0 {
		origin = origin[:i]
	}

	field := bytes.TrimRight(data[payloadOffset:payloadOffset+PayloadFieldSize], "\x00")
	payload := make([]byte, len(field))
	copy(payload, field)

	return &Datagram{
		Origin:  string(origin),
		Payload: payload,
		Counter: int16(byteOrder.Uint16(data[counterOffset:])),
		Quit:    byteOrder.Uint16(data[quitOffset:]) != 0,
	}, nil
}
