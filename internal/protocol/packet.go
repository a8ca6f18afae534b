// Package protocol defines the fixed datagram layout exchanged by udputil.
package protocol

// Field sizes of the structured wire format. Text fields reserve one byte
// for the NUL terminator.
const (
	MaxOriginLen     = 15                // NetBIOS-style host name limit
	OriginFieldSize  = MaxOriginLen + 1  // origin name + terminator
	MaxPayloadLen    = 512               // largest payload carried in a datagram
	PayloadFieldSize = MaxPayloadLen + 1 // payload + terminator
	counterFieldSize = 2                 // int16
	quitFieldSize    = 2                 // uint16, nonzero = true
)

// Field offsets inside an encoded datagram.
const (
	originOffset  = 0
	payloadOffset = originOffset + OriginFieldSize
	counterOffset = payloadOffset + PayloadFieldSize
	quitOffset    = counterOffset + counterFieldSize
)

// Size is the exact length of an encoded datagram: 16 + 513 + 2 + 2.
// A received frame of any other length is never parsed as a Datagram.
const Size = quitOffset + quitFieldSize

// Datagram is one structured message.
type Datagram struct {
	Origin  string // sending host name, truncated to MaxOriginLen
	Payload []byte // truncated to MaxPayloadLen
	Counter int16  // sender-assigned, informational only
	Quit    bool   // receiver stops after processing this datagram
}

// Unrecognized holds a frame whose length is not Size. It is only used for
// diagnostic display.
type Unrecognized struct {
	Data   []byte
	Length int
}
