package monitor

import "time"

// Kind tells subscribers which report an Event carries.
type Kind string

const (
	KindDatagram     Kind = "datagram"
	KindUnrecognized Kind = "unrecognized"
)

// Event is the JSON message pushed to every subscriber for one listener
// report.
type Event struct {
	Session string    `json:"session"` // identifies the listener run
	Kind    Kind      `json:"kind"`
	Time    time.Time `json:"time"`
	From    string    `json:"from,omitempty"`
	Length  int       `json:"length"`

	// Structured datagrams only.
	Counter int16  `json:"counter"`
	Origin  string `json:"origin,omitempty"`
	Payload string `json:"payload,omitempty"`
	Quit    bool   `json:"quit,omitempty"`

	// Unrecognized frames only; base64 in JSON.
	Data []byte `json:"data,omitempty"`
}
