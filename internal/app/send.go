package app

import (
	"context"

	"github.com/1ureka/udputil/internal/config"
	"github.com/1ureka/udputil/internal/protocol"
	"github.com/1ureka/udputil/internal/transport"
	"github.com/1ureka/udputil/internal/util"
)

// SendOptions describes one outbound datagram.
type SendOptions struct {
	Mode    config.Mode // ModeSend, ModeBroadcast or ModeQuit
	Target  string      // ignored for ModeBroadcast
	Port    int
	Payload string
	Counter int16
	Raw     bool   // send Payload verbatim, without framing
	Origin  string // empty = local host name
}

// frame builds the wire bytes for opts.
func (opts SendOptions) frame() []byte {
	if opts.Raw {
		return protocol.EncodeRaw([]byte(opts.Payload))
	}

	origin := opts.Origin
	if origin == "" {
		origin = util.OriginName()
	}
	return protocol.Encode(&protocol.Datagram{
		Origin:  origin,
		Payload: []byte(opts.Payload),
		Counter: opts.Counter,
		Quit:    opts.Mode == config.ModeQuit,
	})
}

// RunSend transmits a single datagram. Failures are returned as
// *transport.SendError; nothing is retried.
func RunSend(ctx context.Context, opts SendOptions) (*transport.Sent, error) {
	broadcast := opts.Mode == config.ModeBroadcast
	data := opts.frame()

	util.LogDebug("sending %d-byte %s datagram to %s:%d (raw=%t)", len(data), opts.Mode, opts.Target, opts.Port, opts.Raw)
	return transport.Send(ctx, opts.Target, opts.Port, broadcast, data)
}
