package app

import (
	"fmt"
	"io"
	"net"

	"github.com/1ureka/udputil/internal/protocol"
	"github.com/1ureka/udputil/internal/transport"
	"github.com/1ureka/udputil/internal/util"
)

// Console prints listener reports in the classic block format.
type Console struct {
	out   io.Writer
	width int // dump line width; 0 = terminal width
}

// NewConsole creates a Console writing to out.
func NewConsole(out io.Writer, dumpWidth int) *Console {
	return &Console{out: out, width: dumpWidth}
}

func (c *Console) Datagram(from net.Addr, dg *protocol.Datagram) {
	fmt.Fprintln(c.out, "*** DATAGRAM ***")
	if dg.Quit {
		fmt.Fprintln(c.out, "--- Shutdown Datagram received. ---")
	}
	fmt.Fprintf(c.out, "IPADR: %s\n", sourceIP(from))
	fmt.Fprintf(c.out, "COUNT: %d\n", dg.Counter)
	fmt.Fprintf(c.out, "WKSTN: %s\n", dg.Origin)
	fmt.Fprintf(c.out, "PAYLD: %s\n", dg.Payload)
	if dg.Quit {
		fmt.Fprintln(c.out, "SHTDN: TRUE")
	}
	fmt.Fprintln(c.out, "*** END DGRM ***")
}

func (c *Console) Unrecognized(from net.Addr, u *protocol.Unrecognized) {
	util.LogWarning("Received %d bytes of unknown datagram.", u.Length)
	fmt.Fprint(c.out, util.Dump{Prefix: "PAYLOAD:", Data: u.Data, Width: c.width})
}

func sourceIP(a net.Addr) string {
	switch v := a.(type) {
	case nil:
		return "unknown"
	case *net.UDPAddr:
		return v.IP.String()
	default:
		return a.String()
	}
}

// Reporters fans every report out to each member in order.
type Reporters []transport.Reporter

func (rs Reporters) Datagram(from net.Addr, dg *protocol.Datagram) {
	for _, r := range rs {
		r.Datagram(from, dg)
	}
}

func (rs Reporters) Unrecognized(from net.Addr, u *protocol.Unrecognized) {
	for _, r := range rs {
		r.Unrecognized(from, u)
	}
}
