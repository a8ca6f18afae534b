package util

import (
	"fmt"
	"sync/atomic"
)

// Stats counts listener traffic. Counters are informational only and are
// never reported per poll interval.
type Stats struct {
	Received     atomic.Int64 // structured datagrams decoded
	Unrecognized atomic.Int64 // frames whose length did not match the datagram size
	BytesRecv    atomic.Int64 // total bytes read from the socket
}

func (s *Stats) AddReceived(n int)     { s.Received.Add(1); s.BytesRecv.Add(int64(n)) }
func (s *Stats) AddUnrecognized(n int) { s.Unrecognized.Add(1); s.BytesRecv.Add(int64(n)) }

// Snapshot is a point-in-time copy of Stats.
type Snapshot struct {
	Received     int64
	Unrecognized int64
	BytesRecv    int64
}

// Snapshot returns the current counter values.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		Received:     s.Received.Load(),
		Unrecognized: s.Unrecognized.Load(),
		BytesRecv:    s.BytesRecv.Load(),
	}
}

// formatBytes renders n in binary units: "1069 B", "1.5 KiB", "2.0 MiB".
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit && exp < 4; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTP"[exp])
}

// String formats the snapshot for the shutdown log line.
func (s Snapshot) String() string {
	return fmt.Sprintf("Datagrams: %d | Unknown: %d | Recv: %s",
		s.Received,
		s.Unrecognized,
		formatBytes(s.BytesRecv),
	)
}
