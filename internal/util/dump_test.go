package util

import (
	"strings"
	"testing"
)

func TestDumpSingleRow(t *testing.T) {
	// (25 - len("PAYLOAD:") - 1) / 4 = 4 columns
	d := Dump{Prefix: "PAYLOAD:", Data: []byte("abc"), Width: 25}

	want := "PAYLOAD:61 62 63    abc\n"
	if got := d.String(); got != want {
		t.Errorf("Dump = %q, want %q", got, want)
	}
}

func TestDumpWrapsRows(t *testing.T) {
	d := Dump{Prefix: ">", Data: []byte("0123456789"), Width: 18} // 4 columns

	lines := strings.Split(strings.TrimSuffix(d.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d rows, want 3:\n%s", len(lines), d.String())
	}
	if lines[0] != ">30 31 32 33 0123" {
		t.Errorf("row 0 = %q", lines[0])
	}
	if lines[2] != ">38 39       89" {
		t.Errorf("row 2 = %q", lines[2])
	}
}

func TestDumpNonPrintable(t *testing.T) {
	d := Dump{Data: []byte{0x00, 0x41, 0x7F, 0xFF, 0x20}, Width: 41} // 10 columns

	want := "00 41 7F FF 20                " + ".A.. \n"
	if got := d.String(); got != want {
		t.Errorf("Dump = %q, want %q", got, want)
	}
}

func TestDumpEmpty(t *testing.T) {
	d := Dump{Prefix: "P:", Width: 15} // 3 columns

	if got, want := d.String(), "P:         \n"; got != want {
		t.Errorf("Dump = %q, want %q", got, want)
	}
}

func TestDumpNarrowWidth(t *testing.T) {
	d := Dump{Prefix: "PAYLOAD:", Data: []byte("ab"), Width: 3}

	if got, want := d.String(), "PAYLOAD:61 a\nPAYLOAD:62 b\n"; got != want {
		t.Errorf("Dump = %q, want %q", got, want)
	}
}

func TestStatsSnapshot(t *testing.T) {
	var s Stats
	s.AddReceived(533)
	s.AddReceived(533)
	s.AddUnrecognized(3)

	snap := s.Snapshot()
	if snap.Received != 2 || snap.Unrecognized != 1 || snap.BytesRecv != 1069 {
		t.Errorf("Snapshot = %+v", snap)
	}
	if !strings.Contains(snap.String(), "Datagrams: 2 | Unknown: 1") {
		t.Errorf("String = %q", snap.String())
	}
}

func TestFormatBytes(t *testing.T) {
	testCases := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1536, "1.5 KiB"},
		{2 << 20, "2.0 MiB"},
	}
	for _, tc := range testCases {
		if got := formatBytes(tc.in); got != tc.want {
			t.Errorf("formatBytes(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
