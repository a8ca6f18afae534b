package util

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
)

// Dump renders Data as rows of upper-case hex columns followed by their
// printable ASCII view. Nothing is formatted until String is called, so a
// Dump can be handed to a logger that may discard it.
type Dump struct {
	Prefix string // written at the start of every row
	Data   []byte
	Width  int // line width; <= 0 uses the terminal width
}

// columns returns how many bytes fit on one row: each byte takes three
// hex cells plus one ASCII cell.
func (d Dump) columns() int {
	width := d.Width
	if width <= 0 {
		width = pterm.GetTerminalWidth()
	}
	cols := (width - len(d.Prefix) - 1) / 4
	if cols < 1 {
		cols = 1
	}
	return cols
}

func (d Dump) String() string {
	cols := d.columns()
	rows := (len(d.Data) + cols - 1) / cols
	if rows == 0 {
		rows = 1
	}

	var sb strings.Builder
	for r := 0; r < rows; r++ {
		row := d.Data[r*cols : min((r+1)*cols, len(d.Data))]

		sb.WriteString(d.Prefix)
		for i := 0; i < cols; i++ {
			if i < len(row) {
				fmt.Fprintf(&sb, "%02X ", row[i])
			} else {
				sb.WriteString("   ")
			}
		}
		for _, b := range row {
			if b >= 0x20 && b < 0x7F {
				sb.WriteByte(b)
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
