package terminal

import "strconv"

// Sequences used in frames; the tcell backend understands exactly these
const (
	Home  = "\x1b[H"
	Clear = "\x1b[2J"
)

// Screen mode sequences, written by Init/Fini only
var (
	csiRIS            = []byte("\x1bc") // Reset to Initial State (emergency)
	csiSGR0           = []byte("\x1b[0m")
	csiCursorHide     = []byte("\x1b[?25l")
	csiCursorShow     = []byte("\x1b[?25h")
	csiAltScreenEnter = []byte("\x1b[?1049h")
	csiAltScreenExit  = []byte("\x1b[?1049l")
	// DECAWM: ?7l keeps the cursor at the right edge so a full-width row never scrolls
	csiAutoWrapOn  = []byte("\x1b[?7h")
	csiAutoWrapOff = []byte("\x1b[?7l")
)

// Goto returns the cursor-position sequence for 1-indexed col, row
func Goto(col, row int) string {
	if col < 1 {
		col = 1
	}
	if row < 1 {
		row = 1
	}
	return "\x1b[" + strconv.Itoa(row) + ";" + strconv.Itoa(col) + "H"
}
