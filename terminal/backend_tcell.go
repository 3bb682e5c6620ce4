package terminal

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

// parser states for the ANSI subset interpreter
const (
	stateGround = iota
	stateEscape
	stateCSI
)

// tcellBackend draws frames on a tcell.Screen
// Written bytes are interpreted: printable runes are placed at the cursor, CR/LF move it,
// CSI H positions it, CSI 2J clears; every other sequence is consumed and ignored
type tcellBackend struct {
	screen tcell.Screen
	style  tcell.Style

	keys   chan byte
	doneCh chan struct{}

	// Interpreter state, kept across writes since a sequence may span two of them
	x, y    int
	state   int
	params  []byte
	partial []byte
}

// newTcellBackend wraps an existing screen; NewTcell creates the real one
func newTcellBackend(screen tcell.Screen) *tcellBackend {
	return &tcellBackend{
		screen: screen,
		style:  tcell.StyleDefault,
		keys:   make(chan byte, 64),
		doneCh: make(chan struct{}),
	}
}

func (b *tcellBackend) Init() error {
	if err := b.screen.Init(); err != nil {
		return fmt.Errorf("init tcell screen: %w", err)
	}
	b.screen.HideCursor()
	go b.pollLoop()
	return nil
}

func (b *tcellBackend) Fini() {
	// Fini makes PollEvent return nil, which ends pollLoop
	b.screen.Fini()
	<-b.doneCh
}

func (b *tcellBackend) Size() (int, int) {
	return b.screen.Size()
}

// pollLoop forwards key presses as bytes; when the queue is full keys are dropped
func (b *tcellBackend) pollLoop() {
	defer close(b.doneCh)
	for {
		ev := b.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			c, ok := keyByte(ev)
			if !ok {
				continue
			}
			select {
			case b.keys <- c:
			default:
			}
		case *tcell.EventResize:
			b.screen.Sync()
		}
	}
}

// keyByte maps a key event to the byte a raw-mode tty would deliver
func keyByte(ev *tcell.EventKey) (byte, bool) {
	switch ev.Key() {
	case tcell.KeyRune:
		r := ev.Rune()
		if ev.Modifiers()&tcell.ModCtrl != 0 && (r == 'c' || r == 'C') {
			return 0x03, true
		}
		if r < utf8.RuneSelf {
			return byte(r), true
		}
		return 0, false
	case tcell.KeyCtrlC:
		return 0x03, true
	case tcell.KeyEscape:
		return 0x1b, true
	case tcell.KeyEnter:
		return '\r', true
	}
	return 0, false
}

func (b *tcellBackend) TryReadByte() (byte, bool) {
	select {
	case c := <-b.keys:
		return c, true
	default:
		return 0, false
	}
}

func (b *tcellBackend) Flush() error {
	b.screen.Show()
	return nil
}

func (b *tcellBackend) Write(p []byte) error {
	for len(p) > 0 {
		c := p[0]
		switch b.state {
		case stateEscape:
			p = p[1:]
			if c == '[' {
				b.state = stateCSI
				b.params = b.params[:0]
			} else {
				// Two-byte sequence such as RIS
				b.state = stateGround
			}
			continue
		case stateCSI:
			p = p[1:]
			if c >= 0x40 && c <= 0x7e {
				b.execCSI(c)
				b.state = stateGround
			} else {
				b.params = append(b.params, c)
			}
			continue
		}

		switch c {
		case 0x1b:
			b.state = stateEscape
			p = p[1:]
			continue
		case '\r':
			b.x = 0
			p = p[1:]
			continue
		case '\n':
			b.y++
			p = p[1:]
			continue
		}

		if c < 0x20 {
			p = p[1:]
			continue
		}

		// Assemble UTF-8 that may have been split by the caller's buffer
		if len(b.partial) > 0 || !utf8.FullRune(p) {
			need := utf8.UTFMax - len(b.partial)
			if need > len(p) {
				need = len(p)
			}
			b.partial = append(b.partial, p[:need]...)
			if !utf8.FullRune(b.partial) {
				p = p[need:]
				continue
			}
			r, size := utf8.DecodeRune(b.partial)
			// Bytes past the rune belong to the stream, rewind p accordingly
			consumed := size - (len(b.partial) - need)
			b.partial = b.partial[:0]
			p = p[consumed:]
			b.put(r)
			continue
		}

		r, size := utf8.DecodeRune(p)
		p = p[size:]
		b.put(r)
	}
	return nil
}

func (b *tcellBackend) put(r rune) {
	b.screen.SetContent(b.x, b.y, r, nil, b.style)
	b.x++
}

// execCSI handles the final byte of a CSI sequence
func (b *tcellBackend) execCSI(final byte) {
	switch final {
	case 'H':
		row, col := 1, 1
		if len(b.params) > 0 {
			fields := splitParams(b.params)
			if len(fields) > 0 && fields[0] > 0 {
				row = fields[0]
			}
			if len(fields) > 1 && fields[1] > 0 {
				col = fields[1]
			}
		}
		b.x, b.y = col-1, row-1
	case 'J':
		if string(b.params) == "2" {
			b.screen.Clear()
		}
	}
}

// splitParams parses "r;c" style numeric parameters; private-mode prefixes yield no fields
func splitParams(params []byte) []int {
	var out []int
	start := 0
	for i := 0; i <= len(params); i++ {
		if i == len(params) || params[i] == ';' {
			n, err := strconv.Atoi(string(params[start:i]))
			if err != nil {
				return nil
			}
			out = append(out, n)
			start = i + 1
		}
	}
	return out
}
