package terminal

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Kind selects a backend
type Kind string

const (
	KindANSI  Kind = "ansi"
	KindTcell Kind = "tcell"
)

// backendWriter adapts Backend.Write to io.Writer for the bufio layer
type backendWriter struct{ b Backend }

func (w backendWriter) Write(p []byte) (int, error) {
	if err := w.b.Write(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Terminal is the simulator's display: size, non-blocking input, flushed output
// Init and Fini bracket raw mode; Fini is safe to call multiple times
type Terminal struct {
	backend Backend
	writer  *bufio.Writer
	crlf    []byte

	mu          sync.Mutex
	initialized bool
	finalized   bool
}

// New wraps a backend
func New(backend Backend) *Terminal {
	return &Terminal{
		backend: backend,
		writer:  bufio.NewWriterSize(backendWriter{backend}, 131072), // 128KB buffer
		crlf:    []byte{'\r', '\n'},
	}
}

// Open creates a terminal with the requested backend, not yet initialized
func Open(kind Kind) (*Terminal, error) {
	switch kind {
	case KindANSI, "":
		return New(newUnixBackend()), nil
	case KindTcell:
		screen, err := tcell.NewScreen()
		if err != nil {
			return nil, fmt.Errorf("create tcell screen: %w", err)
		}
		return New(newTcellBackend(screen)), nil
	default:
		return nil, fmt.Errorf("unknown terminal backend %q", kind)
	}
}

// Init enters raw mode and the alternate screen, hides the cursor
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.initialized {
		return nil
	}

	if err := t.backend.Init(); err != nil {
		return err
	}

	t.writer.Write(csiAltScreenEnter)
	t.writer.Write(csiCursorHide)
	t.writer.Write(csiAutoWrapOff)
	t.writer.WriteString(Home + Clear)
	if err := t.flushLocked(); err != nil {
		t.backend.Fini()
		return fmt.Errorf("prepare screen: %w", err)
	}

	t.initialized = true
	return nil
}

// Fini restores terminal state
func (t *Terminal) Fini() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}

	t.writer.Write(csiCursorShow)
	t.writer.Write(csiAltScreenExit)
	// Re-enable Auto-Wrap AFTER exiting alt screen to ensure the main buffer has wrap enabled
	t.writer.Write(csiAutoWrapOn)
	t.writer.Write(csiSGR0)
	t.flushLocked()

	t.backend.Fini()
	t.finalized = true
}

// Size returns current terminal dimensions in cells
func (t *Terminal) Size() (cols, rows int) {
	return t.backend.Size()
}

// TryReadByte returns the next pending input byte, never blocking
func (t *Terminal) TryReadByte() (byte, bool) {
	return t.backend.TryReadByte()
}

// WriteAndFlush writes text with '\n' expanded to CRLF and makes it visible
func (t *Terminal) WriteAndFlush(text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.finalized {
		return nil
	}

	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] != '\n' {
			continue
		}
		t.writer.WriteString(text[start:i])
		t.writer.Write(t.crlf)
		start = i + 1
	}
	t.writer.WriteString(text[start:])

	return t.flushLocked()
}

func (t *Terminal) flushLocked() error {
	if err := t.writer.Flush(); err != nil {
		return err
	}
	return t.backend.Flush()
}

// EmergencyReset attempts to restore terminal to sane state
// Call this from panic recovery if Fini() cannot be called normally
func EmergencyReset(w io.Writer) {
	w.Write(csiCursorShow)
	w.Write(csiAltScreenExit)
	w.Write(csiSGR0)
	w.Write(csiAutoWrapOn)
	w.Write(csiRIS)

	// Flush if it's a file
	if f, ok := w.(*os.File); ok {
		f.Sync()
	}

	// Escape sequences alone don't restore termios
	resetTerminalMode()
}
