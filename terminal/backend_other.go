//go:build !(linux || darwin || dragonfly || freebsd || netbsd || openbsd)

package terminal

import "errors"

// ErrNotTerminal is returned when stdin is not a tty
var ErrNotTerminal = errors.New("stdin is not a terminal")

var errANSIUnsupported = errors.New("ansi backend is not supported on this platform, use -backend tcell")

type unixBackend struct{}

func newUnixBackend() *unixBackend { return &unixBackend{} }

func (b *unixBackend) Init() error               { return errANSIUnsupported }
func (b *unixBackend) Fini()                     {}
func (b *unixBackend) Size() (int, int)          { return 80, 24 }
func (b *unixBackend) Write(p []byte) error      { return errANSIUnsupported }
func (b *unixBackend) Flush() error              { return nil }
func (b *unixBackend) TryReadByte() (byte, bool) { return 0, false }

func resetTerminalMode() {}
