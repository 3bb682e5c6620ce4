package terminal

// Backend abstracts the platform side of the terminal
type Backend interface {
	// Init enters raw mode or starts the screen
	Init() error
	// Fini restores the terminal; called once
	Fini()

	// Size returns the display size in character cells
	Size() (cols, rows int)

	// Write emits raw bytes, escape sequences included
	Write(p []byte) error
	// Flush makes everything written so far visible
	Flush() error

	// TryReadByte returns the next pending input byte without blocking
	TryReadByte() (byte, bool)
}
