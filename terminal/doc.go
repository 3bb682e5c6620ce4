// Package terminal provides the display side of the simulator: raw mode, size queries,
// non-blocking single-byte input, and flushed text output.
//
// Two backends are available:
//   - ANSI: direct termios raw mode and escape sequences on stdin/stdout (unix only)
//   - tcell: a tcell.Screen that interprets the small ANSI subset frames are written in
//
// Frames are plain text with cursor-home, clear-screen and cursor-position sequences.
// Newlines in frames are written as CRLF, since raw mode disables output post-processing.
package terminal
