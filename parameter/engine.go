package parameter

import "time"

// Display Geometry
const (
	// SubCellsX is the braille dot columns per terminal cell
	SubCellsX = 2
	// SubCellsY is the braille dot rows per terminal cell
	SubCellsY = 4
)

// Run Loop
const (
	// TargetFPS is the default rendered frame rate
	TargetFPS = 30

	// DefaultParticleCount is the number of random particles spawned at startup
	DefaultParticleCount = 5000

	// QuitByte ends the run loop
	QuitByte = 'q'

	// InterruptByte is Ctrl-C as delivered in raw mode
	InterruptByte = 0x03
)

// FrameInterval returns the target frame duration for fps, falling back to TargetFPS
func FrameInterval(fps int) time.Duration {
	if fps <= 0 {
		fps = TargetFPS
	}
	return time.Second / time.Duration(fps)
}

// Logging
const (
	// LogDir is the directory for debug logs, relative to the working directory
	LogDir = "logs"
	// LogFileName is the active debug log file
	LogFileName = "dotfield.log"
	// MaxLogSize triggers rotation of an existing log file on startup
	MaxLogSize = 10 * 1024 * 1024
)
