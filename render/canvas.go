package render

import (
	"math"
	"strings"

	"github.com/lixenwraith/dotfield/parameter"
	"github.com/lixenwraith/dotfield/vmath"
)

// BrailleBase is the empty braille pattern; a cell glyph is BrailleBase | mask
const BrailleBase rune = 0x2800

// brailleBits maps [subY][subX] to the Unicode braille dot bit
// Dots 1-3 and 4-6 fill the left and right columns top-down, dots 7-8 form the bottom row
var brailleBits = [parameter.SubCellsY][parameter.SubCellsX]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a per-frame dot-matrix grid of braille cells
// Each cell addresses a 2x4 sub-dot block; cells are row-major: cells[row*cols + col]
type Canvas struct {
	cols  int
	rows  int
	cells []uint8
}

// NewCanvas sizes a canvas from sub-cell dimensions: width/2 columns, height/4 rows
func NewCanvas(width, height int) *Canvas {
	cols := width / parameter.SubCellsX
	rows := height / parameter.SubCellsY
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	return &Canvas{
		cols:  cols,
		rows:  rows,
		cells: make([]uint8, cols*rows),
	}
}

// Cols returns the canvas width in character cells
func (c *Canvas) Cols() int { return c.cols }

// Rows returns the canvas height in character cells
func (c *Canvas) Rows() int { return c.rows }

// Set lights one sub-dot; out-of-range addresses are ignored
func (c *Canvas) Set(col, row, subX, subY int) {
	if col < 0 || col >= c.cols || row < 0 || row >= c.rows {
		return
	}
	if subX < 0 || subX >= parameter.SubCellsX || subY < 0 || subY >= parameter.SubCellsY {
		return
	}
	c.cells[row*c.cols+col] |= brailleBits[subY][subX]
}

// IsSet reports whether a sub-dot is lit
func (c *Canvas) IsSet(col, row, subX, subY int) bool {
	if col < 0 || col >= c.cols || row < 0 || row >= c.rows {
		return false
	}
	if subX < 0 || subX >= parameter.SubCellsX || subY < 0 || subY >= parameter.SubCellsY {
		return false
	}
	return c.cells[row*c.cols+col]&brailleBits[subY][subX] != 0
}

// Plot lights the sub-dot under a continuous sub-cell coordinate
// Coordinates are truncated, then clamped into the grid so edge particles stay visible
// Non-finite coordinates and empty canvases are dropped
func (c *Canvas) Plot(x, y float32) {
	if c.cols == 0 || c.rows == 0 {
		return
	}
	if !vmath.IsFinite(vmath.V2(x, y)) {
		return
	}

	dx := clampDot(x, c.cols*parameter.SubCellsX)
	dy := clampDot(y, c.rows*parameter.SubCellsY)

	c.Set(dx/parameter.SubCellsX, dy/parameter.SubCellsY, dx%parameter.SubCellsX, dy%parameter.SubCellsY)
}

// clampDot truncates f toward zero and clamps into [0, limit)
func clampDot(f float32, limit int) int {
	if f <= 0 {
		return 0
	}
	if float64(f) >= float64(limit) {
		return limit - 1
	}
	return int(math.Trunc(float64(f)))
}

// Lit returns the number of lit sub-dots across the canvas
func (c *Canvas) Lit() int {
	n := 0
	for _, mask := range c.cells {
		for ; mask != 0; mask &= mask - 1 {
			n++
		}
	}
	return n
}

// Glyph returns the braille rune for a cell
func (c *Canvas) Glyph(col, row int) rune {
	if col < 0 || col >= c.cols || row < 0 || row >= c.rows {
		return BrailleBase
	}
	return BrailleBase | rune(c.cells[row*c.cols+col])
}

// String serializes the canvas row-major, rows separated by '\n' with no trailing newline
func (c *Canvas) String() string {
	if c.cols == 0 || c.rows == 0 {
		return ""
	}

	var sb strings.Builder
	// Braille runes encode to 3 bytes in UTF-8
	sb.Grow(c.rows*(c.cols*3+1) - 1)
	for row := 0; row < c.rows; row++ {
		if row > 0 {
			sb.WriteByte('\n')
		}
		base := row * c.cols
		for col := 0; col < c.cols; col++ {
			sb.WriteRune(BrailleBase | rune(c.cells[base+col]))
		}
	}
	return sb.String()
}
