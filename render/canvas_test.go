package render

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanvasDimensions(t *testing.T) {
	tests := []struct {
		width, height int
		cols, rows    int
	}{
		{160, 96, 80, 24},
		{4, 4, 2, 1},
		{5, 7, 2, 1},
		{1, 3, 0, 0},
		{0, 0, 0, 0},
	}
	for _, tt := range tests {
		c := NewCanvas(tt.width, tt.height)
		assert.Equal(t, tt.cols, c.Cols(), "cols for %dx%d", tt.width, tt.height)
		assert.Equal(t, tt.rows, c.Rows(), "rows for %dx%d", tt.width, tt.height)
	}
}

func TestPlotSingleDotMapping(t *testing.T) {
	c := NewCanvas(12, 16)
	c.Plot(5, 9)

	require.True(t, c.IsSet(2, 2, 1, 1))
	assert.Equal(t, 1, c.Lit())

	for row := 0; row < c.Rows(); row++ {
		for col := 0; col < c.Cols(); col++ {
			for sy := 0; sy < 4; sy++ {
				for sx := 0; sx < 2; sx++ {
					if col == 2 && row == 2 && sx == 1 && sy == 1 {
						continue
					}
					assert.False(t, c.IsSet(col, row, sx, sy), "unexpected dot at cell (%d,%d) sub (%d,%d)", col, row, sx, sy)
				}
			}
		}
	}

	// Dot 5 (right column, second row) is bit 0x10
	assert.Equal(t, BrailleBase|0x10, c.Glyph(2, 2))
}

func TestPlotTruncatesFractions(t *testing.T) {
	c := NewCanvas(4, 4)
	c.Plot(1.99, 3.7)
	assert.True(t, c.IsSet(0, 0, 1, 3))
}

func TestPlotClampsOutOfRange(t *testing.T) {
	c := NewCanvas(4, 8)
	c.Plot(4, 8)   // exactly on the far bound
	c.Plot(-3, -1) // below zero
	c.Plot(100, 2)

	assert.True(t, c.IsSet(1, 1, 1, 3))
	assert.True(t, c.IsSet(0, 0, 0, 0))
	assert.True(t, c.IsSet(1, 0, 1, 2))
	assert.Equal(t, 3, c.Lit())
}

func TestPlotDropsNonFinite(t *testing.T) {
	c := NewCanvas(4, 4)
	c.Plot(float32(math.NaN()), 1)
	c.Plot(1, float32(math.Inf(-1)))
	assert.Equal(t, 0, c.Lit())

	empty := NewCanvas(0, 0)
	empty.Plot(0, 0)
	assert.Equal(t, "", empty.String())
}

func TestMultipleParticlesSameDotIndistinguishable(t *testing.T) {
	c := NewCanvas(4, 4)
	c.Plot(1.1, 1.1)
	c.Plot(1.9, 1.5)
	assert.Equal(t, 1, c.Lit())
}

func TestBrailleBitLayout(t *testing.T) {
	c := NewCanvas(2, 4)
	for sy := 0; sy < 4; sy++ {
		for sx := 0; sx < 2; sx++ {
			c.Set(0, 0, sx, sy)
		}
	}
	assert.Equal(t, '⣿', c.Glyph(0, 0))

	c = NewCanvas(2, 4)
	c.Set(0, 0, 0, 0)
	c.Set(0, 0, 0, 3)
	assert.Equal(t, BrailleBase|0x41, c.Glyph(0, 0))
}

func TestStringSerialization(t *testing.T) {
	c := NewCanvas(6, 8)
	c.Plot(0, 0)
	c.Plot(5, 7)

	s := c.String()
	lines := strings.Split(s, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "⠁⠀⠀", lines[0])
	assert.Equal(t, "⠀⠀⢀", lines[1])
	assert.False(t, strings.HasSuffix(s, "\n"))
}
