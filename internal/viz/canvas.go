package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Canvas is a Braille dot grid with one color per cell. The nearest write
// owns a cell's color.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	colors        [][]colorful.Color
	depth         [][]float64
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h}
	c.Grid = make([][]rune, h)
	c.colors = make([][]colorful.Color, h)
	c.depth = make([][]float64, h)
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.colors[i] = make([]colorful.Color, w)
		c.depth[i] = make([]float64, w)
	}
	c.Clear()
	return c
}

// DotWidth and DotHeight are the canvas size in sub-pixels.
func (c *Canvas) DotWidth() int  { return c.Width * 2 }
func (c *Canvas) DotHeight() int { return c.Height * 4 }

func (c *Canvas) cell(x, y int) (int, int, bool) {
	if x < 0 || y < 0 {
		return 0, 0, false
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return 0, 0, false
	}
	return col, row, true
}

// Set lights a sub-pixel without touching the cell color.
func (c *Canvas) Set(x, y int) {
	col, row, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// Plot lights a sub-pixel and takes the cell color if depth is nearer than
// the current owner.
func (c *Canvas) Plot(x, y int, col colorful.Color, depth float64) {
	cx, cy, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[cy][cx] |= rune(pixelMap[y%4][x%2])
	if depth <= c.depth[cy][cx] {
		c.depth[cy][cx] = depth
		c.colors[cy][cx] = col
	}
}

// Lit reports whether the sub-pixel is set.
func (c *Canvas) Lit(x, y int) bool {
	col, row, ok := c.cell(x, y)
	if !ok {
		return false
	}
	return c.Grid[row][col]&rune(pixelMap[y%4][x%2]) != 0
}

// ColorAt returns the color owning the cell at sub-pixel (x, y).
func (c *Canvas) ColorAt(x, y int) (colorful.Color, bool) {
	col, row, ok := c.cell(x, y)
	if !ok || math.IsInf(c.depth[row][col], 1) {
		return colorful.Color{}, false
	}
	return c.colors[row][col], true
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
			c.depth[i][j] = math.Inf(1)
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, col colorful.Color, depth float64) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Plot(x0, y0, col, depth)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// FillRect fills the inclusive sub-pixel rectangle.
func (c *Canvas) FillRect(x0, y0, x1, y1 int, col colorful.Color, depth float64) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1, c.DotWidth()-1), min(y1, c.DotHeight()-1)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			c.Plot(x, y, col, depth)
		}
	}
}

// String renders the canvas without color.
func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render renders the canvas with lipgloss foreground colors. Runs of cells
// sharing a color are styled together.
func (c *Canvas) Render(fallback colorful.Color) string {
	var b strings.Builder
	for row := range c.Grid {
		start := 0
		current := c.cellHex(row, 0, fallback)
		for col := 1; col <= c.Width; col++ {
			var next string
			if col < c.Width {
				next = c.cellHex(row, col, fallback)
				if next == current {
					continue
				}
			}
			run := string(c.Grid[row][start:col])
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(current)).Render(run))
			start, current = col, next
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (c *Canvas) cellHex(row, col int, fallback colorful.Color) string {
	if c.Width == 0 || math.IsInf(c.depth[row][col], 1) {
		return fallback.Hex()
	}
	return c.colors[row][col].Hex()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
