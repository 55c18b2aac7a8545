package viz

import (
	"math"
	"strings"
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

// Canvas is a character grid with 2x4 braille sub-pixels per cell.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// PixelSize is the canvas size in sub-pixels.
func (c *Canvas) PixelSize() (int, int) {
	return c.Width * 2, c.Height * 4
}

// Set lights the sub-pixel at (x, y). Points off the canvas are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
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
		c.Set(x0, y0)
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

// DrawCircle draws a circle outline with the midpoint algorithm. A radius
// below one sub-pixel draws a single dot.
func (c *Canvas) DrawCircle(cx, cy, r int) {
	if r < 1 {
		c.Set(cx, cy)
		return
	}
	x, y, d := r, 0, 1-r
	for x >= y {
		c.Set(cx+x, cy+y)
		c.Set(cx+y, cy+x)
		c.Set(cx-y, cy+x)
		c.Set(cx-x, cy+y)
		c.Set(cx-x, cy-y)
		c.Set(cx-y, cy-x)
		c.Set(cx+y, cy-x)
		c.Set(cx+x, cy-y)
		y++
		if d < 0 {
			d += 2*y + 1
		} else {
			x--
			d += 2*(y-x) + 1
		}
	}
}

// DrawRect draws the outline of the rectangle spanned by two corners.
func (c *Canvas) DrawRect(x0, y0, x1, y1 int) {
	c.DrawLine(x0, y0, x1, y0)
	c.DrawLine(x1, y0, x1, y1)
	c.DrawLine(x1, y1, x0, y1)
	c.DrawLine(x0, y1, x0, y0)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Viewport maps the world x-y plane onto a canvas, looking down the z axis
// with +y pointing up the screen.
type Viewport struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Expand grows v to contain the square of half-size r around (x, y).
func (v Viewport) Expand(x, y, r float64) Viewport {
	return Viewport{
		MinX: math.Min(v.MinX, x-r),
		MinY: math.Min(v.MinY, y-r),
		MaxX: math.Max(v.MaxX, x+r),
		MaxY: math.Max(v.MaxY, y+r),
	}
}

// Pad grows every side of v by frac of its larger span.
func (v Viewport) Pad(frac float64) Viewport {
	m := frac * math.Max(v.MaxX-v.MinX, v.MaxY-v.MinY)
	return Viewport{v.MinX - m, v.MinY - m, v.MaxX + m, v.MaxY + m}
}

// scale is the sub-pixels per world unit, equal on both axes.
func (v Viewport) scale(c *Canvas) float64 {
	pw, ph := c.PixelSize()
	w, h := v.MaxX-v.MinX, v.MaxY-v.MinY
	if w <= 0 || h <= 0 {
		return 1
	}
	return math.Min(float64(pw-1)/w, float64(ph-1)/h)
}

// Project returns the sub-pixel for world point (x, y).
func (v Viewport) Project(c *Canvas, x, y float64) (int, int) {
	s := v.scale(c)
	_, ph := c.PixelSize()
	px := int(math.Round((x - v.MinX) * s))
	py := ph - 1 - int(math.Round((y-v.MinY)*s))
	return px, py
}

// Length converts a world distance to sub-pixels.
func (v Viewport) Length(c *Canvas, d float64) int {
	return int(math.Round(d * v.scale(c)))
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
