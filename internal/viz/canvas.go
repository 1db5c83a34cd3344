package viz

import (
	"math"
	"strings"

	"github.com/san-kum/nbody/internal/nbody"
)

// Braille cell dot bits, indexed [row][col]:
// 1 4
// 2 5
// 3 6
// 7 8
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

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

// DotsX and DotsY give the canvas size in dots.
func (c *Canvas) DotsX() int { return c.Width * 2 }
func (c *Canvas) DotsY() int { return c.Height * 4 }

// Set turns on the dot at (x, y). Out-of-range dots are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// Blob draws a filled square of side 2r+1 dots centred on (x, y).
func (c *Canvas) Blob(x, y, r int) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			c.Set(x+dx, y+dy)
		}
	}
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

func (c *Canvas) String() string {
	var b strings.Builder
	for i, row := range c.Grid {
		b.WriteString(string(row))
		if i < len(c.Grid)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Viewport maps world coordinates to canvas dots. Scale is dots per world
// unit; y grows upward in the world and downward on screen.
type Viewport struct {
	Center nbody.Vec2
	Scale  float64
}

// FitViewport centres on the center of mass and scales so every body fits
// with a margin.
func FitViewport(s nbody.System, c *Canvas) Viewport {
	com := s.CenterOfMass()
	extent := 0.0
	for _, b := range s {
		if d := b.Pos.Sub(com).Magnitude(); d > extent && !math.IsInf(d, 0) && !math.IsNaN(d) {
			extent = d
		}
	}
	if extent == 0 {
		extent = 1
	}

	half := math.Min(float64(c.DotsX()), float64(c.DotsY())) / 2
	return Viewport{Center: com, Scale: 0.8 * half / extent}
}

func (v Viewport) Project(p nbody.Vec2, c *Canvas) (int, int, bool) {
	if !p.IsFinite() {
		return 0, 0, false
	}
	x := float64(c.DotsX())/2 + (p.X-v.Center.X)*v.Scale
	y := float64(c.DotsY())/2 - (p.Y-v.Center.Y)*v.Scale
	if x < 0 || y < 0 || x >= float64(c.DotsX()) || y >= float64(c.DotsY()) {
		return 0, 0, false
	}
	return int(x), int(y), true
}

// maxJoin is the longest gap, in dots, that DrawPath bridges with a line.
// Longer jumps are close encounters or points that left the view.
const maxJoin = 16

// DrawPath plots pts and joins consecutive visible points with lines.
func (v Viewport) DrawPath(c *Canvas, pts []nbody.Vec2) {
	px, py, prev := 0, 0, false
	for _, p := range pts {
		x, y, ok := v.Project(p, c)
		if !ok {
			prev = false
			continue
		}
		if prev && absInt(x-px) <= maxJoin && absInt(y-py) <= maxJoin {
			c.DrawLine(px, py, x, y)
		} else {
			c.Set(x, y)
		}
		px, py, prev = x, y, true
	}
}

func (v Viewport) Zoom(factor float64) Viewport {
	v.Scale *= factor
	return v
}
