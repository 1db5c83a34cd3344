package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/nbody/internal/nbody"
)

var palette = []string{"#00ffff", "#ffcc00", "#ff4444", "#00ff88", "#cc66ff", "#ff8800"}

type bounds struct {
	minX, maxX, minY, maxY float64
}

// pad widens b by 10% on every side and keeps the aspect ratio square so
// orbits are not distorted.
func (b bounds) pad() bounds {
	cx, cy := (b.minX+b.maxX)/2, (b.minY+b.maxY)/2
	half := math.Max(b.maxX-b.minX, b.maxY-b.minY) / 2
	if half == 0 {
		half = 1
	}
	half *= 1.1
	return bounds{cx - half, cx + half, cy - half, cy + half}
}

func trajectoryBounds(states []nbody.System) (bounds, bool) {
	b := bounds{math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)}
	found := false
	for _, s := range states {
		for _, body := range s {
			if !body.Pos.IsFinite() {
				continue
			}
			found = true
			b.minX = math.Min(b.minX, body.Pos.X)
			b.maxX = math.Max(b.maxX, body.Pos.X)
			b.minY = math.Min(b.minY, body.Pos.Y)
			b.maxY = math.Max(b.maxY, body.Pos.Y)
		}
	}
	return b, found
}

// TrajectoriesSVG writes one path per body plus a marker at each body's
// final position. Non-finite samples break the path.
func TrajectoriesSVG(w io.Writer, states []nbody.System, size int) error {
	if len(states) == 0 {
		return fmt.Errorf("no states to render")
	}
	b, ok := trajectoryBounds(states)
	if !ok {
		return fmt.Errorf("no finite positions to render")
	}
	b = b.pad()

	scale := float64(size) / (b.maxX - b.minX)
	project := func(p nbody.Vec2) (float64, float64) {
		return (p.X - b.minX) * scale, float64(size) - (p.Y-b.minY)*scale
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, size, size, size, size)

	final := states[len(states)-1]
	for i := range final {
		color := palette[i%len(palette)]

		var d strings.Builder
		move := true
		for _, s := range states {
			if i >= len(s) || !s[i].Pos.IsFinite() {
				move = true
				continue
			}
			x, y := project(s[i].Pos)
			if move {
				fmt.Fprintf(&d, "M%.1f,%.1f ", x, y)
				move = false
			} else {
				fmt.Fprintf(&d, "L%.1f,%.1f ", x, y)
			}
		}
		if d.Len() > 0 {
			fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" stroke-opacity="0.8" d="%s"/>
`, color, strings.TrimSpace(d.String()))
		}

		if final[i].Pos.IsFinite() {
			x, y := project(final[i].Pos)
			r := 2 + 2*math.Log1p(final[i].Mass)
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, x, y, r, color)
		}
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}
