package viz

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/nbody/internal/integrators"
	"github.com/san-kum/nbody/internal/nbody"
)

func isSet(c *Canvas, x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func TestCanvasSetAndClear(t *testing.T) {
	c := NewCanvas(4, 2)
	if c.DotsX() != 8 || c.DotsY() != 8 {
		t.Fatalf("dots = %dx%d", c.DotsX(), c.DotsY())
	}

	c.Set(0, 0)
	c.Set(3, 5)
	c.Set(-1, 2)
	c.Set(100, 1)

	if !isSet(c, 0, 0) || !isSet(c, 3, 5) {
		t.Error("expected dots to be set")
	}
	if isSet(c, 1, 0) {
		t.Error("unexpected dot")
	}
	if c.Grid[0][0] != brailleBlank|0x1 {
		t.Errorf("cell = %U", c.Grid[0][0])
	}

	c.Clear()
	if isSet(c, 0, 0) {
		t.Error("clear left dots behind")
	}
	if got := strings.Count(c.String(), "\n"); got != 1 {
		t.Errorf("newlines = %d, want 1", got)
	}
}

func TestDrawLine(t *testing.T) {
	c := NewCanvas(5, 2)
	c.DrawLine(0, 0, 7, 7)
	for i := 0; i <= 7; i++ {
		if !isSet(c, i, i) {
			t.Errorf("diagonal dot %d missing", i)
		}
	}
}

func TestViewportProject(t *testing.T) {
	c := NewCanvas(20, 10)
	s := nbody.System{
		{Mass: 1, Pos: nbody.Vec2{X: -1}},
		{Mass: 1, Pos: nbody.Vec2{X: 1}},
	}
	v := FitViewport(s, c)
	if v.Center != (nbody.Vec2{}) {
		t.Errorf("center = %v", v.Center)
	}

	for _, b := range s {
		if _, _, ok := v.Project(b.Pos, c); !ok {
			t.Errorf("body at %v projected off canvas", b.Pos)
		}
	}

	x, y, ok := v.Project(nbody.Vec2{}, c)
	if !ok || x != c.DotsX()/2 || y != c.DotsY()/2 {
		t.Errorf("origin -> (%d, %d, %v)", x, y, ok)
	}

	xr, _, _ := v.Project(nbody.Vec2{X: 1}, c)
	if xr <= x {
		t.Error("positive x should map right")
	}
	_, yu, _ := v.Project(nbody.Vec2{Y: 0.5}, c)
	if yu >= y {
		t.Error("positive y should map up")
	}

	if _, _, ok := v.Zoom(100).Project(nbody.Vec2{X: 1}, c); ok {
		t.Error("zoomed point should leave the canvas")
	}
}

func TestViewportDrawPath(t *testing.T) {
	c := NewCanvas(20, 10)
	v := Viewport{Scale: 4}

	// (20,20) to (28,20) in dots: joined by a line.
	v.DrawPath(c, []nbody.Vec2{{X: 0}, {X: 2}})
	for x := 20; x <= 28; x++ {
		if !isSet(c, x, 20) {
			t.Errorf("dot (%d, 20) missing from joined path", x)
		}
	}

	// A jump longer than maxJoin is left as two separate dots.
	c.Clear()
	v.DrawPath(c, []nbody.Vec2{{X: -4}, {X: 4}})
	if !isSet(c, 4, 20) || !isSet(c, 36, 20) {
		t.Error("endpoints missing")
	}
	if isSet(c, 20, 20) {
		t.Error("long jump should not be joined")
	}

	// Off-canvas points break the path.
	c.Clear()
	v.DrawPath(c, []nbody.Vec2{{X: 1}, {X: 100}, {X: 2}})
	if !isSet(c, 24, 20) || !isSet(c, 28, 20) || isSet(c, 26, 20) {
		t.Error("path should restart after leaving the canvas")
	}
}

func threeBody() nbody.System {
	return nbody.System{
		{Mass: 1, Pos: nbody.Vec2{X: -1}, Vel: nbody.Vec2{X: 0.3, Y: 0.2}},
		{Mass: 1, Pos: nbody.Vec2{X: 1}, Vel: nbody.Vec2{X: -0.3, Y: 0.2}},
		{Mass: 1, Pos: nbody.Vec2{Y: 0.8}, Vel: nbody.Vec2{Y: -0.4}},
	}
}

func TestLiveModelStepsAndResets(t *testing.T) {
	initial := threeBody()
	m := NewLiveModel("three_body", &integrators.Leapfrog{}, nbody.Pairwise{}, nbody.DefaultParams(), initial, 0.01)

	next, cmd := m.Update(TickMsg{})
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	m = next.(LiveModel)

	_, tm := m.State()
	if tm <= 0 {
		t.Fatalf("time did not advance: %v", tm)
	}
	if initial[0].Pos != (nbody.Vec2{X: -1}) {
		t.Error("initial system was mutated")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = next.(LiveModel)
	s, tm := m.State()
	if tm != 0 || s[0].Pos != initial[0].Pos {
		t.Errorf("reset: t=%v pos=%v", tm, s[0].Pos)
	}
	if m.Drift() != 0 {
		t.Errorf("drift after reset = %v", m.Drift())
	}
}

func TestLiveModelPause(t *testing.T) {
	m := NewLiveModel("binary", &integrators.Euler{}, nil, nbody.DefaultParams(), threeBody(), 0.01)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}})
	m = next.(LiveModel)
	if m.running {
		t.Fatal("space should pause")
	}

	next, _ = m.Update(TickMsg{})
	m = next.(LiveModel)
	if _, tm := m.State(); tm != 0 {
		t.Errorf("paused model advanced to %v", tm)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	m = next.(LiveModel)
	if _, tm := m.State(); tm != 0.01 {
		t.Errorf("single step t = %v", tm)
	}

	out := m.View()
	for _, want := range []string{"BINARY", "PAUSED", "euler", "pairwise"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestLiveModelQuit(t *testing.T) {
	m := NewLiveModel("x", &integrators.Euler{}, nil, nbody.DefaultParams(), threeBody(), 0.01)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestSparklineChart(t *testing.T) {
	if got := SparklineChart(nil, 3); got != "───" {
		t.Errorf("empty = %q", got)
	}
	out := SparklineChart([]float64{1, 2, 3, 4, 5}, 3)
	if n := strings.Count(out, "▁") + strings.Count(out, "█") + strings.Count(out, "▄"); n != 3 {
		t.Errorf("sparkline %q", out)
	}
}
