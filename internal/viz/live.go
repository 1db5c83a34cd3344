package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/nbody/internal/nbody"
)

const (
	canvasWidth     = 60
	canvasHeight    = 22
	historyCapacity = 600
	trailCapacity   = 400
	maxStepsPerTick = 256
)

type TickMsg time.Time

// LiveModel steps a system on every tick and draws it. All state lives in
// the model; Update returns the modified copy as bubbletea expects.
type LiveModel struct {
	name       string
	integrator nbody.Integrator
	field      nbody.ForceField
	params     nbody.Params

	initial nbody.System
	state   nbody.System
	t, dt   float64
	steps   int

	stepsPerTick int
	running      bool
	diverged     bool
	showTrails   bool
	showHelp     bool

	canvas   *Canvas
	view     Viewport
	trails   [][]nbody.Vec2
	energy0  float64
	energies []float64
}

func NewLiveModel(name string, integ nbody.Integrator, field nbody.ForceField, p nbody.Params, initial nbody.System, dt float64) LiveModel {
	if field == nil {
		field = nbody.Pairwise{}
	}
	m := LiveModel{
		name:         name,
		integrator:   integ,
		field:        field,
		params:       p,
		initial:      initial.Clone(),
		dt:           dt,
		stepsPerTick: 4,
		running:      true,
		showTrails:   true,
		canvas:       NewCanvas(canvasWidth, canvasHeight),
	}
	m.reset()
	return m
}

func (m LiveModel) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "n":
			if !m.running {
				m.advance(1)
			}
		case "+", "=":
			m.view = m.view.Zoom(1.25)
		case "-", "_":
			m.view = m.view.Zoom(0.8)
		case "]":
			m.stepsPerTick = min(m.stepsPerTick*2, maxStepsPerTick)
		case "[":
			m.stepsPerTick = max(m.stepsPerTick/2, 1)
		case "t":
			m.showTrails = !m.showTrails
		case "c":
			m.view = FitViewport(m.state, m.canvas)
		case "?":
			m.showHelp = !m.showHelp
		}
		return m, nil
	case TickMsg:
		if m.running {
			m.advance(m.stepsPerTick)
		}
		return m, tick()
	}
	return m, nil
}

// advance runs n integrator steps and stops on the first non-finite state.
func (m *LiveModel) advance(n int) {
	if m.diverged {
		return
	}
	for range n {
		next := m.integrator.Step(m.state, m.dt, m.params, m.field)
		if !next.IsValid() {
			m.diverged = true
			m.running = false
			return
		}
		m.state = next
		m.t += m.dt
		m.steps++
		m.record()
	}
	m.energies = appendCapped(m.energies, m.state.Energy(m.params), historyCapacity)
}

func (m *LiveModel) record() {
	for i, b := range m.state {
		m.trails[i] = appendCapped(m.trails[i], b.Pos, trailCapacity)
	}
}

func appendCapped[T any](s []T, v T, capacity int) []T {
	s = append(s, v)
	if len(s) > capacity {
		s = s[len(s)-capacity:]
	}
	return s
}

func (m *LiveModel) reset() {
	m.state = m.initial.Clone()
	m.t = 0
	m.steps = 0
	m.diverged = false
	m.trails = make([][]nbody.Vec2, m.state.Len())
	m.energy0 = m.state.Energy(m.params)
	m.energies = []float64{m.energy0}
	m.view = FitViewport(m.state, m.canvas)
	m.record()
}

// State returns the current system and simulated time.
func (m LiveModel) State() (nbody.System, float64) {
	return m.state, m.t
}

// Drift is the relative energy change since the last reset.
func (m LiveModel) Drift() float64 {
	e := m.energies[len(m.energies)-1]
	if m.energy0 == 0 {
		return math.Abs(e)
	}
	return math.Abs((e - m.energy0) / m.energy0)
}

func (m *LiveModel) draw() {
	m.canvas.Clear()
	if m.showTrails {
		for _, trail := range m.trails {
			m.view.DrawPath(m.canvas, trail)
		}
	}
	for _, b := range m.state {
		if x, y, ok := m.view.Project(b.Pos, m.canvas); ok {
			m.canvas.Blob(x, y, 1)
		}
	}
}

func (m LiveModel) View() string {
	m.draw()

	status := StatusRunning.Render("RUNNING")
	switch {
	case m.diverged:
		status = StatusDiverged.Render("DIVERGED")
	case !m.running:
		status = StatusPaused.Render("PAUSED")
	}

	var stats strings.Builder
	stats.WriteString(TitleStyle.Render(strings.ToUpper(m.name)) + "  " + status + "\n\n")
	stats.WriteString(Metric("Integrator", m.integrator.Name()) + "\n")
	stats.WriteString(Metric("Field", m.field.Name()) + "\n")
	stats.WriteString(Metric("Bodies", fmt.Sprintf("%d", m.state.Len())) + "\n")
	stats.WriteString(Metric("Time", fmt.Sprintf("%.3f", m.t)) + "\n")
	stats.WriteString(Metric("Steps", fmt.Sprintf("%d (x%d)", m.steps, m.stepsPerTick)) + "\n")
	stats.WriteString(Metric("Energy", fmt.Sprintf("%.6g", m.energies[len(m.energies)-1])) + "\n")
	stats.WriteString(Metric("Drift", fmt.Sprintf("%.3e", m.Drift())) + "\n")
	stats.WriteString(Metric("Ang. mom.", fmt.Sprintf("%.6g", m.state.AngularMomentum())) + "\n")
	stats.WriteString(Metric("Zoom", fmt.Sprintf("%.3g", m.view.Scale)) + "\n\n")

	if len(m.energies) > 1 {
		stats.WriteString(asciigraph.Plot(m.energies,
			asciigraph.Height(5), asciigraph.Width(32), asciigraph.Caption("energy")) + "\n")
	}
	stats.WriteString(SparklineChart(m.energies, 32))

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		GlassPanel.Render(CanvasStyle.Render(m.canvas.String())),
		GlassPanel.Render(stats.String()),
	)

	help := KeyHint.Render("space pause  n step  r reset  +/- zoom  [/] speed  t trails  c centre  ? help  q quit")
	if m.showHelp {
		help = KeyHint.Render(strings.Join([]string{
			"space  pause or resume",
			"n      single step while paused",
			"r      restore the initial system",
			"+ -    zoom in or out",
			"[ ]    halve or double steps per frame",
			"t      toggle trails",
			"c      refit the view around the center of mass",
			"q      quit",
		}, "\n"))
	}
	return body + "\n" + help + "\n"
}
