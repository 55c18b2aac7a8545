package viz

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/rigidlog/internal/dynamo"
	"github.com/san-kum/rigidlog/internal/metrics"
	"github.com/san-kum/rigidlog/internal/scenes"
)

const (
	canvasWidth     = 60
	canvasHeight    = 20
	historyCapacity = 600
)

// ProgressMsg carries the state recorded at one tick.
type ProgressMsg scenes.Progress

// DoneMsg ends the live view once the session has been closed.
type DoneMsg struct {
	Summary *scenes.Summary
	Err     error
}

// Live shows a recording run as it happens: a top-down view of the tracked
// bodies, progress and the kinetic energy history.
type Live struct {
	scene  string
	total  int
	cancel context.CancelFunc
	styles Styles

	canvas   *Canvas
	view     Viewport
	framed   bool
	last     scenes.Progress
	energy   []float64
	frame    int
	quitting bool

	done    bool
	summary *scenes.Summary
	err     error
}

// NewLive creates the model for a run of total ticks. cancel stops the run
// when the user quits early.
func NewLive(scene string, total int, cancel context.CancelFunc) Live {
	return Live{
		scene:  scene,
		total:  total,
		cancel: cancel,
		styles: Style,
		canvas: NewCanvas(canvasWidth, canvasHeight),
		energy: make([]float64, 0, historyCapacity),
	}
}

func (m Live) Init() tea.Cmd { return nil }

func (m Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			if m.done {
				return m, tea.Quit
			}
			// keep running until DoneMsg so the session is closed first
			m.quitting = true
			if m.cancel != nil {
				m.cancel()
			}
		}
	case ProgressMsg:
		m.last = scenes.Progress(msg)
		m.frame++
		if !m.framed {
			m.view = fit(m.last.Bodies)
			m.framed = true
		}
		m.energy = append(m.energy, metrics.Kinetic(velocities(m.last.Bodies)))
		if len(m.energy) > historyCapacity {
			m.energy = m.energy[len(m.energy)-historyCapacity:]
		}
	case DoneMsg:
		m.done = true
		m.summary = msg.Summary
		m.err = msg.Err
		return m, tea.Quit
	}
	return m, nil
}

// Result returns the run outcome once DoneMsg has been received.
func (m Live) Result() (*scenes.Summary, error) {
	return m.summary, m.err
}

func velocities(bodies []scenes.BodyState) []dynamo.Vec3 {
	v := make([]dynamo.Vec3, len(bodies))
	for i, b := range bodies {
		v[i] = b.Velocity
	}
	return v
}

// fit frames every body of the first tick with some margin.
func fit(bodies []scenes.BodyState) Viewport {
	if len(bodies) == 0 {
		return Viewport{-1, -1, 1, 1}
	}
	p := bodies[0].Position
	v := Viewport{p.X, p.Y, p.X, p.Y}
	for _, b := range bodies {
		hx, hy := extent(b.Shape)
		v = v.Expand(b.Position.X, b.Position.Y, hx)
		v = v.Expand(b.Position.X, b.Position.Y, hy)
	}
	return v.Pad(0.15)
}

func extent(s dynamo.Shape) (float64, float64) {
	switch s := s.(type) {
	case dynamo.Sphere:
		return s.Radius, s.Radius
	case dynamo.Box:
		return s.HalfExtents.X, s.HalfExtents.Y
	case dynamo.Capsule:
		return s.Radius, s.Radius
	}
	return 0, 0
}

func (m *Live) draw() {
	m.canvas.Clear()
	for _, b := range m.last.Bodies {
		x, y := m.view.Project(m.canvas, b.Position.X, b.Position.Y)
		switch s := b.Shape.(type) {
		case dynamo.Box:
			x0, y0 := m.view.Project(m.canvas, b.Position.X-s.HalfExtents.X, b.Position.Y-s.HalfExtents.Y)
			x1, y1 := m.view.Project(m.canvas, b.Position.X+s.HalfExtents.X, b.Position.Y+s.HalfExtents.Y)
			m.canvas.DrawRect(x0, y0, x1, y1)
		case dynamo.Sphere:
			m.canvas.DrawCircle(x, y, m.view.Length(m.canvas, s.Radius))
		default:
			m.canvas.Set(x, y)
		}
	}
}

func (m Live) View() string {
	m.draw()

	st := m.styles
	status := st.Success.Render(AnimatedSpinner(m.frame) + " RECORDING")
	switch {
	case m.done && m.err != nil:
		status = st.Error.Render("FAILED")
	case m.done:
		status = st.Success.Render("DONE")
	case m.quitting:
		status = st.Warning.Render("STOPPING")
	}

	var s strings.Builder
	s.WriteString(st.Header.Render(strings.ToUpper(m.scene)) + "\n")
	s.WriteString(status + "\n\n")

	pct := 0.0
	if m.total > 0 {
		pct = float64(m.last.Step) / float64(m.total)
	}
	s.WriteString(st.ProgressBar(pct, 30) + fmt.Sprintf(" %3.0f%%\n\n", pct*100))
	s.WriteString(st.KV("Tick", fmt.Sprintf("%d / %d", m.last.Step, m.total)) + "\n")
	s.WriteString(st.KV("Sim time", fmt.Sprintf("%.2fs", m.last.Time)) + "\n")
	s.WriteString(st.KV("Bodies", len(m.last.Bodies)) + "\n")
	if n := len(m.energy); n > 0 {
		s.WriteString(st.KV("Kinetic", fmt.Sprintf("%.4f", m.energy[n-1])) + "\n")
	}
	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString("\n" + st.Graph.Render(chart) + "\n")
	}
	if m.summary != nil && m.summary.RowLog != "" {
		s.WriteString("\n" + st.KV("Row log", m.summary.RowLog) + "\n")
	}
	if m.err != nil {
		s.WriteString("\n" + st.Error.Render(m.err.Error()) + "\n")
	}
	s.WriteString("\n" + st.Subtle.Render("q: stop"))

	canvasView := st.Panel.Render(m.canvas.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, "  ", s.String())
}
