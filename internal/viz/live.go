// Package viz renders the simulation in the terminal. It is presentation
// glue only: it drives the engine once per frame and reads state through the
// engine's accessors, owning no physics.
package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/porfanid/N-Body-Simulator/internal/engine"
)

const (
	canvasWidth     = 70
	canvasHeight    = 28
	historyCapacity = 600
	minBodies       = 2
	maxBodies       = 500
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(44)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

var paramNames = []string{"G", "dt", "softening", "trail"}

// Model is the bubbletea program state for the live view.
type Model struct {
	eng    *engine.Engine
	canvas *Canvas

	bodies        int
	fps           int
	t             float64
	paused        bool
	showTrails    bool
	showVectors   bool
	selected      int
	energyHistory []float64
}

func NewModel(eng *engine.Engine, fps int) Model {
	if fps <= 0 {
		fps = 60
	}
	return Model{
		eng:           eng,
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		bodies:        eng.NumBodies(),
		fps:           fps,
		showTrails:    true,
		energyHistory: make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "r":
			m.reset()
		case "t":
			m.showTrails = !m.showTrails
		case "v":
			m.showVectors = !m.showVectors
		case "b":
			m.cycleBoundaryMode()
		case "+", "=":
			if m.bodies < maxBodies {
				m.bodies++
				m.reset()
			}
		case "-", "_":
			if m.bodies > minBodies {
				m.bodies--
				m.reset()
			}
		case "tab":
			m.selected = (m.selected + 1) % len(paramNames)
		case "up", "k":
			m.adjustParam(1)
		case "down", "j":
			m.adjustParam(-1)
		}
	case TickMsg:
		if !m.paused {
			m.eng.Step()
			m.eng.ApplyBoundary()
			m.t += m.eng.Dt()

			m.energyHistory = append(m.energyHistory, m.eng.TotalEnergy())
			if len(m.energyHistory) > historyCapacity {
				m.energyHistory = m.energyHistory[1:]
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) reset() {
	m.eng.Reset(m.bodies)
	m.t = 0
	m.energyHistory = m.energyHistory[:0]
}

func (m *Model) cycleBoundaryMode() {
	switch m.eng.Mode() {
	case engine.BoundaryBounce:
		m.eng.SetBoundaryMode(engine.BoundaryPeriodic)
	case engine.BoundaryPeriodic:
		m.eng.SetBoundaryMode(engine.BoundaryOpen)
	default:
		m.eng.SetBoundaryMode(engine.BoundaryBounce)
	}
}

func (m *Model) adjustParam(dir int) {
	factor := 1.05
	if dir < 0 {
		factor = 0.95
	}
	switch paramNames[m.selected] {
	case "G":
		m.eng.SetG(m.eng.G() * factor)
	case "dt":
		m.eng.SetDt(m.eng.Dt() * factor)
	case "softening":
		eps := m.eng.Softening() * factor
		if eps == 0 && dir > 0 {
			eps = 0.01
		}
		m.eng.SetSoftening(eps)
	case "trail":
		n := m.eng.MaxTrailLength() + 5*dir
		if n < 0 {
			n = 0
		}
		m.eng.SetMaxTrailLength(n)
	}
}

// project maps simulation coordinates onto canvas sub-pixels, y flipped.
func (m *Model) project(x, y float64) (int, int) {
	b := m.eng.Boundary()
	half := b / 2
	cw, ch := canvasWidth*2, canvasHeight*4
	px := int((x + half) / b * float64(cw-1))
	py := ch - 1 - int((y+half)/b*float64(ch-1))
	return px, py
}

func (m *Model) draw() {
	m.canvas.Clear()

	x0, y0 := m.project(-m.eng.Boundary()/2, m.eng.Boundary()/2)
	x1, y1 := m.project(m.eng.Boundary()/2, -m.eng.Boundary()/2)
	m.canvas.DrawBox(x0, y0, x1, y1)

	if m.showTrails {
		for i := 0; i < m.eng.NumBodies(); i++ {
			trail := m.eng.Trail(i)
			for j := 1; j < trail.Len(); j++ {
				ax, ay := m.project(trail.At(j-1).X, trail.At(j-1).Y)
				bx, by := m.project(trail.At(j).X, trail.At(j).Y)
				m.canvas.DrawLine(ax, ay, bx, by)
			}
		}
	}

	masses := m.eng.Masses()
	for i := 0; i < m.eng.NumBodies(); i++ {
		pos := m.eng.Position(i)
		px, py := m.project(pos.X, pos.Y)

		radius := 1
		if masses[i] > 5 {
			radius = 2
		}
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				m.canvas.Set(px+dx, py+dy)
			}
		}

		if m.showVectors {
			vel := m.eng.Velocity(i)
			m.canvas.DrawLine(px, py, px+int(vel.X*10), py-int(vel.Y*10))
		}
	}
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render("N-BODY SIMULATOR") + "\n")
	status := "RUNNING"
	if m.paused {
		status = "PAUSED"
	}
	s.WriteString(status + "\n\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory,
			asciigraph.Height(4),
			asciigraph.Width(30),
			asciigraph.Caption("Total energy"),
		)
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", m.t)) + "\n")
	s.WriteString(labelStyle.Render("Bodies") + valueStyle.Render(fmt.Sprintf("%d", m.eng.NumBodies())) + "\n")
	s.WriteString(labelStyle.Render("Backend") + valueStyle.Render(m.eng.Backend().Name()) + "\n")
	s.WriteString(labelStyle.Render("Boundary") + valueStyle.Render(m.eng.Mode().String()) + "\n")
	s.WriteString(labelStyle.Render("Kinetic") + valueStyle.Render(fmt.Sprintf("%.2f", m.eng.KineticEnergy())) + "\n")
	s.WriteString(labelStyle.Render("Potential") + valueStyle.Render(fmt.Sprintf("%.2f", m.eng.PotentialEnergy())) + "\n")
	s.WriteString(labelStyle.Render("Total") + valueStyle.Render(fmt.Sprintf("%.2f", m.eng.TotalEnergy())) + "\n")

	s.WriteString("\nPARAMETERS\n")
	values := []string{
		fmt.Sprintf("%.2f", m.eng.G()),
		fmt.Sprintf("%.4f", m.eng.Dt()),
		fmt.Sprintf("%.3f", m.eng.Softening()),
		fmt.Sprintf("%d", m.eng.MaxTrailLength()),
	}
	for i, name := range paramNames {
		line := fmt.Sprintf("%-10s %s", name, values[i])
		if i == m.selected {
			s.WriteString(activeStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + labelStyle.Render(line) + "\n")
		}
	}

	s.WriteString("\nHEAVIEST\n")
	s.WriteString(m.heaviestLegend())

	s.WriteString(helpStyle.Render("\nSP:Pause R:Reset Q:Quit B:Boundary\n+/-:Bodies T:Trails V:Vectors\nTab:Select ↑↓:Tune"))

	statsView := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}

// heaviestLegend lists the three most massive bodies with their color hints.
func (m Model) heaviestLegend() string {
	masses := m.eng.Masses()
	colors := m.eng.Colors()

	type entry struct {
		idx  int
		mass float64
	}
	top := make([]entry, 0, 3)
	for i, mass := range masses {
		top = append(top, entry{i, mass})
	}
	for i := 0; i < len(top); i++ {
		for j := i + 1; j < len(top); j++ {
			if top[j].mass > top[i].mass {
				top[i], top[j] = top[j], top[i]
			}
		}
	}
	if len(top) > 3 {
		top = top[:3]
	}

	var s strings.Builder
	for _, e := range top {
		c := colors[e.idx]
		swatch := lipgloss.NewStyle().
			Foreground(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B))).
			Render("●")
		s.WriteString(fmt.Sprintf("  %s body %-3d m=%.1f\n", swatch, e.idx, e.mass))
	}
	return s.String()
}

// Run starts the live view at the given frame rate.
func Run(eng *engine.Engine, fps int) error {
	p := tea.NewProgram(NewModel(eng, fps))
	_, err := p.Run()
	return err
}
