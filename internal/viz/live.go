// Package viz renders a live terminal view of a running single-cell
// simulation.
package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/finitewave/bocf/internal/cell"
	"github.com/finitewave/bocf/internal/model"
)

const (
	graphWidth      = 80
	graphHeight     = 14
	historyCapacity = 2000
	stepsPerFrame   = 50
)

type TickMsg time.Time

// Model holds the running simulation and the rolling trace buffer.
type Model struct {
	sys      cell.System
	integ    cell.Integrator
	protocol cell.Protocol
	state    cell.State
	initial  cell.State
	t, dt    float64
	paramSet string
	history  []float64
	running  bool
	lastStim float64
}

// NewModel initializes the live view.
func NewModel(sys cell.System, integ cell.Integrator, protocol cell.Protocol, x0 cell.State, dt float64, paramSet string) Model {
	return Model{
		sys:      sys,
		integ:    integ,
		protocol: protocol,
		state:    x0.Clone(),
		initial:  x0.Clone(),
		dt:       dt,
		paramSet: paramSet,
		history:  make([]float64, 0, historyCapacity),
		running:  true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.state = m.initial.Clone()
			m.t = 0
			m.history = m.history[:0]
		}
	case TickMsg:
		if m.running {
			m.advance()
		}
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) advance() {
	for i := 0; i < stepsPerFrame; i++ {
		iStim := m.protocol.Current(m.state, m.t)
		m.state = m.integ.Step(m.sys, m.state, iStim, m.t, m.dt)
		m.t += m.dt
		m.lastStim = iStim
	}
	m.history = append(m.history, m.state[model.VarU])
	if len(m.history) > historyCapacity {
		m.history = m.history[len(m.history)-historyCapacity:]
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("bocf live — %s parameter set", m.paramSet)))
	b.WriteString("\n")

	if len(m.history) > 1 {
		plot := m.history
		if len(plot) > graphWidth*4 {
			plot = plot[len(plot)-graphWidth*4:]
		}
		graph := asciigraph.Plot(plot,
			asciigraph.Height(graphHeight),
			asciigraph.Width(graphWidth),
			asciigraph.Caption("membrane potential u"),
		)
		b.WriteString(graphStyle.Render(graph))
		b.WriteString("\n")
	}

	rows := []struct {
		label string
		value float64
	}{
		{"t (ms)", m.t},
		{"u", m.state[model.VarU]},
		{"v", m.state[model.VarV]},
		{"w", m.state[model.VarW]},
		{"s", m.state[model.VarS]},
	}
	for _, row := range rows {
		b.WriteString(labelStyle.Render(row.label))
		b.WriteString(valueStyle.Render(fmt.Sprintf("%10.4f", row.value)))
		b.WriteString("\n")
	}
	if m.lastStim != 0 {
		b.WriteString(stimStyle.Render("stimulus on"))
		b.WriteString("\n")
	}

	status := "running"
	if !m.running {
		status = "paused"
	}
	b.WriteString(helpStyle.Render(fmt.Sprintf("[%s]  space pause · r reset · q quit", status)))

	return b.String()
}
