// Package control is the terminal front panel for live bit crusher control.
// It runs on the UI goroutine and writes parameters while audio is processed
// on another.
package control

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cwbudde/algo-lofi/dsp/effects"
)

const (
	driveStep   = 0.05
	gainStep    = 0.05
	maxGain     = 2.0
	barWidth    = 20
	refreshRate = 100 * time.Millisecond

	defaultDrive = 0.5
	defaultGain  = 1.0
)

// ParamSetter is the live control surface of the effect.
type ParamSetter interface {
	SetDrive(drive float32)
	SetOutputGain(gain float32)
	Drive() float32
	OutputGain() float32
	Mapping() effects.Mapping
}

// Counters reports stream progress.
type Counters interface {
	Processed() uint64
	Skipped() uint64
}

type tickMsg time.Time

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff9f"))
	labelStyle = lipgloss.NewStyle().Bold(true)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6e7681"))
)

// Model holds the TUI state.
type Model struct {
	params   ParamSetter
	counters Counters
	title    string

	processed uint64
	skipped   uint64
	quitting  bool
}

// NewModel creates a model bound to params. counters may be nil.
func NewModel(title string, params ParamSetter, counters Counters) Model {
	return Model{title: title, params: params, counters: counters}
}

// Init starts the refresh ticker.
func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tickMsg:
		if m.counters != nil {
			m.processed = m.counters.Processed()
			m.skipped = m.counters.Skipped()
		}

		return m, tick()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit
	case "right", "l":
		m.params.SetDrive(m.params.Drive() + driveStep)
	case "left", "h":
		m.params.SetDrive(m.params.Drive() - driveStep)
	case "up", "k":
		m.params.SetOutputGain(m.params.OutputGain() + gainStep)
	case "down", "j":
		m.params.SetOutputGain(m.params.OutputGain() - gainStep)
	case "r":
		m.params.SetDrive(defaultDrive)
		m.params.SetOutputGain(defaultGain)
	}

	return m, nil
}

// Quitting reports whether the user asked to leave.
func (m Model) Quitting() bool { return m.quitting }

// View renders the panel.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	mp := m.params.Mapping()
	gain := m.params.OutputGain()

	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title) + "\n\n")
	fmt.Fprintf(&b, "%s %s %.2f\n", labelStyle.Render("Drive "), renderBar(float64(mp.Drive), 1, barWidth), mp.Drive)
	fmt.Fprintf(&b, "%s %s %.2f\n\n", labelStyle.Render("Gain  "), renderBar(float64(gain), maxGain, barWidth), gain)
	fmt.Fprintf(&b, "bit depth %5.2f   levels %5d   hold %2d\n", mp.BitDepth, mp.Levels, mp.Downsample)
	fmt.Fprintf(&b, "blocks %d   skipped %d\n\n", m.processed, m.skipped)
	b.WriteString(helpStyle.Render("←/→ drive  ↑/↓ gain  r reset  q quit"))
	b.WriteString("\n")

	return b.String()
}

func tick() tea.Cmd {
	return tea.Tick(refreshRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func renderBar(value, maxValue float64, width int) string {
	if maxValue <= 0 {
		return strings.Repeat("░", width)
	}

	filled := int(value / maxValue * float64(width))
	filled = max(0, min(filled, width))

	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// Run shows the panel until the user quits.
func Run(title string, params ParamSetter, counters Counters) error {
	_, err := tea.NewProgram(NewModel(title, params, counters), tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("control: %w", err)
	}

	return nil
}
