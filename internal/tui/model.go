// Package tui renders a live dashboard for a Pioneer run: current stage,
// progress, and a scrolling view of the captured log. It works in two
// modes: tailing an existing run log file, or receiving events directly
// from an in-process run via the Notifier bridge.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pioneer-ms/pioneerctl/internal/run"
	"github.com/pioneer-ms/pioneerctl/internal/stage"
	"github.com/pioneer-ms/pioneerctl/internal/stream"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	stageStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	stderrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	barFilled = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	barEmpty  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

// Live-run messages delivered through the Notifier bridge.
type (
	// StartedMsg announces the run acknowledgement.
	StartedMsg struct{ Started run.Started }
	// ProgressMsg carries a stage/progress update.
	ProgressMsg struct{ Update run.ProgressUpdate }
	// CompleteMsg carries the final outcome.
	CompleteMsg struct{ Completion run.Completion }
	// WarningMsg carries a non-fatal terminal warning.
	WarningMsg struct{ Message string }
)

// Model is the dashboard state.
type Model struct {
	mode   run.Mode
	tailer *Tailer // nil in live mode

	stageIndex int
	stageLabel string
	progress   float64
	warning    string
	completion *run.Completion

	lines []string
	vp    viewport.Model
	ready bool
}

// NewTailModel builds a dashboard that follows a run log file, re-deriving
// stage progress from the logged text.
func NewTailModel(mode run.Mode, tailer *Tailer) Model {
	return newModel(mode, tailer)
}

// NewLiveModel builds a dashboard fed by an in-process run via Notifier.
func NewLiveModel(mode run.Mode) Model {
	return newModel(mode, nil)
}

func newModel(mode run.Mode, tailer *Tailer) Model {
	stages := mode.Stages()
	return Model{
		mode:       mode,
		tailer:     tailer,
		stageLabel: stages[0].Label,
		progress:   stage.Progress(0, len(stages)),
	}
}

func (m Model) Init() tea.Cmd {
	if m.tailer != nil {
		return pollTick()
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := 4
		if !m.ready {
			m.vp = viewport.New(msg.Width, msg.Height-headerHeight)
			m.ready = true
		} else {
			m.vp.Width = msg.Width
			m.vp.Height = msg.Height - headerHeight
		}
		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.tailer != nil {
				m.tailer.Close()
			}
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		cmds = append(cmds, cmd)

	case TickMsg:
		if m.tailer != nil {
			cmds = append(cmds, m.tailer.ReadAvailable()...)
			cmds = append(cmds, pollTick())
		}

	case LineMsg:
		m.appendLine(msg.Line)
		// Tail mode has no event stream; infer stages from text the same
		// way the supervisor does.
		if m.tailer != nil {
			m.applyMatch(msg.Line.Text)
		}

	case StartedMsg:
		m.stageIndex = 0

	case ProgressMsg:
		m.stageLabel = msg.Update.StageLabel
		m.progress = msg.Update.Progress

	case CompleteMsg:
		c := msg.Completion
		m.completion = &c
		if c.Success {
			m.progress = 100
		}

	case WarningMsg:
		m.warning = msg.Message

	case tailErrMsg:
		m.warning = msg.err.Error()
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) applyMatch(text string) {
	stages := m.mode.Stages()
	if next, ok := stage.Match(text, m.stageIndex, stages); ok && next > m.stageIndex {
		m.stageIndex = next
		m.stageLabel = stages[next].Label
		m.progress = stage.Progress(next, len(stages))
	}
}

func (m *Model) appendLine(line stream.Line) {
	rendered := line.Text
	if line.Stream == stream.Stderr {
		rendered = stderrStyle.Render(line.Text)
	}
	m.lines = append(m.lines, rendered)
	m.refreshViewport()
}

func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.vp.SetContent(strings.Join(m.lines, "\n"))
	m.vp.GotoBottom()
}

func (m Model) View() string {
	if !m.ready {
		return "Starting dashboard...\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("pioneer %s", m.mode.Subcommand())))
	b.WriteString("\n")
	b.WriteString(renderBar(m.progress, m.vp.Width-8))
	b.WriteString(fmt.Sprintf(" %3.0f%%\n", m.progress))

	switch {
	case m.completion != nil && m.completion.Success:
		b.WriteString(doneStyle.Render("completed"))
	case m.completion != nil:
		b.WriteString(failStyle.Render(fmt.Sprintf("failed (exit %d)", m.completion.ExitCode)))
	default:
		b.WriteString(stageStyle.Render(m.stageLabel))
	}
	if m.warning != "" {
		b.WriteString(helpStyle.Render("  ⚠ " + m.warning))
	}
	b.WriteString("\n")
	b.WriteString(m.vp.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("q: quit  ↑/↓: scroll"))
	return b.String()
}

func renderBar(progress float64, width int) string {
	if width < 10 {
		width = 10
	}
	filled := int(progress / 100 * float64(width))
	if filled > width {
		filled = width
	}
	return barFilled.Render(strings.Repeat("█", filled)) +
		barEmpty.Render(strings.Repeat("░", width-filled))
}
