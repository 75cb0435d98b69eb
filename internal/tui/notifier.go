package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pioneer-ms/pioneerctl/internal/run"
	"github.com/pioneer-ms/pioneerctl/internal/stream"
)

// sender is the slice of *tea.Program the bridge needs; a seam for tests.
type sender interface {
	Send(tea.Msg)
}

// Notifier forwards run events into a bubbletea program as messages. It is
// safe to call from the supervising goroutine; Program.Send is concurrency
// safe. Delivery never fails from the runner's perspective.
type Notifier struct {
	program sender
}

// NewNotifier wraps a bubbletea program as a run.Notifier.
func NewNotifier(p sender) *Notifier {
	return &Notifier{program: p}
}

var _ run.Notifier = (*Notifier)(nil)

func (n *Notifier) RunStarted(s run.Started) error {
	n.program.Send(StartedMsg{Started: s})
	return nil
}

func (n *Notifier) Line(l run.LogLine) error {
	n.program.Send(LineMsg{Line: stream.Line{Stream: l.Stream, Text: l.Line}})
	return nil
}

func (n *Notifier) Progress(p run.ProgressUpdate) error {
	n.program.Send(ProgressMsg{Update: p})
	return nil
}

func (n *Notifier) RunComplete(c run.Completion) error {
	n.program.Send(CompleteMsg{Completion: c})
	return nil
}

func (n *Notifier) TerminalWarning(message string) error {
	n.program.Send(WarningMsg{Message: message})
	return nil
}
