package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pioneer-ms/pioneerctl/internal/run"
	"github.com/pioneer-ms/pioneerctl/internal/stream"
)

func TestParseLogLine(t *testing.T) {
	tests := []struct {
		in         string
		wantStream string
		wantText   string
	}{
		{"stdout: reading files", "stdout", "reading files"},
		{"stderr: warning: low memory", "stderr", "warning: low memory"},
		{"no prefix at all", "stdout", "no prefix at all"},
		{"stdout: ", "stdout", ""},
	}
	for _, tt := range tests {
		got := ParseLogLine(tt.in)
		if got.Stream != tt.wantStream || got.Text != tt.wantText {
			t.Errorf("ParseLogLine(%q) = %+v, want {%s %s}", tt.in, got, tt.wantStream, tt.wantText)
		}
	}
}

func TestTailerReadsCompleteLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.log")
	content := "stdout: one\nstderr: two\nstdout: partial"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	tailer, err := NewTailer(path)
	if err != nil {
		t.Fatalf("NewTailer: %v", err)
	}
	defer tailer.Close()

	var lines []stream.Line
	for _, cmd := range tailer.ReadAvailable() {
		if msg, ok := cmd().(LineMsg); ok {
			lines = append(lines, msg.Line)
		}
	}
	if len(lines) != 2 {
		t.Fatalf("read %d lines, want 2 (partial line withheld)", len(lines))
	}
	if lines[0].Text != "one" || lines[1].Stream != "stderr" {
		t.Errorf("lines = %+v", lines)
	}

	// Completing the partial line makes it available on the next poll.
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := f.WriteString(" done\n"); err != nil {
		t.Fatalf("append: %v", err)
	}
	f.Close()

	cmds := tailer.ReadAvailable()
	if len(cmds) != 1 {
		t.Fatalf("second poll read %d lines, want 1", len(cmds))
	}
	if msg := cmds[0]().(LineMsg); msg.Line.Text != "partial done" {
		t.Errorf("completed line = %+v, want %q", msg.Line, "partial done")
	}
}

func sized(t *testing.T, m Model) Model {
	t.Helper()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(Model)
}

func TestTailModelInfersStagesFromLog(t *testing.T) {
	m := sized(t, NewTailModel(run.ModeSearchDIA, &Tailer{}))

	for _, text := range []string{"reading raw files", "presearch tuning", "loading again"} {
		updated, _ := m.Update(LineMsg{Line: stream.Line{Stream: "stdout", Text: text}})
		m = updated.(Model)
	}

	if m.stageIndex != 2 {
		t.Errorf("stageIndex = %d, want 2 (presearch, no regression on %q)", m.stageIndex, "loading again")
	}
	if !strings.Contains(m.View(), "Tuning search parameters") {
		t.Errorf("view does not show the presearch stage label:\n%s", m.View())
	}
}

func TestLiveModelUsesEventProgress(t *testing.T) {
	m := sized(t, NewLiveModel(run.ModeBuildSpecLib))

	updated, _ := m.Update(ProgressMsg{Update: run.ProgressUpdate{
		Mode: run.ModeBuildSpecLib, StageKey: "predict",
		StageLabel: "Predicting spectral library", Progress: 50,
	}})
	m = updated.(Model)

	// Live mode takes progress from events, not from text matching.
	updated, _ = m.Update(LineMsg{Line: stream.Line{Stream: "stdout", Text: "writing library"}})
	m = updated.(Model)
	if m.progress != 50 {
		t.Errorf("progress = %v, want 50 (event-driven only)", m.progress)
	}

	updated, _ = m.Update(CompleteMsg{Completion: run.Completion{Success: true, ExitCode: 0}})
	m = updated.(Model)
	if m.progress != 100 || !strings.Contains(m.View(), "completed") {
		t.Errorf("completed view missing: progress=%v\n%s", m.progress, m.View())
	}
}

func TestModelShowsFailure(t *testing.T) {
	m := sized(t, NewLiveModel(run.ModeSearchDIA))
	updated, _ := m.Update(CompleteMsg{Completion: run.Completion{Success: false, ExitCode: 2}})
	m = updated.(Model)
	if !strings.Contains(m.View(), "failed (exit 2)") {
		t.Errorf("failure view missing exit code:\n%s", m.View())
	}
}

type fakeProgram struct{ msgs []tea.Msg }

func (f *fakeProgram) Send(msg tea.Msg) { f.msgs = append(f.msgs, msg) }

func TestNotifierBridgesAllEvents(t *testing.T) {
	p := &fakeProgram{}
	n := NewNotifier(p)

	if err := n.RunStarted(run.Started{Mode: run.ModeSearchDIA}); err != nil {
		t.Fatalf("RunStarted: %v", err)
	}
	if err := n.Line(run.LogLine{Stream: "stdout", Line: "x"}); err != nil {
		t.Fatalf("Line: %v", err)
	}
	if err := n.Progress(run.ProgressUpdate{Progress: 25}); err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if err := n.TerminalWarning("w"); err != nil {
		t.Fatalf("TerminalWarning: %v", err)
	}
	if err := n.RunComplete(run.Completion{Success: true}); err != nil {
		t.Fatalf("RunComplete: %v", err)
	}

	if len(p.msgs) != 5 {
		t.Fatalf("bridged %d messages, want 5", len(p.msgs))
	}
	if _, ok := p.msgs[0].(StartedMsg); !ok {
		t.Errorf("first message = %T, want StartedMsg", p.msgs[0])
	}
	if msg, ok := p.msgs[4].(CompleteMsg); !ok || !msg.Completion.Success {
		t.Errorf("last message = %#v, want successful CompleteMsg", p.msgs[4])
	}
}
