package tui

import (
	"bufio"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pioneer-ms/pioneerctl/internal/stream"
)

// LineMsg carries one parsed run-log line into the model.
type LineMsg struct {
	Line stream.Line
}

// TickMsg drives log polling.
type TickMsg time.Time

func pollTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Tailer follows a run log file, yielding lines in the supervisor's
// `"{stream}: {text}"` format.
type Tailer struct {
	file   *os.File
	reader *bufio.Reader
}

// NewTailer opens the log at path, reading from the beginning.
func NewTailer(path string) (*Tailer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Tailer{
		file:   f,
		reader: bufio.NewReader(f),
	}, nil
}

// ReadAvailable reads all complete lines currently in the file and returns
// them as tea.Cmds. EOF just means nothing new yet; the next tick retries.
func (t *Tailer) ReadAvailable() []tea.Cmd {
	var cmds []tea.Cmd
	for {
		raw, err := t.reader.ReadString('\n')
		if strings.HasSuffix(raw, "\n") {
			line := ParseLogLine(strings.TrimRight(raw, "\n"))
			cmds = append(cmds, func() tea.Msg { return LineMsg{Line: line} })
		}
		if err != nil {
			if err != io.EOF {
				cmds = append(cmds, func() tea.Msg { return tailErrMsg{err} })
			}
			break
		}
	}
	return cmds
}

// Close releases the underlying file.
func (t *Tailer) Close() {
	if t.file != nil {
		t.file.Close()
	}
}

type tailErrMsg struct{ err error }

// ParseLogLine splits a `"{stream}: {text}"` log line back into a tagged
// line. Lines without a recognized prefix are attributed to stdout so a
// hand-edited log still renders.
func ParseLogLine(s string) stream.Line {
	for _, name := range []string{stream.Stdout, stream.Stderr} {
		prefix := name + ": "
		if strings.HasPrefix(s, prefix) {
			return stream.Line{Stream: name, Text: strings.TrimPrefix(s, prefix)}
		}
	}
	return stream.Line{Stream: stream.Stdout, Text: s}
}
