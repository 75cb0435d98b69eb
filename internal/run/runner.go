package run

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/pioneer-ms/pioneerctl/internal/stage"
	"github.com/pioneer-ms/pioneerctl/internal/stream"
)

// execCommand is a seam for tests to substitute the spawned process.
var execCommand = exec.Command

// Options configures one supervised run.
type Options struct {
	// Binary is the resolved path to the Pioneer executable.
	Binary string

	// Mode selects the subcommand and stage table.
	Mode Mode

	// ConfigPath is the rendered parameter file handed to the tool.
	ConfigPath string

	// LogPath is the append-only run log; created (truncated) at start.
	LogPath string

	// PersistedPath, if set, is echoed in the Started acknowledgement.
	PersistedPath string

	// Notifier receives run events. Nil means discard.
	Notifier Notifier

	// OpenTerminal, if non-nil, is invoked once with LogPath to open a
	// companion terminal view. Failure produces a terminal-warning event
	// and nothing else.
	OpenTerminal func(logPath string) error
}

// Handle tracks an in-flight run. The caller that started the run is the
// only owner; Wait may be called once.
type Handle struct {
	// Started is the acknowledgement payload, valid as soon as Start
	// returns.
	Started Started

	done       chan struct{}
	completion Completion
	err        error
}

// Wait blocks until the child has exited and both output streams are fully
// drained, then returns the final completion. err is an *ExitError when the
// run failed.
func (h *Handle) Wait() (Completion, error) {
	<-h.done
	return h.completion, h.err
}

// Done exposes completion for select-based callers; closed after the final
// event has been emitted.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Start launches a Pioneer run and supervises it on a dedicated goroutine.
// The log file is created and the child spawned before Start returns, so
// spawn and log-creation failures surface synchronously and no run is
// acknowledged for them. Everything afterwards — output draining, stage
// tracking, the final completion event — happens off the caller's goroutine.
func Start(opts Options) (*Handle, error) {
	notify := opts.Notifier
	if notify == nil {
		notify = NopNotifier{}
	}

	logFile, err := os.OpenFile(opts.LogPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLogCreate, err)
	}

	cmd := execCommand(opts.Binary, opts.Mode.Subcommand(), opts.ConfigPath)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("%w: %v", ErrSpawn, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("%w: %v", ErrSpawn, err)
	}
	if err := cmd.Start(); err != nil {
		logFile.Close()
		return nil, fmt.Errorf("%w: %v", ErrSpawn, err)
	}

	h := &Handle{
		Started: Started{
			Mode:          opts.Mode,
			LogPath:       opts.LogPath,
			ConfigPath:    opts.ConfigPath,
			PersistedPath: opts.PersistedPath,
		},
		done: make(chan struct{}),
	}

	_ = notify.RunStarted(h.Started)

	lines := stream.Multiplex(stdout, stderr)

	go func() {
		defer close(h.done)
		defer logFile.Close()

		if opts.OpenTerminal != nil {
			if err := opts.OpenTerminal(opts.LogPath); err != nil {
				_ = notify.TerminalWarning(fmt.Sprintf("could not launch external terminal: %v", err))
			}
		}

		stages := opts.Mode.Stages()
		index := 0
		h.sendProgress(notify, stages, index)

		for line := range lines {
			// Log appends are best-effort once the run is live; a full
			// disk should not kill a day-long search.
			fmt.Fprintf(logFile, "%s: %s\n", line.Stream, line.Text)

			_ = notify.Line(LogLine{Mode: opts.Mode, Stream: line.Stream, Line: line.Text})

			if next, ok := stage.Match(line.Text, index, stages); ok && next > index {
				index = next
				h.sendProgress(notify, stages, index)
			}
		}

		// Pipes are closed; the exit status is now the authoritative
		// outcome regardless of what the log text claimed.
		waitErr := cmd.Wait()
		if waitErr == nil {
			index = len(stages) - 1
			h.sendProgress(notify, stages, index)
			h.completion = Completion{Mode: opts.Mode, Success: true, ExitCode: 0}
			_ = notify.RunComplete(h.completion)
			return
		}

		code := -1
		if exitErr, ok := waitErr.(*exec.ExitError); ok && exitErr.ExitCode() >= 0 {
			code = exitErr.ExitCode()
		}
		h.err = &ExitError{Mode: opts.Mode, Code: code}
		h.completion = Completion{
			Mode:     opts.Mode,
			Success:  false,
			ExitCode: code,
			Message:  h.err.Error(),
		}
		_ = notify.RunComplete(h.completion)
	}()

	return h, nil
}

func (h *Handle) sendProgress(notify Notifier, stages []stage.Stage, index int) {
	s := stages[index]
	_ = notify.Progress(ProgressUpdate{
		Mode:       h.Started.Mode,
		StageKey:   s.Key,
		StageLabel: s.Label,
		Progress:   stage.Progress(index, len(stages)),
	})
}

// ScratchDir creates a unique per-run working directory for the rendered
// config file and log, so concurrent runs of the same mode cannot collide
// on temp artifacts.
func ScratchDir() (string, error) {
	dir := filepath.Join(os.TempDir(), "pioneerctl-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// LogFilename names a run log the way the original tooling did, with a unix
// timestamp for quick visual sorting.
func LogFilename() string {
	return fmt.Sprintf("pioneer_run_%d.log", time.Now().Unix())
}
