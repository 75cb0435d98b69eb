package run

// Started is the acknowledgement payload delivered before any child output
// is processed.
type Started struct {
	Mode          Mode   `json:"mode"`
	LogPath       string `json:"log_path"`
	ConfigPath    string `json:"config_path"`
	PersistedPath string `json:"persisted_path,omitempty"`
}

// ProgressUpdate reports arrival at a stage.
type ProgressUpdate struct {
	Mode       Mode    `json:"mode"`
	StageKey   string  `json:"stage_key"`
	StageLabel string  `json:"stage_label"`
	Progress   float64 `json:"progress"`
}

// LogLine forwards one captured output line.
type LogLine struct {
	Mode   Mode   `json:"mode"`
	Stream string `json:"stream"`
	Line   string `json:"line"`
}

// Completion reports the final outcome of a run. ExitCode is -1 when the OS
// did not report one (e.g. the child was killed by a signal).
type Completion struct {
	Mode     Mode   `json:"mode"`
	Success  bool   `json:"success"`
	ExitCode int    `json:"exit_code"`
	Message  string `json:"message,omitempty"`
}

// Notifier receives run events. Implementations must not assume delivery
// from the caller's goroutine; everything after Start returns is emitted
// from the supervising goroutine. Errors returned by a sink are swallowed:
// event delivery is best-effort and never aborts a run.
type Notifier interface {
	RunStarted(Started) error
	Line(LogLine) error
	Progress(ProgressUpdate) error
	RunComplete(Completion) error
	TerminalWarning(message string) error
}

// NopNotifier discards all events.
type NopNotifier struct{}

func (NopNotifier) RunStarted(Started) error      { return nil }
func (NopNotifier) Line(LogLine) error            { return nil }
func (NopNotifier) Progress(ProgressUpdate) error { return nil }
func (NopNotifier) RunComplete(Completion) error  { return nil }
func (NopNotifier) TerminalWarning(string) error  { return nil }
