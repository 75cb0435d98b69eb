package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pioneer-ms/pioneerctl/internal/config"
	"github.com/pioneer-ms/pioneerctl/internal/params"
	"github.com/pioneer-ms/pioneerctl/internal/resolver"
	"github.com/pioneer-ms/pioneerctl/internal/run"
	"github.com/pioneer-ms/pioneerctl/internal/terminal"
	"github.com/pioneer-ms/pioneerctl/internal/tui"
)

var (
	runParamsFile string
	runNoTerminal bool
	runWatch      bool
)

var runCmd = &cobra.Command{
	Use:   "run <build-lib|search>",
	Short: "Start a supervised Pioneer run",
	Long: `Launch Pioneer in the given mode and supervise it to completion.

The parameter document is resolved in order: an explicit --params file, the
persisted document from your last run merged onto Pioneer's defaults, or the
defaults alone. The submitted document is persisted for the next run.

Output is streamed live, appended to a run log, and matched against the
mode's stage table for progress. The exit status of the Pioneer process, not
the log text, decides success.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := run.ParseMode(args[0])
		if err != nil {
			return err
		}
		return runPioneer(mode)
	},
}

func init() {
	runCmd.Flags().StringVarP(&runParamsFile, "params", "p", "", "Parameter JSON file (skips persisted/default resolution)")
	runCmd.Flags().BoolVar(&runNoTerminal, "no-terminal", false, "Do not open a companion terminal tailing the log")
	runCmd.Flags().BoolVarP(&runWatch, "watch", "w", false, "Show the live dashboard instead of plain output")
	rootCmd.AddCommand(runCmd)
}

func runPioneer(mode run.Mode) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	binary := cfg.Binary
	if binary == "" {
		binary, err = resolver.Locate()
		if err != nil {
			return err
		}
	}
	VerbosePrintf("using pioneer binary %s\n", binary)

	doc, err := resolveParams(cfg, binary, mode)
	if err != nil {
		return err
	}

	scratch, err := run.ScratchDir()
	if err != nil {
		return fmt.Errorf("create run dir: %w", err)
	}

	configPath, err := params.WriteRendered(mode, scratch, doc)
	if err != nil {
		return err
	}

	persistedPath, err := params.SavePersisted(mode, cfg.ParamsDir, doc)
	if err != nil {
		// Persisting is a convenience; the run itself does not need it.
		fmt.Fprintf(os.Stderr, "warning: could not persist parameters: %v\n", err)
		persistedPath = ""
	}

	logDir := cfg.LogDir
	if logDir == "" {
		logDir = scratch
	} else if err := os.MkdirAll(logDir, 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	logPath := filepath.Join(logDir, run.LogFilename())

	opts := run.Options{
		Binary:        binary,
		Mode:          mode,
		ConfigPath:    configPath,
		LogPath:       logPath,
		PersistedPath: persistedPath,
	}
	if !runNoTerminal && !runWatch && cfg.Run.Terminal != "never" {
		opts.OpenTerminal = terminal.OpenTail
	}

	if runWatch {
		return runWithDashboard(mode, opts)
	}
	return runWithConsole(opts)
}

// resolveParams picks the parameter document for this run.
func resolveParams(cfg *config.Config, binary string, mode run.Mode) (interface{}, error) {
	if runParamsFile != "" {
		return params.ReadDocument(runParamsFile)
	}

	defaults, source, err := params.LoadDefaults(binary, mode)
	if err != nil {
		if defaults == nil {
			return nil, err
		}
		fmt.Fprintf(os.Stderr, "warning: using embedded default parameters: %v\n", err)
	}
	VerbosePrintf("default parameters from %s\n", source)

	merged, err := params.LoadPersisted(mode, cfg.ParamsDir, defaults)
	if errors.Is(err, params.ErrNoPersisted) {
		return defaults, nil
	}
	if err != nil {
		return nil, err
	}
	return merged, nil
}

func runWithConsole(opts run.Options) error {
	opts.Notifier = &consoleNotifier{}
	h, err := run.Start(opts)
	if err != nil {
		return err
	}
	_, err = h.Wait()
	return err
}

func runWithDashboard(mode run.Mode, opts run.Options) error {
	p := tea.NewProgram(tui.NewLiveModel(mode), tea.WithAltScreen())
	opts.Notifier = tui.NewNotifier(p)

	h, err := run.Start(opts)
	if err != nil {
		return err
	}
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}

	return awaitRun(h)
}

// awaitRun blocks until the supervised run finishes. Exiting the supervisor
// would close the read ends of Pioneer's pipes and kill it with SIGPIPE on
// its next write, so quitting the dashboard must not detach from the run.
func awaitRun(h *run.Handle) error {
	select {
	case <-h.Done():
	default:
		fmt.Printf("dashboard closed; waiting for the run to finish (log: %s)\n", h.Started.LogPath)
	}
	_, err := h.Wait()
	return err
}

// consoleNotifier renders run events as plain terminal output.
type consoleNotifier struct{}

func (c *consoleNotifier) RunStarted(s run.Started) error {
	fmt.Printf("run started: mode=%s\n", s.Mode)
	fmt.Printf("  config: %s\n", s.ConfigPath)
	fmt.Printf("  log:    %s\n", s.LogPath)
	if s.PersistedPath != "" {
		fmt.Printf("  saved:  %s\n", s.PersistedPath)
	}
	return nil
}

func (c *consoleNotifier) Line(l run.LogLine) error {
	out := os.Stdout
	if l.Stream == "stderr" {
		out = os.Stderr
	}
	fmt.Fprintln(out, l.Line)
	return nil
}

func (c *consoleNotifier) Progress(p run.ProgressUpdate) error {
	fmt.Printf("[%3.0f%%] %s\n", p.Progress, p.StageLabel)
	return nil
}

func (c *consoleNotifier) RunComplete(comp run.Completion) error {
	if comp.Success {
		fmt.Printf("run complete (exit %d)\n", comp.ExitCode)
		return nil
	}
	fmt.Fprintf(os.Stderr, "run failed: %s\n", comp.Message)
	return nil
}

func (c *consoleNotifier) TerminalWarning(message string) error {
	fmt.Fprintf(os.Stderr, "warning: %s\n", message)
	return nil
}
