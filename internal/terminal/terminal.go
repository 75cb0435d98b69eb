// Package terminal opens a platform terminal window tailing a run log.
// Everything here is best-effort: a missing terminal emulator produces an
// error the caller reports as a warning, never a run failure.
package terminal

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// ErrNoTerminal is returned when no compatible terminal emulator is found.
var ErrNoTerminal = errors.New("no compatible terminal found")

// Seams for tests.
var (
	execCommand = exec.Command
	lookPath    = exec.LookPath
	goos        = runtime.GOOS
)

// linuxTerminals are probed in order on Linux.
var linuxTerminals = []string{
	"x-terminal-emulator",
	"gnome-terminal",
	"konsole",
	"xfce4-terminal",
	"mate-terminal",
	"xterm",
}

// OpenTail spawns a detached terminal window running `tail -f` (or the
// platform equivalent) on logPath. It returns once the terminal process has
// been started; the terminal outlives the supervisor.
func OpenTail(logPath string) error {
	switch goos {
	case "windows":
		command := fmt.Sprintf(
			`Start-Process powershell -ArgumentList '-NoExit','-Command','Get-Content -Path "%s" -Wait'`,
			logPath)
		return execCommand("powershell", "-NoProfile", "-Command", command).Start()

	case "darwin":
		escaped := strings.ReplaceAll(logPath, `"`, `\"`)
		script := fmt.Sprintf(`tell application "Terminal" to do script "tail -n +1 -f %s"`, escaped)
		return execCommand("osascript", "-e", script).Start()

	case "linux":
		return openLinuxTail(logPath)
	}
	return fmt.Errorf("unsupported platform %s", goos)
}

func openLinuxTail(logPath string) error {
	term := ""
	for _, candidate := range linuxTerminals {
		if _, err := lookPath(candidate); err == nil {
			term = candidate
			break
		}
	}
	if term == "" {
		return ErrNoTerminal
	}

	tailCommand := fmt.Sprintf(`tail -n +1 -f '%s' ; read -p "Press Enter to close..." _`, logPath)

	var cmd *exec.Cmd
	switch term {
	case "gnome-terminal", "mate-terminal":
		cmd = execCommand(term, "--", "bash", "-lc", tailCommand)
	case "konsole":
		cmd = execCommand(term, "--noclose", "-e", "bash", "-lc", tailCommand)
	case "xfce4-terminal":
		cmd = execCommand(term, "--hold", "-e", "bash", "-lc", tailCommand)
	case "xterm":
		cmd = execCommand(term, "-hold", "-e", "bash", "-lc", tailCommand)
	default:
		cmd = execCommand(term, "-e", "bash", "-lc", tailCommand)
	}
	return cmd.Start()
}
