package run

import (
	"errors"
	"fmt"
)

// Sentinel errors for the run package. Sentinels let callers distinguish
// startup failures from run failures with errors.Is.
var (
	// ErrSpawn is returned when the Pioneer executable cannot be started.
	ErrSpawn = errors.New("failed to start pioneer")

	// ErrLogCreate is returned when the run log cannot be created. Only
	// fatal before the child exists; append failures mid-run are tolerated.
	ErrLogCreate = errors.New("failed to create run log")
)

// ExitError reports a child process that terminated unsuccessfully. Code is
// -1 when the OS did not supply one.
type ExitError struct {
	Mode Mode
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("pioneer %s exited with status %d", e.Mode.Subcommand(), e.Code)
}
