// Package run supervises one invocation of the Pioneer binary: it launches
// the child with piped output, drains both pipes through a multiplexer,
// appends every line to a run log, infers stage progress from the text, and
// reports the authoritative exit status when the child terminates.
package run

import (
	"fmt"

	"github.com/pioneer-ms/pioneerctl/internal/stage"
)

// Mode selects which Pioneer operation a run performs. It determines the
// subcommand, the config filename handed to the tool, and the stage table
// used for progress inference.
type Mode int

const (
	// ModeBuildSpecLib builds a predicted spectral library.
	ModeBuildSpecLib Mode = iota
	// ModeSearchDIA searches DIA raw data against a library.
	ModeSearchDIA
)

// ParseMode maps CLI spellings to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "build-lib", "buildSpecLib", "build":
		return ModeBuildSpecLib, nil
	case "search", "searchDia", "search-dia":
		return ModeSearchDIA, nil
	}
	return 0, fmt.Errorf("unknown run mode %q (want build-lib or search)", s)
}

// Subcommand is the Pioneer subcommand invoked for this mode.
func (m Mode) Subcommand() string {
	if m == ModeBuildSpecLib {
		return "predict"
	}
	return "search"
}

// ConfigFilename is the name of the rendered parameter file passed to the
// tool as its sole positional argument.
func (m Mode) ConfigFilename() string {
	if m == ModeBuildSpecLib {
		return "buildspeclib_params.json"
	}
	return "search_params.json"
}

// PersistFilename is the per-mode persisted parameter document name under
// the user config directory.
func (m Mode) PersistFilename() string {
	if m == ModeBuildSpecLib {
		return "buildspeclib.json"
	}
	return "searchdia.json"
}

// Stages returns the ordered stage table for this mode.
func (m Mode) Stages() []stage.Stage {
	if m == ModeBuildSpecLib {
		return stage.BuildStages
	}
	return stage.SearchStages
}

func (m Mode) String() string {
	if m == ModeBuildSpecLib {
		return "buildSpecLib"
	}
	return "searchDia"
}

// MarshalJSON encodes the mode as its camelCase name so event payloads stay
// readable in logs and the watch dashboard.
func (m Mode) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON accepts the same spellings as ParseMode.
func (m *Mode) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := ParseMode(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
