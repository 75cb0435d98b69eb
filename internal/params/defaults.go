package params

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pioneer-ms/pioneerctl/internal/run"
)

// Source records where a default document came from.
type Source string

const (
	// SourceBinary: fetched from the Pioneer executable itself.
	SourceBinary Source = "binary"
	// SourcePartial: some modes fetched from the executable, others fell
	// back to the embedded documents.
	SourcePartial Source = "partial"
	// SourceFallback: the embedded document shipped with pioneerctl.
	SourceFallback Source = "fallback"
)

//go:embed fallback/*.json
var fallbackFS embed.FS

// execCommand is a seam for tests to substitute the preview invocation.
var execCommand = exec.Command

// FallbackDefaults returns the embedded default document for a mode.
func FallbackDefaults(mode run.Mode) (interface{}, error) {
	return readFallback(mode, false)
}

// FallbackSimplified returns the embedded simplified (curated subset)
// document for a mode.
func FallbackSimplified(mode run.Mode) (interface{}, error) {
	return readFallback(mode, true)
}

func readFallback(mode run.Mode, simplified bool) (interface{}, error) {
	name := "default_search"
	if mode == run.ModeBuildSpecLib {
		name = "default_build"
	}
	if simplified {
		name += "_simplified"
	}
	data, err := fallbackFS.ReadFile("fallback/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("embedded fallback %s: %w", name, err)
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse embedded fallback %s: %w", name, err)
	}
	return doc, nil
}

// FetchDefaults asks the Pioneer binary to emit its current default
// parameter document by running the mode's params-* subcommand against
// throwaway preview inputs in a temp directory.
func FetchDefaults(binary string, mode run.Mode) (interface{}, error) {
	tempDir, err := os.MkdirTemp("", "pioneerctl-preview-")
	if err != nil {
		return nil, fmt.Errorf("create preview dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	paramsPath := filepath.Join(tempDir, mode.ConfigFilename())

	var cmd *exec.Cmd
	switch mode {
	case run.ModeBuildSpecLib:
		libOut := filepath.Join(tempDir, "library_preview")
		if err := os.MkdirAll(libOut, 0o755); err != nil {
			return nil, fmt.Errorf("create preview dir: %w", err)
		}
		fastaPath := filepath.Join(tempDir, "preview.fasta")
		if err := os.WriteFile(fastaPath, []byte(">Example\nM\n"), 0o644); err != nil {
			return nil, fmt.Errorf("write preview fasta: %w", err)
		}
		cmd = execCommand(binary, "params-predict", libOut, "PreviewLibrary", fastaPath,
			"--params-path", paramsPath)
	default:
		libraryPath := filepath.Join(tempDir, "example_library.poin")
		if err := os.WriteFile(libraryPath, nil, 0o644); err != nil {
			return nil, fmt.Errorf("write preview library: %w", err)
		}
		msDataDir := filepath.Join(tempDir, "ms_data")
		resultsDir := filepath.Join(tempDir, "results")
		for _, d := range []string{msDataDir, resultsDir} {
			if err := os.MkdirAll(d, 0o755); err != nil {
				return nil, fmt.Errorf("create preview dir: %w", err)
			}
		}
		cmd = execCommand(binary, "params-search", libraryPath, msDataDir, resultsDir,
			"--params-path", paramsPath)
	}

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("pioneer %s preview: %w", mode.Subcommand(), err)
	}

	data, err := os.ReadFile(paramsPath)
	if err != nil {
		return nil, fmt.Errorf("read preview parameters: %w", err)
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse preview parameters: %w", err)
	}
	return doc, nil
}

// LoadDefaults returns the best available default document for a mode: the
// binary's own output when it can be fetched, otherwise the embedded
// fallback. The returned error describes the fetch failure when the
// fallback was used; callers surface it as a warning, not a failure.
func LoadDefaults(binary string, mode run.Mode) (interface{}, Source, error) {
	if binary != "" {
		doc, err := FetchDefaults(binary, mode)
		if err == nil {
			return doc, SourceBinary, nil
		}
		fallback, fbErr := FallbackDefaults(mode)
		if fbErr != nil {
			return nil, SourceFallback, fbErr
		}
		return fallback, SourceFallback, err
	}
	doc, err := FallbackDefaults(mode)
	return doc, SourceFallback, err
}

// CombineSources folds per-mode sources into one overall report: binary when
// every mode fetched from the executable, fallback when none did, partial
// otherwise.
func CombineSources(sources ...Source) Source {
	fromBinary := 0
	for _, s := range sources {
		if s == SourceBinary {
			fromBinary++
		}
	}
	switch fromBinary {
	case 0:
		return SourceFallback
	case len(sources):
		return SourceBinary
	}
	return SourcePartial
}
