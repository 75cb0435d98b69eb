package params

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pioneer-ms/pioneerctl/internal/run"
)

// appDirName is the directory under the user config dir holding persisted
// parameter documents.
const appDirName = "pioneerctl"

// ErrNoPersisted is returned when no persisted document exists for a mode.
var ErrNoPersisted = errors.New("no persisted parameters for mode")

// PersistPath resolves the persisted parameter file for a mode. baseDir
// overrides the user config directory when non-empty (tests, --config-dir).
func PersistPath(mode run.Mode, baseDir string) (string, error) {
	if baseDir == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("resolve user config dir: %w", err)
		}
		baseDir = filepath.Join(dir, appDirName)
	}
	return filepath.Join(baseDir, mode.PersistFilename()), nil
}

// LoadPersisted reads the persisted document for a mode and deep-merges it
// onto defaults. ErrNoPersisted when the file does not exist.
func LoadPersisted(mode run.Mode, baseDir string, defaults interface{}) (interface{}, error) {
	path, err := PersistPath(mode, baseDir)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoPersisted, path)
		}
		return nil, fmt.Errorf("read persisted parameters: %w", err)
	}
	var persisted interface{}
	if err := json.Unmarshal(data, &persisted); err != nil {
		return nil, fmt.Errorf("parse persisted parameters %s: %w", path, err)
	}
	return DeepMerge(defaults, persisted), nil
}

// SavePersisted stores the document submitted for the most recent run,
// pretty-printed verbatim, creating the config directory as needed.
func SavePersisted(mode run.Mode, baseDir string, doc interface{}) (string, error) {
	path, err := PersistPath(mode, baseDir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode parameters: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write persisted parameters: %w", err)
	}
	return path, nil
}

// WriteRendered writes the parameter document the tool will actually read,
// named per mode inside dir (normally a per-run scratch directory).
func WriteRendered(mode run.Mode, dir string, doc interface{}) (string, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode parameters: %w", err)
	}
	path := filepath.Join(dir, mode.ConfigFilename())
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write rendered parameters: %w", err)
	}
	return path, nil
}

// ReadDocument loads an arbitrary JSON parameter file (the --params flag).
func ReadDocument(path string) (interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read parameters: %w", err)
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse parameters %s: %w", path, err)
	}
	return doc, nil
}
