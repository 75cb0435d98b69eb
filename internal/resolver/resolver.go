// Package resolver locates the Pioneer executable. Environment variables
// take priority over PATH so users can pin a specific build without
// reshuffling their shell profile.
package resolver

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
)

// envVars are checked in order; each may name the executable itself or a
// directory containing it.
var envVars = []string{"PIONEER_BINARY", "PIONEER_PATH", "PIONEER_EXE", "PIONEER"}

// names are the executable spellings probed in directories and on PATH.
var names = []string{"pioneer", "Pioneer", "pioneer.exe", "Pioneer.exe"}

// ErrMissingBinary is returned when no candidate resolves to an executable.
var ErrMissingBinary = errors.New(
	"pioneer binary not found: set PIONEER_BINARY/PIONEER_PATH or add the executable to PATH " +
		"(tried pioneer, Pioneer, pioneer.exe, Pioneer.exe)")

// Locate resolves the Pioneer binary, returning its path.
func Locate() (string, error) {
	for _, candidate := range envCandidates() {
		if isFile(candidate) {
			return candidate, nil
		}
	}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", ErrMissingBinary
}

// envCandidates expands the environment variables into concrete paths. A
// variable pointing at a directory contributes every known executable name
// inside it.
func envCandidates() []string {
	var results []string
	for _, key := range envVars {
		raw := os.Getenv(key)
		if raw == "" {
			continue
		}
		info, err := os.Stat(raw)
		if err == nil && info.IsDir() {
			for _, name := range names {
				results = append(results, filepath.Join(raw, name))
			}
			continue
		}
		results = append(results, raw)
	}
	return results
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
