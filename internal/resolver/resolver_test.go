package resolver

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envVars {
		t.Setenv(key, "")
	}
}

func writeExecutable(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write fake binary: %v", err)
	}
	return path
}

func TestLocateFromEnvFile(t *testing.T) {
	clearEnv(t)
	bin := writeExecutable(t, t.TempDir(), "custom-pioneer")
	t.Setenv("PIONEER_BINARY", bin)

	got, err := Locate()
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if got != bin {
		t.Errorf("Locate = %q, want %q", got, bin)
	}
}

func TestLocateFromEnvDir(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	bin := writeExecutable(t, dir, "pioneer")
	t.Setenv("PIONEER_PATH", dir)

	got, err := Locate()
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if got != bin {
		t.Errorf("Locate = %q, want %q", got, bin)
	}
}

func TestLocateEnvPriorityOverPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("PATH semantics differ on windows")
	}
	clearEnv(t)
	pathDir := t.TempDir()
	writeExecutable(t, pathDir, "pioneer")
	t.Setenv("PATH", pathDir)

	envBin := writeExecutable(t, t.TempDir(), "pinned")
	t.Setenv("PIONEER_BINARY", envBin)

	got, err := Locate()
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if got != envBin {
		t.Errorf("Locate = %q, want env-pinned %q", got, envBin)
	}
}

func TestLocateFromPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("PATH semantics differ on windows")
	}
	clearEnv(t)
	pathDir := t.TempDir()
	bin := writeExecutable(t, pathDir, "pioneer")
	t.Setenv("PATH", pathDir)

	got, err := Locate()
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if got != bin {
		t.Errorf("Locate = %q, want %q", got, bin)
	}
}

func TestLocateMissing(t *testing.T) {
	clearEnv(t)
	t.Setenv("PATH", t.TempDir())

	_, err := Locate()
	if !errors.Is(err, ErrMissingBinary) {
		t.Fatalf("Locate = %v, want ErrMissingBinary", err)
	}
}

func TestLocateSkipsBrokenEnvEntries(t *testing.T) {
	clearEnv(t)
	t.Setenv("PIONEER_BINARY", filepath.Join(t.TempDir(), "gone"))
	bin := writeExecutable(t, t.TempDir(), "real")
	t.Setenv("PIONEER_EXE", bin)

	got, err := Locate()
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if got != bin {
		t.Errorf("Locate = %q, want %q", got, bin)
	}
}
