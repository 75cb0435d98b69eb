package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pioneer-ms/pioneerctl/internal/config"
	"github.com/pioneer-ms/pioneerctl/internal/params"
	"github.com/pioneer-ms/pioneerctl/internal/run"
)

func TestResolveParamsExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "my_params.json")
	if err := os.WriteFile(path, []byte(`{"custom": true}`), 0o644); err != nil {
		t.Fatalf("write params: %v", err)
	}

	orig := runParamsFile
	runParamsFile = path
	t.Cleanup(func() { runParamsFile = orig })

	doc, err := resolveParams(&config.Config{}, "", run.ModeSearchDIA)
	if err != nil {
		t.Fatalf("resolveParams: %v", err)
	}
	if doc.(map[string]interface{})["custom"] != true {
		t.Errorf("resolveParams = %#v, want explicit file contents", doc)
	}
}

func TestResolveParamsMergesPersistedOntoDefaults(t *testing.T) {
	paramsBase := t.TempDir()
	cfg := &config.Config{ParamsDir: paramsBase}

	override := map[string]interface{}{
		"output": map[string]interface{}{"write_csv": false},
	}
	if _, err := params.SavePersisted(run.ModeSearchDIA, paramsBase, override); err != nil {
		t.Fatalf("SavePersisted: %v", err)
	}

	// No binary: embedded fallback defaults are the base.
	doc, err := resolveParams(cfg, "", run.ModeSearchDIA)
	if err != nil {
		t.Fatalf("resolveParams: %v", err)
	}
	obj := doc.(map[string]interface{})
	out := obj["output"].(map[string]interface{})
	if out["write_csv"] != false {
		t.Errorf("persisted override lost: output = %#v", out)
	}
	if out["delete_temp"] != true {
		t.Errorf("default leaf lost in merge: output = %#v", out)
	}
}

func TestResolveParamsNoPersistedFallsBackToDefaults(t *testing.T) {
	doc, err := resolveParams(&config.Config{ParamsDir: t.TempDir()}, "", run.ModeBuildSpecLib)
	if err != nil {
		t.Fatalf("resolveParams: %v", err)
	}
	if _, ok := doc.(map[string]interface{})["fasta_digest_params"]; !ok {
		t.Errorf("expected embedded build defaults, got %#v", doc)
	}
}

// Exiting the supervisor closes the child's pipe read ends, which kills
// Pioneer on its next write. awaitRun must therefore stay attached to a run
// that is still going, not report it as backgrounded and return.
func TestAwaitRunBlocksUntilRunFinishes(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "fake-pioneer")
	script := "#!/bin/sh\nsleep 0.3\necho 'Search complete'\nexit 0\n"
	if err := os.WriteFile(bin, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake binary: %v", err)
	}

	h, err := run.Start(run.Options{
		Binary:     bin,
		Mode:       run.ModeSearchDIA,
		ConfigPath: filepath.Join(dir, "config.json"),
		LogPath:    filepath.Join(dir, "run.log"),
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	start := time.Now()
	if err := awaitRun(h); err != nil {
		t.Fatalf("awaitRun: %v", err)
	}
	if time.Since(start) < 200*time.Millisecond {
		t.Error("awaitRun returned before the child exited")
	}

	select {
	case <-h.Done():
	default:
		t.Error("awaitRun returned while the run was still in flight")
	}
}

func TestSyncConfigFlagToEnv(t *testing.T) {
	t.Setenv("PIONEERCTL_CONFIG", "")
	orig := cfgFile
	cfgFile = "/tmp/explicit.yaml"
	t.Cleanup(func() { cfgFile = orig })

	syncConfigFlagToEnv()
	if got := os.Getenv("PIONEERCTL_CONFIG"); got != "/tmp/explicit.yaml" {
		t.Errorf("PIONEERCTL_CONFIG = %q, want synced flag value", got)
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := map[string]bool{
		"run": false, "config": false, "defaults": false,
		"doctor": false, "watch": false, "version": false,
	}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("command %q not registered on root", name)
		}
	}
}
