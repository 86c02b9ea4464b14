package doctor

import (
	"path/filepath"
	"testing"

	"cindyd/internal/config"
)

func TestRunReportsMissingModel(t *testing.T) {
	cfg, err := config.Default()
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	cfg.Paths.StateDir = dir
	cfg.Paths.LogPath = filepath.Join(dir, "cindyd.log")
	cfg.ASR.ModelPath = filepath.Join(dir, "missing.bin")
	cfg.Hook.Command = ""

	results := Run(cfg)
	byName := map[string]Result{}
	for _, r := range results {
		byName[r.Name] = r
	}

	if !byName["state dir"].OK {
		t.Fatalf("state dir check failed: %s", byName["state dir"].Note)
	}
	if byName["model"].OK {
		t.Fatal("missing model should fail the model check")
	}
	if !byName["hook"].OK {
		t.Fatal("absent hook is not an error")
	}
	if !byName["wake words"].OK {
		t.Fatalf("default wake words should pass: %s", byName["wake words"].Note)
	}
}

func TestRunFindsHookInPath(t *testing.T) {
	cfg, err := config.Default()
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	cfg.Paths.StateDir = dir
	cfg.Paths.LogPath = filepath.Join(dir, "cindyd.log")
	cfg.Hook.Command = "sh"

	for _, r := range Run(cfg) {
		if r.Name == "hook" && !r.OK {
			t.Fatalf("sh should resolve in PATH: %s", r.Note)
		}
	}
}
