package config

import (
	"os"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	if cfg.Segment.VolumeFlushBytes != 50000 || cfg.Segment.VolumeFlushChunks != 3 {
		t.Fatalf("volume trigger defaults wrong: %+v", cfg.Segment)
	}
	if cfg.Segment.SilenceFlushMS != 2000 || cfg.Segment.SilenceFlushBytes != 20000 {
		t.Fatalf("silence trigger defaults wrong: %+v", cfg.Segment)
	}
	if cfg.Decode.MinBytes != 10000 || cfg.Decode.MinDurationSec != 1.0 {
		t.Fatalf("decode defaults wrong: %+v", cfg.Decode)
	}
	if cfg.Gate.RMSThreshold != 0.003 {
		t.Fatalf("gate default wrong: %v", cfg.Gate.RMSThreshold)
	}
	if cfg.Wake.Similarity != 0.8 || len(cfg.Wake.Words) == 0 {
		t.Fatalf("wake defaults wrong: %+v", cfg.Wake)
	}
	if cfg.Audio.SampleRate != 16000 || cfg.Audio.ChunkIntervalMS != 1000 {
		t.Fatalf("audio defaults wrong: %+v", cfg.Audio)
	}
}

func TestEnvOverrides(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	cfg.Paths.ConfigPath = "/tmp/config" // avoid creation

	t.Setenv("CINDYD_WAKE_ENABLED", "0")
	t.Setenv("CINDYD_METRICS_ADDR", "1.2.3.4:9999")
	t.Setenv("CINDYD_LOG_LEVEL", "debug")
	t.Setenv("CINDYD_LOG_FORMAT", "json")

	applyEnvOverrides(cfg)

	if cfg.Wake.Enabled {
		t.Fatalf("wake should be disabled via env")
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Addr != "1.2.3.4:9999" {
		t.Fatalf("metrics override failed: %+v", cfg.Metrics)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Fatalf("logging overrides failed: %+v", cfg.Logging)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/config.toml"

	cfg, err := Default()
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	cfg.Paths.ConfigPath = path
	cfg.Hook.Command = "/bin/echo"
	cfg.Wake.Words = []string{"computer"}

	if err := Save(cfg, path); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Hook.Command != "/bin/echo" {
		t.Fatalf("expected hook command to persist")
	}
	if len(loaded.Wake.Words) != 1 || loaded.Wake.Words[0] != "computer" {
		t.Fatalf("expected wake words to persist: %+v", loaded.Wake.Words)
	}

	_ = os.Remove(path)
}

func TestLoadWritesTemplate(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/fresh/config.toml"

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load fresh: %v", err)
	}
	if cfg.Paths.ConfigPath != path {
		t.Fatalf("config path not recorded")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("template not written: %v", err)
	}
}
