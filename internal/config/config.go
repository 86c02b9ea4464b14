package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const (
	defaultChunkIntervalMS   = 1000
	defaultVolumeFlushBytes  = 50000
	defaultVolumeFlushChunks = 3
	defaultSilenceFlushMS    = 2000
	defaultSilenceFlushBytes = 20000
	defaultSilenceCheckMS    = 500
	defaultWarmupMS          = 1000
	defaultMinDecodeBytes    = 10000
	defaultMinDurationSec    = 1.0
	defaultRMSThreshold      = 0.003
	defaultSimilarity        = 0.8
	defaultSampleEvery       = 20
	defaultStatusTail        = 10
	defaultStateDirLinux     = ".local/state/cindyd"
	defaultConfigDir         = ".config/cindyd"
)

// DefaultWakeWords are the phrases the daemon listens for out of the box.
var DefaultWakeWords = []string{"cindy", "hey cindy"}

// SegmentConfig controls when the accumulation window is flushed.
type SegmentConfig struct {
	VolumeFlushBytes  int `toml:"volume_flush_bytes"`
	VolumeFlushChunks int `toml:"volume_flush_chunks"`
	SilenceFlushMS    int `toml:"silence_flush_ms"`
	SilenceFlushBytes int `toml:"silence_flush_bytes"`
	SilenceCheckMS    int `toml:"silence_check_ms"`
	WarmupMS          int `toml:"warmup_ms"`
}

// Config holds user configuration loaded from TOML.
type Config struct {
	Audio struct {
		DeviceName       string `toml:"device_name"`
		SampleRate       int    `toml:"sample_rate"`
		Channels         int    `toml:"channels"`
		FrameMS          int    `toml:"frame_ms"`
		ChunkIntervalMS  int    `toml:"chunk_interval_ms"`
		EchoCancellation bool   `toml:"echo_cancellation"`
		NoiseSuppression bool   `toml:"noise_suppression"`
		AutoGain         bool   `toml:"auto_gain"`
	} `toml:"audio"`

	VAD struct {
		Enabled        bool `toml:"enabled"`
		Aggressiveness int  `toml:"aggressiveness"`
	} `toml:"vad"`

	Segment SegmentConfig `toml:"segment"`

	Decode struct {
		MinBytes       int     `toml:"min_bytes"`
		MinDurationSec float64 `toml:"min_duration_sec"`
	} `toml:"decode"`

	Gate struct {
		RMSThreshold float64 `toml:"rms_threshold"`
	} `toml:"gate"`

	Wake struct {
		Enabled    bool     `toml:"enabled"`
		Words      []string `toml:"words"`
		Similarity float64  `toml:"similarity"`
	} `toml:"wake"`

	ASR struct {
		ModelPath  string  `toml:"model_path"`
		Language   string  `toml:"language"`
		TimeoutSec float64 `toml:"timeout_sec"` // 0 disables the dispatch timeout
	} `toml:"asr"`

	Hook struct {
		Command     string            `toml:"command"`
		Args        []string          `toml:"args"`
		Prefix      string            `toml:"prefix"`
		CooldownSec float64           `toml:"cooldown_sec"`
		TimeoutSec  float64           `toml:"timeout_sec"`
		Env         map[string]string `toml:"env"`
	} `toml:"hook"`

	Logging struct {
		Level       string `toml:"level"`  // debug, info, warn, error
		Format      string `toml:"format"` // text, json
		Stdout      bool   `toml:"stdout"`
		SampleEvery int    `toml:"sample_every"`
	} `toml:"logging"`

	Paths struct {
		StateDir       string `toml:"state_dir"`
		LogPath        string `toml:"log_path"`
		TranscriptPath string `toml:"transcript_path"`
		SocketPath     string `toml:"socket_path"`
		PidPath        string `toml:"pid_path"`
		ConfigPath     string `toml:"-"`
	} `toml:"paths"`

	UI struct {
		StatusTail int `toml:"status_tail"`
	} `toml:"ui"`

	Metrics struct {
		Enabled bool   `toml:"enabled"`
		Addr    string `toml:"addr"`
	} `toml:"metrics"`

	Transcripts struct {
		Enabled bool `toml:"enabled"`
	} `toml:"transcripts"`
}

// Default returns Config populated with defaults.
func Default() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	stateDir := filepath.Join(home, defaultStateDirLinux)
	// macOS prefers ~/Library/Application Support/cindyd for state/logs
	if isMac() {
		stateDir = filepath.Join(home, "Library", "Application Support", "cindyd")
	}

	cfg := &Config{}

	cfg.Audio.SampleRate = 16000
	cfg.Audio.Channels = 1
	cfg.Audio.FrameMS = 20
	cfg.Audio.ChunkIntervalMS = defaultChunkIntervalMS
	cfg.Audio.EchoCancellation = true
	cfg.Audio.NoiseSuppression = true
	cfg.Audio.AutoGain = true

	cfg.VAD.Enabled = false
	cfg.VAD.Aggressiveness = 2

	cfg.Segment.VolumeFlushBytes = defaultVolumeFlushBytes
	cfg.Segment.VolumeFlushChunks = defaultVolumeFlushChunks
	cfg.Segment.SilenceFlushMS = defaultSilenceFlushMS
	cfg.Segment.SilenceFlushBytes = defaultSilenceFlushBytes
	cfg.Segment.SilenceCheckMS = defaultSilenceCheckMS
	cfg.Segment.WarmupMS = defaultWarmupMS

	cfg.Decode.MinBytes = defaultMinDecodeBytes
	cfg.Decode.MinDurationSec = defaultMinDurationSec

	cfg.Gate.RMSThreshold = defaultRMSThreshold

	cfg.Wake.Enabled = true
	cfg.Wake.Words = append([]string{}, DefaultWakeWords...)
	cfg.Wake.Similarity = defaultSimilarity

	cfg.ASR.ModelPath = filepath.Join(stateDir, "models", "ggml-medium-q5_1.bin")
	cfg.ASR.Language = "auto"
	cfg.ASR.TimeoutSec = 0

	cfg.Hook.Command = ""
	cfg.Hook.Args = []string{}
	cfg.Hook.Prefix = "Heard on ${hostname}: "
	cfg.Hook.CooldownSec = 1.0
	cfg.Hook.TimeoutSec = 5
	cfg.Hook.Env = map[string]string{}

	cfg.Logging.Level = "info"
	cfg.Logging.Format = "text"
	cfg.Logging.SampleEvery = defaultSampleEvery

	cfg.Paths.StateDir = stateDir
	cfg.Paths.LogPath = filepath.Join(stateDir, "cindyd.log")
	cfg.Paths.TranscriptPath = filepath.Join(stateDir, "transcripts.log")
	cfg.Paths.SocketPath = filepath.Join(stateDir, "cindyd.sock")
	cfg.Paths.PidPath = filepath.Join(stateDir, "cindyd.pid")

	cfg.UI.StatusTail = defaultStatusTail

	cfg.Metrics.Enabled = false
	cfg.Metrics.Addr = "127.0.0.1:9321"

	cfg.Transcripts.Enabled = true

	return cfg, nil
}

// Load loads config from file, applying defaults.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	if path == "" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, defaultConfigDir, "config.toml")
	}

	// Read if exists; otherwise write template.
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, err
			}
			if err := Save(cfg, path); err != nil {
				return nil, err
			}
			cfg.Paths.ConfigPath = path
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Paths.ConfigPath = path
	applyEnvOverrides(cfg)
	return cfg, nil
}

// Save writes cfg to path.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	out, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o600)
}

func isMac() bool {
	return runtime.GOOS == "darwin"
}

// MustStatePaths ensures state dirs exist.
func MustStatePaths(cfg *Config) error {
	for _, p := range []string{cfg.Paths.StateDir, filepath.Dir(cfg.Paths.LogPath), filepath.Dir(cfg.Paths.TranscriptPath)} {
		if p == "" {
			continue
		}
		if err := os.MkdirAll(p, 0o755); err != nil {
			return err
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CINDYD_WAKE_ENABLED"); v != "" {
		cfg.Wake.Enabled = v != "0" && strings.ToLower(v) != "false"
	}
	if v := os.Getenv("CINDYD_METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
		cfg.Metrics.Enabled = true
	}
	if v := os.Getenv("CINDYD_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("CINDYD_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("CINDYD_TRANSCRIPTS_ENABLED"); v != "" {
		cfg.Transcripts.Enabled = v != "0" && strings.ToLower(v) != "false"
	}
}
