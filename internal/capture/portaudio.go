//go:build whisper

package capture

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cindyd/internal/audio"
	"cindyd/internal/config"

	"github.com/gordonklaus/portaudio"
	vad "github.com/maxhawkins/go-webrtcvad"
	"github.com/sirupsen/logrus"
)

// micSource reads frames from PortAudio and emits one WAV-encoded chunk per
// interval. With VAD enabled, intervals that contain no voiced frame are
// suppressed entirely, so the accumulation window goes quiet when the room
// does — that is what lets the silence trigger fire downstream.
type micSource struct {
	cfg    *config.Config
	logger *logrus.Logger

	stream *portaudio.Stream
	buf    []int16
	vad    *vad.VAD
	opened bool
}

// New returns a PortAudio-backed source.
func New(cfg *config.Config, logger *logrus.Logger) (Source, error) {
	if cfg.Audio.Channels != 1 {
		return nil, fmt.Errorf("only mono input supported; set audio.channels = 1")
	}
	if cfg.Audio.FrameMS != 10 && cfg.Audio.FrameMS != 20 && cfg.Audio.FrameMS != 30 {
		return nil, fmt.Errorf("audio.frame_ms must be 10, 20, or 30 (got %d)", cfg.Audio.FrameMS)
	}
	switch cfg.Audio.SampleRate {
	case 8000, 16000, 32000, 48000:
	default:
		return nil, fmt.Errorf("sample_rate must be 8k/16k/32k/48k (got %d)", cfg.Audio.SampleRate)
	}
	return &micSource{cfg: cfg, logger: logger}, nil
}

func (m *micSource) Open() error {
	if m.opened {
		return nil
	}
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("portaudio init: %w", err)
	}

	dev, err := selectDevice(m.cfg.Audio.DeviceName)
	if err != nil {
		portaudio.Terminate()
		return err
	}

	frameSamples := m.cfg.Audio.SampleRate * m.cfg.Audio.FrameMS / 1000
	if m.cfg.VAD.Enabled {
		if ok := vad.ValidRateAndFrameLength(m.cfg.Audio.SampleRate, frameSamples); !ok {
			portaudio.Terminate()
			return fmt.Errorf("invalid frame_ms %d for sample_rate %d", m.cfg.Audio.FrameMS, m.cfg.Audio.SampleRate)
		}
		v := vad.New()
		if err := v.SetMode(m.cfg.VAD.Aggressiveness); err != nil {
			portaudio.Terminate()
			return fmt.Errorf("vad mode: %w", err)
		}
		m.vad = v
	}

	m.buf = make([]int16, frameSamples)
	stream, err := portaudio.OpenStream(portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   dev,
			Channels: m.cfg.Audio.Channels,
			Latency:  dev.DefaultLowInputLatency,
		},
		SampleRate:      float64(m.cfg.Audio.SampleRate),
		FramesPerBuffer: frameSamples,
	}, &m.buf)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("open stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("start stream: %w", err)
	}

	m.stream = stream
	m.opened = true
	m.logger.Infof("listening on mic: %s @ %d Hz (echo_cancel=%v noise_suppress=%v auto_gain=%v)",
		dev.Name, m.cfg.Audio.SampleRate,
		m.cfg.Audio.EchoCancellation, m.cfg.Audio.NoiseSuppression, m.cfg.Audio.AutoGain)
	return nil
}

func (m *micSource) Run(ctx context.Context, out chan<- audio.Chunk) error {
	if !m.opened {
		return fmt.Errorf("source not open")
	}

	intervalSamples := m.cfg.Audio.SampleRate * m.cfg.Audio.ChunkIntervalMS / 1000
	interval := make([]int16, 0, intervalSamples)
	voiced := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := m.stream.Read(); err != nil {
			if errors.Is(err, portaudio.InputOverflowed) {
				m.logger.Warn("input overflow")
				continue
			}
			return fmt.Errorf("stream read: %w", err)
		}
		interval = append(interval, m.buf...)
		if m.vad != nil && !voiced {
			voiced = m.vad.Process(m.cfg.Audio.SampleRate, m.buf)
		}

		if len(interval) < intervalSamples {
			continue
		}
		if m.vad == nil || voiced {
			data, err := audio.EncodeWAV(interval, m.cfg.Audio.SampleRate)
			if err != nil {
				return fmt.Errorf("encode chunk: %w", err)
			}
			chunk := audio.Chunk{Data: data, At: time.Now()}
			select {
			case out <- chunk:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		interval = interval[:0]
		voiced = false
	}
}

func (m *micSource) Close() error {
	if !m.opened {
		return nil
	}
	m.opened = false
	if err := m.stream.Stop(); err != nil {
		m.logger.Warnf("stop stream: %v", err)
	}
	if err := m.stream.Close(); err != nil {
		m.logger.Warnf("close stream: %v", err)
	}
	return portaudio.Terminate()
}

func selectDevice(preferred string) (*portaudio.DeviceInfo, error) {
	devs, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	if preferred != "" {
		for _, d := range devs {
			if d.MaxInputChannels > 0 && strings.Contains(strings.ToLower(d.Name), strings.ToLower(preferred)) {
				return d, nil
			}
		}
	}
	if def := portaudio.DefaultInputDevice(); def != nil {
		return def, nil
	}
	for _, d := range devs {
		if d.MaxInputChannels > 0 {
			return d, nil
		}
	}
	return nil, fmt.Errorf("no input devices found")
}
