// Package asr fronts the external transcription engine. The daemon hands it
// integer PCM and gets text back; everything about the model itself stays
// behind the Engine interface.
package asr

import (
	"context"
	"strings"
	"time"

	"cindyd/internal/audio"
)

// Engine converts one integer PCM buffer into text. The returned text may be
// empty when nothing intelligible was heard; that is not an error.
type Engine interface {
	Transcribe(ctx context.Context, samples []int16) (string, error)
	Close() error
}

// Dispatcher prepares a decoded buffer for the engine: float samples are
// clamped and converted to int16, and the call is optionally bounded by a
// timeout. Zero timeout leaves the call unbounded.
type Dispatcher struct {
	engine  Engine
	timeout time.Duration
}

func NewDispatcher(engine Engine, timeout time.Duration) *Dispatcher {
	return &Dispatcher{engine: engine, timeout: timeout}
}

// Dispatch sends pcm to the engine and returns the trimmed transcript. An
// empty result means no speech was recognized.
func (d *Dispatcher) Dispatch(ctx context.Context, pcm audio.PCM) (string, error) {
	samples := audio.ToInt16(pcm.Samples)
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}
	text, err := d.engine.Transcribe(ctx, samples)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
