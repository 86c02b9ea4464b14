//go:build whisper

package asr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	"cindyd/internal/audio"
	"cindyd/internal/config"

	"github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
	"github.com/sirupsen/logrus"
)

// whisperEngine runs whisper.cpp locally. The model is loaded once; every
// Transcribe call gets a fresh whisper context that is dropped when the call
// returns, so one call never inherits decoder state from another.
type whisperEngine struct {
	cfg    *config.Config
	logger *logrus.Logger
	model  whisper.Model
}

// NewEngine loads the configured whisper model.
func NewEngine(cfg *config.Config, logger *logrus.Logger) (Engine, error) {
	model, err := whisper.New(cfg.ASR.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	return &whisperEngine{cfg: cfg, logger: logger, model: model}, nil
}

func (e *whisperEngine) Transcribe(ctx context.Context, samples []int16) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	params := whisper.NewParams(whisper.SAMPLING_GREEDY)
	params.SetNThreads(runtime.NumCPU())
	params.SetAudioCtx(0)

	wctx, err := e.model.NewContext(params)
	if err != nil {
		return "", err
	}

	if lang := strings.TrimSpace(e.cfg.ASR.Language); lang != "" {
		if err := wctx.SetLanguage(lang); err != nil {
			e.logger.Warnf("set language: %v", err)
		}
	}

	if err := wctx.Process(audio.ToFloat32(samples), nil, nil, nil); err != nil {
		return "", err
	}

	var b strings.Builder
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		seg, err := wctx.NextSegment()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return "", err
		}
		b.WriteString(seg.Text)
		if !strings.HasSuffix(seg.Text, " ") {
			b.WriteByte(' ')
		}
	}
	return b.String(), nil
}

func (e *whisperEngine) Close() error {
	return e.model.Close()
}
