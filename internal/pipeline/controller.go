// Package pipeline drives the capture → segment → gate → transcribe → match
// loop. The controller owns all mutable session state; everything it calls
// into (window, decoder, matcher, dispatcher) is a pure transformation over
// the data handed to it.
package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"cindyd/internal/asr"
	"cindyd/internal/audio"
	"cindyd/internal/capture"
	"cindyd/internal/config"
	"cindyd/internal/decode"
	"cindyd/internal/logging"
	"cindyd/internal/match"

	"github.com/sirupsen/logrus"
)

// Stats are cumulative pipeline counters, safe to read concurrently.
type Stats struct {
	Chunks           atomic.Int64
	Flushes          atomic.Int64
	DecodeFailures   atomic.Int64
	ShortSegments    atomic.Int64
	Gated            atomic.Int64
	EmptyTranscripts atomic.Int64
	Transcripts      atomic.Int64
	DispatchFailures atomic.Int64
	WakeMatches      atomic.Int64
}

// Controller is the pipeline state machine. A flush (drain → decode → gate →
// dispatch → match) runs as its own task; the processing flag is the only
// mutual exclusion in the design and guarantees at most one flush in flight.
// Overlapping flush requests are dropped, never queued — while a flush is
// out, new chunks keep accumulating in the fresh window and the next trigger
// check retries.
type Controller struct {
	cfg     *config.Config
	logger  *logrus.Logger
	sampler *logging.Sampler

	source  capture.Source
	decoder *decode.Decoder
	disp    *asr.Dispatcher
	matcher *match.Matcher

	window *audio.Window

	listening  atomic.Bool
	processing atomic.Bool

	onWake func()

	// OnTranscript, when set before Start, observes every non-empty
	// transcript whether or not it contains a wake phrase.
	OnTranscript func(text string)

	Stats Stats

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New wires a controller from config. The engine may be nil only if wake
// processing is never started.
func New(cfg *config.Config, logger *logrus.Logger, source capture.Source, engine asr.Engine) *Controller {
	c := &Controller{
		cfg:     cfg,
		logger:  logger,
		sampler: logging.NewSampler(cfg.Logging.SampleEvery),
		source:  source,
		decoder: decode.New(cfg.Audio.SampleRate, cfg.Decode.MinBytes, cfg.Decode.MinDurationSec),
		disp:    asr.NewDispatcher(engine, time.Duration(cfg.ASR.TimeoutSec*float64(time.Second))),
		window:  audio.NewWindow(),
	}
	if cfg.Wake.Enabled {
		c.matcher = match.NewMatcher(cfg.Wake.Words, cfg.Wake.Similarity)
	}
	return c
}

// Listening reports whether the controller is between Start and Stop.
func (c *Controller) Listening() bool {
	return c.listening.Load()
}

// Start acquires the capture device and begins continuous intake. onWake is
// invoked at most once per qualifying transcript. Calling Start while
// already listening is a no-op. A device acquisition failure is returned to
// the caller and leaves the controller idle.
func (c *Controller) Start(onWake func()) error {
	if !c.listening.CompareAndSwap(false, true) {
		return nil
	}
	if err := c.source.Open(); err != nil {
		c.listening.Store(false)
		return err
	}
	c.onWake = onWake

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	chunks := make(chan audio.Chunk, 8)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := c.source.Run(ctx, chunks); err != nil && !errors.Is(err, context.Canceled) {
			c.logger.Errorf("capture: %v", err)
		}
	}()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case chunk := <-chunks:
				c.handleChunk(ctx, chunk)
			}
		}
	}()

	c.wg.Add(1)
	go c.silenceLoop(ctx)

	c.logger.Info("pipeline listening")
	return nil
}

// Stop is idempotent. It halts intake, waits for any in-flight flush to
// finish or abandon, releases the device, and clears session state. Safe to
// call while a flush is outstanding.
func (c *Controller) Stop() {
	if !c.listening.CompareAndSwap(true, false) {
		return
	}
	c.cancel()
	c.wg.Wait()
	if err := c.source.Close(); err != nil {
		c.logger.Warnf("close capture source: %v", err)
	}
	c.window.Drain()
	c.processing.Store(false)
	c.logger.Info("pipeline stopped")
}

func (c *Controller) handleChunk(ctx context.Context, chunk audio.Chunk) {
	c.Stats.Chunks.Add(1)
	size := c.window.Append(chunk)
	if volumeTriggered(c.window.Len(), size, &c.cfg.Segment) {
		c.tryFlush(ctx, "volume")
	}
}

// silenceLoop runs the periodic silence check after an initial warm-up.
func (c *Controller) silenceLoop(ctx context.Context) {
	defer c.wg.Done()

	warmup := time.Duration(c.cfg.Segment.WarmupMS) * time.Millisecond
	select {
	case <-ctx.Done():
		return
	case <-time.After(warmup):
	}

	ticker := time.NewTicker(time.Duration(c.cfg.Segment.SilenceCheckMS) * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.checkSilence(ctx)
		}
	}
}

func (c *Controller) checkSilence(ctx context.Context) {
	last := c.window.LastActivity()
	if last.IsZero() {
		return
	}
	if silenceTriggered(c.window.Len(), c.window.Size(), time.Since(last), &c.cfg.Segment) {
		c.tryFlush(ctx, "silence")
	}
}

// tryFlush drains the window and runs one processing cycle as its own task.
// If a flush is already in flight the request is dropped.
func (c *Controller) tryFlush(ctx context.Context, reason string) {
	if !c.processing.CompareAndSwap(false, true) {
		c.logger.Debugf("flush (%s) dropped: cycle already in flight", reason)
		return
	}
	chunks := c.window.Drain()
	if len(chunks) == 0 {
		c.processing.Store(false)
		return
	}
	c.Stats.Flushes.Add(1)
	data := audio.Concat(chunks)
	c.logger.Debugf("flush (%s): %d chunks, %d bytes", reason, len(chunks), len(data))

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer c.processing.Store(false)
		c.process(ctx, data)
	}()
}

// process runs decode → gate → dispatch → match for one flush. Every
// failure here is an expected outcome that ends the cycle early; nothing
// propagates to the caller.
func (c *Controller) process(ctx context.Context, data []byte) {
	pcm, err := c.decoder.Decode(data)
	if err != nil {
		switch {
		case errors.Is(err, decode.ErrTooSmall), errors.Is(err, decode.ErrTooShort):
			c.Stats.ShortSegments.Add(1)
			if c.sampler.Allow("short-segment") {
				c.logger.Debugf("segment skipped: %v", err)
			}
		default:
			c.Stats.DecodeFailures.Add(1)
			if c.sampler.Allow("decode") {
				c.logger.Warnf("decode failed: %v", err)
			}
		}
		return
	}

	rms := audio.RMS(pcm.Samples)
	if rms < c.cfg.Gate.RMSThreshold {
		c.Stats.Gated.Add(1)
		c.logger.Debugf("segment gated: rms %.5f below %.5f", rms, c.cfg.Gate.RMSThreshold)
		return
	}

	text, err := c.disp.Dispatch(ctx, pcm)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		c.Stats.DispatchFailures.Add(1)
		if c.sampler.Allow("dispatch") {
			c.logger.Errorf("transcription failed: %v", err)
		}
		return
	}
	if text == "" {
		c.Stats.EmptyTranscripts.Add(1)
		return
	}

	c.Stats.Transcripts.Add(1)
	c.logger.Infof("heard: %q", text)
	if c.OnTranscript != nil {
		c.OnTranscript(text)
	}

	if c.matcher == nil {
		return
	}
	if phrase, ok := c.matcher.Match(text); ok {
		c.Stats.WakeMatches.Add(1)
		c.logger.Infof("wake phrase matched: %q", phrase)
		if c.onWake != nil {
			c.onWake()
		}
	}
}

func volumeTriggered(chunks, size int, seg *config.SegmentConfig) bool {
	return chunks >= seg.VolumeFlushChunks && size >= seg.VolumeFlushBytes
}

func silenceTriggered(chunks, size int, idle time.Duration, seg *config.SegmentConfig) bool {
	if chunks == 0 || size < seg.SilenceFlushBytes {
		return false
	}
	return idle > time.Duration(seg.SilenceFlushMS)*time.Millisecond
}
