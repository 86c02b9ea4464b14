// Package run hosts the daemon: it owns the pipeline controller and wires
// its callbacks to transcript recording, hook dispatch, the control socket,
// and metrics.
package run

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"cindyd/internal/asr"
	"cindyd/internal/capture"
	"cindyd/internal/config"
	"cindyd/internal/control"
	"cindyd/internal/hook"
	"cindyd/internal/pipeline"

	"github.com/sirupsen/logrus"
)

// Server manages the pipeline, hook dispatch, metrics, and control endpoints.
type Server struct {
	cfg       *config.Config
	logger    *logrus.Logger
	ctrl      *pipeline.Controller
	hook      *hook.Runner
	startedAt time.Time

	transcriptsMu sync.Mutex
	transcripts   []control.Transcript
	lastText      string

	hooksSent    atomic.Int64
	hooksSkipped atomic.Int64
	hooksDropped atomic.Int64

	hookCh chan hook.Job
	wg     sync.WaitGroup
}

// Serve runs the daemon until interrupted.
func Serve(cfg *config.Config, logger *logrus.Logger) error {
	if err := config.MustStatePaths(cfg); err != nil {
		return err
	}
	if err := os.WriteFile(cfg.Paths.PidPath, []byte(fmt.Sprintf("%d", os.Getpid())), 0o644); err != nil {
		return err
	}
	defer func() {
		if err := os.Remove(cfg.Paths.PidPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warnf("remove pid file: %v", err)
		}
	}()
	if err := os.Remove(cfg.Paths.SocketPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Debugf("remove stale socket: %v", err)
	}

	src, err := capture.New(cfg, logger)
	if err != nil {
		return err
	}
	engine, err := asr.NewEngine(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := engine.Close(); err != nil {
			logger.Warnf("close engine: %v", err)
		}
	}()

	srv := &Server{
		cfg:         cfg,
		logger:      logger,
		ctrl:        pipeline.New(cfg, logger, src, engine),
		hook:        hook.NewRunner(cfg, logger),
		startedAt:   time.Now(),
		transcripts: make([]control.Transcript, 0, cfg.UI.StatusTail),
		hookCh:      make(chan hook.Job, 16),
	}
	srv.ctrl.OnTranscript = srv.handleTranscript

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go srv.controlLoop(ctx)
	go srv.hookWorker(ctx)
	if cfg.Metrics.Enabled {
		go srv.metricsServe(ctx.Done(), cfg.Metrics.Addr)
	}
	go srv.watchdog(ctx.Done())

	// Device acquisition failure is the one fatal pipeline error.
	if err := srv.ctrl.Start(srv.onWake); err != nil {
		return err
	}
	defer srv.ctrl.Stop()

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	select {
	case s := <-sigCh:
		logger.Infof("received signal %s, shutting down", s)
		cancel()
	case <-ctx.Done():
	}
	srv.wg.Wait()
	return nil
}

// handleTranscript records every non-empty transcript the pipeline hears.
func (s *Server) handleTranscript(text string) {
	entry := control.Transcript{
		Text:      text,
		Timestamp: time.Now(),
	}

	s.transcriptsMu.Lock()
	s.lastText = text
	if s.cfg.Transcripts.Enabled {
		s.transcripts = append(s.transcripts, entry)
		if len(s.transcripts) > s.cfg.UI.StatusTail {
			s.transcripts = s.transcripts[len(s.transcripts)-s.cfg.UI.StatusTail:]
		}
	}
	s.transcriptsMu.Unlock()

	if !s.cfg.Transcripts.Enabled {
		return
	}
	f, err := os.OpenFile(s.cfg.Paths.TranscriptPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err == nil {
		if _, err := fmt.Fprintf(f, "%s\t%s\n", entry.Timestamp.Format(time.RFC3339), entry.Text); err != nil {
			s.logger.Warnf("write transcript: %v", err)
		}
		_ = f.Close()
	}
}

// onWake is the pipeline's wake callback: hand the last heard transcript,
// wake phrase stripped, to the hook queue.
func (s *Server) onWake() {
	s.transcriptsMu.Lock()
	text := s.lastText
	s.transcriptsMu.Unlock()

	if s.cfg.Hook.Command == "" {
		s.logger.Debug("wake heard but no hook configured")
		return
	}

	payload := StripWakePhrase(text, s.cfg.Wake.Words)
	if payload == "" {
		payload = text
	}
	if !s.hook.ShouldRun() {
		s.logger.Debug("hook skipped (cooldown)")
		s.hooksSkipped.Add(1)
		return
	}
	job := hook.Job{Text: payload, Timestamp: time.Now()}
	select {
	case s.hookCh <- job:
	default:
		s.hooksDropped.Add(1)
		s.logger.Warn("hook queue full, dropping job")
	}
}

func (s *Server) hookWorker(ctx context.Context) {
	s.wg.Add(1)
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-s.hookCh:
			if err := s.hook.Run(ctx, job); err != nil {
				s.logger.Errorf("hook: %v", err)
				continue
			}
			s.hooksSent.Add(1)
		}
	}
}

// watchdog logs periodically when the daemon has heard nothing for a long
// stretch; usually a sign of a muted or unplugged mic.
func (s *Server) watchdog(done <-chan struct{}) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if s.ctrl.Stats.Chunks.Load() == 0 && time.Since(s.startedAt) > 2*time.Minute {
				s.logger.Warn("no audio chunks received since startup; check the input device")
			}
		}
	}
}

func (s *Server) controlLoop(ctx context.Context) {
	ln, err := net.Listen("unix", s.cfg.Paths.SocketPath)
	if err != nil {
		s.logger.Errorf("control listen: %v", err)
		return
	}
	defer func() {
		if err := ln.Close(); err != nil && ctx.Err() == nil {
			s.logger.Warnf("control listener close: %v", err)
		}
	}()
	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.Errorf("control accept: %v", err)
			continue
		}
		go s.handleConn(ctx, conn)
	}
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer func() {
		if err := conn.Close(); err != nil && ctx.Err() == nil {
			s.logger.Warnf("control connection close: %v", err)
		}
	}()
	sc := bufio.NewScanner(conn)
	if !sc.Scan() {
		return
	}
	var req control.Request
	if err := json.Unmarshal(sc.Bytes(), &req); err != nil {
		return
	}
	switch req.Op {
	case "status":
		resp := control.Status{
			Running:     true,
			Listening:   s.ctrl.Listening(),
			UptimeSec:   time.Since(s.startedAt).Seconds(),
			Transcripts: s.copyTranscripts(),
		}
		_ = json.NewEncoder(conn).Encode(resp)
	case "stats":
		_ = json.NewEncoder(conn).Encode(s.snapshotStats())
	case "health":
		_ = json.NewEncoder(conn).Encode(control.SimpleResponse{OK: true, Message: "ok"})
	default:
		// ignore unknown
	}
}

func (s *Server) copyTranscripts() []control.Transcript {
	s.transcriptsMu.Lock()
	defer s.transcriptsMu.Unlock()
	out := make([]control.Transcript, len(s.transcripts))
	copy(out, s.transcripts)
	return out
}

func (s *Server) snapshotStats() control.Stats {
	st := &s.ctrl.Stats
	return control.Stats{
		Chunks:           st.Chunks.Load(),
		Flushes:          st.Flushes.Load(),
		DecodeFailures:   st.DecodeFailures.Load(),
		ShortSegments:    st.ShortSegments.Load(),
		Gated:            st.Gated.Load(),
		EmptyTranscripts: st.EmptyTranscripts.Load(),
		Transcripts:      st.Transcripts.Load(),
		DispatchFailures: st.DispatchFailures.Load(),
		WakeMatches:      st.WakeMatches.Load(),
		HooksSent:        s.hooksSent.Load(),
		HooksSkipped:     s.hooksSkipped.Load(),
		HooksDropped:     s.hooksDropped.Load(),
	}
}
