package run

import (
	"fmt"
	"net/http"
)

// metricsServe exposes pipeline counters in Prometheus text format.
func (s *Server) metricsServe(done <-chan struct{}, addr string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		st := s.snapshotStats()
		fmt.Fprintf(w, "cindyd_chunks_total %d\n", st.Chunks)
		fmt.Fprintf(w, "cindyd_flushes_total %d\n", st.Flushes)
		fmt.Fprintf(w, "cindyd_decode_failures_total %d\n", st.DecodeFailures)
		fmt.Fprintf(w, "cindyd_short_segments_total %d\n", st.ShortSegments)
		fmt.Fprintf(w, "cindyd_gated_total %d\n", st.Gated)
		fmt.Fprintf(w, "cindyd_empty_transcripts_total %d\n", st.EmptyTranscripts)
		fmt.Fprintf(w, "cindyd_transcripts_total %d\n", st.Transcripts)
		fmt.Fprintf(w, "cindyd_dispatch_failures_total %d\n", st.DispatchFailures)
		fmt.Fprintf(w, "cindyd_wake_matches_total %d\n", st.WakeMatches)
		fmt.Fprintf(w, "cindyd_hooks_sent_total %d\n", st.HooksSent)
		fmt.Fprintf(w, "cindyd_hooks_skipped_total %d\n", st.HooksSkipped)
		fmt.Fprintf(w, "cindyd_hooks_dropped_total %d\n", st.HooksDropped)
	})
	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	go func() {
		<-done
		_ = server.Close()
	}()
	s.logger.Infof("metrics listening on http://%s/metrics", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Warnf("metrics server: %v", err)
	}
}
