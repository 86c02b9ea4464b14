package control

import "time"

type Request struct {
	Op string `json:"op"`
}

type Status struct {
	Running     bool         `json:"running"`
	Listening   bool         `json:"listening"`
	UptimeSec   float64      `json:"uptime_sec"`
	Transcripts []Transcript `json:"transcripts"`
}

type Stats struct {
	Chunks           int64 `json:"chunks"`
	Flushes          int64 `json:"flushes"`
	DecodeFailures   int64 `json:"decode_failures"`
	ShortSegments    int64 `json:"short_segments"`
	Gated            int64 `json:"gated"`
	EmptyTranscripts int64 `json:"empty_transcripts"`
	Transcripts      int64 `json:"transcripts"`
	DispatchFailures int64 `json:"dispatch_failures"`
	WakeMatches      int64 `json:"wake_matches"`
	HooksSent        int64 `json:"hooks_sent"`
	HooksSkipped     int64 `json:"hooks_skipped"`
	HooksDropped     int64 `json:"hooks_dropped"`
}

type SimpleResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

type Transcript struct {
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}
