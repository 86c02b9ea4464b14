package asr

import (
	"context"
	"errors"
	"testing"
	"time"

	"cindyd/internal/audio"
)

type fakeEngine struct {
	got   []int16
	text  string
	err   error
	delay time.Duration
}

func (f *fakeEngine) Transcribe(ctx context.Context, samples []int16) (string, error) {
	f.got = samples
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.text, f.err
}

func (f *fakeEngine) Close() error { return nil }

func TestDispatchConvertsToInt16(t *testing.T) {
	eng := &fakeEngine{text: " hello "}
	d := NewDispatcher(eng, 0)

	pcm := audio.PCM{Samples: []float32{0, 1, -1, 2}, SampleRate: 16000}
	text, err := d.Dispatch(context.Background(), pcm)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if text != "hello" {
		t.Fatalf("text = %q, want trimmed %q", text, "hello")
	}
	want := []int16{0, 32767, -32767, 32767}
	if len(eng.got) != len(want) {
		t.Fatalf("engine got %d samples, want %d", len(eng.got), len(want))
	}
	for i := range want {
		if eng.got[i] != want[i] {
			t.Fatalf("sample %d = %d, want %d", i, eng.got[i], want[i])
		}
	}
}

func TestDispatchPropagatesError(t *testing.T) {
	sentinel := errors.New("engine down")
	d := NewDispatcher(&fakeEngine{err: sentinel}, 0)
	_, err := d.Dispatch(context.Background(), audio.PCM{Samples: []float32{0.1}, SampleRate: 16000})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected engine error, got %v", err)
	}
}

func TestDispatchTimeout(t *testing.T) {
	d := NewDispatcher(&fakeEngine{text: "late", delay: 500 * time.Millisecond}, 20*time.Millisecond)
	_, err := d.Dispatch(context.Background(), audio.PCM{Samples: []float32{0.1}, SampleRate: 16000})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
