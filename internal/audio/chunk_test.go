package audio

import (
	"bytes"
	"testing"
	"time"
)

func TestWindowRunningSize(t *testing.T) {
	w := NewWindow()
	sizes := []int{100, 250, 4096, 1}
	total := 0
	for _, n := range sizes {
		total += n
		got := w.Append(Chunk{Data: make([]byte, n), At: time.Now()})
		if got != total {
			t.Fatalf("running size = %d, want %d", got, total)
		}
	}
	if w.Size() != total {
		t.Fatalf("Size() = %d, want %d", w.Size(), total)
	}
	if w.Len() != len(sizes) {
		t.Fatalf("Len() = %d, want %d", w.Len(), len(sizes))
	}
}

func TestWindowDrainResets(t *testing.T) {
	w := NewWindow()
	w.Append(Chunk{Data: []byte("abc"), At: time.Now()})
	w.Append(Chunk{Data: []byte("defg"), At: time.Now()})

	chunks := w.Drain()
	if len(chunks) != 2 {
		t.Fatalf("drained %d chunks, want 2", len(chunks))
	}
	if w.Size() != 0 || w.Len() != 0 {
		t.Fatalf("window not empty after drain: size=%d len=%d", w.Size(), w.Len())
	}
}

func TestWindowDrainEmpty(t *testing.T) {
	w := NewWindow()
	if got := w.Drain(); len(got) != 0 {
		t.Fatalf("drain of empty window returned %d chunks", len(got))
	}
	// Draining twice must also be safe.
	if got := w.Drain(); len(got) != 0 {
		t.Fatalf("second drain returned %d chunks", len(got))
	}
}

func TestWindowOrderPreserved(t *testing.T) {
	w := NewWindow()
	w.Append(Chunk{Data: []byte("one")})
	w.Append(Chunk{Data: []byte("two")})
	w.Append(Chunk{Data: []byte("three")})

	got := Concat(w.Drain())
	want := []byte("onetwothree")
	if !bytes.Equal(got, want) {
		t.Fatalf("concat = %q, want %q", got, want)
	}
}

func TestWindowLastActivity(t *testing.T) {
	w := NewWindow()
	if !w.LastActivity().IsZero() {
		t.Fatalf("fresh window should have zero last activity")
	}
	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	w.Append(Chunk{Data: []byte("x"), At: at})
	if !w.LastActivity().Equal(at) {
		t.Fatalf("last activity = %v, want %v", w.LastActivity(), at)
	}
}
