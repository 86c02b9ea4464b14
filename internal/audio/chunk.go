package audio

import (
	"sync"
	"time"
)

// Chunk is one recorder timeslice: encoded audio bytes plus the wall-clock
// time it arrived. Chunks are never mutated after creation.
type Chunk struct {
	Data []byte
	At   time.Time
}

// Window accumulates chunks between flushes. It tracks the running byte
// total and the arrival time of the most recent chunk, so trigger checks
// never have to walk the chunk list. Safe for concurrent use; the capture
// goroutine appends while the silence ticker inspects.
type Window struct {
	mu     sync.Mutex
	chunks []Chunk
	size   int
	last   time.Time
}

func NewWindow() *Window {
	return &Window{}
}

// Append adds a chunk and returns the updated running byte size.
func (w *Window) Append(c Chunk) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.chunks = append(w.chunks, c)
	w.size += len(c.Data)
	w.last = c.At
	return w.size
}

// Drain removes and returns all held chunks in arrival order and resets the
// window. Calling Drain on an empty window returns nil.
func (w *Window) Drain() []Chunk {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := w.chunks
	w.chunks = nil
	w.size = 0
	return out
}

// Size returns the running byte total.
func (w *Window) Size() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.size
}

// Len returns the number of held chunks.
func (w *Window) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.chunks)
}

// LastActivity returns the arrival time of the most recent chunk, or the
// zero time if nothing has been appended since the last drain.
func (w *Window) LastActivity() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last
}

// Concat joins the data of drained chunks oldest-first.
func Concat(chunks []Chunk) []byte {
	total := 0
	for _, c := range chunks {
		total += len(c.Data)
	}
	out := make([]byte, 0, total)
	for _, c := range chunks {
		out = append(out, c.Data...)
	}
	return out
}
