package logging

import "sync"

// Sampler gates high-frequency log statements to every Nth occurrence per
// key. The first occurrence of a key always passes, so a one-off failure is
// never hidden. Counting is deterministic; there is no randomness involved.
type Sampler struct {
	every  uint64
	mu     sync.Mutex
	counts map[string]uint64
}

// NewSampler returns a Sampler that lets one in every n calls through.
// n <= 1 disables sampling (everything passes).
func NewSampler(n int) *Sampler {
	if n < 1 {
		n = 1
	}
	return &Sampler{
		every:  uint64(n),
		counts: make(map[string]uint64),
	}
}

// Allow reports whether this occurrence of key should be logged.
func (s *Sampler) Allow(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.counts[key]
	s.counts[key] = c + 1
	return c%s.every == 0
}

// Count returns how many times key has been seen.
func (s *Sampler) Count(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[key]
}
