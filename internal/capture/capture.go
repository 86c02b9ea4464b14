// Package capture acquires the input device and turns the microphone into a
// stream of encoded chunks on a fixed interval.
package capture

import (
	"context"

	"cindyd/internal/audio"
)

// Source delivers encoded audio chunks at the configured nominal interval.
//
// Open acquires the device and must roll back anything partially acquired on
// failure. Run blocks, writing chunks to out until ctx is done or the device
// fails. Close releases the device and is safe to call more than once.
type Source interface {
	Open() error
	Run(ctx context.Context, out chan<- audio.Chunk) error
	Close() error
}
