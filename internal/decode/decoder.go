// Package decode turns accumulated recorder bytes back into PCM. A flush is
// a sequence of self-contained RIFF/WAVE blobs concatenated in arrival
// order; the decoder walks the stream blob by blob and produces one mono
// buffer at the target sample rate.
package decode

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"cindyd/internal/audio"

	"github.com/go-audio/wav"
)

var (
	// ErrTooSmall marks input below the minimum byte size. Normal outcome
	// for a flush of a near-empty window, not a fault.
	ErrTooSmall = errors.New("audio segment below minimum byte size")

	// ErrTooShort marks decoded audio below the minimum duration. Also a
	// normal, frequent outcome.
	ErrTooShort = errors.New("decoded audio below minimum duration")
)

// Decoder decodes flush payloads into mono PCM at a fixed sample rate.
// Decoders hold no per-call state; every Decode builds and discards its own
// wav readers.
type Decoder struct {
	sampleRate     int
	minBytes       int
	minDurationSec float64
}

func New(sampleRate, minBytes int, minDurationSec float64) *Decoder {
	return &Decoder{
		sampleRate:     sampleRate,
		minBytes:       minBytes,
		minDurationSec: minDurationSec,
	}
}

// Decode parses data as a concatenated sequence of WAV blobs and returns the
// joined mono buffer at the decoder's sample rate. Inputs smaller than the
// byte floor return ErrTooSmall; decoded audio shorter than the duration
// floor returns ErrTooShort; anything else wrong with the container is a
// plain decode error.
func (d *Decoder) Decode(data []byte) (audio.PCM, error) {
	if len(data) < d.minBytes {
		return audio.PCM{}, fmt.Errorf("%w: %d < %d", ErrTooSmall, len(data), d.minBytes)
	}

	var samples []float32
	off := 0
	for off < len(data) {
		seg, n, err := nextBlob(data[off:])
		if err != nil {
			return audio.PCM{}, fmt.Errorf("blob at offset %d: %w", off, err)
		}
		mono, err := decodeBlob(seg, d.sampleRate)
		if err != nil {
			return audio.PCM{}, fmt.Errorf("blob at offset %d: %w", off, err)
		}
		samples = append(samples, mono...)
		off += n
	}

	pcm := audio.PCM{Samples: samples, SampleRate: d.sampleRate}
	if pcm.Duration() < d.minDurationSec {
		return audio.PCM{}, fmt.Errorf("%w: %.2fs < %.2fs", ErrTooShort, pcm.Duration(), d.minDurationSec)
	}
	return pcm, nil
}

// nextBlob slices one RIFF container off the front of data using the
// declared chunk size, returning the blob and its total length.
func nextBlob(data []byte) ([]byte, int, error) {
	if len(data) < 12 {
		return nil, 0, fmt.Errorf("truncated container: %d bytes", len(data))
	}
	if !bytes.Equal(data[0:4], []byte("RIFF")) || !bytes.Equal(data[8:12], []byte("WAVE")) {
		return nil, 0, fmt.Errorf("not a RIFF/WAVE container")
	}
	declared := int(binary.LittleEndian.Uint32(data[4:8]))
	total := 8 + declared
	if total > len(data) {
		return nil, 0, fmt.Errorf("container declares %d bytes, only %d available", total, len(data))
	}
	return data[:total], total, nil
}

// decodeBlob decodes a single WAV container to mono float samples at dstSR.
func decodeBlob(seg []byte, dstSR int) ([]float32, error) {
	dec := wav.NewDecoder(bytes.NewReader(seg))
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid wav container")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("read pcm: %w", err)
	}
	if buf == nil || buf.Format == nil || len(buf.Data) == 0 {
		return nil, fmt.Errorf("empty pcm payload")
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth == 0 {
		bitDepth = buf.SourceBitDepth
	}
	if bitDepth <= 0 || bitDepth > 32 {
		return nil, fmt.Errorf("unsupported bit depth %d", bitDepth)
	}
	scale := float32(int64(1) << (bitDepth - 1))

	floats := make([]float32, len(buf.Data))
	for i, v := range buf.Data {
		floats[i] = float32(v) / scale
	}

	mono := audio.Downmix(floats, buf.Format.NumChannels)
	return audio.Resample(mono, buf.Format.SampleRate, dstSR), nil
}
