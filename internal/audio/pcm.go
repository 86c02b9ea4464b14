package audio

import "math"

// PCM is a decoded mono sample buffer at a fixed sample rate.
type PCM struct {
	Samples    []float32
	SampleRate int
}

// Duration returns the buffer length in seconds.
func (p PCM) Duration() float64 {
	if p.SampleRate <= 0 {
		return 0
	}
	return float64(len(p.Samples)) / float64(p.SampleRate)
}

// RMS computes the root-mean-square amplitude of samples, clamped to 1.0.
// An empty slice has RMS 0.
func RMS(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	rms := math.Sqrt(sum / float64(len(samples)))
	return math.Min(rms, 1.0)
}

// ToInt16 converts float samples to 16-bit signed PCM. Samples are clamped
// to [-1, 1] before scaling by 32767 with symmetric rounding.
func ToInt16(samples []float32) []int16 {
	out := make([]int16, len(samples))
	for i, s := range samples {
		f := float64(s)
		if f > 1 {
			f = 1
		} else if f < -1 {
			f = -1
		}
		out[i] = int16(math.Round(f * 32767))
	}
	return out
}

// ToFloat32 converts 16-bit signed PCM to float samples in [-1, 1).
func ToFloat32(samples []int16) []float32 {
	out := make([]float32, len(samples))
	for i, s := range samples {
		out[i] = float32(s) / 32768.0
	}
	return out
}
