package audio

import (
	"math"
	"testing"
)

func TestRMSSine(t *testing.T) {
	// RMS of a full-cycle sine with amplitude a is a/sqrt(2).
	const amp = 0.5
	samples := make([]float32, 16000)
	for i := range samples {
		samples[i] = amp * float32(math.Sin(2*math.Pi*float64(i)/100))
	}
	got := RMS(samples)
	want := amp / math.Sqrt2
	if math.Abs(got-want) > 0.01 {
		t.Fatalf("RMS = %f, want ~%f", got, want)
	}
}

func TestRMSClamped(t *testing.T) {
	samples := []float32{4, -4, 4, -4}
	if got := RMS(samples); got != 1.0 {
		t.Fatalf("RMS should clamp to 1.0, got %f", got)
	}
}

func TestRMSEmptyAndSilence(t *testing.T) {
	if got := RMS(nil); got != 0 {
		t.Fatalf("RMS(nil) = %f, want 0", got)
	}
	if got := RMS(make([]float32, 1000)); got != 0 {
		t.Fatalf("RMS(silence) = %f, want 0", got)
	}
}

func TestToInt16Rounding(t *testing.T) {
	cases := []struct {
		in   float32
		want int16
	}{
		{0, 0},
		{1, 32767},
		{-1, -32767},
		{2.5, 32767},   // clamped
		{-2.5, -32767}, // clamped
		{0.5, 16384},   // round(16383.5)
		{-0.5, -16384},
	}
	for _, c := range cases {
		got := ToInt16([]float32{c.in})[0]
		if got != c.want {
			t.Fatalf("ToInt16(%f) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestDuration(t *testing.T) {
	p := PCM{Samples: make([]float32, 24000), SampleRate: 16000}
	if got := p.Duration(); got != 1.5 {
		t.Fatalf("duration = %f, want 1.5", got)
	}
}
