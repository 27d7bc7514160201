// Package dsp implements the Tone Analyzer: single-bin frequency
// magnitude estimation over a window of samples, the primitive that
// the FSK Plan and Frame Locator build on to score candidate frames.
package dsp

import "math"

// Bin is a Goertzel single-bin detector tuned to one frequency at one
// sample rate. It is stateless between calls: Magnitude re-runs the
// recurrence over whatever window it is given rather than carrying
// streaming state itself.
type Bin struct {
	coeff      float64
	sampleRate float64
	freq       float64
}

// NewBin builds a detector for freq Hz at the given sample rate.
func NewBin(sampleRate, freq float64) Bin {
	k := freq / sampleRate
	omega := 2 * math.Pi * k
	return Bin{
		coeff:      2 * math.Cos(omega),
		sampleRate: sampleRate,
		freq:       freq,
	}
}

// Freq reports the frequency this bin was built for.
func (b Bin) Freq() float64 { return b.freq }

// Magnitude runs the Goertzel recurrence over window and returns the
// magnitude of the DFT component at b.Freq(), scaled by window length
// so that magnitudes from windows of different sizes are comparable.
func (b Bin) Magnitude(window []float64) float64 {
	if len(window) == 0 {
		return 0
	}
	var s0, s1, s2 float64
	for _, x := range window {
		s0 = x + b.coeff*s1 - s2
		s2 = s1
		s1 = s0
	}
	real := s1 - s2*math.Cos(2*math.Pi*b.freq/b.sampleRate)
	imag := s2 * math.Sin(2*math.Pi*b.freq/b.sampleRate)
	mag := math.Sqrt(real*real + imag*imag)
	return mag / float64(len(window))
}
