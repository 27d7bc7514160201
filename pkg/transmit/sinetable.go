// Package transmit implements the transmit path: leader/data/trailer
// bit emission through a phase-continuous oscillator, reusing the
// framebits codec that the receive side decodes with.
package transmit

import (
	"math"

	"fskmodem/pkg/fixed"
)

// SineTable is a precomputed one-cycle sine lookup table. A table of
// size 0 disables the LUT: Sample falls back to math.Sin directly,
// matching the --lut 0 flag in the CLI surface.
type SineTable struct {
	values []float64
}

// NewSineTable builds a table with size entries spanning one full
// cycle. size <= 0 returns a disabled table.
func NewSineTable(size int) *SineTable {
	if size <= 0 {
		return &SineTable{}
	}
	values := make([]float64, size)
	for i := range values {
		values[i] = math.Sin(2 * math.Pi * float64(i) / float64(size))
	}
	return &SineTable{values: values}
}

// Enabled reports whether this table has entries.
func (t *SineTable) Enabled() bool { return len(t.values) > 0 }

// Sample looks up sin(2*pi*cyclePhase) for a phase already normalized
// to [0, 1) cycles.
func (t *SineTable) Sample(cyclePhase float64) float64 {
	if !t.Enabled() {
		return math.Sin(2 * math.Pi * cyclePhase)
	}
	idx := int(cyclePhase * float64(len(t.values)))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(t.values) {
		idx = len(t.values) - 1
	}
	return t.values[idx]
}

// Oscillator generates phase-continuous tones: switching Next's freq
// argument between calls never introduces a phase discontinuity
// ("click"), since the running phase carries across the switch
// instead of resetting. The phase itself is kept in float64 (a
// fixed-point accumulator with only 6 fractional bits is far too
// coarse for an audio-rate phase step); the output gain set by
// --gain is exactly the kind of [0,1] coefficient that precision
// suits, so Amplitude is carried as a fixed.T.
type Oscillator struct {
	sampleRate float64
	table      *SineTable
	phase      float64
	Amplitude  fixed.T
}

// NewOscillator builds an oscillator at sampleRate using table (which
// may be a disabled table to force direct math.Sin evaluation), at
// full amplitude.
func NewOscillator(sampleRate float64, table *SineTable) *Oscillator {
	return &Oscillator{sampleRate: sampleRate, table: table, Amplitude: fixed.One}
}

// Next advances the oscillator by one sample at freq Hz and returns
// the resulting waveform value in [-1, 1].
func (o *Oscillator) Next(freq float64) float64 {
	o.phase += freq / o.sampleRate
	o.phase -= math.Floor(o.phase)
	return o.table.Sample(o.phase) * o.Amplitude.Float()
}
