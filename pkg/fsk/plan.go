// Package fsk implements the FSK Plan and Frame Locator: the
// immutable per-session parameters derived from a bellmode.Profile,
// and the sub-bit-granularity search that locates a start/stop-bit
// delimited frame inside a window of samples.
package fsk

import (
	"fmt"
	"math"

	"fskmodem/pkg/dsp"
)

// AnalyzeSteps is the number of candidate start offsets tried per bit
// period during frame search.
const AnalyzeSteps = 10

// MaxNoConfidenceBits is the number of consecutive low-confidence
// frame searches after which the receive loop declares carrier loss
// (the MaxNoConfidenceBits-th one triggers it).
const MaxNoConfidenceBits = 20

// Plan is the immutable set of parameters that describe one FSK
// session: sample rate, mark/space tones, frame shape and analysis
// window size. A Plan is rebuilt (never mutated) whenever the carrier
// band shifts, via WithBandShift.
type Plan struct {
	SampleRate     float64
	Bandwidth      float64
	Mark           float64 // Hz, rounded to the nearest multiple of Bandwidth
	Space          float64
	BMark          int // Mark / Bandwidth
	BSpace         int // Space / Bandwidth
	DataRate       float64
	DataBits       int
	FrameBits      int // DataBits + 2 (prev_stop + start + DataBits data bits)
	NSamplesPerBit float64
	FFTSize        int // smallest power of two >= SampleRate/Bandwidth

	markBin  dsp.Bin
	spaceBin dsp.Bin
}

// New constructs a Plan. sampleRate and dataRate are in Hz and
// bits/sec respectively; mark/space/bandwidth come from a resolved
// bellmode.Profile (or an auto-carrier scan, see WithBandShift).
// mark and space are rounded to the nearest multiple of bandwidth to
// obtain integer band indices; construction fails if the two bands
// coincide, if either band exceeds Nyquist, or if dataBits is
// anything other than 5 or 8.
func New(sampleRate, dataRate, mark, space, bandwidth float64, dataBits int) (*Plan, error) {
	if sampleRate <= 0 || dataRate <= 0 {
		return nil, fmt.Errorf("fsk: sample rate and data rate must be positive")
	}
	if bandwidth <= 0 {
		return nil, fmt.Errorf("fsk: bandwidth must be positive")
	}
	if dataBits != 5 && dataBits != 8 {
		return nil, fmt.Errorf("fsk: data bits must be 5 or 8, got %d", dataBits)
	}

	bMark := int(math.Round(mark / bandwidth))
	bSpace := int(math.Round(space / bandwidth))
	if bMark == bSpace {
		return nil, fmt.Errorf("fsk: mark and space bands coincide at band %d", bMark)
	}
	if bMark < 1 || bSpace < 1 {
		return nil, fmt.Errorf("fsk: band index must be at least 1 (mark=%d space=%d)", bMark, bSpace)
	}
	nyquist := sampleRate / 2
	if float64(bMark)*bandwidth > nyquist || float64(bSpace)*bandwidth > nyquist {
		return nil, fmt.Errorf("fsk: mark/space band exceeds Nyquist frequency %.1f", nyquist)
	}

	p := &Plan{
		SampleRate:     sampleRate,
		Bandwidth:      bandwidth,
		Mark:           float64(bMark) * bandwidth,
		Space:          float64(bSpace) * bandwidth,
		BMark:          bMark,
		BSpace:         bSpace,
		DataRate:       dataRate,
		DataBits:       dataBits,
		FrameBits:      dataBits + 2,
		NSamplesPerBit: sampleRate / dataRate,
	}
	p.FFTSize = nextPow2(int(math.Ceil(sampleRate / bandwidth)))
	p.markBin = dsp.NewBin(sampleRate, p.Mark)
	p.spaceBin = dsp.NewBin(sampleRate, p.Space)
	return p, nil
}

func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// WithBandShift returns a new Plan retuned to a candidate mark
// frequency, keeping the signed mark/space separation (shift) fixed.
// Used by auto-carrier scanning to slide the analysis window across
// the band without reconstructing DataRate/DataBits/sample-rate
// state.
func (p *Plan) WithBandShift(candidateMark float64, shift float64) *Plan {
	np := *p
	np.Mark = candidateMark
	np.Space = candidateMark + shift
	np.BMark = int(math.Round(np.Mark / np.Bandwidth))
	np.BSpace = int(math.Round(np.Space / np.Bandwidth))
	np.markBin = dsp.NewBin(np.SampleRate, np.Mark)
	np.spaceBin = dsp.NewBin(np.SampleRate, np.Space)
	return &np
}

// NSamplesOverscan is the extra trailing sample allowance appended to
// a frame search window, half a bit period rounded to the nearest
// sample and clamped to at least 1.
func (p *Plan) NSamplesOverscan() int {
	n := int(math.Round(p.NSamplesPerBit * 0.5))
	if n < 1 {
		return 1
	}
	return n
}

// BufferSize is the conservative sliding receive buffer size: enough
// samples to hold one full frame (start + data + stop bits) plus one
// bit of slop on either end.
func (p *Plan) BufferSize() int {
	return int(math.Ceil(p.NSamplesPerBit)) * (p.FrameBits + 2)
}

// DetectCarrier performs a full-spectrum scan over exactly FFTSize
// samples, one Goertzel bin per band up to Nyquist, and returns the
// band index of the strongest bin whose magnitude exceeds threshold
// times the mean bin magnitude. Used only in auto-carrier mode before
// tones are pinned; set_tones_by_bandshift (WithBandShift) binds the
// winning band afterward.
func (p *Plan) DetectCarrier(samples []float64, threshold float64) (int, bool) {
	if len(samples) < p.FFTSize {
		return 0, false
	}
	window := samples[:p.FFTSize]

	nyquistBand := int(p.SampleRate / 2 / p.Bandwidth)
	if nyquistBand < 1 {
		return 0, false
	}

	var sum float64
	bestBand := 0
	bestMag := 0.0
	for b := 1; b <= nyquistBand; b++ {
		bin := dsp.NewBin(p.SampleRate, float64(b)*p.Bandwidth)
		mag := bin.Magnitude(window)
		sum += mag
		if mag > bestMag {
			bestMag = mag
			bestBand = b
		}
	}

	mean := sum / float64(nyquistBand)
	if bestBand > 0 && bestMag > threshold*mean {
		return bestBand, true
	}
	return 0, false
}
