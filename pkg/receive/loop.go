// Package receive implements the Receive Loop: the carrier
// acquisition/loss state machine that drives the Frame Locator over a
// sliding window of samples read from an audio.Stream, decoding
// accepted frames through a framebits.Codec.
package receive

import (
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"fskmodem/pkg/audio"
	"fskmodem/pkg/framebits"
	"fskmodem/pkg/fsk"
)

// AutoCarrierThreshold is the default detect_carrier
// magnitude-over-mean threshold for -a/--auto-carrier. Loop itself
// uses AutoCarrier.Threshold, which the CLI fills from
// --auto-carrier-threshold (same default).
const AutoCarrierThreshold = 0.001

// AutoCarrier configures the optional carrier band auto-detection
// scan enabled by -a/--auto-carrier. BShift is the signed band-index
// offset from a candidate mark band to its space band, computed by
// bellmode.AutoDetectBandShift.
type AutoCarrier struct {
	Enabled   bool
	BShift    int
	Threshold float64
}

// Loop is the receive-side state machine. It owns no goroutines: Run
// blocks the calling goroutine for its entire lifetime, its only
// suspension points being stream.Read and the output writer.
type Loop struct {
	Plan                *fsk.Plan
	Codec               framebits.Codec
	ConfidenceThreshold float64
	SearchLimit         float64
	Auto                AutoCarrier
	Logger              *log.Logger

	carrierAcquired bool
	noConfStreak    int
	nFramesDecoded  uint
	carrierNSamples int64
	confidenceTotal float64
}

// Run drains stream until EOF, writing decoded bytes to out and
// carrier/no-carrier report lines to reports. It returns nil on clean
// EOF and a non-nil error only on a stream read failure; low
// confidence and EOF are not error conditions.
func (l *Loop) Run(stream audio.Stream, out io.Writer, reports io.Writer) error {
	if l.Logger == nil {
		l.Logger = log.Default()
	}

	frameLen := int(math.Ceil(l.Plan.NSamplesPerBit * float64(l.Plan.FrameBits)))
	overscan := l.Plan.NSamplesOverscan()
	capacity := l.Plan.BufferSize()

	buf := make([]float64, 0, capacity)
	chunk := make([]float64, capacity)

	for {
		if room := cap(buf) - len(buf); room > 0 {
			n, err := stream.Read(chunk[:room])
			if n > 0 {
				buf = append(buf, chunk[:n]...)
			}
			if err != nil {
				if err == io.EOF {
					l.flushOnEOF(reports)
					return nil
				}
				return fmt.Errorf("receive: stream read: %w", err)
			}
		}

		maxStart := len(buf) - frameLen - overscan
		if maxStart < 0 {
			if len(buf) == cap(buf) {
				// buffer is full but still short a frame: drop the
				// oldest sample and keep waiting for more data.
				buf = advanceBuffer(buf, 1)
			}
			continue
		}

		if !l.carrierAcquired && l.Auto.Enabled {
			l.scanForCarrier(buf)
		}

		limit := l.SearchLimit
		if l.carrierAcquired {
			limit = 0 // exhaustive: once locked, always score the whole window
		}

		cand, ok := l.Plan.FindFrame(buf, maxStart, limit)
		if !ok || cand.Confidence < l.ConfidenceThreshold {
			l.onNoConfidence(reports)
			buf = advanceBuffer(buf, overscan)
			continue
		}

		l.onFrame(cand, out, reports)
		advance := cand.StartSample + frameLen - overscan
		if advance < 1 {
			advance = 1
		}
		buf = advanceBuffer(buf, advance)
	}
}

// scanForCarrier slides detect_carrier across buf in steps of
// min(nsamples_per_bit, fftsize), each call analyzing a fixed
// fftsize-sample window. On a hit it rejects bands whose
// corresponding space band would fall below 1, otherwise binds the
// plan to the new band via WithBandShift.
func (l *Loop) scanForCarrier(buf []float64) {
	if len(buf) < l.Plan.FFTSize {
		return
	}
	step := int(l.Plan.NSamplesPerBit)
	if step < 1 || step > l.Plan.FFTSize {
		step = l.Plan.FFTSize
	}

	for start := 0; start+l.Plan.FFTSize <= len(buf); start += step {
		band, found := l.Plan.DetectCarrier(buf[start:start+l.Plan.FFTSize], l.Auto.Threshold)
		if !found {
			continue
		}
		if band+l.Auto.BShift < 1 {
			l.Logger.Debug("auto-carrier candidate rejected: space band too low", "band", band)
			continue
		}
		mark := float64(band) * l.Plan.Bandwidth
		shiftHz := float64(l.Auto.BShift) * l.Plan.Bandwidth
		l.Logger.Debug("auto-carrier candidate", "band", band, "mark", mark)
		l.Plan = l.Plan.WithBandShift(mark, shiftHz)
		return
	}
}

func (l *Loop) onNoConfidence(reports io.Writer) {
	l.noConfStreak++
	if l.carrierAcquired && l.noConfStreak >= fsk.MaxNoConfidenceBits {
		r := buildReport(l.Plan, l.nFramesDecoded, l.confidenceTotal, l.carrierNSamples)
		fmt.Fprintln(reports, r.String())
		l.resetCarrierState()
	}
}

func (l *Loop) onFrame(cand fsk.Candidate, out io.Writer, reports io.Writer) {
	l.noConfStreak = 0

	if !l.carrierAcquired {
		l.carrierAcquired = true
		l.nFramesDecoded = 0
		l.carrierNSamples = 0
		l.confidenceTotal = 0
		fmt.Fprintln(reports, CarrierMessage(l.Plan))
	}

	dataWord := l.Plan.DataWord(cand.Bits)
	if b, ok := l.Codec.Decode(dataWord); ok {
		out.Write([]byte{b})
	}
	l.nFramesDecoded++
	l.confidenceTotal += cand.Confidence
	frameLen := int(math.Ceil(l.Plan.NSamplesPerBit * float64(l.Plan.FrameBits)))
	l.carrierNSamples += int64(cand.StartSample + frameLen)
}

func (l *Loop) flushOnEOF(reports io.Writer) {
	if !l.carrierAcquired {
		return
	}
	r := buildReport(l.Plan, l.nFramesDecoded, l.confidenceTotal, l.carrierNSamples)
	fmt.Fprintln(reports, r.String())
	l.resetCarrierState()
}

func (l *Loop) resetCarrierState() {
	l.carrierAcquired = false
	l.nFramesDecoded = 0
	l.carrierNSamples = 0
	l.confidenceTotal = 0
	l.noConfStreak = 0
	l.Codec.Reset()
}

// advanceBuffer drops the first n samples (or all of them), sliding
// the receive window forward.
func advanceBuffer(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf
	}
	if n >= len(buf) {
		return buf[:0]
	}
	copy(buf, buf[n:])
	return buf[:len(buf)-n]
}
