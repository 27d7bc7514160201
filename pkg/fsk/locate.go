package fsk

import "math"

// Candidate is a located frame: the sample offset it starts at, the
// packed frame word, and the confidence score that produced it. Bits
// is laid out LSB-first: bit 0 is the prev_stop bit, bit 1 is the
// start bit, bits 2..FrameBits-1 are the DataBits data bits, and bit
// FrameBits is the stop bit. DataWord strips the framing bits back
// out.
type Candidate struct {
	StartSample int
	Bits        uint32
	Confidence  float64
}

// FindFrame searches samples (already advanced to the region where a
// frame is expected to start) for the best-scoring start/stop-bit
// delimited frame, trying candidate offsets at sub-bit positions
// between 0 and maxStartSample. searchLimit, when positive, stops the
// search as soon as a candidate reaches that confidence; zero or
// negative means search exhaustively.
//
// A candidate offset whose frame would run past the end of samples is
// skipped, so a frame spanning the end of the buffer is simply not yet
// searchable.
func (p *Plan) FindFrame(samples []float64, maxStartSample int, searchLimit float64) (Candidate, bool) {
	step := int(p.NSamplesPerBit / AnalyzeSteps)
	if step < 1 {
		step = 1
	}

	var best Candidate
	found := false

	for start := 0; start <= maxStartSample; start += step {
		cand, ok := p.scoreFrame(samples, start)
		if !ok {
			continue
		}
		if !found || cand.Confidence > best.Confidence {
			best = cand
			found = true
		}
		if searchLimit > 0 && cand.Confidence >= searchLimit {
			return cand, true
		}
	}
	return best, found
}

// scoreFrame evaluates one candidate start offset. It examines
// FrameBits+1 consecutive bit-length cells: bit 0 (prev_stop), bit 1
// (start), DataBits data bits, and the trailing stop bit, classifying
// each by mark/space magnitude comparison. Each cell is analyzed over
// its central min(FFTSize, cell length) samples, so the analysis
// window never reaches into a neighbouring bit cell. The candidate is
// rejected outright unless prev_stop is mark, start is space, and
// stop is mark; confidence is averaged over the data bits only.
func (p *Plan) scoreFrame(samples []float64, start int) (Candidate, bool) {
	cells := p.FrameBits + 1
	stopIdx := cells - 1

	var bits uint32
	var confidenceSum float64

	for i := 0; i < cells; i++ {
		lo := start + int(float64(i)*p.NSamplesPerBit)
		hi := start + int(float64(i+1)*p.NSamplesPerBit)
		if hi > len(samples) {
			return Candidate{}, false
		}
		window := centerWindow(samples, lo, hi, p.FFTSize)
		if window == nil {
			return Candidate{}, false
		}

		markMag := p.markBin.Magnitude(window)
		spaceMag := p.spaceBin.Magnitude(window)

		if i >= 2 && i < stopIdx {
			total := markMag + spaceMag
			if total > 0 {
				confidenceSum += math.Abs(markMag-spaceMag) / total
			}
		}

		if markMag > spaceMag {
			bits |= 1 << uint(i)
		}
	}

	if bits&1 == 0 { // prev_stop must be mark (1)
		return Candidate{}, false
	}
	if bits&2 != 0 { // start must be space (0)
		return Candidate{}, false
	}
	if bits&(1<<uint(stopIdx)) == 0 { // stop must be mark (1)
		return Candidate{}, false
	}

	return Candidate{
		StartSample: start,
		Bits:        bits,
		Confidence:  confidenceSum / float64(p.DataBits),
	}, true
}

// centerWindow extracts the window of min(n, hi-lo) samples centered
// within samples[lo:hi]. It returns nil if samples ends before that
// window does.
func centerWindow(samples []float64, lo, hi, n int) []float64 {
	cell := hi - lo
	if n > cell {
		n = cell
	}
	offset := lo + (cell-n)/2
	if offset < 0 {
		offset = 0
	}
	if offset+n > len(samples) {
		return nil
	}
	return samples[offset : offset+n]
}
