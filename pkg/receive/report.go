package receive

import (
	"fmt"
	"math"

	"fskmodem/pkg/fsk"
)

// Report is the NOCARRIER line emitted when carrier is lost or at
// clean EOF, and the data behind it, including the "rate
// perfect"/percentage-skew branch.
type Report struct {
	NData       uint
	Confidence  float64
	Throughput  float64
	RatePerfect bool
	SkewPercent float64
	Slow        bool
}

func buildReport(plan *fsk.Plan, nFramesDecoded uint, confidenceTotal float64, carrierNSamples int64) Report {
	nbitsTotal := float64(nFramesDecoded) * float64(plan.FrameBits)
	r := Report{NData: nFramesDecoded}
	if nFramesDecoded > 0 {
		r.Confidence = confidenceTotal / float64(nFramesDecoded)
	}

	if carrierNSamples <= 0 {
		return r
	}

	r.Throughput = nbitsTotal * plan.SampleRate / float64(carrierNSamples)

	expected := math.Round(nbitsTotal * plan.NSamplesPerBit)
	if int64(expected) == carrierNSamples {
		r.RatePerfect = true
		return r
	}

	skew := (r.Throughput - plan.DataRate) / plan.DataRate
	r.SkewPercent = math.Abs(skew) * 100
	r.Slow = math.Signbit(skew)
	return r
}

// String renders the "### NOCARRIER ... ###" line.
func (r Report) String() string {
	base := fmt.Sprintf("### NOCARRIER ndata=%d confidence=%.3f throughput=%.2f", r.NData, r.Confidence, r.Throughput)
	if r.RatePerfect {
		return base + " (rate perfect) ###"
	}
	word := "fast"
	if r.Slow {
		word = "slow"
	}
	return base + fmt.Sprintf(" (%.1f%% %s) ###", r.SkewPercent, word)
}

// CarrierMessage renders the "### CARRIER ... ###" acquisition line.
// Data rates below 100 bps (RTTY) are reported with two decimal
// places, matching the original's "%.2f" vs "%u" branch.
func CarrierMessage(plan *fsk.Plan) string {
	if plan.DataRate < 100 {
		return fmt.Sprintf("### CARRIER %.2f @ %.1f Hz ###", plan.DataRate, plan.Mark)
	}
	return fmt.Sprintf("### CARRIER %d @ %.1f Hz ###", int(plan.DataRate), plan.Mark)
}
