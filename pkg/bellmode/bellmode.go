// Package bellmode resolves the CLI's positional baudmode argument
// ("rtty" or a numeric bit rate) into the mark/space frequencies,
// bandwidth, data bit count and stop-bit count that feed the FSK
// Plan.
package bellmode

import (
	"fmt"
	"math"
	"strconv"
)

// Profile is the resolved set of parameters for one modem session.
type Profile struct {
	DataRate      float64 // bits/sec
	DataBits      int     // 5 (Baudot) or 8 (ASCII)
	StopBits      float64 // transmit stop-bit count, e.g. 1, 1.5, 2
	Mark          float64 // Hz
	Space         float64 // Hz
	Bandwidth     float64 // Hz, per-tone analysis bandwidth
	AutoShift     float64 // Hz, signed mark-space shift used by autocarrier band search
	Baudot        bool
}

// Resolve implements the baudmode/frequency-default ladder: "rtty"
// selects 45.45 baud 5-bit Baudot with 1.5 stop bits; anything else
// parses as a bit rate and defaults to 8-bit ASCII with 1 stop bit.
// mark/space/bandwidth are overridden by explicit flags when the
// caller supplies non-zero override values.
func Resolve(baudmode string, markOverride, spaceOverride, bandwidthOverride float64) (Profile, error) {
	var p Profile

	if baudmode == "rtty" {
		p.DataRate = 45.45
		p.DataBits = 5
		p.StopBits = 1.5
		p.Baudot = true
	} else {
		rate, err := strconv.ParseFloat(baudmode, 64)
		if err != nil || rate <= 0 {
			return Profile{}, fmt.Errorf("bellmode: invalid baudmode %q", baudmode)
		}
		p.DataRate = rate
		p.DataBits = 8
		p.StopBits = 1
		p.Baudot = false
	}

	switch {
	case p.DataRate >= 400:
		p.AutoShift = -(p.DataRate * 5 / 6)
		p.Mark = p.DataRate/2 + 600
		p.Space = p.Mark - p.AutoShift
		p.Bandwidth = 200
	case p.DataRate >= 100:
		p.AutoShift = 200
		p.Mark = 1270
		p.Space = p.Mark - 200
		p.Bandwidth = 50
	default:
		p.AutoShift = 170
		p.Mark = 1585
		p.Space = p.Mark - 170
		p.Bandwidth = 10
	}

	if p.Bandwidth > p.DataRate {
		p.Bandwidth = p.DataRate
	}

	if markOverride != 0 {
		p.Mark = markOverride
	}
	if spaceOverride != 0 {
		p.Space = spaceOverride
	}
	if bandwidthOverride != 0 {
		p.Bandwidth = bandwidthOverride
	}

	return p, nil
}

// SanitizeSearchLimit enforces the invariant that the confidence
// search limit is never tighter than the acceptance threshold, the
// same clamp applied to fsk_confidence_search_limit in main().
func SanitizeSearchLimit(threshold, limit float64) float64 {
	if limit > 0 && limit < threshold {
		return threshold
	}
	return limit
}

// AutoDetectBandShift computes the signed band-index shift used when
// scanning candidate carrier bands during auto-carrier mode. It is
// deliberately not "fixed" to a single-sign convention: the ≥400bps
// profile carries a negative AutoShift, so this returns a positive
// band offset there and a negative one for the other two cases, and
// that asymmetry is left untouched rather than silently patched into
// something more "correct".
func AutoDetectBandShift(autoShift, bandwidth float64) int {
	return int(math.Round(-(autoShift + bandwidth/2.0) / bandwidth))
}
