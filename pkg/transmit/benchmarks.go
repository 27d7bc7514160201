package transmit

import (
	"fmt"
	"io"
	"time"

	"fskmodem/pkg/audio"
)

// RunBenchmarks times tone generation with and without a sine LUT
// over the given number of seconds of samples at sampleRate, written
// to a Discard sink so no real audio device is required.
func RunBenchmarks(sampleRate float64, seconds float64, report io.Writer) error {
	n := int(sampleRate * seconds)

	lutOsc := NewOscillator(sampleRate, NewSineTable(1024))
	start := time.Now()
	if err := generateTestTones(lutOsc, n, sampleRate); err != nil {
		return err
	}
	lutElapsed := time.Since(start)

	directOsc := NewOscillator(sampleRate, NewSineTable(0))
	start = time.Now()
	if err := generateTestTones(directOsc, n, sampleRate); err != nil {
		return err
	}
	directElapsed := time.Since(start)

	fmt.Fprintf(report, "benchmark: %d samples, lut=%s direct=%s\n", n, lutElapsed, directElapsed)
	return nil
}

func generateTestTones(osc *Oscillator, n int, sampleRate float64) error {
	sink := audio.NewDiscard(sampleRate, 0)
	defer sink.Close()

	const chunk = 4096
	buf := make([]float64, chunk)
	for remaining := n; remaining > 0; {
		c := chunk
		if remaining < c {
			c = remaining
		}
		for i := 0; i < c; i++ {
			buf[i] = osc.Next(1000)
		}
		if err := sink.Write(buf[:c]); err != nil {
			return err
		}
		remaining -= c
	}
	return nil
}
