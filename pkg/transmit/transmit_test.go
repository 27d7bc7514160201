package transmit

import (
	"bytes"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"fskmodem/pkg/framebits"
	"fskmodem/pkg/fsk"
)

type captureStream struct {
	sampleRate float64
	written    []float64
}

func (c *captureStream) SampleRate() float64 { return c.sampleRate }
func (c *captureStream) Read(buf []float64) (int, error) { return 0, io.EOF }
func (c *captureStream) Write(buf []float64) error {
	c.written = append(c.written, buf...)
	return nil
}
func (c *captureStream) Close() error { return nil }

func TestSineTableMatchesDirectSine(t *testing.T) {
	table := NewSineTable(4096)
	direct := NewSineTable(0)
	for _, p := range []float64{0, 0.25, 0.5, 0.75, 0.1} {
		require.InDelta(t, direct.Sample(p), table.Sample(p), 0.01)
	}
}

func TestOscillatorPhaseContinuity(t *testing.T) {
	osc := NewOscillator(8000, NewSineTable(0))
	var prev float64
	for i := 0; i < 5; i++ {
		prev = osc.Next(1000)
	}
	next := osc.Next(2000)
	// five 1000 Hz steps at 8 kHz leave the phase at 0.625 cycles; the
	// 2000 Hz step continues from there to 0.875 cycles instead of
	// restarting at zero.
	require.False(t, next > 1 || next < -1)
	require.InDelta(t, math.Sin(2*math.Pi*0.875), next, 1e-9)
	_ = prev
}

func TestTransmitterEmitsNonEmptySamples(t *testing.T) {
	plan, err := fsk.New(8000, 300, 1270, 1070, 50, 8)
	require.NoError(t, err)

	tx := &Transmitter{
		Plan:        plan,
		Codec:       framebits.NewASCII(),
		Osc:         NewOscillator(8000, NewSineTable(1024)),
		LeaderBits:  2,
		TrailerBits: 2,
		StopBits:    1,
	}

	stream := &captureStream{sampleRate: 8000}
	err = tx.Run(bytes.NewBufferString("hi"), stream)
	require.NoError(t, err)
	require.NotEmpty(t, stream.written)

	minExpected := int(plan.NSamplesPerBit) * (2 + 2*(1+8+1) + 2)
	require.Greater(t, len(stream.written), minExpected)
}

func TestRunBenchmarks(t *testing.T) {
	var out bytes.Buffer
	err := RunBenchmarks(8000, 0.01, &out)
	require.NoError(t, err)
	require.Contains(t, out.String(), "benchmark:")
}
