package receive

import (
	"bytes"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"fskmodem/pkg/framebits"
	"fskmodem/pkg/fsk"
)

type memStream struct {
	sampleRate float64
	samples    []float64
	pos        int
}

func (m *memStream) SampleRate() float64 { return m.sampleRate }

func (m *memStream) Read(buf []float64) (int, error) {
	if m.pos >= len(m.samples) {
		return 0, io.EOF
	}
	n := copy(buf, m.samples[m.pos:])
	m.pos += n
	return n, nil
}

func (m *memStream) Write(buf []float64) error { return nil }
func (m *memStream) Close() error              { return nil }

func appendTone(out []float64, sampleRate, freq float64, n int, phase *float64) []float64 {
	for i := 0; i < n; i++ {
		out = append(out, math.Sin(*phase))
		*phase += 2 * math.Pi * freq / sampleRate
	}
	return out
}

func encodeFrame(out []float64, plan *fsk.Plan, frameBits uint32, phase *float64) []float64 {
	nPerBit := int(plan.NSamplesPerBit)
	cells := plan.FrameBits + 1
	for i := 0; i < cells; i++ {
		bit := (frameBits >> uint(i)) & 1
		freq := plan.Space
		if bit == 1 {
			freq = plan.Mark
		}
		out = appendTone(out, plan.SampleRate, freq, nPerBit, phase)
	}
	return out
}

func TestLoopDecodesASCIILoopback(t *testing.T) {
	const sampleRate = 48000.0
	plan, err := fsk.New(sampleRate, 300, 1270, 1070, 50, 8)
	require.NoError(t, err)

	codec := framebits.NewASCII()
	message := "Hi"

	var samples []float64
	phase := 0.0
	// leader: mark tone
	samples = appendTone(samples, sampleRate, plan.Mark, int(plan.NSamplesPerBit)*4, &phase)
	for i := 0; i < len(message); i++ {
		words := codec.Encode(message[i])
		for _, w := range words {
			samples = encodeFrame(samples, plan, plan.PackFrame(w), &phase)
		}
	}
	// trailer: mark tone silence-equivalent
	samples = appendTone(samples, sampleRate, plan.Mark, int(plan.NSamplesPerBit)*20, &phase)

	stream := &memStream{sampleRate: sampleRate, samples: samples}

	loop := &Loop{
		Plan:                plan,
		Codec:               framebits.NewASCII(),
		ConfidenceThreshold: 0.5,
	}

	var out bytes.Buffer
	var reports bytes.Buffer
	err = loop.Run(stream, &out, &reports)
	require.NoError(t, err)
	require.Contains(t, out.String(), message)
}

func TestLoopReportsNoCarrierOnSilence(t *testing.T) {
	const sampleRate = 8000.0
	plan, err := fsk.New(sampleRate, 300, 1270, 1070, 50, 8)
	require.NoError(t, err)

	samples := make([]float64, int(plan.NSamplesPerBit)*200)
	stream := &memStream{sampleRate: sampleRate, samples: samples}

	loop := &Loop{
		Plan:                plan,
		Codec:               framebits.NewASCII(),
		ConfidenceThreshold: 0.5,
	}

	var out, reports bytes.Buffer
	err = loop.Run(stream, &out, &reports)
	require.NoError(t, err)
	require.Empty(t, out.String())
	require.Empty(t, reports.String())
}

func TestAdvanceBuffer(t *testing.T) {
	buf := []float64{1, 2, 3, 4, 5}
	buf = advanceBuffer(buf, 2)
	require.Equal(t, []float64{3, 4, 5}, buf)
	buf = advanceBuffer(buf, 10)
	require.Empty(t, buf)
}
