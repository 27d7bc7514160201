package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func sineWindow(sampleRate, freq float64, n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
	}
	return w
}

func TestMagnitudePeaksAtTunedFrequency(t *testing.T) {
	const sampleRate = 48000.0
	bin := NewBin(sampleRate, 1200)
	window := sineWindow(sampleRate, 1200, 200)

	onFreq := bin.Magnitude(window)
	offFreq := NewBin(sampleRate, 2200).Magnitude(window)

	require.Greater(t, onFreq, offFreq*5, "tuned bin should dominate an off-frequency bin")
}

func TestMagnitudeOfSilenceIsZero(t *testing.T) {
	bin := NewBin(48000, 1200)
	require.Equal(t, 0.0, bin.Magnitude(make([]float64, 100)))
}

func TestMagnitudeScalesWithAmplitude(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		amp := rapid.Float64Range(0.1, 10).Draw(rt, "amp")
		const sampleRate = 8000.0
		freq := 1000.0
		window := sineWindow(sampleRate, freq, 80)
		scaled := make([]float64, len(window))
		for i, v := range window {
			scaled[i] = v * amp
		}
		bin := NewBin(sampleRate, freq)
		base := bin.Magnitude(window)
		got := bin.Magnitude(scaled)
		require.InDelta(rt, base*amp, got, base*amp*0.05+1e-9)
	})
}
