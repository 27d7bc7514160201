package audio

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConvertRoundTripInt16(t *testing.T) {
	for _, s := range []int16{0, 1, -1, 32000, -32000} {
		f := Int16ToFloat64(s)
		require.InDelta(t, float64(s)/32768.0, f, 1e-9)
		require.InDelta(t, s, Float64ToInt16(f), 1)
	}
}

func TestFloat64ToInt16Clamps(t *testing.T) {
	require.Equal(t, int16(32767), Float64ToInt16(2.0))
	require.Equal(t, int16(-32767), Float64ToInt16(-2.0))
}

func TestDiscardReadWrite(t *testing.T) {
	d := NewDiscard(8000, 10)
	buf := make([]float64, 4)
	n, err := d.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 4, n)

	n, err = d.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 4, n)

	n, err = d.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	n, err = d.Read(buf)
	require.ErrorIs(t, err, io.EOF)
	require.Equal(t, 0, n)

	require.NoError(t, d.Write([]float64{0.1, 0.2}))
	require.NoError(t, d.Close())
}

func TestFileRoundTrip(t *testing.T) {
	path := t.TempDir() + "/tone.wav"

	w, err := CreateFileWrite(path, 8000)
	require.NoError(t, err)
	samples := []float64{0, 0.5, -0.5, 0.25, -1, 1}
	require.NoError(t, w.Write(samples))
	require.NoError(t, w.Close())

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(44))

	r, err := OpenFileRead(path)
	require.NoError(t, err)
	defer r.Close()
	require.Equal(t, 8000.0, r.SampleRate())

	buf := make([]float64, len(samples))
	n, err := r.Read(buf)
	require.NoError(t, err)
	require.Equal(t, len(samples), n)
	for i, want := range samples {
		require.InDelta(t, want, buf[i], 1.0/32767)
	}
}
