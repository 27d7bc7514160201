package bellmode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveRTTY(t *testing.T) {
	p, err := Resolve("rtty", 0, 0, 0)
	require.NoError(t, err)
	require.Equal(t, 45.45, p.DataRate)
	require.Equal(t, 5, p.DataBits)
	require.Equal(t, 1.5, p.StopBits)
	require.True(t, p.Baudot)
	require.Equal(t, 1585.0, p.Mark)
	require.Equal(t, 1415.0, p.Space)
	require.Equal(t, 10.0, p.Bandwidth)
}

func TestResolveBell103(t *testing.T) {
	p, err := Resolve("300", 0, 0, 0)
	require.NoError(t, err)
	require.Equal(t, 8, p.DataBits)
	require.Equal(t, 1270.0, p.Mark)
	require.Equal(t, 1070.0, p.Space)
	require.Equal(t, 50.0, p.Bandwidth)
}

func TestResolveBell202(t *testing.T) {
	p, err := Resolve("1200", 0, 0, 0)
	require.NoError(t, err)
	require.Equal(t, 1200.0/2+600, p.Mark)
	require.Equal(t, 200.0, p.Bandwidth)
}

func TestResolveBandwidthClampedToDataRate(t *testing.T) {
	p, err := Resolve("40", 0, 0, 0)
	require.NoError(t, err)
	require.LessOrEqual(t, p.Bandwidth, p.DataRate)
}

func TestResolveOverrides(t *testing.T) {
	p, err := Resolve("1200", 1500, 900, 300)
	require.NoError(t, err)
	require.Equal(t, 1500.0, p.Mark)
	require.Equal(t, 900.0, p.Space)
	require.Equal(t, 300.0, p.Bandwidth)
}

func TestResolveInvalid(t *testing.T) {
	_, err := Resolve("bogus", 0, 0, 0)
	require.Error(t, err)
}

func TestSanitizeSearchLimit(t *testing.T) {
	require.Equal(t, 0.75, SanitizeSearchLimit(0.75, 0.5))
	require.Equal(t, 0.9, SanitizeSearchLimit(0.75, 0.9))
	require.Equal(t, 0.0, SanitizeSearchLimit(0.75, 0))
}
