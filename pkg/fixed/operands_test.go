package fixed

import "testing"

func TestWrapCycle(t *testing.T) {
	cases := []struct{ in, want T }{
		{FromFloat(0.5), FromFloat(0.5)},
		{FromFloat(1.25), FromFloat(0.25)},
		{FromFloat(-0.25), FromFloat(0.75)},
		{Zero, Zero},
	}
	for _, c := range cases {
		if got := c.in.WrapCycle(); got != c.want {
			t.Errorf("WrapCycle(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestMulDivRoundTrip(t *testing.T) {
	a := FromFloat(2.5)
	b := FromFloat(4.0)
	got := a.Mul(b).Float()
	if got < 9.9 || got > 10.1 {
		t.Errorf("Mul = %v, want ~10", got)
	}
	if got := a.Div(b).Float(); got < 0.6 || got > 0.65 {
		t.Errorf("Div = %v, want ~0.625", got)
	}
}
