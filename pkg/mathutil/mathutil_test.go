package mathutil

import (
	"math"
	"testing"
)

func TestIsFinite(t *testing.T) {
	if !IsFinite(0) || !IsFinite(-12.5) {
		t.Error("expected ordinary values to be finite")
	}
	if IsFinite(math.NaN()) || IsFinite(math.Inf(1)) || IsFinite(math.Inf(-1)) {
		t.Error("expected NaN and infinities to be rejected")
	}
}

func TestFloatBitsRoundTrip(t *testing.T) {
	for _, v := range []float64{0, 1.5, -3.25, 1e300} {
		if got := BitsToFloat(FloatToBits(v)); got != v {
			t.Errorf("round trip of %v returned %v", v, got)
		}
	}
}
