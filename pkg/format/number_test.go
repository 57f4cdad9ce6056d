package format

import (
	"math"
	"testing"
)

func TestCompact(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{0, "0.00"},
		{999.99, "999.99"},
		{1000, "1.00k"},
		{1234567, "1.23M"},
		{-2500, "-2.50k"},
		{999999, "1.00M"},
		{1.8e9, "1.80B"},
		{math.Inf(1), "+Inf"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := Compact(tt.value); got != tt.want {
				t.Errorf("Compact(%v) = %s, want %s", tt.value, got, tt.want)
			}
		})
	}
}

func TestRate(t *testing.T) {
	if got := Rate(12500); got != "12.50k/s" {
		t.Errorf("Rate() = %s", got)
	}
}
