// Package format renders the large quantities the planner deals in.
package format

import (
	"fmt"
	"math"
	"strings"
)

var suffixes = []string{"", "k", "M", "B", "T", "Qa", "Qi"}

// Compact returns value with a magnitude suffix and two decimals (e.g., "-1.23M").
// Values below one thousand keep two decimals and no suffix.
func Compact(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Sprintf("%v", value)
	}
	sign := ""
	if value < 0 {
		sign = "-"
	}
	abs := math.Abs(value)
	i := 0
	for abs >= 1000 && i < len(suffixes)-1 {
		abs /= 1000
		i++
	}
	// Rounding can carry into the next magnitude.
	if i < len(suffixes)-1 && strings.HasPrefix(fmt.Sprintf("%.2f", abs), "1000") {
		abs /= 1000
		i++
	}
	return fmt.Sprintf("%s%.2f%s", sign, abs, suffixes[i])
}

// Rate returns a per-second figure in compact form (e.g., "12.50k/s").
func Rate(perSecond float64) string {
	return Compact(perSecond) + "/s"
}
