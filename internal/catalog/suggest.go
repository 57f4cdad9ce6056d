package catalog

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// suggest returns the closest item name to name, or "" when nothing is close.
func (c *Catalog) suggest(name string) string {
	in := strings.ToLower(strings.TrimSpace(name))
	if in == "" {
		return ""
	}
	best := ""
	bestDist := -1
	for _, item := range c.items {
		candidate := strings.ToLower(item.Name())
		dist := levenshtein.ComputeDistance(in, candidate)
		if dist > distanceLimit(len(candidate)) {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best = item.Name()
			bestDist = dist
		}
	}
	return best
}

func distanceLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
