// Package selector turns item efficiencies into a purchase probability
// distribution and draws one candidate from it per tick.
package selector

import (
	"errors"
	"fmt"
	"math"

	"github.com/CaioPinho9/space-planner/internal/catalog"
	"github.com/CaioPinho9/space-planner/pkg/mathutil"
)

var (
	// ErrDegenerateSelection reports a malformed weight vector (NaN,
	// infinite or negative efficiencies). The current run cannot continue.
	ErrDegenerateSelection = errors.New("degenerate selection")

	// ErrNoCandidate reports that every weight is zero. Nothing can be drawn
	// this tick.
	ErrNoCandidate = errors.New("no candidate")
)

// Source is the randomness a Selector draws from. *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// Selector holds the normalized weights of one run's catalog. It is not safe
// for concurrent use.
type Selector struct {
	weights []float64
}

// New returns a Selector for a catalog with n items.
func New(n int) *Selector {
	return &Selector{weights: make([]float64, n)}
}

// Recompute scores every item. An item is masked when it is not buyable or
// when paying for it at the current income would take longer than the ticks
// remaining. The efficiencies of the remaining items are normalized to sum to
// one; if none remain, or all of them have zero efficiency, every weight is
// zero.
func (s *Selector) Recompute(items []catalog.Item, income float64, remaining int) error {
	if len(s.weights) != len(items) {
		s.weights = make([]float64, len(items))
	}

	total := 0.0
	for i, item := range items {
		s.weights[i] = 0
		if !eligible(item, income, remaining) {
			continue
		}
		e := item.Efficiency()
		if !mathutil.IsFinite(e) || e < 0 {
			return fmt.Errorf("%w: %s has efficiency %v", ErrDegenerateSelection, item.Name(), e)
		}
		s.weights[i] = e
		total += e
	}

	if total == 0 {
		return nil
	}
	if !mathutil.IsFinite(total) {
		return fmt.Errorf("%w: total efficiency overflow", ErrDegenerateSelection)
	}
	for i := range s.weights {
		s.weights[i] /= total
	}
	return nil
}

func eligible(item catalog.Item, income float64, remaining int) bool {
	if !item.Buyable() {
		return false
	}
	if income <= 0 {
		return false
	}
	return item.Cost()/income <= float64(remaining)
}

// Prune zeroes the weight of every item whose cost exceeds wealth and
// renormalizes the rest. It reports false when nothing is left.
func (s *Selector) Prune(items []catalog.Item, wealth float64) bool {
	total := 0.0
	for i, w := range s.weights {
		if w == 0 {
			continue
		}
		if items[i].Cost() > wealth {
			s.weights[i] = 0
			continue
		}
		total += w
	}
	if total == 0 {
		return false
	}
	for i := range s.weights {
		s.weights[i] /= total
	}
	return true
}

// Draw picks one index with probability proportional to its weight.
func (s *Selector) Draw(src Source) (int, error) {
	total := 0.0
	last := -1
	for i, w := range s.weights {
		if math.IsNaN(w) || w < 0 {
			return -1, fmt.Errorf("%w: weight %d is %v", ErrDegenerateSelection, i, w)
		}
		if w > 0 {
			total += w
			last = i
		}
	}
	if last < 0 {
		return -1, ErrNoCandidate
	}

	target := src.Float64() * total
	acc := 0.0
	for i, w := range s.weights {
		if w == 0 {
			continue
		}
		acc += w
		if target < acc {
			return i, nil
		}
	}
	// Rounding can leave target just past the final boundary.
	return last, nil
}
