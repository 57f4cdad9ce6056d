package simulation

import (
	"context"
	"errors"

	"github.com/CaioPinho9/space-planner/internal/buff"
	"github.com/CaioPinho9/space-planner/internal/catalog"
	"github.com/CaioPinho9/space-planner/internal/selector"
	"github.com/CaioPinho9/space-planner/pkg/constants"
)

// Policy selects how weights are refreshed between purchases.
type Policy string

const (
	// PolicyFull rescores every item on every tick.
	PolicyFull Policy = constants.WeightPolicyFull
	// PolicyPrune rescores after a purchase and otherwise only drops items
	// that cost more than the current wealth.
	PolicyPrune Policy = constants.WeightPolicyPrune
)

// RunOptions parameterize a single run.
type RunOptions struct {
	TimeSteps int
	// StartIncome overrides the catalog income when positive.
	StartIncome   float64
	MinimumIncome float64
	Policy        Policy
}

// Result is the outcome of one completed run.
type Result struct {
	Index  int64
	Income float64
	Wealth float64
	Log    []Event
}

// Simulate plays one run to the end of its horizon on cat, which it mutates
// and must therefore be a private copy. ctx is polled once per tick.
func Simulate(ctx context.Context, cat *catalog.Catalog, opts RunOptions, src selector.Source) (Result, error) {
	items := cat.Items()
	done := ctx.Done()

	income := opts.StartIncome
	if income <= 0 {
		income = cat.Income()
	}
	if income <= 0 {
		income = opts.MinimumIncome
	}

	var (
		wealth float64
		log    []Event
		bought bool
	)
	buffs := buff.NewManager()
	weights := selector.New(cat.Len())
	if err := weights.Recompute(items, income, opts.TimeSteps); err != nil {
		return Result{}, err
	}

	for tick := 1; tick <= opts.TimeSteps; tick++ {
		select {
		case <-done:
			return Result{}, ctx.Err()
		default:
		}

		wealth += income
		income -= buffs.Use()

		remaining := opts.TimeSteps - tick + 1
		if bought || opts.Policy != PolicyPrune || !weights.Prune(items, wealth) {
			if err := weights.Recompute(items, income, remaining); err != nil {
				return Result{}, err
			}
		}
		bought = false

		idx, err := weights.Draw(src)
		if errors.Is(err, selector.ErrNoCandidate) {
			continue
		}
		if err != nil {
			return Result{}, err
		}

		item := items[idx]
		if !item.Buyable() || item.Cost() > wealth {
			continue
		}

		cost := item.Cost()
		quantity := item.Quantity()
		output := item.PowerOutput()
		b, err := item.Buy()
		if err != nil {
			return Result{}, err
		}
		wealth -= cost
		income += output
		income += buffs.Add(b)
		bought = true

		log = append(log, Event{
			Tick:     tick,
			Income:   income,
			Item:     item.Name(),
			Cost:     cost,
			Quantity: quantity,
		})
	}

	return Result{Income: income, Wealth: wealth, Log: log}, nil
}
