package catalog

import (
	"fmt"

	"github.com/CaioPinho9/space-planner/internal/buff"
)

// Upgrade is a one-shot purchase multiplying the output of a target producer.
// The target is stored by name and resolved against the catalog the upgrade
// currently belongs to; the resolution is cached until the upgrade is bound to
// another catalog.
type Upgrade struct {
	name       string
	targetName string
	multiplier float64
	cost       float64
	quantity   int

	catalog  *Catalog
	resolved target
}

// NewUpgrade creates an unbought upgrade with a fixed cost.
func NewUpgrade(name, targetName string, multiplier, cost float64) *Upgrade {
	return &Upgrade{
		name:       name,
		targetName: targetName,
		multiplier: multiplier,
		cost:       cost,
	}
}

func (u *Upgrade) Name() string  { return u.name }
func (u *Upgrade) Kind() Kind    { return KindUpgrade }
func (u *Upgrade) Cost() float64 { return u.cost }
func (u *Upgrade) Quantity() int { return u.quantity }
func (u *Upgrade) Buyable() bool { return u.quantity == 0 }

// PowerOutput is the income the upgrade would add if bought now.
func (u *Upgrade) PowerOutput() float64 {
	t, err := u.target()
	if err != nil {
		return 0
	}
	return t.Contribution() * (u.multiplier - 1)
}

func (u *Upgrade) Efficiency() float64 {
	if u.quantity > 0 {
		return 0
	}
	return u.PowerOutput() / u.cost
}

func (u *Upgrade) Buy() (*buff.Buff, error) {
	if !u.Buyable() {
		return nil, fmt.Errorf("%w: upgrade %s already bought", ErrInvalidOperation, u.name)
	}
	if err := u.setQuantity(1); err != nil {
		return nil, err
	}
	return nil, nil
}

func (u *Upgrade) target() (target, error) {
	if u.resolved != nil {
		return u.resolved, nil
	}
	if u.catalog == nil {
		return nil, fmt.Errorf("upgrade %s is not bound to a catalog", u.name)
	}
	item, err := u.catalog.Lookup(u.targetName)
	if err != nil {
		return nil, fmt.Errorf("upgrade %s: %w", u.name, err)
	}
	t, ok := item.(target)
	if !ok {
		return nil, fmt.Errorf("upgrade %s: %s cannot be upgraded", u.name, u.targetName)
	}
	u.resolved = t
	return t, nil
}

func (u *Upgrade) setQuantity(quantity int) error {
	if quantity < 0 || quantity > 1 {
		return fmt.Errorf("%w: upgrade %s quantity must be 0 or 1, got %d", ErrInvalidOperation, u.name, quantity)
	}
	if quantity == u.quantity {
		return nil
	}
	t, err := u.target()
	if err != nil {
		return err
	}
	if quantity == 1 {
		t.setMultiplier(t.Multiplier() * u.multiplier)
	} else {
		t.setMultiplier(t.Multiplier() / u.multiplier)
	}
	u.quantity = quantity
	return nil
}

func (u *Upgrade) clone() Item {
	cp := *u
	cp.catalog = nil
	cp.resolved = nil
	return &cp
}

func (u *Upgrade) bind(c *Catalog) {
	u.catalog = c
	u.resolved = nil
}
