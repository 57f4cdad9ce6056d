package catalog

import (
	"fmt"
	"sort"

	"github.com/CaioPinho9/space-planner/internal/buff"
	"github.com/CaioPinho9/space-planner/internal/predictor"
)

// Definitions list the items of a catalog in the order they appear.
type Definitions struct {
	Producers      []ProducerDef
	GatedProducers []GatedProducerDef
	Upgrades       []UpgradeDef
}

// ProducerDef defines a Producer.
type ProducerDef struct {
	Name  string
	Power float64
	Buff  *BuffSpec
}

// GatedProducerDef defines a GatedProducer.
type GatedProducerDef struct {
	ProducerDef
	Threshold  int
	CostStepAt int
	CostStep   float64
}

// UpgradeDef defines an Upgrade.
type UpgradeDef struct {
	Name       string
	Target     string
	Multiplier float64
	Cost       float64
}

// Listing is the public view of a buyable item.
type Listing struct {
	Name     string  `json:"name"`
	Kind     string  `json:"kind"`
	Quantity int     `json:"quantity"`
	Cost     float64 `json:"cost"`
}

// Catalog is an ordered set of items with unique names.
type Catalog struct {
	items []Item
	index map[string]int
}

// New builds a catalog from defs, pricing producers through p.
func New(p predictor.Predictor, defs Definitions) (*Catalog, error) {
	if p == nil {
		return nil, fmt.Errorf("catalog requires a predictor")
	}
	c := &Catalog{index: make(map[string]int)}

	for _, def := range defs.Producers {
		item, err := NewProducer(def.Name, def.Power, def.Buff, p)
		if err != nil {
			return nil, err
		}
		if err := c.add(item); err != nil {
			return nil, err
		}
	}
	for _, def := range defs.GatedProducers {
		item, err := NewGatedProducer(def.Name, def.Power, def.Threshold, def.CostStepAt, def.CostStep, def.Buff, p)
		if err != nil {
			return nil, err
		}
		if err := c.add(item); err != nil {
			return nil, err
		}
	}
	for _, def := range defs.Upgrades {
		if !validPrice(def.Cost) {
			return nil, fmt.Errorf("%w: upgrade %s costs %v", ErrInvalidPrice, def.Name, def.Cost)
		}
		if err := c.add(NewUpgrade(def.Name, def.Target, def.Multiplier, def.Cost)); err != nil {
			return nil, err
		}
	}

	// Resolve every upgrade target up front so a typo fails here rather than
	// silently producing zero-output upgrades in every run.
	for _, item := range c.items {
		if u, ok := item.(*Upgrade); ok {
			if _, err := u.target(); err != nil {
				return nil, err
			}
		}
	}
	return c, nil
}

func (c *Catalog) add(item Item) error {
	if item.Name() == "" {
		return fmt.Errorf("item without a name")
	}
	if _, exists := c.index[item.Name()]; exists {
		return fmt.Errorf("duplicate item %s", item.Name())
	}
	c.index[item.Name()] = len(c.items)
	c.items = append(c.items, item)
	item.bind(c)
	return nil
}

// Items returns the items in catalog order. The slice must not be modified.
func (c *Catalog) Items() []Item {
	return c.items
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	return len(c.items)
}

// Lookup resolves an item by name.
func (c *Catalog) Lookup(name string) (Item, error) {
	i, ok := c.index[name]
	if !ok {
		if suggestion := c.suggest(name); suggestion != "" {
			return nil, fmt.Errorf("%w %q (did you mean %q?)", ErrUnknownItem, name, suggestion)
		}
		return nil, fmt.Errorf("%w %q", ErrUnknownItem, name)
	}
	return c.items[i], nil
}

// Clone returns a deep copy whose upgrades resolve their targets inside the
// copy.
func (c *Catalog) Clone() *Catalog {
	cp := &Catalog{
		items: make([]Item, len(c.items)),
		index: make(map[string]int, len(c.index)),
	}
	for name, i := range c.index {
		cp.index[name] = i
	}
	for i, item := range c.items {
		cp.items[i] = item.clone()
	}
	for _, item := range cp.items {
		item.bind(cp)
	}
	return cp
}

// Income is the catalog-wide income per tick: the sum of every producer's
// contribution. Upgrades act through their targets.
func (c *Catalog) Income() float64 {
	total := 0.0
	for _, item := range c.items {
		if t, ok := item.(target); ok {
			total += t.Contribution()
		}
	}
	return total
}

// Buy buys one unit of the named item.
func (c *Catalog) Buy(name string) (*buff.Buff, error) {
	item, err := c.Lookup(name)
	if err != nil {
		return nil, err
	}
	if !item.Buyable() {
		return nil, fmt.Errorf("%w: %s is not buyable", ErrInvalidOperation, name)
	}
	return item.Buy()
}

// Quantities returns the owned quantity of every item.
func (c *Catalog) Quantities() map[string]int {
	out := make(map[string]int, len(c.items))
	for _, item := range c.items {
		out[item.Name()] = item.Quantity()
	}
	return out
}

// Apply sets quantities by name. Producers are applied before upgrades so
// upgrade multipliers land on their targets. Unknown names are returned, not
// treated as errors. The quantities are applied to a copy first, so on error
// the catalog is left unchanged.
func (c *Catalog) Apply(quantities map[string]int) ([]string, error) {
	var unknown []string
	for name := range quantities {
		if _, ok := c.index[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)

	cp := c.Clone()
	for _, pass := range []bool{false, true} {
		for _, item := range cp.items {
			if (item.Kind() == KindUpgrade) != pass {
				continue
			}
			q, ok := quantities[item.Name()]
			if !ok {
				continue
			}
			if err := item.setQuantity(q); err != nil {
				return unknown, err
			}
		}
	}

	c.items = cp.items
	for _, item := range c.items {
		item.bind(c)
	}
	return unknown, nil
}

// Buyable lists every item that can currently be bought.
func (c *Catalog) Buyable() []Listing {
	var out []Listing
	for _, item := range c.items {
		if !item.Buyable() {
			continue
		}
		out = append(out, Listing{
			Name:     item.Name(),
			Kind:     item.Kind().String(),
			Quantity: item.Quantity(),
			Cost:     item.Cost(),
		})
	}
	return out
}
