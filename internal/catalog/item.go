// Package catalog defines the purchasable items of the game and the ordered,
// name-keyed catalog that holds them.
//
// Items form a closed set of variants (Producer, GatedProducer and Upgrade);
// the Item interface carries unexported methods so no other package can add
// a variant. A Catalog is not safe for concurrent use. The canonical catalog is
// shared as a template and every simulation run works on its own Clone.
package catalog

import (
	"errors"

	"github.com/CaioPinho9/space-planner/internal/buff"
)

var (
	// ErrInvalidOperation is returned by Buy when the item is not buyable.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrUnknownItem is returned when a name does not resolve to an item.
	ErrUnknownItem = errors.New("unknown item")

	// ErrInvalidPrice is returned when an item would cost nothing, a negative
	// amount or a non-finite amount. Efficiency is undefined for such items.
	ErrInvalidPrice = errors.New("invalid price")
)

// Kind enumerates the item variants.
type Kind int

const (
	KindProducer Kind = iota
	KindGatedProducer
	KindUpgrade
)

func (k Kind) String() string {
	switch k {
	case KindProducer:
		return "producer"
	case KindGatedProducer:
		return "gated"
	case KindUpgrade:
		return "upgrade"
	default:
		return "unknown"
	}
}

// Item is the capability set shared by every variant.
type Item interface {
	Name() string
	Kind() Kind
	// Cost is the price of the next unit.
	Cost() float64
	Quantity() int
	// PowerOutput is the income a purchase adds right now.
	PowerOutput() float64
	// Efficiency is output per unit of cost; higher is better.
	Efficiency() float64
	Buyable() bool
	// Buy acquires one unit. It fails with ErrInvalidOperation when the item
	// is not buyable and may return a buff to register with the run.
	Buy() (*buff.Buff, error)

	setQuantity(quantity int) error
	clone() Item
	bind(c *Catalog)
}

// target is an item whose output an Upgrade can multiply.
type target interface {
	Item
	Multiplier() float64
	// Contribution is this item's share of catalog income.
	Contribution() float64
	setMultiplier(m float64)
}

// BuffSpec describes the buff granted when a producer is bought. The buff
// value is Factor times the current power output; gated producers that are not
// yet active use InactiveFactor times their base output instead.
type BuffSpec struct {
	Name           string
	Duration       int
	Factor         float64
	InactiveFactor float64
}
