package catalog

import (
	"fmt"
	"math"

	"github.com/CaioPinho9/space-planner/internal/buff"
	"github.com/CaioPinho9/space-planner/internal/predictor"
)

// Producer is a repeatable purchase that adds a standing income stream.
type Producer struct {
	name       string
	basePower  float64
	multiplier float64
	quantity   int
	cost       float64
	buff       *BuffSpec
	predictor  predictor.Predictor
}

// NewProducer creates a producer at quantity 0 priced by p.
func NewProducer(name string, basePower float64, spec *BuffSpec, p predictor.Predictor) (*Producer, error) {
	prod := &Producer{
		name:       name,
		basePower:  basePower,
		multiplier: 1,
		buff:       spec,
		predictor:  p,
	}
	cost, err := prod.quote(0)
	if err != nil {
		return nil, err
	}
	prod.cost = cost
	return prod, nil
}

func (p *Producer) Name() string  { return p.name }
func (p *Producer) Kind() Kind    { return KindProducer }
func (p *Producer) Cost() float64 { return p.cost }
func (p *Producer) Quantity() int { return p.quantity }
func (p *Producer) Buyable() bool { return true }

// Multiplier is the product of all upgrades applied to this producer.
func (p *Producer) Multiplier() float64 { return p.multiplier }

// PowerOutput is the output of one unit after upgrades.
func (p *Producer) PowerOutput() float64 { return p.basePower * p.multiplier }

func (p *Producer) Efficiency() float64 { return p.PowerOutput() / p.cost }

func (p *Producer) Contribution() float64 {
	return p.PowerOutput() * float64(p.quantity)
}

func (p *Producer) Buy() (*buff.Buff, error) {
	b := p.grant(p.PowerOutput())
	if err := p.setQuantity(p.quantity + 1); err != nil {
		return nil, err
	}
	return b, nil
}

func (p *Producer) grant(output float64) *buff.Buff {
	if p.buff == nil {
		return nil
	}
	return buff.New(p.buff.Name, p.buff.Duration, p.buff.Factor*output)
}

// quote prices the unit bought when the current quantity is owned.
func (p *Producer) quote(owned int) (float64, error) {
	cost, err := p.predictor.Cost(owned+1, p.name)
	if err != nil {
		return 0, fmt.Errorf("failed to price %s at quantity %d: %w", p.name, owned+1, err)
	}
	if !validPrice(cost) {
		return 0, fmt.Errorf("%w: %s costs %v at quantity %d", ErrInvalidPrice, p.name, cost, owned+1)
	}
	return cost, nil
}

func (p *Producer) setQuantity(quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("%w: negative quantity %d for %s", ErrInvalidOperation, quantity, p.name)
	}
	cost, err := p.quote(quantity)
	if err != nil {
		return err
	}
	p.quantity = quantity
	p.cost = cost
	return nil
}

func (p *Producer) setMultiplier(m float64) { p.multiplier = m }

func (p *Producer) clone() Item {
	cp := *p
	return &cp
}

func (p *Producer) bind(*Catalog) {}

// GatedProducer produces nothing until more than Threshold units are owned and
// charges a one-time surcharge on the unit priced at quantity CostStepAt.
type GatedProducer struct {
	Producer
	threshold  int
	costStepAt int
	costStep   float64
}

// NewGatedProducer creates a gated producer at quantity 0.
func NewGatedProducer(name string, basePower float64, threshold, costStepAt int, costStep float64, spec *BuffSpec, p predictor.Predictor) (*GatedProducer, error) {
	g := &GatedProducer{
		Producer: Producer{
			name:       name,
			basePower:  basePower,
			multiplier: 1,
			buff:       spec,
			predictor:  p,
		},
		threshold:  threshold,
		costStepAt: costStepAt,
		costStep:   costStep,
	}
	cost, err := g.quote(0)
	if err != nil {
		return nil, err
	}
	g.cost = cost
	return g, nil
}

func (g *GatedProducer) Kind() Kind { return KindGatedProducer }

// Active reports whether the next unit bought will produce.
func (g *GatedProducer) Active() bool { return g.quantity >= g.threshold }

// PowerOutput is zero while the producer is still gated.
func (g *GatedProducer) PowerOutput() float64 {
	if !g.Active() {
		return 0
	}
	return g.Producer.PowerOutput()
}

// Efficiency uses the ungated output so the producer stays a candidate while
// it is working towards its threshold.
func (g *GatedProducer) Efficiency() float64 {
	return g.Producer.PowerOutput() / g.cost
}

func (g *GatedProducer) Contribution() float64 {
	producing := g.quantity - g.threshold
	if producing <= 0 {
		return 0
	}
	return g.Producer.PowerOutput() * float64(producing)
}

func (g *GatedProducer) Buy() (*buff.Buff, error) {
	var b *buff.Buff
	if g.buff != nil {
		if g.Active() {
			b = g.grant(g.PowerOutput())
		} else {
			b = buff.New(g.buff.Name, g.buff.Duration, g.buff.InactiveFactor*g.basePower)
		}
	}
	if err := g.setQuantity(g.quantity + 1); err != nil {
		return nil, err
	}
	return b, nil
}

func (g *GatedProducer) quote(owned int) (float64, error) {
	cost, err := g.Producer.quote(owned)
	if err != nil {
		return 0, err
	}
	if g.costStepAt > 0 && owned == g.costStepAt {
		cost += g.costStep
	}
	return cost, nil
}

func (g *GatedProducer) setQuantity(quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("%w: negative quantity %d for %s", ErrInvalidOperation, quantity, g.name)
	}
	cost, err := g.quote(quantity)
	if err != nil {
		return err
	}
	g.quantity = quantity
	g.cost = cost
	return nil
}

func (g *GatedProducer) clone() Item {
	cp := *g
	return &cp
}

func validPrice(cost float64) bool {
	return cost > 0 && !math.IsInf(cost, 0)
}
