// Package buff tracks temporary income modifiers for a single simulation run.
package buff

// Buff is a time-limited income modifier. Its value is added to income when it
// is registered and removed again when its duration runs out.
type Buff struct {
	Name      string
	Remaining int
	Value     float64
}

// New creates a buff lasting duration ticks.
func New(name string, duration int, value float64) *Buff {
	return &Buff{Name: name, Remaining: duration, Value: value}
}

// tick advances the buff by one step and reports whether it has expired.
func (b *Buff) tick() bool {
	b.Remaining--
	return b.Remaining <= 0
}

// Manager holds the active buffs of one run. It is not safe for concurrent use;
// each run owns its own Manager.
type Manager struct {
	active []*Buff
}

// NewManager returns an empty Manager.
func NewManager() *Manager {
	return &Manager{}
}

// Add registers b and returns its value as the immediate income delta.
// A nil buff is ignored and contributes 0.
func (m *Manager) Add(b *Buff) float64 {
	if b == nil {
		return 0
	}
	if b.Remaining <= 0 {
		// Expires before it can ever be observed.
		return 0
	}
	m.active = append(m.active, b)
	return b.Value
}

// Use advances every active buff by one tick, drops the expired ones and
// returns the sum of their values, which the caller subtracts from income.
func (m *Manager) Use() float64 {
	expired := 0.0
	kept := m.active[:0]
	for _, b := range m.active {
		if b.tick() {
			expired += b.Value
			continue
		}
		kept = append(kept, b)
	}
	for i := len(kept); i < len(m.active); i++ {
		m.active[i] = nil
	}
	m.active = kept
	return expired
}

