package buff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddNilIsNoop(t *testing.T) {
	m := NewManager()
	assert.Equal(t, 0.0, m.Add(nil))
	assert.Equal(t, 0, len(m.active))
}

func TestAddReturnsValue(t *testing.T) {
	m := NewManager()
	assert.Equal(t, 4.0, m.Add(New("Boost", 3, 4)))
	assert.Equal(t, -2.0, m.Add(New("Delay", 3, -2)))
	assert.Equal(t, 2, len(m.active))
	assert.Equal(t, 2.0, m.active[0].Value+m.active[1].Value)
}

func TestUseExpiresAfterDuration(t *testing.T) {
	m := NewManager()
	m.Add(New("Boost", 3, 5))

	assert.Equal(t, 0.0, m.Use())
	assert.Equal(t, 0.0, m.Use())
	assert.Equal(t, 5.0, m.Use())
	assert.Equal(t, 0, len(m.active))
	assert.Equal(t, 0.0, m.Use())
}

func TestUseRemovesOnlyExpired(t *testing.T) {
	m := NewManager()
	m.Add(New("Short", 1, 1))
	m.Add(New("Long", 2, 10))
	m.Add(New("AlsoShort", 1, 100))

	assert.Equal(t, 101.0, m.Use())
	require.Equal(t, 1, len(m.active))
	assert.Equal(t, "Long", m.active[0].Name)
	assert.Equal(t, 10.0, m.Use())
	assert.Equal(t, 0, len(m.active))
}

// A buff created at tick t with duration D is part of income for ticks
// [t, t+D) and its net lifetime contribution is zero.
func TestBuffLifetimeContributionIsZero(t *testing.T) {
	const (
		createdAt = 4
		duration  = 6
		horizon   = 20
		value     = 3.5
	)

	m := NewManager()
	income := 1.0
	net := 0.0
	for tick := 1; tick <= horizon; tick++ {
		delta := -m.Use()
		if tick == createdAt {
			delta += m.Add(New("Boost", duration, value))
		}
		income += delta
		net += delta

		active := tick >= createdAt && tick < createdAt+duration
		if active {
			assert.InDelta(t, 1.0+value, income, 1e-12, "tick %d", tick)
		} else {
			assert.InDelta(t, 1.0, income, 1e-12, "tick %d", tick)
		}
	}
	assert.InDelta(t, 0, net, 1e-12)
}

func TestAddExpiredBuffIgnored(t *testing.T) {
	m := NewManager()
	assert.Equal(t, 0.0, m.Add(New("Instant", 0, 9)))
	assert.Equal(t, 0, len(m.active))
}
