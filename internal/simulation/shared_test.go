package simulation

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfferKeepsMaximum(t *testing.T) {
	s := NewSharedState(1)
	assert.Equal(t, int64(-1), s.BestIndex())

	ok, err := s.Offer(5, 1, []Event{{Tick: 1, Item: "A"}})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Offer(4, 2, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.Offer(5, 3, nil)
	require.NoError(t, err)
	assert.False(t, ok, "ties do not replace the recorded best")

	snap, err := s.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 5.0, snap.BestIncome)
	assert.Equal(t, int64(1), snap.BestIndex)
	assert.Equal(t, []Event{{Tick: 1, Item: "A"}}, snap.BestLog)
}

func TestConcurrentFinalizeEitherOrder(t *testing.T) {
	type offer struct {
		income float64
		index  int64
	}
	orders := [][]offer{
		{{5, 10}, {7, 11}},
		{{7, 11}, {5, 10}},
	}

	for _, order := range orders {
		s := NewSharedState(2)
		for _, o := range order {
			_, err := s.Offer(o.income, o.index, []Event{{Tick: int(o.index)}})
			require.NoError(t, err)
		}
		snap, err := s.Snapshot()
		require.NoError(t, err)
		assert.Equal(t, 7.0, snap.BestIncome)
		assert.Equal(t, int64(11), snap.BestIndex)
		assert.Equal(t, []Event{{Tick: 11}}, snap.BestLog)
	}

	for i := 0; i < 200; i++ {
		s := NewSharedState(2)
		var wg sync.WaitGroup
		start := make(chan struct{})
		for _, o := range orders[0] {
			wg.Add(1)
			go func(o offer) {
				defer wg.Done()
				<-start
				_, _ = s.Offer(o.income, o.index, []Event{{Tick: int(o.index)}})
			}(o)
		}
		close(start)
		wg.Wait()

		snap, err := s.Snapshot()
		require.NoError(t, err)
		require.Equal(t, 7.0, snap.BestIncome)
		require.Equal(t, int64(11), snap.BestIndex)
		require.Equal(t, []Event{{Tick: 11}}, snap.BestLog)
	}
}

func TestBestNeverRegresses(t *testing.T) {
	s := NewSharedState(8)
	const writers = 8
	const perWriter = 500

	income := func(w, i int) float64 {
		return float64((i*7919+w*104729)%1000) + float64(w)/10
	}
	expectedMax := 0.0
	for w := 0; w < writers; w++ {
		for i := 0; i < perWriter; i++ {
			if v := income(w, i); v > expectedMax {
				expectedMax = v
			}
		}
	}

	var wg sync.WaitGroup
	stop := make(chan struct{})
	regressions := make(chan float64, 1)

	go func() {
		last := 0.0
		for {
			select {
			case <-stop:
				return
			default:
			}
			cur := s.BestIncome()
			if cur < last {
				select {
				case regressions <- cur:
				default:
				}
				return
			}
			last = cur
		}
	}()

	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				v := income(w, i)
				_, _ = s.Offer(v, s.NextIndex(), nil)
				s.Record(w, v)
			}
		}(w)
	}
	wg.Wait()
	close(stop)

	select {
	case cur := <-regressions:
		t.Fatalf("best income regressed to %v", cur)
	default:
	}

	snap, err := s.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, int64(writers*perWriter), snap.Simulations)
	for _, n := range snap.PerWorker {
		assert.Equal(t, int64(perWriter), n)
	}
	assert.Equal(t, expectedMax, snap.BestIncome)
}

func TestRecordIgnoresUnknownSlot(t *testing.T) {
	s := NewSharedState(1)
	s.Record(5, 10)
	s.Record(0, 2)
	s.Record(0, 3)

	snap, err := s.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, int64(2), snap.Simulations)
	assert.Equal(t, 5.0, snap.IncomeSum)
}

func TestNextIndexUnique(t *testing.T) {
	s := NewSharedState(1)
	seen := make(map[int64]bool)
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 250; j++ {
				idx := s.NextIndex()
				mu.Lock()
				seen[idx] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Len(t, seen, 1000)
}
