package dist

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeterministicLeafRepeats(t *testing.T) {
	t.Parallel()
	s := NewForwardSampler(Return("fixed"), Config{Seed: 1})
	for i := 0; i < 1000; i++ {
		w := s.Next()
		require.Equal(t, "fixed", w.Value)
		require.Equal(t, 1.0, w.Probability)
	}
}

func TestSharedLeafObservesOneValuePerGeneration(t *testing.T) {
	t.Parallel()
	a := Flip(0.5)
	same := FlatMap(a, func(x bool) Dist[bool] {
		return Map(a, func(y bool) bool { return x == y })
	})

	s := NewForwardSampler(same, Config{Seed: 3})
	for i := 0; i < 500; i++ {
		assert.True(t, s.Next().Value)
	}
}

func TestForwardFilterConditions(t *testing.T) {
	t.Parallel()
	die := Choice(1, 2, 3, 4, 5, 6)
	even := Filter(die, func(n int) bool { return n%2 == 0 })

	post, err := SampledInference(even, 30000, Config{Strategy: Forward, Seed: 9})
	require.NoError(t, err)

	assert.Equal(t, 3, post.Len())
	for _, v := range []int{2, 4, 6} {
		assert.InDelta(t, 1.0/3.0, post.Prob(v), 0.02)
	}
}

func TestForwardFilterRedrawsOnlyItsSubgraph(t *testing.T) {
	t.Parallel()
	outer := Choice(0, 1)
	// the filter rejects by redrawing inner; outer stays fixed for the generation
	d := FlatMap(outer, func(o int) Dist[[2]int] {
		inner := Filter(Choice(0, 1, 2, 3), func(i int) bool { return i >= 2 })
		return FlatMap(inner, func(i int) Dist[[2]int] {
			return Map(outer, func(o2 int) [2]int { return [2]int{o2 - o, i} })
		})
	})

	s := NewForwardSampler(d, Config{Seed: 21})
	for i := 0; i < 300; i++ {
		v := s.Next().Value
		assert.Equal(t, 0, v[0])
		assert.GreaterOrEqual(t, v[1], 2)
	}
}

func TestForwardFilterRedrawsLeafFixedBeforeAttempt(t *testing.T) {
	t.Parallel()
	a := Flip(0.5)
	// a is fixed by the outer bind before the filter first sees it
	d := FlatMap(a, func(bool) Dist[bool] {
		return Filter(a, func(y bool) bool { return y })
	})

	done := make(chan []Weighted[bool], 1)
	go func() {
		var out []Weighted[bool]
		for seed := uint64(1); seed <= 20; seed++ {
			out = append(out, NewForwardSampler(d, Config{Seed: seed}).Next())
		}
		done <- out
	}()

	select {
	case out := <-done:
		for _, w := range out {
			assert.True(t, w.Value)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("filter kept retrying a value fixed before the attempt")
	}
}

func TestForwardResetRestartsStream(t *testing.T) {
	t.Parallel()
	s := NewForwardSampler(Gaussian(0, 1), Config{Seed: 77})
	first := Take[float64](s, 20)
	s.Reset()
	second := Take[float64](s, 20)
	assert.Equal(t, first, second)
}

func TestForwardGenerationCountsRejections(t *testing.T) {
	t.Parallel()
	d := Filter(Choice(1, 2, 3, 4), func(n int) bool { return n == 4 })
	s := NewForwardSampler(d, Config{Seed: 2})

	for i := 0; i < 100; i++ {
		s.Next()
	}
	assert.Greater(t, s.Generation(), uint64(100))
}

func TestStreamStopsOnBreak(t *testing.T) {
	t.Parallel()
	s := NewForwardSampler(Flip(0.5), Config{Seed: 4})
	n := 0
	for range Stream[bool](s) {
		n++
		if n == 25 {
			break
		}
	}
	assert.Equal(t, 25, n)
}

func TestSamplersShareGraphConcurrently(t *testing.T) {
	t.Parallel()
	graph := threeCoins()

	var wg sync.WaitGroup
	results := make([]float64, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			post, err := SampledInference(graph, 20000, Config{Strategy: Forward, Seed: uint64(i + 1)})
			if err == nil {
				results[i] = post.Prob(true)
			}
		}(i)
	}
	wg.Wait()

	for _, p := range results {
		assert.InDelta(t, 0.875, p, 0.015)
	}
}

// A predicate that never holds keeps the rejection loop running. The test
// only observes that no sample arrives within the window, then lets the
// predicate pass so the goroutine can exit.
func TestForwardFilterAlwaysFalseDoesNotTerminate(t *testing.T) {
	t.Parallel()
	var release atomic.Bool
	never := Filter(Flip(0.5), func(bool) bool { return release.Load() })

	done := make(chan struct{})
	go func() {
		NewForwardSampler(never, Config{Seed: 1}).Next()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("rejection sampling returned for an unsatisfiable predicate")
	case <-time.After(200 * time.Millisecond):
	}

	release.Store(true)
	<-done
}

func TestZeroConfigSamplesForward(t *testing.T) {
	t.Parallel()
	s, err := NewSampler(Flip(0.5), Config{})
	require.NoError(t, err)
	assert.IsType(t, &ForwardSampler[bool]{}, s)

	post, err := SampledInference(threeCoins(), 5000, Config{})
	require.NoError(t, err)
	assert.InDelta(t, 0.875, post.Prob(true), 0.03)
}
