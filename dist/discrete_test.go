package dist

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBernoulliValidation(t *testing.T) {
	t.Parallel()
	for _, p := range []float64{-0.1, 1.5, math.NaN(), math.Inf(1)} {
		_, err := NewBernoulli(p)
		assert.ErrorIs(t, err, ErrInvalidArgument, "p = %g", p)
		assert.Panics(t, func() { Flip(p) }, "p = %g", p)
	}

	b, err := NewBernoulli(0.25)
	require.NoError(t, err)
	assert.Equal(t, 0.25, b.Density(true))
}

func TestBernoulliLiteralIsClamped(t *testing.T) {
	t.Parallel()
	high := Bernoulli{P: 2}
	assert.Equal(t, 1.0, high.Density(true))
	assert.Equal(t, 0.0, high.Density(false))
	assert.Equal(t, []Weighted[bool]{Weigh(true, 1.0)}, high.Support())

	low := Bernoulli{P: math.NaN()}
	assert.Equal(t, 0.0, low.Density(true))
	assert.Equal(t, 1.0, low.Density(false))
}

// A NaN density makes every acceptance ratio NaN, which would freeze the
// chain on its first sample.
func TestMetropolisMovesOverClampedLeaf(t *testing.T) {
	t.Parallel()
	d := FlatMap(Leaf[bool](Bernoulli{P: math.NaN()}), func(bool) Dist[bool] {
		return Flip(0.5)
	})

	s := NewMetropolisSampler(d, Config{Seed: 8})
	seen := map[bool]bool{}
	for i := 0; i < 200; i++ {
		seen[s.Next().Value] = true
	}
	assert.True(t, seen[true])
	assert.True(t, seen[false])
	assert.Zero(t, s.Stats().Retries)
}

func TestNewUniformChoiceValidation(t *testing.T) {
	t.Parallel()
	_, err := NewUniformChoice[int]()
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Panics(t, func() { Choice[int]() })

	u, err := NewUniformChoice("a", "b")
	require.NoError(t, err)
	assert.Equal(t, 0.5, u.Density("a"))
}

func TestEmptyChoiceLiteral(t *testing.T) {
	t.Parallel()
	empty := UniformChoice[int]{}
	assert.Empty(t, empty.Support())
	assert.Zero(t, empty.Density(1))

	_, err := ExactInference(Leaf[int](empty))
	assert.ErrorIs(t, err, ErrNoSamples)
}
