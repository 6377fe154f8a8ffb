package dist

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeGroupsAndScales(t *testing.T) {
	t.Parallel()
	post, err := Normalize([]Weighted[string]{
		Weigh("a", 1), Weigh("b", 2), Weigh("a", 3), Weigh("c", 0),
	})
	require.NoError(t, err)

	assert.Equal(t, 3, post.Len())
	assert.InDelta(t, 4.0/6.0, post.Prob("a"), 1e-12)
	assert.InDelta(t, 2.0/6.0, post.Prob("b"), 1e-12)
	assert.Zero(t, post.Prob("c"))
	assert.Zero(t, post.Prob("missing"))
	assert.Equal(t, "a", post.Mode().Value)
}

func TestNormalizeErrors(t *testing.T) {
	t.Parallel()
	_, err := Normalize[int](nil)
	assert.ErrorIs(t, err, ErrNoSamples)

	_, err = Normalize([]Weighted[int]{Weigh(1, 0), Weigh(2, 0)})
	assert.ErrorIs(t, err, ErrZeroWeight)

	_, err = Normalize([]Weighted[int]{Weigh(1, -1)})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNormalizeIdempotent(t *testing.T) {
	t.Parallel()
	first, err := NewCategorical([]int{1, 2, 3, 2}, []float64{0.7, 1.1, 2.2, 0.4})
	require.NoError(t, err)

	second, err := Normalize(first.Support())
	require.NoError(t, err)

	require.Equal(t, first.Len(), second.Len())
	for i, o := range first.Support() {
		got := second.Support()[i]
		assert.Equal(t, o.Value, got.Value)
		assert.InDelta(t, o.Probability, got.Probability, 1e-12)
	}
}

func TestNormalizeByCustomKey(t *testing.T) {
	t.Parallel()
	samples := []Weighted[string]{
		Weigh("Main St", 1), Weigh("main st", 1), Weigh("Elm Ave", 2),
	}
	post, err := NormalizeBy(samples, func(s string) any { return strings.ToLower(s) })
	require.NoError(t, err)

	assert.Equal(t, 2, post.Len())
	assert.InDelta(t, 0.5, post.Prob("MAIN ST"), 1e-12)
	assert.Equal(t, "Main St", post.Support()[0].Value)
}

func TestNewCategoricalLengthMismatch(t *testing.T) {
	t.Parallel()
	_, err := NewCategorical([]int{1, 2}, []float64{1})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCategoricalMeanAndDraw(t *testing.T) {
	t.Parallel()
	c, err := NewCategorical([]float64{1, 2, 3}, []float64{1, 1, 2})
	require.NoError(t, err)

	assert.InDelta(t, 0.25*1+0.25*2+0.5*3, c.Mean(func(x float64) float64 { return x }), 1e-12)

	rng := newRand(11)
	counts := map[float64]int{}
	for i := 0; i < 40000; i++ {
		counts[c.Draw(rng)]++
	}
	assert.InDelta(t, 0.5, float64(counts[3])/40000, 0.02)
}

func TestSampledInferenceValidation(t *testing.T) {
	t.Parallel()
	_, err := SampledInference(Flip(0.5), 0, DefaultConfig())
	assert.ErrorIs(t, err, ErrNoSamples)

	_, err = SampledInference(Flip(0.5), 10, Config{Strategy: Strategy(42)})
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestSampledInferenceForwardMatchesExact(t *testing.T) {
	t.Parallel()
	cfg := Config{Strategy: Forward, Seed: 5}
	post, err := SampledInference(threeCoins(), 50000, cfg)
	require.NoError(t, err)
	assert.InDelta(t, 0.875, post.Prob(true), 0.01)
}

func TestParseStrategy(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in      string
		want    Strategy
		wantErr bool
	}{
		{"forward", Forward, false},
		{"MCMC", Metropolis, false},
		{" metropolis ", Metropolis, false},
		{"gibbs", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseStrategy(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrUnknownStrategy)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
		assert.NotEqual(t, "unknown", got.String())
	}
}
