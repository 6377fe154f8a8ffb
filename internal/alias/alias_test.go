package alias

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestNewErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		weights []float64
		err     error
	}{
		{"empty", nil, ErrEmptyWeights},
		{"negative", []float64{1, -1}, ErrNegativeWeight},
		{"nan", []float64{math.NaN()}, ErrNegativeWeight},
		{"all zero", []float64{0, 0, 0}, ErrZeroTotal},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := New(tt.weights)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestTableReconstructsWeights(t *testing.T) {
	t.Parallel()
	weights := []float64{1, 2, 3, 4, 0}
	table, err := New(weights)
	require.NoError(t, err)
	require.Equal(t, 5, table.Len())

	// each bucket contributes Prob[i]/n to itself and the rest to its alias
	n := float64(table.Len())
	mass := make([]float64, table.Len())
	for i := range table.Prob {
		assert.GreaterOrEqual(t, table.Prob[i], 0.0)
		assert.LessOrEqual(t, table.Prob[i], 1.0+1e-12)
		mass[i] += table.Prob[i] / n
		mass[table.Alias[i]] += (1 - table.Prob[i]) / n
	}
	for i, w := range weights {
		assert.InDelta(t, w/10, mass[i], 1e-9, "outcome %d", i)
	}
}

func TestSampleFrequencies(t *testing.T) {
	t.Parallel()
	table, err := New([]float64{0.1, 0.2, 0.7})
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(7))
	const draws = 200000
	counts := make([]int, 3)
	for i := 0; i < draws; i++ {
		counts[table.Sample(rng)]++
	}

	assert.InDelta(t, 0.1, float64(counts[0])/draws, 0.01)
	assert.InDelta(t, 0.2, float64(counts[1])/draws, 0.01)
	assert.InDelta(t, 0.7, float64(counts[2])/draws, 0.01)
}

func TestSingleOutcome(t *testing.T) {
	t.Parallel()
	table, err := New([]float64{3})
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		assert.Equal(t, 0, table.Sample(rng))
	}
}

func TestZeroWeightNeverDrawn(t *testing.T) {
	t.Parallel()
	table, err := New([]float64{0, 5, 0, 5})
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 10000; i++ {
		idx := table.Sample(rng)
		assert.True(t, idx == 1 || idx == 3, "drew zero-weight index %d", idx)
	}
}
