package sprt

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		prob    float64
		alpha   float64
		epsilon float64
		wantErr bool
	}{
		{"valid", 0.5, 0.05, 0.01, false},
		{"alpha zero", 0.5, 0, 0.01, true},
		{"alpha too large", 0.5, 0.5, 0.01, true},
		{"epsilon zero", 0.5, 0.05, 0, true},
		{"threshold out of range", 1.5, 0.05, 0.01, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := New(tt.prob, tt.alpha, tt.epsilon)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBounds(t *testing.T) {
	t.Parallel()
	test, err := New(0.5, 0.05, 0.01)
	require.NoError(t, err)

	lower, upper := test.Bounds()
	assert.InDelta(t, math.Log(0.95/0.05), upper, 1e-12)
	assert.InDelta(t, math.Log(0.05/0.95), lower, 1e-12)
}

func TestClampedHypotheses(t *testing.T) {
	t.Parallel()
	test, err := New(0.0, 0.05, 0.1)
	require.NoError(t, err)

	assert.Greater(t, test.P0, 0.0)
	assert.False(t, math.IsInf(test.LogLikelihoodRatio(3, 10), 0))
}

func TestDecide(t *testing.T) {
	t.Parallel()
	test, err := New(0.5, 0.05, 0.05)
	require.NoError(t, err)

	assert.Equal(t, Continue, test.Decide(0, 0))
	assert.Equal(t, AcceptH1, test.Decide(90, 100))
	assert.Equal(t, AcceptH0, test.Decide(10, 100))
	assert.Equal(t, Continue, test.Decide(5, 10))
}

func TestDecisionString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "accept-h1", AcceptH1.String())
	assert.Equal(t, "accept-h0", AcceptH0.String())
	assert.Equal(t, "continue", Continue.String())
}
