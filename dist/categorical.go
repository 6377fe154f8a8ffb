package dist

import (
	"fmt"
	"strings"

	"github.com/gnolang/ppl/internal/alias"
	"golang.org/x/exp/rand"
)

// Categorical is a finite discrete distribution over distinct outcomes with
// normalized probabilities. It is the output of every normalizer and draws
// through an alias table in O(1).
type Categorical[T any] struct {
	outcomes []Weighted[T]
	index    map[any]int
	keyOf    func(T) any
	table    *alias.Table
	key      string
}

// NewCategorical builds a categorical distribution from parallel value and
// weight slices. Weights need not be normalized; duplicate values are merged.
func NewCategorical[T comparable](values []T, weights []float64) (*Categorical[T], error) {
	if len(values) != len(weights) {
		return nil, fmt.Errorf("%w: %d values but %d weights", ErrInvalidArgument, len(values), len(weights))
	}
	samples := make([]Weighted[T], len(values))
	for i := range values {
		samples[i] = Weigh(values[i], weights[i])
	}
	return Normalize(samples)
}

func newCategorical[T any](outcomes []Weighted[T], keyOf func(T) any) (*Categorical[T], error) {
	probs := make([]float64, len(outcomes))
	index := make(map[any]int, len(outcomes))
	var key strings.Builder
	key.WriteString("categorical(")
	for i, o := range outcomes {
		probs[i] = o.Probability
		index[keyOf(o.Value)] = i
		if i > 0 {
			key.WriteByte(' ')
		}
		key.WriteString(o.String())
	}
	key.WriteByte(')')

	table, err := alias.New(probs)
	if err != nil {
		return nil, err
	}

	return &Categorical[T]{
		outcomes: outcomes,
		index:    index,
		keyOf:    keyOf,
		table:    table,
		key:      key.String(),
	}, nil
}

func (c *Categorical[T]) Density(v T) float64 {
	i, ok := c.index[c.keyOf(v)]
	if !ok {
		return 0
	}
	return c.outcomes[i].Probability
}

func (c *Categorical[T]) Draw(rng *rand.Rand) T {
	return c.outcomes[c.table.Sample(rng)].Value
}

func (c *Categorical[T]) Key() string {
	return c.key
}

// Support returns a copy of the outcome table in first-seen order.
func (c *Categorical[T]) Support() []Weighted[T] {
	out := make([]Weighted[T], len(c.outcomes))
	copy(out, c.outcomes)
	return out
}

// Prob returns the posterior probability of v.
func (c *Categorical[T]) Prob(v T) float64 {
	return c.Density(v)
}

// Len returns the number of distinct outcomes.
func (c *Categorical[T]) Len() int {
	return len(c.outcomes)
}

// Mode returns the most probable outcome. Ties go to the first seen.
func (c *Categorical[T]) Mode() Weighted[T] {
	best := c.outcomes[0]
	for _, o := range c.outcomes[1:] {
		if o.Probability > best.Probability {
			best = o
		}
	}
	return best
}

// Mean returns the expectation of f under the distribution.
func (c *Categorical[T]) Mean(f func(T) float64) float64 {
	m := 0.0
	for _, o := range c.outcomes {
		m += o.Probability * f(o.Value)
	}
	return m
}

// Dist returns a fresh leaf node over c.
func (c *Categorical[T]) Dist() Dist[T] {
	return Leaf[T](c)
}
