// Package alias implements Vose's alias method for drawing from a fixed
// discrete distribution in constant time.
package alias

import (
	"errors"
	"math"

	"golang.org/x/exp/rand"
)

var (
	ErrEmptyWeights   = errors.New("alias: empty weight set")
	ErrNegativeWeight = errors.New("alias: negative or non-finite weight")
	ErrZeroTotal      = errors.New("alias: total weight is zero")
)

// Table holds the probability and alias columns built from a weight vector.
// Prob[i] is the chance of keeping bucket i, Alias[i] the index returned
// otherwise.
type Table struct {
	Prob  []float64
	Alias []int
}

// New builds a table from weights that need not be normalized.
// Construction is O(n).
func New(weights []float64) (*Table, error) {
	n := len(weights)
	if n == 0 {
		return nil, ErrEmptyWeights
	}

	total := 0.0
	for _, w := range weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, ErrNegativeWeight
		}
		total += w
	}
	if total == 0 {
		return nil, ErrZeroTotal
	}

	t := &Table{
		Prob:  make([]float64, n),
		Alias: make([]int, n),
	}

	scaled := make([]float64, n)
	light := make([]int, 0, n)
	heavy := make([]int, 0, n)
	for i, w := range weights {
		scaled[i] = w * float64(n) / total
		if scaled[i] < 1.0 {
			light = append(light, i)
		} else {
			heavy = append(heavy, i)
		}
	}

	for len(light) > 0 && len(heavy) > 0 {
		l := light[len(light)-1]
		light = light[:len(light)-1]
		h := heavy[len(heavy)-1]
		heavy = heavy[:len(heavy)-1]

		t.Prob[l] = scaled[l]
		t.Alias[l] = h

		scaled[h] = scaled[h] + scaled[l] - 1.0
		if scaled[h] < 1.0 {
			light = append(light, h)
		} else {
			heavy = append(heavy, h)
		}
	}

	// leftovers are full buckets; any residue here is rounding error
	for _, h := range heavy {
		t.Prob[h] = 1.0
		t.Alias[h] = h
	}
	for _, l := range light {
		t.Prob[l] = 1.0
		t.Alias[l] = l
	}

	return t, nil
}

// Len returns the number of outcomes.
func (t *Table) Len() int {
	return len(t.Prob)
}

// Sample draws an index in O(1).
func (t *Table) Sample(rng *rand.Rand) int {
	i := rng.Intn(len(t.Prob))
	if rng.Float64() < t.Prob[i] {
		return i
	}
	return t.Alias[i]
}
