package dist

import (
	"fmt"
	"math"
)

func identityKey[T comparable](v T) any {
	return v
}

// Normalize groups samples by value equality, sums their weights and
// divides by the grand total.
func Normalize[T comparable](samples []Weighted[T]) (*Categorical[T], error) {
	return NormalizeBy(samples, identityKey[T])
}

// NormalizeBy groups samples by key, which must return a comparable value.
// Each group is represented by its first sample's value; groups keep
// first-seen order.
func NormalizeBy[T any](samples []Weighted[T], key func(T) any) (*Categorical[T], error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}

	groups := make(map[any]int)
	var (
		outcomes []Weighted[T]
		total    float64
	)
	for _, s := range samples {
		if s.Probability < 0 || math.IsNaN(s.Probability) || math.IsInf(s.Probability, 0) {
			return nil, fmt.Errorf("%w: sample weight %v", ErrInvalidArgument, s.Probability)
		}
		k := key(s.Value)
		i, ok := groups[k]
		if !ok {
			i = len(outcomes)
			groups[k] = i
			outcomes = append(outcomes, Weigh(s.Value, 0))
		}
		outcomes[i].Probability += s.Probability
		total += s.Probability
	}
	if total == 0 {
		return nil, ErrZeroWeight
	}

	for i := range outcomes {
		outcomes[i].Probability /= total
	}
	return newCategorical(outcomes, key)
}

// ExactInference enumerates d and normalizes the result.
func ExactInference[T comparable](d Dist[T]) (*Categorical[T], error) {
	return ExactInferenceBy(d, identityKey[T])
}

func ExactInferenceBy[T any](d Dist[T], key func(T) any) (*Categorical[T], error) {
	items, err := Enumerate(d)
	if err != nil {
		return nil, err
	}
	return NormalizeBy(items, key)
}

// SampledInference pulls n samples after cfg.BurnIn from the sampler chosen
// by cfg and normalizes them.
func SampledInference[T comparable](d Dist[T], n int, cfg Config) (*Categorical[T], error) {
	return SampledInferenceBy(d, n, cfg, identityKey[T])
}

func SampledInferenceBy[T any](d Dist[T], n int, cfg Config, key func(T) any) (*Categorical[T], error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: sample count %d", ErrNoSamples, n)
	}
	s, err := NewSampler(d, cfg)
	if err != nil {
		return nil, err
	}
	Skip(s, cfg.BurnIn)
	return NormalizeBy(Take(s, n), key)
}
