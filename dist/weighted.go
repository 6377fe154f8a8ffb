package dist

import "fmt"

// Weighted pairs an outcome with its relative likelihood. Probability is a
// path weight and need not be normalized.
type Weighted[T any] struct {
	Value       T
	Probability float64
}

// Weigh returns v with weight p.
func Weigh[T any](v T, p float64) Weighted[T] {
	return Weighted[T]{Value: v, Probability: p}
}

// Certain returns v with weight 1.
func Certain[T any](v T) Weighted[T] {
	return Weighted[T]{Value: v, Probability: 1}
}

func (w Weighted[T]) String() string {
	return fmt.Sprintf("%v:%g", w.Value, w.Probability)
}
