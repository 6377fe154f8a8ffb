package dist

import (
	"fmt"
	"reflect"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Bernoulli yields true with probability P. A P outside [0, 1] is clamped
// into it and NaN counts as 0; NewBernoulli rejects both instead.
type Bernoulli struct {
	P float64
}

// NewBernoulli validates p.
func NewBernoulli(p float64) (Bernoulli, error) {
	if !(p >= 0 && p <= 1) {
		return Bernoulli{}, fmt.Errorf("%w: bernoulli probability %g is outside [0, 1]", ErrInvalidArgument, p)
	}
	return Bernoulli{P: p}, nil
}

func (b Bernoulli) prob() float64 {
	switch {
	case !(b.P > 0):
		return 0
	case b.P > 1:
		return 1
	}
	return b.P
}

func (b Bernoulli) Density(v bool) float64 {
	if v {
		return b.prob()
	}
	return 1 - b.prob()
}

func (b Bernoulli) Draw(rng *rand.Rand) bool {
	return rng.Float64() < b.prob()
}

func (b Bernoulli) Key() string {
	return fmt.Sprintf("bernoulli(%g)", b.prob())
}

func (b Bernoulli) Support() []Weighted[bool] {
	p := b.prob()
	out := make([]Weighted[bool], 0, 2)
	if p > 0 {
		out = append(out, Weigh(true, p))
	}
	if p < 1 {
		out = append(out, Weigh(false, 1-p))
	}
	return out
}

// Flip returns a leaf that is true with probability p. It panics when p is
// outside [0, 1]; use NewBernoulli and Leaf to handle the error.
func Flip(p float64) Dist[bool] {
	b, err := NewBernoulli(p)
	if err != nil {
		panic(err)
	}
	return Leaf[bool](b)
}

// Dirac always yields Value.
type Dirac[T any] struct {
	Value T
}

func (d Dirac[T]) Density(v T) float64 {
	if reflect.DeepEqual(v, d.Value) {
		return 1
	}
	return 0
}

func (d Dirac[T]) Draw(*rand.Rand) T {
	return d.Value
}

func (d Dirac[T]) Key() string {
	return fmt.Sprintf("dirac(%v)", d.Value)
}

func (d Dirac[T]) Support() []Weighted[T] {
	return []Weighted[T]{Certain(d.Value)}
}

// Return returns a deterministic single-outcome leaf.
func Return[T any](v T) Dist[T] {
	return Leaf[T](Dirac[T]{Value: v})
}

// UniformChoice picks one of Values with equal probability. Duplicate
// values accumulate mass. Without values it has an empty support and Draw
// panics.
type UniformChoice[T any] struct {
	Values []T
}

// NewUniformChoice rejects an empty value list.
func NewUniformChoice[T any](values ...T) (UniformChoice[T], error) {
	if len(values) == 0 {
		return UniformChoice[T]{}, fmt.Errorf("%w: choice needs at least one value", ErrInvalidArgument)
	}
	return UniformChoice[T]{Values: values}, nil
}

func (u UniformChoice[T]) Density(v T) float64 {
	if len(u.Values) == 0 {
		return 0
	}
	hits := 0
	for _, x := range u.Values {
		if reflect.DeepEqual(x, v) {
			hits++
		}
	}
	return float64(hits) / float64(len(u.Values))
}

func (u UniformChoice[T]) Draw(rng *rand.Rand) T {
	if len(u.Values) == 0 {
		panic(fmt.Errorf("%w: draw from a choice without values", ErrInvalidArgument))
	}
	return u.Values[rng.Intn(len(u.Values))]
}

func (u UniformChoice[T]) Key() string {
	return fmt.Sprintf("choice(%v)", u.Values)
}

func (u UniformChoice[T]) Support() []Weighted[T] {
	if len(u.Values) == 0 {
		return nil
	}
	out := make([]Weighted[T], len(u.Values))
	p := 1 / float64(len(u.Values))
	for i, v := range u.Values {
		out[i] = Weigh(v, p)
	}
	return out
}

// Choice returns a leaf choosing uniformly among values. It panics without
// values; use NewUniformChoice and Leaf to handle the error.
func Choice[T any](values ...T) Dist[T] {
	u, err := NewUniformChoice(values...)
	if err != nil {
		panic(err)
	}
	return Leaf[T](u)
}

// Binomial counts successes in N trials with success probability P.
type Binomial struct {
	N int
	P float64
}

func (b Binomial) dist(rng *rand.Rand) distuv.Binomial {
	d := distuv.Binomial{N: float64(b.N), P: b.P}
	if rng != nil {
		d.Src = rng
	}
	return d
}

func (b Binomial) Density(k int) float64 {
	if k < 0 || k > b.N {
		return 0
	}
	return b.dist(nil).Prob(float64(k))
}

func (b Binomial) Draw(rng *rand.Rand) int {
	return int(b.dist(rng).Rand())
}

func (b Binomial) Key() string {
	return fmt.Sprintf("binomial(%d,%g)", b.N, b.P)
}

func (b Binomial) Support() []Weighted[int] {
	d := b.dist(nil)
	out := make([]Weighted[int], 0, b.N+1)
	for k := 0; k <= b.N; k++ {
		out = append(out, Weigh(k, d.Prob(float64(k))))
	}
	return out
}

// Poisson counts events at rate Lambda. Its support is unbounded.
type Poisson struct {
	Lambda float64
}

func (p Poisson) Density(k int) float64 {
	if k < 0 {
		return 0
	}
	return distuv.Poisson{Lambda: p.Lambda}.Prob(float64(k))
}

func (p Poisson) Draw(rng *rand.Rand) int {
	return int(distuv.Poisson{Lambda: p.Lambda, Src: rng}.Rand())
}

func (p Poisson) Key() string {
	return fmt.Sprintf("poisson(%g)", p.Lambda)
}
