package dist

import (
	"sync/atomic"

	"golang.org/x/exp/rand"
)

// Primitive is a leaf distribution supplied by built-ins or client code.
//
// Key returns a structural identity: two primitives with equal keys must
// describe the same distribution. The Metropolis sampler reuses a prior
// choice only where both the address and the key match, and the key is
// reported in ErrInfiniteSupport failures.
type Primitive[T any] interface {
	Density(v T) float64
	Draw(rng *rand.Rand) T
	Key() string
}

// Finite is a Primitive with an enumerable outcome table.
type Finite[T any] interface {
	Primitive[T]
	Support() []Weighted[T]
}

// Dist is a node of a computation graph. The set of node kinds is closed:
// values are built only through Leaf, Map, MapWeighted, Bind, FlatMap and
// Filter, and each interpreter handles every kind.
type Dist[T any] interface {
	enumerate() ([]Weighted[T], error)
	sample(tr *traversal) Weighted[T]
	walk(w *walker, addr address, reuse bool) Weighted[T]
}

var leafSeq atomic.Uint64

type leafNode[T any] struct {
	id   uint64
	key  string
	prim Primitive[T]
}

// Leaf wraps a primitive into a graph node. Every call yields a distinct
// instance; within one generation every visit of one instance observes the
// same value.
func Leaf[T any](p Primitive[T]) Dist[T] {
	return &leafNode[T]{
		id:   leafSeq.Add(1),
		key:  p.Key(),
		prim: p,
	}
}

type mapNode[S, T any] struct {
	source  Dist[S]
	project func(S) Weighted[T]
}

// MapWeighted projects each outcome of src through f. The weight returned by
// f multiplies the path weight.
func MapWeighted[S, T any](src Dist[S], f func(S) Weighted[T]) Dist[T] {
	return &mapNode[S, T]{source: src, project: f}
}

// Map projects each outcome of src through f with weight 1.
func Map[S, T any](src Dist[S], f func(S) T) Dist[T] {
	return MapWeighted(src, func(s S) Weighted[T] {
		return Certain(f(s))
	})
}

type bindNode[S, C, T any] struct {
	source       Dist[S]
	collectionOf func(S) Dist[C]
	combine      func(S, C) Weighted[T]
}

// Bind feeds each outcome of src into f to obtain a dependent sub-graph and
// combines the pair. Path weight is source weight times child weight times
// the combine weight.
func Bind[S, C, T any](src Dist[S], f func(S) Dist[C], combine func(S, C) Weighted[T]) Dist[T] {
	return &bindNode[S, C, T]{source: src, collectionOf: f, combine: combine}
}

// FlatMap is Bind whose result is the child outcome.
func FlatMap[S, T any](src Dist[S], f func(S) Dist[T]) Dist[T] {
	return Bind(src, f, func(_ S, c T) Weighted[T] {
		return Certain(c)
	})
}

type filterNode[T any] struct {
	source    Dist[T]
	predicate func(T) bool
}

// Filter keeps outcomes of src satisfying pred. Sampling a Filter whose
// predicate never holds does not terminate.
func Filter[T any](src Dist[T], pred func(T) bool) Dist[T] {
	return &filterNode[T]{source: src, predicate: pred}
}
