// Package dist is an embedded probabilistic-programming runtime.
//
// Client code describes a computation over random values by composing a
// small, closed set of graph nodes and then hands the graph to one of several
// interpreters that compute or approximate the distribution of the result.
//
// Node kinds:
//
// Leaf: wraps a Primitive, a leaf distribution exposing Density, Draw and a
// structural Key. Primitives that also implement Finite can be enumerated.
//
// Map: projects each outcome of a source through a function returning a
// Weighted value; the projection weight multiplies the path weight.
//
// Bind: feeds each outcome of a source into a function producing a dependent
// sub-graph, then combines the two outcomes.
//
// Filter: keeps only outcomes satisfying a predicate.
//
// Interpreters:
//
// Enumerate expands the full weighted outcome list. It is exponential in the
// branching factor and fails with ErrInfiniteSupport on any leaf that is not
// Finite.
//
// ForwardSampler draws one ancestral sample per generation. Filter is plain
// rejection sampling without a retry cap: a predicate that never holds loops
// forever.
//
// MetropolisSampler runs single-site Metropolis-Hastings over execution
// traces, reusing every prior random choice except one uniformly chosen site.
//
// Normalize groups a finite weighted sample list into a Categorical
// posterior. ExpectedValue, ExpectedValueWithConfidence and Pr consume a
// bounded prefix of a sample stream.
//
// Usage:
//
//	a, b, c := dist.Flip(0.5), dist.Flip(0.5), dist.Flip(0.5)
//	anyTrue := dist.FlatMap(a, func(x bool) dist.Dist[bool] {
//	    return dist.FlatMap(b, func(y bool) dist.Dist[bool] {
//	        return dist.Map(c, func(z bool) bool { return x || y || z })
//	    })
//	})
//
//	exact, err := dist.ExactInference(anyTrue)
//	approx, err := dist.SampledInference(anyTrue, 100000, cfg)
//
// Concurrency: graphs are immutable once built and may be shared. Per-sample
// state (the generation cache, the trace, the RNG) lives in the sampler, so
// any number of samplers may traverse one graph concurrently. A single
// sampler is not safe for concurrent use. Primitive implementations and the
// functions passed to Map, Bind and Filter must not hold mutable shared
// state.
package dist
