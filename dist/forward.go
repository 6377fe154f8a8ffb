package dist

// ForwardSampler draws one independent ancestral sample per generation.
type ForwardSampler[T any] struct {
	root Dist[T]
	seed uint64
	tr   *traversal
}

func NewForwardSampler[T any](d Dist[T], cfg Config) *ForwardSampler[T] {
	s := &ForwardSampler[T]{root: d, seed: cfg.Seed}
	s.Reset()
	return s
}

// Next runs one full traversal.
func (s *ForwardSampler[T]) Next() Weighted[T] {
	s.tr.begin()
	return s.root.sample(s.tr)
}

func (s *ForwardSampler[T]) Reset() {
	s.tr = newTraversal(newRand(s.seed))
}

// Generation returns the generation counter, which includes rejected
// Filter attempts.
func (s *ForwardSampler[T]) Generation() uint64 {
	return s.tr.gen
}
