package dist

import "golang.org/x/exp/rand"

// traversal is the side table for one sampling generation. It maps leaf
// instances to the value drawn for them, so graphs stay immutable and can be
// shared between samplers.
type traversal struct {
	rng *rand.Rand
	gen uint64

	values  map[uint64]any
	journal []uint64 // leaf ids in visit order, repeats included
}

func newTraversal(rng *rand.Rand) *traversal {
	return &traversal{
		rng:    rng,
		values: make(map[uint64]any),
	}
}

// begin starts a new generation.
func (t *traversal) begin() {
	t.gen++
	clear(t.values)
	t.journal = t.journal[:0]
}

func (t *traversal) lookup(id uint64) (any, bool) {
	v, ok := t.values[id]
	if ok {
		t.journal = append(t.journal, id)
	}
	return v, ok
}

func (t *traversal) store(id uint64, v any) {
	t.values[id] = v
	t.journal = append(t.journal, id)
}

func (t *traversal) mark() int {
	return len(t.journal)
}

// rollback forgets every value visited after m, including values fixed
// earlier in the generation, and advances the generation counter. A rejected
// Filter attempt therefore redraws its whole source; values the attempt
// never reached stay put.
func (t *traversal) rollback(m int) {
	for _, id := range t.journal[m:] {
		delete(t.values, id)
	}
	t.journal = t.journal[:m]
	t.gen++
}

func (n *leafNode[T]) sample(tr *traversal) Weighted[T] {
	if v, ok := tr.lookup(n.id); ok {
		return Certain(v.(T))
	}
	v := n.prim.Draw(tr.rng)
	tr.store(n.id, v)
	return Certain(v)
}

func (n *mapNode[S, T]) sample(tr *traversal) Weighted[T] {
	s := n.source.sample(tr)
	r := n.project(s.Value)
	return Weigh(r.Value, s.Probability*r.Probability)
}

func (n *bindNode[S, C, T]) sample(tr *traversal) Weighted[T] {
	s := n.source.sample(tr)
	c := n.collectionOf(s.Value).sample(tr)
	r := n.combine(s.Value, c.Value)
	return Weigh(r.Value, s.Probability*c.Probability*r.Probability)
}

func (n *filterNode[T]) sample(tr *traversal) Weighted[T] {
	for {
		m := tr.mark()
		r := n.source.sample(tr)
		if n.predicate(r.Value) {
			return r
		}
		tr.rollback(m)
	}
}
