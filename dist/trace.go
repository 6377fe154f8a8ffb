package dist

import "math"

// address identifies a position in the graph by the path of combinator steps
// taken from the root. One leaf instance reachable through two paths gets
// two addresses.
type address string

const rootAddress address = ""

const (
	mapStep        byte = 'm'
	bindSourceStep byte = 's'
	bindChildStep  byte = 'c'
)

func (a address) push(step byte) address {
	return a + address(step)
}

// site is where a random choice was made and which distribution made it.
type site struct {
	addr address
	key  string
}

type entry struct {
	site     site
	value    any
	logScore float64
	reused   bool
}

func traceScore(trace []entry) float64 {
	s := 0.0
	for _, e := range trace {
		s += e.logScore
	}
	return s
}

// walker is a traversal that records a trace and may reuse choices from the
// previously accepted one.
type walker struct {
	*traversal

	prior    []entry
	priorIdx map[site]int
	regen    site
	hasRegen bool

	trace []entry
}

func newWalker(tr *traversal) *walker {
	return &walker{
		traversal: tr,
		priorIdx:  make(map[site]int),
	}
}

// begin starts a traversal that may reuse prior except at regen.
func (w *walker) begin(prior []entry, regen site, hasRegen bool) {
	w.traversal.begin()
	w.trace = w.trace[:0]
	w.prior = prior
	w.regen = regen
	w.hasRegen = hasRegen
	clear(w.priorIdx)
	for i, e := range prior {
		w.priorIdx[e.site] = i
	}
}

func (n *leafNode[T]) walk(w *walker, addr address, reuse bool) Weighted[T] {
	if v, ok := w.lookup(n.id); ok {
		return Certain(v.(T))
	}

	s := site{addr: addr, key: n.key}
	var (
		v      T
		reused bool
	)
	if reuse && (!w.hasRegen || s != w.regen) {
		if i, ok := w.priorIdx[s]; ok {
			v, reused = w.prior[i].value.(T)
		}
	}
	if !reused {
		v = n.prim.Draw(w.rng)
	}

	w.store(n.id, v)
	w.trace = append(w.trace, entry{
		site:     s,
		value:    v,
		logScore: math.Log(n.prim.Density(v)),
		reused:   reused,
	})
	return Certain(v)
}

func (n *mapNode[S, T]) walk(w *walker, addr address, reuse bool) Weighted[T] {
	s := n.source.walk(w, addr.push(mapStep), reuse)
	r := n.project(s.Value)
	return Weigh(r.Value, s.Probability*r.Probability)
}

func (n *bindNode[S, C, T]) walk(w *walker, addr address, reuse bool) Weighted[T] {
	s := n.source.walk(w, addr.push(bindSourceStep), reuse)
	c := n.collectionOf(s.Value).walk(w, addr.push(bindChildStep), reuse)
	r := n.combine(s.Value, c.Value)
	return Weigh(r.Value, s.Probability*c.Probability*r.Probability)
}

// Filter runs a nested forward rejection traversal. Choices made inside it
// are not traced, so every step redraws them from the filtered source.
func (n *filterNode[T]) walk(w *walker, _ address, _ bool) Weighted[T] {
	return n.sample(w.traversal)
}
