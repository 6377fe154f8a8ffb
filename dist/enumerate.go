package dist

import "fmt"

// Enumerate expands d into its full weighted outcome list. Outcomes are not
// grouped and Filter does not renormalize; pass the result through Normalize
// for a proper posterior.
func Enumerate[T any](d Dist[T]) ([]Weighted[T], error) {
	return d.enumerate()
}

func (n *leafNode[T]) enumerate() ([]Weighted[T], error) {
	f, ok := n.prim.(Finite[T])
	if !ok {
		return nil, fmt.Errorf("cannot enumerate %s: %w", n.key, ErrInfiniteSupport)
	}
	return f.Support(), nil
}

func (n *mapNode[S, T]) enumerate() ([]Weighted[T], error) {
	src, err := n.source.enumerate()
	if err != nil {
		return nil, err
	}

	out := make([]Weighted[T], 0, len(src))
	for _, s := range src {
		r := n.project(s.Value)
		out = append(out, Weigh(r.Value, s.Probability*r.Probability))
	}
	return out, nil
}

func (n *bindNode[S, C, T]) enumerate() ([]Weighted[T], error) {
	src, err := n.source.enumerate()
	if err != nil {
		return nil, err
	}

	var out []Weighted[T]
	for _, s := range src {
		children, err := n.collectionOf(s.Value).enumerate()
		if err != nil {
			return nil, err
		}
		for _, c := range children {
			r := n.combine(s.Value, c.Value)
			out = append(out, Weigh(r.Value, s.Probability*c.Probability*r.Probability))
		}
	}
	return out, nil
}

func (n *filterNode[T]) enumerate() ([]Weighted[T], error) {
	src, err := n.source.enumerate()
	if err != nil {
		return nil, err
	}

	out := make([]Weighted[T], 0, len(src))
	for _, s := range src {
		if n.predicate(s.Value) {
			out = append(out, s)
		}
	}
	return out, nil
}
