package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gnolang/ppl/dist"
)

var ErrCycle = errors.New("reference cycle")

// Program is a compiled model.
type Program struct {
	Name  string
	Query string
	// Root yields the value of the query node.
	Root dist.Dist[float64]
	// Order lists the nodes reachable from the query, dependencies first.
	Order []string
}

// Bool maps the query to value != 0.
func (p *Program) Bool() dist.Dist[bool] {
	return dist.Map(p.Root, func(v float64) bool { return v != 0 })
}

// impossible stands in for a leaf whose run-time parameters are invalid.
var impossible = dist.MapWeighted(dist.Return(0.0), func(x float64) dist.Weighted[float64] {
	return dist.Weigh(x, 0)
})

// Compile builds the graph for f. Nodes are evaluated once each, in
// dependency order, into an environment of values; a node referenced from
// several places therefore observes a single value per run.
func Compile(f *File) (*Program, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	order, err := resolve(f)
	if err != nil {
		return nil, err
	}

	c := &compiler{slot: make(map[string]int, len(order))}
	var env dist.Dist[[]float64]
	for i, name := range order {
		env, err = c.extend(env, f.Nodes[name])
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", name, err)
		}
		c.slot[name] = i
	}

	q := c.slot[f.Query]
	return &Program{
		Name:  f.Name,
		Query: f.Query,
		Root:  dist.Map(env, func(vals []float64) float64 { return vals[q] }),
		Order: order,
	}, nil
}

// resolve orders the nodes reachable from the query so that every node
// follows its references.
func resolve(f *File) ([]string, error) {
	const (
		unseen = iota
		visiting
		done
	)
	state := make(map[string]int, len(f.Nodes))
	var (
		order []string
		stack []string
	)

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			start := 0
			for i, s := range stack {
				if s == name {
					start = i
					break
				}
			}
			path := append(append([]string(nil), stack[start:]...), name)
			return fmt.Errorf("%w: %s", ErrCycle, strings.Join(path, " -> "))
		}

		state[name] = visiting
		stack = append(stack, name)
		for _, ref := range f.Nodes[name].refs() {
			if err := visit(ref); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		state[name] = done
		order = append(order, name)
		return nil
	}

	if err := visit(f.Query); err != nil {
		return nil, err
	}
	return order, nil
}

type compiler struct {
	slot map[string]int
}

func (c *compiler) slots(names []string) []int {
	out := make([]int, len(names))
	for i, name := range names {
		out[i] = c.slot[name]
	}
	return out
}

func extendWith(vals []float64, x float64) []float64 {
	out := make([]float64, len(vals)+1)
	copy(out, vals)
	out[len(vals)] = x
	return out
}

func appendValue(vals []float64, x float64) dist.Weighted[[]float64] {
	return dist.Certain(extendWith(vals, x))
}

// extend appends one node's value to env.
func (c *compiler) extend(env dist.Dist[[]float64], n Node) (dist.Dist[[]float64], error) {
	switch kinds[n.Kind].class {
	case leafKind:
		if len(n.From) == 0 {
			leaf, err := buildLeaf(n)
			if err != nil {
				return nil, err
			}
			if env == nil {
				return dist.Map(leaf, func(x float64) []float64 { return []float64{x} }), nil
			}
			return dist.Bind(env, func([]float64) dist.Dist[float64] { return leaf }, appendValue), nil
		}
		return c.dependentLeaf(env, n)

	case givenKind:
		target, evidence := c.slot[n.Of[0]], c.slot[n.Of[1]]
		held := dist.Filter(env, func(vals []float64) bool { return vals[evidence] != 0 })
		return dist.Map(held, func(vals []float64) []float64 {
			return extendWith(vals, vals[target])
		}), nil

	default:
		eval := kinds[n.Kind].eval
		if env == nil {
			return dist.Return([]float64{eval(n, nil)}), nil
		}
		args := c.slots(n.Of)
		return dist.Map(env, func(vals []float64) []float64 {
			in := make([]float64, len(args))
			for i, s := range args {
				in[i] = vals[s]
			}
			return extendWith(vals, eval(n, in))
		}), nil
	}
}

type binding struct {
	set  func(*Node, float64)
	slot int
}

// dependentLeaf rebuilds the primitive from the current environment on every
// run, so a changed parameter changes the primitive's key.
func (c *compiler) dependentLeaf(env dist.Dist[[]float64], n Node) (dist.Dist[[]float64], error) {
	names := make([]string, 0, len(n.From))
	for p := range n.From {
		names = append(names, p)
	}
	sort.Strings(names)

	binds := make([]binding, len(names))
	for i, p := range names {
		binds[i] = binding{set: params[p], slot: c.slot[n.From[p]]}
	}

	return dist.Bind(env, func(vals []float64) dist.Dist[float64] {
		m := n
		for _, b := range binds {
			b.set(&m, vals[b.slot])
		}
		leaf, err := buildLeaf(m)
		if err != nil {
			return impossible
		}
		return leaf
	}, appendValue), nil
}
