package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/gnolang/ppl/dist"
)

type kindClass int

const (
	_ kindClass = iota
	leafKind
	opKind
	givenKind
)

type kindInfo struct {
	class kindClass
	// arity bounds for op kinds; max < 0 means unbounded
	min, max int
	eval     func(n Node, args []float64) float64
}

var kinds = map[string]kindInfo{
	"const":       {class: opKind, min: 0, max: 0, eval: func(n Node, _ []float64) float64 { return n.Value }},
	"flip":        {class: leafKind},
	"categorical": {class: leafKind},
	"choice":      {class: leafKind},
	"binomial":    {class: leafKind},
	"poisson":     {class: leafKind},
	"normal":      {class: leafKind},
	"uniform":     {class: leafKind},
	"exponential": {class: leafKind},
	"beta":        {class: leafKind},
	"gamma":       {class: leafKind},
	"lognormal":   {class: leafKind},
	"weibull":     {class: leafKind},
	"rayleigh":    {class: leafKind},

	"and":     {class: opKind, min: 1, max: -1, eval: evalAnd},
	"or":      {class: opKind, min: 1, max: -1, eval: evalOr},
	"not":     {class: opKind, min: 1, max: 1, eval: func(_ Node, a []float64) float64 { return boolValue(a[0] == 0) }},
	"sum":     {class: opKind, min: 1, max: -1, eval: evalSum},
	"product": {class: opKind, min: 1, max: -1, eval: evalProduct},
	"compare": {class: opKind, min: 1, max: 1, eval: evalCompare},
	"given":   {class: givenKind, min: 2, max: 2},
}

var comparisons = map[string]func(a, b float64) bool{
	"eq": func(a, b float64) bool { return a == b },
	"ne": func(a, b float64) bool { return a != b },
	"lt": func(a, b float64) bool { return a < b },
	"le": func(a, b float64) bool { return a <= b },
	"gt": func(a, b float64) bool { return a > b },
	"ge": func(a, b float64) bool { return a >= b },
}

var ErrBadParameter = errors.New("invalid parameter")

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func evalAnd(_ Node, args []float64) float64 {
	for _, a := range args {
		if a == 0 {
			return 0
		}
	}
	return 1
}

func evalOr(_ Node, args []float64) float64 {
	for _, a := range args {
		if a != 0 {
			return 1
		}
	}
	return 0
}

func evalSum(_ Node, args []float64) float64 {
	var s float64
	for _, a := range args {
		s += a
	}
	return s
}

func evalProduct(_ Node, args []float64) float64 {
	p := 1.0
	for _, a := range args {
		p *= a
	}
	return p
}

func evalCompare(n Node, args []float64) float64 {
	return boolValue(comparisons[n.Op](args[0], n.Value))
}

func checkArity(n Node) error {
	info := kinds[n.Kind]
	if info.class == leafKind {
		if len(n.Of) != 0 {
			return fmt.Errorf("%s takes no inputs, use from to bind parameters", n.Kind)
		}
		return nil
	}
	if len(n.From) != 0 {
		return fmt.Errorf("%s has no parameters to bind", n.Kind)
	}
	if len(n.Of) < info.min || (info.max >= 0 && len(n.Of) > info.max) {
		if info.min == info.max {
			return fmt.Errorf("%s takes %d inputs, got %d", n.Kind, info.min, len(n.Of))
		}
		return fmt.Errorf("%s takes at least %d inputs, got %d", n.Kind, info.min, len(n.Of))
	}
	if n.Kind == "compare" {
		if _, ok := comparisons[n.Op]; !ok {
			return fmt.Errorf("compare: unknown op %q", n.Op)
		}
	}
	return nil
}

var params = map[string]func(n *Node, v float64){
	"value":  func(n *Node, v float64) { n.Value = v },
	"p":      func(n *Node, v float64) { n.P = v },
	"n":      func(n *Node, v float64) { n.N = v },
	"mu":     func(n *Node, v float64) { n.Mu = v },
	"sigma":  func(n *Node, v float64) { n.Sigma = v },
	"min":    func(n *Node, v float64) { n.Min = v },
	"max":    func(n *Node, v float64) { n.Max = v },
	"rate":   func(n *Node, v float64) { n.Rate = v },
	"alpha":  func(n *Node, v float64) { n.Alpha = v },
	"beta":   func(n *Node, v float64) { n.Beta = v },
	"lambda": func(n *Node, v float64) { n.Lambda = v },
	"k":      func(n *Node, v float64) { n.K = v },
}

func isParam(name string) bool {
	_, ok := params[name]
	return ok
}

func positive(name string, v float64) error {
	if !(v > 0) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be positive, got %g", ErrBadParameter, name, v)
	}
	return nil
}

func probability(v float64) error {
	if !(v >= 0 && v <= 1) {
		return fmt.Errorf("%w: p must be in [0, 1], got %g", ErrBadParameter, v)
	}
	return nil
}

func fromInt(k int) float64 { return float64(k) }

// buildLeaf validates the parameters of a leaf node and returns its
// primitive as a float64 distribution.
func buildLeaf(n Node) (dist.Dist[float64], error) {
	switch n.Kind {
	case "flip":
		if err := probability(n.P); err != nil {
			return nil, err
		}
		return dist.Map(dist.Flip(n.P), boolValue), nil

	case "categorical":
		if len(n.Values) == 0 {
			return nil, fmt.Errorf("%w: categorical needs values", ErrBadParameter)
		}
		c, err := dist.NewCategorical(n.Values, n.Weights)
		if err != nil {
			return nil, err
		}
		return c.Dist(), nil

	case "choice":
		if len(n.Values) == 0 {
			return nil, fmt.Errorf("%w: choice needs values", ErrBadParameter)
		}
		return dist.Choice(n.Values...), nil

	case "binomial":
		if n.N < 0 || n.N != math.Trunc(n.N) {
			return nil, fmt.Errorf("%w: n must be a non-negative integer, got %g", ErrBadParameter, n.N)
		}
		if err := probability(n.P); err != nil {
			return nil, err
		}
		return dist.Map(dist.Leaf[int](dist.Binomial{N: int(n.N), P: n.P}), fromInt), nil

	case "poisson":
		if err := positive("lambda", n.Lambda); err != nil {
			return nil, err
		}
		return dist.Map(dist.Leaf[int](dist.Poisson{Lambda: n.Lambda}), fromInt), nil

	case "normal":
		if err := positive("sigma", n.Sigma); err != nil {
			return nil, err
		}
		return dist.Gaussian(n.Mu, n.Sigma), nil

	case "uniform":
		if !(n.Min < n.Max) {
			return nil, fmt.Errorf("%w: min must be below max", ErrBadParameter)
		}
		return dist.Leaf[float64](dist.Uniform{Min: n.Min, Max: n.Max}), nil

	case "exponential":
		if err := positive("rate", n.Rate); err != nil {
			return nil, err
		}
		return dist.Leaf[float64](dist.Exponential{Rate: n.Rate}), nil

	case "beta":
		if err := errors.Join(positive("alpha", n.Alpha), positive("beta", n.Beta)); err != nil {
			return nil, err
		}
		return dist.Leaf[float64](dist.Beta{Alpha: n.Alpha, Beta: n.Beta}), nil

	case "gamma":
		if err := errors.Join(positive("alpha", n.Alpha), positive("beta", n.Beta)); err != nil {
			return nil, err
		}
		return dist.Leaf[float64](dist.Gamma{Alpha: n.Alpha, Beta: n.Beta}), nil

	case "lognormal":
		if err := positive("sigma", n.Sigma); err != nil {
			return nil, err
		}
		return dist.Leaf[float64](dist.LogNormal{Mu: n.Mu, Sigma: n.Sigma}), nil

	case "weibull":
		if err := errors.Join(positive("k", n.K), positive("lambda", n.Lambda)); err != nil {
			return nil, err
		}
		return dist.Leaf[float64](dist.Weibull{K: n.K, Lambda: n.Lambda}), nil

	case "rayleigh":
		if err := positive("sigma", n.Sigma); err != nil {
			return nil, err
		}
		return dist.Leaf[float64](dist.Rayleigh{Sigma: n.Sigma}), nil
	}
	return nil, fmt.Errorf("%q is not a leaf kind", n.Kind)
}
