// Package model reads probabilistic models from YAML files and compiles them
// into dist graphs over float64 values. Boolean nodes use 1 for true and 0
// for false.
//
// A model file looks like:
//
//	name: sprinkler
//	query: wet
//	nodes:
//	  rain:      {kind: flip, p: 0.2}
//	  sprinkler: {kind: flip, p: 0.4}
//	  wet:       {kind: or, of: [rain, sprinkler]}
//	inference:
//	  strategy: mcmc
//	  samples: 20000
package model

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// File is the on-disk model description.
type File struct {
	Name      string          `yaml:"name"`
	Query     string          `yaml:"query"`
	Inference Inference       `yaml:"inference,omitempty"`
	Pr        *Decision       `yaml:"pr,omitempty"`
	Nodes     map[string]Node `yaml:"nodes"`
}

// Inference overrides the project defaults for one model.
type Inference struct {
	Strategy string  `yaml:"strategy,omitempty"`
	Samples  int     `yaml:"samples,omitempty"`
	BurnIn   int     `yaml:"burn_in,omitempty"`
	Seed     *uint64 `yaml:"seed,omitempty"`
}

// Decision asks whether P(query != 0) exceeds Threshold.
type Decision struct {
	Threshold   float64 `yaml:"threshold"`
	Alpha       float64 `yaml:"alpha,omitempty"`
	Epsilon     float64 `yaml:"epsilon,omitempty"`
	MaxSamples  int     `yaml:"max_samples,omitempty"`
	InitSamples int     `yaml:"init_samples,omitempty"`
	Step        int     `yaml:"step,omitempty"`
}

// Node is one named variable. Leaf kinds read their parameters from the
// fields below; From maps a parameter name to another node whose value
// supplies it at run time.
type Node struct {
	Kind string            `yaml:"kind"`
	Of   []string          `yaml:"of,omitempty"`
	From map[string]string `yaml:"from,omitempty"`
	Op   string            `yaml:"op,omitempty"`

	Value   float64   `yaml:"value,omitempty"`
	P       float64   `yaml:"p,omitempty"`
	N       float64   `yaml:"n,omitempty"`
	Mu      float64   `yaml:"mu,omitempty"`
	Sigma   float64   `yaml:"sigma,omitempty"`
	Min     float64   `yaml:"min,omitempty"`
	Max     float64   `yaml:"max,omitempty"`
	Rate    float64   `yaml:"rate,omitempty"`
	Alpha   float64   `yaml:"alpha,omitempty"`
	Beta    float64   `yaml:"beta,omitempty"`
	Lambda  float64   `yaml:"lambda,omitempty"`
	K       float64   `yaml:"k,omitempty"`
	Values  []float64 `yaml:"values,omitempty"`
	Weights []float64 `yaml:"weights,omitempty"`
}

var ErrEmptyModel = errors.New("model has no nodes")

// Parse decodes a model from r.
func Parse(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Load reads and parses the model at path. The model name defaults to the
// file name.
func Load(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	f, err := Parse(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if f.Name == "" {
		f.Name = filepath.Base(path)
	}
	return f, nil
}

// Validate checks references and kind names without building the graph.
func (f *File) Validate() error {
	if len(f.Nodes) == 0 {
		return ErrEmptyModel
	}
	if f.Query == "" {
		return errors.New("model has no query")
	}
	if _, ok := f.Nodes[f.Query]; !ok {
		return fmt.Errorf("query %q is not a node", f.Query)
	}

	for _, name := range f.NodeNames() {
		n := f.Nodes[name]
		if _, ok := kinds[n.Kind]; !ok {
			return fmt.Errorf("node %q: unknown kind %q", name, n.Kind)
		}
		if err := checkArity(n); err != nil {
			return fmt.Errorf("node %q: %w", name, err)
		}
		for _, ref := range n.refs() {
			if _, ok := f.Nodes[ref]; !ok {
				return fmt.Errorf("node %q: reference to undefined node %q", name, ref)
			}
		}
		for param := range n.From {
			if !isParam(param) {
				return fmt.Errorf("node %q: unknown parameter %q in from", name, param)
			}
		}
	}
	return nil
}

// NodeNames returns node names in sorted order.
func (f *File) NodeNames() []string {
	names := make([]string, 0, len(f.Nodes))
	for name := range f.Nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (n Node) refs() []string {
	refs := append([]string(nil), n.Of...)
	params := make([]string, 0, len(n.From))
	for p := range n.From {
		params = append(params, p)
	}
	sort.Strings(params)
	for _, p := range params {
		refs = append(refs, n.From[p])
	}
	return refs
}

// Marshal encodes f as YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}
