// Package graph compiles small programs of indexing nodes into executables.
//
// It plays the role of a graph-compilation pass: every node is looked up in
// a dispatch.Registry once, and the resulting closures are invoked in order
// each time the executable runs.
package graph

import (
	"maps"
	"slices"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/born-ml/subtensor/internal/dispatch"
	"github.com/born-ml/subtensor/internal/tensor"
)

// Node is one operator application. An empty input name passes nil, for
// absent optional inputs such as MakeSlice bounds.
type Node struct {
	Name   string
	Kind   dispatch.OperatorKind
	Attrs  dispatch.Attributes
	Inputs []string
}

// Program is a straight-line list of nodes. Nodes may only read program
// inputs, constants and the outputs of earlier nodes.
type Program struct {
	Name      string
	Inputs    []string
	Constants map[string]*tensor.RawTensor
	Nodes     []Node
	Outputs   []string
}

// Validate checks that every name is defined once and before it is used. All
// problems are reported together.
func (p *Program) Validate() error {
	var errs error
	defined := make(map[string]string, len(p.Inputs)+len(p.Constants)+len(p.Nodes))
	define := func(name, what string) {
		if name == "" {
			errs = multierr.Append(errs, errors.Errorf("%s with an empty name", what))
			return
		}
		if prev, ok := defined[name]; ok {
			errs = multierr.Append(errs, errors.Errorf("%s %q is already defined as a %s", what, name, prev))
			return
		}
		defined[name] = what
	}

	for _, name := range p.Inputs {
		define(name, "input")
	}
	for _, name := range slices.Sorted(maps.Keys(p.Constants)) {
		if p.Constants[name] == nil {
			errs = multierr.Append(errs, errors.Errorf("constant %q has no value", name))
		}
		define(name, "constant")
	}
	for i, node := range p.Nodes {
		for _, in := range node.Inputs {
			if in != "" && defined[in] == "" {
				errs = multierr.Append(errs, errors.Errorf("node %d (%s) reads undefined value %q", i, node.Name, in))
			}
		}
		define(node.Name, "node")
	}
	if len(p.Outputs) == 0 {
		errs = multierr.Append(errs, errors.New("program has no outputs"))
	}
	for _, out := range p.Outputs {
		if defined[out] == "" {
			errs = multierr.Append(errs, errors.Errorf("output %q is not defined", out))
		}
	}
	if errs != nil {
		return errors.WithMessagef(errs, "program %q", p.Name)
	}
	return nil
}
