package graph

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"github.com/born-ml/subtensor/internal/dispatch"
)

// Executable is a compiled Program. It is safe for concurrent use.
type Executable struct {
	// ID identifies the executable in logs.
	ID uuid.UUID

	program *Program
	steps   []step
}

type step struct {
	name    string
	kind    dispatch.OperatorKind
	inputs  []string
	closure dispatch.Closure
}

// Program returns the program the executable was compiled from.
func (e *Executable) Program() *Program {
	return e.program
}

// Run executes every node once with the given program inputs and returns the
// program outputs by name.
func (e *Executable) Run(inputs map[string]dispatch.Value) (map[string]dispatch.Value, error) {
	env := make(map[string]dispatch.Value, len(e.program.Inputs)+len(e.program.Constants)+len(e.steps))
	for name, value := range e.program.Constants {
		env[name] = value
	}
	for _, name := range e.program.Inputs {
		value, ok := inputs[name]
		if !ok {
			return nil, errors.Errorf("program %q: missing input %q", e.program.Name, name)
		}
		env[name] = value
	}

	klog.V(2).Infof("graph: running %s (%q)", e.ID, e.program.Name)
	for _, s := range e.steps {
		args := make([]dispatch.Value, len(s.inputs))
		for i, name := range s.inputs {
			if name != "" {
				args[i] = env[name]
			}
		}
		out, err := s.closure(args...)
		if err != nil {
			return nil, errors.WithMessagef(err, "program %q, node %q (%s)", e.program.Name, s.name, s.kind)
		}
		env[s.name] = out
	}

	outputs := make(map[string]dispatch.Value, len(e.program.Outputs))
	for _, name := range e.program.Outputs {
		outputs[name] = env[name]
	}
	return outputs, nil
}

// RunBatch runs independent input sets concurrently, at most workers at a
// time, and returns their outputs in order. The first failure cancels the
// input sets that have not started yet.
func (e *Executable) RunBatch(ctx context.Context, batch []map[string]dispatch.Value,
	workers int) ([]map[string]dispatch.Value, error) {
	results := make([]map[string]dispatch.Value, len(batch))
	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, inputs := range batch {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := e.Run(inputs)
			if err != nil {
				klog.Warningf("graph: %s input set %d failed: %v", e.ID, i, err)
				return errors.WithMessagef(err, "input set %d", i)
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
