package graph

import (
	"os"

	"github.com/pkg/errors"
	"github.com/x448/float16"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/born-ml/subtensor/internal/dispatch"
	"github.com/born-ml/subtensor/internal/index"
	"github.com/born-ml/subtensor/internal/tensor"
)

// File is the YAML form of a program plus the input sets to run it with.
//
//	name: rows
//	inputs: [x]
//	constants:
//	  picks: {dtype: int64, shape: [2], values: [2, 0]}
//	nodes:
//	  - name: picked
//	    op: GatherNd
//	    index: "?, 1:"
//	    inputs: [x, picks]
//	outputs: [picked]
//	feeds:
//	  - x: {dtype: float32, shape: [3, 2], values: [0, 1, 2, 3, 4, 5]}
type File struct {
	Name      string               `yaml:"name"`
	Inputs    []string             `yaml:"inputs"`
	Constants map[string]Literal   `yaml:"constants"`
	Nodes     []NodeSpec           `yaml:"nodes"`
	Outputs   []string             `yaml:"outputs"`
	Feeds     []map[string]Literal `yaml:"feeds"`
}

// NodeSpec is the YAML form of a Node.
//
// Op is an operator kind name. The update operators may also be written as
// "Scatter" or "ScatterNd" together with Mode ("set" or "add").
type NodeSpec struct {
	Name          string   `yaml:"name"`
	Op            string   `yaml:"op"`
	Mode          string   `yaml:"mode,omitempty"`
	Index         string   `yaml:"index,omitempty"`
	Broadcastable []bool   `yaml:"broadcastable,omitempty"`
	Inputs        []string `yaml:"inputs"`
}

// Literal is a tensor written out in YAML. A missing shape means a vector of
// all values; an empty shape is a scalar.
type Literal struct {
	DType  string `yaml:"dtype"`
	Shape  []int  `yaml:"shape"`
	Values []any  `yaml:"values"`
}

// LoadFile reads a program file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read program file %s", path)
	}
	return ParseFile(data)
}

// ParseFile decodes a program file from YAML.
func ParseFile(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "failed to parse program file")
	}
	return &f, nil
}

// Program converts the file into a Program, reporting every bad node.
func (f *File) Program() (*Program, error) {
	p := &Program{
		Name:      f.Name,
		Inputs:    f.Inputs,
		Constants: make(map[string]*tensor.RawTensor, len(f.Constants)),
		Outputs:   f.Outputs,
	}
	var errs error
	for name, lit := range f.Constants {
		t, err := lit.Tensor()
		if err != nil {
			errs = multierr.Append(errs, errors.WithMessagef(err, "constant %q", name))
			continue
		}
		p.Constants[name] = t
	}
	for _, ns := range f.Nodes {
		node, err := ns.Node()
		if err != nil {
			errs = multierr.Append(errs, errors.WithMessagef(err, "node %q", ns.Name))
			continue
		}
		p.Nodes = append(p.Nodes, node)
	}
	if errs != nil {
		return nil, errs
	}
	return p, nil
}

// InputSets converts the feeds into input sets for Executable.RunBatch.
// A file without feeds yields a single empty input set.
func (f *File) InputSets() ([]map[string]dispatch.Value, error) {
	if len(f.Feeds) == 0 {
		return []map[string]dispatch.Value{{}}, nil
	}
	sets := make([]map[string]dispatch.Value, len(f.Feeds))
	for i, feed := range f.Feeds {
		set := make(map[string]dispatch.Value, len(feed))
		for name, lit := range feed {
			t, err := lit.Tensor()
			if err != nil {
				return nil, errors.WithMessagef(err, "feed %d, input %q", i, name)
			}
			set[name] = t
		}
		sets[i] = set
	}
	return sets, nil
}

// Node resolves the operator name, write mode and index spec.
func (ns NodeSpec) Node() (Node, error) {
	var kind dispatch.OperatorKind
	switch ns.Op {
	case "Scatter", "ScatterNd":
		mode, err := index.ParseWriteMode(ns.Mode)
		if err != nil {
			return Node{}, err
		}
		kind = dispatch.UpdateKind(ns.Op == "ScatterNd", mode)
	default:
		k, err := dispatch.ParseOperatorKind(ns.Op)
		if err != nil {
			return Node{}, err
		}
		if ns.Mode != "" {
			want, err := index.ParseWriteMode(ns.Mode)
			if err != nil {
				return Node{}, err
			}
			if mode, writes := k.WriteMode(); !writes || mode != want {
				return Node{}, errors.Errorf("mode %q conflicts with operator %s", ns.Mode, k)
			}
		}
		kind = k
	}
	spec, err := index.ParseSpec(ns.Index)
	if err != nil {
		return Node{}, err
	}
	return Node{
		Name:   ns.Name,
		Kind:   kind,
		Attrs:  dispatch.Attributes{Name: ns.Name, Spec: spec, ValueBroadcastable: ns.Broadcastable},
		Inputs: ns.Inputs,
	}, nil
}

// Tensor builds the literal's tensor.
func (l Literal) Tensor() (*tensor.RawTensor, error) {
	dtype, err := tensor.ParseDataType(l.DType)
	if err != nil {
		return nil, err
	}
	shape := tensor.Shape(l.Shape)
	if l.Shape == nil {
		shape = tensor.Shape{len(l.Values)}
	}
	switch dtype {
	case tensor.Float32:
		return fromValues(l.Values, shape, asFloat[float32])
	case tensor.Float64:
		return fromValues(l.Values, shape, asFloat[float64])
	case tensor.Float16:
		return fromValues(l.Values, shape, asFloat16)
	case tensor.Int32:
		return fromValues(l.Values, shape, asInt[int32])
	case tensor.Int64:
		return fromValues(l.Values, shape, asInt[int64])
	case tensor.Uint8:
		return fromValues(l.Values, shape, asInt[uint8])
	case tensor.Bool:
		return fromValues(l.Values, shape, asBool)
	}
	return nil, errors.Errorf("unsupported literal dtype %s", dtype)
}

func fromValues[T tensor.Element](values []any, shape tensor.Shape, conv func(any) (T, error)) (*tensor.RawTensor, error) {
	data := make([]T, len(values))
	for i, v := range values {
		x, err := conv(v)
		if err != nil {
			return nil, errors.WithMessagef(err, "value %d", i)
		}
		data[i] = x
	}
	return tensor.FromSlice(data, shape)
}

func asFloat[T float32 | float64](v any) (T, error) {
	switch x := v.(type) {
	case int:
		return T(x), nil
	case float64:
		return T(x), nil
	}
	return 0, errors.Errorf("value %v is not a number", v)
}

func asFloat16(v any) (float16.Float16, error) {
	f, err := asFloat[float32](v)
	return float16.Fromfloat32(f), err
}

// asInt rejects integers outside the range of T instead of wrapping them.
func asInt[T int32 | int64 | uint8](v any) (T, error) {
	x, ok := v.(int)
	if !ok {
		return 0, errors.Errorf("value %v is not an integer", v)
	}
	if int(T(x)) != x {
		var zero T
		return 0, errors.Errorf("value %d is out of range for %T", x, zero)
	}
	return T(x), nil
}

func asBool(v any) (bool, error) {
	if b, ok := v.(bool); ok {
		return b, nil
	}
	return false, errors.Errorf("value %v is not a bool", v)
}
