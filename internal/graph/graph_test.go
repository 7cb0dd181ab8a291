package graph

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/born-ml/subtensor/internal/backend/cpu"
	"github.com/born-ml/subtensor/internal/dispatch"
	"github.com/born-ml/subtensor/internal/index"
	"github.com/born-ml/subtensor/internal/tensor"
)

const rowsProgram = `
name: rows
inputs: [x]
constants:
  picks: {dtype: int64, values: [2, 0]}
  one: {dtype: int32, shape: [], values: [1]}
nodes:
  - name: picked
    op: Gather
    inputs: [x, picks]
  - name: window
    op: MakeSlice
    inputs: [one, ""]
  - name: tail
    op: GatherNd
    index: "?, 0"
    inputs: [x, window]
  - name: bumped
    op: ScatterNd
    mode: add
    index: "?"
    inputs: [x, picked, picks]
outputs: [picked, tail, bumped]
feeds:
  - x: {dtype: float32, shape: [3, 2], values: [0, 1, 2, 3, 4, 5]}
  - x: {dtype: float32, shape: [3, 2], values: [5, 4, 3, 2, 1, 0]}
`

func tensorEqual() cmp.Option {
	return cmp.Comparer(func(a, b *tensor.RawTensor) bool { return a.Equal(b) })
}

func newCompiler(t *testing.T, cacheSize int) *Compiler {
	t.Helper()
	return must.M1(NewCompiler(dispatch.Default(), cpu.New(), cacheSize))
}

func TestRunProgramFile(t *testing.T) {
	f := must.M1(ParseFile([]byte(rowsProgram)))
	p := must.M1(f.Program())
	exe, err := newCompiler(t, 0).Compile(p)
	require.NoError(t, err)

	sets := must.M1(f.InputSets())
	require.Len(t, sets, 2)
	out, err := exe.Run(sets[0])
	require.NoError(t, err)

	want := map[string]dispatch.Value{
		"picked": must.M1(tensor.FromSlice([]float32{4, 5, 0, 1}, tensor.Shape{2, 2})),
		"tail":   must.M1(tensor.FromSlice([]float32{2, 4}, tensor.Shape{2})),
		"bumped": must.M1(tensor.FromSlice([]float32{0, 2, 2, 3, 8, 10}, tensor.Shape{3, 2})),
	}
	if diff := cmp.Diff(want, out, tensorEqual()); diff != "" {
		t.Errorf("Run() mismatch (-want +got):\n%s", diff)
	}
}

func TestRunBatch(t *testing.T) {
	f := must.M1(ParseFile([]byte(rowsProgram)))
	exe := must.M1(newCompiler(t, 16).Compile(must.M1(f.Program())))

	batch := must.M1(f.InputSets())
	for i := 0; i < 30; i++ {
		batch = append(batch, batch[i%2])
	}
	results, err := exe.RunBatch(context.Background(), batch, 4)
	require.NoError(t, err)
	require.Len(t, results, len(batch))
	for i, res := range results {
		single := must.M1(exe.Run(batch[i]))
		if diff := cmp.Diff(single, res, tensorEqual()); diff != "" {
			t.Errorf("input set %d mismatch (-want +got):\n%s", i, diff)
		}
	}

	// A failing input set fails the batch.
	bad := append(batch, map[string]dispatch.Value{"x": tensor.Scalar(float32(0))})
	_, err = exe.RunBatch(context.Background(), bad, 2)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = exe.RunBatch(ctx, batch, 2)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestCompileReportsEveryFailure(t *testing.T) {
	p := &Program{
		Name:   "broken",
		Inputs: []string{"x"},
		Nodes: []Node{
			{Name: "a", Kind: dispatch.GatherNd, Attrs: dispatch.Attributes{Spec: index.Spec{index.Range(index.Slice{}.By(0))}}, Inputs: []string{"x"}},
			{Name: "b", Kind: dispatch.InvalidKind, Inputs: []string{"x"}},
		},
		Outputs: []string{"a"},
	}
	_, err := newCompiler(t, 0).Compile(p)
	require.Error(t, err)
	assert.Len(t, multierr.Errors(errors.Cause(err)), 2)

	var uErr *dispatch.UnsupportedOperatorError
	assert.True(t, errors.As(err, &uErr), "got %v", err)
	var mErr *index.MalformedIndexSpecError
	assert.True(t, errors.As(err, &mErr), "got %v", err)
}

func TestValidate(t *testing.T) {
	p := &Program{
		Name:      "names",
		Inputs:    []string{"x", "x"},
		Constants: map[string]*tensor.RawTensor{"c": nil},
		Nodes: []Node{
			{Name: "n", Kind: dispatch.Gather, Inputs: []string{"x", "later"}},
			{Name: "later", Kind: dispatch.Gather, Inputs: []string{"x", "n"}},
		},
		Outputs: []string{"missing"},
	}
	err := p.Validate()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(errors.Cause(err)), 4)
}

func TestValidateReportsConstantsInOrder(t *testing.T) {
	p := &Program{
		Name:      "order",
		Constants: map[string]*tensor.RawTensor{"d": nil, "a": nil, "c": nil, "b": nil},
		Outputs:   []string{"a"},
	}
	first := p.Validate().Error()
	for range 10 {
		assert.Equal(t, first, p.Validate().Error())
	}
	errs := multierr.Errors(errors.Cause(p.Validate()))
	require.Len(t, errs, 4)
	for i, name := range []string{"a", "b", "c", "d"} {
		assert.Contains(t, errs[i].Error(), `constant "`+name+`"`)
	}
}

func TestClosureCacheSharesIdenticalNodes(t *testing.T) {
	c := newCompiler(t, 8)
	spec := must.M1(index.ParseSpec("?, 1:"))
	p := &Program{
		Name:   "shared",
		Inputs: []string{"x", "i"},
		Nodes: []Node{
			{Name: "a", Kind: dispatch.GatherNd, Attrs: dispatch.Attributes{Name: "a", Spec: spec}, Inputs: []string{"x", "i"}},
			{Name: "b", Kind: dispatch.GatherNd, Attrs: dispatch.Attributes{Name: "b", Spec: spec}, Inputs: []string{"x", "i"}},
			{Name: "c", Kind: dispatch.Gather, Inputs: []string{"x", "i"}},
		},
		Outputs: []string{"a", "b", "c"},
	}
	exe := must.M1(c.Compile(p))
	assert.Equal(t, 2, c.CacheLen())

	_ = must.M1(c.Compile(p))
	assert.Equal(t, 2, c.CacheLen())

	x := must.M1(tensor.Arange(6, tensor.Int64))
	x = must.M1(x.Reshape(tensor.Shape{3, 2}))
	i := must.M1(tensor.FromSlice([]int64{5}, tensor.Shape{1}))
	_, err := exe.Run(map[string]dispatch.Value{"x": x, "i": i})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `node "a"`, "errors are labelled with the failing node")
}

func TestRunMissingInput(t *testing.T) {
	f := must.M1(ParseFile([]byte(rowsProgram)))
	exe := must.M1(newCompiler(t, 0).Compile(must.M1(f.Program())))
	_, err := exe.Run(nil)
	assert.ErrorContains(t, err, `missing input "x"`)
}

func TestFileErrors(t *testing.T) {
	_, err := ParseFile([]byte("nodes: {"))
	assert.Error(t, err)

	f := must.M1(ParseFile([]byte(`
constants:
  bad: {dtype: complex64, values: [1]}
  short: {dtype: float32, shape: [2, 2], values: [1, 2]}
nodes:
  - {name: a, op: Reshape}
  - {name: b, op: Gather, mode: add}
  - {name: c, op: ScatterNd, mode: multiply}
  - {name: d, op: GatherNd, index: "1:2:0"}
`)))
	_, err = f.Program()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 6)
}

func TestLiteralTensor(t *testing.T) {
	half := must.M1(Literal{DType: "float16", Shape: []int{}, Values: []any{1.5}}.Tensor())
	assert.Equal(t, []float32{1.5}, half.Values())

	flags := must.M1(Literal{DType: "bool", Values: []any{true, false}}.Tensor())
	assert.Equal(t, tensor.Shape{2}, flags.Shape())

	_, err := Literal{DType: "int32", Values: []any{1.5}}.Tensor()
	assert.Error(t, err)

	f := must.M1(ParseFile([]byte(`
feeds:
  - a: {dtype: uint8, values: [300]}
  - b: {dtype: int32, values: [4294967297]}
  - c: {dtype: uint8, values: [-1]}
  - d: {dtype: int32, values: [-2147483648, 2147483647]}
`)))
	for i, feed := range f.Feeds {
		for name, lit := range feed {
			_, err := lit.Tensor()
			if name == "d" {
				assert.NoError(t, err)
				continue
			}
			assert.ErrorContains(t, err, "out of range", "feed %d", i)
		}
	}
	_, err = f.InputSets()
	assert.Error(t, err)
}

func TestEmptyBroadcastPatternIsRejected(t *testing.T) {
	f := must.M1(ParseFile([]byte(`
name: empty
inputs: [x, y, i]
nodes:
  - {name: out, op: ScatterAdd, broadcastable: [], inputs: [x, y, i]}
outputs: [out]
`)))
	_, err := newCompiler(t, 0).Compile(must.M1(f.Program()))
	var mErr *index.MalformedIndexSpecError
	assert.True(t, errors.As(err, &mErr), "got %v", err)
}

func TestNodeSpecModes(t *testing.T) {
	tests := []struct {
		spec NodeSpec
		want dispatch.OperatorKind
	}{
		{NodeSpec{Op: "Scatter"}, dispatch.ScatterSet},
		{NodeSpec{Op: "Scatter", Mode: "inc"}, dispatch.ScatterAdd},
		{NodeSpec{Op: "ScatterNd", Mode: "add"}, dispatch.ScatterNdAdd},
		{NodeSpec{Op: "ScatterNdSet", Mode: "set"}, dispatch.ScatterNdSet},
		{NodeSpec{Op: "gather"}, dispatch.Gather},
	}
	for _, tt := range tests {
		node, err := tt.spec.Node()
		require.NoError(t, err, tt.spec.Op)
		assert.Equal(t, tt.want, node.Kind, tt.spec.Op)
	}
}
