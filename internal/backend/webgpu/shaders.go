//go:build windows

package webgpu

// workgroupSize is the number of threads per workgroup of every kernel.
const workgroupSize = 256

// Kernels move raw 32-bit words, so one shader serves float32 and int32.
// Only accumulation needs the element type.

// gatherRowsShader copies whole rows: dst[r, c] = src[idx[r], c].
const gatherRowsShader = `
struct Params {
    count: u32,
    row_size: u32,
}

@group(0) @binding(0) var<storage, read> src: array<u32>;
@group(0) @binding(1) var<storage, read> idx: array<u32>;
@group(0) @binding(2) var<storage, read_write> dst: array<u32>;
@group(0) @binding(3) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let i = global_id.x;
    if (i >= params.count * params.row_size) {
        return;
    }
    let r = i / params.row_size;
    let c = i % params.row_size;
    dst[i] = src[idx[r] * params.row_size + c];
}
`

// scatterRowsTemplate writes rows in index order. Each thread owns one column
// and walks the index list sequentially, so repeated rows are applied in order
// without atomics. {{TYPE}} and {{OP}} are substituted per kernel.
const scatterRowsTemplate = `
struct Params {
    count: u32,
    row_size: u32,
    value_row_stride: u32,
    value_col_stride: u32,
}

@group(0) @binding(0) var<storage, read> idx: array<u32>;
@group(0) @binding(1) var<storage, read> values: array<{{TYPE}}>;
@group(0) @binding(2) var<storage, read_write> dst: array<{{TYPE}}>;
@group(0) @binding(3) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let c = global_id.x;
    if (c >= params.row_size) {
        return;
    }
    for (var r: u32 = 0u; r < params.count; r = r + 1u) {
        let at = idx[r] * params.row_size + c;
        let v = values[r * params.value_row_stride + c * params.value_col_stride];
        {{OP}}
    }
}
`
