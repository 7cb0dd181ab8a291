//go:build windows

package webgpu

import (
	"encoding/binary"
	"unsafe"

	"github.com/go-webgpu/webgpu/wgpu"
	"github.com/pkg/errors"
)

// compileShader compiles WGSL code once per name.
func (b *Backend) compileShader(name, code string) *wgpu.ShaderModule {
	b.mu.RLock()
	if shader, exists := b.shaders[name]; exists {
		b.mu.RUnlock()
		return shader
	}
	b.mu.RUnlock()

	shader := b.device.CreateShaderModuleWGSL(code)

	b.mu.Lock()
	b.shaders[name] = shader
	b.mu.Unlock()
	return shader
}

// pipeline returns the cached compute pipeline for a shader.
func (b *Backend) pipeline(name, code string) *wgpu.ComputePipeline {
	b.mu.RLock()
	if p, exists := b.pipelines[name]; exists {
		b.mu.RUnlock()
		return p
	}
	b.mu.RUnlock()

	shader := b.compileShader(name, code)
	// Auto layout (nil) derives bindings from the shader.
	p := b.device.CreateComputePipelineSimple(nil, shader, "main")

	b.mu.Lock()
	b.pipelines[name] = p
	b.mu.Unlock()
	return p
}

// createBuffer creates a buffer holding a copy of data.
func (b *Backend) createBuffer(data []byte, usage wgpu.BufferUsage) *wgpu.Buffer {
	size := uint64(len(data))
	buffer := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            usage,
		Size:             size,
		MappedAtCreation: wgpu.True,
	})
	mappedPtr := buffer.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	copy(unsafe.Slice((*byte)(mappedPtr), size), data)
	buffer.Unmap()
	return buffer
}

// createParams packs u32 kernel parameters into a 16-byte aligned uniform buffer.
func (b *Backend) createParams(values ...uint32) (*wgpu.Buffer, uint64) {
	size := (uint64(4*len(values)) + 15) &^ 15
	data := make([]byte, size)
	for i, v := range values {
		binary.LittleEndian.PutUint32(data[4*i:], v)
	}
	return b.createBuffer(data, wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst), size
}

// readBuffer copies size bytes of a storage buffer back to the host through
// a staging buffer.
func (b *Backend) readBuffer(src *wgpu.Buffer, size uint64) ([]byte, error) {
	staging := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		Size:  size,
	})
	defer staging.Release()

	encoder := b.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(src, 0, staging, 0, size)
	b.queue.Submit(encoder.Finish(nil))

	if err := staging.MapAsync(b.device, wgpu.MapModeRead, 0, size); err != nil {
		return nil, errors.Wrap(err, "webgpu: failed to map staging buffer")
	}
	mappedPtr := staging.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	out := append([]byte(nil), unsafe.Slice((*byte)(mappedPtr), size)...)
	staging.Unmap()
	return out, nil
}

// binding is one storage or uniform buffer bound to a kernel.
type binding struct {
	buffer *wgpu.Buffer
	size   uint64
}

// run dispatches enough workgroups of the named kernel to cover n threads.
func (b *Backend) run(name, code string, n int, bindings ...binding) {
	p := b.pipeline(name, code)
	entries := make([]wgpu.BindGroupEntry, len(bindings))
	for i, bd := range bindings {
		//nolint:gosec // G115: binding indices are small.
		entries[i] = wgpu.BufferBindingEntry(uint32(i), bd.buffer, 0, bd.size)
	}
	bindGroup := b.device.CreateBindGroupSimple(p.GetBindGroupLayout(0), entries)
	defer bindGroup.Release()

	encoder := b.device.CreateCommandEncoder(nil)
	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(p)
	pass.SetBindGroup(0, bindGroup, nil)
	//nolint:gosec // G115: n is a non-negative element count.
	pass.DispatchWorkgroups(uint32((n+workgroupSize-1)/workgroupSize), 1, 1)
	pass.End()
	b.queue.Submit(encoder.Finish(nil))
}
