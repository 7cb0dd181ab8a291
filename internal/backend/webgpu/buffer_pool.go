//go:build windows

package webgpu

import (
	"sync"

	"github.com/go-webgpu/webgpu/wgpu"
)

// sizeClass buckets pooled buffers by size.
type sizeClass int

const (
	smallBuffers  sizeClass = iota // < 4KB: index lists, small row blocks.
	mediumBuffers                  // 4KB - 1MB.
	largeBuffers                   // > 1MB.
	numSizeClasses
)

const (
	smallThreshold  = 4 * 1024
	mediumThreshold = 1024 * 1024
	maxPoolSize     = 64 // Buffers kept per size class.
)

type pooledBuffer struct {
	buffer *wgpu.Buffer
	size   uint64
	usage  wgpu.BufferUsage
}

// BufferPool recycles result buffers between kernel launches.
type BufferPool struct {
	device *wgpu.Device

	mu       sync.Mutex
	classes  [numSizeClasses][]pooledBuffer
	capacity map[*wgpu.Buffer]uint64 // Allocated size of every buffer handed out.

	hits, misses uint64
}

// NewBufferPool creates an empty pool for device.
func NewBufferPool(device *wgpu.Device) *BufferPool {
	return &BufferPool{device: device, capacity: make(map[*wgpu.Buffer]uint64)}
}

func classOf(size uint64) sizeClass {
	switch {
	case size < smallThreshold:
		return smallBuffers
	case size < mediumThreshold:
		return mediumBuffers
	default:
		return largeBuffers
	}
}

// Acquire returns a buffer of at least size bytes with all usage flags set.
// Larger size classes are searched when the request's own class has no fit.
func (p *BufferPool) Acquire(size uint64, usage wgpu.BufferUsage) *wgpu.Buffer {
	p.mu.Lock()
	defer p.mu.Unlock()

	for c := classOf(size); c < numSizeClasses; c++ {
		for i, pb := range p.classes[c] {
			if pb.size >= size && pb.usage&usage == usage {
				p.classes[c] = append(p.classes[c][:i], p.classes[c][i+1:]...)
				p.hits++
				return pb.buffer
			}
		}
	}
	p.misses++
	buffer := p.device.CreateBuffer(&wgpu.BufferDescriptor{Usage: usage, Size: size})
	p.capacity[buffer] = size
	return buffer
}

// Release hands a buffer back. The buffer is filed under its allocated size,
// which may exceed the size it was last requested with. It is destroyed if
// its size class is full.
func (p *BufferPool) Release(buffer *wgpu.Buffer, size uint64, usage wgpu.BufferUsage) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if allocated, ok := p.capacity[buffer]; ok {
		size = allocated
	} else {
		p.capacity[buffer] = size
	}
	c := classOf(size)
	if len(p.classes[c]) >= maxPoolSize {
		delete(p.capacity, buffer)
		buffer.Release()
		return
	}
	p.classes[c] = append(p.classes[c], pooledBuffer{buffer: buffer, size: size, usage: usage})
}

// Clear destroys every pooled buffer.
func (p *BufferPool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for c := range p.classes {
		for _, pb := range p.classes[c] {
			delete(p.capacity, pb.buffer)
			pb.buffer.Release()
		}
		p.classes[c] = nil
	}
}

// Stats returns pool hits, misses and the number of idle buffers.
func (p *BufferPool) Stats() (hits, misses uint64, pooled int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for c := range p.classes {
		pooled += len(p.classes[c])
	}
	return p.hits, p.misses, pooled
}
