// Package gpubuf implements the per-GPU pool of pre-allocated device
// frame buffers that cycles between the decode and evaluate stages,
// per spec.md §4.2.
package gpubuf

import (
	"fmt"

	"github.com/sridhargunnam/framefeatures/internal/queue"
)

// DeviceBuffer is a handle to a device-memory frame buffer sized to
// hold one work item's worth of decoded NV12 frames (spec.md §3's
// DecodeBufferEntry). The actual device allocation is behind
// Allocator so a real CUDA allocator can be substituted without
// touching pool bookkeeping; the pool only ever moves handles.
type DeviceBuffer struct {
	GPU        int
	BufferSize int
	Data       []byte // host-visible alias used by the mock allocator and tests; a real allocator would back this with a device pointer instead.
}

// Allocator allocates and frees device buffers for one GPU. Swap this
// for a real CUDA-backed implementation in production; HostAllocator
// below is the one used when no GPU is present (tests, CI).
type Allocator interface {
	Alloc(gpu, size int) *DeviceBuffer
	Free(buf *DeviceBuffer)
}

// HostAllocator backs DeviceBuffer.Data with ordinary host memory. It
// is the allocator used in tests and in any deployment where the
// evaluate stage's preprocessing kernels are themselves emulated on
// the host (see internal/netengine's mock NetEngine).
type HostAllocator struct{}

func (HostAllocator) Alloc(gpu, size int) *DeviceBuffer {
	return &DeviceBuffer{GPU: gpu, BufferSize: size, Data: make([]byte, size)}
}

func (HostAllocator) Free(*DeviceBuffer) {}

// Pool is the per-GPU set of LOAD_BUFFERS pre-allocated device
// buffers, recycled through a queue. At any instant, the number of
// buffers in the empty queue plus the number currently on loan equals
// LOAD_BUFFERS (spec.md §4.2's invariant).
type Pool struct {
	gpu        int
	bufferSize int
	loadBuffers int
	empty      *queue.Queue[*DeviceBuffer]
	alloc      Allocator
	allocated  []*DeviceBuffer
}

// New allocates loadBuffers device buffers of bufferSize bytes for
// gpu and pushes them all into the empty queue.
func New(gpu, bufferSize, loadBuffers int, alloc Allocator) (*Pool, error) {
	if loadBuffers <= 0 {
		return nil, fmt.Errorf("gpu %d: load_buffers must be positive, got %d", gpu, loadBuffers)
	}
	if bufferSize <= 0 {
		return nil, fmt.Errorf("gpu %d: buffer_size must be positive, got %d", gpu, bufferSize)
	}
	p := &Pool{
		gpu:         gpu,
		bufferSize:  bufferSize,
		loadBuffers: loadBuffers,
		empty:       queue.New[*DeviceBuffer](loadBuffers),
		alloc:       alloc,
	}
	for i := 0; i < loadBuffers; i++ {
		buf := alloc.Alloc(gpu, bufferSize)
		p.allocated = append(p.allocated, buf)
		p.empty.Push(buf)
	}
	return p, nil
}

// Acquire blocks until a buffer is available and returns it. This is
// the pool's only backpressure point: when every buffer for this GPU
// is in flight, the decoder blocks here, throttling the loader
// (spec.md §4.2).
func (p *Pool) Acquire() *DeviceBuffer {
	return p.empty.Pop()
}

// Release returns buf to the empty queue for reuse.
func (p *Pool) Release(buf *DeviceBuffer) {
	p.empty.Push(buf)
}

// BufferSize returns the byte size of each of this pool's buffers
// (frame size x WORK_ITEM_SIZE, computed by the caller).
func (p *Pool) BufferSize() int { return p.bufferSize }

// GPU returns the GPU index this pool belongs to.
func (p *Pool) GPU() int { return p.gpu }

// Close frees every buffer this pool allocated, for use during job
// shutdown after evaluate workers have joined (spec.md §4.8).
func (p *Pool) Close() {
	for _, buf := range p.allocated {
		p.alloc.Free(buf)
	}
}

// FrameSize computes the byte size of one NV12 frame, per spec.md
// §4.2's buffer sizing formula (frame_size(width,height) x
// WORK_ITEM_SIZE for the whole buffer). NV12 is full-res Y plus
// half-res interleaved UV: width*height*3/2 bytes.
func FrameSize(width, height int) int {
	return width * height * 3 / 2
}
