// Package netengine declares the neural-network forward-pass contract
// the evaluate stage drives (spec.md §4.5, §6). The real network
// library (and its image-preprocessing kernels) is an external
// collaborator deliberately out of scope per spec.md §1; this package
// gives it a concrete Go shape plus a deterministic mock for tests.
package netengine

// Engine runs one loaded network on one GPU across NUM_CUDA_STREAMS
// concurrent preprocessing streams, per spec.md §4.5.
type Engine interface {
	// OutputFloatsPerFrame is the fixed-size feature vector length the
	// network produces per frame (spec.md §1).
	OutputFloatsPerFrame() int

	// InputDim is the network's square input spatial dimension (dim x
	// dim), used to resize frames and the mean image (spec.md §4.5,
	// §9's mean-image open question).
	InputDim() int

	// PreprocessFrame takes one NV12 frame from a GPU buffer and
	// writes its normalized planar BGR tensor into the network's
	// input at frame offset i within the current batch, on cuda
	// stream streamIndex (spec.md §4.5 step 2: NV12 -> RGBA -> BGR ->
	// resize -> planar -> float -> subtract mean).
	PreprocessFrame(nv12 []byte, width, height, i, streamIndex int) error

	// RunBatch synchronizes all streams, runs one forward pass over
	// batchSize frames currently staged in the network's input, and
	// copies the output tensor contiguously into dst at
	// frameOffset*OutputFloatsPerFrame()*4 bytes (spec.md §4.5 step 3).
	RunBatch(dst []byte, frameOffset, batchSize int) error

	// Close releases the engine's loaded network and scratch buffers.
	Close() error
}

// Config names the network descriptor and GPU an Engine should be
// constructed for.
type Config struct {
	GPU            int
	NetDescriptor  string
	NumCUDAStreams int
}

// Factory constructs one Engine per GPU.
type Factory func(cfg Config) (Engine, error)
