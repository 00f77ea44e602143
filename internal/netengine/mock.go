package netengine

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Mock is a deterministic Engine used by tests and by any deployment
// that wants to exercise the pipeline without a real network. The
// "feature vector" it produces for a frame is its mean NV12 byte
// value, repeated OutputFloatsPerFrame() times — enough structure for
// tests to assert a frame was (or wasn't) processed, without needing
// an actual CNN.
type Mock struct {
	outputFloats int
	dim          int

	// meanImageDim mirrors the source engine's behavior of resizing
	// its mean image to the network's input dimensions even though
	// that resize is widely believed to be a bug (spec.md §9): it is
	// preserved here for output compatibility rather than "fixed".
	meanImageDim int

	staged map[int]float32
}

func NewMock(outputFloats, dim int) *Mock {
	return &Mock{
		outputFloats:  outputFloats,
		dim:           dim,
		meanImageDim:  dim,
		staged:        make(map[int]float32),
	}
}

func (m *Mock) OutputFloatsPerFrame() int { return m.outputFloats }
func (m *Mock) InputDim() int             { return m.dim }

func (m *Mock) PreprocessFrame(nv12 []byte, width, height, i, streamIndex int) error {
	if len(nv12) == 0 {
		return fmt.Errorf("mock engine: empty frame at batch index %d", i)
	}
	var sum int
	for _, b := range nv12 {
		sum += int(b)
	}
	m.staged[i] = float32(sum) / float32(len(nv12))
	return nil
}

func (m *Mock) RunBatch(dst []byte, frameOffset, batchSize int) error {
	for j := 0; j < batchSize; j++ {
		v, ok := m.staged[j]
		if !ok {
			return fmt.Errorf("mock engine: batch index %d was never preprocessed", j)
		}
		base := (frameOffset + j) * m.outputFloats * 4
		for k := 0; k < m.outputFloats; k++ {
			off := base + k*4
			if off+4 > len(dst) {
				return fmt.Errorf("mock engine: output buffer too small at frame %d", frameOffset+j)
			}
			binary.LittleEndian.PutUint32(dst[off:off+4], math.Float32bits(v))
		}
	}
	m.staged = make(map[int]float32)
	return nil
}

func (m *Mock) Close() error { return nil }

// NewMockFactory returns a Factory that builds Mock engines producing
// outputFloats-length feature vectors per frame.
func NewMockFactory(outputFloats, dim int) Factory {
	return func(cfg Config) (Engine, error) {
		return NewMock(outputFloats, dim), nil
	}
}
