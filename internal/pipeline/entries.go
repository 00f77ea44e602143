// Package pipeline implements the four-stage in-process engine (load
// -> decode -> evaluate -> save) described in spec.md §4.3-§4.8: the
// stage workers, the queues wiring them together, and the
// sentinel-driven shutdown sequence.
package pipeline

import "github.com/sridhargunnam/framefeatures/internal/gpubuf"

// SentinelIndex marks a sentinel entry, per spec.md §4.8. All four
// entry types below carry a WorkItemIndex field that is SentinelIndex
// for sentinels.
const SentinelIndex = -1

// LoadWorkEntry is pushed onto the load queue. A non-sentinel entry
// names one work item by index into the immutable work plan.
type LoadWorkEntry struct {
	WorkItemIndex int
}

func LoadSentinel() LoadWorkEntry { return LoadWorkEntry{WorkItemIndex: SentinelIndex} }
func (e LoadWorkEntry) IsSentinel() bool { return e.WorkItemIndex == SentinelIndex }

// DecodeWorkEntry is pushed from load onto decode_queue. encodedBuffer
// is a host byte buffer owned by this entry until the decode stage
// releases it.
type DecodeWorkEntry struct {
	WorkItemIndex   int
	StartKeyframe   int
	EndKeyframe     int
	EncodedDataSize int
	EncodedBuffer   []byte
}

func DecodeSentinel() DecodeWorkEntry { return DecodeWorkEntry{WorkItemIndex: SentinelIndex} }
func (e DecodeWorkEntry) IsSentinel() bool { return e.WorkItemIndex == SentinelIndex }

// EvalWorkEntry is pushed from decode onto eval_queue[gpu]. GPUBuffer
// must be returned to the owning GPU's empty-buffer queue by the
// evaluate stage.
type EvalWorkEntry struct {
	WorkItemIndex     int
	DecodedFramesSize int
	GPUBuffer         *gpubuf.DeviceBuffer
}

func EvalSentinel() EvalWorkEntry { return EvalWorkEntry{WorkItemIndex: SentinelIndex} }
func (e EvalWorkEntry) IsSentinel() bool { return e.WorkItemIndex == SentinelIndex }

// SaveWorkEntry is pushed from evaluate onto save_queue. OutputBuffer
// is host memory owned by this entry until the save stage releases it
// (by writing it and letting it go out of scope).
type SaveWorkEntry struct {
	WorkItemIndex    int
	OutputBufferSize int
	OutputBuffer     []byte
}

func SaveSentinel() SaveWorkEntry { return SaveWorkEntry{WorkItemIndex: SentinelIndex} }
func (e SaveWorkEntry) IsSentinel() bool { return e.WorkItemIndex == SentinelIndex }
