package pipeline

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/sridhargunnam/framefeatures/internal/decoder"
	"github.com/sridhargunnam/framefeatures/internal/gpubuf"
	"github.com/sridhargunnam/framefeatures/internal/profiler"
	"github.com/sridhargunnam/framefeatures/internal/queue"
	"github.com/sridhargunnam/framefeatures/internal/workplan"
)

// DecodeStage implements spec.md §4.4: one worker per GPU, binding a
// hardware decoder to that GPU's packets and writing decoded frames
// into a pooled GPU buffer.
type DecodeStage struct {
	GPU       int
	Plan      *workplan.Plan
	Decoder   decoder.Decoder
	Pool      *gpubuf.Pool
	FrameSize int
	In        *queue.Queue[DecodeWorkEntry]
	Out       *queue.Queue[EvalWorkEntry]
	Logger    Logger
	Recorder  *profiler.Recorder
}

// parsePackets splits buf into its length-prefixed records (spec.md
// §6's encoded byte stream format: u32 little-endian length followed
// by that many payload bytes), returning an error if trailing bytes
// don't form a complete record.
func parsePackets(buf []byte) ([][]byte, error) {
	var packets [][]byte
	off := 0
	for off < len(buf) {
		if off+4 > len(buf) {
			return nil, fmt.Errorf("malformed encoded buffer: %d trailing bytes, not enough for a length prefix", len(buf)-off)
		}
		length := int(binary.LittleEndian.Uint32(buf[off : off+4]))
		off += 4
		if length < 0 || off+length > len(buf) {
			return nil, fmt.Errorf("malformed encoded buffer: packet length %d exceeds remaining %d bytes", length, len(buf)-off)
		}
		packets = append(packets, buf[off:off+length])
		off += length
	}
	return packets, nil
}

func (s *DecodeStage) Run(ctx context.Context) {
	logger := s.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	for {
		entry := s.In.Pop()
		if entry.IsSentinel() {
			return
		}
		itemStart := time.Now()

		item, err := s.Plan.Item(entry.WorkItemIndex)
		if err != nil {
			logger.Fatalf("decode stage gpu %d: %v", s.GPU, err)
			return
		}

		packets, err := parsePackets(entry.EncodedBuffer)
		if err != nil {
			logger.Fatalf("decode stage gpu %d: work item %d: %v", s.GPU, item.WorkItemIndex, err)
			return
		}

		gpuBuf := s.Pool.Acquire()
		currentFrame := entry.StartKeyframe

		discontinuity := true
		for _, packet := range packets {
			framesAvailable, err := s.Decoder.Feed(packet, discontinuity)
			discontinuity = false
			if err != nil {
				logger.Fatalf("decode stage gpu %d: feed work item %d: %v", s.GPU, item.WorkItemIndex, err)
				return
			}
			if !framesAvailable {
				continue
			}

			for currentFrame < item.EndFrame {
				if currentFrame < item.StartFrame {
					hasMore, err := s.Decoder.DiscardFrame()
					if err != nil {
						logger.Fatalf("decode stage gpu %d: discard work item %d: %v", s.GPU, item.WorkItemIndex, err)
						return
					}
					currentFrame++
					if !hasMore {
						break
					}
					continue
				}

				dstOffset := s.FrameSize * (currentFrame - item.StartFrame)
				hasMore, err := s.Decoder.GetFrame(gpuBuf.Data[dstOffset : dstOffset+s.FrameSize])
				if err != nil {
					logger.Fatalf("decode stage gpu %d: get_frame work item %d: %v", s.GPU, item.WorkItemIndex, err)
					return
				}
				currentFrame++
				if !hasMore {
					break
				}
			}
		}

		if err := s.Decoder.WaitUntilFramesCopied(); err != nil {
			logger.Fatalf("decode stage gpu %d: wait_until_frames_copied work item %d: %v", s.GPU, item.WorkItemIndex, err)
			return
		}

		// Discard any remaining buffered frames so the next work
		// item's first Feed starts from a clean decoder (spec.md
		// §4.4 step 4).
		for {
			hasMore, err := s.Decoder.DiscardFrame()
			if err != nil {
				break
			}
			if !hasMore {
				break
			}
		}

		s.Out.Push(EvalWorkEntry{
			WorkItemIndex:     item.WorkItemIndex,
			DecodedFramesSize: item.Size() * s.FrameSize,
			GPUBuffer:         gpuBuf,
		})

		if s.Recorder != nil {
			s.Recorder.Add(int64(time.Since(itemStart)))
		}
	}
}
