package pipeline

import (
	"context"
	"time"

	"github.com/sridhargunnam/framefeatures/internal/gpubuf"
	"github.com/sridhargunnam/framefeatures/internal/netengine"
	"github.com/sridhargunnam/framefeatures/internal/profiler"
	"github.com/sridhargunnam/framefeatures/internal/queue"
	"github.com/sridhargunnam/framefeatures/internal/workplan"
)

// EvaluateStage implements spec.md §4.5: one worker per GPU, running
// the network forward pass over a work item's decoded frames in
// batches, distributing preprocessing across NUM_CUDA_STREAMS streams.
type EvaluateStage struct {
	GPU            int
	Plan           *workplan.Plan
	Engine         netengine.Engine
	Pool           *gpubuf.Pool
	FrameSize      int
	GlobalBatch    int
	NumCUDAStreams int
	In             *queue.Queue[EvalWorkEntry]
	Out            *queue.Queue[SaveWorkEntry]
	Logger         Logger
	Recorder       *profiler.Recorder
}

func (s *EvaluateStage) Run(ctx context.Context) {
	logger := s.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	outputFloats := s.Engine.OutputFloatsPerFrame()

	for {
		entry := s.In.Pop()
		if entry.IsSentinel() {
			return
		}
		itemStart := time.Now()

		item, err := s.Plan.Item(entry.WorkItemIndex)
		if err != nil {
			logger.Fatalf("evaluate stage gpu %d: %v", s.GPU, err)
			return
		}

		numFrames := item.Size()
		outputBuf := make([]byte, numFrames*outputFloats*4)

		width := s.Plan.Videos[item.VideoIndex].Width
		height := s.Plan.Videos[item.VideoIndex].Height

		frameOffset := 0
		for frameOffset < numFrames {
			batchSize := s.GlobalBatch
			if remaining := numFrames - frameOffset; remaining < batchSize {
				batchSize = remaining
			}

			for i := 0; i < batchSize; i++ {
				streamIndex := i % s.NumCUDAStreams
				srcOffset := s.FrameSize * (frameOffset + i)
				nv12 := entry.GPUBuffer.Data[srcOffset : srcOffset+s.FrameSize]
				if err := s.Engine.PreprocessFrame(nv12, width, height, i, streamIndex); err != nil {
					logger.Fatalf("evaluate stage gpu %d: preprocess work item %d frame %d: %v", s.GPU, item.WorkItemIndex, frameOffset+i, err)
					return
				}
			}

			if err := s.Engine.RunBatch(outputBuf, frameOffset, batchSize); err != nil {
				logger.Fatalf("evaluate stage gpu %d: run_batch work item %d: %v", s.GPU, item.WorkItemIndex, err)
				return
			}

			frameOffset += batchSize
		}

		s.Pool.Release(entry.GPUBuffer)

		s.Out.Push(SaveWorkEntry{
			WorkItemIndex:    item.WorkItemIndex,
			OutputBufferSize: len(outputBuf),
			OutputBuffer:     outputBuf,
		})

		if s.Recorder != nil {
			s.Recorder.Add(int64(time.Since(itemStart)))
		}
	}
}
