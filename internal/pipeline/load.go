package pipeline

import (
	"context"
	"time"

	"github.com/sridhargunnam/framefeatures/internal/profiler"
	"github.com/sridhargunnam/framefeatures/internal/queue"
	"github.com/sridhargunnam/framefeatures/internal/storage"
	"github.com/sridhargunnam/framefeatures/internal/workplan"
)

// LoadStage implements spec.md §4.3: for each work item, resolve its
// keyframe-aligned byte range and read it from storage.
type LoadStage struct {
	Plan    *workplan.Plan
	Backend storage.Backend
	Dataset string
	In      *queue.Queue[LoadWorkEntry]
	Out     *queue.Queue[DecodeWorkEntry]
	Backoff storage.BackoffConfig
	Logger  Logger
	// Recorder collects this worker's profiler.Record, per spec.md §6.
	// Nil is fine; callers that don't care about profiler output can
	// omit it.
	Recorder *profiler.Recorder
}

// Run drains In until it sees a sentinel, then returns. It is called
// once per load worker goroutine (spec.md §5: LOAD_WORKERS_PER_NODE
// loaders).
func (s *LoadStage) Run(ctx context.Context) {
	logger := s.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	var (
		openPath string
		openFile storage.RandomReadFile
	)
	defer func() {
		if openFile != nil {
			openFile.Close()
		}
	}()

	for {
		entry := s.In.Pop()
		if entry.IsSentinel() {
			return
		}
		itemStart := time.Now()

		item, err := s.Plan.Item(entry.WorkItemIndex)
		if err != nil {
			logger.Fatalf("load stage: %v", err)
			return
		}
		meta := &s.Plan.Videos[item.VideoIndex]

		if openFile == nil || openPath != meta.Path {
			if openFile != nil {
				openFile.Close()
			}
			path := storage.DatasetItemDataPath(s.Dataset, meta.Path)
			f, err := s.Backend.OpenRandomRead(ctx, path)
			if err != nil {
				logger.Fatalf("load stage: open %s: %v", path, err)
				return
			}
			openFile = f
			openPath = meta.Path
		}

		startKF, endKF, err := meta.KeyframeInterval(item.StartFrame, item.EndFrame)
		if err != nil {
			logger.Fatalf("load stage: keyframe interval for work item %d: %v", item.WorkItemIndex, err)
			return
		}
		startOffset, endOffset := meta.KeyframeByteRange(startKF, endKF)
		startFrameKF, endFrameKF := meta.KeyframeFrameNumbers(startKF, endKF)

		size := int(endOffset - startOffset)
		if size <= 0 {
			logger.Fatalf("load stage: non-positive byte range for work item %d", item.WorkItemIndex)
			return
		}
		buf := make([]byte, size)

		_, _, err = storage.RetryRead(ctx, s.Backoff, func() (int, storage.Result, error) {
			return openFile.Read(ctx, startOffset, size, buf)
		})
		if err != nil {
			logger.Fatalf("load stage: read work item %d: %v", item.WorkItemIndex, err)
			return
		}

		s.Out.Push(DecodeWorkEntry{
			WorkItemIndex:   item.WorkItemIndex,
			StartKeyframe:   startFrameKF,
			EndKeyframe:     endFrameKF,
			EncodedDataSize: size,
			EncodedBuffer:   buf,
		})

		if s.Recorder != nil {
			s.Recorder.Add(int64(time.Since(itemStart)))
		}
	}
}
