package pipeline

import (
	"context"
	"time"

	"github.com/sridhargunnam/framefeatures/internal/jobdescriptor"
	"github.com/sridhargunnam/framefeatures/internal/profiler"
	"github.com/sridhargunnam/framefeatures/internal/queue"
	"github.com/sridhargunnam/framefeatures/internal/storage"
	"github.com/sridhargunnam/framefeatures/internal/workplan"
)

// SaveStage implements spec.md §4.6: append each work item's output
// feature buffer to its own job output file and commit it. Unlike
// load's video files, every work item has a distinct output path, so
// there is no file to keep open across iterations.
type SaveStage struct {
	Plan    *workplan.Plan
	Backend storage.Backend
	Job     string
	In      *queue.Queue[SaveWorkEntry]
	Backoff storage.BackoffConfig
	Logger  Logger
	// Descriptor, if set, is updated with each successfully saved
	// interval so the master can serialize it after shutdown
	// (spec.md §3's JobDescriptor, §4.8).
	Descriptor *jobdescriptor.JobDescriptor
	Recorder   *profiler.Recorder
}

func (s *SaveStage) Run(ctx context.Context) {
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
			logger.Fatalf("save stage: %v", err)
			return
		}
		meta := &s.Plan.Videos[item.VideoIndex]
		path := storage.JobItemOutputPath(s.Job, meta.Path, item.StartFrame, item.EndFrame)

		file, err := s.Backend.OpenWrite(ctx, path)
		if err != nil {
			logger.Fatalf("save stage: open %s: %v", path, err)
			return
		}

		if err := storage.RetryAppend(ctx, s.Backoff, func() (storage.Result, error) {
			return file.Append(ctx, entry.OutputBuffer)
		}); err != nil {
			file.Close()
			logger.Fatalf("save stage: append work item %d: %v", item.WorkItemIndex, err)
			return
		}

		if err := file.Save(ctx); err != nil {
			file.Close()
			logger.Fatalf("save stage: save work item %d: %v", item.WorkItemIndex, err)
			return
		}
		file.Close()

		if s.Descriptor != nil {
			s.Descriptor.Add(meta.Path, item.StartFrame, item.EndFrame)
		}
		if s.Recorder != nil {
			s.Recorder.Add(int64(time.Since(itemStart)))
		}
	}
}
