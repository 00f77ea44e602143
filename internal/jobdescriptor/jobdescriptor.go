// Package jobdescriptor implements spec.md §3's JobDescriptor output:
// the map from video path to the ordered list of processed intervals,
// serialized once by the master after every stage has completed
// (spec.md §4.8, §6).
package jobdescriptor

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/sridhargunnam/framefeatures/internal/storage"
	"github.com/sridhargunnam/framefeatures/internal/workplan"
)

// Interval is a processed (start_frame, end_frame) range for a video.
type Interval struct {
	StartFrame int `json:"start_frame"`
	EndFrame   int `json:"end_frame"`
}

// JobDescriptor is the immutable-after-build output record for a
// completed job, per spec.md §3.
type JobDescriptor struct {
	Dataset string              `json:"dataset"`
	Videos  map[string][]Interval `json:"videos"`

	mu sync.Mutex
}

// New returns an empty descriptor for dataset.
func New(dataset string) *JobDescriptor {
	return &JobDescriptor{Dataset: dataset, Videos: make(map[string][]Interval)}
}

// Add records that [start, end) of video was processed. Safe to call
// concurrently from multiple save-stage workers as their SaveWorkEntry
// completions arrive in arbitrary order (spec.md §5: save queue order
// is not the work-item order).
func (d *JobDescriptor) Add(video string, start, end int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Videos[video] = append(d.Videos[video], Interval{StartFrame: start, EndFrame: end})
}

// Validate checks the descriptor against the invariant spec.md §8
// property 1 requires: for every video, the intervals partition
// [0, frames) with no gaps or overlaps and end-start <= workItemSize.
func (d *JobDescriptor) Validate(plan *workplan.Plan, workItemSize int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := range plan.Videos {
		video := &plan.Videos[i]
		intervals := append([]Interval(nil), d.Videos[video.Path]...)
		sort.Slice(intervals, func(a, b int) bool { return intervals[a].StartFrame < intervals[b].StartFrame })

		want := video.Frames
		got := 0
		next := 0
		for _, iv := range intervals {
			if iv.StartFrame != next {
				return fmt.Errorf("video %s: gap or overlap at frame %d (interval starts at %d)", video.Path, next, iv.StartFrame)
			}
			if iv.EndFrame-iv.StartFrame > workItemSize {
				return fmt.Errorf("video %s: interval [%d,%d) exceeds work_item_size %d", video.Path, iv.StartFrame, iv.EndFrame, workItemSize)
			}
			next = iv.EndFrame
			got = next
		}
		if got != want {
			return fmt.Errorf("video %s: intervals cover %d frames, want %d", video.Path, got, want)
		}
	}
	return nil
}

// Write serializes the descriptor to job_descriptor_path(job) via
// backend, per spec.md §6.
func (d *JobDescriptor) Write(ctx context.Context, backend storage.Backend, job string) error {
	d.mu.Lock()
	data, err := json.Marshal(d)
	d.mu.Unlock()
	if err != nil {
		return fmt.Errorf("marshal job descriptor: %w", err)
	}

	f, err := backend.OpenWrite(ctx, storage.JobDescriptorPath(job))
	if err != nil {
		return fmt.Errorf("open job descriptor: %w", err)
	}
	defer f.Close()

	result, err := f.Append(ctx, data)
	if err != nil {
		return fmt.Errorf("write job descriptor: %w", err)
	}
	if result != storage.Success {
		return fmt.Errorf("write job descriptor: unexpected result %s", result)
	}
	return f.Save(ctx)
}
