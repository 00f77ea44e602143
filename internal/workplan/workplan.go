package workplan

import "fmt"

// WorkItem is a (video, [start_frame, end_frame)) shard of work, per
// spec.md §3. WorkItemIndex is its implicit position in the plan.
type WorkItem struct {
	WorkItemIndex int
	VideoIndex    int
	StartFrame    int
	EndFrame      int
}

// Size returns end_frame - start_frame.
func (w WorkItem) Size() int {
	return w.EndFrame - w.StartFrame
}

// Plan is the immutable list of WorkItems built once from dataset
// metadata before any stage starts, per spec.md §2.
type Plan struct {
	Dataset    string
	Videos     []DatasetItemMetadata
	WorkItems  []WorkItem
}

// Build enumerates work items in video-then-frame order, covering
// every frame of every video with end_frame-start_frame <= workItemSize,
// per spec.md §3. It also verifies dataset homogeneity across all
// videos (spec.md §9's open question) and fails the plan outright
// rather than allocating GPU buffers from a possibly-wrong first
// video.
func Build(dataset string, videos []DatasetItemMetadata, workItemSize int) (*Plan, error) {
	if workItemSize <= 0 {
		return nil, fmt.Errorf("work_item_size must be positive, got %d", workItemSize)
	}
	if len(videos) == 0 {
		return nil, fmt.Errorf("dataset %s has no videos", dataset)
	}

	for i := range videos {
		if err := videos[i].Validate(); err != nil {
			return nil, fmt.Errorf("invalid metadata: %w", err)
		}
		if i > 0 && !videos[0].Homogeneous(&videos[i]) {
			return nil, fmt.Errorf(
				"dataset %s is not codec/chroma/dimension-homogeneous: video 0 (%s) differs from video %d (%s)",
				dataset, videos[0].Path, i, videos[i].Path)
		}
	}

	plan := &Plan{Dataset: dataset, Videos: videos}
	for videoIndex, meta := range videos {
		for start := 0; start < meta.Frames; start += workItemSize {
			end := start + workItemSize
			if end > meta.Frames {
				end = meta.Frames
			}
			plan.WorkItems = append(plan.WorkItems, WorkItem{
				WorkItemIndex: len(plan.WorkItems),
				VideoIndex:    videoIndex,
				StartFrame:    start,
				EndFrame:      end,
			})
		}
	}
	return plan, nil
}

// Item returns the work item at index, or an error if the index is
// out of range. Sentinel indices (queue.SentinelIndex) are never
// valid here; callers must check for the sentinel before calling Item.
func (p *Plan) Item(index int) (WorkItem, error) {
	if index < 0 || index >= len(p.WorkItems) {
		return WorkItem{}, fmt.Errorf("work item index %d out of range [0,%d)", index, len(p.WorkItems))
	}
	return p.WorkItems[index], nil
}

// Len returns the total number of work items in the plan.
func (p *Plan) Len() int {
	return len(p.WorkItems)
}
