package workplan

import "testing"

func meta(path string, frames int, kfPos []int, kfOff []int64, fileSize int64) DatasetItemMetadata {
	return DatasetItemMetadata{
		Path: path, Frames: frames, Width: 640, Height: 480,
		Codec: "h264", Chroma: "yuv420p",
		KeyframePositions: kfPos, KeyframeByteOffsets: kfOff, FileSize: fileSize,
	}
}

func TestBuildSingleFrameVideo(t *testing.T) {
	videos := []DatasetItemMetadata{meta("a.mp4", 1, []int{0}, []int64{0}, 1000)}
	plan, err := Build("ds", videos, 96)
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.WorkItems) != 1 {
		t.Fatalf("want 1 work item, got %d", len(plan.WorkItems))
	}
	if plan.WorkItems[0] != (WorkItem{0, 0, 0, 1}) {
		t.Fatalf("unexpected work item: %+v", plan.WorkItems[0])
	}
}

func TestBuildThreeWorkItemsFor200Frames(t *testing.T) {
	videos := []DatasetItemMetadata{meta("a.mp4", 200, []int{0}, []int64{0}, 1000)}
	plan, err := Build("ds", videos, 96)
	if err != nil {
		t.Fatal(err)
	}
	want := []WorkItem{
		{0, 0, 0, 96},
		{1, 0, 96, 192},
		{2, 0, 192, 200},
	}
	if len(plan.WorkItems) != len(want) {
		t.Fatalf("want %d items, got %d: %+v", len(want), len(plan.WorkItems), plan.WorkItems)
	}
	for i, w := range want {
		if plan.WorkItems[i] != w {
			t.Fatalf("item %d: want %+v, got %+v", i, w, plan.WorkItems[i])
		}
	}
}

func TestBuildTwoVideosEnumeratedInVideoOrder(t *testing.T) {
	videos := []DatasetItemMetadata{
		meta("a.mp4", 96, []int{0}, []int64{0}, 1000),
		meta("b.mp4", 1, []int{0}, []int64{0}, 1000),
	}
	plan, err := Build("ds", videos, 96)
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.WorkItems) != 2 {
		t.Fatalf("want 2 work items, got %d", len(plan.WorkItems))
	}
	if plan.WorkItems[0].VideoIndex != 0 || plan.WorkItems[1].VideoIndex != 1 {
		t.Fatalf("items not in video order: %+v", plan.WorkItems)
	}
}

func TestBuildRejectsHeterogeneousDataset(t *testing.T) {
	videos := []DatasetItemMetadata{
		meta("a.mp4", 96, []int{0}, []int64{0}, 1000),
		{Path: "b.mp4", Frames: 96, Width: 1920, Height: 1080, Codec: "h264", Chroma: "yuv420p",
			KeyframePositions: []int{0}, KeyframeByteOffsets: []int64{0}, FileSize: 1000},
	}
	if _, err := Build("ds", videos, 96); err == nil {
		t.Fatal("want error for heterogeneous dataset, got nil")
	}
}

func TestPartitionCoversEveryFrameExactlyOnce(t *testing.T) {
	videos := []DatasetItemMetadata{meta("a.mp4", 500, []int{0, 50, 300}, []int64{0, 100, 600}, 1200)}
	plan, err := Build("ds", videos, 96)
	if err != nil {
		t.Fatal(err)
	}
	sum := 0
	for i, w := range plan.WorkItems {
		if w.Size() <= 0 || w.Size() > 96 {
			t.Fatalf("work item %d has invalid size %d", i, w.Size())
		}
		if i > 0 && plan.WorkItems[i-1].EndFrame != w.StartFrame {
			t.Fatalf("gap/overlap between item %d and %d", i-1, i)
		}
		sum += w.Size()
	}
	if sum != 500 {
		t.Fatalf("want total 500 frames covered, got %d", sum)
	}
}

func TestKeyframeIntervalVirtualTerminal(t *testing.T) {
	m := meta("a.mp4", 200, []int{0, 50, 150}, []int64{0, 1000, 3000}, 5000)
	// work item [96,192): start_frame=96 falls in [50,150), end_frame=192 > 150
	// so end must reach the virtual terminal keyframe at (200, 5000).
	startKF, endKF, err := m.KeyframeInterval(96, 192)
	if err != nil {
		t.Fatal(err)
	}
	if startKF != 1 {
		t.Fatalf("want startKF 1, got %d", startKF)
	}
	if endKF != 3 {
		t.Fatalf("want endKF 3 (virtual terminal), got %d", endKF)
	}
	startOff, endOff := m.KeyframeByteRange(startKF, endKF)
	if startOff != 1000 || endOff != 5000 {
		t.Fatalf("want byte range [1000,5000), got [%d,%d)", startOff, endOff)
	}
	startFrame, endFrame := m.KeyframeFrameNumbers(startKF, endKF)
	if startFrame != 50 || endFrame != 200 {
		t.Fatalf("want frame numbers [50,200], got [%d,%d]", startFrame, endFrame)
	}
}

func TestValidateRejectsNonMonotonicKeyframes(t *testing.T) {
	m := meta("a.mp4", 200, []int{0, 50, 40}, []int64{0, 1000, 2000}, 5000)
	if err := m.Validate(); err == nil {
		t.Fatal("want error for non-monotonic keyframe_positions")
	}
}

func TestValidateRejectsNonZeroFirstKeyframe(t *testing.T) {
	m := meta("a.mp4", 200, []int{5, 50}, []int64{0, 1000}, 5000)
	if err := m.Validate(); err == nil {
		t.Fatal("want error when keyframe_positions[0] != 0")
	}
}
