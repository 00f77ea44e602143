package pipeline

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/sridhargunnam/framefeatures/internal/decoder"
	"github.com/sridhargunnam/framefeatures/internal/gpubuf"
	"github.com/sridhargunnam/framefeatures/internal/jobdescriptor"
	"github.com/sridhargunnam/framefeatures/internal/netengine"
	"github.com/sridhargunnam/framefeatures/internal/storage"
	"github.com/sridhargunnam/framefeatures/internal/storage/localfs"
	"github.com/sridhargunnam/framefeatures/internal/workplan"
)

// encodePackets builds spec.md §6's encoded byte stream: n
// length-prefixed records, each carrying a 1-byte payload. The mock
// decoder yields one frame per packet whatever the payload holds.
func encodePackets(n int) []byte {
	var buf []byte
	for i := 0; i < n; i++ {
		payload := []byte{byte(i % 256)}
		var lenBytes [4]byte
		binary.LittleEndian.PutUint32(lenBytes[:], uint32(len(payload)))
		buf = append(buf, lenBytes[:]...)
		buf = append(buf, payload...)
	}
	return buf
}

func buildTestPlan(t *testing.T, frames, workItemSize int) (*workplan.Plan, []byte) {
	t.Helper()
	packets := encodePackets(frames)
	meta := workplan.DatasetItemMetadata{
		Path: "a.mp4", Frames: frames, Width: 64, Height: 48,
		Codec: "h264", Chroma: "yuv420p", FileSize: int64(len(packets)),
		KeyframePositions:   []int{0},
		KeyframeByteOffsets: []int64{0},
	}
	plan, err := workplan.Build("ds", []workplan.DatasetItemMetadata{meta}, workItemSize)
	if err != nil {
		t.Fatal(err)
	}
	return plan, packets
}

func runPipeline(t *testing.T, plan *workplan.Plan, packets []byte, workItemSize int) (*Pipeline, storage.Backend, *jobdescriptor.JobDescriptor) {
	t.Helper()
	root := t.TempDir()
	backend := localfs.New(root)

	f, err := backend.OpenWrite(context.Background(), storage.DatasetItemDataPath("ds", "a.mp4"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Append(context.Background(), packets); err != nil {
		t.Fatal(err)
	}
	if err := f.Save(context.Background()); err != nil {
		t.Fatal(err)
	}
	f.Close()

	frameSize := gpubuf.FrameSize(64, 48)
	const outputFloats = 8
	const dim = 16

	descriptor := jobdescriptor.New("ds")
	cfg := Config{
		Plan: plan, Backend: backend, Dataset: "ds", Job: "job1",
		Backoff: storage.DefaultBackoffConfig(),

		LoadWorkers: 1, SaveWorkers: 1, GPUs: 1,
		LoadBuffers: 2, WorkItemSize: workItemSize,

		GlobalBatchSize: 32, NumCUDAStreams: 2,

		DecoderFactory: decoder.NewMockFactory(frameSize),
		EngineFactory:  netengine.NewMockFactory(outputFloats, dim),
		Allocator:      gpubuf.HostAllocator{},

		Descriptor: descriptor,
	}

	p, err := Build(cfg)
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	p.Start(ctx)
	for i := 0; i < plan.Len(); i++ {
		p.Push(i)
	}
	p.Shutdown()

	return p, backend, descriptor
}

func TestPipelineEndToEndThreeWorkItems(t *testing.T) {
	plan, packets := buildTestPlan(t, 200, 96)
	_, backend, descriptor := runPipeline(t, plan, packets, 96)

	if err := descriptor.Validate(plan, 96); err != nil {
		t.Fatalf("descriptor invariant violated: %v", err)
	}

	const outputFloats = 8
	for _, item := range plan.WorkItems {
		path := storage.JobItemOutputPath("job1", "a.mp4", item.StartFrame, item.EndFrame)
		f, err := backend.OpenRandomRead(context.Background(), path)
		if err != nil {
			t.Fatalf("work item %d: output file missing: %v", item.WorkItemIndex, err)
		}
		want := int64(item.Size() * outputFloats * 4)
		if f.Size() != want {
			t.Errorf("work item %d: output size = %d, want %d", item.WorkItemIndex, f.Size(), want)
		}
		f.Close()
	}
}

func TestPipelineSingleFrameVideo(t *testing.T) {
	plan, packets := buildTestPlan(t, 1, 96)
	_, backend, descriptor := runPipeline(t, plan, packets, 96)

	if err := descriptor.Validate(plan, 96); err != nil {
		t.Fatalf("descriptor invariant violated: %v", err)
	}
	if len(descriptor.Videos["a.mp4"]) != 1 {
		t.Fatalf("want exactly one interval, got %+v", descriptor.Videos["a.mp4"])
	}

	const outputFloats = 8
	path := storage.JobItemOutputPath("job1", "a.mp4", 0, 1)
	f, err := backend.OpenRandomRead(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if f.Size() != int64(outputFloats*4) {
		t.Fatalf("output size = %d, want %d", f.Size(), outputFloats*4)
	}
}

func TestPipelineProfilerReportHasAllStages(t *testing.T) {
	plan, packets := buildTestPlan(t, 200, 96)
	p, _, _ := runPipeline(t, plan, packets, 96)

	report := p.ProfilerReport(1000, 5000)
	if len(report.Stages) != 4 {
		t.Fatalf("want 4 stages in profiler report, got %d", len(report.Stages))
	}
	// load, decode, evaluate, save workers: 1, 1, 1, 1 in this config.
	for i, stage := range report.Stages {
		if len(stage.Records) != 1 {
			t.Errorf("stage %d: want 1 worker record, got %d", i, len(stage.Records))
		}
	}
	if report.Stages[3].Records[0].ItemsProcessed != int64(plan.Len()) {
		t.Errorf("save stage processed %d items, want %d", report.Stages[3].Records[0].ItemsProcessed, plan.Len())
	}
}
