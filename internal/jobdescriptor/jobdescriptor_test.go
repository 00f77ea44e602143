package jobdescriptor

import (
	"context"
	"testing"

	"github.com/sridhargunnam/framefeatures/internal/storage/localfs"
	"github.com/sridhargunnam/framefeatures/internal/workplan"
)

func plan200And1() *workplan.Plan {
	videos := []workplan.DatasetItemMetadata{
		{Path: "a.mp4", Frames: 200, Width: 640, Height: 480, Codec: "h264", Chroma: "yuv420p",
			KeyframePositions: []int{0}, KeyframeByteOffsets: []int64{0}, FileSize: 1000},
		{Path: "b.mp4", Frames: 1, Width: 640, Height: 480, Codec: "h264", Chroma: "yuv420p",
			KeyframePositions: []int{0}, KeyframeByteOffsets: []int64{0}, FileSize: 1000},
	}
	plan, err := workplan.Build("ds", videos, 96)
	if err != nil {
		panic(err)
	}
	return plan
}

func TestValidatePartitionsCleanly(t *testing.T) {
	plan := plan200And1()
	d := New("ds")
	d.Add("a.mp4", 0, 96)
	d.Add("a.mp4", 96, 192)
	d.Add("a.mp4", 192, 200)
	d.Add("b.mp4", 0, 1)

	if err := d.Validate(plan, 96); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateDetectsGap(t *testing.T) {
	plan := plan200And1()
	d := New("ds")
	d.Add("a.mp4", 0, 96)
	d.Add("a.mp4", 192, 200) // missing [96,192)
	d.Add("b.mp4", 0, 1)

	if err := d.Validate(plan, 96); err == nil {
		t.Fatal("want error for gap")
	}
}

func TestValidateDetectsShortfall(t *testing.T) {
	plan := plan200And1()
	d := New("ds")
	d.Add("a.mp4", 0, 96)
	d.Add("a.mp4", 96, 192)
	d.Add("b.mp4", 0, 1)
	// a.mp4 missing [192,200)

	if err := d.Validate(plan, 96); err == nil {
		t.Fatal("want error for incomplete coverage")
	}
}

func TestWriteAndReadBack(t *testing.T) {
	root := t.TempDir()
	backend := localfs.New(root)
	d := New("ds")
	d.Add("a.mp4", 0, 96)

	if err := d.Write(context.Background(), backend, "job1"); err != nil {
		t.Fatal(err)
	}

	f, err := backend.OpenRandomRead(context.Background(), "jobs/job1/descriptor.json")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	buf := make([]byte, f.Size())
	n, result, err := f.Read(context.Background(), 0, len(buf), buf)
	if err != nil {
		t.Fatal(err)
	}
	if n == 0 {
		t.Fatal("expected non-empty descriptor file")
	}
	_ = result
}
