package profiler

import (
	"bytes"
	"testing"
)

func TestWriteReadRoundTrip(t *testing.T) {
	report := Report{
		StartNanos: 1000,
		EndNanos:   5000,
		Stages: []StageStats{
			{Records: []Record{{ItemsProcessed: 10, BusyNanos: 100}, {ItemsProcessed: 20, BusyNanos: 200}}},
			{Records: []Record{{ItemsProcessed: 1, BusyNanos: 5}}},
			{Records: []Record{{ItemsProcessed: 1, BusyNanos: 5}}},
			{Records: []Record{{ItemsProcessed: 30, BusyNanos: 300}}},
		},
	}

	var buf bytes.Buffer
	if err := Write(&buf, report); err != nil {
		t.Fatal(err)
	}

	got, err := Read(&buf, 4)
	if err != nil {
		t.Fatal(err)
	}
	if got.StartNanos != report.StartNanos || got.EndNanos != report.EndNanos {
		t.Fatalf("start/end mismatch: %+v", got)
	}
	if len(got.Stages) != 4 {
		t.Fatalf("want 4 stages, got %d", len(got.Stages))
	}
	if len(got.Stages[0].Records) != 2 || got.Stages[0].Records[1].ItemsProcessed != 20 {
		t.Fatalf("stage 0 mismatch: %+v", got.Stages[0])
	}
}

func TestRecorderAccumulates(t *testing.T) {
	var r Recorder
	r.Add(100)
	r.Add(200)
	rec := r.Record()
	if rec.ItemsProcessed != 2 || rec.BusyNanos != 300 {
		t.Fatalf("unexpected record: %+v", rec)
	}
}
