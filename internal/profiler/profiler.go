// Package profiler implements spec.md §6's per-rank profiler output:
// i64 start_ns, i64 end_ns, then for each stage a u8 worker_count
// followed by that many per-worker records.
package profiler

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync/atomic"
)

// Record is one worker's summary for a stage: how many entries it
// processed and how much wall-clock time it spent actively processing
// them (as opposed to blocked in Pop waiting for work).
type Record struct {
	ItemsProcessed int64
	BusyNanos      int64
}

// Recorder accumulates one worker's Record across the life of a job.
// Safe for concurrent use, though in practice exactly one stage
// worker goroutine owns each Recorder.
type Recorder struct {
	items int64
	busy  int64
}

// Add records that one entry finished processing after busyNanos
// nanoseconds.
func (r *Recorder) Add(busyNanos int64) {
	atomic.AddInt64(&r.items, 1)
	atomic.AddInt64(&r.busy, busyNanos)
}

// Record returns a snapshot of this recorder's counters.
func (r *Recorder) Record() Record {
	return Record{
		ItemsProcessed: atomic.LoadInt64(&r.items),
		BusyNanos:      atomic.LoadInt64(&r.busy),
	}
}

// StageStats is one stage's records, one per worker, in the order
// spec.md §5 spawns them (e.g. load worker 0..LOAD_WORKERS_PER_NODE-1).
type StageStats struct {
	Records []Record
}

// Report is the full per-rank profiler payload, per spec.md §6.
// Stages must appear in pipeline order: load, decode, evaluate, save.
type Report struct {
	StartNanos int64
	EndNanos   int64
	Stages     []StageStats
}

// Write serializes r in the binary layout spec.md §6 names.
func Write(w io.Writer, r Report) error {
	if err := binary.Write(w, binary.LittleEndian, r.StartNanos); err != nil {
		return fmt.Errorf("write start_ns: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, r.EndNanos); err != nil {
		return fmt.Errorf("write end_ns: %w", err)
	}
	for si, stage := range r.Stages {
		if len(stage.Records) > 255 {
			return fmt.Errorf("stage %d: worker_count %d exceeds u8 range", si, len(stage.Records))
		}
		if err := binary.Write(w, binary.LittleEndian, uint8(len(stage.Records))); err != nil {
			return fmt.Errorf("stage %d: write worker_count: %w", si, err)
		}
		for wi, rec := range stage.Records {
			if err := binary.Write(w, binary.LittleEndian, rec.ItemsProcessed); err != nil {
				return fmt.Errorf("stage %d worker %d: write items_processed: %w", si, wi, err)
			}
			if err := binary.Write(w, binary.LittleEndian, rec.BusyNanos); err != nil {
				return fmt.Errorf("stage %d worker %d: write busy_ns: %w", si, wi, err)
			}
		}
	}
	return nil
}

// Read parses a Report with numStages stages from r, the inverse of
// Write. Callers must know numStages ahead of time (the binary format
// carries no stage count, only per-stage worker counts) since it is
// fixed by the pipeline shape (load, decode, evaluate, save).
func Read(r io.Reader, numStages int) (Report, error) {
	var report Report
	if err := binary.Read(r, binary.LittleEndian, &report.StartNanos); err != nil {
		return Report{}, fmt.Errorf("read start_ns: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &report.EndNanos); err != nil {
		return Report{}, fmt.Errorf("read end_ns: %w", err)
	}
	report.Stages = make([]StageStats, numStages)
	for si := 0; si < numStages; si++ {
		var workerCount uint8
		if err := binary.Read(r, binary.LittleEndian, &workerCount); err != nil {
			return Report{}, fmt.Errorf("stage %d: read worker_count: %w", si, err)
		}
		records := make([]Record, workerCount)
		for wi := range records {
			if err := binary.Read(r, binary.LittleEndian, &records[wi].ItemsProcessed); err != nil {
				return Report{}, fmt.Errorf("stage %d worker %d: read items_processed: %w", si, wi, err)
			}
			if err := binary.Read(r, binary.LittleEndian, &records[wi].BusyNanos); err != nil {
				return Report{}, fmt.Errorf("stage %d worker %d: read busy_ns: %w", si, wi, err)
			}
		}
		report.Stages[si] = StageStats{Records: records}
	}
	return report, nil
}
