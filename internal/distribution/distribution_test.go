package distribution

import (
	"context"
	"sync"
	"testing"
	"time"
)

// TestMasterWorkerDispatchesEveryItemOnce exercises spec.md §8
// boundary scenario 4: a two-node cluster (master rank 0, one remote
// worker rank 1), 10 work items, threshold T=2. Every work item must
// be processed exactly once, and rank 1 must receive a sentinel
// before the master's Run returns.
func TestMasterWorkerDispatchesEveryItemOnce(t *testing.T) {
	const total = 10
	const threshold = 2

	ch := NewLocalChannel()

	var masterMu sync.Mutex
	masterLocal := make([]int, 0)
	masterDone := make([]int, 0)

	var workerMu sync.Mutex
	workerLocal := make([]int, 0)
	workerDone := make([]int, 0) // items the worker "processed" (drained from its local queue)

	master := &Master{
		TotalWorkItems: total,
		NumWorkers:     1,
		Threshold:      threshold,
		LocalQueueDepth: func() int {
			masterMu.Lock()
			defer masterMu.Unlock()
			return len(masterLocal)
		},
		PushLocal: func(idx int) {
			masterMu.Lock()
			masterLocal = append(masterLocal, idx)
			masterMu.Unlock()
		},
		Channel: ch,
	}

	worker := &Worker{
		Rank:      1,
		Threshold: threshold,
		LocalQueueDepth: func() int {
			workerMu.Lock()
			defer workerMu.Unlock()
			return len(workerLocal)
		},
		PushLocal: func(idx int) {
			workerMu.Lock()
			workerLocal = append(workerLocal, idx)
			workerMu.Unlock()
		},
		Channel: ch,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Both sides "drain" their local queue continuously, simulating
	// the local pipeline consuming pushed work items, so LocalQueueDepth
	// doesn't stay pinned at threshold forever.
	drainCtx, drainCancel := context.WithCancel(ctx)
	defer drainCancel()
	go drain(drainCtx, &masterMu, &masterLocal, &masterDone)
	go drain(drainCtx, &workerMu, &workerLocal, &workerDone)

	var wg sync.WaitGroup
	var masterErr, workerErr error
	wg.Add(2)
	go func() { defer wg.Done(); masterErr = master.Run(ctx) }()
	go func() { defer wg.Done(); workerErr = worker.Run(ctx) }()
	wg.Wait()
	drainCancel()

	if masterErr != nil {
		t.Fatalf("master.Run: %v", masterErr)
	}
	if workerErr != nil {
		t.Fatalf("worker.Run: %v", workerErr)
	}

	masterMu.Lock()
	seen := append([]int(nil), masterLocal...)
	seen = append(seen, masterDone...)
	masterMu.Unlock()
	workerMu.Lock()
	seen = append(seen, workerLocal...)
	seen = append(seen, workerDone...)
	workerMu.Unlock()

	counts := make(map[int]int)
	for _, idx := range seen {
		counts[idx]++
	}
	for i := 0; i < total; i++ {
		if counts[i] != 1 {
			t.Errorf("work item %d dispatched %d times, want 1", i, counts[i])
		}
	}
}

// drain pops items off *local (protected by mu) as soon as they
// appear, optionally recording them into done, simulating the local
// pipeline's load queue being consumed.
func drain(ctx context.Context, mu *sync.Mutex, local *[]int, done *[]int) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		mu.Lock()
		if len(*local) > 0 {
			idx := (*local)[0]
			*local = (*local)[1:]
			if done != nil {
				*done = append(*done, idx)
			}
		}
		mu.Unlock()
		time.Sleep(time.Millisecond)
	}
}

func TestSingleNodeMasterHasNoRemoteWorkers(t *testing.T) {
	const total = 5
	ch := NewLocalChannel()

	var mu sync.Mutex
	var local []int
	master := &Master{
		TotalWorkItems: total,
		NumWorkers:     0,
		Threshold:      1000, // never triggers the remote-request path
		LocalQueueDepth: func() int {
			mu.Lock()
			defer mu.Unlock()
			return len(local)
		},
		PushLocal: func(idx int) {
			mu.Lock()
			local = append(local, idx)
			mu.Unlock()
		},
		Channel: ch,
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := master.Run(ctx); err != nil {
		t.Fatal(err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(local) != total {
		t.Fatalf("want %d items pushed locally, got %d", total, len(local))
	}
	for i := 0; i < total; i++ {
		if local[i] != i {
			t.Fatalf("want items pushed in order, got %v", local)
		}
	}
}
