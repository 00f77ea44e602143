package distribution

import (
	"context"
	"time"

	"github.com/sridhargunnam/framefeatures/internal/queue"
)

// idlePoll bounds how long the master sleeps when its own local queue
// is at threshold and there are no remote workers to hand work to
// (single-node jobs degrade to "master does everything").
const idlePoll = 5 * time.Millisecond

// Logger is the narrow logging surface Master and Worker need,
// mirroring internal/pipeline.Logger so this package stays independent
// of the control plane's concrete logger.
type Logger interface {
	Infof(template string, args ...interface{})
	Errorf(template string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Infof(string, ...interface{})  {}
func (noopLogger) Errorf(string, ...interface{}) {}

// Master runs the rank-0 side of spec.md §4.7: while work remains, it
// prefers filling its own local queue up to Threshold, and only then
// answers one remote worker's request. Once every index has been
// dispatched, it answers every remote worker with a sentinel exactly
// once, per spec.md §8 boundary scenario 4.
type Master struct {
	// TotalWorkItems is the work plan's length (workplan.Plan.Len()).
	TotalWorkItems int
	// NumWorkers is the number of remote worker ranks in the cluster
	// (cluster size minus 1). Zero for a single-node job.
	NumWorkers int
	// Threshold is T = GPUS_PER_NODE * TASKS_IN_QUEUE_PER_GPU.
	Threshold int
	// LocalQueueDepth returns load_queue + decode_queue + sum(eval_queue[g])
	// for this node (spec.md §4.7's `local`).
	LocalQueueDepth func() int
	// PushLocal enqueues a work-item index into this node's own load
	// queue (the master is also a worker of its own local pipeline).
	PushLocal func(workItemIndex int)
	Channel   Channel
	Logger    Logger
}

// Run drives the master loop to completion, returning once every
// remote worker has received exactly one sentinel response.
func (m *Master) Run(ctx context.Context) error {
	logger := m.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	next := 0
	for next < m.TotalWorkItems {
		if m.LocalQueueDepth() < m.Threshold {
			m.PushLocal(next)
			next++
			continue
		}
		if m.NumWorkers == 0 {
			select {
			case <-time.After(idlePoll):
				continue
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		rank, ok, err := m.Channel.ReceiveRequest(ctx)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := m.Channel.SendResponse(ctx, rank, next); err != nil {
			return err
		}
		logger.Infof("distribution: dispatched work item %d to rank %d", next, rank)
		next++
	}

	if m.NumWorkers == 0 {
		return nil
	}

	answered := make(map[int]bool, m.NumWorkers)
	for len(answered) < m.NumWorkers {
		rank, ok, err := m.Channel.ReceiveRequest(ctx)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := m.Channel.SendResponse(ctx, rank, queue.SentinelIndex); err != nil {
			return err
		}
		if !answered[rank] {
			answered[rank] = true
			logger.Infof("distribution: sent shutdown sentinel to rank %d", rank)
		}
	}
	return nil
}
