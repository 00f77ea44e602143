package distribution

import (
	"context"
	"time"

	"github.com/sridhargunnam/framefeatures/internal/queue"
)

// Worker runs the remote-rank side of spec.md §4.7: while its local
// queue depth is below Threshold, it requests the next work-item
// index from the master and pushes it onto its own load queue; it
// exits on the master's sentinel response.
type Worker struct {
	Rank            int
	Threshold       int
	LocalQueueDepth func() int
	PushLocal       func(workItemIndex int)
	Channel         Channel
	Logger          Logger
}

func (w *Worker) Run(ctx context.Context) error {
	logger := w.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	for {
		if w.LocalQueueDepth() >= w.Threshold {
			select {
			case <-time.After(idlePoll):
				continue
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		idx, err := w.Channel.SendRequest(ctx, w.Rank)
		if err != nil {
			return err
		}
		if idx == queue.SentinelIndex {
			logger.Infof("distribution: rank %d received shutdown sentinel", w.Rank)
			return nil
		}
		w.PushLocal(idx)
	}
}
