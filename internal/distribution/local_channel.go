package distribution

import (
	"context"
	"sync"
	"time"
)

// pollInterval bounds how long LocalChannel.ReceiveRequest waits for
// a pending request before reporting ok=false, mirroring RedisChannel's
// receiveTimeout but without a real broker underneath.
const pollInterval = 5 * time.Millisecond

// LocalChannel is an in-process Channel for single-binary tests and
// single-node jobs with no remote workers: it moves ranks and
// work-item indices over Go channels instead of Redis, grounded on
// the same request/reply-list shape as RedisChannel so the master and
// worker loops are identical regardless of which Channel backs them.
type LocalChannel struct {
	requests chan int

	mu      sync.Mutex
	replies map[int]chan int
}

func NewLocalChannel() *LocalChannel {
	return &LocalChannel{
		requests: make(chan int, 256),
		replies:  make(map[int]chan int),
	}
}

func (c *LocalChannel) replyChan(rank int) chan int {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch, ok := c.replies[rank]
	if !ok {
		ch = make(chan int, 1)
		c.replies[rank] = ch
	}
	return ch
}

func (c *LocalChannel) SendRequest(ctx context.Context, rank int) (int, error) {
	select {
	case c.requests <- rank:
	case <-ctx.Done():
		return 0, ctx.Err()
	}
	select {
	case idx := <-c.replyChan(rank):
		return idx, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func (c *LocalChannel) ReceiveRequest(ctx context.Context) (int, bool, error) {
	select {
	case rank := <-c.requests:
		return rank, true, nil
	case <-time.After(pollInterval):
		return 0, false, nil
	case <-ctx.Done():
		return 0, false, ctx.Err()
	}
}

func (c *LocalChannel) SendResponse(ctx context.Context, rank, workItemIndex int) error {
	select {
	case c.replyChan(rank) <- workItemIndex:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
