// Package distribution implements the cross-node master/worker work
// distribution coordinator of spec.md §4.7: the master hands out
// work-item indices, workers pull when their local queues run low,
// and a REQUEST/RESPONSE message pair carries the exchange over a
// pluggable Channel.
package distribution

import "context"

// Channel is the message-passing substrate spec.md §4.7/§6 assumes:
// a REQUEST message (worker -> master, an int32 rank, payload
// ignored) and a RESPONSE message (master -> worker, an int32
// work-item index or -1). Implementations must deliver each worker's
// response back to that same worker and no other.
type Channel interface {
	// SendRequest is called by a worker to ask for the next work item
	// and blocks until the master answers. Never called by the master.
	SendRequest(ctx context.Context, rank int) (workItemIndex int, err error)

	// ReceiveRequest is called by the master to look for one pending
	// worker request. ok is false if none arrived within the
	// implementation's polling interval; the master's loop retries
	// (spec.md §4.7: "if no request is pending, yield and retry").
	ReceiveRequest(ctx context.Context) (rank int, ok bool, err error)

	// SendResponse is called by the master to answer the request most
	// recently received from rank.
	SendResponse(ctx context.Context, rank int, workItemIndex int) error
}
