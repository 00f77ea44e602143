package distribution

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisChannel implements Channel over go-redis, the teacher's own
// cross-process queuing library (internal/videofiles/repository's
// BLPop/LPush pattern), giving spec.md §4.7's REQUEST/RESPONSE pair a
// concrete reliable-ordered-channel implementation per spec.md §9's
// "single request/response pair on a reliable ordered channel" note.
//
// REQUEST is a rank pushed onto a per-job request list; RESPONSE is a
// work-item index pushed onto a per-job-per-rank reply list. Both
// sides block with BRPOP, matching the teacher's blocking-pop job
// queue idiom.
type RedisChannel struct {
	client         *redis.Client
	job            string
	receiveTimeout time.Duration
}

// NewRedisChannel constructs a Channel for job over client. receiveTimeout
// bounds how long the master's ReceiveRequest blocks before reporting
// ok=false so it can recheck its local queue-depth bias.
func NewRedisChannel(client *redis.Client, job string, receiveTimeout time.Duration) *RedisChannel {
	return &RedisChannel{client: client, job: job, receiveTimeout: receiveTimeout}
}

func (c *RedisChannel) requestsKey() string {
	return "dist:" + c.job + ":requests"
}

func (c *RedisChannel) replyKey(rank int) string {
	return "dist:" + c.job + ":reply:" + strconv.Itoa(rank)
}

func (c *RedisChannel) SendRequest(ctx context.Context, rank int) (int, error) {
	if err := c.client.LPush(ctx, c.requestsKey(), rank).Err(); err != nil {
		return 0, fmt.Errorf("redis channel: push request for rank %d: %w", rank, err)
	}
	res, err := c.client.BRPop(ctx, 0, c.replyKey(rank)).Result()
	if err != nil {
		return 0, fmt.Errorf("redis channel: await response for rank %d: %w", rank, err)
	}
	// BRPop returns [key, value].
	idx, err := strconv.Atoi(res[1])
	if err != nil {
		return 0, fmt.Errorf("redis channel: malformed response for rank %d: %w", rank, err)
	}
	return idx, nil
}

func (c *RedisChannel) ReceiveRequest(ctx context.Context) (int, bool, error) {
	res, err := c.client.BRPop(ctx, c.receiveTimeout, c.requestsKey()).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("redis channel: receive request: %w", err)
	}
	rank, err := strconv.Atoi(res[1])
	if err != nil {
		return 0, false, fmt.Errorf("redis channel: malformed request: %w", err)
	}
	return rank, true, nil
}

func (c *RedisChannel) SendResponse(ctx context.Context, rank, workItemIndex int) error {
	if err := c.client.LPush(ctx, c.replyKey(rank), workItemIndex).Err(); err != nil {
		return fmt.Errorf("redis channel: send response to rank %d: %w", rank, err)
	}
	return nil
}
