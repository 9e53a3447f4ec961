package chat

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// pendingQueueKey is the redis list holding the ids of chats waiting for an
// officer, newest at the head.
const pendingQueueKey = "chats:pending"

// Queue is the pending-chat queue officers claim work from.
type Queue interface {
	// Push enqueues a freshly created chat.
	Push(ctx context.Context, chatID string) error
	// Pop dequeues the oldest waiting chat id; empty string when the queue
	// is empty.
	Pop(ctx context.Context) (string, error)
	// Remove drops a chat from the queue after it was joined directly.
	Remove(ctx context.Context, chatID string) error
	// Len reports how many chats are waiting.
	Len(ctx context.Context) (int64, error)
}

// redisQueue implements Queue on a redis list.
type redisQueue struct {
	rdb *redis.Client
}

// NewRedisQueue creates a pending-chat queue backed by redis.
func NewRedisQueue(rdb *redis.Client) Queue {
	return &redisQueue{rdb: rdb}
}

func (q *redisQueue) Push(ctx context.Context, chatID string) error {
	return q.rdb.LPush(ctx, pendingQueueKey, chatID).Err()
}

func (q *redisQueue) Pop(ctx context.Context) (string, error) {
	id, err := q.rdb.RPop(ctx, pendingQueueKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (q *redisQueue) Remove(ctx context.Context, chatID string) error {
	return q.rdb.LRem(ctx, pendingQueueKey, 0, chatID).Err()
}

func (q *redisQueue) Len(ctx context.Context) (int64, error) {
	return q.rdb.LLen(ctx, pendingQueueKey).Result()
}
