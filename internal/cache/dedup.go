package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = 72 * time.Hour

// DedupStore remembers provider message ids so redelivered webhooks do not
// append the same inbound message twice.
type DedupStore interface {
	// Seen marks the id and reports whether it had been marked before.
	Seen(ctx context.Context, providerMessageID string) (bool, error)

	// Forget releases a mark so a redelivery gets processed again. Callers
	// use it when the pipeline fails after Seen: the platform retries on a
	// non-2xx response, and that retry must not count as a duplicate.
	Forget(ctx context.Context, providerMessageID string) error
}

type redisDedupStore struct {
	client *redis.Client
	prefix string
}

func NewDedupStore(client *redis.Client) DedupStore {
	return &redisDedupStore{client: client, prefix: "inbound_msg:"}
}

func (s *redisDedupStore) Seen(ctx context.Context, providerMessageID string) (bool, error) {
	if providerMessageID == "" {
		// nothing to key on, let the message through
		return false, nil
	}
	set, err := s.client.SetNX(ctx, s.prefix+providerMessageID, 1, dedupTTL).Result()
	if err != nil {
		return false, err
	}
	return !set, nil
}

func (s *redisDedupStore) Forget(ctx context.Context, providerMessageID string) error {
	if providerMessageID == "" {
		return nil
	}
	return s.client.Del(ctx, s.prefix+providerMessageID).Err()
}
