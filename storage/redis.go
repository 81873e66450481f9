package storage

import (
	"context"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"board-api/domain"
)

// RedisSlot persists the state blob under a single Redis key.
type RedisSlot struct {
	client *redis.Client
	key    string
	logger *log.Logger
}

// NewRedisSlot creates a Redis-backed slot. An empty key selects
// DefaultKey.
func NewRedisSlot(client *redis.Client, key string, logger *log.Logger) *RedisSlot {
	if client == nil {
		panic("storage.NewRedisSlot: client is nil")
	}
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = log.New()
	}
	return &RedisSlot{client: client, key: key, logger: logger}
}

func (r *RedisSlot) Load(ctx context.Context) (domain.State, bool) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.logger.WithError(err).WithField("key", r.key).Warn("state load failed, falling back to defaults")
		}
		return domain.State{}, false
	}
	st, ok := decodeState(data)
	if !ok {
		r.logger.WithField("key", r.key).Warn("state blob malformed, falling back to defaults")
	}
	return st, ok
}

func (r *RedisSlot) Save(ctx context.Context, state domain.State) error {
	data, err := encodeState(state)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key, data, 0).Err()
}
