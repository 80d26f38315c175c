package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

const (
	defaultRedisTimeout = 2 * time.Second
	lockExpiry          = 5 * time.Second
)

// RedisStore keeps the best score in a Redis string key.
// Write never lowers the stored value.
type RedisStore struct {
	client  *redis.Client
	locker  *redsync.Redsync
	key     string
	timeout time.Duration
}

// NewRedisStore wraps an existing client. A zero timeout means two seconds per call.
func NewRedisStore(client *redis.Client, key string, timeout time.Duration) *RedisStore {
	if key == "" {
		key = DefaultKey
	}
	if timeout <= 0 {
		timeout = defaultRedisTimeout
	}
	return &RedisStore{
		client:  client,
		locker:  redsync.New(goredis.NewPool(client)),
		key:     key,
		timeout: timeout,
	}
}

// Read returns the stored score, 0 when the key is absent or empty.
func (rs *RedisStore) Read() (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), rs.timeout)
	defer cancel()
	return rs.read(ctx)
}

func (rs *RedisStore) read(ctx context.Context) (int, error) {
	val, err := rs.client.Get(ctx, rs.key).Result()
	if errors.Is(err, redis.Nil) || (err == nil && val == "") {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get %s: %w", rs.key, err)
	}
	score, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("redis key %s holds non-integer %q: %w", rs.key, val, err)
	}
	return score, nil
}

// Write stores score if it is higher than the current value.
func (rs *RedisStore) Write(score int) error {
	ctx, cancel := context.WithTimeout(context.Background(), rs.timeout)
	defer cancel()

	mutex := rs.locker.NewMutex(rs.key+":lock", redsync.WithExpiry(lockExpiry))
	if err := mutex.LockContext(ctx); err != nil {
		return fmt.Errorf("lock %s: %w", rs.key, err)
	}
	defer func() {
		_, _ = mutex.UnlockContext(ctx)
	}()

	current, err := rs.read(ctx)
	if err != nil {
		return err
	}
	if score <= current {
		return nil
	}
	if err := rs.client.Set(ctx, rs.key, score, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", rs.key, err)
	}
	return nil
}
