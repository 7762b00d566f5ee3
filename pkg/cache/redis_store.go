package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"literati/internal/json"
)

const (
	redisEntryPrefix = "literati:cache:entry:"
	redisIndexKey    = "literati:cache:index"
)

// RedisStore is a Store backed by a shared Redis instance, for deployments
// where several processes should see one cache instead of per-process
// files. Write times are tracked in a sorted set so SweepOlderThan works
// without filesystem metadata.
type RedisStore struct {
	rdb *redis.Client
	now func() time.Time
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(addr, password string) (*RedisStore, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis addr is required")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, &IOError{Op: "connect", Err: err}
	}
	return &RedisStore{rdb: rdb, now: time.Now}, nil
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func redisEntryKey(cat Category, key string) string {
	return redisEntryPrefix + entryName(cat, key)
}

func (s *RedisStore) Put(ctx context.Context, cat Category, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return &IOError{Op: "encode", Err: err}
	}
	entryKey := redisEntryKey(cat, key)
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, entryKey, data, 0)
	pipe.ZAdd(ctx, redisIndexKey, redis.Z{Score: float64(s.now().UnixNano()), Member: entryKey})
	if _, err := pipe.Exec(ctx); err != nil {
		return &IOError{Op: "write", Err: err}
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, cat Category, key string, out any) (bool, error) {
	data, err := s.rdb.Get(ctx, redisEntryKey(cat, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, &IOError{Op: "read", Err: err}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, &IOError{Op: "decode", Err: err}
	}
	return true, nil
}

func (s *RedisStore) Remove(ctx context.Context, cat Category, key string) error {
	entryKey := redisEntryKey(cat, key)
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, entryKey)
	pipe.ZRem(ctx, redisIndexKey, entryKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return &IOError{Op: "remove", Err: err}
	}
	return nil
}

func (s *RedisStore) ClearAll(ctx context.Context) error {
	keys, err := s.entryKeys(ctx)
	if err != nil {
		return err
	}
	pipe := s.rdb.TxPipeline()
	if len(keys) > 0 {
		pipe.Del(ctx, keys...)
	}
	pipe.Del(ctx, redisIndexKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return &IOError{Op: "clear", Err: err}
	}
	return nil
}

func (s *RedisStore) SizeBytes(ctx context.Context) (int64, error) {
	keys, err := s.entryKeys(ctx)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, key := range keys {
		n, err := s.rdb.StrLen(ctx, key).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return 0, &IOError{Op: "size", Err: err}
		}
		total += n
	}
	return total, nil
}

func (s *RedisStore) EntryCount(ctx context.Context) (int, error) {
	keys, err := s.entryKeys(ctx)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

func (s *RedisStore) SweepOlderThan(ctx context.Context, age time.Duration) (int, error) {
	cutoff := s.now().Add(-age).UnixNano()
	stale, err := s.rdb.ZRangeByScore(ctx, redisIndexKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: fmt.Sprintf("%d", cutoff),
	}).Result()
	if err != nil {
		return 0, &IOError{Op: "sweep", Err: err}
	}
	if len(stale) == 0 {
		return 0, nil
	}
	members := make([]any, len(stale))
	for i, key := range stale {
		members[i] = key
	}
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, stale...)
	pipe.ZRem(ctx, redisIndexKey, members...)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, &IOError{Op: "sweep", Err: err}
	}
	return len(stale), nil
}

func (s *RedisStore) entryKeys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := s.rdb.Scan(ctx, 0, redisEntryPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, &IOError{Op: "scan", Err: err}
	}
	return keys, nil
}
