package cache

import (
	"context"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/moleculab/chemalyzer/internal/config"
	"github.com/moleculab/chemalyzer/internal/infrastructure/monitoring/logging"
	apperrors "github.com/moleculab/chemalyzer/pkg/errors"
)

// DefaultKeyPrefix namespaces engine entries in a shared Redis.
const DefaultKeyPrefix = "chemalyzer:"

type redisStore struct {
	rdb        redis.UniversalClient
	prefix     string
	ttl        time.Duration
	serializer Serializer
	log        logging.Logger
}

// NewRedis builds a Redis-backed store.  The connection is established
// lazily; use Ping to verify reachability at startup.
func NewRedis(cfg config.RedisConfig, ttl time.Duration, log logging.Logger) Store {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
	return newRedisStore(rdb, cfg.KeyPrefix, ttl, log)
}

func newRedisStore(rdb redis.UniversalClient, prefix string, ttl time.Duration, log logging.Logger) Store {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &redisStore{
		rdb:        rdb,
		prefix:     prefix,
		ttl:        ttl,
		serializer: jsonSerializer{},
		log:        log.Named("cache"),
	}
}

func (s *redisStore) fullKey(key string) string { return s.prefix + key }

// jitterTTL spreads expiry by up to ten percent either way so entries
// written together do not all expire together.
func (s *redisStore) jitterTTL() time.Duration {
	if s.ttl == 0 {
		return 0
	}
	jitter := float64(s.ttl) * 0.1 * (rand.Float64()*2 - 1)
	return s.ttl + time.Duration(jitter)
}

func (s *redisStore) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := s.rdb.Get(ctx, s.fullKey(key)).Bytes()
	if err == redis.Nil {
		return ErrCacheMiss
	}
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeCacheError, "cache get failed")
	}
	return s.serializer.Unmarshal(data, dest)
}

func (s *redisStore) Set(ctx context.Context, key string, value interface{}) error {
	data, err := s.serializer.Marshal(value)
	if err != nil {
		return ErrSerializationFailed
	}
	if err := s.rdb.Set(ctx, s.fullKey(key), data, s.jitterTTL()).Err(); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeCacheError, "cache set failed")
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	fullKeys := make([]string, len(keys))
	for i, k := range keys {
		fullKeys[i] = s.fullKey(k)
	}
	if err := s.rdb.Del(ctx, fullKeys...).Err(); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeCacheError, "cache delete failed")
	}
	return nil
}

func (s *redisStore) Ping(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeServiceUnavailable, "cache unreachable")
	}
	return nil
}

func (s *redisStore) Close() error { return s.rdb.Close() }
