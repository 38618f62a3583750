package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/minibank/pkg/domain"
	"github.com/amirasaad/minibank/pkg/idempotency"
	"github.com/redis/go-redis/v9"
)

// pendingMarker is stored under a key while its request is running.
const pendingMarker = "pending"

// RedisIdempotencyStore implements idempotency.Store using Redis.
type RedisIdempotencyStore struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// NewRedisIdempotencyStore creates a store from a redis:// URL.
func NewRedisIdempotencyStore(
	url string,
	prefix string,
	logger *slog.Logger,
) (*RedisIdempotencyStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return NewRedisIdempotencyStoreWithOptions(opt, prefix, logger), nil
}

// NewRedisIdempotencyStoreWithOptions creates a store from redis.Options.
func NewRedisIdempotencyStoreWithOptions(
	opt *redis.Options,
	prefix string,
	logger *slog.Logger,
) *RedisIdempotencyStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisIdempotencyStore{client: redis.NewClient(opt), prefix: prefix, logger: logger}
}

func (r *RedisIdempotencyStore) key(key string) string {
	return r.prefix + key
}

// Ping checks connectivity.
func (r *RedisIdempotencyStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return domain.Unavailable(err)
	}
	return nil
}

func (r *RedisIdempotencyStore) Reserve(
	ctx context.Context,
	key string,
	lockTTL time.Duration,
) (*idempotency.Record, error) {
	k := r.key(key)
	// a completed record can expire between SETNX and GET; one more round settles it
	for attempt := 0; attempt < 2; attempt++ {
		ok, err := r.client.SetNX(ctx, k, pendingMarker, lockTTL).Result()
		if err != nil {
			r.logger.Error("Redis idempotency reserve error", "key", key, "error", err)
			return nil, domain.Unavailable(err)
		}
		if ok {
			r.logger.Debug("Redis idempotency key reserved", "key", key, "ttl", lockTTL)
			return nil, nil
		}
		val, err := r.client.Get(ctx, k).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			r.logger.Error("Redis idempotency get error", "key", key, "error", err)
			return nil, domain.Unavailable(err)
		}
		if val == pendingMarker {
			return nil, idempotency.ErrInFlight
		}
		var rec idempotency.Record
		if err := json.Unmarshal([]byte(val), &rec); err != nil {
			r.logger.Error("Redis idempotency unmarshal error", "key", key, "error", err)
			return nil, err
		}
		r.logger.Debug("Redis idempotency hit", "key", key, "status", rec.Status)
		return &rec, nil
	}
	return nil, idempotency.ErrInFlight
}

func (r *RedisIdempotencyStore) Save(
	ctx context.Context,
	key string,
	rec *idempotency.Record,
	ttl time.Duration,
) error {
	data, err := json.Marshal(rec)
	if err != nil {
		r.logger.Error("Redis idempotency marshal error", "key", key, "error", err)
		return err
	}
	if err := r.client.Set(ctx, r.key(key), data, ttl).Err(); err != nil {
		r.logger.Error("Redis idempotency set error", "key", key, "error", err)
		return domain.Unavailable(err)
	}
	r.logger.Debug("Redis idempotency record saved", "key", key, "status", rec.Status, "ttl", ttl)
	return nil
}

// releaseScript deletes the key only while it still holds the pending marker.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func (r *RedisIdempotencyStore) Release(ctx context.Context, key string) error {
	if err := releaseScript.Run(ctx, r.client, []string{r.key(key)}, pendingMarker).Err(); err != nil {
		r.logger.Error("Redis idempotency release error", "key", key, "error", err)
		return domain.Unavailable(err)
	}
	r.logger.Debug("Redis idempotency key released", "key", key)
	return nil
}

func (r *RedisIdempotencyStore) Close() error {
	return r.client.Close()
}

var _ idempotency.Store = (*RedisIdempotencyStore)(nil)
