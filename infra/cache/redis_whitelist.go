package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/saveblue/saveblue/pkg/config"
	"github.com/saveblue/saveblue/pkg/repository"
)

// RedisWhitelist keeps session tokens as Redis keys that expire on their own.
// Each user also has a set of their token keys so RemoveByUser does not scan.
type RedisWhitelist struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisWhitelist creates a whitelist on client. ttl should match the token lifetime.
func NewRedisWhitelist(client *redis.Client, prefix string, ttl time.Duration, logger *slog.Logger) *RedisWhitelist {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisWhitelist{client: client, prefix: prefix, ttl: ttl, logger: logger.With("whitelist", "redis")}
}

// NewRedisClient builds a client from cfg and pings the server.
func NewRedisClient(ctx context.Context, cfg *config.Redis) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	if cfg.PoolSize > 0 {
		opt.PoolSize = cfg.PoolSize
	}
	opt.DialTimeout = cfg.DialTimeout
	opt.ReadTimeout = cfg.ReadTimeout
	opt.WriteTimeout = cfg.WriteTimeout
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

func (r *RedisWhitelist) tokenKey(token string) string {
	return r.prefix + "token:" + token
}

func (r *RedisWhitelist) userKey(userID uuid.UUID) string {
	return r.prefix + "user:" + userID.String()
}

func (r *RedisWhitelist) Add(ctx context.Context, token string, userID uuid.UUID, issuedAt time.Time) error {
	ttl := r.ttl - time.Since(issuedAt)
	if ttl <= 0 {
		return nil
	}
	key := r.tokenKey(token)
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, userID.String(), ttl)
	pipe.SAdd(ctx, r.userKey(userID), key)
	pipe.Expire(ctx, r.userKey(userID), r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("whitelist add failed", "error", err)
		return err
	}
	return nil
}

func (r *RedisWhitelist) Exists(ctx context.Context, token string) (bool, error) {
	n, err := r.client.Exists(ctx, r.tokenKey(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *RedisWhitelist) Remove(ctx context.Context, token string) error {
	key := r.tokenKey(token)
	owner, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.SRem(ctx, r.prefix+"user:"+owner, key)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *RedisWhitelist) RemoveByUser(ctx context.Context, userID uuid.UUID) error {
	setKey := r.userKey(userID)
	keys, err := r.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return err
	}
	return r.client.Del(ctx, append(keys, setKey)...).Err()
}

// Sweep is a no-op: Redis expires token keys itself.
func (r *RedisWhitelist) Sweep(context.Context, time.Time) (int64, error) {
	return 0, nil
}

// Close releases the underlying client.
func (r *RedisWhitelist) Close() error {
	return r.client.Close()
}

var _ repository.TokenStore = (*RedisWhitelist)(nil)
