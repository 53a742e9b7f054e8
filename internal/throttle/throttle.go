package throttle

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/zonetrack/apiserver/config"
)

// ErrLocked is returned while a key is locked out.
var ErrLocked = errors.New("too many failed attempts")

// Counter is the key/value subset the limiter needs.
type Counter interface {
	Get(ctx context.Context, key string) (string, error)
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// LoginLimiter locks a login for a while after repeated failures.
type LoginLimiter struct {
	counter     Counter
	maxAttempts int
	lockout     time.Duration
}

// NewLoginLimiter returns a limiter; a nil counter disables throttling.
func NewLoginLimiter(counter Counter, maxAttempts int, lockout time.Duration) *LoginLimiter {
	return &LoginLimiter{counter: counter, maxAttempts: maxAttempts, lockout: lockout}
}

// NewFromConfig connects to Redis when an address is configured.
func NewFromConfig(ctx context.Context, redisCfg config.RedisConfig, authCfg config.AuthConfig) (*LoginLimiter, func() error, error) {
	if strings.TrimSpace(redisCfg.Address) == "" {
		return NewLoginLimiter(nil, authCfg.MaxLoginAttempts, authCfg.LockoutDuration), func() error { return nil }, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     redisCfg.Address,
		Password: redisCfg.Password,
		DB:       redisCfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewLoginLimiter(NewRedisCounter(client), authCfg.MaxLoginAttempts, authCfg.LockoutDuration), client.Close, nil
}

func attemptsKey(login string) string {
	return "login_attempts:" + strings.ToLower(strings.TrimSpace(login))
}

// Check returns ErrLocked when login has used up its attempts.
func (l *LoginLimiter) Check(ctx context.Context, login string) error {
	if l.counter == nil || l.maxAttempts <= 0 {
		return nil
	}
	raw, err := l.counter.Get(ctx, attemptsKey(login))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return err
	}
	attempts, _ := strconv.Atoi(raw)
	if attempts >= l.maxAttempts {
		return ErrLocked
	}
	return nil
}

// Fail records a failed attempt. The counter expires after the lockout.
func (l *LoginLimiter) Fail(ctx context.Context, login string) error {
	if l.counter == nil || l.maxAttempts <= 0 {
		return nil
	}
	key := attemptsKey(login)
	if _, err := l.counter.Incr(ctx, key); err != nil {
		return err
	}
	return l.counter.Expire(ctx, key, l.lockout)
}

// Reset clears the failures of login after a successful attempt.
func (l *LoginLimiter) Reset(ctx context.Context, login string) error {
	if l.counter == nil {
		return nil
	}
	return l.counter.Del(ctx, attemptsKey(login))
}

// Lockout is the time a locked login has to wait.
func (l *LoginLimiter) Lockout() time.Duration {
	return l.lockout
}

// RedisCounter adapts a go-redis client to Counter.
type RedisCounter struct {
	client *redis.Client
}

func NewRedisCounter(client *redis.Client) *RedisCounter {
	return &RedisCounter{client: client}
}

func (r *RedisCounter) Get(ctx context.Context, key string) (string, error) {
	return r.client.Get(ctx, key).Result()
}

func (r *RedisCounter) Incr(ctx context.Context, key string) (int64, error) {
	return r.client.Incr(ctx, key).Result()
}

func (r *RedisCounter) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return r.client.Expire(ctx, key, ttl).Err()
}

func (r *RedisCounter) Del(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
