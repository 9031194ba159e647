// Package cache holds redis-backed helpers shared by the services.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/LeeCh0129/greenie-backend/internal/domain"
)

// OTPThrottle limits how often a code can be issued for the same email and purpose
type OTPThrottle interface {
	Allow(ctx context.Context, email string, purpose domain.OTPPurpose) error
	Release(ctx context.Context, email string, purpose domain.OTPPurpose) error
}

// RedisOTPThrottle enforces a cooldown per (email, purpose) with SET NX EX
type RedisOTPThrottle struct {
	client   *redis.Client
	cooldown time.Duration
}

// NewRedisOTPThrottle creates a throttle backed by client
func NewRedisOTPThrottle(client *redis.Client, cooldown time.Duration) *RedisOTPThrottle {
	return &RedisOTPThrottle{client: client, cooldown: cooldown}
}

// Allow claims the cooldown slot, returning RateLimitedError while a previous claim is live
func (t *RedisOTPThrottle) Allow(ctx context.Context, email string, purpose domain.OTPPurpose) error {
	ok, err := t.client.SetNX(ctx, otpKey(email, purpose), 1, t.cooldown).Result()
	if err != nil {
		return &domain.InternalError{Message: "failed to check otp throttle", Err: err}
	}
	if !ok {
		return &domain.RateLimitedError{Message: fmt.Sprintf("wait %s before requesting another code", t.cooldown)}
	}
	return nil
}

// Release gives the cooldown slot back, for when no code was issued after Allow
func (t *RedisOTPThrottle) Release(ctx context.Context, email string, purpose domain.OTPPurpose) error {
	if err := t.client.Del(ctx, otpKey(email, purpose)).Err(); err != nil {
		return fmt.Errorf("release otp throttle: %w", err)
	}
	return nil
}

// NoopOTPThrottle allows every request; used when no redis is configured
type NoopOTPThrottle struct{}

// Allow always succeeds
func (NoopOTPThrottle) Allow(context.Context, string, domain.OTPPurpose) error {
	return nil
}

// Release does nothing
func (NoopOTPThrottle) Release(context.Context, string, domain.OTPPurpose) error {
	return nil
}

// NewRedisClient parses a redis URL and verifies the server is reachable
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func otpKey(email string, purpose domain.OTPPurpose) string {
	return fmt.Sprintf("otp:cooldown:%s:%s", purpose, email)
}

var (
	_ OTPThrottle = (*RedisOTPThrottle)(nil)
	_ OTPThrottle = NoopOTPThrottle{}
)
