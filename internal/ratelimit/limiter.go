// Package ratelimit throttles abuse-prone endpoints with redis counters.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hirely-app/hirely-api/internal/config"
)

const defaultPurpose = "password_reset"

// Limiter counts requests per IP in a fixed window, enforces a cooldown
// between password reset mails for the same address and caps wrong reset
// codes per address.
type Limiter struct {
	client             *redis.Client
	maxRequests        int
	window             time.Duration
	emailCooldown      time.Duration
	maxResetFailures   int
	resetFailureWindow time.Duration
}

func NewLimiter(client *redis.Client, cfg config.RateLimitConfig) *Limiter {
	return &Limiter{
		client:        client,
		maxRequests:   cfg.MaxRequests,
		window:        cfg.Window,
		emailCooldown: cfg.EmailCooldown,

		maxResetFailures:   cfg.MaxResetFailures,
		resetFailureWindow: cfg.ResetFailureWindow,
	}
}

// CheckIPRateLimitWithPurpose reports whether ip has used up its window for purpose.
func (l *Limiter) CheckIPRateLimitWithPurpose(ctx context.Context, ip, purpose string) (bool, error) {
	count, err := l.client.Get(ctx, ipKey(ip, purpose)).Int()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read rate limit counter: %w", err)
	}

	return count >= l.maxRequests, nil
}

// RecordIPRequestWithPurpose counts one request. The window starts with the
// first request and is not extended by later ones.
func (l *Limiter) RecordIPRequestWithPurpose(ctx context.Context, ip, purpose string) error {
	key := ipKey(ip, purpose)

	pipe := l.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record request: %w", err)
	}

	return nil
}

func (l *Limiter) CheckIPRateLimit(ctx context.Context, ip string) (bool, error) {
	return l.CheckIPRateLimitWithPurpose(ctx, ip, defaultPurpose)
}

func (l *Limiter) RecordIPRequest(ctx context.Context, ip string) error {
	return l.RecordIPRequestWithPurpose(ctx, ip, defaultPurpose)
}

// CheckEmailCooldown reports whether a reset mail was sent to email recently.
func (l *Limiter) CheckEmailCooldown(ctx context.Context, email string) (bool, error) {
	n, err := l.client.Exists(ctx, emailKey(email)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check email cooldown: %w", err)
	}

	return n > 0, nil
}

func (l *Limiter) SetEmailCooldown(ctx context.Context, email string) error {
	if err := l.client.Set(ctx, emailKey(email), 1, l.emailCooldown).Err(); err != nil {
		return fmt.Errorf("failed to set email cooldown: %w", err)
	}

	return nil
}

// ResetFailuresExceeded reports whether email has used up its wrong code allowance.
func (l *Limiter) ResetFailuresExceeded(ctx context.Context, email string) (bool, error) {
	count, err := l.client.Get(ctx, resetFailuresKey(email)).Int()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read reset failure counter: %w", err)
	}

	return count >= l.maxResetFailures, nil
}

// RecordResetFailure counts one wrong code for email and reports whether the
// allowance is now used up. Like the IP window, the first failure starts it.
func (l *Limiter) RecordResetFailure(ctx context.Context, email string) (bool, error) {
	key := resetFailuresKey(email)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, l.resetFailureWindow)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to record reset failure: %w", err)
	}

	return incr.Val() >= int64(l.maxResetFailures), nil
}

func (l *Limiter) ClearResetFailures(ctx context.Context, email string) error {
	if err := l.client.Del(ctx, resetFailuresKey(email)).Err(); err != nil {
		return fmt.Errorf("failed to clear reset failures: %w", err)
	}

	return nil
}

func ipKey(ip, purpose string) string {
	return fmt.Sprintf("ratelimit:%s:ip:%s", purpose, ip)
}

func emailKey(email string) string {
	return fmt.Sprintf("ratelimit:email_cooldown:%s", normalizeEmail(email))
}

func resetFailuresKey(email string) string {
	return fmt.Sprintf("ratelimit:reset_failures:%s", normalizeEmail(email))
}

// normalizeEmail matches user.NormalizeEmail; the user package is not
// imported here to keep ratelimit free of domain packages.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
