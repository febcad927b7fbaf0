package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/seyniss/business-backend/internal/config"
)

// LockoutService tracks failed login attempts per email in redis. After
// MaxFailures consecutive failures the account is locked for the configured
// duration. A nil redis client disables lockout tracking entirely.
type LockoutService struct {
	client *redis.Client
	config config.LockoutConfig
	logger *logrus.Logger
}

// NewLockoutService creates a new LockoutService
func NewLockoutService(client *redis.Client, cfg config.LockoutConfig, logger *logrus.Logger) *LockoutService {
	return &LockoutService{client: client, config: cfg, logger: logger}
}

func lockoutKey(email string) string {
	return fmt.Sprintf("login_failures:%s", email)
}

// IsLocked reports whether the account has exhausted its failure budget
func (s *LockoutService) IsLocked(ctx context.Context, email string) (bool, error) {
	if s.client == nil {
		return false, nil
	}

	count, err := s.client.Get(ctx, lockoutKey(email)).Int()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		// Fail open: a degraded redis should not block every login.
		s.logger.WithError(err).Warn("Lockout check failed, allowing attempt")
		return false, nil
	}
	return count >= s.config.MaxFailures, nil
}

// RecordFailure increments the failure counter and resets its expiry, so the
// lock window slides with the most recent failed attempt.
func (s *LockoutService) RecordFailure(ctx context.Context, email string) error {
	if s.client == nil {
		return nil
	}

	key := lockoutKey(email)
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to record login failure: %w", err)
	}
	if err := s.client.Expire(ctx, key, s.config.Duration).Err(); err != nil {
		return fmt.Errorf("failed to set lockout expiry: %w", err)
	}

	if int(count) >= s.config.MaxFailures {
		s.logger.WithFields(logrus.Fields{
			"email":    email,
			"failures": count,
			"duration": s.config.Duration.String(),
		}).Warn("Account locked after repeated login failures")
	}
	return nil
}

// Reset clears the failure counter after a successful login
func (s *LockoutService) Reset(ctx context.Context, email string) error {
	if s.client == nil {
		return nil
	}
	return s.client.Del(ctx, lockoutKey(email)).Err()
}

// RemainingLockTime returns how long the account stays locked, or zero when
// it is not locked.
func (s *LockoutService) RemainingLockTime(ctx context.Context, email string) time.Duration {
	if s.client == nil {
		return 0
	}
	ttl, err := s.client.TTL(ctx, lockoutKey(email)).Result()
	if err != nil || ttl < 0 {
		return 0
	}
	return ttl
}
