package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// LockoutService tracks failed login attempts in redis and locks an account
// once the configured threshold is reached. Keys expire on their own; an
// admin can clear them early via Unlock.
type LockoutService struct {
	Redis        *redis.Client
	Logger       *zap.Logger
	MaxAttempts  int
	LockDuration time.Duration
}

// NewLockoutService creates a new LockoutService.
func NewLockoutService(rdb *redis.Client, logger *zap.Logger, maxAttempts int, lockDuration time.Duration) *LockoutService {
	return &LockoutService{
		Redis:        rdb,
		Logger:       logger,
		MaxAttempts:  maxAttempts,
		LockDuration: lockDuration,
	}
}

func attemptsKey(email string) string {
	return fmt.Sprintf("login_attempts:%s", email)
}

func lockKey(email string) string {
	return fmt.Sprintf("account_locked:%s", email)
}

// IsLocked reports whether the account is currently locked out.
func (s *LockoutService) IsLocked(ctx context.Context, email string) (bool, error) {
	n, err := s.Redis.Exists(ctx, lockKey(email)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check lockout: %w", err)
	}
	return n > 0, nil
}

// RegisterFailure increments the failure counter and locks the account when
// the threshold is reached. It returns true when this failure triggered the
// lock.
func (s *LockoutService) RegisterFailure(ctx context.Context, email string) (bool, error) {
	key := attemptsKey(email)
	attempts, err := s.Redis.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to record login failure: %w", err)
	}
	// First failure starts the counting window
	if attempts == 1 {
		s.Redis.Expire(ctx, key, s.LockDuration)
	}

	if int(attempts) < s.MaxAttempts {
		return false, nil
	}

	if err := s.Redis.Set(ctx, lockKey(email), "1", s.LockDuration).Err(); err != nil {
		return false, fmt.Errorf("failed to lock account: %w", err)
	}
	s.Logger.Warn("account locked after repeated login failures",
		zap.String("email", email),
		zap.Int64("attempts", attempts))
	return true, nil
}

// ClearFailures resets the failure counter after a successful login.
func (s *LockoutService) ClearFailures(ctx context.Context, email string) error {
	return s.Redis.Del(ctx, attemptsKey(email)).Err()
}

// Unlock removes both the lock and the failure counter for an account.
func (s *LockoutService) Unlock(ctx context.Context, email string) error {
	if err := s.Redis.Del(ctx, lockKey(email), attemptsKey(email)).Err(); err != nil {
		return fmt.Errorf("failed to unlock account: %w", err)
	}
	s.Logger.Info("account unlocked", zap.String("email", email))
	return nil
}
