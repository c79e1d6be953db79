package aiusage

import (
	"context"
	"time"
)

type Counter interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// Service orchestrates AI token-usage logic.
type Service struct {
	counter Counter
	limit   int
	now     func() time.Time
}

// NewService creates a Service granting limit tokens per caller per month.
// A nil counter disables the quota.
func NewService(counter Counter, limit int) *Service {
	return &Service{counter: counter, limit: limit, now: time.Now}
}

// UseToken deducts one token from the caller's monthly allowance and returns
// what is left. Returns ErrInsufficientTokens when the quota for the current
// month is exhausted.
func (s *Service) UseToken(ctx context.Context, caller string) (int, error) {
	if s == nil || s.counter == nil {
		return Unlimited, nil
	}

	n, err := s.counter.Incr(ctx, usageKey(caller, s.now()), usageTTL)
	if err != nil {
		return 0, err
	}
	if n > int64(s.limit) {
		return 0, ErrInsufficientTokens
	}
	return s.limit - int(n), nil
}

func usageKey(caller string, at time.Time) string {
	return "aiusage:" + caller + ":" + at.UTC().Format("2006-01")
}
