// README: AI-usage module tests (monthly rollover and quota boundary logic).
package aiusage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func setupTestService(t *testing.T, limit int) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	svc := NewService(NewStore(rdb), limit)
	svc.now = func() time.Time { return time.Date(2025, 5, 14, 10, 0, 0, 0, time.UTC) }
	return svc, mr
}

// TestUseTokenNewCaller verifies that the first call starts the counter and sets its expiry.
func TestUseTokenNewCaller(t *testing.T) {
	svc, mr := setupTestService(t, DefaultTokens)

	left, err := svc.UseToken(context.Background(), "uid-1")
	require.NoError(t, err)
	require.Equal(t, DefaultTokens-1, left)

	got, err := mr.Get("aiusage:uid-1:2025-05")
	require.NoError(t, err)
	require.Equal(t, "1", got)
	require.Equal(t, usageTTL, mr.TTL("aiusage:uid-1:2025-05"))
}

// TestUseTokenInsufficient verifies that the call after the last token is refused.
func TestUseTokenInsufficient(t *testing.T) {
	svc, _ := setupTestService(t, 2)
	ctx := context.Background()

	left, err := svc.UseToken(ctx, "uid-2")
	require.NoError(t, err)
	require.Equal(t, 1, left)
	left, err = svc.UseToken(ctx, "uid-2")
	require.NoError(t, err)
	require.Equal(t, 0, left)

	_, err = svc.UseToken(ctx, "uid-2")
	require.ErrorIs(t, err, ErrInsufficientTokens)

	// Other callers are unaffected.
	_, err = svc.UseToken(ctx, "uid-3")
	require.NoError(t, err)
}

// TestUseTokenCrossMonthReset verifies that a new month starts a fresh counter.
func TestUseTokenCrossMonthReset(t *testing.T) {
	svc, _ := setupTestService(t, 1)
	ctx := context.Background()

	_, err := svc.UseToken(ctx, "uid-4")
	require.NoError(t, err)
	_, err = svc.UseToken(ctx, "uid-4")
	require.ErrorIs(t, err, ErrInsufficientTokens)

	svc.now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 1, 0, time.UTC) }
	left, err := svc.UseToken(ctx, "uid-4")
	require.NoError(t, err)
	require.Equal(t, 0, left)
}

func TestUseTokenDisabled(t *testing.T) {
	left, err := NewService(nil, DefaultTokens).UseToken(context.Background(), "anyone")
	require.NoError(t, err)
	require.Equal(t, Unlimited, left)
}

func TestUseTokenRedisDown(t *testing.T) {
	svc, mr := setupTestService(t, DefaultTokens)
	mr.Close()

	_, err := svc.UseToken(context.Background(), "uid-5")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrInsufficientTokens)
}
