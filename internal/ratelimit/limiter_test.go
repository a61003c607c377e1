package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewreply/pkg/models"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestLimiterAllowsUpToHourlyQuota(t *testing.T) {
	ctx := context.Background()
	limiter := New(NewMemoryStore(), WithLimits(func(string) Limits {
		return Limits{PerHour: 3, PerDay: 100}
	}))

	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.Check(ctx, "user_1"))
		require.NoError(t, limiter.Record(ctx, "user_1"))
	}

	err := limiter.Check(ctx, "user_1")
	require.Error(t, err)

	var limited *models.RateLimitError
	require.ErrorAs(t, err, &limited)
	assert.Contains(t, limited.Message, "per hour")
	assert.False(t, limited.ResetAt.IsZero())
}

func TestLimiterDailyQuota(t *testing.T) {
	ctx := context.Background()
	limiter := New(NewMemoryStore(), WithLimits(func(string) Limits {
		return Limits{PerHour: 100, PerDay: 2}
	}))

	for i := 0; i < 2; i++ {
		require.NoError(t, limiter.Check(ctx, "user_1"))
		require.NoError(t, limiter.Record(ctx, "user_1"))
	}

	var limited *models.RateLimitError
	require.ErrorAs(t, limiter.Check(ctx, "user_1"), &limited)
	assert.Contains(t, limited.Message, "per day")
}

func TestLimiterIsolatesIdentifiers(t *testing.T) {
	ctx := context.Background()
	limiter := New(NewMemoryStore(), WithLimits(func(string) Limits {
		return Limits{PerHour: 1, PerDay: 10}
	}))

	require.NoError(t, limiter.Record(ctx, "user_1"))
	require.Error(t, limiter.Check(ctx, "user_1"))
	require.NoError(t, limiter.Check(ctx, "user_2"))
}

func TestLimiterResetsAtWindowBoundary(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	clock := &now

	limiter := New(NewMemoryStore(),
		WithLimits(func(string) Limits { return Limits{PerHour: 1, PerDay: 100} }),
		WithClock(func() time.Time { return *clock }),
	)

	require.NoError(t, limiter.Record(ctx, "user_1"))
	require.Error(t, limiter.Check(ctx, "user_1"))

	// Cross the top of the hour; the old count no longer applies.
	now = now.Add(31 * time.Minute)
	require.NoError(t, limiter.Check(ctx, "user_1"))

	// Recording in the new window starts from 1, not 2.
	require.NoError(t, limiter.Record(ctx, "user_1"))
	require.Error(t, limiter.Check(ctx, "user_1"))
}

func TestLimiterResetAtReportsWindowBoundary(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)

	limiter := New(NewMemoryStore(),
		WithLimits(func(string) Limits { return Limits{PerHour: 0, PerDay: 100} }),
		WithClock(fixedClock(now)),
	)

	var limited *models.RateLimitError
	require.ErrorAs(t, limiter.Check(ctx, "user_1"), &limited)
	assert.Equal(t, time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC), limited.ResetAt)
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(client)

	rec, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, rec)

	require.NoError(t, store.Set(ctx, "k", &Record{Count: 3, Timestamp: 1234}, time.Hour))

	rec, err = store.Get(ctx, "k")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 3, rec.Count)
	assert.Equal(t, int64(1234), rec.Timestamp)

	require.NoError(t, store.Delete(ctx, "k"))
	rec, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestLimiterOnRedis(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	limiter := New(NewRedisStore(client), WithLimits(func(string) Limits {
		return Limits{PerHour: 2, PerDay: 10}
	}))

	require.NoError(t, limiter.Check(ctx, "user_9"))
	require.NoError(t, limiter.Record(ctx, "user_9"))
	require.NoError(t, limiter.Record(ctx, "user_9"))
	require.Error(t, limiter.Check(ctx, "user_9"))
}

func TestStoreKeyHashesIdentifier(t *testing.T) {
	key := storeKey("user_7", "hour")

	assert.Contains(t, key, "reviewreply:rate_limit:hour:")
	assert.NotContains(t, key, "user_7")
	assert.Equal(t, storeKey("user_7", "hour"), key)
	assert.NotEqual(t, storeKey("user_7", "day"), key)
}
