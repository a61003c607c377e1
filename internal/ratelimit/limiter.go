package ratelimit

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/reviewreply/pkg/models"
)

// Default request quotas.
const (
	DefaultPerHour = 100
	DefaultPerDay  = 1000
)

// Limits holds the request quotas for one identifier.
type Limits struct {
	PerHour int
	PerDay  int
}

// LimitsFunc resolves the quotas for an identifier at check time. It is the
// extension point for per-caller overrides, playing the role WordPress
// filters play in the plugin world.
type LimitsFunc func(identifier string) Limits

// Option configures a Limiter.
type Option func(*Limiter)

// WithLimits installs a LimitsFunc override.
func WithLimits(fn LimitsFunc) Option {
	return func(l *Limiter) { l.limits = fn }
}

// WithClock replaces the limiter's clock. Tests use this to cross window
// boundaries without sleeping.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// Limiter counts requests per identifier in two independent calendar
// windows. Windows are aligned to the top of the hour and to midnight UTC
// rather than rolling; simpler than a token bucket and precise enough for
// this workload.
type Limiter struct {
	store  Store
	limits LimitsFunc
	now    func() time.Time
}

// New creates a Limiter on the given store.
func New(store Store, opts ...Option) *Limiter {
	l := &Limiter{
		store: store,
		limits: func(string) Limits {
			return Limits{PerHour: DefaultPerHour, PerDay: DefaultPerDay}
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Check returns a RateLimitError when either window's count has reached its
// quota. The hourly window is checked first. The error's reset time is the
// boundary of the current window, not a rolling expiry.
func (l *Limiter) Check(ctx context.Context, identifier string) error {
	limits := l.limits(identifier)

	hourly, err := l.count(ctx, identifier, "hour")
	if err != nil {
		return err
	}
	if hourly >= limits.PerHour {
		return &models.RateLimitError{
			Message: "rate limit exceeded: too many requests per hour",
			ResetAt: l.hourStart().Add(time.Hour),
		}
	}

	daily, err := l.count(ctx, identifier, "day")
	if err != nil {
		return err
	}
	if daily >= limits.PerDay {
		return &models.RateLimitError{
			Message: "rate limit exceeded: too many requests per day",
			ResetAt: l.dayStart().Add(24 * time.Hour),
		}
	}

	return nil
}

// Record counts one request against both windows. A stored record whose
// timestamp predates the current window boundary is reset to 1 instead of
// incremented.
//
// The read-modify-write is not guarded; two racing requests for the same
// identifier can under-count by one. Accepted imprecision.
func (l *Limiter) Record(ctx context.Context, identifier string) error {
	if err := l.increment(ctx, identifier, "hour"); err != nil {
		return err
	}
	return l.increment(ctx, identifier, "day")
}

func (l *Limiter) count(ctx context.Context, identifier, period string) (int, error) {
	rec, err := l.store.Get(ctx, storeKey(identifier, period))
	if err != nil {
		return 0, err
	}
	if rec == nil {
		return 0, nil
	}

	if rec.Timestamp < l.windowStart(period).Unix() {
		return 0, nil
	}

	return rec.Count, nil
}

func (l *Limiter) increment(ctx context.Context, identifier, period string) error {
	key := storeKey(identifier, period)

	rec, err := l.store.Get(ctx, key)
	if err != nil {
		return err
	}

	windowStart := l.windowStart(period)
	if rec == nil || rec.Timestamp < windowStart.Unix() {
		rec = &Record{Count: 1, Timestamp: l.now().Unix()}
	} else {
		rec.Count++
	}

	ttl := time.Hour
	if period == "day" {
		ttl = 24 * time.Hour
	}

	if err := l.store.Set(ctx, key, rec, ttl); err != nil {
		return err
	}

	log.Debug().
		Str("period", period).
		Int("count", rec.Count).
		Msg("Recorded AI request")
	return nil
}

func (l *Limiter) windowStart(period string) time.Time {
	if period == "day" {
		return l.dayStart()
	}
	return l.hourStart()
}

func (l *Limiter) hourStart() time.Time {
	return l.now().UTC().Truncate(time.Hour)
}

func (l *Limiter) dayStart() time.Time {
	now := l.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
