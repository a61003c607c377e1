// Package ratelimit gates outbound AI requests behind dual calendar-aligned
// windows (current hour, current day) counted per caller identity in an
// expiring key-value store shared by all invocations.
package ratelimit

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"time"
)

const keyPrefix = "reviewreply:rate_limit:"

// Record is the per-identifier, per-window counter. Timestamp is the wall
// clock at the moment the window's first request was recorded; a record
// whose timestamp predates the current window boundary counts as zero.
type Record struct {
	Count     int   `json:"count"`
	Timestamp int64 `json:"timestamp"`
}

// Store is the expiring key-value backend for rate-limit records. Get
// returns (nil, nil) when the key is absent or expired.
type Store interface {
	Get(ctx context.Context, key string) (*Record, error)
	Set(ctx context.Context, key string, rec *Record, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// storeKey hashes the identifier so raw IPs and user IDs never appear as
// cache keys.
func storeKey(identifier, period string) string {
	sum := md5.Sum([]byte(identifier))
	return keyPrefix + period + ":" + hex.EncodeToString(sum[:])
}
