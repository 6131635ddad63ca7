// Package cache stores pipeline and crack results between runs.
//
// A [Cache] is a byte-oriented key/value store with per-entry expiry. Keys
// are produced by a [Keyer] so callers never build them by hand; wrap a
// keyer with [NewScopedKeyer] to isolate tenants sharing one backend.
//
// Backends:
//   - [FileCache]: sha256-sharded JSON files, for the CLI.
//   - [RedisCache]: github.com/redis/go-redis/v9, for shared servers.
//   - [MongoCache]: go.mongodb.org/mongo-driver with a TTL index.
//   - [NullCache]: never stores anything.
//
// Network backends report transport failures as [Retryable] errors wrapping
// [ErrNetwork]; callers may run them through [RetryWithBackoff].
package cache

import (
	"context"
	"time"
)

// Default entry lifetimes.
const (
	// TTLPipeline is the lifetime of encode/decode results. They are pure
	// functions of their key so the value is only bounded to limit growth.
	TTLPipeline = 7 * 24 * time.Hour

	// TTLCrack is the lifetime of crack reports.
	TTLCrack = 24 * time.Hour
)

// Cache is a key/value store with expiry.
type Cache interface {
	// Get returns the stored value and whether the key was present.
	// A missing or expired key is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// PipelineKey identifies an encode or decode run.
	PipelineKey(direction, input string, names []string) string

	// CrackKey identifies a crack run.
	CrackKey(input string, opts CrackKeyOpts) string
}

// CrackKeyOpts holds the search options that change a crack report.
// Worker count is absent because it does not affect results.
type CrackKeyOpts struct {
	Threshold   float64 `json:"threshold"`
	MaxDepth    int     `json:"max_depth"`
	MaxFrontier int     `json:"max_frontier"`
}

// DefaultKeyer hashes every key component.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) PipelineKey(direction, input string, names []string) string {
	return hashKey("pipeline:"+direction, input, names)
}

func (DefaultKeyer) CrackKey(input string, opts CrackKeyOpts) string {
	return hashKey("crack", input, opts)
}
