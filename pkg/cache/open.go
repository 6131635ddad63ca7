package cache

import (
	"context"
	"fmt"
	"time"
)

// Backend names accepted by Open.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// OpenOptions selects and configures a backend.
type OpenOptions struct {
	Backend   string
	Dir       string
	RedisAddr string
	MongoURI  string
	Timeout   time.Duration
}

// Open returns the backend named by opts.Backend. An empty name means none.
func Open(ctx context.Context, opts OpenOptions) (Cache, error) {
	switch opts.Backend {
	case BackendNone, "":
		return NewNullCache(), nil
	case BackendFile:
		if opts.Dir == "" {
			return nil, fmt.Errorf("file cache: no directory")
		}
		return NewFileCache(opts.Dir)
	case BackendRedis:
		return NewRedisCache(ctx, RedisOptions{Addr: opts.RedisAddr, DialTimeout: opts.Timeout})
	case BackendMongo:
		return NewMongoCache(ctx, MongoOptions{URI: opts.MongoURI, Timeout: opts.Timeout})
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}
