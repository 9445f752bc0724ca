package cache

import (
	"context"

	"github.com/matzehuels/flowbridge/pkg/config"
	"github.com/matzehuels/flowbridge/pkg/errors"
)

// RedisNamespace prefixes every key flowbridge writes to Redis.
const RedisNamespace = "flowbridge:"

// Open builds the backend named by cfg.Backend, wrapped in Instrumented.
// Remote backends are pinged before Open returns.
func Open(ctx context.Context, cfg config.CacheConfig) (*Instrumented, error) {
	var (
		c   Cache
		err error
	)
	switch cfg.Backend {
	case config.BackendNone, "":
		c = NewNullCache()
	case config.BackendFile:
		c, err = NewFileCache(cfg.Dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open cache directory %s", cfg.Dir)
		}
	case config.BackendRedis:
		c, err = NewRedisCache(ctx, RedisOptions{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			Namespace: RedisNamespace,
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeCacheUnavailable, err, "connect to redis at %s", cfg.RedisAddr)
		}
	case config.BackendMongo:
		c, err = NewMongoCache(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeCacheUnavailable, err, "connect to mongodb")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", cfg.Backend)
	}
	return NewInstrumented(c), nil
}
