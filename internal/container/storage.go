package container

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/shortlink-client/internal/shortener"
	"github.com/serroba/shortlink-client/internal/store"
	"go.uber.org/zap"
)

// RedisClient owns the shared Redis connection.
type RedisClient struct {
	Client *redis.Client
}

func (c *RedisClient) Shutdown() error {
	return c.Client.Close()
}

// PostgresPool owns the shared Postgres pool.
type PostgresPool struct {
	Pool *pgxpool.Pool
}

func (p *PostgresPool) Shutdown() error {
	p.Pool.Close()

	return nil
}

// RedisPackage provides *RedisClient. The connection is opened lazily on
// first use.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*RedisClient, error) {
		opts := do.MustInvoke[*Options](i)

		return &RedisClient{Client: redis.NewClient(&redis.Options{Addr: opts.RedisAddr})}, nil
	})
}

// PostgresPackage provides *PostgresPool.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*PostgresPool, error) {
		opts := do.MustInvoke[*Options](i)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		pool, err := pgxpool.New(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}

		return &PostgresPool{Pool: pool}, nil
	})
}

// RepositoryPackage provides the shortener.Repository selected by
// Options.Store.
func RepositoryPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (shortener.Repository, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		repo, err := newRepository(i, opts)
		if err != nil {
			return nil, err
		}

		logger.Info("link store ready", zap.String("store", opts.Store))

		return repo, nil
	})
}

func newRepository(i *do.Injector, opts *Options) (shortener.Repository, error) {
	switch opts.Store {
	case StoreMemory:
		return store.NewMemoryStore(), nil
	case StoreRedis:
		return store.NewRedisStore(do.MustInvoke[*RedisClient](i).Client), nil
	case StorePostgres, StorePostgresCache:
		pg, err := newPostgresStore(i)
		if err != nil {
			return nil, err
		}

		if opts.Store == StorePostgres {
			return pg, nil
		}

		ttl := time.Duration(opts.CacheTTLSeconds) * time.Second

		return store.NewRedisCacheRepository(pg, do.MustInvoke[*RedisClient](i).Client, ttl), nil
	default:
		return nil, fmt.Errorf("unknown store %q", opts.Store)
	}
}

func newPostgresStore(i *do.Injector) (*store.PostgresStore, error) {
	pool, err := do.Invoke[*PostgresPool](i)
	if err != nil {
		return nil, err
	}

	pg := store.NewPostgresStore(pool.Pool)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := pg.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	return pg, nil
}
