package client

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// PostgresHook выполняется один раз после успешного подключения (миграции и т.п.)
type PostgresHook func(ctx context.Context, dsn string, pool *pgxpool.Pool) error

type PostgresClient struct {
	pool *Lazy[*pgxpool.Pool]
}

func NewPostgresClient(cfg PostgresConfig, hooks ...PostgresHook) *PostgresClient {
	connect := func(ctx context.Context) (*pgxpool.Pool, error) {
		poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to parse connection string: %w", err)
		}

		// Настройки пула соединений
		poolConfig.MaxConns = 20
		poolConfig.MinConns = 2
		poolConfig.MaxConnLifetime = time.Hour
		poolConfig.MaxConnIdleTime = 30 * time.Minute
		poolConfig.HealthCheckPeriod = time.Minute
		if cfg.MaxConns > 0 {
			poolConfig.MaxConns = cfg.MaxConns
		}
		if cfg.MinConns > 0 {
			poolConfig.MinConns = cfg.MinConns
		}
		if cfg.MaxConnLifetime > 0 {
			poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
		}
		if cfg.MaxConnIdleTime > 0 {
			poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
		}

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create connection pool: %w", err)
		}

		// Проверяем соединение
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		if err := pool.Ping(pingCtx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}

		for _, hook := range hooks {
			if err := hook(ctx, cfg.DSN, pool); err != nil {
				pool.Close()
				return nil, err
			}
		}

		return pool, nil
	}

	return &PostgresClient{
		pool: NewLazy("postgres", connect, func(_ context.Context, pool *pgxpool.Pool) error {
			pool.Close()
			return nil
		}),
	}
}

// Pool возвращает пул соединений, подключаясь при первом вызове
func (c *PostgresClient) Pool(ctx context.Context) (*pgxpool.Pool, error) {
	return c.pool.Get(ctx)
}

// HealthCheck проверяет состояние базы данных
func (c *PostgresClient) HealthCheck(ctx context.Context) error {
	pool, err := c.pool.Get(ctx)
	if err != nil {
		return err
	}
	return pool.Ping(ctx)
}

func (c *PostgresClient) Close(ctx context.Context) error {
	return c.pool.Close(ctx)
}
