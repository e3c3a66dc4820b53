package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/carlosduarte/devices-api/internal/config"
	"github.com/cenkalti/backoff/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pingInitialInterval = 500 * time.Millisecond
	pingMaxInterval     = 5 * time.Second
	pingMaxTries        = 5
)

func NewPool(ctx context.Context, cfg config.Database) (*pgxpool.Pool, error) {
	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Username,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
		cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolConfig.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// The database may still be starting up, retry the initial ping
	// before giving up.
	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = pingInitialInterval
	expBackoff.MaxInterval = pingMaxInterval

	operation := func() (struct{}, error) {
		return struct{}{}, pool.Ping(ctx)
	}

	if _, err := backoff.Retry(
		ctx,
		operation,
		backoff.WithMaxTries(pingMaxTries),
		backoff.WithBackOff(expBackoff),
	); err != nil {
		pool.Close()

		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return pool, nil
}
