// Package postgres persists computed character sheets in PostgreSQL using
// pgx v5.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/charsheet/internal/config"
)

// ApplicationName is reported to the server for every connection.
const ApplicationName = "sheetcalc"

// connectTimeout bounds the initial ping.
const connectTimeout = 10 * time.Second

// Pool owns the connection pool shared by the sheet repository.
type Pool struct {
	pool *pgxpool.Pool
}

// NewPool opens a connection pool for cfg and verifies the server answers.
//
// Precondition: cfg must contain valid database connection parameters.
// Postcondition: Returns a connected Pool or a non-nil error.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	poolCfg.ConnConfig.RuntimeParams["application_name"] = ApplicationName

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool for %s:%d/%s: %w", cfg.Host, cfg.Port, cfg.Name, err)
	}

	p := &Pool{pool: pool}
	if err := p.Health(ctx, connectTimeout); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database %s:%d/%s: %w", cfg.Host, cfg.Port, cfg.Name, err)
	}
	return p, nil
}

// Health pings the server within timeout.
func (p *Pool) Health(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return p.pool.Ping(ctx)
}

// Close releases all pool resources.
func (p *Pool) Close() {
	p.pool.Close()
}

// DB returns the underlying pgxpool.Pool for use by repositories.
func (p *Pool) DB() *pgxpool.Pool {
	return p.pool
}
