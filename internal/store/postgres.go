package store

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"tick-recorder/internal/config"
	"tick-recorder/internal/model"
)

// ticksSchema holds all tickers in one table; the ticker column is
// the namespace key.
const ticksSchema = `
CREATE TABLE IF NOT EXISTS ticks (
	id         BIGSERIAL PRIMARY KEY,
	ticker     TEXT        NOT NULL,
	recorded_at TIMESTAMPTZ NOT NULL,
	ltp        DOUBLE PRECISION NOT NULL,
	ltq        BIGINT      NOT NULL
);
CREATE INDEX IF NOT EXISTS ticks_ticker_recorded_at_idx ON ticks (ticker, recorded_at);
`

// PostgresStore inserts one row per tick via a pgx connection pool.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgresStore connects, pings, and ensures the ticks table exists.
func NewPostgresStore(ctx context.Context, cfg config.PostgresConfig, logger *slog.Logger) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(BuildConnString(cfg))
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}
	poolCfg.MinConns = int32(cfg.MinConns)
	poolCfg.MaxConns = int32(cfg.MaxConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, ticksSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure ticks table: %w", err)
	}

	logger.Info("postgres connected", "host", cfg.Host, "database", cfg.Name)

	return &PostgresStore{pool: pool, logger: logger}, nil
}

// Append inserts one tick row.
func (s *PostgresStore) Append(ctx context.Context, ticker string, tick model.Tick) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO ticks (ticker, recorded_at, ltp, ltq) VALUES ($1, $2, $3, $4)`,
		strings.ToUpper(ticker), tick.Timestamp, tick.LTP, tick.LTQ,
	)
	if err != nil {
		return fmt.Errorf("insert tick: %w", err)
	}
	return nil
}

// Close releases the pool.
func (s *PostgresStore) Close(ctx context.Context) error {
	s.pool.Close()
	return nil
}

// BuildConnString builds a PostgreSQL connection string from config.
func BuildConnString(cfg config.PostgresConfig) string {
	// URL-encode password to handle special characters
	escapedPassword := url.QueryEscape(cfg.Password)

	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "prefer"
	}

	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User,
		escapedPassword,
		cfg.Host,
		cfg.Port,
		cfg.Name,
		sslMode,
	)
}
