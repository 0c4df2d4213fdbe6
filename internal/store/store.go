package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"tick-recorder/internal/config"
	"tick-recorder/internal/model"
)

// ErrUnknownMode is returned by New for an unrecognized storage mode.
// Mode validation happens once at startup; a bad mode refuses to
// start rather than silently dropping ticks at write time.
var ErrUnknownMode = errors.New("unknown storage mode")

// Store durably appends canonical tick records. Implementations are
// safe for concurrent use by multiple recording tasks.
type Store interface {
	// Append persists one tick under the ticker's namespace. The
	// write is durable when Append returns.
	Append(ctx context.Context, ticker string, tick model.Tick) error

	// Close flushes and releases backend resources.
	Close(ctx context.Context) error
}

// New selects and initializes the configured backend.
func New(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch strings.ToLower(cfg.Mode) {
	case config.ModeCSV:
		return NewCSVStore(cfg.CSV.Dir, logger)
	case config.ModeMongo:
		return NewMongoStore(ctx, cfg.Mongo, logger)
	case config.ModePostgres:
		return NewPostgresStore(ctx, cfg.Postgres, logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, cfg.Mode)
	}
}
