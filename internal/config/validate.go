package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks that all required fields are set and values are valid.
// An unknown storage mode is rejected here, at startup, rather than
// discovered tick by tick at write time.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api.base_url is required")
	}
	if c.Stream.WSURL == "" {
		return errors.New("stream.ws_url is required")
	}
	if c.Stream.QueueSize < 1 {
		return errors.New("stream.queue_size must be >= 1")
	}
	if c.Stream.PollInterval <= 0 {
		return errors.New("stream.poll_interval must be positive")
	}
	if c.Stream.FirstTickTimeout <= 0 {
		return errors.New("stream.first_tick_timeout must be positive")
	}

	switch strings.ToLower(c.Storage.Mode) {
	case ModeCSV:
		if c.Storage.CSV.Dir == "" {
			return errors.New("storage.csv.dir is required for csv mode")
		}
	case ModeMongo:
		if c.Storage.Mongo.URI == "" {
			return errors.New("storage.mongo.uri is required for mongodb mode")
		}
		if c.Storage.Mongo.Database == "" {
			return errors.New("storage.mongo.database is required for mongodb mode")
		}
	case ModePostgres:
		if err := c.Storage.Postgres.validate("storage.postgres"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("storage.mode must be one of csv, mongodb, postgres; got %q", c.Storage.Mode)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	return nil
}

func (db *PostgresConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
