package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultAPITimeout       = 30 * time.Second
	DefaultPingTimeout      = 60 * time.Second
	DefaultWriteTimeout     = 5 * time.Second
	DefaultQueueSize        = 1000
	DefaultPollInterval     = 50 * time.Millisecond
	DefaultFirstTickTimeout = 3 * time.Second
	DefaultStorageMode      = ModeMongo
	DefaultCSVDir           = "data"
	DefaultMongoDatabase    = "TickDatabase"
	DefaultDBPort           = 5432
	DefaultDBSSLMode        = "prefer"
	DefaultMaxConns         = 10
	DefaultMinConns         = 2
	DefaultServerPort       = 8080
)

func (c *Config) applyDefaults() {
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}

	if c.Stream.PingTimeout == 0 {
		c.Stream.PingTimeout = DefaultPingTimeout
	}
	if c.Stream.WriteTimeout == 0 {
		c.Stream.WriteTimeout = DefaultWriteTimeout
	}
	if c.Stream.QueueSize == 0 {
		c.Stream.QueueSize = DefaultQueueSize
	}
	if c.Stream.PollInterval == 0 {
		c.Stream.PollInterval = DefaultPollInterval
	}
	if c.Stream.FirstTickTimeout == 0 {
		c.Stream.FirstTickTimeout = DefaultFirstTickTimeout
	}

	if c.Storage.Mode == "" {
		c.Storage.Mode = DefaultStorageMode
	}
	if c.Storage.CSV.Dir == "" {
		c.Storage.CSV.Dir = DefaultCSVDir
	}
	if c.Storage.Mongo.Database == "" {
		c.Storage.Mongo.Database = DefaultMongoDatabase
	}
	if c.Storage.Postgres.Port == 0 {
		c.Storage.Postgres.Port = DefaultDBPort
	}
	if c.Storage.Postgres.SSLMode == "" {
		c.Storage.Postgres.SSLMode = DefaultDBSSLMode
	}
	if c.Storage.Postgres.MaxConns == 0 {
		c.Storage.Postgres.MaxConns = DefaultMaxConns
	}
	if c.Storage.Postgres.MinConns == 0 {
		c.Storage.Postgres.MinConns = DefaultMinConns
	}

	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerPort
	}
}
