// Package config loads and validates the recorder configuration from
// a YAML file with ${VAR} environment expansion.
package config

import "time"

// Config is the root configuration for a recorder instance.
type Config struct {
	Instance InstanceConfig `yaml:"instance"`
	API      APIConfig      `yaml:"api"`
	Stream   StreamConfig   `yaml:"stream"`
	Storage  StorageConfig  `yaml:"storage"`
	Server   ServerConfig   `yaml:"server"`
}

// InstanceConfig identifies this recorder.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// APIConfig holds the provider REST API settings (instrument search,
// profile/token validation).
type APIConfig struct {
	BaseURL      string        `yaml:"base_url"`
	ClientID     string        `yaml:"client_id"`
	ClientSecret string        `yaml:"client_secret"`
	RedirectURI  string        `yaml:"redirect_uri"`
	Timeout      time.Duration `yaml:"timeout"`
}

// StreamConfig holds shared websocket connection settings.
type StreamConfig struct {
	WSURL            string        `yaml:"ws_url"`
	PingTimeout      time.Duration `yaml:"ping_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	QueueSize        int           `yaml:"queue_size"`         // per-subscription receive queue capacity
	PollInterval     time.Duration `yaml:"poll_interval"`      // recording task sleep between empty polls
	FirstTickTimeout time.Duration `yaml:"first_tick_timeout"` // subscription confirmation bound
}

// StorageMode selects the persistence backend, fixed at startup.
const (
	ModeCSV      = "csv"
	ModeMongo    = "mongodb"
	ModePostgres = "postgres"
)

// StorageConfig holds persistence settings.
type StorageConfig struct {
	Mode     string         `yaml:"mode"`
	CSV      CSVConfig      `yaml:"csv"`
	Mongo    MongoConfig    `yaml:"mongo"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// CSVConfig holds file backend settings.
type CSVConfig struct {
	Dir string `yaml:"dir"`
}

// MongoConfig holds document backend settings.
type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

// PostgresConfig holds relational backend settings.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}
