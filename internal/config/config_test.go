package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recorder.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalCSV = `
api:
  base_url: https://api.example.com
stream:
  ws_url: wss://stream.example.com
storage:
  mode: csv
`

func TestLoadAndValidate_Defaults(t *testing.T) {
	path := writeConfig(t, minimalCSV)

	cfg, err := LoadAndValidate(path)
	if err != nil {
		t.Fatalf("LoadAndValidate failed: %v", err)
	}

	if cfg.Stream.PollInterval != 50*time.Millisecond {
		t.Errorf("PollInterval = %v, want 50ms", cfg.Stream.PollInterval)
	}
	if cfg.Stream.FirstTickTimeout != 3*time.Second {
		t.Errorf("FirstTickTimeout = %v, want 3s", cfg.Stream.FirstTickTimeout)
	}
	if cfg.Storage.CSV.Dir != "data" {
		t.Errorf("CSV.Dir = %q, want data", cfg.Storage.CSV.Dir)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
}

func TestLoadAndValidate_DefaultMode(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://api.example.com
stream:
  ws_url: wss://stream.example.com
storage:
  mongo:
    uri: mongodb://localhost:27017
`)

	cfg, err := LoadAndValidate(path)
	if err != nil {
		t.Fatalf("LoadAndValidate failed: %v", err)
	}
	if cfg.Storage.Mode != ModeMongo {
		t.Errorf("Mode = %q, want %q", cfg.Storage.Mode, ModeMongo)
	}
	if cfg.Storage.Mongo.Database != "TickDatabase" {
		t.Errorf("Mongo.Database = %q, want TickDatabase", cfg.Storage.Mongo.Database)
	}
}

func TestValidate_UnknownStorageMode(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://api.example.com
stream:
  ws_url: wss://stream.example.com
storage:
  mode: cassandra
`)

	if _, err := LoadAndValidate(path); err == nil {
		t.Fatal("expected error for unknown storage mode")
	}
}

func TestValidate_RequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing base_url", `
stream:
  ws_url: wss://stream.example.com
storage:
  mode: csv
`},
		{"missing ws_url", `
api:
  base_url: https://api.example.com
storage:
  mode: csv
`},
		{"mongo mode without uri", `
api:
  base_url: https://api.example.com
stream:
  ws_url: wss://stream.example.com
storage:
  mode: mongodb
`},
		{"postgres mode without host", `
api:
  base_url: https://api.example.com
stream:
  ws_url: wss://stream.example.com
storage:
  mode: postgres
  postgres:
    name: ticks
    user: recorder
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			if _, err := LoadAndValidate(path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_MONGO_URI", "mongodb://mongo.internal:27017")

	path := writeConfig(t, `
api:
  base_url: https://api.example.com
stream:
  ws_url: wss://stream.example.com
storage:
  mode: mongodb
  mongo:
    uri: ${TEST_MONGO_URI}
`)

	cfg, err := LoadAndValidate(path)
	if err != nil {
		t.Fatalf("LoadAndValidate failed: %v", err)
	}
	if cfg.Storage.Mongo.URI != "mongodb://mongo.internal:27017" {
		t.Errorf("Mongo.URI = %q, env expansion failed", cfg.Storage.Mongo.URI)
	}
}
