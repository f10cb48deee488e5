package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoader_Load(t *testing.T) {
	tempDir := t.TempDir()
	configFile := filepath.Join(tempDir, ".config.yaml")

	configContent := `
server:
  ip: "127.0.0.1"
  port: 9090
log:
  log_level: "debug"
  log_dir: "/tmp/logs"
  log_file: "test.log"
auth:
  secret: "file-secret"
  token_ttl: 2h
`

	if err := os.WriteFile(configFile, []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	loader := NewLoader().WithPath(configFile).WithDotEnv(false)
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.IP != "127.0.0.1" {
		t.Errorf("expected server IP 127.0.0.1, got %s", cfg.Server.IP)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected server port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Log.Level)
	}
	if cfg.Auth.TokenTTL.Std() != 2*time.Hour {
		t.Errorf("expected token ttl 2h, got %v", cfg.Auth.TokenTTL)
	}
	// defaults survive where the file is silent
	if cfg.Database.DSN != "data/gameshelf.db" {
		t.Errorf("expected default dsn, got %s", cfg.Database.DSN)
	}
}

func TestLoader_EnvOverride(t *testing.T) {
	t.Setenv("GAMESHELF_AUTH_SECRET", "env-secret")
	t.Setenv("GAMESHELF_DB_DSN", "file::memory:")

	loader := NewLoader().WithPath(filepath.Join(t.TempDir(), "missing.yaml")).WithDotEnv(false)
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Auth.Secret != "env-secret" {
		t.Errorf("expected env secret override, got %q", cfg.Auth.Secret)
	}
	if cfg.Database.DSN != "file::memory:" {
		t.Errorf("expected env dsn override, got %q", cfg.Database.DSN)
	}
}

func TestLoader_Validate(t *testing.T) {
	loader := NewLoader()

	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name: "valid config",
			config: &Config{
				Server: ServerConfig{Port: 8080},
				Auth:   AuthConfig{Secret: "s", TokenTTL: Duration(time.Hour)},
			},
			wantErr: false,
		},
		{
			name: "invalid server port",
			config: &Config{
				Server: ServerConfig{Port: 70000},
				Auth:   AuthConfig{Secret: "s", TokenTTL: Duration(time.Hour)},
			},
			wantErr: true,
		},
		{
			name: "missing secret",
			config: &Config{
				Server: ServerConfig{Port: 8080},
				Auth:   AuthConfig{TokenTTL: Duration(time.Hour)},
			},
			wantErr: true,
		},
		{
			name: "non-positive ttl",
			config: &Config{
				Server: ServerConfig{Port: 8080},
				Auth:   AuthConfig{Secret: "s"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := loader.validate(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
