package config

import "time"

// DefaultConfig returns the built-in configuration used when no file overrides
// are present.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			IP:   "0.0.0.0",
			Port: 8080,
		},
		Log: LogConfig{
			Level: "info",
			Dir:   "data/logs",
			File:  "server.log",
		},
		Web: WebConfig{
			StaticDir: "./web",
			UploadDir: "./data/uploads",
		},
		Database: DatabaseConfig{
			DSN: "data/gameshelf.db",
		},
		Auth: AuthConfig{
			TokenTTL: Duration(8 * time.Hour),
		},
		Notify: NotifyConfig{
			Store: NotifyStoreConfig{
				Type:    "sqlite",
				Expiry:  Duration(30 * 24 * time.Hour),
				Cleanup: Duration(10 * time.Minute),
			},
		},
	}
}
