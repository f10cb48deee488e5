package config

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Web      WebConfig      `yaml:"web"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Notify   NotifyConfig   `yaml:"notify"`
}

type ServerConfig struct {
	IP   string `yaml:"ip"`
	Port int    `yaml:"port"`
}

type LogConfig struct {
	Level string `yaml:"log_level"`
	Dir   string `yaml:"log_dir"`
	File  string `yaml:"log_file"`
}

type WebConfig struct {
	StaticDir string `yaml:"static_dir"`
	UploadDir string `yaml:"upload_dir"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// AuthConfig carries the token signing material and lifetime. The secret is
// loaded once at startup and treated as immutable for the process lifetime.
type AuthConfig struct {
	Secret   string   `yaml:"secret"`
	TokenTTL Duration `yaml:"token_ttl"`
}

type NotifyConfig struct {
	Store NotifyStoreConfig `yaml:"store"`
}

type NotifyStoreConfig struct {
	Type    string            `yaml:"type"`
	Expiry  Duration          `yaml:"expiry"`
	Cleanup Duration          `yaml:"cleanup"`
	Redis   NotifyRedisStore  `yaml:"redis,omitempty"`
	Memory  NotifyMemoryStore `yaml:"memory,omitempty"`
}

type NotifyRedisStore struct {
	Addr     string `yaml:"addr"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
	Prefix   string `yaml:"prefix,omitempty"`
}

type NotifyMemoryStore struct {
	Cleanup Duration `yaml:"cleanup"`
}
