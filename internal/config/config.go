package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DevJWTSecret is accepted only outside production
const DevJWTSecret = "development-secret-change-in-production"

// Config holds the sercha-hub configuration.
type Config struct {
	Env      string         `yaml:"env"`
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Auth     AuthConfig     `yaml:"auth"`
	Search   SearchConfig   `yaml:"search"`
	Files    FilesConfig    `yaml:"files"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds PostgreSQL pool settings.
type DatabaseConfig struct {
	URL                string `yaml:"url"`
	MaxOpenConns       int    `yaml:"max_open_conns"`
	MaxIdleConns       int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeSec int    `yaml:"conn_max_lifetime_sec"`
	ConnMaxIdleSec     int    `yaml:"conn_max_idle_sec"`
}

// RedisConfig holds session store settings. An empty URL keeps sessions in PostgreSQL.
type RedisConfig struct {
	URL       string `yaml:"url"`
	KeyPrefix string `yaml:"key_prefix"`
}

// AuthConfig holds token settings.
type AuthConfig struct {
	JWTSecret   string `yaml:"jwt_secret"`
	TokenTTLMin int    `yaml:"token_ttl_min"`
	BcryptCost  int    `yaml:"bcrypt_cost"`
}

// SearchConfig holds search limits and the fan-out deadline.
type SearchConfig struct {
	DefaultLimit       int  `yaml:"default_limit"`
	MaxLimit           int  `yaml:"max_limit"`
	TimeoutSec         int  `yaml:"timeout_sec"`
	StrictSenderFilter bool `yaml:"strict_sender_filter"`
}

// FilesConfig holds the file catalog index location. An empty path keeps it in memory.
type FilesConfig struct {
	IndexPath string `yaml:"index_path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// Load reads the YAML file at path when one is given, then applies
// environment overrides, defaults and validation.
func Load(path string) (Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}

		// Substitute env variables of the form ${VAR}
		data = expandEnvVars(data)

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return Config{}, err
	}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides file values with the deployment environment variables.
func (c *Config) ApplyEnv() error {
	setString(&c.Env, "ENV")
	setString(&c.Database.URL, "DATABASE_URL")
	setString(&c.Redis.URL, "REDIS_URL")
	setString(&c.Auth.JWTSecret, "JWT_SECRET")
	setString(&c.Logging.Level, "LOG_LEVEL")
	setString(&c.Files.IndexPath, "FILE_INDEX_PATH")

	ints := []struct {
		key string
		dst *int
	}{
		{"PORT", &c.HTTP.Port},
		{"DB_MAX_OPEN_CONNS", &c.Database.MaxOpenConns},
		{"DB_MAX_IDLE_CONNS", &c.Database.MaxIdleConns},
		{"DB_CONN_MAX_LIFETIME_SEC", &c.Database.ConnMaxLifetimeSec},
		{"DB_CONN_MAX_IDLE_SEC", &c.Database.ConnMaxIdleSec},
		{"SEARCH_TIMEOUT_SEC", &c.Search.TimeoutSec},
		{"SEARCH_DEFAULT_LIMIT", &c.Search.DefaultLimit},
		{"SEARCH_MAX_LIMIT", &c.Search.MaxLimit},
	}
	for _, e := range ints {
		if err := setInt(e.dst, e.key); err != nil {
			return err
		}
	}

	if v := os.Getenv("SEARCH_STRICT_SENDER"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SEARCH_STRICT_SENDER: %w", err)
		}
		c.Search.StrictSenderFilter = b
	}
	return nil
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Env == "" {
		c.Env = "local"
	}
	if c.HTTP.Port <= 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 15
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.MaxOpenConns <= 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns <= 0 {
		c.Database.MaxIdleConns = 7
	}
	if c.Database.ConnMaxLifetimeSec <= 0 {
		c.Database.ConnMaxLifetimeSec = 300
	}
	if c.Database.ConnMaxIdleSec <= 0 {
		c.Database.ConnMaxIdleSec = 60
	}
	if c.Redis.KeyPrefix == "" {
		c.Redis.KeyPrefix = "sercha:"
	}
	if c.Auth.JWTSecret == "" && !c.IsProduction() {
		c.Auth.JWTSecret = DevJWTSecret
	}
	if c.Auth.TokenTTLMin <= 0 {
		c.Auth.TokenTTLMin = 24 * 60
	}
	if c.Auth.BcryptCost <= 0 {
		c.Auth.BcryptCost = 10
	}
	if c.Search.DefaultLimit <= 0 {
		c.Search.DefaultLimit = 20
	}
	if c.Search.MaxLimit <= 0 {
		c.Search.MaxLimit = 100
	}
	if c.Search.TimeoutSec <= 0 {
		c.Search.TimeoutSec = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Database.URL == "" {
		return fmt.Errorf("database.url is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.IsProduction() && c.Auth.JWTSecret == DevJWTSecret {
		return fmt.Errorf("auth.jwt_secret must be changed in production")
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("auth.bcrypt_cost must be between 4 and 31, got %d", c.Auth.BcryptCost)
	}
	if c.Search.DefaultLimit > c.Search.MaxLimit {
		return fmt.Errorf("search.default_limit (%d) must not exceed search.max_limit (%d)",
			c.Search.DefaultLimit, c.Search.MaxLimit)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}

// IsProduction reports whether the environment is prod or production
func (c *Config) IsProduction() bool {
	switch strings.ToLower(c.Env) {
	case "prod", "production":
		return true
	}
	return false
}

// SearchTimeout returns the fan-out deadline
func (c *Config) SearchTimeout() time.Duration {
	return time.Duration(c.Search.TimeoutSec) * time.Second
}

// TokenTTL returns the access token lifetime
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLMin) * time.Minute
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
