package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Storage     StorageConfig     `yaml:"storage"`
	Postgres    PostgresConfig    `yaml:"postgres"`
	Auth        AuthConfig        `yaml:"auth"`
	Marketplace MarketplaceConfig `yaml:"marketplace"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
	Directory   DirectoryConfig   `yaml:"directory"`
	Log         LogConfig         `yaml:"log"`
}

type ServerConfig struct {
	Address         string        `yaml:"address"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type StorageConfig struct {
	Driver         string `yaml:"driver"`
	MigrationsPath string `yaml:"migrations_path"`
	HireRetries    int    `yaml:"hire_retries"`
}

type PostgresConfig struct {
	Conn            string        `yaml:"conn"`
	Database        string        `yaml:"database"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type AuthConfig struct {
	JWTSecret        string `yaml:"jwt_secret"`
	TokenExpireHours int    `yaml:"token_expire_hours"`
	SecureCookie     bool   `yaml:"secure_cookie"`
}

type MarketplaceConfig struct {
	MaxOpenGigsPerOwner  int   `yaml:"max_open_gigs_per_owner"`
	UniqueTitlesPerOwner *bool `yaml:"unique_titles_per_owner"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

type DirectoryConfig struct {
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads the YAML file at path, applies defaults and then environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyDefaults()
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = ":8080"
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 30 * time.Second
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = StorageDriverPostgres
	}
	if c.Storage.MigrationsPath == "" {
		c.Storage.MigrationsPath = "file://migrations"
	}
	if c.Storage.HireRetries == 0 {
		c.Storage.HireRetries = 3
	}
	if c.Auth.TokenExpireHours == 0 {
		c.Auth.TokenExpireHours = 8
	}
	if c.Marketplace.MaxOpenGigsPerOwner == 0 {
		c.Marketplace.MaxOpenGigsPerOwner = 10
	}
	if c.Marketplace.UniqueTitlesPerOwner == nil {
		enabled := true
		c.Marketplace.UniqueTitlesPerOwner = &enabled
	}
	if c.RateLimit.RequestsPerSecond == 0 {
		c.RateLimit.RequestsPerSecond = 20
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 40
	}
	if c.Directory.CacheTTL == 0 {
		c.Directory.CacheTTL = 5 * time.Minute
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("SERVER_ADDRESS"); ok && v != "" {
		c.Server.Address = v
	}
	if v, ok := lookup("STORAGE_DRIVER"); ok && v != "" {
		c.Storage.Driver = v
	}
	if v, ok := lookup("POSTGRES_CONN"); ok && v != "" {
		c.Postgres.Conn = v
	}
	if v, ok := lookup("POSTGRES_DATABASE"); ok && v != "" {
		c.Postgres.Database = v
	}
	if v, ok := lookup("JWT_SECRET"); ok && v != "" {
		c.Auth.JWTSecret = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup("MAX_OPEN_GIGS_PER_OWNER"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MAX_OPEN_GIGS_PER_OWNER: %w", err)
		}
		c.Marketplace.MaxOpenGigsPerOwner = n
	}

	return nil
}

func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret (or JWT_SECRET) must be set")
	}
	if c.Marketplace.MaxOpenGigsPerOwner < 1 {
		return errors.New("marketplace.max_open_gigs_per_owner must be positive")
	}

	switch c.Storage.Driver {
	case StorageDriverMemory:
	case StorageDriverPostgres:
		if c.Postgres.Conn == "" {
			return errors.New("postgres.conn (or POSTGRES_CONN) must be set for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	return nil
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenExpireHours) * time.Hour
}
