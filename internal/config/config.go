// Package config loads the dashboard configuration from YAML, applies
// defaults, and lets environment variables supply the credentials so they
// never have to be committed alongside the file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/koustreak/chococrunch/internal/database"
	"github.com/koustreak/chococrunch/internal/filestore"
	"github.com/koustreak/chococrunch/internal/logger"
)

// Config is the top-level configuration structure.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Log       logger.Config   `yaml:"log"`
	Filestore FilestoreConfig `yaml:"filestore"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`             // default ":8501"
	ReadTimeout     time.Duration `yaml:"read_timeout"`     // default 10s
	WriteTimeout    time.Duration `yaml:"write_timeout"`    // default 60s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // default 15s
	RequestTimeout  time.Duration `yaml:"request_timeout"`  // default 0 (none)
}

// DatabaseConfig keeps the key names of the secrets file the dashboard has
// always been deployed with (db_host, db_user, db_pass, db_name).
type DatabaseConfig struct {
	Host           string        `yaml:"db_host"`
	Port           int           `yaml:"db_port"`
	User           string        `yaml:"db_user"`
	Password       string        `yaml:"db_pass"`
	Name           string        `yaml:"db_name"`
	MaxConns       int           `yaml:"max_conns"`       // default 1
	ConnectTimeout time.Duration `yaml:"connect_timeout"` // default 10s
	QueryTimeout   time.Duration `yaml:"query_timeout"`   // default 0 (none)
}

// FilestoreConfig enables archiving exported reports to an object bucket.
// Leaving Endpoint empty disables the feature.
type FilestoreConfig struct {
	Endpoint  string        `yaml:"endpoint"`
	AccessKey string        `yaml:"access_key"`
	SecretKey string        `yaml:"secret_key"`
	UseSSL    bool          `yaml:"use_ssl"`
	Region    string        `yaml:"region"`
	Bucket    string        `yaml:"bucket"`
	LinkTTL   time.Duration `yaml:"link_ttl"` // presigned URL lifetime, default 24h
}

// Enabled reports whether a filestore is configured.
func (f FilestoreConfig) Enabled() bool {
	return f.Endpoint != ""
}

// Environment variables that override the file.
const (
	EnvDBHost      = "CHOCO_DB_HOST"
	EnvDBPort      = "CHOCO_DB_PORT"
	EnvDBUser      = "CHOCO_DB_USER"
	EnvDBPass      = "CHOCO_DB_PASS"
	EnvDBName      = "CHOCO_DB_NAME"
	EnvS3AccessKey = "CHOCO_S3_ACCESS_KEY"
	EnvS3SecretKey = "CHOCO_S3_SECRET_KEY"
)

// Default returns a Config with every default applied and no credentials.
func Default() *Config {
	dbDefaults := database.DefaultConfig()
	return &Config{
		Server: ServerConfig{
			Addr:            ":8501",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			MaxConns:       dbDefaults.MaxConns,
			ConnectTimeout: dbDefaults.ConnectTimeout,
			QueryTimeout:   dbDefaults.QueryTimeout,
		},
		Log: logger.Config{
			Level:      "info",
			Format:     "json",
			TimeFormat: "rfc3339",
		},
		Filestore: FilestoreConfig{
			Bucket:  "chococrunch-reports",
			LinkTTL: 24 * time.Hour,
		},
	}
}

// Load reads the YAML config at path, applies defaults and environment
// overrides, and validates the result. An empty path skips the file, so a
// deployment can run on environment variables alone.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %q: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := map[string]*string{
		EnvDBHost:      &c.Database.Host,
		EnvDBUser:      &c.Database.User,
		EnvDBPass:      &c.Database.Password,
		EnvDBName:      &c.Database.Name,
		EnvS3AccessKey: &c.Filestore.AccessKey,
		EnvS3SecretKey: &c.Filestore.SecretKey,
	}
	for env, dst := range str {
		if v, ok := lookup(env); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookup(EnvDBPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvDBPort, err)
		}
		c.Database.Port = port
	}
	return nil
}

// Validate rejects configurations the dashboard cannot start with.
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("config: database.db_host is required (or set %s)", EnvDBHost)
	}
	if c.Database.User == "" {
		return fmt.Errorf("config: database.db_user is required (or set %s)", EnvDBUser)
	}
	if c.Database.Name == "" {
		return fmt.Errorf("config: database.db_name is required (or set %s)", EnvDBName)
	}
	if c.Database.Port < 0 || c.Database.Port > 65535 {
		return fmt.Errorf("config: database.db_port %d out of range", c.Database.Port)
	}
	if c.Filestore.Enabled() && c.Filestore.Bucket == "" {
		return fmt.Errorf("config: filestore.bucket is required when filestore.endpoint is set")
	}
	return nil
}

// DatabaseConfig converts the file section into the driver config.
func (c *Config) DatabaseConfig() *database.Config {
	d := database.DefaultConfig()
	d.Host = c.Database.Host
	d.Port = c.Database.Port
	d.User = c.Database.User
	d.Password = c.Database.Password
	d.Name = c.Database.Name
	if c.Database.MaxConns > 0 {
		d.MaxConns = c.Database.MaxConns
		d.MaxIdleConns = c.Database.MaxConns
	}
	d.ConnectTimeout = c.Database.ConnectTimeout
	d.QueryTimeout = c.Database.QueryTimeout
	return d
}

// FilestoreConfig converts the file section into the store config.
func (c *Config) FilestoreConfig() *filestore.Config {
	fc := filestore.DefaultConfig(c.Filestore.Endpoint, c.Filestore.AccessKey, c.Filestore.SecretKey)
	fc.UseSSL = c.Filestore.UseSSL
	fc.Region = c.Filestore.Region
	fc.DefaultBucket = c.Filestore.Bucket
	return fc
}
