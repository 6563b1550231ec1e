// Package config loads the application configuration from an optional YAML
// file, an optional .env file and the environment, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"blog-publication/internal/domain/entity"
	"blog-publication/internal/infra/db"
	env "blog-publication/pkg/config"
)

// Config is the complete application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Pagination PaginationConfig `yaml:"pagination"`
	Validation ValidationConfig `yaml:"validation"`
	Session    SessionConfig    `yaml:"session"`
	Security   SecurityConfig   `yaml:"security"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	// SecureCookies marks every cookie Secure. Enable behind TLS.
	SecureCookies bool `yaml:"secure_cookies"`
}

type DatabaseConfig struct {
	Driver          string        `yaml:"driver"` // "sqlite" or "pgx" ("postgres" is accepted)
	URL             string        `yaml:"url"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
}

// Pool returns the connection pool settings for db.Open.
func (d DatabaseConfig) Pool() db.ConnectionConfig {
	return db.ConnectionConfig{
		MaxOpenConns:    d.MaxOpenConns,
		MaxIdleConns:    d.MaxIdleConns,
		ConnMaxLifetime: d.ConnMaxLifetime,
		ConnMaxIdleTime: d.ConnMaxIdleTime,
	}
}

// Validate checks the driver and URL, normalizing the "postgres" alias.
func (d *DatabaseConfig) Validate() error {
	switch d.Driver {
	case "postgres":
		d.Driver = db.DriverPostgres
	case db.DriverPostgres, db.DriverSQLite:
	default:
		return fmt.Errorf("database driver %q is not supported", d.Driver)
	}
	if d.URL == "" {
		return errors.New("database url is required")
	}
	return nil
}

type PaginationConfig struct {
	ListPageSize   int `yaml:"list_page_size"`
	SearchPageSize int `yaml:"search_page_size"`
}

type ValidationConfig struct {
	CommentMaxLength int `yaml:"comment_max_length"`
}

// SessionConfig holds the cookie secrets. Each must be at least 32 bytes.
type SessionConfig struct {
	Secret       string        `yaml:"secret"`
	TTL          time.Duration `yaml:"ttl"`
	CSRFSecret   string        `yaml:"csrf_secret"`
	FlashHashKey string        `yaml:"flash_hash_key"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when nothing overrides it.
// Secrets have no default.
func Default() Config {
	pool := db.DefaultConnectionConfig()
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			RequestTimeout:  15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:          db.DriverSQLite,
			URL:             "file:blog.db",
			MaxOpenConns:    pool.MaxOpenConns,
			MaxIdleConns:    pool.MaxIdleConns,
			ConnMaxLifetime: pool.ConnMaxLifetime,
			ConnMaxIdleTime: pool.ConnMaxIdleTime,
		},
		Pagination: PaginationConfig{ListPageSize: 10, SearchPageSize: 15},
		Validation: ValidationConfig{CommentMaxLength: entity.DefaultCommentMaxLength},
		Session:    SessionConfig{TTL: 24 * time.Hour},
		Security:   DefaultSecurity(),
		Log:        LogConfig{Level: "info"},
	}
}

// Load reads the configuration and validates all of it.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	loadTimestamp.SetToCurrentTime()
	return cfg, nil
}

// Read builds the configuration without validating it, for tools that only
// need some sections. path names a YAML file; when empty the BLOG_CONFIG
// variable is consulted, and without either only defaults and the
// environment apply. A .env file in the working directory is loaded first if
// present; variables already set win over it.
func Read(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path == "" {
		path = os.Getenv("BLOG_CONFIG")
	}
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	return &cfg, nil
}

func (c *Config) readFile(path string) error {
	// #nosec G304 -- path comes from the operator (flag or BLOG_CONFIG)
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Addr = env.GetEnvString("HTTP_ADDR", c.Server.Addr)
	c.Server.RequestTimeout = env.GetEnvDuration("REQUEST_TIMEOUT", c.Server.RequestTimeout)
	c.Server.SecureCookies = env.GetEnvBool("SECURE_COOKIES", c.Server.SecureCookies)

	c.Database.Driver = env.GetEnvString("DB_DRIVER", c.Database.Driver)
	c.Database.URL = env.GetEnvString("DATABASE_URL", c.Database.URL)

	c.Pagination.ListPageSize = env.GetEnvInt("LIST_PAGE_SIZE", c.Pagination.ListPageSize)
	c.Pagination.SearchPageSize = env.GetEnvInt("SEARCH_PAGE_SIZE", c.Pagination.SearchPageSize)
	c.Validation.CommentMaxLength = env.GetEnvInt("COMMENT_MAX_LENGTH", c.Validation.CommentMaxLength)

	c.Session.Secret = env.GetEnvString("SESSION_SECRET", c.Session.Secret)
	c.Session.TTL = env.GetEnvDuration("SESSION_TTL", c.Session.TTL)
	c.Session.CSRFSecret = env.GetEnvString("CSRF_SECRET", c.Session.CSRFSecret)
	c.Session.FlashHashKey = env.GetEnvString("FLASH_HASH_KEY", c.Session.FlashHashKey)

	c.Security.CSPEnabled = env.GetEnvBool("CSP_ENABLED", c.Security.CSPEnabled)
	c.Security.CSPReportOnly = env.GetEnvBool("CSP_REPORT_ONLY", c.Security.CSPReportOnly)
	c.Security.CSPReportURI = env.GetEnvString("CSP_REPORT_URI", c.Security.CSPReportURI)
	c.Security.LoginRateLimit = env.GetEnvInt("LOGIN_RATE_LIMIT", c.Security.LoginRateLimit)
	c.Security.TrustedProxies = env.GetEnvStringList("TRUSTED_PROXIES", c.Security.TrustedProxies)

	c.Log.Level = env.GetEnvString("LOG_LEVEL", c.Log.Level)
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	checks := []struct {
		section string
		check   func() error
	}{
		{"server", c.validateServer},
		{"database", c.Database.Validate},
		{"pagination", c.validatePagination},
		{"session", c.validateSession},
		{"security", c.Security.Validate},
	}
	for _, ch := range checks {
		if err := ch.check(); err != nil {
			validationErrorsTotal.WithLabelValues(ch.section).Inc()
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Addr == "" {
		return errors.New("server addr is required")
	}
	if err := env.ValidateNonNegativeDuration(c.Server.RequestTimeout); err != nil {
		return fmt.Errorf("server request_timeout: %w", err)
	}
	if err := env.ValidatePositiveDuration(c.Server.ShutdownTimeout); err != nil {
		return fmt.Errorf("server shutdown_timeout: %w", err)
	}
	return nil
}

func (c *Config) validatePagination() error {
	if c.Pagination.ListPageSize < 1 {
		return fmt.Errorf("list_page_size must be at least 1, got %d", c.Pagination.ListPageSize)
	}
	if c.Pagination.SearchPageSize < 1 {
		return fmt.Errorf("search_page_size must be at least 1, got %d", c.Pagination.SearchPageSize)
	}
	// comments must stay shorter than articles
	if c.Validation.CommentMaxLength < 1 || c.Validation.CommentMaxLength >= entity.ContentMaxLength {
		return fmt.Errorf("comment_max_length must be between 1 and %d, got %d",
			entity.ContentMaxLength-1, c.Validation.CommentMaxLength)
	}
	return nil
}

func (c *Config) validateSession() error {
	if err := env.ValidateDurationRange(c.Session.TTL, time.Minute, 30*24*time.Hour); err != nil {
		return fmt.Errorf("session ttl: %w", err)
	}
	secrets := []struct{ name, value string }{
		{"SESSION_SECRET", c.Session.Secret},
		{"CSRF_SECRET", c.Session.CSRFSecret},
		{"FLASH_HASH_KEY", c.Session.FlashHashKey},
	}
	for _, s := range secrets {
		if err := validateSecret(s.value); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}
