package internal

import (
	"errors"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"http_server"`
	Database DatabaseConfig `mapstructure:"database"`
	App      AppConfig      `mapstructure:"app"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	AllowedOrigins string        `mapstructure:"allowed_origins"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	Source       string `mapstructure:"source"`
}

// AppConfig carries the domain settings. GhostID/GhostName identify the
// suppressed actor: the account that never generates notifications and can
// never be suspended or deleted. AllowOffline controls whether an
// unreachable store degrades the service into local-only mode instead of
// refusing to start.
type AppConfig struct {
	Env           string        `mapstructure:"env"`
	SessionSecret string        `mapstructure:"session_secret"`
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
	GhostID       string        `mapstructure:"ghost_id"`
	GhostName     string        `mapstructure:"ghost_name"`
	AllowOffline  bool          `mapstructure:"allow_offline"`
}

func (c *Config) Validate() error {
	if c.App.SessionSecret == "" {
		return errors.New("app.session_secret is required")
	}
	if c.Database.Source == "" && !c.App.AllowOffline {
		return errors.New("database.source is required unless app.allow_offline is set")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.App.SessionTTL == 0 {
		c.App.SessionTTL = 12 * time.Hour
	}
	if c.App.GhostID == "" {
		c.App.GhostID = "master_main"
	}
	if c.App.GhostName == "" {
		c.App.GhostName = "ADM"
	}
}

// Finalize applies defaults and validates; called by every loading path.
func (c *Config) Finalize() error {
	c.applyDefaults()
	return c.Validate()
}

// LoadConfigFromEnv builds the configuration from environment variables,
// used for container deployments where no config file is mounted.
func LoadConfigFromEnv() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port:           envInt("SERVER_PORT", 8080),
			AllowedOrigins: os.Getenv("SERVER_ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			Source:       os.Getenv("DATABASE_SOURCE"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		App: AppConfig{
			Env:           os.Getenv("APP_ENV"),
			SessionSecret: os.Getenv("APP_SESSION_SECRET"),
			GhostID:       os.Getenv("APP_GHOST_ID"),
			GhostName:     os.Getenv("APP_GHOST_NAME"),
			AllowOffline:  os.Getenv("APP_ALLOW_OFFLINE") == "true",
		},
	}
	return cfg
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
