package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Position  PositionConfig  `yaml:"position"`
	Map       MapConfig       `yaml:"map"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Auth      AuthConfig      `yaml:"auth"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig selects the flat key-value store holding the workout list.
type StorageConfig struct {
	Driver       string         `yaml:"driver"` // sqlite, postgres, redis, memory
	Key          string         `yaml:"key"`
	SQLitePath   string         `yaml:"sqlite_path"`
	Postgres     DatabaseConfig `yaml:"postgres"`
	Redis        RedisConfig    `yaml:"redis"`
	SaveAttempts int            `yaml:"save_attempts"`
	SaveBackoff  time.Duration  `yaml:"save_backoff"`
}

type DatabaseConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	Name       string `yaml:"name"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	SSLMode    string `yaml:"sslmode"`
	Migrations string `yaml:"migrations"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// PositionConfig describes where the session's starting fix comes from.
type PositionConfig struct {
	Provider     string        `yaml:"provider"` // static, http, none
	Latitude     *float64      `yaml:"latitude"`
	Longitude    *float64      `yaml:"longitude"`
	URL          string        `yaml:"url"`
	Timeout      time.Duration `yaml:"timeout"`
	HighAccuracy *bool         `yaml:"high_accuracy"`
}

type MapConfig struct {
	Zoom    int    `yaml:"zoom"`
	TileURL string `yaml:"tile_url"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

const defaultTileURL = "https://server.arcgisonline.com/ArcGIS/rest/services/World_Imagery/MapServer/tile/{z}/{y}/{x}"

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// HighAccuracyEnabled defaults to true when the field is omitted.
func (p PositionConfig) HighAccuracyEnabled() bool {
	return p.HighAccuracy == nil || *p.HighAccuracy
}

// Fix returns the configured static position. Only meaningful after
// validation has required both coordinates.
func (p PositionConfig) Fix() (lat, lng float64) {
	if p.Latitude != nil {
		lat = *p.Latitude
	}
	if p.Longitude != nil {
		lng = *p.Longitude
	}
	return lat, lng
}

// Load reads config from a YAML file, applies defaults, then environment
// variable overrides. Env vars use the prefix MAPTY_:
//
//	MAPTY_SERVER_HOST, MAPTY_SERVER_PORT,
//	MAPTY_STORAGE_DRIVER, MAPTY_STORAGE_KEY, MAPTY_SQLITE_PATH,
//	MAPTY_DB_HOST, MAPTY_DB_PORT, MAPTY_DB_NAME, MAPTY_DB_USER,
//	MAPTY_DB_PASSWORD, MAPTY_DB_SSLMODE,
//	MAPTY_REDIS_ADDR, MAPTY_REDIS_PASSWORD,
//	MAPTY_POSITION_PROVIDER, MAPTY_POSITION_URL,
//	MAPTY_AUTH_API_KEY
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "sqlite"
	}
	if cfg.Storage.Key == "" {
		cfg.Storage.Key = "workouts"
	}
	if cfg.Storage.SQLitePath == "" {
		cfg.Storage.SQLitePath = "mapty.db"
	}
	if cfg.Storage.SaveAttempts == 0 {
		cfg.Storage.SaveAttempts = 1
	}
	if cfg.Storage.Postgres.Migrations == "" {
		cfg.Storage.Postgres.Migrations = "migrations"
	}
	// Without a configured fix the session starts as if geolocation were
	// unsupported.
	if cfg.Position.Provider == "" {
		if cfg.Position.Latitude != nil || cfg.Position.Longitude != nil {
			cfg.Position.Provider = "static"
		} else {
			cfg.Position.Provider = "none"
		}
	}
	if cfg.Position.Timeout == 0 {
		cfg.Position.Timeout = 5 * time.Second
	}
	if cfg.Map.Zoom == 0 {
		cfg.Map.Zoom = 15
	}
	if cfg.Map.TileURL == "" {
		cfg.Map.TileURL = defaultTileURL
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MAPTY_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("MAPTY_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("MAPTY_STORAGE_DRIVER"); v != "" {
		cfg.Storage.Driver = v
	}
	if v := os.Getenv("MAPTY_STORAGE_KEY"); v != "" {
		cfg.Storage.Key = v
	}
	if v := os.Getenv("MAPTY_SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}
	if v := os.Getenv("MAPTY_DB_HOST"); v != "" {
		cfg.Storage.Postgres.Host = v
	}
	if v := os.Getenv("MAPTY_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Storage.Postgres.Port = port
		}
	}
	if v := os.Getenv("MAPTY_DB_NAME"); v != "" {
		cfg.Storage.Postgres.Name = v
	}
	if v := os.Getenv("MAPTY_DB_USER"); v != "" {
		cfg.Storage.Postgres.User = v
	}
	if v := os.Getenv("MAPTY_DB_PASSWORD"); v != "" {
		cfg.Storage.Postgres.Password = v
	}
	if v := os.Getenv("MAPTY_DB_SSLMODE"); v != "" {
		cfg.Storage.Postgres.SSLMode = v
	}
	if v := os.Getenv("MAPTY_REDIS_ADDR"); v != "" {
		cfg.Storage.Redis.Addr = v
	}
	if v := os.Getenv("MAPTY_REDIS_PASSWORD"); v != "" {
		cfg.Storage.Redis.Password = v
	}
	if v := os.Getenv("MAPTY_POSITION_PROVIDER"); v != "" {
		cfg.Position.Provider = v
	}
	if v := os.Getenv("MAPTY_POSITION_URL"); v != "" {
		cfg.Position.URL = v
	}
	if v := os.Getenv("MAPTY_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	switch c.Storage.Driver {
	case "sqlite", "memory":
	case "postgres":
		if c.Storage.Postgres.Host == "" {
			return fmt.Errorf("storage.postgres.host is required")
		}
		if c.Storage.Postgres.Port == 0 {
			return fmt.Errorf("storage.postgres.port is required")
		}
		if c.Storage.Postgres.Name == "" {
			return fmt.Errorf("storage.postgres.name is required")
		}
		if c.Storage.Postgres.User == "" {
			return fmt.Errorf("storage.postgres.user is required")
		}
	case "redis":
		if c.Storage.Redis.Addr == "" {
			return fmt.Errorf("storage.redis.addr is required")
		}
	default:
		return fmt.Errorf("storage.driver %q is not supported", c.Storage.Driver)
	}
	if c.Storage.SaveAttempts < 1 {
		return fmt.Errorf("storage.save_attempts must be at least 1")
	}
	switch c.Position.Provider {
	case "none":
	case "static":
		if c.Position.Latitude == nil || c.Position.Longitude == nil {
			return fmt.Errorf("position.latitude and position.longitude are required for the static provider")
		}
	case "http":
		if c.Position.URL == "" {
			return fmt.Errorf("position.url is required for the http provider")
		}
	default:
		return fmt.Errorf("position.provider %q is not supported", c.Position.Provider)
	}
	if lat := c.Position.Latitude; lat != nil && (math.IsNaN(*lat) || *lat < -90 || *lat > 90) {
		return fmt.Errorf("position.latitude %v out of range", *lat)
	}
	if lng := c.Position.Longitude; lng != nil && (math.IsNaN(*lng) || *lng < -180 || *lng > 180) {
		return fmt.Errorf("position.longitude %v out of range", *lng)
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	return nil
}
