package config

import (
	"strconv"
	"strings"
	"time"
)

// DefaultPort is used when neither the command line nor PORT name a valid port.
const DefaultPort = 3000

// Config is the server configuration.
type Config struct {
	Port            int           `yaml:"port" validate:"gte=1,lte=65535"`
	Mode            string        `yaml:"mode" validate:"omitempty,oneof=debug release test"`
	LogLevel        string        `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
	LogFile         string        `yaml:"log_file"`
	QueryTimeout    time.Duration `yaml:"query_timeout" validate:"gte=0"`
	StartupAttempts int           `yaml:"startup_attempts" validate:"gte=1"`
	StartupBackoff  time.Duration `yaml:"startup_backoff" validate:"gte=0"`
	MetricsAddr     string        `yaml:"metrics_addr"`
	CORSOrigins     []string      `yaml:"cors_allow_origins"`

	SQL   SQLConfig   `yaml:"sql"`
	Mongo MongoConfig `yaml:"mongo"`
	Redis RedisConfig `yaml:"redis"`
}

// SQLConfig holds the relational store settings.
type SQLConfig struct {
	Driver   string `yaml:"driver" validate:"oneof=mysql postgres"`
	Host     string `yaml:"host" validate:"required"`
	Port     int    `yaml:"port" validate:"gte=1,lte=65535"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database" validate:"required"`
	MaxConns int    `yaml:"max_conns" validate:"gte=1"`
	SSLMode  string `yaml:"ssl_mode"` // postgres only
}

// MongoConfig holds the document store settings.
type MongoConfig struct {
	URL        string `yaml:"url" validate:"required"`
	Database   string `yaml:"database" validate:"required"`
	Collection string `yaml:"collection" validate:"required"`
}

// RedisConfig holds the optional response cache settings. An empty Addr
// disables the cache.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	TTL      time.Duration `yaml:"ttl" validate:"gte=0"`
}

// Enabled reports whether a Redis address is configured.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Port:            DefaultPort,
		LogLevel:        "info",
		QueryTimeout:    10 * time.Second,
		StartupAttempts: 3,
		StartupBackoff:  time.Second,
		SQL: SQLConfig{
			Driver:   "mysql",
			Host:     "localhost",
			Port:     3306,
			User:     "root",
			Database: "bgg",
			MaxConns: 4,
			SSLMode:  "disable",
		},
		Mongo: MongoConfig{
			URL:        "mongodb://localhost:27017",
			Database:   "bgg",
			Collection: "reviews",
		},
		Redis: RedisConfig{
			TTL: time.Minute,
		},
	}
}

// ResolvePort returns the first valid port among the first command line
// argument and the PORT value, falling back to fallback.
func ResolvePort(args []string, envPort string, fallback int) int {
	candidates := make([]string, 0, 2)
	if len(args) > 0 {
		candidates = append(candidates, args[0])
	}
	candidates = append(candidates, envPort)

	for _, c := range candidates {
		port, err := strconv.Atoi(strings.TrimSpace(c))
		if err == nil && port > 0 && port <= 65535 {
			return port
		}
	}
	return fallback
}
