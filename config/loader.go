package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"bggapi/utils"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Load builds the server configuration. Sources, lowest priority first:
// defaults, the YAML file named by CONFIG_FILE, environment variables
// (a .env file is loaded into the environment when present). The port is
// then resolved from args, PORT and the value built so far.
func Load(args []string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		utils.Log.Debug("No .env file found")
	}

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.Port = ResolvePort(args, os.Getenv("PORT"), cfg.Port)

	if err := utils.ValidateStruct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// loadFile reads a YAML config file and expands ${VAR} references.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), c); err != nil {
		return fmt.Errorf("parse config yaml: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	envString("GIN_MODE", &c.Mode)
	envString("LOG_LEVEL", &c.LogLevel)
	envString("LOG_FILE", &c.LogFile)
	envString("METRICS_ADDR", &c.MetricsAddr)
	if v := os.Getenv("CORS_ALLOW_ORIGINS"); v != "" {
		c.CORSOrigins = splitList(v)
	}

	envString("DB_DRIVER", &c.SQL.Driver)
	envString("MYSQL_SERVER", &c.SQL.Host)
	envString("MYSQL_USERNAME", &c.SQL.User)
	envString("MYSQL_PASSWORD", &c.SQL.Password)
	envString("MYSQL_DATABASE", &c.SQL.Database)
	envString("DB_SSLMODE", &c.SQL.SSLMode)

	envString("MONGO_URL", &c.Mongo.URL)
	envString("MONGO_DATABASE", &c.Mongo.Database)
	envString("MONGO_COLLECTION", &c.Mongo.Collection)

	envString("REDIS_URL", &c.Redis.Addr)
	envString("REDIS_PASSWORD", &c.Redis.Password)

	ints := []struct {
		key string
		dst *int
	}{
		{"MYSQL_SERVER_PORT", &c.SQL.Port},
		{"MYSQL_CONN_LIMIT", &c.SQL.MaxConns},
		{"STARTUP_ATTEMPTS", &c.StartupAttempts},
	}
	for _, e := range ints {
		if err := envInt(e.key, e.dst); err != nil {
			return err
		}
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"QUERY_TIMEOUT", &c.QueryTimeout},
		{"STARTUP_BACKOFF", &c.StartupBackoff},
		{"CACHE_TTL", &c.Redis.TTL},
	}
	for _, e := range durations {
		if err := envDuration(e.key, e.dst); err != nil {
			return err
		}
	}
	return nil
}

func envString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("parse %s: %w", key, err)
	}
	*dst = n
	return nil
}

func envDuration(key string, dst *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("parse %s: %w", key, err)
	}
	*dst = d
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
