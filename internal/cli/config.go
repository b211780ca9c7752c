package cli

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/petrijr/canvas"
	"github.com/petrijr/canvas/internal/workflow"
)

// Backend names accepted by --backend.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMongo    = "mongo"
)

// Config holds the settings of the canvas binary.
type Config struct {
	Backend  string        `mapstructure:"backend"`
	DSN      string        `mapstructure:"dsn"`
	Key      string        `mapstructure:"key"`
	Codec    string        `mapstructure:"codec"`
	Cache    bool          `mapstructure:"cache"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
	LogLevel string        `mapstructure:"log_level"`

	Redis RedisConfig `mapstructure:"redis"`
	Mongo MongoConfig `mapstructure:"mongo"`
}

// RedisConfig holds Redis-specific settings.
type RedisConfig struct {
	Prefix string `mapstructure:"prefix"`
}

// MongoConfig holds MongoDB-specific settings.
type MongoConfig struct {
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Backend:  BackendSQLite,
		DSN:      "canvas.db",
		Key:      canvas.DefaultKey,
		Codec:    "json",
		CacheTTL: 10 * time.Minute,
		LogLevel: "warn",
		Redis:    RedisConfig{Prefix: "canvas:"},
		Mongo:    MongoConfig{Database: "canvas", Collection: "workflows"},
	}
}

func setDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("backend", d.Backend)
	v.SetDefault("dsn", d.DSN)
	v.SetDefault("key", d.Key)
	v.SetDefault("codec", d.Codec)
	v.SetDefault("cache", d.Cache)
	v.SetDefault("cache_ttl", d.CacheTTL)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("redis.prefix", d.Redis.Prefix)
	v.SetDefault("mongo.database", d.Mongo.Database)
	v.SetDefault("mongo.collection", d.Mongo.Collection)
}

// Validate checks the values that can be checked without connecting.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendMemory, BackendSQLite, BackendPostgres, BackendRedis, BackendMongo:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.Backend != BackendMemory && c.DSN == "" {
		return fmt.Errorf("backend %q needs --dsn", c.Backend)
	}
	if c.Key == "" {
		return fmt.Errorf("key must not be empty")
	}
	if _, err := workflow.CodecByName(c.Codec); err != nil {
		return err
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return l, nil
}
