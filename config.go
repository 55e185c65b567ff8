package docsession

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/minus-twelve/docsession/types"
)

const (
	DefaultDatabaseName   = "docsession"
	DefaultCollectionName = "sessions"
	DefaultSweepInterval  = time.Minute
)

var (
	ErrInvalidLifetime   = errors.New("lifetime_minutes must be positive")
	ErrMissingCollection = errors.New("collection_name is required")
	ErrInvalidEnv        = errors.New("invalid environment override")
)

// LoadConfig reads a YAML config file, applies DOCSESSION_* environment overrides and
// defaults, and validates the result.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return ParseConfig(data)
}

func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	applyDefaults(&cfg)
	if err := ValidateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func ValidateConfig(cfg Config) error {
	switch cfg.StoreType {
	case types.StoreMemory, types.StoreMongo, types.StoreRedis, types.StorePostgres:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStoreType, cfg.StoreType)
	}
	if cfg.LifetimeMinutes <= 0 {
		return ErrInvalidLifetime
	}
	if cfg.CollectionName == "" {
		return ErrMissingCollection
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.StoreType == "" {
		cfg.StoreType = types.StoreMemory
	}
	if cfg.DatabaseName == "" {
		cfg.DatabaseName = DefaultDatabaseName
	}
	if cfg.CollectionName == "" {
		cfg.CollectionName = DefaultCollectionName
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = DefaultSweepInterval
	}
	if cfg.Redis.Prefix == "" {
		cfg.Redis.Prefix = "sess:"
	}
}

func applyEnv(cfg *Config) error {
	var err error
	cfg.StoreType = getenv("DOCSESSION_STORE_TYPE", cfg.StoreType)
	cfg.DatabaseName = getenv("DOCSESSION_DATABASE_NAME", cfg.DatabaseName)
	cfg.CollectionName = getenv("DOCSESSION_COLLECTION_NAME", cfg.CollectionName)
	if cfg.LifetimeMinutes, err = parseInt("DOCSESSION_LIFETIME_MINUTES", cfg.LifetimeMinutes); err != nil {
		return err
	}
	if cfg.OperationTimeout, err = parseDuration("DOCSESSION_OPERATION_TIMEOUT", cfg.OperationTimeout); err != nil {
		return err
	}
	cfg.Mongo.URI = getenv("DOCSESSION_MONGO_URI", cfg.Mongo.URI)
	cfg.Redis.Addr = getenv("DOCSESSION_REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getenv("DOCSESSION_REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Postgres.DSN = getenv("DOCSESSION_POSTGRES_DSN", cfg.Postgres.DSN)
	return nil
}

func getenv(key, def string) string {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	return val
}

func parseInt(key string, def int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return def, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return def, fmt.Errorf("%w: %s=%q", ErrInvalidEnv, key, val)
	}
	return n, nil
}

func parseDuration(key string, def time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return def, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return def, fmt.Errorf("%w: %s=%q", ErrInvalidEnv, key, val)
	}
	return d, nil
}
