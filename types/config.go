package types

import "time"

const (
	StoreMemory   = "memory"
	StoreMongo    = "mongo"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

type Config struct {
	StoreType        string        `yaml:"store_type"`
	DatabaseName     string        `yaml:"database_name"`
	CollectionName   string        `yaml:"collection_name"`
	LifetimeMinutes  int           `yaml:"lifetime_minutes"`
	OperationTimeout time.Duration `yaml:"operation_timeout"`
	SweepInterval    time.Duration `yaml:"sweep_interval"`
	ForceSweep       bool          `yaml:"force_sweep"`
	Memory           struct {
		MaxSessions int `yaml:"max_sessions"`
	} `yaml:"memory"`
	Mongo    MongoConfig    `yaml:"mongo"`
	Redis    RedisConfig    `yaml:"redis"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// Lifetime is LifetimeMinutes as a duration.
func (c Config) Lifetime() time.Duration {
	return time.Duration(c.LifetimeMinutes) * time.Minute
}

type MongoConfig struct {
	URI            string        `yaml:"uri"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}
