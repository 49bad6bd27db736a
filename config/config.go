package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App      AppConfig      `yaml:"app"`
	HTTP     HTTPConfig     `yaml:"http"`
	GRPC     GRPCConfig     `yaml:"grpc"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Auth     AuthConfig     `yaml:"auth"`
	Search   SearchConfig   `yaml:"search"`
	Worker   WorkerConfig   `yaml:"worker"`
}

type AppConfig struct {
	Env string `yaml:"env"`
}

type HTTPConfig struct {
	Address            string   `yaml:"address"`
	SwaggerDir         string   `yaml:"swagger_dir"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	ShutdownSeconds    int      `yaml:"shutdown_timeout_seconds"`
}

func (h HTTPConfig) ShutdownTimeout() time.Duration {
	return time.Duration(h.ShutdownSeconds) * time.Second
}

type GRPCConfig struct {
	Address string `yaml:"address"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers      []string `yaml:"brokers"`
	CatalogTopic string   `yaml:"catalog_topic"`
	GroupID      string   `yaml:"group_id"`
	PublishRetry int      `yaml:"publish_retries"`
}

type AuthConfig struct {
	SessionTTLMinutes int `yaml:"session_ttl_minutes"`
	BcryptCost        int `yaml:"bcrypt_cost"`
}

func (a AuthConfig) SessionTTL() time.Duration {
	return time.Duration(a.SessionTTLMinutes) * time.Minute
}

type SearchConfig struct {
	FlightsCacheTTLSeconds int     `yaml:"flights_cache_ttl_seconds"`
	FaresCacheTTLSeconds   int     `yaml:"fares_cache_ttl_seconds"`
	FareLoadConcurrency    int     `yaml:"fare_load_concurrency"`
	RateLimitRPS           float64 `yaml:"rate_limit_rps"`
	RateLimitBurst         int     `yaml:"rate_limit_burst"`
}

func (s SearchConfig) FlightsCacheTTL() time.Duration {
	return time.Duration(s.FlightsCacheTTLSeconds) * time.Second
}

func (s SearchConfig) FaresCacheTTL() time.Duration {
	return time.Duration(s.FaresCacheTTLSeconds) * time.Second
}

type WorkerConfig struct {
	CacheWarmIntervalSeconds int `yaml:"cache_warm_interval_seconds"`
}

func (w WorkerConfig) CacheWarmInterval() time.Duration {
	return time.Duration(w.CacheWarmIntervalSeconds) * time.Second
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.App.Env = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.HTTP.Address == "" {
		cfg.HTTP.Address = ":8080"
	}
	if cfg.HTTP.ShutdownSeconds <= 0 {
		cfg.HTTP.ShutdownSeconds = 10
	}
	if cfg.GRPC.Address == "" {
		cfg.GRPC.Address = ":9090"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Kafka.CatalogTopic == "" {
		cfg.Kafka.CatalogTopic = "catalog-events"
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = "flightsearch-worker"
	}
	if cfg.Kafka.PublishRetry <= 0 {
		cfg.Kafka.PublishRetry = 3
	}
	if cfg.Auth.SessionTTLMinutes <= 0 {
		cfg.Auth.SessionTTLMinutes = 24 * 60
	}
	if cfg.Auth.BcryptCost <= 0 {
		cfg.Auth.BcryptCost = 10
	}
	if cfg.Search.FlightsCacheTTLSeconds <= 0 {
		cfg.Search.FlightsCacheTTLSeconds = 60
	}
	if cfg.Search.FaresCacheTTLSeconds <= 0 {
		cfg.Search.FaresCacheTTLSeconds = 30
	}
	if cfg.Search.FareLoadConcurrency <= 0 {
		cfg.Search.FareLoadConcurrency = 4
	}
	if cfg.Search.RateLimitRPS <= 0 {
		cfg.Search.RateLimitRPS = 20
	}
	if cfg.Search.RateLimitBurst <= 0 {
		cfg.Search.RateLimitBurst = 40
	}
	if cfg.Worker.CacheWarmIntervalSeconds <= 0 {
		cfg.Worker.CacheWarmIntervalSeconds = 300
	}
}
