package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"broadcaster/internal/adapters/redis"
)

// AppConfig holds application-level configuration.
type AppConfig struct {
	Backend BackendConfig
	Auth    AuthConfig
	Redis   redis.Config
	Cache   CacheConfig
	History HistoryConfig
	Metrics MetricsConfig
}

// BackendConfig holds the dashboard REST API settings.
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

// AuthConfig holds hosted auth provider settings.
// AccessToken wins over password credentials when both are set.
type AuthConfig struct {
	URL         string
	APIKey      string
	Email       string
	Password    string
	AccessToken string
	SecretName  string // AWS Secrets Manager secret holding email/password
	Timeout     time.Duration
}

// CacheConfig controls the session template cache.
type CacheConfig struct {
	TemplateTTL time.Duration
}

// HistoryConfig controls history polling.
type HistoryConfig struct {
	PollInterval time.Duration
}

// MetricsConfig controls the Prometheus endpoint. Empty Addr disables it.
type MetricsConfig struct {
	Addr string
}

// LoadFromEnv loads configuration from environment variables with sensible
// defaults. A .env file in the working directory is read first when present.
func LoadFromEnv() (*AppConfig, error) {
	_ = godotenv.Load(".env")

	redisCfg := redis.Config{
		Addr:         os.Getenv("REDIS_ADDR"),
		Password:     os.Getenv("REDIS_PASSWORD"),
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	}

	if elasticacheEndpoint := os.Getenv("ELASTICACHE_ENDPOINT"); elasticacheEndpoint != "" {
		redisCfg.Addr = elasticacheEndpoint
	}

	if os.Getenv("ELASTICACHE_CLUSTER_MODE") == "true" {
		redisCfg.ClusterMode = true
	}

	if sentinelAddrs := os.Getenv("ELASTICACHE_SENTINEL_ADDRS"); sentinelAddrs != "" {
		redisCfg.SentinelAddrs = strings.Split(sentinelAddrs, ",")
		redisCfg.MasterName = os.Getenv("ELASTICACHE_MASTER_NAME")
	}

	cfg := &AppConfig{
		Backend: BackendConfig{
			BaseURL: strings.TrimSuffix(getEnvOrDefault("BROADCASTER_API_URL", "http://localhost:3001"), "/"),
			Timeout: parseDuration(os.Getenv("BROADCASTER_API_TIMEOUT"), 30*time.Second),
		},
		Auth: AuthConfig{
			URL:         strings.TrimSuffix(os.Getenv("BROADCASTER_AUTH_URL"), "/"),
			APIKey:      os.Getenv("BROADCASTER_AUTH_API_KEY"),
			Email:       os.Getenv("BROADCASTER_EMAIL"),
			Password:    os.Getenv("BROADCASTER_PASSWORD"),
			AccessToken: os.Getenv("BROADCASTER_ACCESS_TOKEN"),
			SecretName:  os.Getenv("BROADCASTER_AUTH_SECRET_NAME"),
			Timeout:     10 * time.Second,
		},
		Redis: redisCfg,
		Cache: CacheConfig{
			TemplateTTL: parseDuration(os.Getenv("TEMPLATE_CACHE_TTL"), 30*time.Minute),
		},
		History: HistoryConfig{
			PollInterval: parseDuration(os.Getenv("HISTORY_POLL_INTERVAL"), 10*time.Second),
		},
		Metrics: MetricsConfig{
			Addr: os.Getenv("METRICS_ADDR"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// RedisEnabled reports whether a Redis template cache is configured.
func (c *AppConfig) RedisEnabled() bool {
	return c.Redis.Addr != "" || len(c.Redis.SentinelAddrs) > 0
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
