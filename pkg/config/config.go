package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "storefront"

// Env variable names, exported so tests can set them without drifting from
// the struct tags.
const (
	EnvAppEnv     = "STOREFRONT_APP_ENV"
	EnvLogLevel   = "STOREFRONT_LOG_LEVEL"
	EnvAPIBaseURL = "STOREFRONT_API_BASE_URL"
	EnvCacheStore = "STOREFRONT_CACHE_STORE"
	EnvCacheTTL   = "STOREFRONT_CACHE_TTL"
	EnvRedisURL   = "STOREFRONT_REDIS_URL"
	EnvLocalPath  = "STOREFRONT_LOCAL_STORE_PATH"
)

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"

	CacheStoreRedis = "redis"
	CacheStoreLocal = "local"
)

type Config struct {
	App   AppConfig
	API   APIConfig
	Cache CacheConfig
	Redis RedisConfig
	Local LocalStoreConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if _, err := url.ParseRequestURI(c.API.BaseURL); err != nil {
		return fmt.Errorf("invalid api base url %q: %w", c.API.BaseURL, err)
	}
	switch c.Cache.Store {
	case CacheStoreRedis:
		if c.Redis.URL == "" && c.Redis.Address == "" {
			return fmt.Errorf("cache store %q requires a redis url or address", c.Cache.Store)
		}
	case CacheStoreLocal:
		if c.Local.Path == "" {
			return fmt.Errorf("cache store %q requires a local store path", c.Cache.Store)
		}
	default:
		return fmt.Errorf("unknown cache store %q", c.Cache.Store)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache ttl must be positive, got %s", c.Cache.TTL)
	}
	return nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" default:"development"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"STOREFRONT_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type APIConfig struct {
	BaseURL       string        `envconfig:"STOREFRONT_API_BASE_URL" required:"true"`
	Timeout       time.Duration `envconfig:"STOREFRONT_API_TIMEOUT" default:"15s"`
	SessionCookie string        `envconfig:"STOREFRONT_API_SESSION_COOKIE"`
	CheckoutKeyID string        `envconfig:"STOREFRONT_CHECKOUT_KEY_ID"`
}

type CacheConfig struct {
	// Store selects the shuffle-cache backend: "redis" or "local".
	Store string        `envconfig:"STOREFRONT_CACHE_STORE" default:"local"`
	TTL   time.Duration `envconfig:"STOREFRONT_CACHE_TTL" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type LocalStoreConfig struct {
	Path string `envconfig:"STOREFRONT_LOCAL_STORE_PATH" default:"storefront.db"`
}
