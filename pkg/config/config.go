package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Backend       BackendConfig
	Redis         RedisConfig
	JWT           JWTConfig
	AuthRateLimit AuthRateLimitConfig
	Verification  VerificationConfig
	Session       SessionConfig
	Catalog       CatalogConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SALONPOS_APP_ENV" required:"true"`
	Port         string `envconfig:"SALONPOS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SALONPOS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SALONPOS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// BackendConfig points the terminal at the salon backend that owns the
// catalog, customer directory, transactions, receipts and messaging.
type BackendConfig struct {
	BaseURL  string        `envconfig:"SALONPOS_BACKEND_BASE_URL" required:"true"`
	APIToken string        `envconfig:"SALONPOS_BACKEND_API_TOKEN"`
	Timeout  time.Duration `envconfig:"SALONPOS_BACKEND_TIMEOUT" default:"10s"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SALONPOS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SALONPOS_REDIS_ADDR"`
	Password     string        `envconfig:"SALONPOS_REDIS_PASSWORD"`
	DB           int           `envconfig:"SALONPOS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SALONPOS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SALONPOS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SALONPOS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SALONPOS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SALONPOS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SALONPOS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SALONPOS_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"SALONPOS_JWT_EXPIRATION_MINUTES" default:"720"`
}

// AuthRateLimitConfig throttles sign-on attempts per source IP and per
// employee id.
type AuthRateLimitConfig struct {
	SignOnWindow        time.Duration `envconfig:"SALONPOS_SIGNON_RATE_WINDOW" default:"1m"`
	SignOnIPLimit       int           `envconfig:"SALONPOS_SIGNON_IP_LIMIT" default:"20"`
	SignOnEmployeeLimit int           `envconfig:"SALONPOS_SIGNON_EMPLOYEE_LIMIT" default:"5"`
}

// VerificationConfig tunes the phone-verification workflow.
type VerificationConfig struct {
	DebounceWindow time.Duration `envconfig:"SALONPOS_VERIFY_DEBOUNCE_WINDOW" default:"500ms"`
	LookupTimeout  time.Duration `envconfig:"SALONPOS_VERIFY_LOOKUP_TIMEOUT" default:"8s"`
}

// SessionConfig tunes terminal session lifetimes.
type SessionConfig struct {
	TTL           time.Duration `envconfig:"SALONPOS_SESSION_TTL" default:"12h"`
	SweepInterval time.Duration `envconfig:"SALONPOS_SESSION_SWEEP_INTERVAL" default:"5m"`
}

// CatalogConfig tunes the read-through catalog cache.
type CatalogConfig struct {
	CacheTTL time.Duration `envconfig:"SALONPOS_CATALOG_CACHE_TTL" default:"30s"`
}
