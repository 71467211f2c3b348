package config

import (
	"time"

	"github.com/maxviazov/station-vendor-service/internal/logger"
)

type Config struct {
	App        AppConfig           `mapstructure:"app"`
	Logger     logger.LoggerConfig `mapstructure:"logger" validate:"-"`
	Postgres   PostgresConfig      `mapstructure:"postgres"`
	Redis      RedisConfig         `mapstructure:"redis"`
	Auth       AuthConfig          `mapstructure:"auth"`
	Pagination PaginationConfig    `mapstructure:"pagination"`
}

type AppConfig struct {
	Name            string        `mapstructure:"name"`
	Version         string        `mapstructure:"version"`
	Env             string        `mapstructure:"env"`
	Port            int           `mapstructure:"port" validate:"gte=1,lte=65535"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type PostgresConfig struct {
	Host              string `mapstructure:"host" validate:"required"`
	Port              int    `mapstructure:"port" validate:"gte=1,lte=65535"`
	User              string `mapstructure:"user" validate:"required"`
	Password          string `mapstructure:"password" validate:"required"`
	DBName            string `mapstructure:"db" validate:"required"`
	SSLMode           string `mapstructure:"sslmode"`
	MaxConns          int32  `mapstructure:"max_conns"`
	MinConns          int32  `mapstructure:"min_conns"`
	MaxConnLifetime   int    `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   int    `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod int    `mapstructure:"health_check_period"`
}

// RedisConfig is optional: an empty Addr disables the dashboard cache.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret" validate:"required,min=16"`
	Issuer    string        `mapstructure:"issuer"`
	TokenTTL  time.Duration `mapstructure:"token_ttl" validate:"gt=0"`
}

// PaginationConfig holds the list window defaults. Resources overrides them per endpoint
// (stations, platforms, users, pending_admins, licenses).
// DefaultLimit is not required to be <= MaxLimit; the resolver clamps whatever it gets.
type PaginationConfig struct {
	DefaultLimit int                    `mapstructure:"default_limit" validate:"gte=1"`
	MaxLimit     int                    `mapstructure:"max_limit" validate:"gte=1"`
	Resources    map[string]LimitConfig `mapstructure:"resources"`
}

type LimitConfig struct {
	DefaultLimit int `mapstructure:"default_limit"`
	MaxLimit     int `mapstructure:"max_limit"`
}

// Limits returns the (defaultLimit, maxLimit) pair for a resource, falling back
// field by field to the global values.
func (p PaginationConfig) Limits(resource string) (int, int) {
	def, maxLimit := p.DefaultLimit, p.MaxLimit
	if o, ok := p.Resources[resource]; ok {
		if o.DefaultLimit > 0 {
			def = o.DefaultLimit
		}
		if o.MaxLimit > 0 {
			maxLimit = o.MaxLimit
		}
	}
	return def, maxLimit
}
