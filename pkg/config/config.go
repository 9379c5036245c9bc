package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Environment variable names referenced outside struct tags.
const (
	EnvAppEnv     = "CASEVAULT_APP_ENV"
	EnvPort       = "CASEVAULT_APP_PORT"
	EnvDBDSN      = "CASEVAULT_DB_DSN"
	EnvDBHost     = "CASEVAULT_DB_HOST"
	EnvDBUser     = "CASEVAULT_DB_USER"
	EnvDBName     = "CASEVAULT_DB_NAME"
	EnvRedisURL   = "CASEVAULT_REDIS_URL"
	EnvJWTSecret  = "CASEVAULT_JWT_SECRET"
	EnvJWTIssuer  = "CASEVAULT_JWT_ISSUER"
	EnvJWTExpMins = "CASEVAULT_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Game         GameConfig
	OpenLimit    OpenRateLimitConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CASEVAULT_APP_ENV" required:"true"`
	Port         string `envconfig:"CASEVAULT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CASEVAULT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CASEVAULT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CASEVAULT_DB_DSN"`
	Driver string `envconfig:"CASEVAULT_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CASEVAULT_DB_HOST"`
	LegacyPort     int    `envconfig:"CASEVAULT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CASEVAULT_DB_USER"`
	LegacyPassword string `envconfig:"CASEVAULT_DB_PASSWORD"`
	LegacyName     string `envconfig:"CASEVAULT_DB_NAME"`
	LegacySSLMode  string `envconfig:"CASEVAULT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CASEVAULT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CASEVAULT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CASEVAULT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CASEVAULT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// ensureDSN backfills the DSN from the legacy discrete variables when unset.
func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: d.LegacyHost,
		EnvDBUser: d.LegacyUser,
		EnvDBName: d.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("database configuration incomplete, set %s or %s", EnvDBDSN, strings.Join(missing, ", "))
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.LegacyUser, d.LegacyPassword),
		Host:   fmt.Sprintf("%s:%d", d.LegacyHost, d.LegacyPort),
		Path:   d.LegacyName,
	}
	q := u.Query()
	q.Set("sslmode", d.LegacySSLMode)
	u.RawQuery = q.Encode()
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"CASEVAULT_REDIS_URL"`
	Address      string        `envconfig:"CASEVAULT_REDIS_ADDR"`
	Password     string        `envconfig:"CASEVAULT_REDIS_PASSWORD"`
	DB           int           `envconfig:"CASEVAULT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CASEVAULT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CASEVAULT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CASEVAULT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CASEVAULT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CASEVAULT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"CASEVAULT_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"CASEVAULT_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"CASEVAULT_JWT_EXPIRATION_MINUTES" default:"60"`
}

type GameConfig struct {
	// StartingBalanceCents is granted to a profile on first access.
	StartingBalanceCents int `envconfig:"CASEVAULT_GAME_STARTING_BALANCE_CENTS" default:"10000"`
}

type OpenRateLimitConfig struct {
	Window    time.Duration `envconfig:"CASEVAULT_OPEN_RATE_LIMIT_WINDOW" default:"1m"`
	UserLimit int           `envconfig:"CASEVAULT_OPEN_RATE_LIMIT_USER_LIMIT" default:"60"`
	IPLimit   int           `envconfig:"CASEVAULT_OPEN_RATE_LIMIT_IP_LIMIT" default:"120"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CASEVAULT_AUTO_MIGRATE" default:"false"`
}
