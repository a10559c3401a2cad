package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App        AppConfig
	HTTP       HTTPConfig
	DB         DBConfig
	Redis      RedisConfig
	JWT        JWTConfig
	GoogleMaps GoogleMapsConfig
	Intake     IntakeConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Intake.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ORDERING_APP_ENV" required:"true"`
	Port         string `envconfig:"ORDERING_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ORDERING_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"ORDERING_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"ORDERING_LOG_WARN_STACK" default:"false"`
	AutoMigrate  bool   `envconfig:"ORDERING_AUTO_MIGRATE" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// HTTPConfig covers the public HTTP surface.
type HTTPConfig struct {
	CORSAllowedOrigins []string      `envconfig:"ORDERING_CORS_ALLOWED_ORIGINS"`
	RateLimitRequests  int64         `envconfig:"ORDERING_RATE_LIMIT_REQUESTS" default:"30"`
	RateLimitWindow    time.Duration `envconfig:"ORDERING_RATE_LIMIT_WINDOW" default:"1m"`
	ReadTimeout        time.Duration `envconfig:"ORDERING_HTTP_READ_TIMEOUT" default:"10s"`
	WriteTimeout       time.Duration `envconfig:"ORDERING_HTTP_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout    time.Duration `envconfig:"ORDERING_HTTP_SHUTDOWN_TIMEOUT" default:"15s"`
}

type DBConfig struct {
	DSN string `envconfig:"ORDERING_DB_DSN"`

	LegacyHost     string `envconfig:"ORDERING_DB_HOST"`
	LegacyPort     int    `envconfig:"ORDERING_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ORDERING_DB_USER"`
	LegacyPassword string `envconfig:"ORDERING_DB_PASSWORD"`
	LegacyName     string `envconfig:"ORDERING_DB_NAME"`
	LegacySSLMode  string `envconfig:"ORDERING_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ORDERING_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ORDERING_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ORDERING_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ORDERING_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ORDERING_REDIS_URL"`
	Address      string        `envconfig:"ORDERING_REDIS_ADDR"`
	Password     string        `envconfig:"ORDERING_REDIS_PASSWORD"`
	DB           int           `envconfig:"ORDERING_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ORDERING_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ORDERING_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ORDERING_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ORDERING_REDIS_READ_TIMEOUT" default:"2s"`
	WriteTimeout time.Duration `envconfig:"ORDERING_REDIS_WRITE_TIMEOUT" default:"2s"`
}

// Enabled reports whether any redis endpoint is configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

// JWTConfig verifies customer access tokens issued by the account service.
type JWTConfig struct {
	Secret string `envconfig:"ORDERING_JWT_SECRET"`
	Issuer string `envconfig:"ORDERING_JWT_ISSUER" default:"ordering"`
}

type GoogleMapsConfig struct {
	APIKey  string `envconfig:"ORDERING_GOOGLE_MAPS_API_KEY"`
	BaseURL string `envconfig:"ORDERING_GOOGLE_MAPS_BASE_URL"`
}

// IntakeConfig tunes the public order intake pipeline.
type IntakeConfig struct {
	Channel               string        `envconfig:"ORDERING_INTAKE_CHANNEL" default:"web"`
	Timezone              string        `envconfig:"ORDERING_INTAKE_TIMEZONE" default:"UTC"`
	SequenceBackend       string        `envconfig:"ORDERING_INTAKE_SEQUENCE_BACKEND" default:"postgres"`
	BranchTimeout         time.Duration `envconfig:"ORDERING_INTAKE_BRANCH_TIMEOUT" default:"2s"`
	CatalogTimeout        time.Duration `envconfig:"ORDERING_INTAKE_CATALOG_TIMEOUT" default:"3s"`
	DeliveryTimeout       time.Duration `envconfig:"ORDERING_INTAKE_DELIVERY_TIMEOUT" default:"4s"`
	SequenceTimeout       time.Duration `envconfig:"ORDERING_INTAKE_SEQUENCE_TIMEOUT" default:"2s"`
	WriteTimeout          time.Duration `envconfig:"ORDERING_INTAKE_WRITE_TIMEOUT" default:"3s"`
	ProfileTimeout        time.Duration `envconfig:"ORDERING_INTAKE_PROFILE_TIMEOUT" default:"1s"`
	IdempotencyTTL        time.Duration `envconfig:"ORDERING_INTAKE_IDEMPOTENCY_TTL" default:"168h"`
	RequireIdempotencyKey bool          `envconfig:"ORDERING_INTAKE_REQUIRE_IDEMPOTENCY_KEY" default:"true"`
}

// Location resolves the timezone used to evaluate promotion windows.
func (i IntakeConfig) Location() *time.Location {
	loc, err := time.LoadLocation(strings.TrimSpace(i.Timezone))
	if err != nil || loc == nil {
		return time.UTC
	}
	return loc
}

func (i IntakeConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(i.SequenceBackend)) {
	case SequenceBackendPostgres, SequenceBackendRedis:
	default:
		return fmt.Errorf("%s must be one of %s, %s", EnvSequenceBackend, SequenceBackendPostgres, SequenceBackendRedis)
	}
	if strings.TrimSpace(i.Channel) == "" {
		return fmt.Errorf("%s is required", EnvIntakeChannel)
	}
	if _, err := time.LoadLocation(strings.TrimSpace(i.Timezone)); err != nil {
		return fmt.Errorf("invalid %s: %w", EnvIntakeTimezone, err)
	}
	return nil
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
