package config

const (
	EnvPrefix = "ORDERING"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv = "ORDERING_APP_ENV"
	EnvPort   = "ORDERING_APP_PORT"

	EnvDBDSN  = "ORDERING_DB_DSN"
	EnvDBHost = "ORDERING_DB_HOST"
	EnvDBUser = "ORDERING_DB_USER"
	EnvDBName = "ORDERING_DB_NAME"

	EnvRedisURL = "ORDERING_REDIS_URL"

	EnvCORSAllowedOrigins = "ORDERING_CORS_ALLOWED_ORIGINS"

	EnvIntakeChannel      = "ORDERING_INTAKE_CHANNEL"
	EnvIntakeTimezone     = "ORDERING_INTAKE_TIMEZONE"
	EnvSequenceBackend    = "ORDERING_INTAKE_SEQUENCE_BACKEND"
	EnvIntakeWriteTimeout = "ORDERING_INTAKE_WRITE_TIMEOUT"
	EnvRequireIdempotency = "ORDERING_INTAKE_REQUIRE_IDEMPOTENCY_KEY"

	SequenceBackendPostgres = "postgres"
	SequenceBackendRedis    = "redis"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
