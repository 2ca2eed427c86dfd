package config

// EnvPrefix is passed to envconfig; individual fields carry explicit
// TRINITY_-prefixed names so the prefix stays informational.
const EnvPrefix = "trinity"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "TRINITY_APP_ENV"
	EnvPort     = "TRINITY_APP_PORT"
	EnvDBDSN    = "TRINITY_DB_DSN"
	EnvDBHost   = "TRINITY_DB_HOST"
	EnvDBUser   = "TRINITY_DB_USER"
	EnvDBName   = "TRINITY_DB_NAME"
	EnvRedisURL = "TRINITY_REDIS_URL"

	EnvJWTSecret              = "TRINITY_JWT_SECRET"
	EnvJWTIssuer              = "TRINITY_JWT_ISSUER"
	EnvJWTExpMins             = "TRINITY_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "TRINITY_REFRESH_TOKEN_TTL_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
