package config

// EnvPrefix namespaces every environment variable the terminal reads.
const EnvPrefix = "SALONPOS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Canonical env var names, shared with tests and deployment manifests.
const (
	EnvAppEnv         = "SALONPOS_APP_ENV"
	EnvPort           = "SALONPOS_APP_PORT"
	EnvLogLevel       = "SALONPOS_LOG_LEVEL"
	EnvBackendBaseURL = "SALONPOS_BACKEND_BASE_URL"
	EnvBackendToken   = "SALONPOS_BACKEND_API_TOKEN"
	EnvRedisURL       = "SALONPOS_REDIS_URL"
	EnvJWTSecret      = "SALONPOS_JWT_SECRET"
	EnvJWTIssuer      = "SALONPOS_JWT_ISSUER"
)
