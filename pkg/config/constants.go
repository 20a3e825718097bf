package config

// EnvPrefix namespaces every EcoCycle environment variable.
const EnvPrefix = "ecocycle"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

// Environment variable names shared with tests and deploy tooling.
const (
	EnvAppEnv        = "ECOCYCLE_APP_ENV"
	EnvPort          = "ECOCYCLE_APP_PORT"
	EnvLogLevel      = "ECOCYCLE_LOG_LEVEL"
	EnvStorageDriver = "ECOCYCLE_STORAGE_DRIVER"
	EnvStorageDir    = "ECOCYCLE_STORAGE_DIR"
	EnvSQLitePath    = "ECOCYCLE_STORAGE_SQLITE_PATH"
	EnvRedisURL      = "ECOCYCLE_REDIS_URL"
	EnvSettleDelay   = "ECOCYCLE_PAYMENT_SETTLE_DELAY"
	EnvFailureRate   = "ECOCYCLE_PAYMENT_FAILURE_RATE"
	EnvTaxRate       = "ECOCYCLE_CART_TAX_RATE"
)

// Storage driver names accepted by StorageConfig.
const (
	StorageDriverMemory = "memory"
	StorageDriverFile   = "file"
	StorageDriverSQLite = "sqlite"
	StorageDriverRedis  = "redis"
)
