package config

const EnvPrefix = "PDV"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreDB     = "db"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	EnvAppEnv       = "PDV_APP_ENV"
	EnvPort         = "PDV_APP_PORT"
	EnvDBDSN        = "PDV_DB_DSN"
	EnvDBHost       = "PDV_DB_HOST"
	EnvDBUser       = "PDV_DB_USER"
	EnvDBName       = "PDV_DB_NAME"
	EnvRedisURL     = "PDV_REDIS_URL"
	EnvJWTSecret    = "PDV_JWT_SECRET"
	EnvJWTIssuer    = "PDV_JWT_ISSUER"
	EnvJWTExpMins   = "PDV_JWT_EXPIRATION_MINUTES"
	EnvSessionTTL   = "PDV_SESSION_TTL_MINUTES"
	EnvCartStore    = "PDV_CART_STORE"
	EnvCatalogStore = "PDV_CATALOG_STORE"
	EnvSalesStore   = "PDV_SALES_STORE"
	EnvUserStore    = "PDV_USER_STORE"
	EnvUseSQLite    = "PDV_USE_SQLITE"
	EnvBarcodeMin   = "PDV_POS_BARCODE_MIN_DIGITS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
