package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	POS           POSConfig
	Metrics       MetricsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DriverSQLite
	}
	if cfg.FeatureFlags.NeedsDatabase() && cfg.DB.Driver != DriverSQLite {
		if err := cfg.DB.EnsureDSN(); err != nil {
			return nil, err
		}
	}
	if err := cfg.FeatureFlags.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PDV_APP_ENV" required:"true"`
	Port         string `envconfig:"PDV_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PDV_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PDV_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PDV_DB_DSN"`
	Driver string `envconfig:"PDV_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PDV_DB_HOST"`
	LegacyPort     int    `envconfig:"PDV_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PDV_DB_USER"`
	LegacyPassword string `envconfig:"PDV_DB_PASSWORD"`
	LegacyName     string `envconfig:"PDV_DB_NAME"`
	LegacySSLMode  string `envconfig:"PDV_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"PDV_SQLITE_PATH" default:"pdv.db"`

	MaxOpenConns    int           `envconfig:"PDV_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PDV_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PDV_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PDV_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PDV_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PDV_REDIS_ADDR"`
	Password     string        `envconfig:"PDV_REDIS_PASSWORD"`
	DB           int           `envconfig:"PDV_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PDV_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PDV_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PDV_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PDV_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PDV_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"PDV_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"PDV_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"PDV_JWT_EXPIRATION_MINUTES" required:"true"`
	SessionTTLMinutes int    `envconfig:"PDV_SESSION_TTL_MINUTES" default:"720"`
}

// SessionTTL returns how long a login session survives in the session store.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PDV_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PDV_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PDV_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PDV_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PDV_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"PDV_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"PDV_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"PDV_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite    bool   `envconfig:"PDV_USE_SQLITE" default:"false"`
	AutoMigrate  bool   `envconfig:"PDV_AUTO_MIGRATE" default:"false"`
	SeedDemoData bool   `envconfig:"PDV_SEED_DEMO_DATA" default:"true"`
	CartStore    string `envconfig:"PDV_CART_STORE" default:"redis"`
	CatalogStore string `envconfig:"PDV_CATALOG_STORE" default:"memory"`
	SalesStore   string `envconfig:"PDV_SALES_STORE" default:"memory"`
	UserStore    string `envconfig:"PDV_USER_STORE" default:"memory"`
	DemoPassword string `envconfig:"PDV_DEMO_PASSWORD"`
}

// NeedsDatabase reports whether any store is configured to live in SQL.
func (f FeatureFlagsConfig) NeedsDatabase() bool {
	return strings.EqualFold(f.CatalogStore, StoreDB) || strings.EqualFold(f.SalesStore, StoreDB) || strings.EqualFold(f.UserStore, StoreDB)
}

func (f FeatureFlagsConfig) validate() error {
	switch strings.ToLower(f.CartStore) {
	case StoreMemory, StoreRedis:
	default:
		return fmt.Errorf("%s must be one of %s|%s", EnvCartStore, StoreMemory, StoreRedis)
	}
	sqlBacked := map[string]string{
		EnvCatalogStore: f.CatalogStore,
		EnvSalesStore:   f.SalesStore,
		EnvUserStore:    f.UserStore,
	}
	for env, value := range sqlBacked {
		switch strings.ToLower(value) {
		case StoreMemory, StoreDB:
		default:
			return fmt.Errorf("%s must be one of %s|%s", env, StoreMemory, StoreDB)
		}
	}
	// sales decrement stock inside the sale transaction
	if strings.EqualFold(f.SalesStore, StoreDB) && !strings.EqualFold(f.CatalogStore, StoreDB) {
		return fmt.Errorf("%s=%s requires %s=%s", EnvSalesStore, StoreDB, EnvCatalogStore, StoreDB)
	}
	return nil
}

type POSConfig struct {
	BarcodeMinDigits int           `envconfig:"PDV_POS_BARCODE_MIN_DIGITS" default:"8"`
	CartTTL          time.Duration `envconfig:"PDV_POS_CART_TTL" default:"12h"`
	JobInterval      time.Duration `envconfig:"PDV_POS_JOB_INTERVAL" default:"15m"`
}

type MetricsConfig struct {
	Enabled bool `envconfig:"PDV_METRICS_ENABLED" default:"true"`
}

// EnsureDSN fills DSN from the discrete PDV_DB_* variables when it is unset.
func (db *DBConfig) EnsureDSN() error {
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
