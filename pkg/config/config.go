package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Cart          CartConfig
	Checkout      CheckoutConfig
	OpenFoodFacts OpenFoodFactsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Checkout.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TRINITY_APP_ENV" required:"true"`
	Port         string `envconfig:"TRINITY_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TRINITY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TRINITY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TRINITY_DB_DSN"`
	Driver string `envconfig:"TRINITY_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TRINITY_DB_HOST"`
	LegacyPort     int    `envconfig:"TRINITY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TRINITY_DB_USER"`
	LegacyPassword string `envconfig:"TRINITY_DB_PASSWORD"`
	LegacyName     string `envconfig:"TRINITY_DB_NAME"`
	LegacySSLMode  string `envconfig:"TRINITY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TRINITY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TRINITY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TRINITY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TRINITY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TRINITY_REDIS_URL" required:"true"`
	Address      string        `envconfig:"TRINITY_REDIS_ADDR"`
	Password     string        `envconfig:"TRINITY_REDIS_PASSWORD"`
	DB           int           `envconfig:"TRINITY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TRINITY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TRINITY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TRINITY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TRINITY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TRINITY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"TRINITY_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"TRINITY_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"TRINITY_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"TRINITY_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"TRINITY_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"TRINITY_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"TRINITY_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"TRINITY_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"TRINITY_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow           time.Duration `envconfig:"TRINITY_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUsernameLimit    int           `envconfig:"TRINITY_AUTH_RATE_LIMIT_LOGIN_USERNAME_LIMIT" default:"5"`
	LoginIPLimit          int           `envconfig:"TRINITY_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow        time.Duration `envconfig:"TRINITY_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterUsernameLimit int           `envconfig:"TRINITY_AUTH_RATE_LIMIT_REGISTER_USERNAME_LIMIT" default:"3"`
	RegisterIPLimit       int           `envconfig:"TRINITY_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"TRINITY_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"TRINITY_AUTO_MIGRATE" default:"false"`
}

type CartConfig struct {
	TTL time.Duration `envconfig:"TRINITY_CART_TTL" default:"720h"`
}

type CheckoutConfig struct {
	// TaxRate is a fraction, e.g. "0.0875" for 8.75%. Tax is always derived
	// from the invoice total at read time, never stored.
	TaxRate string `envconfig:"TRINITY_TAX_RATE" default:"0"`
}

func (c *CheckoutConfig) validate() error {
	rate, err := decimal.NewFromString(strings.TrimSpace(c.TaxRate))
	if err != nil {
		return fmt.Errorf("invalid tax rate %q: %w", c.TaxRate, err)
	}
	if rate.IsNegative() {
		return fmt.Errorf("tax rate cannot be negative")
	}
	return nil
}

// TaxRateDecimal parses the tax fraction on every call so the struct works
// whether it came through Load or was constructed directly. Unparseable
// values read as zero; Load rejects them up front.
func (c CheckoutConfig) TaxRateDecimal() decimal.Decimal {
	rate, err := decimal.NewFromString(strings.TrimSpace(c.TaxRate))
	if err != nil {
		return decimal.Zero
	}
	return rate
}

type OpenFoodFactsConfig struct {
	BaseURL  string        `envconfig:"TRINITY_OPENFOODFACTS_BASE_URL" default:"https://world.openfoodfacts.org"`
	Timeout  time.Duration `envconfig:"TRINITY_OPENFOODFACTS_TIMEOUT" default:"10s"`
	PageSize int           `envconfig:"TRINITY_OPENFOODFACTS_PAGE_SIZE" default:"1"`
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
