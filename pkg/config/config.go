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
	AuthRateLimit AuthRateLimitConfig
	Upstream      UpstreamConfig
	Location      LocationConfig
	Catalog       CatalogConfig
	Telegram      TelegramConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Location.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" required:"true"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"STOREFRONT_DB_DSN"`
	Driver string `envconfig:"STOREFRONT_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"STOREFRONT_DB_HOST"`
	LegacyPort     int    `envconfig:"STOREFRONT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"STOREFRONT_DB_USER"`
	LegacyPassword string `envconfig:"STOREFRONT_DB_PASSWORD"`
	LegacyName     string `envconfig:"STOREFRONT_DB_NAME"`
	LegacySSLMode  string `envconfig:"STOREFRONT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"STOREFRONT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STOREFRONT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	AutoMigrate bool `envconfig:"STOREFRONT_DB_AUTO_MIGRATE" default:"false"`
}

// UsesSQLite reports whether the sqlite driver is selected (dev/test runs).
func (db DBConfig) UsesSQLite() bool {
	return strings.EqualFold(db.Driver, "sqlite")
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL" required:"true"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"STOREFRONT_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"STOREFRONT_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"STOREFRONT_JWT_EXPIRATION_MINUTES" default:"720"`
}

// Expiration returns the session token TTL configured in minutes.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginPhoneLimit int           `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_LOGIN_PHONE_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

// UpstreamConfig points at the order-ingestion backend the storefront fronts.
type UpstreamConfig struct {
	BaseURL string        `envconfig:"STOREFRONT_UPSTREAM_BASE_URL"`
	APIKey  string        `envconfig:"STOREFRONT_UPSTREAM_API_KEY"`
	Timeout time.Duration `envconfig:"STOREFRONT_UPSTREAM_TIMEOUT" default:"10s"`
}

// Configured reports whether a live upstream is wired; otherwise the catalog
// serves seed data and orders cannot leave the process.
func (u UpstreamConfig) Configured() bool {
	return strings.TrimSpace(u.BaseURL) != ""
}

// LocationConfig drives the geolocation acquisition strategy.
type LocationConfig struct {
	Policy             string        `envconfig:"STOREFRONT_LOCATION_POLICY" default:"strict"`
	EnableHighAccuracy bool          `envconfig:"STOREFRONT_LOCATION_HIGH_ACCURACY" default:"true"`
	Timeout            time.Duration `envconfig:"STOREFRONT_LOCATION_TIMEOUT" default:"5s"`
	MaxCacheAge        time.Duration `envconfig:"STOREFRONT_LOCATION_MAX_CACHE_AGE" default:"0"`
	ResolverBaseURL    string        `envconfig:"STOREFRONT_LOCATION_RESOLVER_BASE_URL"`
	ResolverAPIKey     string        `envconfig:"STOREFRONT_LOCATION_RESOLVER_API_KEY"`
}

func (l LocationConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(l.Policy)) {
	case "lenient", "prefetch", "strict":
		return nil
	}
	return fmt.Errorf("invalid location policy %q", l.Policy)
}

type CatalogConfig struct {
	CacheTTL time.Duration `envconfig:"STOREFRONT_CATALOG_CACHE_TTL" default:"5m"`
	PageSize int           `envconfig:"STOREFRONT_CATALOG_PAGE_SIZE" default:"24"`
}

// TelegramConfig carries the optional chat identity used for order routing.
type TelegramConfig struct {
	DefaultChatID string `envconfig:"STOREFRONT_TELEGRAM_DEFAULT_CHAT_ID"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.UsesSQLite() {
		db.DSN = "file:storefront.db?_fk=1"
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
