package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	Cart     CartConfig
	Paystack PaystackConfig
	Supabase SupabaseConfig
	Webhook  WebhookConfig
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
	Env          string `envconfig:"WESTWOOD_APP_ENV" required:"true"`
	Port         string `envconfig:"WESTWOOD_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"WESTWOOD_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"WESTWOOD_LOG_WARN_STACK" default:"false"`
	AutoMigrate  bool   `envconfig:"WESTWOOD_AUTO_MIGRATE" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"WESTWOOD_DB_DSN"`
	Driver string `envconfig:"WESTWOOD_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"WESTWOOD_DB_HOST"`
	LegacyPort     int    `envconfig:"WESTWOOD_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"WESTWOOD_DB_USER"`
	LegacyPassword string `envconfig:"WESTWOOD_DB_PASSWORD"`
	LegacyName     string `envconfig:"WESTWOOD_DB_NAME"`
	LegacySSLMode  string `envconfig:"WESTWOOD_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"WESTWOOD_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"WESTWOOD_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"WESTWOOD_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"WESTWOOD_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"WESTWOOD_REDIS_URL" required:"true"`
	Address      string        `envconfig:"WESTWOOD_REDIS_ADDR"`
	Password     string        `envconfig:"WESTWOOD_REDIS_PASSWORD"`
	DB           int           `envconfig:"WESTWOOD_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"WESTWOOD_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"WESTWOOD_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"WESTWOOD_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"WESTWOOD_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"WESTWOOD_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type CartConfig struct {
	StorageKey string `envconfig:"WESTWOOD_CART_STORAGE_KEY" default:"westwood-cart"`
}

type PaystackConfig struct {
	SecretKey   string `envconfig:"WESTWOOD_PAYSTACK_SECRET_KEY"`
	CallbackURL string `envconfig:"WESTWOOD_PAYSTACK_CALLBACK_URL"`
	BaseURL     string `envconfig:"WESTWOOD_PAYSTACK_BASE_URL"`
}

// Configured reports whether the gateway secret is present.
func (p PaystackConfig) Configured() bool {
	return strings.TrimSpace(p.SecretKey) != ""
}

type SupabaseConfig struct {
	URL            string `envconfig:"WESTWOOD_SUPABASE_URL"`
	AnonKey        string `envconfig:"WESTWOOD_SUPABASE_ANON_KEY"`
	ServiceRoleKey string `envconfig:"WESTWOOD_SUPABASE_SERVICE_ROLE_KEY"`
}

// Configured reports whether the datastore can be reached at all.
func (s SupabaseConfig) Configured() bool {
	return strings.TrimSpace(s.URL) != "" && (strings.TrimSpace(s.AnonKey) != "" || strings.TrimSpace(s.ServiceRoleKey) != "")
}

// HasServiceRole reports whether privileged writes are possible.
func (s SupabaseConfig) HasServiceRole() bool {
	return strings.TrimSpace(s.URL) != "" && strings.TrimSpace(s.ServiceRoleKey) != ""
}

type WebhookConfig struct {
	IdempotencyTTL time.Duration `envconfig:"WESTWOOD_WEBHOOK_IDEMPOTENCY_TTL" default:"720h"`
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
