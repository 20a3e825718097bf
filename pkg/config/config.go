package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App     AppConfig
	Storage StorageConfig
	Redis   RedisConfig
	Payment PaymentConfig
	Session SessionConfig
	Cart    CartConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	if _, err := cfg.Cart.Rate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ECOCYCLE_APP_ENV" required:"true"`
	Port         string `envconfig:"ECOCYCLE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ECOCYCLE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ECOCYCLE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// StorageConfig selects and tunes the key-value persistence backend.
type StorageConfig struct {
	Driver     string `envconfig:"ECOCYCLE_STORAGE_DRIVER" default:"file"`
	Dir        string `envconfig:"ECOCYCLE_STORAGE_DIR" default:"data"`
	SQLitePath string `envconfig:"ECOCYCLE_STORAGE_SQLITE_PATH" default:"data/ecocycle.db"`
	Namespace  string `envconfig:"ECOCYCLE_STORAGE_NAMESPACE" default:"ecocycle"`
}

func (s StorageConfig) validate() error {
	switch s.Driver {
	case StorageDriverMemory, StorageDriverFile, StorageDriverSQLite, StorageDriverRedis:
		return nil
	}
	return fmt.Errorf("unknown storage driver %q", s.Driver)
}

type RedisConfig struct {
	URL          string        `envconfig:"ECOCYCLE_REDIS_URL"`
	Address      string        `envconfig:"ECOCYCLE_REDIS_ADDR"`
	Password     string        `envconfig:"ECOCYCLE_REDIS_PASSWORD"`
	DB           int           `envconfig:"ECOCYCLE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ECOCYCLE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ECOCYCLE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ECOCYCLE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ECOCYCLE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ECOCYCLE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// PaymentConfig tunes the simulated settlement step.
type PaymentConfig struct {
	SettleDelay time.Duration `envconfig:"ECOCYCLE_PAYMENT_SETTLE_DELAY" default:"2s"`
	FailureRate float64       `envconfig:"ECOCYCLE_PAYMENT_FAILURE_RATE" default:"0"`
}

// SessionConfig tunes the mocked login/signup flow.
type SessionConfig struct {
	LoginLatency time.Duration `envconfig:"ECOCYCLE_SESSION_LOGIN_LATENCY" default:"500ms"`
}

type CartConfig struct {
	TaxRate string `envconfig:"ECOCYCLE_CART_TAX_RATE" default:"0.10"`
}

// Rate parses the configured tax rate as a decimal fraction.
func (c CartConfig) Rate() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(c.TaxRate)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing tax rate %q: %w", c.TaxRate, err)
	}
	if rate.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("tax rate %q must not be negative", c.TaxRate)
	}
	return rate, nil
}
