package config

import (
	"fmt"
	"time"

	"github.com/amirasaad/minibank/pkg/money"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSqlite   = "sqlite"
	DriverRedis    = "redis"
	DriverKafka    = "kafka"
)

type DB struct {
	Driver          string        `envconfig:"DRIVER" default:"memory"`
	Url             string        `envconfig:"URL"`
	MaxOpenConns    int           `envconfig:"MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `envconfig:"MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"CONN_MAX_LIFETIME" default:"30m"`
}

// Store bounds every unit of work run by the services.
type Store struct {
	Timeout        time.Duration `envconfig:"TIMEOUT" default:"5s"`
	MaxRetries     int           `envconfig:"MAX_RETRIES" default:"3"`
	RetryBaseDelay time.Duration `envconfig:"RETRY_BASE_DELAY" default:"20ms"`
	RetryMaxDelay  time.Duration `envconfig:"RETRY_MAX_DELAY" default:"500ms"`
}

// Ledger amounts are given in major units, e.g. "1" or "100000.00".
type Ledger struct {
	MinAmount money.Amount `envconfig:"MIN_AMOUNT" default:"1"`
	MaxAmount money.Amount `envconfig:"MAX_AMOUNT" default:"100000"`
}

type Customer struct {
	MinAge int `envconfig:"MIN_AGE" default:"18"`
}

type Redis struct {
	URL string `envconfig:"URL" default:"redis://localhost:6379/0"`
}

type Idempotency struct {
	Driver    string        `envconfig:"DRIVER" default:"memory"`
	TTL       time.Duration `envconfig:"TTL" default:"24h"`
	LockTTL   time.Duration `envconfig:"LOCK_TTL" default:"30s"`
	KeyPrefix string        `envconfig:"KEY_PREFIX" default:"minibank:idempotency:"`
}

type EventBus struct {
	Driver       string `envconfig:"DRIVER" default:"memory"`
	Stream       string `envconfig:"STREAM" default:"minibank:events"`
	Group        string `envconfig:"GROUP" default:"minibank"`
	KafkaBrokers string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	KafkaTopic   string `envconfig:"KAFKA_TOPIC" default:"minibank.events"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"text"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[minibank]"`
}

type Server struct {
	Scheme string `envconfig:"SCHEME" default:"http"`
	Host   string `envconfig:"HOST" default:"localhost"`
	Port   int    `envconfig:"PORT" default:"3000"`
}

type App struct {
	Env         string       `envconfig:"APP_ENV" default:"development"`
	Server      *Server      `envconfig:"SERVER"`
	Log         *Log         `envconfig:"LOG"`
	DB          *DB          `envconfig:"DATABASE"`
	Store       *Store       `envconfig:"STORE"`
	Ledger      *Ledger      `envconfig:"LEDGER"`
	Customer    *Customer    `envconfig:"CUSTOMER"`
	Redis       *Redis       `envconfig:"REDIS"`
	Idempotency *Idempotency `envconfig:"IDEMPOTENCY"`
	EventBus    *EventBus    `envconfig:"EVENTBUS"`
	RateLimit   *RateLimit   `envconfig:"RATE_LIMIT"`
}

// Validate checks the values envconfig cannot.
func (c *App) Validate() error {
	switch c.DB.Driver {
	case DriverMemory:
	case DriverPostgres, DriverSqlite:
		if c.DB.Url == "" {
			return fmt.Errorf("config: DATABASE_URL is required for driver %q", c.DB.Driver)
		}
	default:
		return fmt.Errorf("config: unsupported DATABASE_DRIVER %q", c.DB.Driver)
	}
	switch c.Idempotency.Driver {
	case DriverMemory, DriverRedis:
	default:
		return fmt.Errorf("config: unsupported IDEMPOTENCY_DRIVER %q", c.Idempotency.Driver)
	}
	switch c.EventBus.Driver {
	case DriverMemory, DriverRedis, DriverKafka:
	default:
		return fmt.Errorf("config: unsupported EVENTBUS_DRIVER %q", c.EventBus.Driver)
	}
	if !c.Ledger.MinAmount.IsPositive() || c.Ledger.MinAmount > c.Ledger.MaxAmount {
		return fmt.Errorf("config: ledger amount range [%s, %s] is invalid", c.Ledger.MinAmount, c.Ledger.MaxAmount)
	}
	if c.Store.Timeout <= 0 {
		return fmt.Errorf("config: STORE_TIMEOUT must be positive")
	}
	if c.Store.MaxRetries < 0 {
		return fmt.Errorf("config: STORE_MAX_RETRIES must not be negative")
	}
	return nil
}

// Addr returns host:port for the HTTP listener.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
