package config

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

type Config struct {
	AppPort         string        `envconfig:"APP_PORT" default:"8080"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	DBDriver      string `envconfig:"DB_DRIVER" default:"mysql"`
	DBAutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"true"`

	MySQLHost string `envconfig:"MYSQL_HOST" default:"mysql"`
	MySQLPort string `envconfig:"MYSQL_PORT" default:"3306"`
	MySQLDB   string `envconfig:"MYSQL_DB" default:"artha"`
	MySQLUser string `envconfig:"MYSQL_USER" default:"artha"`
	MySQLPass string `envconfig:"MYSQL_PASS" default:"artha"`

	PostgresDSN string `envconfig:"POSTGRES_DSN"`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"artha.db"`

	// empty RedisAddr runs without idempotency replay and listing cache
	RedisAddr     string `envconfig:"REDIS_ADDR" default:"redis:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	IdempTTLSecs        int           `envconfig:"IDEMPOTENCY_TTL_SECONDS" default:"300"`
	MarketplaceCacheTTL time.Duration `envconfig:"MARKETPLACE_CACHE_TTL" default:"5s"`
	PaymentTimeout      time.Duration `envconfig:"PAYMENT_TIMEOUT" default:"5s"`
}

// Load reads an optional .env (real environment wins) and then the environment.
func Load(envFiles ...string) (*Config, error) {
	// a missing .env is normal outside local dev
	_ = godotenv.Load(envFiles...)

	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if _, err := net.LookupPort("tcp", c.AppPort); err != nil {
		return fmt.Errorf("invalid APP_PORT %q: %w", c.AppPort, err)
	}
	switch c.DBDriver {
	case DriverMySQL:
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	case DriverPostgres:
		if c.PostgresDSN == "" {
			return errors.New("missing POSTGRES_DSN")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}
	if c.IdempTTLSecs <= 0 {
		return fmt.Errorf("IDEMPOTENCY_TTL_SECONDS must be positive, got %d", c.IdempTTLSecs)
	}
	if c.PaymentTimeout <= 0 {
		return fmt.Errorf("PAYMENT_TIMEOUT must be positive, got %s", c.PaymentTimeout)
	}
	return nil
}

// DSN returns the connection string for the configured SQL driver.
func (c *Config) DSN() string {
	switch c.DBDriver {
	case DriverPostgres:
		return c.PostgresDSN
	case DriverSQLite:
		return c.SQLitePath
	}
	return c.MySQLDSN()
}

func (c *Config) IdempotencyTTL() time.Duration {
	return time.Duration(c.IdempTTLSecs) * time.Second
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime for DATETIME columns, loc=UTC so timestamps round-trip
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&charset=utf8mb4",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
