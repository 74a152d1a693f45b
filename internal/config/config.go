package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full configuration surface, sourced from the environment
// with an optional .env file.
type Config struct {
	Server   ServerConfig
	MySQL    MySQLConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Sale     SaleConfig
	Outbox   OutboxConfig
	LowStock LowStockConfig
}

// ServerConfig holds HTTP server options.
type ServerConfig struct {
	Port            string
	ShutdownTimeout time.Duration
}

// MySQLConfig holds the store DSN and pool limits.
type MySQLConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds the idempotency store address.
type RedisConfig struct {
	Addr           string
	PoolSize       int
	IdempotencyTTL time.Duration
}

// AuthConfig holds token signing settings.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// SaleConfig bounds the sale transaction path.
type SaleConfig struct {
	TxTimeout  time.Duration
	MaxRetries int
}

// OutboxConfig drives the notification dispatcher.
type OutboxConfig struct {
	PollInterval time.Duration
	BatchSize    int
}

// LowStockConfig drives the scheduled low-stock alert job.
type LowStockConfig struct {
	Threshold    int
	CronSchedule string
}

// Load reads environment variables, optionally seeded from a .env file,
// and materializes a validated Config.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	} else {
		// Missing .env is fine when configuration comes from the environment.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getenv("APP_PORT", "8080"),
			ShutdownTimeout: getenvDuration("SHUTDOWN_TIMEOUT", 5*time.Second),
		},
		MySQL: MySQLConfig{
			DSN:             getenv("MYSQL_DSN", "root:root@tcp(localhost:3306)/shopdesk?parseTime=true"),
			MaxOpenConns:    getenvInt("MYSQL_MAX_OPEN_CONNS", 50),
			MaxIdleConns:    getenvInt("MYSQL_MAX_IDLE_CONNS", 25),
			ConnMaxLifetime: getenvDuration("MYSQL_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Addr:           getenv("REDIS_ADDR", "localhost:6379"),
			PoolSize:       getenvInt("REDIS_POOL_SIZE", 100),
			IdempotencyTTL: getenvDuration("IDEMPOTENCY_TTL", 24*time.Hour),
		},
		Auth: AuthConfig{
			JWTSecret: getenv("JWT_SECRET", "supersecretkey"),
			TokenTTL:  getenvDuration("TOKEN_TTL", 24*time.Hour),
		},
		Sale: SaleConfig{
			TxTimeout:  getenvDuration("SALE_TX_TIMEOUT", 5*time.Second),
			MaxRetries: getenvInt("SALE_MAX_RETRIES", 3),
		},
		Outbox: OutboxConfig{
			PollInterval: getenvDuration("OUTBOX_POLL_INTERVAL", time.Second),
			BatchSize:    getenvInt("OUTBOX_BATCH_SIZE", 100),
		},
		LowStock: LowStockConfig{
			Threshold:    getenvInt("LOW_STOCK_THRESHOLD", 5),
			CronSchedule: getenv("LOW_STOCK_CRON", "0 8 * * *"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures required fields are populated and bounds are sane.
func (c *Config) Validate() error {
	if c.MySQL.DSN == "" {
		return errors.New("MYSQL_DSN must be provided")
	}
	if c.Redis.Addr == "" {
		return errors.New("REDIS_ADDR must be provided")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET must be provided")
	}
	if c.Sale.TxTimeout <= 0 {
		return errors.New("SALE_TX_TIMEOUT must be positive")
	}
	if c.Sale.MaxRetries < 0 {
		return errors.New("SALE_MAX_RETRIES must not be negative")
	}
	if c.Outbox.BatchSize <= 0 {
		return errors.New("OUTBOX_BATCH_SIZE must be positive")
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
