package config

import (
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Checkout  CheckoutConfig
	Catalog   CatalogConfig
	Session   SessionConfig
	RateLimit RateLimitConfig
	Kafka     KafkaConfig
	Breaker   BreakerConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	LogLevel       string
	AllowedOrigins []string
	MigrationsDir  string
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Database        string
	Schema          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Host            string
	Port            string
	Password        string
	DB              int
	CatalogCacheTTL time.Duration
}

// Addr returns host:port for the redis client
func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// JWTConfig verifies tokens minted by the external identity provider
type JWTConfig struct {
	Secret string
	Issuer string
}

type CheckoutConfig struct {
	ServiceChargeRate    decimal.Decimal
	Timeout              time.Duration
	DefaultPaymentMethod string
}

type CatalogConfig struct {
	Source         string // "static" or "store"
	SearchDebounce time.Duration
}

type SessionConfig struct {
	IdleTimeout   time.Duration
	SweepInterval time.Duration
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Enabled reports whether order events should be published
func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

type BreakerConfig struct {
	ConsecutiveFailures uint32
	OpenTimeout         time.Duration
}

const defaultServiceChargeRate = "0.10"

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("MIGRATIONS_DIR", "migrations")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SCHEMA", "public")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CATALOG_CACHE_TTL", "5m")
	v.SetDefault("JWT_ISSUER", "")
	v.SetDefault("SERVICE_CHARGE_RATE", defaultServiceChargeRate)
	v.SetDefault("CHECKOUT_TIMEOUT", "5s")
	v.SetDefault("DEFAULT_PAYMENT_METHOD", "cash")
	v.SetDefault("CATALOG_SOURCE", "store")
	v.SetDefault("SEARCH_DEBOUNCE", "300ms")
	v.SetDefault("SESSION_IDLE_TIMEOUT", "30m")
	v.SetDefault("SESSION_SWEEP_INTERVAL", "1m")
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_WINDOW", "1m")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_ORDERS_TOPIC", "orders.completed")
	v.SetDefault("BREAKER_CONSECUTIVE_FAILURES", 5)
	v.SetDefault("BREAKER_OPEN_TIMEOUT", "30s")
}

// Load reads configuration from ./.env and the environment
func Load() *Config {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Env:            v.GetString("SERVER_ENV"),
			LogLevel:       v.GetString("LOG_LEVEL"),
			AllowedOrigins: splitList(v.GetString("ALLOWED_ORIGINS")),
			MigrationsDir:  v.GetString("MIGRATIONS_DIR"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetString("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Database:        v.GetString("DB_DATABASE"),
			Schema:          v.GetString("DB_SCHEMA"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: duration(v, "DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Host:            v.GetString("REDIS_HOST"),
			Port:            v.GetString("REDIS_PORT"),
			Password:        v.GetString("REDIS_PASSWORD"),
			DB:              v.GetInt("REDIS_DB"),
			CatalogCacheTTL: duration(v, "CATALOG_CACHE_TTL", 5*time.Minute),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
			Issuer: v.GetString("JWT_ISSUER"),
		},
		Checkout: CheckoutConfig{
			ServiceChargeRate:    rate(v, "SERVICE_CHARGE_RATE"),
			Timeout:              duration(v, "CHECKOUT_TIMEOUT", 5*time.Second),
			DefaultPaymentMethod: v.GetString("DEFAULT_PAYMENT_METHOD"),
		},
		Catalog: CatalogConfig{
			Source:         strings.ToLower(v.GetString("CATALOG_SOURCE")),
			SearchDebounce: duration(v, "SEARCH_DEBOUNCE", 300*time.Millisecond),
		},
		Session: SessionConfig{
			IdleTimeout:   duration(v, "SESSION_IDLE_TIMEOUT", 30*time.Minute),
			SweepInterval: duration(v, "SESSION_SWEEP_INTERVAL", time.Minute),
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   duration(v, "RATE_LIMIT_WINDOW", time.Minute),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(v.GetString("KAFKA_BROKERS")),
			Topic:   v.GetString("KAFKA_ORDERS_TOPIC"),
		},
		Breaker: BreakerConfig{
			ConsecutiveFailures: v.GetUint32("BREAKER_CONSECUTIVE_FAILURES"),
			OpenTimeout:         duration(v, "BREAKER_OPEN_TIMEOUT", 30*time.Second),
		},
	}
}

// duration parses key, falling back to def when the value is malformed
func duration(v *viper.Viper, key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil || d <= 0 {
		log.Printf("Warning: invalid %s %q, using %s", key, v.GetString(key), def)
		return def
	}
	return d
}

func rate(v *viper.Viper, key string) decimal.Decimal {
	r, err := decimal.NewFromString(v.GetString(key))
	if err != nil || r.IsNegative() {
		log.Printf("Warning: invalid %s %q, using %s", key, v.GetString(key), defaultServiceChargeRate)
		return decimal.RequireFromString(defaultServiceChargeRate)
	}
	return r
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
