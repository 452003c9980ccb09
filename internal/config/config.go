package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds portfolio-backend configuration, loaded from the environment.
type Config struct {
	AppEnv   string // APP_ENV
	AppHost  string // APP_HOST
	HTTPPort string // APP_PORT or HTTP_PORT
	LogLevel string // LOG_LEVEL

	// PostgreSQL
	DB struct {
		Host     string
		Port     string
		User     string
		Password string
		Database string
		SSLMode  string
	}

	// Redis (analytics counters, rate limits)
	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	// Auth
	JWTSecret string
	JWTTTL    time.Duration

	// WebSocket
	WSReadBufferSize  int
	WSWriteBufferSize int
	WSMaxMessageSize  int64
	WSMessagesPerSec  float64
	WSMessageBurst    int

	// Real-time dashboard snapshot interval
	SnapshotInterval time.Duration

	// Contact-form rate limit (fixed window)
	ContactRateLimit  int
	ContactRateWindow time.Duration
}

// Load loads config from environment (.env if present).
func Load() (*Config, error) {
	_ = godotenv.Load()

	readBuf, _ := strconv.Atoi(getEnv("WS_READ_BUFFER_SIZE", "4096"))
	writeBuf, _ := strconv.Atoi(getEnv("WS_WRITE_BUFFER_SIZE", "4096"))
	maxMsg, _ := strconv.ParseInt(getEnv("WS_MAX_MESSAGE_SIZE", "65536"), 10, 64)
	msgRate, _ := strconv.ParseFloat(getEnv("WS_MESSAGES_PER_SEC", "20"), 64)
	msgBurst, _ := strconv.Atoi(getEnv("WS_MESSAGE_BURST", "40"))
	snapSecs, _ := strconv.Atoi(getEnv("SNAPSHOT_INTERVAL_SECONDS", "10"))
	jwtTTL, _ := strconv.Atoi(getEnv("JWT_TTL_MINUTES", "1440"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	contactLimit, _ := strconv.Atoi(getEnv("CONTACT_RATE_LIMIT", "5"))
	contactWindow, _ := strconv.Atoi(getEnv("CONTACT_RATE_WINDOW_SECONDS", "3600"))

	cfg := &Config{
		AppEnv:            getEnv("APP_ENV", "development"),
		AppHost:           getEnv("APP_HOST", "0.0.0.0"),
		HTTPPort:          firstEnv("APP_PORT", "HTTP_PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		JWTTTL:            time.Duration(jwtTTL) * time.Minute,
		WSReadBufferSize:  readBuf,
		WSWriteBufferSize: writeBuf,
		WSMaxMessageSize:  maxMsg,
		WSMessagesPerSec:  msgRate,
		WSMessageBurst:    msgBurst,
		SnapshotInterval:  time.Duration(snapSecs) * time.Second,
		ContactRateLimit:  contactLimit,
		ContactRateWindow: time.Duration(contactWindow) * time.Second,
	}
	cfg.DB.Host = getEnv("DB_HOST", "localhost")
	cfg.DB.Port = getEnv("DB_PORT", "5432")
	cfg.DB.User = getEnv("DB_USER", "postgres")
	cfg.DB.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.DB.Database = getEnv("DB_DATABASE", "portfolio")
	cfg.DB.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = redisDB
	return cfg, nil
}

// Validate checks required fields and production safety.
func (c *Config) Validate() error {
	if c.DB.Host == "" {
		return errors.New("config: DB_HOST is required")
	}
	if c.DB.User == "" {
		return errors.New("config: DB_USER is required")
	}
	if c.DB.Database == "" {
		return errors.New("config: DB_DATABASE is required")
	}
	if c.JWTSecret == "" {
		if c.AppEnv == "production" {
			return errors.New("config: in production JWT_SECRET is required")
		}
		c.JWTSecret = "dev-secret-do-not-use-in-production"
	}
	if c.AppEnv == "production" && c.DB.Password == "" {
		return errors.New("config: in production DB_PASSWORD is required")
	}
	return nil
}

// DSN returns the PostgreSQL connection string for GORM.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Database, c.DB.SSLMode)
}

// DatabaseURL returns the postgres URL for golang-migrate.
func (c *Config) DatabaseURL() string {
	pass := url.QueryEscape(c.DB.Password)
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DB.User, pass, c.DB.Host, c.DB.Port, c.DB.Database, c.DB.SSLMode)
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.AppHost + ":" + c.HTTPPort
}

func firstEnv(keysAndDef ...string) string {
	if len(keysAndDef) == 0 {
		return ""
	}
	def := keysAndDef[len(keysAndDef)-1]
	keys := keysAndDef[:len(keysAndDef)-1]
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return def
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
