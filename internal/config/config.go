// Package config loads application configuration from environment
// variables into an explicit struct that is built once at startup and
// passed by reference into the components that need it.
package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	CORS      CORSConfig
	SMTP      SMTPConfig
	RateLimit RateLimitConfig
	Env       string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// CORSConfig holds the allowed cross-origin caller address
type CORSConfig struct {
	AllowedOrigin string
}

// SMTPConfig holds the mail submission endpoint and account identity.
// The password must never appear in logs; see logger.sanitizeAttributes.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	To       string
	Timeout  time.Duration
}

// RateLimitConfig holds the per-IP request budget. An empty RedisAddr
// selects the in-process memory store.
type RateLimitConfig struct {
	Points    int
	Window    time.Duration
	RedisAddr string
}

// Load reads configuration from environment variables
func Load() *Config {
	user := getEnv("EMAIL_USER", "")
	return &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnv("SERVER_PORT", "5000"),
			ReadTimeout:     getSecondsEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getSecondsEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     getSecondsEnv("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getSecondsEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		CORS: CORSConfig{
			AllowedOrigin: getEnv("FRONTEND_URL", "http://localhost:5174"),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:     getEnv("SMTP_PORT", "465"),
			Username: user,
			Password: getEnv("EMAIL_APP_PASSWORD", ""),
			From:     getEnv("EMAIL_FROM", user),
			To:       getEnv("EMAIL_TO", user),
			Timeout:  getSecondsEnv("SMTP_TIMEOUT", 10*time.Second),
		},
		RateLimit: RateLimitConfig{
			Points:    getIntEnv("RATE_LIMIT_POINTS", 5),
			Window:    getSecondsEnv("RATE_LIMIT_WINDOW", 60*time.Second),
			RedisAddr: getEnv("REDIS_ADDR", ""),
		},
		Env: getEnv("APP_ENV", "development"),
	}
}

// Validate checks that required configuration is present
func (c *Config) Validate() error {
	if c.SMTP.Username == "" {
		return errors.New("EMAIL_USER environment variable is required")
	}
	if c.SMTP.Password == "" {
		return errors.New("EMAIL_APP_PASSWORD environment variable is required")
	}
	return nil
}

// Development reports whether failure responses should include the
// underlying error detail.
func (c *Config) Development() bool {
	return c.Env == "development"
}

// Addr returns the host:port the HTTP server listens on
func (s *ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// Addr returns the host:port of the mail submission endpoint
func (s *SMTPConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// getEnv returns environment variable value or default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv returns a positive integer from environment variable or default
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

// getSecondsEnv returns a duration given in whole seconds or default
func getSecondsEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}
