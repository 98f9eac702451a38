package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	MigrationsDir string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string

	// Object storage
	S3BucketName string
	AWSRegion    string

	// Web client
	CORSOrigins []string
	FrontendURL string

	// TrustedProxies lists the proxies whose forwarding headers are believed
	// when resolving the client IP. Empty means the socket address is used.
	TrustedProxies []string

	SMTP SMTPConfig
}

// SMTPConfig configures outgoing mail. An empty Host means mail is logged instead of sent.
type SMTPConfig struct {
	Host       string
	Port       string
	Username   string
	Password   string
	From       string
	FromName   string
	AdminEmail string
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	if env == Development || env == Test {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	var lookup func(envName, secretName string) string
	switch env {
	case CI:
		// CI only sees environment variables
		lookup = func(envName, _ string) string { return os.Getenv(envName) }
	case Development, Test, Production:
		// Docker secrets take precedence over the environment
		lookup = func(envName, secretName string) string {
			if v := readSecret(secretName); v != "" {
				return v
			}
			return os.Getenv(envName)
		}
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	cfg := load(env, lookup)

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func load(env Environment, lookup func(envName, secretName string) string) *Config {
	get := func(envName, secretName, fallback string) string {
		if v := strings.TrimSpace(lookup(envName, secretName)); v != "" {
			return v
		}
		return fallback
	}

	cfg := &Config{
		Environment:    env,
		ServerPort:     get("SERVER_PORT", "server_port", "8080"),
		ServerHost:     get("SERVER_HOST", "server_host", "0.0.0.0"),
		DBHost:         get("DB_HOST", "db_host", "localhost"),
		DBPort:         get("DB_PORT", "db_port", "5432"),
		DBUser:         get("DB_USER", "db_user", ""),
		DBPassword:     get("DB_PASSWORD", "db_password", ""),
		DBName:         get("DB_NAME", "db_name", ""),
		DBSSLMode:      get("DB_SSL_MODE", "db_ssl_mode", "disable"),
		MigrationsDir:  get("MIGRATIONS_DIR", "migrations_dir", "migrations"),
		RedisHost:      get("REDIS_HOST", "redis_host", ""),
		RedisPort:      get("REDIS_PORT", "redis_port", "6379"),
		RedisPassword:  get("REDIS_PASSWORD", "redis_password", ""),
		RedisURL:       get("REDIS_URL", "redis_url", ""),
		JWTSecret:      get("JWT_SECRET", "jwt_secret", ""),
		S3BucketName:   get("S3_BUCKET_NAME", "s3_bucket_name", "restaurant-images"),
		AWSRegion:      get("AWS_REGION", "aws_region", "us-east-1"),
		FrontendURL:    strings.TrimRight(get("FRONTEND_URL", "frontend_url", "http://localhost:5173"), "/"),
		CORSOrigins:    splitList(get("CORS_ORIGINS", "cors_origins", "http://localhost:5173")),
		TrustedProxies: splitList(get("TRUSTED_PROXIES", "trusted_proxies", "")),
		SMTP: SMTPConfig{
			Host:       get("SMTP_HOST", "smtp_host", ""),
			Port:       get("SMTP_PORT", "smtp_port", "587"),
			Username:   get("SMTP_USERNAME", "smtp_username", ""),
			Password:   get("SMTP_PASSWORD", "smtp_password", ""),
			From:       get("EMAIL_FROM", "email_from", ""),
			FromName:   get("EMAIL_FROM_NAME", "email_from_name", "Reservas"),
			AdminEmail: get("ADMIN_EMAIL", "admin_email", ""),
		},
	}

	if db, err := strconv.Atoi(get("REDIS_DB", "redis_db", "0")); err == nil {
		cfg.RedisDB = db
	}

	return cfg
}

// DSN returns the key/value connection string used by the gorm postgres driver.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// DatabaseURL returns the postgres:// URL used by the migration runner.
func (c *Config) DatabaseURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.DBSSLMode),
	}
	return u.String()
}

// RedisEnabled reports whether any Redis endpoint is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
