package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Development defaults. ValidateConfig refuses the insecure ones outside
// development and test.
const (
	defaultJWTSecret = "dev-insecure-secret"
	defaultDBDriver  = "postgres"
)

// Config holds all configuration for the application
type Config struct {
	Env Environment

	// Server configuration
	ServerPort      string
	ServerHost      string
	ShutdownTimeout time.Duration
	CORSOrigins     []string

	// Database configuration
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Auth configuration
	JWTSecret string
	TokenTTL  time.Duration

	// Image storage configuration
	S3Bucket  string
	AWSRegion string
	MediaDir  string

	// Rate limiting of recipe writes, per user
	RecipeWriteLimit  int
	RecipeWriteWindow time.Duration

	// Logging
	LogLevel  string
	LogFormat string
}

// LoadConfig creates a new Config instance. Every value is looked up in the
// environment first, then in the Docker secrets directory, then falls back
// to a development default.
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{
		Env:           env,
		ServerPort:    lookup("SERVER_PORT", "server_port", "8080"),
		ServerHost:    lookup("SERVER_HOST", "server_host", "0.0.0.0"),
		DBDriver:      strings.ToLower(lookup("DB_DRIVER", "db_driver", defaultDBDriver)),
		DBHost:        lookup("DB_HOST", "db_host", "localhost"),
		DBPort:        lookup("DB_PORT", "db_port", "5432"),
		DBUser:        lookup("DB_USER", "db_user", "postgres"),
		DBPassword:    lookup("DB_PASSWORD", "db_password", "postgres"),
		DBName:        lookup("DB_NAME", "db_name", "foodgram"),
		DBSSLMode:     lookup("DB_SSL_MODE", "db_ssl_mode", "disable"),
		SQLitePath:    lookup("SQLITE_PATH", "sqlite_path", "foodgram.db"),
		RedisHost:     lookup("REDIS_HOST", "redis_host", ""),
		RedisPort:     lookup("REDIS_PORT", "redis_port", "6379"),
		RedisPassword: lookup("REDIS_PASSWORD", "redis_password", ""),
		RedisURL:      lookup("REDIS_URL", "redis_url", ""),
		JWTSecret:     lookup("JWT_SECRET", "jwt_secret", defaultJWTSecret),
		S3Bucket:      lookup("S3_BUCKET_NAME", "s3_bucket_name", ""),
		AWSRegion:     lookup("AWS_REGION", "aws_region", "us-east-1"),
		MediaDir:      lookup("MEDIA_DIR", "media_dir", "media"),
		LogLevel:      lookup("LOG_LEVEL", "log_level", "info"),
		LogFormat:     lookup("LOG_FORMAT", "log_format", defaultLogFormat(env)),
	}

	origins := lookup("CORS_ORIGINS", "cors_origins", "http://localhost:3000")
	for _, origin := range strings.Split(origins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
		}
	}

	var err error
	if cfg.RedisDB, err = lookupInt("REDIS_DB", "redis_db", 0); err != nil {
		return nil, err
	}
	if cfg.RecipeWriteLimit, err = lookupInt("RECIPE_WRITE_LIMIT", "recipe_write_limit", 30); err != nil {
		return nil, err
	}
	if cfg.TokenTTL, err = lookupDuration("TOKEN_TTL", "token_ttl", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.RecipeWriteWindow, err = lookupDuration("RECIPE_WRITE_WINDOW", "recipe_write_window", time.Hour); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = lookupDuration("SHUTDOWN_TIMEOUT", "shutdown_timeout", 10*time.Second); err != nil {
		return nil, err
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address of the HTTP server
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// PostgresDSN returns the keyword/value connection string used by lib/pq
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// PostgresURL returns the URL form of the connection string, as expected by
// the migration runner.
func (c *Config) PostgresURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.DBSSLMode),
	}
	return u.String()
}

// RedisEnabled reports whether a Redis endpoint was configured
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

func defaultLogFormat(env Environment) string {
	if env == Production {
		return "json"
	}
	return "text"
}

func lookup(envName, secretName, def string) string {
	if v := strings.TrimSpace(os.Getenv(envName)); v != "" {
		return v
	}
	if v := readSecret(secretName); v != "" {
		return v
	}
	return def
}

func lookupInt(envName, secretName string, def int) (int, error) {
	raw := lookup(envName, secretName, "")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envName, raw, err)
	}
	return n, nil
}

func lookupDuration(envName, secretName string, def time.Duration) (time.Duration, error) {
	raw := lookup(envName, secretName, "")
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envName, raw, err)
	}
	return d, nil
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
