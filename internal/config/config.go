package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// JWT configuration
	JWT JWTConfig

	// Rate limiting configuration
	RateLimit RateLimitConfig

	// Redis configuration (used by the redis rate limit backend)
	Redis RedisConfig

	// CORS configuration
	CORS CORSConfig

	// Security configuration
	Security SecurityConfig

	// Payment gateway simulation configuration
	Payment PaymentConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string
	Environment    string // development, staging, production
	LogLevel       string // debug, info, warn, error
	RequestTimeout time.Duration
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	URL                string
	Driver             string // "postgres" (lib/pq) or "pgx"
	MaxConnections     int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
	AutoMigrate        bool
}

// JWTConfig holds JWT-related configuration
type JWTConfig struct {
	Secret            string
	AccessTokenExpiry time.Duration
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled       bool
	Backend       string // "postgres" or "redis"
	Requests      int
	WindowSeconds int
}

// RedisConfig holds redis connection configuration
type RedisConfig struct {
	URL string
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// SecurityConfig holds security-related configuration
type SecurityConfig struct {
	BcryptCost     int
	EnableAuditLog bool
}

// PaymentConfig holds settings for the simulated payment gateway
type PaymentConfig struct {
	GatewayBaseURL string
	WebhookSecret  string // when set, /payments/confirm requires X-Webhook-Secret
}

// Load loads configuration from environment variables and an optional
// config file named by CONFIG_FILE. Environment variables win.
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	config := &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			Environment:    v.GetString("ENVIRONMENT"),
			LogLevel:       v.GetString("LOG_LEVEL"),
			RequestTimeout: time.Duration(v.GetInt("REQUEST_TIMEOUT_SECONDS")) * time.Second,
		},
		Database: DatabaseConfig{
			URL:                v.GetString("DATABASE_URL"),
			Driver:             v.GetString("DATABASE_DRIVER"),
			MaxConnections:     v.GetInt("DATABASE_MAX_CONNECTIONS"),
			MaxIdleConnections: v.GetInt("DATABASE_MAX_IDLE_CONNECTIONS"),
			ConnMaxLifetime:    time.Duration(v.GetInt("DATABASE_CONN_MAX_LIFETIME")) * time.Second,
			AutoMigrate:        v.GetBool("DATABASE_AUTO_MIGRATE"),
		},
		JWT: JWTConfig{
			Secret:            v.GetString("JWT_SECRET"),
			AccessTokenExpiry: time.Duration(v.GetInt("JWT_ACCESS_TOKEN_EXPIRY")) * time.Second,
		},
		RateLimit: RateLimitConfig{
			Enabled:       v.GetBool("RATE_LIMIT_ENABLED"),
			Backend:       v.GetString("RATE_LIMIT_BACKEND"),
			Requests:      v.GetInt("RATE_LIMIT_REQUESTS"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		Redis: RedisConfig{
			URL: v.GetString("REDIS_URL"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getList(v, "CORS_ALLOWED_ORIGINS"),
			AllowedMethods: getList(v, "CORS_ALLOWED_METHODS"),
			AllowedHeaders: getList(v, "CORS_ALLOWED_HEADERS"),
		},
		Security: SecurityConfig{
			BcryptCost:     v.GetInt("BCRYPT_COST"),
			EnableAuditLog: v.GetBool("ENABLE_AUDIT_LOGGING"),
		},
		Payment: PaymentConfig{
			GatewayBaseURL: strings.TrimRight(v.GetString("PAYMENT_GATEWAY_BASE_URL"), "/"),
			WebhookSecret:  v.GetString("PAYMENT_WEBHOOK_SECRET"),
		},
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("REQUEST_TIMEOUT_SECONDS", 30)

	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("DATABASE_MAX_CONNECTIONS", 10)
	v.SetDefault("DATABASE_MAX_IDLE_CONNECTIONS", 5)
	v.SetDefault("DATABASE_CONN_MAX_LIFETIME", 300)
	v.SetDefault("DATABASE_AUTO_MIGRATE", false)

	v.SetDefault("JWT_ACCESS_TOKEN_EXPIRY", 86400)

	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("RATE_LIMIT_BACKEND", "postgres")
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 900) // 15 minutes

	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("CORS_ALLOWED_METHODS", "GET,POST,PUT,DELETE,OPTIONS")
	v.SetDefault("CORS_ALLOWED_HEADERS", "Content-Type,Authorization,X-Request-ID,X-Webhook-Secret")

	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("ENABLE_AUDIT_LOGGING", true)

	v.SetDefault("PAYMENT_GATEWAY_BASE_URL", "https://payment-gateway.com")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Database.Driver != "postgres" && c.Database.Driver != "pgx" {
		return fmt.Errorf("invalid DATABASE_DRIVER: %s (must be 'postgres' or 'pgx')", c.Database.Driver)
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.RateLimit.Enabled {
		switch c.RateLimit.Backend {
		case "postgres":
		case "redis":
			if c.Redis.URL == "" {
				return fmt.Errorf("REDIS_URL is required when RATE_LIMIT_BACKEND is redis")
			}
		default:
			return fmt.Errorf("invalid RATE_LIMIT_BACKEND: %s (must be 'postgres' or 'redis')", c.RateLimit.Backend)
		}
		if c.RateLimit.Requests <= 0 || c.RateLimit.WindowSeconds <= 0 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW_SECONDS must be positive")
		}
	}

	if c.Security.BcryptCost < 4 || c.Security.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31")
	}

	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// getList reads a comma separated value and drops empty entries
func getList(v *viper.Viper, key string) []string {
	var result []string
	for _, item := range strings.Split(v.GetString(key), ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
