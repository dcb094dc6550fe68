package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingJWTSecret is returned by Load when no signing secret is configured
var ErrMissingJWTSecret = errors.New("JWT secret is not configured")

// Config holds all configuration for the application
type Config struct {
	AppMode     string
	Port        string
	Database    DatabaseConfig
	JWT         JWTConfig
	Cookie      CookieConfig
	Redis       RedisConfig
	Revocation  RevocationConfig
	Server      ServerConfig
	PhoneRegion string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string // mysql or postgres
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// JWTConfig holds session token configuration
type JWTConfig struct {
	Secret     string
	TokenHours int
	LeewaySecs int
	BcryptCost int
}

// TTL returns the session token lifetime
func (j JWTConfig) TTL() time.Duration {
	return time.Duration(j.TokenHours) * time.Hour
}

// Leeway returns the tolerated clock skew
func (j JWTConfig) Leeway() time.Duration {
	return time.Duration(j.LeewaySecs) * time.Second
}

// CookieConfig holds session cookie configuration
type CookieConfig struct {
	Name   string
	Secure bool
	Domain string
}

// RedisConfig holds the optional Redis connection
type RedisConfig struct {
	URL string
}

// RevocationConfig holds token revocation settings
type RevocationConfig struct {
	Enforce   bool
	PurgeCron string
}

// ServerConfig holds HTTP server timeouts
type ServerConfig struct {
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	AuthRateLimit int // login/register requests per minute per IP
}

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Get APP_MODE (default to "dev") - trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	config := &Config{
		AppMode:     appMode,
		Port:        getEnv("PORT", "5000"),
		Database:    loadDatabaseConfig(appMode),
		JWT:         loadJWTConfig(appMode),
		Cookie:      loadCookieConfig(appMode),
		Redis:       RedisConfig{URL: getEnv("REDIS_URL", "")},
		Revocation:  loadRevocationConfig(),
		Server:      loadServerConfig(),
		PhoneRegion: getEnv("PHONE_DEFAULT_REGION", "IN"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	log.Printf("✅ Configuration loaded successfully [MODE: %s]", appMode)
	return config, nil
}

// Validate checks settings that must be present before the server starts
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return ErrMissingJWTSecret
	}
	if c.Database.Driver != "mysql" && c.Database.Driver != "postgres" {
		return fmt.Errorf("invalid DB_DRIVER: '%s' (must be 'mysql' or 'postgres')", c.Database.Driver)
	}
	if c.JWT.TokenHours <= 0 {
		return fmt.Errorf("invalid TOKEN_TTL_HOURS: %d", c.JWT.TokenHours)
	}
	return nil
}

func modePrefix(mode string) string {
	if mode == "prod" {
		return "PROD_"
	}
	return "DEV_"
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := modePrefix(mode)

	driver := strings.ToLower(getEnv(prefix+"DB_DRIVER", "postgres"))
	defaultPort := "5432"
	if driver == "mysql" {
		defaultPort = "3306"
	}

	sslMode := "disable"
	if mode == "prod" {
		sslMode = "require"
	}

	return DatabaseConfig{
		Driver:   driver,
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", defaultPort),
		User:     getEnv(prefix+"DB_USER", "postgres"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "arogya"),
		SSLMode:  getEnv(prefix+"DB_SSLMODE", sslMode),
	}
}

// loadJWTConfig loads JWT config based on mode. There is no default secret.
func loadJWTConfig(mode string) JWTConfig {
	prefix := modePrefix(mode)

	return JWTConfig{
		Secret:     getEnv(prefix+"JWT_SECRET", ""),
		TokenHours: getEnvInt("TOKEN_TTL_HOURS", 24),
		LeewaySecs: getEnvInt("TOKEN_LEEWAY_SECONDS", 10),
		BcryptCost: getEnvInt("BCRYPT_COST", 12),
	}
}

// loadCookieConfig loads cookie config based on mode; secure by default in prod
func loadCookieConfig(mode string) CookieConfig {
	prefix := modePrefix(mode)

	secure, _ := strconv.ParseBool(getEnv(prefix+"COOKIE_SECURE", strconv.FormatBool(mode == "prod")))

	return CookieConfig{
		Name:   "token",
		Secure: secure,
		Domain: getEnv("COOKIE_DOMAIN", ""),
	}
}

func loadRevocationConfig() RevocationConfig {
	enforce, _ := strconv.ParseBool(getEnv("AUTH_ENFORCE_REVOCATION", "false"))

	return RevocationConfig{
		Enforce:   enforce,
		PurgeCron: getEnv("REVOCATION_PURGE_CRON", "@hourly"),
	}
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		ReadTimeout:   time.Duration(getEnvInt("READ_TIMEOUT_SECONDS", 15)) * time.Second,
		WriteTimeout:  time.Duration(getEnvInt("WRITE_TIMEOUT_SECONDS", 15)) * time.Second,
		AuthRateLimit: getEnvInt("AUTH_RATE_LIMIT", 10),
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return n
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "http://localhost:3000"
	}
	return origins
}
