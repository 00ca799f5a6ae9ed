package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/gorm/logger"
)

// DBConfig holds database configuration
type DBConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	LogLevel        logger.LogLevel
}

// GetDSN returns the PostgreSQL connection string
func (c *DBConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Prefix string
}

// OffersConfig holds the connection settings for the remote offers source.
type OffersConfig struct {
	BaseURL string
	// AccessToken may be pre-provisioned; when empty the client obtains one
	// from the remote auth endpoint during startup.
	AccessToken     string
	HTTPTimeout     time.Duration
	RefreshInterval time.Duration
}

// Config holds all configuration
type Config struct {
	ServiceName string
	Server      ServerConfig
	Log         LogConfig
	Metrics     MetricsConfig
	DB          DBConfig
	Offers      OffersConfig
}

// Load reads configuration from the environment, with a .env file as an
// optional source.
func Load(serviceName string) (*Config, error) {
	// Not returning an error as the .env file is optional
	_ = godotenv.Load()

	config := &Config{
		ServiceName: serviceName,
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("APP_ENV", "development"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Metrics: MetricsConfig{
			Prefix: getEnv("METRICS_PREFIX", serviceName),
		},
		DB: DBConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "password"),
			DBName:          getEnv("DB_NAME", serviceName),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 1*time.Hour),
			LogLevel:        getEnvAsLogLevel("DB_LOG_LEVEL", logger.Warn),
		},
		Offers: OffersConfig{
			BaseURL:         getEnv("OFFERS_BASE_URL", "http://localhost:8081"),
			AccessToken:     getEnv("OFFERS_ACCESS_TOKEN", ""),
			HTTPTimeout:     getEnvAsDuration("OFFERS_HTTP_TIMEOUT", 8*time.Second),
			RefreshInterval: getEnvAsDuration("OFFERS_REFRESH_INTERVAL", 60*time.Second),
		},
	}

	if config.Offers.BaseURL == "" {
		return nil, fmt.Errorf("OFFERS_BASE_URL must not be empty")
	}
	if config.Offers.HTTPTimeout <= 0 {
		return nil, fmt.Errorf("OFFERS_HTTP_TIMEOUT must be > 0")
	}
	if config.Offers.RefreshInterval <= 0 {
		return nil, fmt.Errorf("OFFERS_REFRESH_INTERVAL must be > 0")
	}

	return config, nil
}

// Helper function to get environment variables with defaults
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as integers
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as durations
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as log levels
func getEnvAsLogLevel(key string, defaultValue logger.LogLevel) logger.LogLevel {
	switch getEnv(key, "") {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	default:
		return defaultValue
	}
}
