package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Auth       AuthConfig
	Scheduler  SchedulerConfig
	Logging    LoggingConfig
	Business   BusinessConfig
	Cloudinary CloudinaryConfig
	RateLimit  RateLimitConfig
	Health     HealthConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	URL             string
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret  string
	JWTIssuer  string
	TokenTTL   time.Duration
	BcryptCost int
}

type SchedulerConfig struct {
	Timezone              string
	ReminderCron          string
	OverdueCron           string
	ReminderLookaheadDays int
}

type LoggingConfig struct {
	Level  string
	Format string
}

type BusinessConfig struct {
	DefaultInterestRate float64
	MinPrincipal        string
	AnalyticsCacheTTL   time.Duration
	DefaultPageSize     int
	MaxPageSize         int
}

type CloudinaryConfig struct {
	URL       string
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type HealthConfig struct {
	Timeout time.Duration
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	// Don't fail if .env file doesn't exist
	_ = godotenv.Load()

	v := viper.New()

	// Set defaults
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("ENV", "development")
	v.SetDefault("SERVER_READ_TIMEOUT", "15s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "15s")
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", "5432")
	v.SetDefault("DATABASE_NAME", "microloan")
	v.SetDefault("DATABASE_USER", "microloan")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_MAX_OPEN_CONNS", 25)
	v.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	v.SetDefault("DATABASE_CONN_MAX_LIFETIME", "5m")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("JWT_ISSUER", "microloan")
	v.SetDefault("JWT_TOKEN_TTL", "24h")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("DEFAULT_INTEREST_RATE", 26.5)
	v.SetDefault("MIN_PRINCIPAL", "1000")
	v.SetDefault("ANALYTICS_CACHE_TTL", "60s")
	v.SetDefault("DEFAULT_PAGE_SIZE", 10)
	v.SetDefault("MAX_PAGE_SIZE", 100)
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)
	v.SetDefault("SCHEDULER_TIMEZONE", "UTC")
	v.SetDefault("REMINDER_CRON", "0 0 8 * * *")
	v.SetDefault("OVERDUE_CRON", "0 5 0 * * *")
	v.SetDefault("REMINDER_LOOKAHEAD_DAYS", 3)
	v.SetDefault("CLOUDINARY_FOLDER", "customers")
	v.SetDefault("HEALTH_CHECK_TIMEOUT", "5s")

	// Read from environment variables
	v.AutomaticEnv()

	// Try to read from .env file (optional)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./deployments")
	_ = v.ReadInConfig()

	config := Config{
		Server: ServerConfig{
			Port:         v.GetString("SERVER_PORT"),
			Host:         v.GetString("SERVER_HOST"),
			Env:          v.GetString("ENV"),
			ReadTimeout:  v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("SERVER_WRITE_TIMEOUT"),
		},
		Database: DatabaseConfig{
			URL:             v.GetString("DATABASE_URL"),
			Host:            v.GetString("DATABASE_HOST"),
			Port:            v.GetString("DATABASE_PORT"),
			Name:            v.GetString("DATABASE_NAME"),
			User:            v.GetString("DATABASE_USER"),
			Password:        v.GetString("DATABASE_PASSWORD"),
			SSLMode:         v.GetString("DATABASE_SSLMODE"),
			MaxOpenConns:    v.GetInt("DATABASE_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DATABASE_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DATABASE_CONN_MAX_LIFETIME"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Auth: AuthConfig{
			JWTSecret:  v.GetString("JWT_SECRET"),
			JWTIssuer:  v.GetString("JWT_ISSUER"),
			TokenTTL:   v.GetDuration("JWT_TOKEN_TTL"),
			BcryptCost: v.GetInt("BCRYPT_COST"),
		},
		Scheduler: SchedulerConfig{
			Timezone:              v.GetString("SCHEDULER_TIMEZONE"),
			ReminderCron:          v.GetString("REMINDER_CRON"),
			OverdueCron:           v.GetString("OVERDUE_CRON"),
			ReminderLookaheadDays: v.GetInt("REMINDER_LOOKAHEAD_DAYS"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Business: BusinessConfig{
			DefaultInterestRate: v.GetFloat64("DEFAULT_INTEREST_RATE"),
			MinPrincipal:        v.GetString("MIN_PRINCIPAL"),
			AnalyticsCacheTTL:   v.GetDuration("ANALYTICS_CACHE_TTL"),
			DefaultPageSize:     v.GetInt("DEFAULT_PAGE_SIZE"),
			MaxPageSize:         v.GetInt("MAX_PAGE_SIZE"),
		},
		Cloudinary: CloudinaryConfig{
			URL:       v.GetString("CLOUDINARY_URL"),
			CloudName: v.GetString("CLOUDINARY_CLOUD_NAME"),
			APIKey:    v.GetString("CLOUDINARY_API_KEY"),
			APISecret: v.GetString("CLOUDINARY_API_SECRET"),
			Folder:    v.GetString("CLOUDINARY_FOLDER"),
		},
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("RATE_LIMIT_RPS"),
			Burst: v.GetInt("RATE_LIMIT_BURST"),
		},
		Health: HealthConfig{
			Timeout: v.GetDuration("HEALTH_CHECK_TIMEOUT"),
		},
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.URL == "" && c.Database.Host == "" {
		return fmt.Errorf("DATABASE_URL or DATABASE_HOST is required")
	}

	if c.Business.DefaultInterestRate < 0 || c.Business.DefaultInterestRate > 100 {
		return fmt.Errorf("DEFAULT_INTEREST_RATE must be between 0 and 100")
	}

	// Validate minimum principal
	if _, err := decimal.NewFromString(c.Business.MinPrincipal); err != nil {
		return fmt.Errorf("MIN_PRINCIPAL must be a valid decimal: %w", err)
	}

	if c.Business.DefaultPageSize <= 0 || c.Business.MaxPageSize < c.Business.DefaultPageSize {
		return fmt.Errorf("DEFAULT_PAGE_SIZE must be positive and not exceed MAX_PAGE_SIZE")
	}

	if c.Business.AnalyticsCacheTTL < 0 {
		return fmt.Errorf("ANALYTICS_CACHE_TTL must not be negative")
	}

	if c.Scheduler.ReminderLookaheadDays < 0 {
		return fmt.Errorf("REMINDER_LOOKAHEAD_DAYS must not be negative")
	}

	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("SCHEDULER_TIMEZONE must be a valid IANA zone: %w", err)
	}

	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be greater than 0")
	}

	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("JWT_TOKEN_TTL must be greater than 0")
	}

	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31")
	}

	if c.IsProduction() && c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}

	return nil
}

// DSN returns the PostgreSQL connection string
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + d.Port,
		Path:     d.Name,
		RawQuery: "sslmode=" + d.SSLMode,
	}
	return u.String()
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// GetMinPrincipal returns the minimum loan principal as decimal
func (c *Config) GetMinPrincipal() decimal.Decimal {
	minPrincipal, _ := decimal.NewFromString(c.Business.MinPrincipal)
	return minPrincipal
}

// CloudinaryEnabled reports whether document uploads can be stored
func (c *Config) CloudinaryEnabled() bool {
	return c.Cloudinary.URL != "" || (c.Cloudinary.CloudName != "" && c.Cloudinary.APIKey != "" && c.Cloudinary.APISecret != "")
}
