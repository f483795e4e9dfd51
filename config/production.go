// Package config provides configuration management and environment variable handling for the application
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mh853/Funnely-sub001/utils"
)

// ProductionConfig holds all configuration for production environment
type ProductionConfig struct {
	Database   DatabaseConfig   `json:"database"`
	Server     ServerConfig     `json:"server"`
	Security   SecurityConfig   `json:"security"`
	Cron       CronConfig       `json:"cron"`
	Email      EmailConfig      `json:"email"`
	Sheets     SheetsConfig     `json:"sheets"`
	Logging    LoggingConfig    `json:"logging"`
	Metrics    MetricsConfig    `json:"metrics"`
	Cache      CacheConfig      `json:"cache"`
	Deployment DeploymentConfig `json:"deployment"`
}

type DatabaseConfig struct {
	Host            string        `json:"host"`
	Port            int           `json:"port"`
	Name            string        `json:"name"`
	User            string        `json:"user"`
	Password        string        `json:"password"`
	SSLMode         string        `json:"ssl_mode"`
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `json:"conn_max_idle_time"`
	SlowQueryLog    bool          `json:"slow_query_log"`
	SlowQueryTime   time.Duration `json:"slow_query_time"`
}

type ServerConfig struct {
	Host            string        `json:"host"`
	Port            int           `json:"port"`
	ReadTimeout     time.Duration `json:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout"`
	IdleTimeout     time.Duration `json:"idle_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	BodyLimit       int           `json:"body_limit"`
	TrustedProxies  []string      `json:"trusted_proxies"`
	ProxyHeader     string        `json:"proxy_header"`
}

type SecurityConfig struct {
	TLSEnabled  bool   `json:"tls_enabled"`
	TLSCertFile string `json:"tls_cert_file"`
	TLSKeyFile  string `json:"tls_key_file"`

	AllowedOrigins []string `json:"allowed_origins"`
	AllowedMethods []string `json:"allowed_methods"`
	AllowedHeaders []string `json:"allowed_headers"`
	CORSMaxAge     int      `json:"cors_max_age"`
}

// CronConfig drives the daily task trigger and the in-process scheduler
type CronConfig struct {
	Secret            string        `json:"-"`
	RequestTimeout    time.Duration `json:"request_timeout"`
	SchedulerEnabled  bool          `json:"scheduler_enabled"`
	RunAt             string        `json:"run_at"` // HH:MM in the regional timezone
	CheckInterval     time.Duration `json:"check_interval"`
	HealthConcurrency int           `json:"health_concurrency"`
	LockTTL           time.Duration `json:"lock_ttl"`
	LogFilePath       string        `json:"log_file_path"`
}

type EmailConfig struct {
	Provider    string `json:"provider"` // brevo, mock
	BrevoAPIKey string `json:"-"`
	FromEmail   string `json:"from_email"`
	FromName    string `json:"from_name"`
	AppURL      string `json:"app_url"`
}

type SheetsConfig struct {
	Provider        string `json:"provider"` // google, xlsx
	CredentialsFile string `json:"credentials_file"`
	CredentialsJSON string `json:"-"`
	XLSXDir         string `json:"xlsx_dir"`
}

type LoggingConfig struct {
	Level      string `json:"level"`    // debug, info, warn, error
	FilePath   string `json:"file_path"`
	MaxSize    int    `json:"max_size"` // MB
	MaxBackups int    `json:"max_backups"`
	MaxAge     int    `json:"max_age"`  // days
	Compress   bool   `json:"compress"`

	EnableAccessLog bool `json:"enable_access_log"`
}

type MetricsConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

type CacheConfig struct {
	Enabled     bool   `json:"enabled"`
	RedisURL    string `json:"redis_url"`
	RedisDB     int    `json:"redis_db"`
	RedisPrefix string `json:"redis_prefix"`
}

type DeploymentConfig struct {
	Environment string `json:"environment"`
	Version     string `json:"version"`
	CommitHash  string `json:"commit_hash"`
	BuildTime   string `json:"build_time"`
}

// IsDevelopment reports whether the service runs outside production
func (d DeploymentConfig) IsDevelopment() bool {
	return d.Environment == "development" || d.Environment == "test"
}

// RunAtClock parses RunAt into hour and minute
func (c CronConfig) RunAtClock() (int, int, error) {
	t, err := time.Parse("15:04", c.RunAt)
	if err != nil {
		return 0, 0, fmt.Errorf("CRON_RUN_AT must be HH:MM: %w", err)
	}
	return t.Hour(), t.Minute(), nil
}

// LoadProductionConfig loads and validates configuration from environment variables
func LoadProductionConfig() (*ProductionConfig, error) {
	if err := loadEnvFile(".env"); err != nil {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &ProductionConfig{
		Database: DatabaseConfig{
			Host:            getEnvString("DB_HOST", "localhost"),
			Port:            getEnvInt("DB_PORT", 5432),
			Name:            getEnvString("DB_NAME", "postgres"),
			User:            getEnvString("DB_USER", "postgres"),
			Password:        getEnvString("DB_PASSWORD", ""),
			SSLMode:         getEnvString("DB_SSL_MODE", "require"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getEnvDuration("DB_CONN_MAX_IDLE_TIME", 15*time.Minute),
			SlowQueryLog:    getEnvBool("DB_SLOW_QUERY_LOG", true),
			SlowQueryTime:   getEnvDuration("DB_SLOW_QUERY_TIME", 1*time.Second),
		},
		Server: ServerConfig{
			Host:            getEnvString("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Minute),
			IdleTimeout:     getEnvDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			BodyLimit:       getEnvInt("SERVER_BODY_LIMIT", 1024*1024),                          // 1MB
			TrustedProxies:  getEnvStringSlice("SERVER_TRUSTED_PROXIES", []string{"127.0.0.1"}),
			ProxyHeader:     getEnvString("SERVER_PROXY_HEADER", "X-Real-IP"),
		},
		Security: SecurityConfig{
			TLSEnabled:     getEnvBool("TLS_ENABLED", false),
			TLSCertFile:    getEnvString("TLS_CERT_FILE", ""),
			TLSKeyFile:     getEnvString("TLS_KEY_FILE", ""),
			AllowedOrigins: getEnvStringSlice("CORS_ALLOWED_ORIGINS", []string{"https://funnely.co.kr"}),
			AllowedMethods: getEnvStringSlice("CORS_ALLOWED_METHODS", []string{"GET", "OPTIONS"}),
			AllowedHeaders: getEnvStringSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept", "Authorization"}),
			CORSMaxAge:     getEnvInt("CORS_MAX_AGE", utils.CORSMaxAge),
		},
		Cron: CronConfig{
			Secret:            getEnvString("CRON_SECRET", ""),
			RequestTimeout:    getEnvDuration("CRON_REQUEST_TIMEOUT", 10*time.Minute),
			SchedulerEnabled:  getEnvBool("CRON_SCHEDULER_ENABLED", false),
			RunAt:             getEnvString("CRON_RUN_AT", "03:00"),
			CheckInterval:     getEnvDuration("CRON_CHECK_INTERVAL", time.Minute),
			HealthConcurrency: getEnvInt("CRON_HEALTH_SCORE_CONCURRENCY", 1),
			LockTTL:           getEnvDuration("CRON_LOCK_TTL", 30*time.Minute),
			LogFilePath:       getEnvString("CRON_LOG_FILE_PATH", "logs/daily_tasks.log"),
		},
		Email: EmailConfig{
			Provider:    getEnvString("EMAIL_PROVIDER", "mock"),
			BrevoAPIKey: getEnvString("BREVO_API_KEY", ""),
			FromEmail:   getEnvString("EMAIL_FROM_EMAIL", "noreply@funnely.co.kr"),
			FromName:    getEnvString("EMAIL_FROM_NAME", "Funnely"),
			AppURL:      getEnvString("APP_URL", "https://funnely.co.kr"),
		},
		Sheets: SheetsConfig{
			Provider:        getEnvString("SHEETS_PROVIDER", "google"),
			CredentialsFile: getEnvString("GOOGLE_SHEETS_CREDENTIALS_FILE", ""),
			CredentialsJSON: getEnvString("GOOGLE_SHEETS_CREDENTIALS_JSON", ""),
			XLSXDir:         getEnvString("SHEETS_XLSX_DIR", "data/sheets"),
		},
		Logging: LoggingConfig{
			Level:           getEnvString("LOG_LEVEL", "info"),
			FilePath:        getEnvString("LOG_FILE_PATH", "logs/app.log"),
			MaxSize:         getEnvInt("LOG_MAX_SIZE", 100),
			MaxBackups:      getEnvInt("LOG_MAX_BACKUPS", 10),
			MaxAge:          getEnvInt("LOG_MAX_AGE", 30),
			Compress:        getEnvBool("LOG_COMPRESS", true),
			EnableAccessLog: getEnvBool("LOG_ENABLE_ACCESS", true),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", true),
			Path:    getEnvString("METRICS_PATH", "/metrics"),
		},
		Cache: CacheConfig{
			Enabled:     getEnvBool("CACHE_ENABLED", false),
			RedisURL:    getEnvString("CACHE_REDIS_URL", "redis://localhost:6379"),
			RedisDB:     getEnvInt("CACHE_REDIS_DB", 0),
			RedisPrefix: getEnvString("CACHE_REDIS_PREFIX", "funnely:"),
		},
		Deployment: DeploymentConfig{
			Environment: getEnvString("APP_ENV", "production"),
			Version:     getEnvString("VERSION", "1.0.0"),
			CommitHash:  getEnvString("COMMIT_HASH", "unknown"),
			BuildTime:   getEnvString("BUILD_TIME", "unknown"),
		},
	}

	// Validate the loaded configuration
	if err := ValidateProductionConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadEnvFile loads variables from path when it exists. Variables already set in the
// environment win over the file.
func loadEnvFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(path)
}

// Helper functions for environment variable parsing
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		var result []string
		for _, item := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(item); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}

// ValidateProductionConfig validates the production configuration
func ValidateProductionConfig(cfg *ProductionConfig) error {
	var errs []string

	// Validate database configuration
	if cfg.Database.Host == "" {
		errs = append(errs, "DB_HOST is required")
	}
	if cfg.Database.Port <= 0 || cfg.Database.Port > 65535 {
		errs = append(errs, "DB_PORT must be between 1 and 65535")
	}
	if cfg.Database.Name == "" {
		errs = append(errs, "DB_NAME is required")
	}
	if cfg.Database.User == "" {
		errs = append(errs, "DB_USER is required")
	}
	if cfg.Database.Password == "" {
		errs = append(errs, "DB_PASSWORD is required")
	}

	// Validate server configuration
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		errs = append(errs, "SERVER_PORT must be between 1 and 65535")
	}
	if cfg.Server.ReadTimeout <= 0 {
		errs = append(errs, "SERVER_READ_TIMEOUT must be positive")
	}
	if cfg.Server.WriteTimeout <= 0 {
		errs = append(errs, "SERVER_WRITE_TIMEOUT must be positive")
	}

	// Validate cron configuration
	if len(cfg.Cron.Secret) < 16 {
		errs = append(errs, "CRON_SECRET must be at least 16 characters long")
	}
	if cfg.Cron.RequestTimeout <= 0 {
		errs = append(errs, "CRON_REQUEST_TIMEOUT must be positive")
	}
	if cfg.Cron.SchedulerEnabled {
		if _, _, err := cfg.Cron.RunAtClock(); err != nil {
			errs = append(errs, err.Error())
		}
		if cfg.Cron.CheckInterval <= 0 {
			errs = append(errs, "CRON_CHECK_INTERVAL must be positive")
		}
	}
	if cfg.Cron.HealthConcurrency < 1 {
		errs = append(errs, "CRON_HEALTH_SCORE_CONCURRENCY must be at least 1")
	}
	if cfg.Cache.Enabled && cfg.Cron.LockTTL <= 0 {
		errs = append(errs, "CRON_LOCK_TTL must be positive when cache is enabled")
	}

	// Validate email configuration
	switch cfg.Email.Provider {
	case "brevo":
		if cfg.Email.BrevoAPIKey == "" {
			errs = append(errs, "BREVO_API_KEY is required for the brevo email provider")
		}
	case "mock":
	default:
		errs = append(errs, "EMAIL_PROVIDER must be one of: brevo, mock")
	}
	if cfg.Email.FromEmail == "" {
		errs = append(errs, "EMAIL_FROM_EMAIL is required")
	}

	// Validate sheets configuration
	switch cfg.Sheets.Provider {
	case "google":
		// without credentials the sheet sync job reports an error and the rest still run
	case "xlsx":
		if cfg.Sheets.XLSXDir == "" {
			errs = append(errs, "SHEETS_XLSX_DIR is required for the xlsx sheets provider")
		}
	default:
		errs = append(errs, "SHEETS_PROVIDER must be one of: google, xlsx")
	}

	// Validate TLS configuration if enabled
	if cfg.Security.TLSEnabled {
		if cfg.Security.TLSCertFile == "" {
			errs = append(errs, "TLS_CERT_FILE is required when TLS is enabled")
		}
		if cfg.Security.TLSKeyFile == "" {
			errs = append(errs, "TLS_KEY_FILE is required when TLS is enabled")
		}
	}

	// Validate logging configuration
	validLevels := []string{"debug", "info", "warn", "error"}
	if cfg.Logging.Level != "" && !slices.Contains(validLevels, cfg.Logging.Level) {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL must be one of: %v", validLevels))
	}

	// Validate cache configuration if enabled
	if cfg.Cache.Enabled && cfg.Cache.RedisURL == "" {
		errs = append(errs, "CACHE_REDIS_URL is required when cache is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return nil
}
