package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_PASSWORD", "postgres")
	t.Setenv("CRON_SECRET", "0123456789abcdef")
}

func TestLoadProductionConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadProductionConfig()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, cfg.Cron.RequestTimeout)
	assert.Equal(t, "03:00", cfg.Cron.RunAt)
	assert.Equal(t, 1, cfg.Cron.HealthConcurrency)
	assert.False(t, cfg.Cron.SchedulerEnabled)
	assert.Equal(t, "mock", cfg.Email.Provider)
	assert.Equal(t, "google", cfg.Sheets.Provider)
	assert.Equal(t, []string{"GET", "OPTIONS"}, cfg.Security.AllowedMethods)
	assert.False(t, cfg.Deployment.IsDevelopment())
}

func TestLoadProductionConfigOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CRON_SCHEDULER_ENABLED", "true")
	t.Setenv("CRON_RUN_AT", "04:30")
	t.Setenv("CRON_REQUEST_TIMEOUT", "5m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("SHEETS_PROVIDER", "xlsx")
	t.Setenv("APP_ENV", "development")

	cfg, err := LoadProductionConfig()
	require.NoError(t, err)
	assert.True(t, cfg.Cron.SchedulerEnabled)
	assert.Equal(t, 5*time.Minute, cfg.Cron.RequestTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Security.AllowedOrigins)
	assert.True(t, cfg.Deployment.IsDevelopment())

	hour, minute, err := cfg.Cron.RunAtClock()
	require.NoError(t, err)
	assert.Equal(t, 4, hour)
	assert.Equal(t, 30, minute)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("FUNNELY_TEST_FROM_FILE=file\nFUNNELY_TEST_PRESET=file\n"), 0o600))
	t.Setenv("FUNNELY_TEST_PRESET", "env")
	t.Cleanup(func() { os.Unsetenv("FUNNELY_TEST_FROM_FILE") })

	require.NoError(t, loadEnvFile(path))
	assert.Equal(t, "file", os.Getenv("FUNNELY_TEST_FROM_FILE"))
	assert.Equal(t, "env", os.Getenv("FUNNELY_TEST_PRESET"))

	assert.NoError(t, loadEnvFile(filepath.Join(dir, "missing.env")))
}

func TestValidateProductionConfig(t *testing.T) {
	valid := func() *ProductionConfig {
		return &ProductionConfig{
			Database: DatabaseConfig{Host: "db", Port: 5432, Name: "app", User: "app", Password: "pw"},
			Server:   ServerConfig{Port: 8080, ReadTimeout: time.Second, WriteTimeout: time.Second},
			Cron: CronConfig{
				Secret:            "0123456789abcdef",
				RequestTimeout:    time.Minute,
				RunAt:             "03:00",
				CheckInterval:     time.Minute,
				HealthConcurrency: 1,
			},
			Email:   EmailConfig{Provider: "mock", FromEmail: "noreply@example.com"},
			Sheets:  SheetsConfig{Provider: "google"},
			Logging: LoggingConfig{Level: "info"},
		}
	}
	require.NoError(t, ValidateProductionConfig(valid()))

	tests := []struct {
		name    string
		mutate  func(*ProductionConfig)
		message string
	}{
		{name: "ShortSecret", mutate: func(c *ProductionConfig) { c.Cron.Secret = "short" }, message: "CRON_SECRET"},
		{name: "BadRunAt", mutate: func(c *ProductionConfig) { c.Cron.SchedulerEnabled = true; c.Cron.RunAt = "25:99" }, message: "CRON_RUN_AT"},
		{name: "ZeroConcurrency", mutate: func(c *ProductionConfig) { c.Cron.HealthConcurrency = 0 }, message: "CRON_HEALTH_SCORE_CONCURRENCY"},
		{name: "BrevoWithoutKey", mutate: func(c *ProductionConfig) { c.Email.Provider = "brevo" }, message: "BREVO_API_KEY"},
		{name: "UnknownEmailProvider", mutate: func(c *ProductionConfig) { c.Email.Provider = "smtp" }, message: "EMAIL_PROVIDER"},
		{name: "UnknownSheetsProvider", mutate: func(c *ProductionConfig) { c.Sheets.Provider = "csv" }, message: "SHEETS_PROVIDER"},
		{name: "XLSXWithoutDir", mutate: func(c *ProductionConfig) { c.Sheets.Provider = "xlsx" }, message: "SHEETS_XLSX_DIR"},
		{name: "TLSWithoutCert", mutate: func(c *ProductionConfig) { c.Security.TLSEnabled = true }, message: "TLS_CERT_FILE"},
		{name: "BadLogLevel", mutate: func(c *ProductionConfig) { c.Logging.Level = "trace" }, message: "LOG_LEVEL"},
		{name: "CacheWithoutURL", mutate: func(c *ProductionConfig) { c.Cache.Enabled = true; c.Cron.LockTTL = time.Minute }, message: "CACHE_REDIS_URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := ValidateProductionConfig(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}
