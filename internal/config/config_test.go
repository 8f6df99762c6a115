package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		validate func(t *testing.T, cfg *Config)
	}{
		{
			name:    "load default configuration",
			envVars: map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "0.0.0.0", cfg.ServerHost)
				assert.Equal(t, 8080, cfg.ServerPort)
				assert.Equal(t, DriverMemory, cfg.DBDriver)
				assert.Empty(t, cfg.RedisURL)
				assert.Equal(t, "info", cfg.LogLevel)
				assert.Equal(t, 10*time.Minute, cfg.OTPTTL)
				assert.Equal(t, 5, cfg.OTPMaxAttempts)
				assert.Equal(t, time.Minute, cfg.OTPResendInterval)
				assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
				assert.Equal(t, 5, cfg.APIKeysPerAccount)
				assert.Equal(t, 50, cfg.GSTBatchMax)
				assert.Equal(t, "https://api.exchangerate-api.com/v4", cfg.ForexAPIBaseURL)
				assert.Equal(t, 10*time.Minute, cfg.ForexCacheTTL)
				assert.Equal(t, time.Hour, cfg.ForexStaleTTL)
				assert.Equal(t, int64(10<<20), cfg.OCRMaxUploadBytes)
				assert.Equal(t, "eng", cfg.OCRLanguage)
				assert.Equal(t, 4, cfg.MailWorkers)
				assert.Equal(t, 100, cfg.MailQueueSize)
				assert.Equal(t, 2, cfg.MailMaxRetries)
				assert.Equal(t, 2*time.Second, cfg.MailRetryInterval)
				assert.Equal(t, "bizdata", cfg.MetricsNamespace)
				assert.Equal(t, TierLimit{RequestsPerSec: 1, Burst: 5}, cfg.TierFree)
				assert.Nil(t, cfg.TrustedProxies)
			},
		},
		{
			name: "load custom server configuration",
			envVars: map[string]string{
				"SERVER_HOST": "localhost",
				"SERVER_PORT": "9090",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "localhost", cfg.ServerHost)
				assert.Equal(t, 9090, cfg.ServerPort)
			},
		},
		{
			name: "load custom database configuration",
			envVars: map[string]string{
				"DB_DRIVER":               "mysql",
				"DB_CONNECTION_STRING":    "user:password@tcp(localhost:3306)/bizdata",
				"DB_MAX_OPEN_CONNECTIONS": "50",
				"DB_CONN_MAX_LIFETIME":    "10",
				"REDIS_URL":               "redis://localhost:6379/1",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DriverMySQL, cfg.DBDriver)
				assert.Equal(t, "user:password@tcp(localhost:3306)/bizdata", cfg.DBConnectionString)
				assert.Equal(t, 50, cfg.DBMaxOpenConnections)
				assert.Equal(t, 10*time.Minute, cfg.DBConnMaxLifetime)
				assert.Equal(t, "redis://localhost:6379/1", cfg.RedisURL)
			},
		},
		{
			name: "load custom tier limits",
			envVars: map[string]string{
				"TIER_PRO_RPS":          "2.5",
				"TIER_PRO_BURST":        "7",
				"TIER_ENTERPRISE_BURST": "1000",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, TierLimit{RequestsPerSec: 2.5, Burst: 7}, cfg.TierPro)
				assert.Equal(t, 1000, cfg.TierEnterprise.Burst)
			},
		},
		{
			name: "load custom forex and ocr configuration",
			envVars: map[string]string{
				"FOREX_CACHE_TTL_SECONDS": "30",
				"OCR_MAX_UPLOAD_BYTES":    "1024",
				"OCR_ARCHIVE_BUCKET_URL":  "mem://",
				"OCR_ARCHIVE_KEY_URI":     "base64key://",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 30*time.Second, cfg.ForexCacheTTL)
				assert.Equal(t, int64(1024), cfg.OCRMaxUploadBytes)
				assert.Equal(t, "mem://", cfg.OCRArchiveBucketURL)
				assert.Equal(t, "base64key://", cfg.OCRArchiveKeyURI)
			},
		},
		{
			name: "load trusted proxies",
			envVars: map[string]string{
				"TRUSTED_PROXIES": " 10.0.0.1, 172.16.0.0/12,,",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"10.0.0.1", "172.16.0.0/12"}, cfg.TrustedProxies)
			},
		},
		{
			name: "empty trusted proxies trust none",
			envVars: map[string]string{
				"TRUSTED_PROXIES": "",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Nil(t, cfg.TrustedProxies)
			},
		},
		{
			name: "load custom logging configuration",
			envVars: map[string]string{
				"LOG_LEVEL": "debug",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.LogLevel)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clear environment
			os.Clearenv()

			for key, value := range tt.envVars {
				err := os.Setenv(key, value)
				require.NoError(t, err)
			}

			cfg := Load()

			tt.validate(t, cfg)
		})
	}
}

func TestConfig_GetGinMode(t *testing.T) {
	assert.Equal(t, "debug", (&Config{LogLevel: "debug"}).GetGinMode())
	assert.Equal(t, "release", (&Config{LogLevel: "info"}).GetGinMode())
	assert.Equal(t, "release", (&Config{LogLevel: "bogus"}).GetGinMode())
}
