// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Supported DB_DRIVER values.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// TierLimit is the token bucket of one account tier.
type TierLimit struct {
	RequestsPerSec float64
	Burst          int
}

// Config holds all application configuration.
type Config struct {
	// ServerHost is the host address the server will bind to.
	ServerHost string
	// ServerPort is the port number the server will listen on.
	ServerPort int
	// ServerShutdownTimeout bounds graceful shutdown of both servers and the mail queue.
	ServerShutdownTimeout time.Duration

	// DBDriver selects the account and API key store: "memory", "postgres" or "mysql".
	DBDriver string
	// DBConnectionString is the connection string for the database.
	DBConnectionString string
	// DBMaxOpenConnections is the maximum number of open connections to the database.
	DBMaxOpenConnections int
	// DBMaxIdleConnections is the maximum number of idle connections in the database pool.
	DBMaxIdleConnections int
	// DBConnMaxLifetime is the maximum amount of time a connection may be reused.
	DBConnMaxLifetime time.Duration

	// RedisURL enables the Redis OTP and session store when set (redis://host:6379/0).
	RedisURL string

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// OTPTTL is how long an emailed code stays valid.
	OTPTTL time.Duration
	// OTPMaxAttempts is the number of wrong codes accepted before the code is burned.
	OTPMaxAttempts int
	// OTPResendInterval is the minimum gap between two codes for one email.
	OTPResendInterval time.Duration
	// SessionTTL is the lifetime of a session bearer token.
	SessionTTL time.Duration
	// APIKeysPerAccount caps the live API keys of one account.
	APIKeysPerAccount int
	// ExpiredSweepInterval is how often the in-memory stores drop expired entries.
	ExpiredSweepInterval time.Duration

	// RateLimitEnabled turns the per-key tier limiter on.
	RateLimitEnabled bool
	// TierFree, TierPro and TierEnterprise size the per-key token buckets.
	TierFree       TierLimit
	TierPro        TierLimit
	TierEnterprise TierLimit

	// RateLimitOTPEnabled turns the per-IP limiter of the OTP endpoints on.
	RateLimitOTPEnabled bool
	// RateLimitOTPRequestsPerSec is the per-IP refill rate of the OTP endpoints.
	RateLimitOTPRequestsPerSec float64
	// RateLimitOTPBurst is the per-IP burst of the OTP endpoints.
	RateLimitOTPBurst int

	// GSTBatchMax caps the candidates of one batch verification.
	GSTBatchMax int

	// ForexAPIBaseURL is the exchange rate provider root.
	ForexAPIBaseURL string
	// ForexTimeout bounds one upstream call.
	ForexTimeout time.Duration
	// ForexCacheTTL is how long fetched rates are served without refetching.
	ForexCacheTTL time.Duration
	// ForexStaleTTL is how long rates may be served when the upstream is failing.
	ForexStaleTTL time.Duration

	// OCRMaxUploadBytes caps the PDF upload size.
	OCRMaxUploadBytes int64
	// OCRTesseractPath and OCRPdftoppmPath name the engine binaries.
	OCRTesseractPath string
	OCRPdftoppmPath  string
	// OCRLanguage is passed to tesseract with -l.
	OCRLanguage string
	// OCRDPI is the rasterization resolution.
	OCRDPI int
	// OCRTimeout bounds one extraction.
	OCRTimeout time.Duration
	// OCRArchiveBucketURL enables archiving of uploads (mem://, file:///path).
	OCRArchiveBucketURL string
	// OCRArchiveKeyURI enables encryption of archived uploads (base64key://, hashivault://, ...).
	OCRArchiveKeyURI string

	// SMTPHost enables the SMTP mailer when set; otherwise codes are logged.
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	// MailWorkers is the number of goroutines delivering mail.
	MailWorkers int
	// MailQueueSize is the capacity of the pending mail queue.
	MailQueueSize int
	// MailMaxRetries is how many times a failed delivery is retried.
	MailMaxRetries int
	// MailRetryInterval is the pause between delivery attempts.
	MailRetryInterval time.Duration

	// TrustedProxies lists the proxy addresses or CIDRs whose forwarding headers
	// are honored when resolving the client IP. Empty trusts none.
	TrustedProxies []string

	// CORSEnabled indicates whether CORS is enabled.
	CORSEnabled bool
	// CORSAllowOrigins is a comma-separated list of allowed origins for CORS.
	CORSAllowOrigins string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Server configuration
		ServerHost:            env.GetString("SERVER_HOST", "0.0.0.0"),
		ServerPort:            env.GetInt("SERVER_PORT", 8080),
		ServerShutdownTimeout: env.GetDuration("SERVER_SHUTDOWN_TIMEOUT_SECONDS", 10, time.Second),

		// Database configuration
		DBDriver:             env.GetString("DB_DRIVER", DriverMemory),
		DBConnectionString:   env.GetString("DB_CONNECTION_STRING", ""),
		DBMaxOpenConnections: env.GetInt("DB_MAX_OPEN_CONNECTIONS", 25),
		DBMaxIdleConnections: env.GetInt("DB_MAX_IDLE_CONNECTIONS", 5),
		DBConnMaxLifetime:    env.GetDuration("DB_CONN_MAX_LIFETIME", 5, time.Minute),

		RedisURL: env.GetString("REDIS_URL", ""),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Auth
		OTPTTL:               env.GetDuration("OTP_TTL_SECONDS", 600, time.Second),
		OTPMaxAttempts:       env.GetInt("OTP_MAX_ATTEMPTS", 5),
		OTPResendInterval:    env.GetDuration("OTP_RESEND_INTERVAL_SECONDS", 60, time.Second),
		SessionTTL:           env.GetDuration("SESSION_TTL_SECONDS", 86400, time.Second),
		APIKeysPerAccount:    env.GetInt("API_KEYS_PER_ACCOUNT", 5),
		ExpiredSweepInterval: env.GetDuration("EXPIRED_SWEEP_INTERVAL_SECONDS", 300, time.Second),

		// Tier rate limiting (per API key)
		RateLimitEnabled: env.GetBool("RATE_LIMIT_ENABLED", true),
		TierFree: TierLimit{
			RequestsPerSec: env.GetFloat64("TIER_FREE_RPS", 1.0),
			Burst:          env.GetInt("TIER_FREE_BURST", 5),
		},
		TierPro: TierLimit{
			RequestsPerSec: env.GetFloat64("TIER_PRO_RPS", 10.0),
			Burst:          env.GetInt("TIER_PRO_BURST", 30),
		},
		TierEnterprise: TierLimit{
			RequestsPerSec: env.GetFloat64("TIER_ENTERPRISE_RPS", 50.0),
			Burst:          env.GetInt("TIER_ENTERPRISE_BURST", 100),
		},

		// Rate limiting for OTP endpoints (IP-based, unauthenticated)
		RateLimitOTPEnabled:        env.GetBool("RATE_LIMIT_OTP_ENABLED", true),
		RateLimitOTPRequestsPerSec: env.GetFloat64("RATE_LIMIT_OTP_REQUESTS_PER_SEC", 0.2),
		RateLimitOTPBurst:          env.GetInt("RATE_LIMIT_OTP_BURST", 5),

		// GST
		GSTBatchMax: env.GetInt("GST_BATCH_MAX", 50),

		// Forex
		ForexAPIBaseURL: env.GetString("FOREX_API_BASE_URL", "https://api.exchangerate-api.com/v4"),
		ForexTimeout:    env.GetDuration("FOREX_TIMEOUT_SECONDS", 5, time.Second),
		ForexCacheTTL:   env.GetDuration("FOREX_CACHE_TTL_SECONDS", 600, time.Second),
		ForexStaleTTL:   env.GetDuration("FOREX_STALE_TTL_SECONDS", 3600, time.Second),

		// OCR
		OCRMaxUploadBytes:   int64(env.GetInt("OCR_MAX_UPLOAD_BYTES", 10<<20)),
		OCRTesseractPath:    env.GetString("OCR_TESSERACT_PATH", "tesseract"),
		OCRPdftoppmPath:     env.GetString("OCR_PDFTOPPM_PATH", "pdftoppm"),
		OCRLanguage:         env.GetString("OCR_LANGUAGE", "eng"),
		OCRDPI:              env.GetInt("OCR_DPI", 200),
		OCRTimeout:          env.GetDuration("OCR_TIMEOUT_SECONDS", 120, time.Second),
		OCRArchiveBucketURL: env.GetString("OCR_ARCHIVE_BUCKET_URL", ""),
		OCRArchiveKeyURI:    env.GetString("OCR_ARCHIVE_KEY_URI", ""),

		// Mail
		SMTPHost:          env.GetString("SMTP_HOST", ""),
		SMTPPort:          env.GetInt("SMTP_PORT", 587),
		SMTPUsername:      env.GetString("SMTP_USERNAME", ""),
		SMTPPassword:      env.GetString("SMTP_PASSWORD", ""),
		SMTPFrom:          env.GetString("SMTP_FROM", "no-reply@bizdata.local"),
		MailWorkers:       env.GetInt("MAIL_WORKERS", 4),
		MailQueueSize:     env.GetInt("MAIL_QUEUE_SIZE", 100),
		MailMaxRetries:    env.GetInt("MAIL_MAX_RETRIES", 2),
		MailRetryInterval: env.GetDuration("MAIL_RETRY_INTERVAL_SECONDS", 2, time.Second),

		// Proxies
		TrustedProxies: splitList(env.GetStringSlice("TRUSTED_PROXIES", ",", nil)),

		// CORS
		CORSEnabled:      env.GetBool("CORS_ENABLED", false),
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", ""),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "bizdata"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),
	}
}

// splitList trims the items of a comma-separated setting and drops empty ones.
func splitList(items []string) []string {
	var result []string
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	if c.LogLevel == "debug" {
		return "debug"
	}
	return "release"
}

// loadDotEnv loads the first .env file found walking up from the working directory.
func loadDotEnv() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
}
