// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/allisson/bizdata/internal/config"
	"github.com/allisson/bizdata/internal/database"
	"github.com/allisson/bizdata/internal/http"
	"github.com/allisson/bizdata/internal/mail"
	"github.com/allisson/bizdata/internal/metrics"
	ocrService "github.com/allisson/bizdata/internal/ocr/service"

	authHTTP "github.com/allisson/bizdata/internal/auth/http"
	authService "github.com/allisson/bizdata/internal/auth/service"
	authUseCase "github.com/allisson/bizdata/internal/auth/usecase"
	forexHTTP "github.com/allisson/bizdata/internal/forex/http"
	forexUseCase "github.com/allisson/bizdata/internal/forex/usecase"
	gstinHTTP "github.com/allisson/bizdata/internal/gstin/http"
	gstinUseCase "github.com/allisson/bizdata/internal/gstin/usecase"
	mandiHTTP "github.com/allisson/bizdata/internal/mandi/http"
	mandiUseCase "github.com/allisson/bizdata/internal/mandi/usecase"
	ocrHTTP "github.com/allisson/bizdata/internal/ocr/http"
	ocrUseCase "github.com/allisson/bizdata/internal/ocr/usecase"
)

// redisPingTimeout bounds the connectivity check made when the client is created.
const redisPingTimeout = 5 * time.Second

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config  *config.Config
	version string

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	redisClient     *redis.Client
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessRecorder

	// Managers
	txManager database.TxManager

	// Auth
	tokenService   authService.TokenService
	otpService     authService.OTPService
	accountRepo    authUseCase.AccountRepository
	apiKeyRepo     authUseCase.APIKeyRepository
	otpRepo        authUseCase.OTPRepository
	sessionRepo    authUseCase.SessionRepository
	mailer         mail.Mailer
	mailDispatcher *mail.Dispatcher
	sessionUseCase authUseCase.SessionUseCase
	apiKeyUseCase  authUseCase.APIKeyUseCase
	accountUseCase authUseCase.AccountUseCase
	expirySweeper  *authUseCase.ExpirySweeper
	sessionHandler *authHTTP.SessionHandler
	apiKeyHandler  *authHTTP.APIKeyHandler

	// Data
	verifyUseCase gstinUseCase.VerifyUseCase
	forexUseCase  forexUseCase.ForexUseCase
	mandiUseCase  mandiUseCase.MandiUseCase
	ocrArchiver   *ocrService.BlobArchiver
	ocrUseCase    ocrUseCase.OCRUseCase
	verifyHandler *gstinHTTP.VerifyHandler
	forexHandler  *forexHTTP.ForexHandler
	mandiHandler  *mandiHTTP.MandiHandler
	ocrHandler    *ocrHTTP.OCRHandler

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                  sync.Mutex
	loggerInit          sync.Once
	dbInit              sync.Once
	redisInit           sync.Once
	txManagerInit       sync.Once
	metricsProviderInit sync.Once
	businessMetricsInit sync.Once
	tokenServiceInit    sync.Once
	otpServiceInit      sync.Once
	accountRepoInit     sync.Once
	apiKeyRepoInit      sync.Once
	otpRepoInit         sync.Once
	sessionRepoInit     sync.Once
	mailDispatcherInit  sync.Once
	sessionUseCaseInit  sync.Once
	apiKeyUseCaseInit   sync.Once
	accountUseCaseInit  sync.Once
	expirySweeperInit   sync.Once
	sessionHandlerInit  sync.Once
	apiKeyHandlerInit   sync.Once
	verifyUseCaseInit   sync.Once
	forexUseCaseInit    sync.Once
	mandiUseCaseInit    sync.Once
	ocrArchiverInit     sync.Once
	ocrUseCaseInit      sync.Once
	verifyHandlerInit   sync.Once
	forexHandlerInit    sync.Once
	mandiHandlerInit    sync.Once
	ocrHandlerInit      sync.Once
	httpServerInit      sync.Once
	metricsServerInit   sync.Once
	initErrors          map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config, version string, opts ...Option) *Container {
	c := &Container{
		config:     cfg,
		version:    version,
		initErrors: make(map[string]error),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Option customizes a Container before any component is built.
type Option func(*Container)

// WithMailer replaces the configured SMTP or log mailer used for login codes.
func WithMailer(mailer mail.Mailer) Option {
	return func(c *Container) {
		c.mailer = mailer
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.setInitError("db", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("db"); storedErr != nil {
		return nil, storedErr
	}
	return c.db, nil
}

// RedisClient returns the Redis client, or nil when REDIS_URL is not set.
func (c *Container) RedisClient() (*redis.Client, error) {
	var err error
	c.redisInit.Do(func() {
		c.redisClient, err = c.initRedisClient()
		if err != nil {
			c.setInitError("redis", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("redis"); storedErr != nil {
		return nil, storedErr
	}
	return c.redisClient, nil
}

// TxManager returns the transaction manager.
// The memory driver gets a manager that runs the function without a transaction.
func (c *Container) TxManager() (database.TxManager, error) {
	var err error
	c.txManagerInit.Do(func() {
		c.txManager, err = c.initTxManager()
		if err != nil {
			c.setInitError("txManager", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("txManager"); storedErr != nil {
		return nil, storedErr
	}
	return c.txManager, nil
}

// MetricsProvider returns the OpenTelemetry provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		c.metricsProvider, err = c.initMetricsProvider()
		if err != nil {
			c.setInitError("metricsProvider", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("metricsProvider"); storedErr != nil {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder.
// It records nothing when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessRecorder, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.setInitError("businessMetrics", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("businessMetrics"); storedErr != nil {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// HTTPServer returns the API server with its router configured.
func (c *Container) HTTPServer() (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.setInitError("httpServer", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("httpServer"); storedErr != nil {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.setInitError("metricsServer", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("metricsServer"); storedErr != nil {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// Servers stop first, then the mail queue drains, then stores close.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.mailDispatcher != nil {
		if err := c.mailDispatcher.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("mail dispatcher shutdown: %w", err))
		}
	}

	if c.ocrArchiver != nil {
		if err := c.ocrArchiver.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("ocr archive close: %w", err))
		}
	}

	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("redis close: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %w", errors.Join(shutdownErrors...))
	}

	return nil
}

func (c *Container) setInitError(name string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.initErrors[name] = err
}

func (c *Container) initError(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initErrors[name]
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	if c.config.DBDriver == config.DriverMemory {
		return nil, fmt.Errorf("database driver %q has no connection", config.DriverMemory)
	}

	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initRedisClient parses REDIS_URL and checks the server answers.
func (c *Container) initRedisClient() (*redis.Client, error) {
	if c.config.RedisURL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(c.config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// initTxManager creates the transaction manager for the configured driver.
func (c *Container) initTxManager() (database.TxManager, error) {
	if c.config.DBDriver == config.DriverMemory {
		return database.NewNoopTxManager(), nil
	}

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

// initMetricsProvider creates the provider when metrics are enabled.
func (c *Container) initMetricsProvider() (*metrics.Provider, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}

	provider, err := metrics.NewProvider(
		c.config.MetricsNamespace,
		metrics.WithRuntimeCollectors(),
		metrics.WithServiceVersion(c.version),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics provider: %w", err)
	}
	return provider, nil
}

// initBusinessMetrics creates the recorder on the metrics provider.
func (c *Container) initBusinessMetrics() (metrics.BusinessRecorder, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}
	return businessMetrics, nil
}

// readinessChecks probes the stores the configured drivers depend on.
func (c *Container) readinessChecks() map[string]http.ReadinessCheck {
	checks := make(map[string]http.ReadinessCheck)
	if c.db != nil {
		checks["database"] = c.db.PingContext
	}
	if c.redisClient != nil {
		checks["redis"] = func(ctx context.Context) error {
			return c.redisClient.Ping(ctx).Err()
		}
	}
	return checks
}

// initHTTPServer creates the API server and wires every route.
func (c *Container) initHTTPServer() (*http.Server, error) {
	sessionHandler, err := c.SessionHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get session handler for http server: %w", err)
	}

	apiKeyHandler, err := c.APIKeyHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get api key handler for http server: %w", err)
	}

	verifyHandler, err := c.VerifyHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get gstin handler for http server: %w", err)
	}

	forexHandler, err := c.ForexHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get forex handler for http server: %w", err)
	}

	mandiHandler, err := c.MandiHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get mandi handler for http server: %w", err)
	}

	ocrHandler, err := c.OCRHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get ocr handler for http server: %w", err)
	}

	sessionUseCase, err := c.SessionUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get session use case for http server: %w", err)
	}

	apiKeyUseCase, err := c.APIKeyUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get api key use case for http server: %w", err)
	}

	metricsProvider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	server := http.NewServer(
		c.readinessChecks(),
		c.config.ServerHost,
		c.config.ServerPort,
		c.Logger(),
	)
	server.SetupRouter(
		c.config,
		http.Handlers{
			Session: sessionHandler,
			APIKey:  apiKeyHandler,
			GSTIN:   verifyHandler,
			Forex:   forexHandler,
			Mandi:   mandiHandler,
			OCR:     ocrHandler,
		},
		http.Authenticators{
			SessionUseCase: sessionUseCase,
			APIKeyUseCase:  apiKeyUseCase,
			TokenService:   c.TokenService(),
		},
		metricsProvider,
		c.version,
	)

	return server, nil
}

// initMetricsServer creates the metrics server when metrics are enabled.
func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}
	if provider == nil {
		return nil, nil
	}

	return http.NewMetricsServer(
		c.config.ServerHost,
		c.config.MetricsPort,
		c.Logger(),
		provider,
	), nil
}
