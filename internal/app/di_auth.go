package app

import (
	"fmt"
	"time"

	"github.com/allisson/bizdata/internal/config"
	"github.com/allisson/bizdata/internal/mail"

	authHTTP "github.com/allisson/bizdata/internal/auth/http"
	authRepository "github.com/allisson/bizdata/internal/auth/repository"
	authService "github.com/allisson/bizdata/internal/auth/service"
	authUseCase "github.com/allisson/bizdata/internal/auth/usecase"
)

// mailSendTimeout bounds one SMTP delivery attempt.
const mailSendTimeout = 30 * time.Second

// TokenService returns the service minting session tokens and API keys.
func (c *Container) TokenService() authService.TokenService {
	c.tokenServiceInit.Do(func() {
		c.tokenService = authService.NewTokenService()
	})
	return c.tokenService
}

// OTPService returns the service generating and hashing login codes.
func (c *Container) OTPService() authService.OTPService {
	c.otpServiceInit.Do(func() {
		c.otpService = authService.NewOTPService()
	})
	return c.otpService
}

// AccountRepository returns the account repository based on database driver.
func (c *Container) AccountRepository() (authUseCase.AccountRepository, error) {
	var err error
	c.accountRepoInit.Do(func() {
		c.accountRepo, err = c.initAccountRepository()
		if err != nil {
			c.setInitError("accountRepository", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("accountRepository"); storedErr != nil {
		return nil, storedErr
	}
	return c.accountRepo, nil
}

// APIKeyRepository returns the API key repository based on database driver.
func (c *Container) APIKeyRepository() (authUseCase.APIKeyRepository, error) {
	var err error
	c.apiKeyRepoInit.Do(func() {
		c.apiKeyRepo, err = c.initAPIKeyRepository()
		if err != nil {
			c.setInitError("apiKeyRepository", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("apiKeyRepository"); storedErr != nil {
		return nil, storedErr
	}
	return c.apiKeyRepo, nil
}

// OTPRepository returns the Redis OTP store when REDIS_URL is set, the in-memory one otherwise.
func (c *Container) OTPRepository() (authUseCase.OTPRepository, error) {
	var err error
	c.otpRepoInit.Do(func() {
		c.otpRepo, err = c.initOTPRepository()
		if err != nil {
			c.setInitError("otpRepository", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("otpRepository"); storedErr != nil {
		return nil, storedErr
	}
	return c.otpRepo, nil
}

// SessionRepository returns the Redis session store when REDIS_URL is set, the in-memory one otherwise.
func (c *Container) SessionRepository() (authUseCase.SessionRepository, error) {
	var err error
	c.sessionRepoInit.Do(func() {
		c.sessionRepo, err = c.initSessionRepository()
		if err != nil {
			c.setInitError("sessionRepository", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("sessionRepository"); storedErr != nil {
		return nil, storedErr
	}
	return c.sessionRepo, nil
}

// MailDispatcher returns the started mail worker pool.
func (c *Container) MailDispatcher() *mail.Dispatcher {
	c.mailDispatcherInit.Do(func() {
		c.mailDispatcher = c.initMailDispatcher()
	})
	return c.mailDispatcher
}

// SessionUseCase returns the OTP login use case.
func (c *Container) SessionUseCase() (authUseCase.SessionUseCase, error) {
	var err error
	c.sessionUseCaseInit.Do(func() {
		c.sessionUseCase, err = c.initSessionUseCase()
		if err != nil {
			c.setInitError("sessionUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("sessionUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.sessionUseCase, nil
}

// APIKeyUseCase returns the API key use case.
func (c *Container) APIKeyUseCase() (authUseCase.APIKeyUseCase, error) {
	var err error
	c.apiKeyUseCaseInit.Do(func() {
		c.apiKeyUseCase, err = c.initAPIKeyUseCase()
		if err != nil {
			c.setInitError("apiKeyUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("apiKeyUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.apiKeyUseCase, nil
}

// AccountUseCase returns the operator account use case.
func (c *Container) AccountUseCase() (authUseCase.AccountUseCase, error) {
	var err error
	c.accountUseCaseInit.Do(func() {
		c.accountUseCase, err = c.initAccountUseCase()
		if err != nil {
			c.setInitError("accountUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("accountUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.accountUseCase, nil
}

// ExpirySweeper returns the background sweeper of expired OTPs and sessions.
func (c *Container) ExpirySweeper() (*authUseCase.ExpirySweeper, error) {
	var err error
	c.expirySweeperInit.Do(func() {
		var sessionUseCase authUseCase.SessionUseCase
		sessionUseCase, err = c.SessionUseCase()
		if err != nil {
			err = fmt.Errorf("failed to get session use case for expiry sweeper: %w", err)
			c.setInitError("expirySweeper", err)
			return
		}
		c.expirySweeper = authUseCase.NewExpirySweeper(c.config.ExpiredSweepInterval, sessionUseCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("expirySweeper"); storedErr != nil {
		return nil, storedErr
	}
	return c.expirySweeper, nil
}

// SessionHandler returns the HTTP handler for the OTP login endpoints.
func (c *Container) SessionHandler() (*authHTTP.SessionHandler, error) {
	var err error
	c.sessionHandlerInit.Do(func() {
		var sessionUseCase authUseCase.SessionUseCase
		sessionUseCase, err = c.SessionUseCase()
		if err != nil {
			err = fmt.Errorf("failed to get session use case for session handler: %w", err)
			c.setInitError("sessionHandler", err)
			return
		}
		c.sessionHandler = authHTTP.NewSessionHandler(sessionUseCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("sessionHandler"); storedErr != nil {
		return nil, storedErr
	}
	return c.sessionHandler, nil
}

// APIKeyHandler returns the HTTP handler for API key management.
func (c *Container) APIKeyHandler() (*authHTTP.APIKeyHandler, error) {
	var err error
	c.apiKeyHandlerInit.Do(func() {
		var apiKeyUseCase authUseCase.APIKeyUseCase
		apiKeyUseCase, err = c.APIKeyUseCase()
		if err != nil {
			err = fmt.Errorf("failed to get api key use case for api key handler: %w", err)
			c.setInitError("apiKeyHandler", err)
			return
		}
		c.apiKeyHandler = authHTTP.NewAPIKeyHandler(apiKeyUseCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("apiKeyHandler"); storedErr != nil {
		return nil, storedErr
	}
	return c.apiKeyHandler, nil
}

// initAccountRepository creates the account repository based on the database driver.
func (c *Container) initAccountRepository() (authUseCase.AccountRepository, error) {
	if c.config.DBDriver == config.DriverMemory {
		return authRepository.NewMemoryAccountRepository(), nil
	}

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for account repository: %w", err)
	}

	switch c.config.DBDriver {
	case config.DriverPostgres:
		return authRepository.NewPostgreSQLAccountRepository(db), nil
	case config.DriverMySQL:
		return authRepository.NewMySQLAccountRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAPIKeyRepository creates the API key repository based on the database driver.
func (c *Container) initAPIKeyRepository() (authUseCase.APIKeyRepository, error) {
	if c.config.DBDriver == config.DriverMemory {
		return authRepository.NewMemoryAPIKeyRepository(), nil
	}

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for api key repository: %w", err)
	}

	switch c.config.DBDriver {
	case config.DriverPostgres:
		return authRepository.NewPostgreSQLAPIKeyRepository(db), nil
	case config.DriverMySQL:
		return authRepository.NewMySQLAPIKeyRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initOTPRepository creates the OTP store.
func (c *Container) initOTPRepository() (authUseCase.OTPRepository, error) {
	client, err := c.RedisClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get redis client for otp repository: %w", err)
	}
	if client == nil {
		return authRepository.NewMemoryOTPRepository(), nil
	}
	return authRepository.NewRedisOTPRepository(client), nil
}

// initSessionRepository creates the session store.
func (c *Container) initSessionRepository() (authUseCase.SessionRepository, error) {
	client, err := c.RedisClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get redis client for session repository: %w", err)
	}
	if client == nil {
		return authRepository.NewMemorySessionRepository(), nil
	}
	return authRepository.NewRedisSessionRepository(client), nil
}

// initMailDispatcher picks the SMTP mailer when a host is configured and starts the workers.
func (c *Container) initMailDispatcher() *mail.Dispatcher {
	logger := c.Logger()

	mailer := c.mailer
	switch {
	case mailer != nil:
	case c.config.SMTPHost != "":
		mailer = mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     c.config.SMTPHost,
			Port:     c.config.SMTPPort,
			Username: c.config.SMTPUsername,
			Password: c.config.SMTPPassword,
			From:     c.config.SMTPFrom,
		})
	default:
		logger.Warn("smtp host not configured, login codes are only logged at debug level")
		mailer = mail.NewLogMailer(logger)
	}

	dispatcher := mail.NewDispatcher(mail.DispatcherConfig{
		Workers:       c.config.MailWorkers,
		QueueSize:     c.config.MailQueueSize,
		MaxRetries:    c.config.MailMaxRetries,
		RetryInterval: c.config.MailRetryInterval,
		SendTimeout:   mailSendTimeout,
	}, mailer, logger)
	dispatcher.Start()

	return dispatcher
}

// initSessionUseCase creates the session use case with all its dependencies.
func (c *Container) initSessionUseCase() (authUseCase.SessionUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for session use case: %w", err)
	}

	accountRepo, err := c.AccountRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get account repository for session use case: %w", err)
	}

	otpRepo, err := c.OTPRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get otp repository for session use case: %w", err)
	}

	sessionRepo, err := c.SessionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get session repository for session use case: %w", err)
	}

	baseUseCase := authUseCase.NewSessionUseCase(
		c.config,
		txManager,
		accountRepo,
		otpRepo,
		sessionRepo,
		c.OTPService(),
		c.TokenService(),
		c.MailDispatcher(),
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for session use case: %w", err)
		}
		return authUseCase.NewSessionUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initAPIKeyUseCase creates the API key use case with all its dependencies.
func (c *Container) initAPIKeyUseCase() (authUseCase.APIKeyUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for api key use case: %w", err)
	}

	accountRepo, err := c.AccountRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get account repository for api key use case: %w", err)
	}

	apiKeyRepo, err := c.APIKeyRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get api key repository for api key use case: %w", err)
	}

	baseUseCase := authUseCase.NewAPIKeyUseCase(c.config, txManager, accountRepo, apiKeyRepo, c.TokenService())

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for api key use case: %w", err)
		}
		return authUseCase.NewAPIKeyUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initAccountUseCase creates the account use case with all its dependencies.
func (c *Container) initAccountUseCase() (authUseCase.AccountUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for account use case: %w", err)
	}

	accountRepo, err := c.AccountRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get account repository for account use case: %w", err)
	}

	apiKeyRepo, err := c.APIKeyRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get api key repository for account use case: %w", err)
	}

	baseUseCase := authUseCase.NewAccountUseCase(txManager, accountRepo, apiKeyRepo)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for account use case: %w", err)
		}
		return authUseCase.NewAccountUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
