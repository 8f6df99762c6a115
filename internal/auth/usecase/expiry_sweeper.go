package usecase

import (
	"context"
	"log/slog"
	"time"
)

// DefaultSweepInterval is used when the configured interval is not positive.
const DefaultSweepInterval = 5 * time.Minute

// ExpirySweeper periodically removes expired OTPs and sessions. Stores with
// native expiry report nothing to remove.
type ExpirySweeper struct {
	interval  time.Duration
	sessionUC SessionUseCase
	logger    *slog.Logger
}

// Start runs sweeps every interval until ctx is cancelled.
func (e *ExpirySweeper) Start(ctx context.Context) error {
	e.logger.Info("starting expiry sweeper", slog.Duration("interval", e.interval))

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("stopping expiry sweeper")
			return ctx.Err()
		case <-ticker.C:
			if err := e.Sweep(ctx); err != nil {
				e.logger.Error("failed to sweep expired credentials", slog.Any("error", err))
			}
		}
	}
}

// Sweep runs one cleanup pass.
func (e *ExpirySweeper) Sweep(ctx context.Context) error {
	result, err := e.sessionUC.CleanupExpired(ctx, false)
	if err != nil {
		return err
	}

	if result.OTPs > 0 || result.Sessions > 0 {
		e.logger.Info("swept expired credentials",
			slog.Int64("otps", result.OTPs),
			slog.Int64("sessions", result.Sessions),
		)
	}
	return nil
}

// NewExpirySweeper creates an ExpirySweeper.
func NewExpirySweeper(interval time.Duration, sessionUC SessionUseCase, logger *slog.Logger) *ExpirySweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &ExpirySweeper{
		interval:  interval,
		sessionUC: sessionUC,
		logger:    logger,
	}
}
