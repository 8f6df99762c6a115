package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	authUseCase "github.com/allisson/bizdata/internal/auth/usecase"
)

// RunCleanExpired deletes expired OTPs and sessions. With dryRun it only
// reports how many would be deleted. Redis stores expire keys natively and
// always report zero.
func RunCleanExpired(
	ctx context.Context,
	sessionUseCase authUseCase.SessionUseCase,
	logger *slog.Logger,
	writer io.Writer,
	dryRun bool,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	logger.Info("cleaning expired credentials", slog.Bool("dry_run", dryRun))

	result, err := sessionUseCase.CleanupExpired(ctx, dryRun)
	if err != nil {
		return fmt.Errorf("failed to cleanup expired credentials: %w", err)
	}

	logger.Info("cleanup completed",
		slog.Int64("otps", result.OTPs),
		slog.Int64("sessions", result.Sessions),
		slog.Bool("dry_run", dryRun),
	)

	if format == "json" {
		return writeJSON(writer, map[string]any{
			"otps":     result.OTPs,
			"sessions": result.Sessions,
			"dry_run":  dryRun,
		})
	}

	if dryRun {
		_, err = fmt.Fprintf(writer, "Dry-run mode: Would delete %d expired OTP(s) and %d expired session(s)\n",
			result.OTPs, result.Sessions)
		return err
	}
	_, err = fmt.Fprintf(writer, "Successfully deleted %d expired OTP(s) and %d expired session(s)\n",
		result.OTPs, result.Sessions)
	return err
}
