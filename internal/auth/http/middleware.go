package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/bizdata/internal/auth/domain"
	authService "github.com/allisson/bizdata/internal/auth/service"
	authUseCase "github.com/allisson/bizdata/internal/auth/usecase"
	apperrors "github.com/allisson/bizdata/internal/errors"
	"github.com/allisson/bizdata/internal/httputil"
	"github.com/allisson/bizdata/internal/metrics"
)

// APIKeyHeader carries an API key on data endpoints.
const APIKeyHeader = "X-API-Key"

const bearerPrefix = "bearer "

// bearerToken extracts the token of an "Authorization: Bearer <token>" header.
// The scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	return token, token != ""
}

// SessionAuthMiddleware authenticates API key management calls with the
// session token issued by OTP verification.
//
// Authorization header format: "Bearer <token>" (case-insensitive "bearer").
//
// Error handling:
//   - Missing or malformed Authorization header → 401 Unauthorized
//   - Unknown or expired session → 401 Unauthorized
//   - Other errors → 500 Internal Server Error
//
// Handlers read the account with GetAccount.
func SessionAuthMiddleware(
	sessionUseCase authUseCase.SessionUseCase,
	tokenService authService.TokenService,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		plainToken, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			logger.Debug("session authentication failed: missing or malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		account, err := sessionUseCase.AuthenticateSession(
			c.Request.Context(),
			tokenService.HashToken(plainToken),
		)
		if err != nil {
			logger.Debug("session authentication failed", slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(WithAccount(c.Request.Context(), account))

		logger.Debug("session authentication successful",
			slog.String("account_id", account.ID.String()))

		c.Next()
	}
}

// APIKeyAuthMiddleware authenticates data endpoint calls with an API key.
//
// The key is read from the X-API-Key header, or from "Authorization: Bearer bd_..."
// when the header is absent. Unknown and revoked keys get 401 Unauthorized.
// The key tier is recorded for the HTTP metrics middleware.
func APIKeyAuthMiddleware(
	apiKeyUseCase authUseCase.APIKeyUseCase,
	tokenService authService.TokenService,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		plainKey := strings.TrimSpace(c.GetHeader(APIKeyHeader))
		if plainKey == "" {
			if token, ok := bearerToken(c.GetHeader("Authorization")); ok &&
				strings.HasPrefix(token, authDomain.APIKeyPrefix) {
				plainKey = token
			}
		}
		if plainKey == "" {
			logger.Debug("api key authentication failed: no api key in request")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		apiKey, err := apiKeyUseCase.Authenticate(c.Request.Context(), tokenService.HashToken(plainKey))
		if err != nil {
			logger.Debug("api key authentication failed", slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(WithAPIKey(c.Request.Context(), apiKey))
		c.Set(metrics.TierKey, apiKey.Tier.String())

		logger.Debug("api key authentication successful",
			slog.String("api_key_id", apiKey.ID.String()),
			slog.String("tier", apiKey.Tier.String()))

		c.Next()
	}
}

// TierMiddleware restricts a route to API keys on minTier or above.
//
// MUST be used after APIKeyAuthMiddleware. Keys on a lower tier get 403 Forbidden.
func TierMiddleware(minTier authDomain.Tier, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey, ok := GetAPIKey(c.Request.Context())
		if !ok || apiKey == nil {
			logger.Error("tier middleware: no api key in context")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		if !apiKey.Tier.AtLeast(minTier) {
			logger.Debug("tier check failed",
				slog.String("api_key_id", apiKey.ID.String()),
				slog.String("tier", apiKey.Tier.String()),
				slog.String("required_tier", minTier.String()))
			httputil.HandleErrorGin(c, authDomain.ErrTierNotAllowed, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}
