package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/bizdata/internal/auth/http/dto"
	authUseCase "github.com/allisson/bizdata/internal/auth/usecase"
	"github.com/allisson/bizdata/internal/httputil"
	customValidation "github.com/allisson/bizdata/internal/validation"
)

const otpRequestedMessage = "If the address can receive mail, a verification code is on its way"

// SessionHandler handles HTTP requests for email OTP login.
type SessionHandler struct {
	sessionUseCase authUseCase.SessionUseCase
	logger         *slog.Logger
}

// NewSessionHandler creates a new session handler with required dependencies.
func NewSessionHandler(
	sessionUseCase authUseCase.SessionUseCase,
	logger *slog.Logger,
) *SessionHandler {
	return &SessionHandler{
		sessionUseCase: sessionUseCase,
		logger:         logger,
	}
}

// RequestOTPHandler emails a login code.
// POST /v1/auth/otp - No authentication required.
// Returns 202 Accepted for any syntactically valid email.
func (h *SessionHandler) RequestOTPHandler(c *gin.Context) {
	var req dto.RequestOTPRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.sessionUseCase.RequestOTP(c.Request.Context(), req.Email); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusAccepted, dto.RequestOTPResponse{Message: otpRequestedMessage})
}

// VerifyOTPHandler exchanges an emailed code for a session token.
// POST /v1/auth/otp/verify - No authentication required.
// Returns 200 OK with the session token, 401 for a wrong code and 423 once attempts are exhausted.
func (h *SessionHandler) VerifyOTPHandler(c *gin.Context) {
	var req dto.VerifyOTPRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	output, err := h.sessionUseCase.VerifyOTP(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSessionOutputToResponse(output))
}
