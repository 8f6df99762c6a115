package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authDomain "github.com/allisson/bizdata/internal/auth/domain"
	"github.com/allisson/bizdata/internal/auth/http/dto"
	authUseCase "github.com/allisson/bizdata/internal/auth/usecase"
	apperrors "github.com/allisson/bizdata/internal/errors"
	"github.com/allisson/bizdata/internal/httputil"
	customValidation "github.com/allisson/bizdata/internal/validation"
)

// APIKeyHandler handles HTTP requests for API key management.
// Every route requires SessionAuthMiddleware.
type APIKeyHandler struct {
	apiKeyUseCase authUseCase.APIKeyUseCase
	logger        *slog.Logger
}

// NewAPIKeyHandler creates a new API key handler with required dependencies.
func NewAPIKeyHandler(
	apiKeyUseCase authUseCase.APIKeyUseCase,
	logger *slog.Logger,
) *APIKeyHandler {
	return &APIKeyHandler{
		apiKeyUseCase: apiKeyUseCase,
		logger:        logger,
	}
}

// sessionAccount returns the account of the current session or writes 401.
func (h *APIKeyHandler) sessionAccount(c *gin.Context) (*authDomain.Account, bool) {
	account, ok := GetAccount(c.Request.Context())
	if !ok || account == nil {
		h.logger.Error("api key handler: no session account in context")
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return nil, false
	}
	return account, true
}

// CreateHandler mints an API key on the session account's tier.
// POST /v1/keys - Requires a session.
// Returns 201 Created with the plain key, shown only once.
func (h *APIKeyHandler) CreateHandler(c *gin.Context) {
	account, ok := h.sessionAccount(c)
	if !ok {
		return
	}

	var req dto.CreateAPIKeyRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	output, err := h.apiKeyUseCase.Create(c.Request.Context(), account.ID, req.Name)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapCreateAPIKeyOutputToResponse(output))
}

// ListHandler lists the session account's API keys, newest first.
// GET /v1/keys - Requires a session.
func (h *APIKeyHandler) ListHandler(c *gin.Context) {
	account, ok := h.sessionAccount(c)
	if !ok {
		return
	}

	apiKeys, err := h.apiKeyUseCase.List(c.Request.Context(), account.ID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAPIKeysToListResponse(apiKeys))
}

// RevokeHandler revokes one of the session account's API keys.
// DELETE /v1/keys/:id - Requires a session.
// Returns 204 No Content, or 404 for unknown keys and keys of other accounts.
func (h *APIKeyHandler) RevokeHandler(c *gin.Context) {
	account, ok := h.sessionAccount(c)
	if !ok {
		return
	}

	apiKeyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, errors.New("invalid api key id format: must be a valid UUID"), h.logger)
		return
	}

	if err := h.apiKeyUseCase.Revoke(c.Request.Context(), account.ID, apiKeyID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}
