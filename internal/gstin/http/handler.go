// Package http provides HTTP handlers for GSTIN verification.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/bizdata/internal/gstin/http/dto"
	gstinUseCase "github.com/allisson/bizdata/internal/gstin/usecase"
	"github.com/allisson/bizdata/internal/httputil"
	customValidation "github.com/allisson/bizdata/internal/validation"
)

// VerifyHandler handles HTTP requests for GSTIN verification.
type VerifyHandler struct {
	verifyUseCase gstinUseCase.VerifyUseCase
	batchMax      int
	logger        *slog.Logger
}

// NewVerifyHandler creates a new verify handler with required dependencies.
func NewVerifyHandler(
	verifyUseCase gstinUseCase.VerifyUseCase,
	batchMax int,
	logger *slog.Logger,
) *VerifyHandler {
	if batchMax <= 0 {
		batchMax = gstinUseCase.DefaultBatchMax
	}
	return &VerifyHandler{
		verifyUseCase: verifyUseCase,
		batchMax:      batchMax,
		logger:        logger,
	}
}

// VerifyHandler validates a single GSTIN.
// GET /v1/gst/verify/:gstin - Requires an API key.
// Returns 200 OK with the verdict when valid, 422 with the reason otherwise.
func (h *VerifyHandler) VerifyHandler(c *gin.Context) {
	verdict, err := h.verifyUseCase.Verify(c.Request.Context(), c.Param("gstin"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if !verdict.Valid {
		c.JSON(http.StatusUnprocessableEntity, dto.MapInvalidVerdictToResponse(verdict))
		return
	}

	c.JSON(http.StatusOK, dto.MapVerdictToResponse(verdict))
}

// VerifyBatchHandler validates several GSTINs in one call.
// POST /v1/gst/verify - Requires an API key.
// Returns 200 OK with one verdict per candidate; validity is reported per item.
func (h *VerifyHandler) VerifyBatchHandler(c *gin.Context) {
	var req dto.VerifyBatchRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(h.batchMax); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	verdicts, err := h.verifyUseCase.VerifyBatch(c.Request.Context(), req.GSTINs)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapVerdictsToBatchResponse(verdicts))
}
