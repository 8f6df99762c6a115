// Package http provides HTTP handlers for mandi price snapshots.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/bizdata/internal/httputil"
	mandiDomain "github.com/allisson/bizdata/internal/mandi/domain"
	"github.com/allisson/bizdata/internal/mandi/http/dto"
	mandiUseCase "github.com/allisson/bizdata/internal/mandi/usecase"
)

// MandiHandler handles HTTP requests for mandi prices.
type MandiHandler struct {
	mandiUseCase mandiUseCase.MandiUseCase
	logger       *slog.Logger
}

// NewMandiHandler creates a new mandi handler with required dependencies.
func NewMandiHandler(mandiUseCase mandiUseCase.MandiUseCase, logger *slog.Logger) *MandiHandler {
	return &MandiHandler{
		mandiUseCase: mandiUseCase,
		logger:       logger,
	}
}

// SnapshotHandler returns the current price snapshot.
// GET /v1/mandi/snapshot?state=&commodity= - Requires an API key.
func (h *MandiHandler) SnapshotHandler(c *gin.Context) {
	filter := mandiDomain.Filter{
		State:     c.Query("state"),
		Commodity: c.Query("commodity"),
	}

	snapshot, err := h.mandiUseCase.Snapshot(c.Request.Context(), filter)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSnapshotToResponse(snapshot))
}
