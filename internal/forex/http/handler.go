// Package http provides HTTP handlers for exchange rates.
package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/allisson/bizdata/internal/forex/http/dto"
	forexUseCase "github.com/allisson/bizdata/internal/forex/usecase"
	"github.com/allisson/bizdata/internal/httputil"
)

// ForexHandler handles HTTP requests for exchange rates.
type ForexHandler struct {
	forexUseCase forexUseCase.ForexUseCase
	logger       *slog.Logger
}

// NewForexHandler creates a new forex handler with required dependencies.
func NewForexHandler(forexUseCase forexUseCase.ForexUseCase, logger *slog.Logger) *ForexHandler {
	return &ForexHandler{
		forexUseCase: forexUseCase,
		logger:       logger,
	}
}

// USDINRHandler returns the live USD to INR rate.
// GET /v1/forex/usd-inr - Requires an API key.
func (h *ForexHandler) USDINRHandler(c *gin.Context) {
	quote, err := h.forexUseCase.GetUSDINR(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapQuoteToResponse(quote))
}

// QuoteHandler returns the rate of one pair.
// GET /v1/forex/quote/:base/:target - Requires an API key.
func (h *ForexHandler) QuoteHandler(c *gin.Context) {
	quote, err := h.forexUseCase.GetQuote(c.Request.Context(), c.Param("base"), c.Param("target"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapQuoteToResponse(quote))
}

// RatesHandler returns rates for any base currency.
// GET /v1/forex/rates/:base?symbols=INR,EUR - Requires an API key.
func (h *ForexHandler) RatesHandler(c *gin.Context) {
	rates, err := h.forexUseCase.GetRates(c.Request.Context(), c.Param("base"), parseSymbols(c.Query("symbols")))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRatesToResponse(rates))
}

// parseSymbols splits a comma separated list, skipping empty items.
func parseSymbols(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var symbols []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			symbols = append(symbols, part)
		}
	}
	return symbols
}
