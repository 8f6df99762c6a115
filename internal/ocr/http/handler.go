// Package http provides the HTTP handler for PDF text extraction.
package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/bizdata/internal/httputil"
	ocrDomain "github.com/allisson/bizdata/internal/ocr/domain"
	"github.com/allisson/bizdata/internal/ocr/http/dto"
	ocrUseCase "github.com/allisson/bizdata/internal/ocr/usecase"
)

// formField is the multipart field carrying the PDF.
const formField = "file"

// multipartOverhead allows for the boundaries and part headers around the file.
const multipartOverhead = 64 << 10

// OCRHandler handles PDF upload requests.
type OCRHandler struct {
	ocrUseCase     ocrUseCase.OCRUseCase
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewOCRHandler creates a new OCR handler with required dependencies.
func NewOCRHandler(ocrUseCase ocrUseCase.OCRUseCase, maxUploadBytes int64, logger *slog.Logger) *OCRHandler {
	return &OCRHandler{
		ocrUseCase:     ocrUseCase,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// PDFToTextHandler recognizes the text of an uploaded PDF.
// POST /v1/ocr/pdf-to-text - Requires an API key of tier pro or enterprise.
func (h *OCRHandler) PDFToTextHandler(c *gin.Context) {
	limit := h.maxUploadBytes + multipartOverhead
	if c.Request.ContentLength > limit {
		h.tooLarge(c)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	header, err := c.FormFile(formField)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.tooLarge(c)
			return
		}
		httputil.HandleBadRequestGin(c, fmt.Errorf("multipart field %q is required", formField), h.logger)
		return
	}
	if header.Size > h.maxUploadBytes {
		h.tooLarge(c)
		return
	}
	if !ocrDomain.HasPDFExtension(header.Filename) {
		h.notPDF(c)
		return
	}

	file, err := header.Open()
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("failed to read upload: %w", err), h.logger)
		return
	}
	defer func() {
		_ = file.Close()
	}()

	content, err := io.ReadAll(file)
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("failed to read upload: %w", err), h.logger)
		return
	}

	document, err := h.ocrUseCase.Extract(c.Request.Context(), &ocrDomain.Upload{
		Filename: header.Filename,
		Content:  content,
	})
	if err != nil {
		switch {
		case errors.Is(err, ocrDomain.ErrNotPDF):
			h.notPDF(c)
		case errors.Is(err, ocrDomain.ErrEngineUnavailable):
			h.logger.Error("ocr engine failed", slog.Any("error", err))
			c.JSON(http.StatusServiceUnavailable, httputil.ErrorResponse{
				Error:   "ocr_engine_error",
				Message: ocrDomain.EngineErrorMessage,
			})
		default:
			httputil.HandleErrorGin(c, err, h.logger)
		}
		return
	}

	c.JSON(http.StatusOK, dto.MapDocumentToResponse(document))
}

func (h *OCRHandler) notPDF(c *gin.Context) {
	c.JSON(http.StatusBadRequest, httputil.ErrorResponse{
		Error:   "bad_request",
		Message: ocrDomain.NotPDFMessage,
	})
}

func (h *OCRHandler) tooLarge(c *gin.Context) {
	c.JSON(http.StatusRequestEntityTooLarge, httputil.ErrorResponse{
		Error:   "payload_too_large",
		Message: fmt.Sprintf("upload exceeds %d bytes", h.maxUploadBytes),
	})
}
