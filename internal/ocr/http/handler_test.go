package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/bizdata/internal/httputil"
	ocrDomain "github.com/allisson/bizdata/internal/ocr/domain"
	"github.com/allisson/bizdata/internal/ocr/http/dto"
	usecaseMocks "github.com/allisson/bizdata/internal/ocr/usecase/mocks"
)

func setupRouter(t *testing.T, uc *usecaseMocks.MockOCRUseCase, maxUploadBytes int64) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewOCRHandler(uc, maxUploadBytes, logger)

	router := gin.New()
	router.POST("/v1/ocr/pdf-to-text", handler.PDFToTextHandler)
	return router
}

// uploadRequest builds a multipart request with content under field.
func uploadRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/ocr/pdf-to-text", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) httputil.ErrorResponse {
	t.Helper()
	var response httputil.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func TestOCRHandler_PDFToTextHandler(t *testing.T) {
	pdf := []byte("%PDF-1.7 invoice")

	t.Run("Success", func(t *testing.T) {
		uc := &usecaseMocks.MockOCRUseCase{}
		uc.On("Extract", mock.Anything, &ocrDomain.Upload{Filename: "invoice.pdf", Content: pdf}).
			Return(&ocrDomain.Document{Filename: "invoice.pdf", Text: "Invoice 42\n", Size: len(pdf)}, nil).
			Once()
		router := setupRouter(t, uc, 1024)

		w := serve(router, uploadRequest(t, "file", "invoice.pdf", pdf))

		assert.Equal(t, http.StatusOK, w.Code)
		var response dto.DocumentResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "invoice.pdf", response.Filename)
		assert.Equal(t, "Invoice 42\n", response.Text)
		assert.Equal(t, len(pdf), response.Size)
		assert.NotContains(t, w.Body.String(), "archive_key")
		uc.AssertExpectations(t)
	})

	t.Run("Error_NotPDFExtension", func(t *testing.T) {
		uc := &usecaseMocks.MockOCRUseCase{}
		router := setupRouter(t, uc, 1024)

		w := serve(router, uploadRequest(t, "file", "scan.png", pdf))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Only PDF files allowed", decodeError(t, w).Message)
		uc.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
	})

	t.Run("Error_NotPDFContent", func(t *testing.T) {
		uc := &usecaseMocks.MockOCRUseCase{}
		uc.On("Extract", mock.Anything, mock.Anything).Return(nil, ocrDomain.ErrNotPDF).Once()
		router := setupRouter(t, uc, 1024)

		w := serve(router, uploadRequest(t, "file", "fake.pdf", []byte("GIF89a")))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Only PDF files allowed", decodeError(t, w).Message)
	})

	t.Run("Error_MissingField", func(t *testing.T) {
		uc := &usecaseMocks.MockOCRUseCase{}
		router := setupRouter(t, uc, 1024)

		w := serve(router, uploadRequest(t, "document", "invoice.pdf", pdf))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "bad_request", decodeError(t, w).Error)
	})

	t.Run("Error_TooLarge", func(t *testing.T) {
		uc := &usecaseMocks.MockOCRUseCase{}
		router := setupRouter(t, uc, 16)

		w := serve(router, uploadRequest(t, "file", "invoice.pdf", bytes.Repeat([]byte("a"), 17)))

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Equal(t, "payload_too_large", decodeError(t, w).Error)
	})

	t.Run("Error_BodyBeyondEnvelope", func(t *testing.T) {
		uc := &usecaseMocks.MockOCRUseCase{}
		router := setupRouter(t, uc, 16)

		content := bytes.Repeat([]byte("a"), multipartOverhead+1024)
		w := serve(router, uploadRequest(t, "file", "invoice.pdf", content))

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("Error_EngineUnavailable", func(t *testing.T) {
		uc := &usecaseMocks.MockOCRUseCase{}
		uc.On("Extract", mock.Anything, mock.Anything).
			Return(nil, ocrDomain.ErrEngineUnavailable).
			Once()
		router := setupRouter(t, uc, 1024)

		w := serve(router, uploadRequest(t, "file", "invoice.pdf", pdf))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, ocrDomain.EngineErrorMessage, decodeError(t, w).Message)
	})
}
