package domain

import (
	"github.com/allisson/bizdata/internal/errors"
)

// OCR errors.
var (
	// ErrNotPDF indicates the upload is not a PDF by name or content.
	ErrNotPDF = errors.Wrap(errors.ErrInvalidInput, NotPDFMessage)

	// ErrEmptyUpload indicates a zero byte upload.
	ErrEmptyUpload = errors.Wrap(errors.ErrInvalidInput, "uploaded file is empty")

	// ErrEngineUnavailable indicates the rasterizer or recognizer failed or is missing.
	ErrEngineUnavailable = errors.Wrap(errors.ErrUnavailable, EngineErrorMessage)
)

// IsRejected reports whether err rejects the upload itself rather than the engine.
func IsRejected(err error) bool {
	return errors.Is(err, errors.ErrInvalidInput)
}
