// Package usecase implements PDF text extraction.
package usecase

import (
	"context"

	ocrDomain "github.com/allisson/bizdata/internal/ocr/domain"
)

// OCRUseCase extracts text from uploaded PDFs.
type OCRUseCase interface {
	// Extract validates the upload, recognizes its text and archives it when
	// an archive is configured. Archive failures do not fail the extraction.
	Extract(ctx context.Context, upload *ocrDomain.Upload) (*ocrDomain.Document, error)
}
