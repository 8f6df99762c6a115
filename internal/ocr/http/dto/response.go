// Package dto provides data transfer objects for OCR HTTP responses.
package dto

import (
	ocrDomain "github.com/allisson/bizdata/internal/ocr/domain"
)

// DocumentResponse is the text recognized in an uploaded PDF.
type DocumentResponse struct {
	Filename   string `json:"filename"`
	Text       string `json:"text"`
	Size       int    `json:"size"`
	ArchiveKey string `json:"archive_key,omitempty"`
}

// MapDocumentToResponse converts a domain document.
func MapDocumentToResponse(document *ocrDomain.Document) DocumentResponse {
	return DocumentResponse{
		Filename:   document.Filename,
		Text:       document.Text,
		Size:       document.Size,
		ArchiveKey: document.ArchiveKey,
	}
}
