// Package domain defines the OCR document models.
package domain

import (
	"bytes"
	"path/filepath"
	"strings"
)

// pdfMagic opens every PDF file.
var pdfMagic = []byte("%PDF-")

// NotPDFMessage is shown to clients when an upload is not a PDF.
const NotPDFMessage = "Only PDF files allowed"

// EngineErrorMessage is shown to clients when the OCR toolchain fails.
const EngineErrorMessage = "OCR engine error. Ensure 'tesseract-ocr' and 'poppler-utils' are installed on host."

// Upload is a PDF submitted for text extraction.
type Upload struct {
	Filename string
	Content  []byte
}

// Document is the extraction result.
type Document struct {
	Filename string
	Text     string
	Size     int
	// ArchiveKey is the blob key of the archived upload, empty when archiving is off or failed.
	ArchiveKey string
}

// HasPDFExtension reports whether filename ends in .pdf, ignoring case.
func HasPDFExtension(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".pdf")
}

// HasPDFMagic reports whether content starts with the PDF header.
func HasPDFMagic(content []byte) bool {
	return bytes.HasPrefix(content, pdfMagic)
}

// Validate checks the upload is a non-empty PDF.
func (u *Upload) Validate() error {
	if !HasPDFExtension(u.Filename) {
		return ErrNotPDF
	}
	if len(u.Content) == 0 {
		return ErrEmptyUpload
	}
	if !HasPDFMagic(u.Content) {
		return ErrNotPDF
	}
	return nil
}
