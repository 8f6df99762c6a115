package usecase

import (
	"context"
	"log/slog"
	"time"

	ocrDomain "github.com/allisson/bizdata/internal/ocr/domain"
	ocrService "github.com/allisson/bizdata/internal/ocr/service"
)

type ocrUseCase struct {
	engine   ocrService.Engine
	archiver ocrService.Archiver
	timeout  time.Duration
	logger   *slog.Logger
}

func (o *ocrUseCase) Extract(ctx context.Context, upload *ocrDomain.Upload) (*ocrDomain.Document, error) {
	if err := upload.Validate(); err != nil {
		return nil, err
	}

	extractCtx := ctx
	if o.timeout > 0 {
		var cancel context.CancelFunc
		extractCtx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	text, err := o.engine.Extract(extractCtx, upload.Content)
	if err != nil {
		return nil, err
	}

	document := &ocrDomain.Document{
		Filename: upload.Filename,
		Text:     text,
		Size:     len(upload.Content),
	}

	if o.archiver != nil {
		key, err := o.archiver.Archive(ctx, upload)
		if err != nil {
			o.logger.Warn("failed to archive ocr upload",
				slog.String("filename", upload.Filename),
				slog.Any("error", err),
			)
		} else {
			document.ArchiveKey = key
		}
	}

	return document, nil
}

// NewOCRUseCase creates an OCRUseCase. archiver may be nil to disable
// archiving; timeout bounds each engine run when positive.
func NewOCRUseCase(
	engine ocrService.Engine,
	archiver ocrService.Archiver,
	timeout time.Duration,
	logger *slog.Logger,
) OCRUseCase {
	return &ocrUseCase{
		engine:   engine,
		archiver: archiver,
		timeout:  timeout,
		logger:   logger,
	}
}
