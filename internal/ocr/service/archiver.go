package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gocloud.dev/blob"

	ocrDomain "github.com/allisson/bizdata/internal/ocr/domain"

	// Register the bucket drivers accepted by OCR_ARCHIVE_BUCKET_URL
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
)

// Archiver stores accepted uploads.
type Archiver interface {
	// Archive stores upload and returns its key.
	Archive(ctx context.Context, upload *ocrDomain.Upload) (string, error)
}

// BlobArchiver writes uploads to a gocloud.dev bucket under
// ocr/{yyyy}/{mm}/{dd}/{uuid}.pdf, encrypting them when a keeper is set.
type BlobArchiver struct {
	bucket *blob.Bucket
	keeper Keeper
	now    func() time.Time
}

// OpenBlobArchiver opens the bucket at bucketURL (mem://, file:///path, s3://...).
// keeper may be nil to store uploads as they were received.
func OpenBlobArchiver(ctx context.Context, bucketURL string, keeper Keeper) (*BlobArchiver, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive bucket: %w", err)
	}
	return NewBlobArchiver(bucket, keeper), nil
}

// NewBlobArchiver creates an archiver over an open bucket.
func NewBlobArchiver(bucket *blob.Bucket, keeper Keeper) *BlobArchiver {
	return &BlobArchiver{
		bucket: bucket,
		keeper: keeper,
		now:    time.Now,
	}
}

// Archive writes the upload and returns its key. Encrypted objects get an ".enc" suffix.
func (a *BlobArchiver) Archive(ctx context.Context, upload *ocrDomain.Upload) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate archive id: %w", err)
	}

	now := a.now().UTC()
	key := fmt.Sprintf("ocr/%04d/%02d/%02d/%s.pdf", now.Year(), now.Month(), now.Day(), id)

	content := upload.Content
	contentType := "application/pdf"
	if a.keeper != nil {
		content, err = a.keeper.Encrypt(ctx, upload.Content)
		if err != nil {
			return "", fmt.Errorf("failed to encrypt upload: %w", err)
		}
		key += ".enc"
		contentType = "application/octet-stream"
	}

	err = a.bucket.WriteAll(ctx, key, content, &blob.WriterOptions{
		ContentType: contentType,
		Metadata: map[string]string{
			"filename": upload.Filename,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to write archive object: %w", err)
	}

	return key, nil
}

// Read returns the archived upload stored under key, decrypting it when needed.
func (a *BlobArchiver) Read(ctx context.Context, key string) ([]byte, error) {
	content, err := a.bucket.ReadAll(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive object: %w", err)
	}
	if a.keeper == nil {
		return content, nil
	}
	return a.keeper.Decrypt(ctx, content)
}

// Close closes the bucket and the keeper.
func (a *BlobArchiver) Close() error {
	err := a.bucket.Close()
	if a.keeper != nil {
		if kerr := a.keeper.Close(); err == nil {
			err = kerr
		}
	}
	return err
}
