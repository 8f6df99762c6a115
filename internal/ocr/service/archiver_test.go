package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"

	ocrDomain "github.com/allisson/bizdata/internal/ocr/domain"
)

// generateLocalSecretsURI generates a base64key:// URI for testing.
func generateLocalSecretsURI(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return "base64key://" + base64.URLEncoding.EncodeToString(key)
}

func TestBlobArchiver_Archive(t *testing.T) {
	ctx := context.Background()
	upload := &ocrDomain.Upload{Filename: "invoice.pdf", Content: []byte("%PDF-1.7 invoice")}

	t.Run("Success_Plain", func(t *testing.T) {
		bucket := memblob.OpenBucket(nil)
		archiver := NewBlobArchiver(bucket, nil)
		archiver.now = func() time.Time { return time.Date(2026, 2, 8, 23, 0, 0, 0, time.UTC) }
		defer func() {
			assert.NoError(t, archiver.Close())
		}()

		key, err := archiver.Archive(ctx, upload)

		require.NoError(t, err)
		assert.Regexp(t, regexp.MustCompile(`^ocr/2026/02/08/[0-9a-f-]{36}\.pdf$`), key)

		attrs, err := bucket.Attributes(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "application/pdf", attrs.ContentType)
		assert.Equal(t, "invoice.pdf", attrs.Metadata["filename"])

		content, err := archiver.Read(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, upload.Content, content)
	})

	t.Run("Success_Encrypted", func(t *testing.T) {
		keeper, err := OpenKeeper(ctx, generateLocalSecretsURI(t))
		require.NoError(t, err)

		bucket := memblob.OpenBucket(nil)
		archiver := NewBlobArchiver(bucket, keeper)
		defer func() {
			assert.NoError(t, archiver.Close())
		}()

		key, err := archiver.Archive(ctx, upload)
		require.NoError(t, err)
		assert.Regexp(t, `\.pdf\.enc$`, key)

		raw, err := bucket.ReadAll(ctx, key)
		require.NoError(t, err)
		assert.NotEqual(t, upload.Content, raw)

		content, err := archiver.Read(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, upload.Content, content)
	})

	t.Run("Success_DistinctKeys", func(t *testing.T) {
		archiver := NewBlobArchiver(memblob.OpenBucket(nil), nil)

		first, err := archiver.Archive(ctx, upload)
		require.NoError(t, err)
		second, err := archiver.Archive(ctx, upload)
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})
}

func TestOpenBlobArchiver(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_FileBucket", func(t *testing.T) {
		archiver, err := OpenBlobArchiver(ctx, "file://"+t.TempDir(), nil)
		require.NoError(t, err)
		defer func() {
			assert.NoError(t, archiver.Close())
		}()

		key, err := archiver.Archive(ctx, &ocrDomain.Upload{Filename: "a.pdf", Content: []byte("%PDF-")})
		require.NoError(t, err)
		assert.NotEmpty(t, key)
	})

	t.Run("Error_UnknownScheme", func(t *testing.T) {
		archiver, err := OpenBlobArchiver(ctx, "bogus://bucket", nil)

		assert.Error(t, err)
		assert.Nil(t, archiver)
	})
}

func TestOpenKeeper(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_LocalSecrets", func(t *testing.T) {
		keeper, err := OpenKeeper(ctx, generateLocalSecretsURI(t))
		require.NoError(t, err)
		defer func() {
			assert.NoError(t, keeper.Close())
		}()

		ciphertext, err := keeper.Encrypt(ctx, []byte("pdf"))
		require.NoError(t, err)
		plaintext, err := keeper.Decrypt(ctx, ciphertext)
		require.NoError(t, err)
		assert.Equal(t, []byte("pdf"), plaintext)
	})

	t.Run("Error_InvalidURI", func(t *testing.T) {
		keeper, err := OpenKeeper(ctx, "invalid://uri")

		assert.Error(t, err)
		assert.Nil(t, keeper)
		assert.Contains(t, err.Error(), "failed to open archive keeper")
	})
}
