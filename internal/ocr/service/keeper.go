package service

import (
	"context"
	"fmt"

	"gocloud.dev/secrets"

	// Register the KMS drivers accepted by OCR_ARCHIVE_KEY_URI
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// Keeper encrypts archived uploads. *secrets.Keeper implements it.
type Keeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// OpenKeeper opens a keeper for keyURI.
// Supports: base64key://, hashivault://, awskms://, gcpkms://, azurekeyvault://
func OpenKeeper(ctx context.Context, keyURI string) (Keeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive keeper: %w", err)
	}
	return keeper, nil
}
