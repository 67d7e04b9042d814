package service

import (
	"context"

	"github.com/MKhiriev/crypto-vault/models"
)

// VaultService stores, opens and seals named vaults holding payloads of
// type T. Passwords are only used for key derivation and are never kept.
type VaultService[T any] interface {
	// Create seals value under password with a fresh salt and stores it as
	// a new vault.
	Create(ctx context.Context, name string, value T, password []byte) (models.RawVaultRecord, error)

	// Open loads and decrypts a vault. The caller must Close the result.
	Open(ctx context.Context, name string, password []byte) (*OpenVault[T], error)

	// Save reseals an open vault and stores it if nobody saved it since it
	// was opened.
	Save(ctx context.Context, v *OpenVault[T]) (models.RawVaultRecord, error)

	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]models.RawVaultRecord, error)

	// Export returns the armored text form of a stored vault.
	Export(ctx context.Context, name string) ([]byte, error)

	// Import validates an armored vault and stores it under name, replacing
	// an existing vault only if overwrite is set.
	Import(ctx context.Context, name string, text []byte, overwrite bool) (models.RawVaultRecord, error)

	// Verify checks that password opens every named vault, or every stored
	// vault when names is empty.
	Verify(ctx context.Context, password []byte, names ...string) error
}
