package store

import (
	"context"

	"github.com/MKhiriev/crypto-vault/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock -exclude_interfaces=ErrorClassificator

// RawVaultStorage keeps sealed vaults by name. Implementations treat the
// data as opaque bytes and never decrypt it.
type RawVaultStorage interface {
	// Create stores a new vault with version 1. It fails with
	// [ErrRawVaultExists] when name is taken.
	Create(ctx context.Context, name string, data []byte) (models.RawVaultRecord, error)

	// Update replaces the data of an existing vault if its stored version
	// still equals version, and increments the version. It fails with
	// [ErrRawVaultNotFound] or [ErrVersionConflict].
	Update(ctx context.Context, name string, data []byte, version int64) (models.RawVaultRecord, error)

	// Put creates or unconditionally replaces a vault.
	Put(ctx context.Context, name string, data []byte) (models.RawVaultRecord, error)

	// Load returns the stored vault or [ErrRawVaultNotFound].
	Load(ctx context.Context, name string) (models.RawVaultRecord, error)

	// Delete removes the vault or fails with [ErrRawVaultNotFound].
	Delete(ctx context.Context, name string) error

	// List returns every stored vault ordered by name, without Data.
	List(ctx context.Context) ([]models.RawVaultRecord, error)

	// Close releases the backend.
	Close() error
}

// ErrorClassificator maps driver errors to an [ErrorClassification].
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
