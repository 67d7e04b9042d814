package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/crypto-vault/internal/config"
	"github.com/MKhiriev/crypto-vault/internal/logger"
)

// NewRawVaultStorage initialises the backend selected by cfg.Backend:
//   - [config.BackendFile]: a directory of vault files under cfg.Files.Dir;
//   - [config.BackendDB]: SQLite or PostgreSQL chosen from cfg.DB.DSN, with
//     pending schema migrations applied.
func NewRawVaultStorage(ctx context.Context, cfg config.Storage, log *logger.Logger) (RawVaultStorage, error) {
	log.Debug().Str("backend", cfg.Backend).Msg("creating raw vault storage")

	switch cfg.Backend {
	case config.BackendFile:
		return NewFileRawVaultStorage(cfg.Files.Dir, log)

	case config.BackendDB:
		db, err := NewConnectDB(ctx, cfg.DB, log)
		if err != nil {
			return nil, fmt.Errorf("database connection error: %w", err)
		}

		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, fmt.Errorf("migration failed: %w", err)
		}

		return NewSQLRawVaultStorage(db, log), nil

	default:
		return nil, fmt.Errorf("%w: unknown backend %q", config.ErrInvalidStorageConfigs, cfg.Backend)
	}
}
