package service

import (
	"github.com/MKhiriev/crypto-vault/internal/config"
	"github.com/MKhiriev/crypto-vault/internal/logger"
	"github.com/MKhiriev/crypto-vault/internal/store"
	"github.com/MKhiriev/crypto-vault/internal/workers"
	"github.com/MKhiriev/crypto-vault/vault"
)

// NewVaultServiceFromConfig wires a [VaultService] whose new vaults use the
// KDF costs and suite from cfg.Vault and whose derivations are bounded by
// cfg.Workers.PoolSize.
func NewVaultServiceFromConfig[T any](storage store.RawVaultStorage, codec vault.Codec[T], cfg config.StructuredConfig, logger *logger.Logger) (VaultService[T], error) {
	suite, err := cfg.Vault.CipherSuite()
	if err != nil {
		return nil, err
	}

	sealer := vault.NewSealer(codec,
		vault.WithKDFParams(cfg.Vault.KDFParams()),
		vault.WithSuite(suite),
	)

	logger.Debug().
		Str("suite", suite.String()).
		Uint32("kdf_memory", cfg.Vault.KDFMemory).
		Int("workers", cfg.Workers.PoolSize).
		Msg("creating vault service")

	return NewVaultService[T](storage, sealer, workers.NewPool(cfg.Workers.PoolSize), logger), nil
}
