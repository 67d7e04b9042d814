// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/rs/zerolog"
)

// validate checks that the final merged [StructuredConfig] satisfies all
// invariants before it is used at startup.
func (cfg *StructuredConfig) validate() error {
	if err := cfg.Vault.KDFParams().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidVaultConfigs, err)
	}
	if _, err := cfg.Vault.CipherSuite(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidVaultConfigs, err)
	}

	switch cfg.Storage.Backend {
	case BackendFile:
		if cfg.Storage.Files.Dir == "" {
			return fmt.Errorf("%w: empty vault directory", ErrInvalidStorageConfigs)
		}
	case BackendDB:
		if cfg.Storage.DB.DSN == "" {
			return fmt.Errorf("%w: empty DSN", ErrInvalidStorageConfigs)
		}
		if cfg.Storage.DB.Timeout <= 0 {
			return fmt.Errorf("%w: non-positive db timeout", ErrInvalidStorageConfigs)
		}
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidStorageConfigs, cfg.Storage.Backend)
	}

	if cfg.Workers.PoolSize < 1 {
		return fmt.Errorf("%w: pool size %d", ErrInvalidWorkerConfigs, cfg.Workers.PoolSize)
	}

	if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLogConfigs, err)
	}

	return nil
}
