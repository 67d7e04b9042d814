// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/crypto-vault/internal/logger"
	"github.com/MKhiriev/crypto-vault/internal/store"
	"github.com/MKhiriev/crypto-vault/internal/workers"
	"github.com/MKhiriev/crypto-vault/models"
	"github.com/MKhiriev/crypto-vault/vault"
)

// OpenVault is a decrypted vault together with the name and stored version
// it was opened from. Save updates Version.
type OpenVault[T any] struct {
	*vault.Vault[T]

	Name    string
	Version int64
}

type vaultService[T any] struct {
	storage store.RawVaultStorage
	sealer  vault.DecryptVault[T]
	runner  workers.Runner

	logger *logger.Logger
}

// NewVaultService returns a [VaultService] keeping vaults in storage. Every
// key derivation goes through runner.
func NewVaultService[T any](storage store.RawVaultStorage, sealer vault.DecryptVault[T], runner workers.Runner, logger *logger.Logger) VaultService[T] {
	return &vaultService[T]{
		storage: storage,
		sealer:  sealer,
		runner:  runner,
		logger:  logger,
	}
}

func (s *vaultService[T]) Create(ctx context.Context, name string, value T, password []byte) (models.RawVaultRecord, error) {
	// fail before paying for a derivation
	if err := store.ValidateName(name); err != nil {
		return models.RawVaultRecord{}, err
	}

	var raw *vault.RawVault
	err := s.runner.Do(ctx, func() (err error) {
		raw, err = s.sealer.Encrypt(value, password, nil)
		return err
	})
	if err != nil {
		s.logger.Err(err).Str("func", "*vaultService.Create").Str("vault", name).Msg("error sealing vault")
		return models.RawVaultRecord{}, fmt.Errorf("seal vault %q: %w", name, err)
	}

	record, err := s.store(ctx, name, raw, s.storage.Create)
	if err != nil {
		return models.RawVaultRecord{}, err
	}

	s.logger.Info().Str("func", "*vaultService.Create").Str("vault", name).Str("suite", raw.Suite.String()).Msg("vault created")
	return record, nil
}

func (s *vaultService[T]) Open(ctx context.Context, name string, password []byte) (*OpenVault[T], error) {
	record, raw, err := s.load(ctx, name)
	if err != nil {
		return nil, err
	}

	v, err := s.decrypt(ctx, name, raw, password)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().Str("func", "*vaultService.Open").Str("vault", name).Int64("version", record.Version).Msg("vault opened")
	return &OpenVault[T]{Vault: v, Name: name, Version: record.Version}, nil
}

func (s *vaultService[T]) Save(ctx context.Context, v *OpenVault[T]) (models.RawVaultRecord, error) {
	if v == nil || v.Vault == nil {
		return models.RawVaultRecord{}, ErrInvalidDataProvided
	}

	raw, err := v.Reseal()
	if err != nil {
		s.logger.Err(err).Str("func", "*vaultService.Save").Str("vault", v.Name).Msg("error resealing vault")
		return models.RawVaultRecord{}, fmt.Errorf("reseal vault %q: %w", v.Name, err)
	}

	record, err := s.store(ctx, v.Name, raw, func(ctx context.Context, name string, data []byte) (models.RawVaultRecord, error) {
		return s.storage.Update(ctx, name, data, v.Version)
	})
	if err != nil {
		return models.RawVaultRecord{}, err
	}
	v.Version = record.Version

	s.logger.Info().Str("func", "*vaultService.Save").Str("vault", v.Name).Int64("version", record.Version).Msg("vault saved")
	return record, nil
}

func (s *vaultService[T]) Delete(ctx context.Context, name string) error {
	if err := s.storage.Delete(ctx, name); err != nil {
		s.logger.Err(err).Str("func", "*vaultService.Delete").Str("vault", name).Msg("error deleting vault")
		return fmt.Errorf("delete vault %q: %w", name, err)
	}

	s.logger.Info().Str("func", "*vaultService.Delete").Str("vault", name).Msg("vault deleted")
	return nil
}

func (s *vaultService[T]) List(ctx context.Context) ([]models.RawVaultRecord, error) {
	records, err := s.storage.List(ctx)
	if err != nil {
		s.logger.Err(err).Str("func", "*vaultService.List").Msg("error listing vaults")
		return nil, fmt.Errorf("list vaults: %w", err)
	}
	return records, nil
}

func (s *vaultService[T]) Export(ctx context.Context, name string) ([]byte, error) {
	_, raw, err := s.load(ctx, name)
	if err != nil {
		return nil, err
	}

	text, err := raw.MarshalText()
	if err != nil {
		return nil, fmt.Errorf("export vault %q: %w", name, err)
	}
	return text, nil
}

func (s *vaultService[T]) Import(ctx context.Context, name string, text []byte, overwrite bool) (models.RawVaultRecord, error) {
	raw, err := vault.ParseText(text)
	if err != nil {
		s.logger.Warn().Err(err).Str("func", "*vaultService.Import").Str("vault", name).Msg("rejected armored vault")
		return models.RawVaultRecord{}, fmt.Errorf("import vault %q: %w", name, err)
	}

	write := s.storage.Create
	if overwrite {
		write = s.storage.Put
	}
	record, err := s.store(ctx, name, raw, write)
	if err != nil {
		return models.RawVaultRecord{}, err
	}

	s.logger.Info().Str("func", "*vaultService.Import").Str("vault", name).Bool("overwrite", overwrite).Msg("vault imported")
	return record, nil
}

func (s *vaultService[T]) Verify(ctx context.Context, password []byte, names ...string) error {
	if len(names) == 0 {
		records, err := s.List(ctx)
		if err != nil {
			return err
		}
		for _, r := range records {
			names = append(names, r.Name)
		}
	}
	if len(names) == 0 {
		return ErrNoVaultsToVerify
	}

	raws := make([]*vault.RawVault, len(names))
	for i, name := range names {
		_, raw, err := s.load(ctx, name)
		if err != nil {
			return err
		}
		raws[i] = raw
	}

	jobs := make([]func() error, len(names))
	for i, name := range names {
		i, name := i, name
		jobs[i] = func() error {
			v, err := s.sealer.Decrypt(raws[i], password)
			if err != nil {
				return fmt.Errorf("open vault %q: %w", name, err)
			}
			return v.Close()
		}
	}

	if err := s.runner.DoAll(ctx, jobs...); err != nil {
		s.logger.Warn().Err(err).Str("func", "*vaultService.Verify").Int("vaults", len(names)).Msg("verification failed")
		return err
	}

	s.logger.Info().Str("func", "*vaultService.Verify").Int("vaults", len(names)).Msg("vaults verified")
	return nil
}

// load fetches a stored vault and parses its binary form.
func (s *vaultService[T]) load(ctx context.Context, name string) (models.RawVaultRecord, *vault.RawVault, error) {
	record, err := s.storage.Load(ctx, name)
	if err != nil {
		if !errors.Is(err, store.ErrRawVaultNotFound) {
			s.logger.Err(err).Str("func", "*vaultService.load").Str("vault", name).Msg("error loading vault")
		}
		return models.RawVaultRecord{}, nil, fmt.Errorf("load vault %q: %w", name, err)
	}

	raw, err := vault.ParseBinary(record.Data)
	if err != nil {
		s.logger.Err(err).Str("func", "*vaultService.load").Str("vault", name).Msg("stored vault is invalid")
		return models.RawVaultRecord{}, nil, fmt.Errorf("load vault %q: %w", name, err)
	}

	return record, raw, nil
}

func (s *vaultService[T]) decrypt(ctx context.Context, name string, raw *vault.RawVault, password []byte) (*vault.Vault[T], error) {
	var v *vault.Vault[T]
	err := s.runner.Do(ctx, func() (err error) {
		v, err = s.sealer.Decrypt(raw, password)
		return err
	})

	switch {
	case errors.Is(err, vault.ErrWrongPasswordOrCorrupted):
		s.logger.Warn().Str("func", "*vaultService.Open").Str("vault", name).Msg("authentication failed")
		return nil, fmt.Errorf("open vault %q: %w", name, err)
	case err != nil:
		s.logger.Err(err).Str("func", "*vaultService.Open").Str("vault", name).Msg("error opening vault")
		return nil, fmt.Errorf("open vault %q: %w", name, err)
	}

	return v, nil
}

type writeFunc func(ctx context.Context, name string, data []byte) (models.RawVaultRecord, error)

func (s *vaultService[T]) store(ctx context.Context, name string, raw *vault.RawVault, write writeFunc) (models.RawVaultRecord, error) {
	data, err := raw.MarshalBinary()
	if err != nil {
		return models.RawVaultRecord{}, fmt.Errorf("encode vault %q: %w", name, err)
	}

	record, err := write(ctx, name, data)
	if err != nil {
		s.logger.Err(err).Str("func", "*vaultService.store").Str("vault", name).Msg("error storing vault")
		return models.RawVaultRecord{}, fmt.Errorf("store vault %q: %w", name, err)
	}
	return record, nil
}
