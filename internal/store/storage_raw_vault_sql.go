// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/crypto-vault/internal/logger"
	"github.com/MKhiriev/crypto-vault/models"
	"github.com/google/uuid"
)

// sqlRawVaultStorage is the database-backed implementation of
// [RawVaultStorage]. It works against the "raw_vaults" table on SQLite and
// PostgreSQL; dialect differences are confined to the squirrel placeholder
// format and the error classifier held by [DB].
type sqlRawVaultStorage struct {
	*DB
	logger *logger.Logger
	now    func() time.Time
}

// NewSQLRawVaultStorage constructs a [RawVaultStorage] backed by db.
// The schema must have been migrated with [DB.Migrate].
func NewSQLRawVaultStorage(db *DB, log *logger.Logger) RawVaultStorage {
	log.Debug().Str("dialect", string(db.dialect)).Msg("creating sql raw vault storage")
	return &sqlRawVaultStorage{
		DB:     db,
		logger: log,
		now:    time.Now,
	}
}

func (s *sqlRawVaultStorage) log(ctx context.Context) *logger.Logger {
	return logger.FromContextOr(ctx, s.logger)
}

func (s *sqlRawVaultStorage) Create(ctx context.Context, name string, data []byte) (models.RawVaultRecord, error) {
	log := s.log(ctx)

	if err := ValidateName(name); err != nil {
		return models.RawVaultRecord{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return models.RawVaultRecord{}, fmt.Errorf("generate record id: %w", err)
	}

	query, args, err := s.buildInsertQuery(id.String(), name, data, s.now().UnixNano())
	if err != nil {
		log.Err(err).Str("func", "*sqlRawVaultStorage.Create").Msg("failed to create query")
		return models.RawVaultRecord{}, err
	}

	record, err := s.queryRecord(ctx, "*sqlRawVaultStorage.Create", query, args)
	if err != nil {
		if s.errorClassificator.Classify(err) == Duplicate {
			return models.RawVaultRecord{}, fmt.Errorf("%w: %q", ErrRawVaultExists, name)
		}
		log.Err(err).Str("func", "*sqlRawVaultStorage.Create").Str("vault", name).Msg("failed to insert raw vault")
		return models.RawVaultRecord{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	record.Data = data
	return record, nil
}

func (s *sqlRawVaultStorage) Update(ctx context.Context, name string, data []byte, version int64) (models.RawVaultRecord, error) {
	log := s.log(ctx)

	if err := ValidateName(name); err != nil {
		return models.RawVaultRecord{}, err
	}

	query, args, err := s.buildUpdateQuery(name, data, version, s.now().UnixNano())
	if err != nil {
		log.Err(err).Str("func", "*sqlRawVaultStorage.Update").Msg("failed to create query")
		return models.RawVaultRecord{}, err
	}

	record, err := s.queryRecord(ctx, "*sqlRawVaultStorage.Update", query, args)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.RawVaultRecord{}, s.explainMissedUpdate(ctx, name, version)
	case err != nil:
		log.Err(err).Str("func", "*sqlRawVaultStorage.Update").Str("vault", name).Msg("failed to update raw vault")
		return models.RawVaultRecord{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	record.Data = data
	return record, nil
}

// explainMissedUpdate tells a missing vault from a stale version after an
// UPDATE matched no row.
func (s *sqlRawVaultStorage) explainMissedUpdate(ctx context.Context, name string, version int64) error {
	query, args, err := s.buildSelectVersionQuery(name)
	if err != nil {
		return err
	}

	var stored int64
	err = s.withRetry(ctx, "*sqlRawVaultStorage.Update", func(ctx context.Context) error {
		return s.QueryRowContext(ctx, query, args...).Scan(&stored)
	})
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%w: %q", ErrRawVaultNotFound, name)
	case err != nil:
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	s.log(ctx).Warn().
		Str("func", "*sqlRawVaultStorage.Update").
		Str("vault", name).
		Int64("stored_version", stored).
		Int64("version", version).
		Msg("version conflict")
	return fmt.Errorf("%w: stored %d, have %d", ErrVersionConflict, stored, version)
}

func (s *sqlRawVaultStorage) Put(ctx context.Context, name string, data []byte) (models.RawVaultRecord, error) {
	log := s.log(ctx)

	if err := ValidateName(name); err != nil {
		return models.RawVaultRecord{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return models.RawVaultRecord{}, fmt.Errorf("generate record id: %w", err)
	}

	query, args, err := s.buildUpsertQuery(id.String(), name, data, s.now().UnixNano())
	if err != nil {
		log.Err(err).Str("func", "*sqlRawVaultStorage.Put").Msg("failed to create query")
		return models.RawVaultRecord{}, err
	}

	record, err := s.queryRecord(ctx, "*sqlRawVaultStorage.Put", query, args)
	if err != nil {
		log.Err(err).Str("func", "*sqlRawVaultStorage.Put").Str("vault", name).Msg("failed to execute upsert for raw vault")
		return models.RawVaultRecord{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	record.Data = data
	return record, nil
}

func (s *sqlRawVaultStorage) Load(ctx context.Context, name string) (models.RawVaultRecord, error) {
	log := s.log(ctx)

	if err := ValidateName(name); err != nil {
		return models.RawVaultRecord{}, err
	}

	query, args, err := s.buildSelectOneQuery(name)
	if err != nil {
		log.Err(err).Str("func", "*sqlRawVaultStorage.Load").Msg("failed to create query")
		return models.RawVaultRecord{}, err
	}

	var record models.RawVaultRecord
	err = s.withRetry(ctx, "*sqlRawVaultStorage.Load", func(ctx context.Context) error {
		var created, updated int64
		if err := s.QueryRowContext(ctx, query, args...).Scan(
			&record.ID,
			&record.Name,
			&record.Version,
			&created,
			&updated,
			&record.Data,
		); err != nil {
			return err
		}
		record.CreatedAt, record.UpdatedAt = unixNano(created), unixNano(updated)
		return nil
	})
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.RawVaultRecord{}, fmt.Errorf("%w: %q", ErrRawVaultNotFound, name)
	case err != nil:
		log.Err(err).Str("func", "*sqlRawVaultStorage.Load").Str("vault", name).Msg("failed to scan raw vault row")
		return models.RawVaultRecord{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return record, nil
}

func (s *sqlRawVaultStorage) Delete(ctx context.Context, name string) error {
	log := s.log(ctx)

	if err := ValidateName(name); err != nil {
		return err
	}

	query, args, err := s.buildDeleteQuery(name)
	if err != nil {
		log.Err(err).Str("func", "*sqlRawVaultStorage.Delete").Msg("failed to create query")
		return err
	}

	var affected int64
	err = s.withRetry(ctx, "*sqlRawVaultStorage.Delete", func(ctx context.Context) error {
		res, err := s.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		log.Err(err).Str("func", "*sqlRawVaultStorage.Delete").Str("vault", name).Msg("failed to delete raw vault")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %q", ErrRawVaultNotFound, name)
	}

	return nil
}

func (s *sqlRawVaultStorage) List(ctx context.Context) ([]models.RawVaultRecord, error) {
	log := s.log(ctx)

	query, args, err := s.buildSelectAllQuery()
	if err != nil {
		log.Err(err).Str("func", "*sqlRawVaultStorage.List").Msg("failed to create query")
		return nil, err
	}

	var records []models.RawVaultRecord
	err = s.withRetry(ctx, "*sqlRawVaultStorage.List", func(ctx context.Context) error {
		rows, err := s.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		records = make([]models.RawVaultRecord, 0, 16)
		for rows.Next() {
			record, err := scanRecord(rows)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrScanningRows, err)
			}
			records = append(records, record)
		}
		return rows.Err()
	})
	if err != nil {
		log.Err(err).Str("func", "*sqlRawVaultStorage.List").Msg("failed to list raw vaults")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return records, nil
}

func (s *sqlRawVaultStorage) Close() error {
	return s.DB.Close()
}

// queryRecord runs a statement returning one record row.
func (s *sqlRawVaultStorage) queryRecord(ctx context.Context, funcName, query string, args []any) (models.RawVaultRecord, error) {
	var record models.RawVaultRecord
	err := s.withRetry(ctx, funcName, func(ctx context.Context) error {
		var err error
		record, err = scanRecord(s.QueryRowContext(ctx, query, args...))
		return err
	})
	return record, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (models.RawVaultRecord, error) {
	var record models.RawVaultRecord
	var created, updated int64

	if err := row.Scan(&record.ID, &record.Name, &record.Version, &created, &updated); err != nil {
		return models.RawVaultRecord{}, err
	}
	record.CreatedAt, record.UpdatedAt = unixNano(created), unixNano(updated)

	return record, nil
}

func unixNano(ns int64) *time.Time {
	t := time.Unix(0, ns).UTC()
	return &t
}
