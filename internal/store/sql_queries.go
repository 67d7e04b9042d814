// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

const (
	rawVaultsTable  = "raw_vaults"
	returningClause = "RETURNING id, name, version, created_at, updated_at"
)

var recordColumns = []string{"id", "name", "version", "created_at", "updated_at"}

func (db *DB) buildInsertQuery(id, name string, data []byte, now int64) (string, []any, error) {
	query, args, err := db.builder.
		Insert(rawVaultsTable).
		Columns("id", "name", "data", "version", "created_at", "updated_at").
		Values(id, name, data, 1, now, now).
		Suffix(returningClause).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildUpsertQuery inserts a new vault or replaces the data of an existing
// one, keeping its id and created_at and incrementing its version.
func (db *DB) buildUpsertQuery(id, name string, data []byte, now int64) (string, []any, error) {
	query, args, err := db.builder.
		Insert(rawVaultsTable).
		Columns("id", "name", "data", "version", "created_at", "updated_at").
		Values(id, name, data, 1, now, now).
		Suffix("ON CONFLICT (name) DO UPDATE SET " +
			"data = excluded.data, " +
			"version = " + rawVaultsTable + ".version + 1, " +
			"updated_at = excluded.updated_at " +
			returningClause).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildUpdateQuery replaces the data only if the stored version matches.
func (db *DB) buildUpdateQuery(name string, data []byte, version, now int64) (string, []any, error) {
	query, args, err := db.builder.
		Update(rawVaultsTable).
		Set("data", data).
		Set("version", sq.Expr("version + 1")).
		Set("updated_at", now).
		Where(sq.Eq{"name": name, "version": version}).
		Suffix(returningClause).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func (db *DB) buildSelectOneQuery(name string) (string, []any, error) {
	query, args, err := db.builder.
		Select("id", "name", "version", "created_at", "updated_at", "data").
		From(rawVaultsTable).
		Where(sq.Eq{"name": name}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func (db *DB) buildSelectVersionQuery(name string) (string, []any, error) {
	query, args, err := db.builder.
		Select("version").
		From(rawVaultsTable).
		Where(sq.Eq{"name": name}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func (db *DB) buildSelectAllQuery() (string, []any, error) {
	query, args, err := db.builder.
		Select(recordColumns...).
		From(rawVaultsTable).
		OrderBy("name").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func (db *DB) buildDeleteQuery(name string) (string, []any, error) {
	query, args, err := db.builder.
		Delete(rawVaultsTable).
		Where(sq.Eq{"name": name}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}
