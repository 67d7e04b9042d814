package store

import "errors"

// Sentinel errors returned by storages to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrRawVaultNotFound is returned when no vault is stored under the
	// requested name.
	ErrRawVaultNotFound = errors.New("raw vault was not found")

	// ErrRawVaultExists is returned by Create when the name is taken.
	ErrRawVaultExists = errors.New("raw vault already exists")

	// ErrVersionConflict is returned when an optimistic-locking check fails:
	// the version supplied by the caller does not match the stored version,
	// meaning the vault was saved by someone else since it was loaded.
	ErrVersionConflict = errors.New("raw vault version conflict occurred")

	// ErrInvalidName is returned for vault names outside
	// [A-Za-z0-9._-]{1,128} or starting with a dot.
	ErrInvalidName = errors.New("invalid vault name")
)

// Low-level database operation errors. These are returned (or wrapped) by
// the SQL storage when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a query against the
	// database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrScanningRow is returned when scanning column values from a single
	// result row fails.
	ErrScanningRow = errors.New("failed to scan raw vault row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan raw vault rows")
)
