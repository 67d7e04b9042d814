package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/crypto-vault/internal/config"
	"github.com/MKhiriev/crypto-vault/internal/logger"
	"github.com/MKhiriev/crypto-vault/migrations"
)

// Dialect names a supported SQL backend. Its value is both the
// database/sql driver name and the goose dialect.
type Dialect string

const (
	DialectPostgres Dialect = "pgx"
	DialectSQLite   Dialect = "sqlite3"
)

// DB wraps a *sql.DB together with the dialect-specific query builder and
// error classifier.
type DB struct {
	*sql.DB
	dialect            Dialect
	builder            sq.StatementBuilderType
	errorClassificator ErrorClassificator
	logger             *logger.Logger
	timeout            time.Duration
}

func newDB(conn *sql.DB, dialect Dialect, timeout time.Duration, log *logger.Logger) *DB {
	db := &DB{
		DB:      conn,
		dialect: dialect,
		logger:  log,
		timeout: timeout,
	}

	switch dialect {
	case DialectPostgres:
		db.builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
		db.errorClassificator = NewPostgresErrorClassifier()
	default:
		db.builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)
		db.errorClassificator = NewSQLiteErrorClassifier()
	}

	return db
}

// DialectFromDSN picks the backend for dsn: PostgreSQL URLs and key/value
// strings select PostgreSQL, anything else is treated as a SQLite path.
func DialectFromDSN(dsn string) Dialect {
	lower := strings.ToLower(strings.TrimSpace(dsn))
	if strings.HasPrefix(lower, "postgres://") ||
		strings.HasPrefix(lower, "postgresql://") ||
		strings.Contains(lower, "host=") {
		return DialectPostgres
	}
	return DialectSQLite
}

// NewConnectDB opens the database selected by cfg.DSN and pings it.
func NewConnectDB(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	switch DialectFromDSN(cfg.DSN) {
	case DialectPostgres:
		return NewConnectPostgres(ctx, cfg, log)
	default:
		return NewConnectSQLite(ctx, cfg, log)
	}
}

// Migrate applies the embedded schema migrations.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, string(db.dialect))
}

// Dialect returns the backend of db.
func (db *DB) Dialect() Dialect {
	return db.dialect
}

// ping verifies the connection and closes it on failure.
func ping(ctx context.Context, conn *sql.DB, funcName string, log *logger.Logger) error {
	if err := conn.PingContext(ctx); err != nil {
		log.Err(err).Str("func", funcName).Msg("error connecting database (ping)")
		conn.Close()
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}
