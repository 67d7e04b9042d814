// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/crypto-vault/internal/logger"
	"github.com/MKhiriev/crypto-vault/models"
	"github.com/google/uuid"
)

const (
	vaultFileExt = ".cvlt"

	// recordHeaderLen is the size of the per-file record header:
	// version (8) | record id (16) | created at, Unix ns (8).
	recordHeaderLen = 8 + 16 + 8
)

// fileRawVaultStorage is the directory-backed implementation of
// [RawVaultStorage]. Every vault lives in its own <name>.cvlt file that is
// replaced atomically on each write.
//
// Writes are serialized within the process; concurrent writers in other
// processes are detected only by Create (hard-link exclusivity) and by the
// version check of Update.
type fileRawVaultStorage struct {
	dir    string
	mu     sync.Mutex
	logger *logger.Logger
	now    func() time.Time
}

// NewFileRawVaultStorage returns a [RawVaultStorage] keeping vaults under
// dir, creating the directory with mode 0700 if needed.
func NewFileRawVaultStorage(dir string, log *logger.Logger) (RawVaultStorage, error) {
	log.Debug().Str("dir", dir).Msg("creating file raw vault storage")

	if err := os.MkdirAll(dir, 0o700); err != nil {
		log.Err(err).Str("func", "NewFileRawVaultStorage").Msg("error creating vault directory")
		return nil, fmt.Errorf("create vault directory: %w", err)
	}

	return &fileRawVaultStorage{
		dir:    dir,
		logger: log,
		now:    time.Now,
	}, nil
}

func (f *fileRawVaultStorage) Create(ctx context.Context, name string, data []byte) (models.RawVaultRecord, error) {
	if err := ValidateName(name); err != nil {
		return models.RawVaultRecord{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	id, err := uuid.NewV7()
	if err != nil {
		return models.RawVaultRecord{}, fmt.Errorf("generate record id: %w", err)
	}
	record := models.RawVaultRecord{
		ID:      id.String(),
		Name:    name,
		Data:    data,
		Version: 1,
	}

	if err := f.write(ctx, record, f.now(), true); err != nil {
		return models.RawVaultRecord{}, err
	}
	return f.stat(record)
}

func (f *fileRawVaultStorage) Update(ctx context.Context, name string, data []byte, version int64) (models.RawVaultRecord, error) {
	if err := ValidateName(name); err != nil {
		return models.RawVaultRecord{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	current, err := f.read(name, false)
	if err != nil {
		return models.RawVaultRecord{}, err
	}
	if current.Version != version {
		f.log(ctx).Warn().
			Str("func", "*fileRawVaultStorage.Update").
			Str("vault", name).
			Int64("stored_version", current.Version).
			Int64("version", version).
			Msg("version conflict")
		return models.RawVaultRecord{}, fmt.Errorf("%w: stored %d, have %d", ErrVersionConflict, current.Version, version)
	}

	current.Data = data
	current.Version++
	if err := f.write(ctx, current, *current.CreatedAt, false); err != nil {
		return models.RawVaultRecord{}, err
	}
	return f.stat(current)
}

func (f *fileRawVaultStorage) Put(ctx context.Context, name string, data []byte) (models.RawVaultRecord, error) {
	if err := ValidateName(name); err != nil {
		return models.RawVaultRecord{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	current, err := f.read(name, false)
	switch {
	case errors.Is(err, ErrRawVaultNotFound):
		id, err := uuid.NewV7()
		if err != nil {
			return models.RawVaultRecord{}, fmt.Errorf("generate record id: %w", err)
		}
		now := f.now()
		current = models.RawVaultRecord{ID: id.String(), Name: name, CreatedAt: &now}
	case err != nil:
		return models.RawVaultRecord{}, err
	}

	current.Data = data
	current.Version++
	if err := f.write(ctx, current, *current.CreatedAt, false); err != nil {
		return models.RawVaultRecord{}, err
	}
	return f.stat(current)
}

func (f *fileRawVaultStorage) Load(_ context.Context, name string) (models.RawVaultRecord, error) {
	if err := ValidateName(name); err != nil {
		return models.RawVaultRecord{}, err
	}
	return f.read(name, false)
}

func (f *fileRawVaultStorage) Delete(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path(name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %q", ErrRawVaultNotFound, name)
		}
		f.log(ctx).Err(err).Str("func", "*fileRawVaultStorage.Delete").Str("vault", name).Msg("error removing vault file")
		return fmt.Errorf("remove vault file: %w", err)
	}
	return nil
}

func (f *fileRawVaultStorage) List(ctx context.Context) ([]models.RawVaultRecord, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		f.log(ctx).Err(err).Str("func", "*fileRawVaultStorage.List").Msg("error reading vault directory")
		return nil, fmt.Errorf("read vault directory: %w", err)
	}

	records := make([]models.RawVaultRecord, 0, len(entries))
	for _, entry := range entries {
		name, ok := strings.CutSuffix(entry.Name(), vaultFileExt)
		if !ok || !entry.Type().IsRegular() || ValidateName(name) != nil {
			continue
		}

		record, err := f.read(name, true)
		if errors.Is(err, ErrRawVaultNotFound) {
			// removed since ReadDir
			continue
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Name < records[j].Name })
	return records, nil
}

func (f *fileRawVaultStorage) Close() error {
	return nil
}

func (f *fileRawVaultStorage) path(name string) string {
	return filepath.Join(f.dir, name+vaultFileExt)
}

// read loads and parses a vault file. With headerOnly the data is skipped.
func (f *fileRawVaultStorage) read(name string, headerOnly bool) (models.RawVaultRecord, error) {
	file, err := os.Open(f.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return models.RawVaultRecord{}, fmt.Errorf("%w: %q", ErrRawVaultNotFound, name)
		}
		return models.RawVaultRecord{}, fmt.Errorf("open vault file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return models.RawVaultRecord{}, fmt.Errorf("stat vault file: %w", err)
	}

	header := make([]byte, recordHeaderLen)
	if _, err := io.ReadFull(file, header); err != nil {
		return models.RawVaultRecord{}, fmt.Errorf("vault file %q: corrupt record header: %w", name, err)
	}

	id, err := uuid.FromBytes(header[8:24])
	if err != nil {
		return models.RawVaultRecord{}, fmt.Errorf("vault file %q: %w", name, err)
	}
	createdAt := time.Unix(0, int64(binary.BigEndian.Uint64(header[24:32])))
	updatedAt := info.ModTime()

	record := models.RawVaultRecord{
		ID:        id.String(),
		Name:      name,
		Version:   int64(binary.BigEndian.Uint64(header[:8])),
		CreatedAt: &createdAt,
		UpdatedAt: &updatedAt,
	}

	if !headerOnly {
		if record.Data, err = io.ReadAll(file); err != nil {
			return models.RawVaultRecord{}, fmt.Errorf("read vault file: %w", err)
		}
	}
	return record, nil
}

func (f *fileRawVaultStorage) log(ctx context.Context) *logger.Logger {
	return logger.FromContextOr(ctx, f.logger)
}

// write stores record atomically. With exclusive the final file must not
// exist yet.
func (f *fileRawVaultStorage) write(ctx context.Context, record models.RawVaultRecord, createdAt time.Time, exclusive bool) error {
	log := f.log(ctx)

	id, err := uuid.Parse(record.ID)
	if err != nil {
		return fmt.Errorf("record id: %w", err)
	}

	buf := bytes.NewBuffer(make([]byte, 0, recordHeaderLen+len(record.Data)))
	_ = binary.Write(buf, binary.BigEndian, uint64(record.Version))
	buf.Write(id[:])
	_ = binary.Write(buf, binary.BigEndian, createdAt.UnixNano())
	buf.Write(record.Data)

	tmp, err := os.CreateTemp(f.dir, "."+record.Name+"-*.tmp")
	if err != nil {
		log.Err(err).Str("func", "*fileRawVaultStorage.write").Str("vault", record.Name).Msg("error creating temp file")
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err = tmp.Write(buf.Bytes()); err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		log.Err(err).Str("func", "*fileRawVaultStorage.write").Str("vault", record.Name).Msg("error writing temp file")
		return fmt.Errorf("write temp file: %w", err)
	}

	if exclusive {
		if err = os.Link(tmpName, f.path(record.Name)); err != nil {
			if errors.Is(err, fs.ErrExist) {
				return fmt.Errorf("%w: %q", ErrRawVaultExists, record.Name)
			}
			log.Err(err).Str("func", "*fileRawVaultStorage.write").Str("vault", record.Name).Msg("error linking vault file")
			return fmt.Errorf("link vault file: %w", err)
		}
		return nil
	}

	if err = os.Rename(tmpName, f.path(record.Name)); err != nil {
		log.Err(err).Str("func", "*fileRawVaultStorage.write").Str("vault", record.Name).Msg("error renaming vault file")
		return fmt.Errorf("rename vault file: %w", err)
	}
	return nil
}

// stat returns record with the timestamps as stored on disk.
func (f *fileRawVaultStorage) stat(record models.RawVaultRecord) (models.RawVaultRecord, error) {
	stored, err := f.read(record.Name, true)
	if err != nil {
		return models.RawVaultRecord{}, err
	}
	stored.Data = record.Data
	return stored, nil
}
