package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/MKhiriev/crypto-vault/internal/crypto"
)

// SuiteName holds a cipher suite name validated at parse time.
// It implements the flag.Value interface.
type SuiteName struct {
	Suite crypto.Suite
}

// String returns the canonical suite name, or "" when unset.
func (s *SuiteName) String() string {
	if s == nil || s.Suite == 0 {
		return ""
	}
	return s.Suite.String()
}

// Set parses one of the names accepted by [crypto.ParseSuite].
func (s *SuiteName) Set(name string) error {
	suite, err := crypto.ParseSuite(name)
	if err != nil {
		return err
	}
	s.Suite = suite
	return nil
}

// ParseFlags parses configuration flags from args and returns the
// remaining positional arguments.
//
// Flags:
//
//	-kdf-time Argon2id time cost
//	-kdf-memory Argon2id memory cost in KiB
//	-kdf-threads Argon2id parallelism
//	-suite cipher suite for new vaults
//	-backend storage backend: file or db
//	-d database DSN
//	-db-timeout database connect and retry timeout (e.g., "5s")
//	-f vault directory for the file backend
//	-workers maximum concurrent key derivations
//	-log-level zerolog level
//	-c/-config json file path with configs
func ParseFlags(args []string) (*StructuredConfig, []string, error) {
	return parseFlagSet(args, io.Discard)
}

func parseFlagSet(args []string, output io.Writer) (*StructuredConfig, []string, error) {
	var kdfTime, kdfMemory, kdfThreads uint
	var suite SuiteName
	var backend string
	var databaseDSN string
	var dbTimeout time.Duration
	var filesDir string
	var poolSize int
	var logLevel string
	var jsonConfigPath string

	fs := flag.NewFlagSet("vault", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.UintVar(&kdfTime, "kdf-time", 0, "Argon2id time cost")
	fs.UintVar(&kdfMemory, "kdf-memory", 0, "Argon2id memory cost in KiB")
	fs.UintVar(&kdfThreads, "kdf-threads", 0, "Argon2id parallelism")
	fs.Var(&suite, "suite", "Cipher suite for new vaults (aes-256-gcm, xchacha20-poly1305)")
	fs.StringVar(&backend, "backend", "", "Storage backend (file, db)")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.DurationVar(&dbTimeout, "db-timeout", 0, "Database timeout (e.g., 5s)")
	fs.StringVar(&filesDir, "f", "", "Vault directory")
	fs.IntVar(&poolSize, "workers", 0, "Maximum concurrent key derivations")
	fs.StringVar(&logLevel, "log-level", "", "Log level")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	if kdfTime > 1<<32-1 || kdfMemory > 1<<32-1 {
		return nil, nil, fmt.Errorf("%w: kdf cost out of range", ErrInvalidVaultConfigs)
	}
	if kdfThreads > 255 {
		return nil, nil, fmt.Errorf("%w: kdf-threads %d out of range", ErrInvalidVaultConfigs, kdfThreads)
	}

	return &StructuredConfig{
		Vault: Vault{
			KDFTime:    uint32(kdfTime),
			KDFMemory:  uint32(kdfMemory),
			KDFThreads: uint8(kdfThreads),
			Suite:      suite.String(),
		},
		Storage: Storage{
			Backend: backend,
			DB: DB{
				DSN:     databaseDSN,
				Timeout: dbTimeout,
			},
			Files: Files{
				Dir: filesDir,
			},
		},
		Workers:      Workers{PoolSize: poolSize},
		Log:          Log{Level: logLevel},
		JSONFilePath: jsonConfigPath,
	}, fs.Args(), nil
}
