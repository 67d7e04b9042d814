// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

const (
	// KeyLen is the length of every derived key (256 bits). Both supported
	// cipher suites take a 32-byte key.
	KeyLen = 32

	// SaltLen is the length of a freshly generated salt (128 bits).
	SaltLen = 16

	// MinSaltLen and MaxSaltLen bound caller-supplied and stored salts.
	MinSaltLen = 16
	MaxSaltLen = 64

	// MaxKDFTime and MaxKDFMemory bound the costs accepted from a vault.
	// Argon2id allocates the whole memory cost up front.
	MaxKDFTime   = 16
	MaxKDFMemory = 1024 * 1024 // 1 GiB in KiB
)

// KDFAlgorithm identifies the password-based key derivation function.
type KDFAlgorithm uint8

const (
	// KDFArgon2id is Argon2id as defined in RFC 9106.
	KDFArgon2id KDFAlgorithm = 1
)

// String implements [fmt.Stringer].
func (a KDFAlgorithm) String() string {
	switch a {
	case KDFArgon2id:
		return "argon2id"
	default:
		return fmt.Sprintf("kdf(%d)", uint8(a))
	}
}

// KDFParams holds the cost parameters of a key derivation. They are stored
// next to the salt in every sealed vault so the key can be reproduced
// independently of the configuration of the process that reads it.
type KDFParams struct {
	Algorithm KDFAlgorithm
	// Time is the number of passes over memory.
	Time uint32
	// Memory is the memory cost in KiB.
	Memory uint32
	// Threads is the degree of parallelism.
	Threads uint8
}

// DefaultKDFParams returns the Argon2id parameters recommended by OWASP
// (2024):
//   - time cost:   1 iteration
//   - memory cost: 64 MiB
//   - parallelism: 4 threads
func DefaultKDFParams() KDFParams {
	return KDFParams{
		Algorithm: KDFArgon2id,
		Time:      1,
		Memory:    64 * 1024, // 64 MiB
		Threads:   4,
	}
}

// Validate checks that p describes a derivation this package can perform
// within sane resource bounds. Parameters read from untrusted storage must
// pass Validate before they are used. Costs above [MaxKDFTime] or
// [MaxKDFMemory] are rejected.
func (p KDFParams) Validate() error {
	if p.Algorithm != KDFArgon2id {
		return fmt.Errorf("%w: %s", ErrUnsupportedKDF, p.Algorithm)
	}
	if p.Time == 0 || p.Time > MaxKDFTime {
		return fmt.Errorf("%w: time=%d", ErrInvalidKDFParams, p.Time)
	}
	if p.Threads == 0 {
		return fmt.Errorf("%w: threads=0", ErrInvalidKDFParams)
	}
	if p.Memory < 8*uint32(p.Threads) || p.Memory > MaxKDFMemory {
		return fmt.Errorf("%w: memory=%dKiB threads=%d", ErrInvalidKDFParams, p.Memory, p.Threads)
	}
	return nil
}

// argon2idDeriver is the default [KeyDeriver].
type argon2idDeriver struct{}

// NewKeyDeriver returns the Argon2id [KeyDeriver].
func NewKeyDeriver() KeyDeriver {
	return argon2idDeriver{}
}

// DeriveKey implements [KeyDeriver]. params are expected to be validated by
// the caller; the algorithm field is not consulted since Argon2id is the only
// supported function.
func (argon2idDeriver) DeriveKey(password, salt []byte, params KDFParams) []byte {
	return argon2.IDKey(
		password,
		salt,
		params.Time,
		params.Memory,
		params.Threads,
		KeyLen,
	)
}

// GenerateSalt reads [SaltLen] random bytes from the OS CSPRNG. The salt is
// not a secret; it makes equal passwords produce different keys.
func GenerateSalt() ([]byte, error) {
	return randomBytes(SaltLen)
}

// ValidateSalt reports whether salt has an acceptable length.
func ValidateSalt(salt []byte) error {
	if len(salt) < MinSaltLen || len(salt) > MaxSaltLen {
		return fmt.Errorf("salt length %d out of range [%d, %d]", len(salt), MinSaltLen, MaxSaltLen)
	}
	return nil
}

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, err
	}
	return b, nil
}
