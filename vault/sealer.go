// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/MKhiriev/crypto-vault/internal/crypto"
)

// DecryptVault is the capability of turning sealed vaults into open ones and
// typed values into sealed vaults. Resealing an already open vault is done
// with [Vault.Reseal] and needs no password.
type DecryptVault[T any] interface {
	// Decrypt derives the key from password and the salt stored in raw,
	// authenticates and decrypts the ciphertext and decodes the payload.
	Decrypt(raw *RawVault, password []byte) (*Vault[T], error)

	// Encrypt seals value under password. A nil salt means a fresh random
	// salt; passing the salt of an existing vault keeps key continuity.
	Encrypt(value T, password, salt []byte) (*RawVault, error)
}

var _ DecryptVault[any] = (*Sealer[any])(nil)

// Sealer implements [DecryptVault] for payloads of type T.
// It holds no per-vault state and is safe for concurrent use.
type Sealer[T any] struct {
	codec  Codec[T]
	kdf    crypto.KeyDeriver
	params KDFParams
	suite  Suite
}

type settings struct {
	kdf    crypto.KeyDeriver
	params KDFParams
	suite  Suite
}

// Option configures a [Sealer].
type Option func(*settings)

// WithKDFParams sets the key-derivation costs used for new vaults. Existing
// vaults are always opened with the costs recorded in them.
func WithKDFParams(params KDFParams) Option {
	return func(s *settings) {
		s.params = params
	}
}

// WithSuite sets the cipher suite used for new vaults.
func WithSuite(suite Suite) Option {
	return func(s *settings) {
		s.suite = suite
	}
}

// WithKeyDeriver replaces the Argon2id key deriver.
func WithKeyDeriver(kdf KeyDeriver) Option {
	return func(s *settings) {
		s.kdf = kdf
	}
}

// NewSealer returns a [Sealer] that encodes payloads with codec.
// Defaults: Argon2id with [DefaultKDFParams], AES-256-GCM.
func NewSealer[T any](codec Codec[T], opts ...Option) *Sealer[T] {
	s := settings{
		kdf:    crypto.NewKeyDeriver(),
		params: crypto.DefaultKDFParams(),
		suite:  SuiteAES256GCM,
	}
	for _, opt := range opts {
		opt(&s)
	}

	return &Sealer[T]{
		codec:  codec,
		kdf:    s.kdf,
		params: s.params,
		suite:  s.suite,
	}
}

// New derives a key for value and returns an open vault without sealing it.
// A nil salt means a fresh random salt.
func (s *Sealer[T]) New(value T, password, salt []byte) (*Vault[T], error) {
	if len(password) == 0 {
		return nil, ErrNoPasswordSpecified
	}
	if err := s.params.Validate(); err != nil {
		return nil, fmt.Errorf("sealer: %w", err)
	}
	c, err := crypto.NewCipher(s.suite)
	if err != nil {
		return nil, fmt.Errorf("sealer: %w", err)
	}

	if salt == nil {
		if salt, err = crypto.GenerateSalt(); err != nil {
			return nil, fmt.Errorf("generate salt: %w", err)
		}
	} else {
		if err = crypto.ValidateSalt(salt); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSalt, err)
		}
		salt = bytes.Clone(salt)
	}

	key, err := s.deriveKey(password, salt, s.params)
	if err != nil {
		return nil, err
	}

	return &Vault[T]{
		Value:  value,
		key:    crypto.NewSecretKey(key),
		salt:   salt,
		params: s.params,
		cipher: c,
		codec:  s.codec,
	}, nil
}

// Encrypt implements [DecryptVault].
func (s *Sealer[T]) Encrypt(value T, password, salt []byte) (*RawVault, error) {
	v, err := s.New(value, password, salt)
	if err != nil {
		return nil, err
	}
	defer v.Close()

	return v.Reseal()
}

// Decrypt implements [DecryptVault].
//
// Failures, in the order they are checked:
//   - [ErrInvalidRawVault]: raw is structurally invalid;
//   - [ErrNoPasswordSpecified]: password is empty;
//   - [ErrWrongPasswordOrCorrupted]: authentication failed;
//   - [ErrMalformedPayload]: the plaintext does not decode into T.
func (s *Sealer[T]) Decrypt(raw *RawVault, password []byte) (*Vault[T], error) {
	if err := raw.Validate(); err != nil {
		return nil, err
	}
	if len(password) == 0 {
		return nil, ErrNoPasswordSpecified
	}

	c, err := crypto.NewCipher(raw.Suite)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRawVault, err)
	}

	key, err := s.deriveKey(password, raw.Salt, raw.KDF)
	if err != nil {
		return nil, err
	}

	plaintext, err := c.Open(key, raw.Nonce, raw.Ciphertext, raw.Tag, raw.header())
	if err != nil {
		crypto.Wipe(key)
		if errors.Is(err, crypto.ErrAuthenticationFailed) {
			return nil, ErrWrongPasswordOrCorrupted
		}
		return nil, fmt.Errorf("open: %w", err)
	}
	defer crypto.Wipe(plaintext)

	value, err := s.codec.Decode(plaintext)
	if err != nil {
		crypto.Wipe(key)
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}

	return &Vault[T]{
		Value:  value,
		key:    crypto.NewSecretKey(key),
		salt:   bytes.Clone(raw.Salt),
		params: raw.KDF,
		cipher: c,
		codec:  s.codec,
	}, nil
}

func (s *Sealer[T]) deriveKey(password, salt []byte, params KDFParams) ([]byte, error) {
	key := s.kdf.DeriveKey(password, salt, params)
	if len(key) != crypto.KeyLen {
		crypto.Wipe(key)
		return nil, fmt.Errorf("derive key: %w: %d", crypto.ErrInvalidKeyLength, len(key))
	}
	return key, nil
}

// Encrypt seals value under password using [JSONCodec].
func Encrypt[T any](value T, password, salt []byte, opts ...Option) (*RawVault, error) {
	return NewSealer[T](JSONCodec[T]{}, opts...).Encrypt(value, password, salt)
}

// Decrypt opens raw with password and decodes the payload using [JSONCodec].
func Decrypt[T any](raw *RawVault, password []byte, opts ...Option) (*Vault[T], error) {
	return NewSealer[T](JSONCodec[T]{}, opts...).Decrypt(raw, password)
}
