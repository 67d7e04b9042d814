// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

// TagLen is the authentication tag length of every supported suite.
const TagLen = 16

// Suite identifies an AEAD construction. The numeric values are part of the
// on-disk format and must never be reassigned.
type Suite uint8

const (
	// SuiteAES256GCM is AES-256 in Galois/Counter Mode with a 96-bit random
	// nonce.
	SuiteAES256GCM Suite = 1

	// SuiteXChaCha20Poly1305 is XChaCha20-Poly1305 with a 192-bit random
	// nonce.
	SuiteXChaCha20Poly1305 Suite = 2
)

// String implements [fmt.Stringer]. The returned names are accepted by
// [ParseSuite].
func (s Suite) String() string {
	switch s {
	case SuiteAES256GCM:
		return "aes-256-gcm"
	case SuiteXChaCha20Poly1305:
		return "xchacha20-poly1305"
	default:
		return fmt.Sprintf("suite(%d)", uint8(s))
	}
}

// NonceSize returns the nonce length of s, or 0 for an unknown suite.
func (s Suite) NonceSize() int {
	switch s {
	case SuiteAES256GCM:
		return 12
	case SuiteXChaCha20Poly1305:
		return chacha20poly1305.NonceSizeX
	default:
		return 0
	}
}

// ParseSuite maps a configuration name to a [Suite].
func ParseSuite(name string) (Suite, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "aes-256-gcm", "aes256gcm", "aes-gcm":
		return SuiteAES256GCM, nil
	case "xchacha20-poly1305", "xchacha20poly1305", "xchacha":
		return SuiteXChaCha20Poly1305, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedSuite, name)
	}
}

// NewCipher returns the [Cipher] for suite.
func NewCipher(suite Suite) (Cipher, error) {
	switch suite {
	case SuiteAES256GCM:
		return aesGCMCipher{}, nil
	case SuiteXChaCha20Poly1305:
		return xchachaCipher{}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedSuite, uint8(suite))
	}
}

// GenerateNonce draws a fresh random nonce for suite. Random nonces are safe
// for both suites at the number of seals a single vault key ever sees.
func GenerateNonce(suite Suite) ([]byte, error) {
	size := suite.NonceSize()
	if size == 0 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedSuite, uint8(suite))
	}
	return randomBytes(size)
}

type aesGCMCipher struct{}

func (aesGCMCipher) Suite() Suite   { return SuiteAES256GCM }
func (aesGCMCipher) NonceSize() int { return SuiteAES256GCM.NonceSize() }

func (c aesGCMCipher) Seal(key, nonce, plaintext, aad []byte) ([]byte, []byte, error) {
	aead, err := c.aead(key)
	if err != nil {
		return nil, nil, err
	}
	return seal(aead, nonce, plaintext, aad)
}

func (c aesGCMCipher) Open(key, nonce, ciphertext, tag, aad []byte) ([]byte, error) {
	aead, err := c.aead(key)
	if err != nil {
		return nil, err
	}
	return open(aead, nonce, ciphertext, tag, aad)
}

func (aesGCMCipher) aead(key []byte) (cipher.AEAD, error) {
	if len(key) != KeyLen {
		return nil, fmt.Errorf("%w: %d", ErrInvalidKeyLength, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return gcm, nil
}

type xchachaCipher struct{}

func (xchachaCipher) Suite() Suite   { return SuiteXChaCha20Poly1305 }
func (xchachaCipher) NonceSize() int { return chacha20poly1305.NonceSizeX }

func (c xchachaCipher) Seal(key, nonce, plaintext, aad []byte) ([]byte, []byte, error) {
	aead, err := c.aead(key)
	if err != nil {
		return nil, nil, err
	}
	return seal(aead, nonce, plaintext, aad)
}

func (c xchachaCipher) Open(key, nonce, ciphertext, tag, aad []byte) ([]byte, error) {
	aead, err := c.aead(key)
	if err != nil {
		return nil, err
	}
	return open(aead, nonce, ciphertext, tag, aad)
}

func (xchachaCipher) aead(key []byte) (cipher.AEAD, error) {
	if len(key) != KeyLen {
		return nil, fmt.Errorf("%w: %d", ErrInvalidKeyLength, len(key))
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("create xchacha20-poly1305: %w", err)
	}
	return aead, nil
}

// seal runs aead.Seal and splits the trailing tag off the output.
func seal(aead cipher.AEAD, nonce, plaintext, aad []byte) ([]byte, []byte, error) {
	if len(nonce) != aead.NonceSize() {
		return nil, nil, fmt.Errorf("%w: %d", ErrInvalidNonceLength, len(nonce))
	}

	sealed := aead.Seal(nil, nonce, plaintext, aad)
	split := len(sealed) - aead.Overhead()

	// Copy the tag out so the two returned slices never alias.
	tag := make([]byte, aead.Overhead())
	copy(tag, sealed[split:])
	return sealed[:split:split], tag, nil
}

// open rejoins ciphertext and tag and verifies them. Any failure of the
// underlying Open is reported as ErrAuthenticationFailed without detail.
func open(aead cipher.AEAD, nonce, ciphertext, tag, aad []byte) ([]byte, error) {
	if len(nonce) != aead.NonceSize() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidNonceLength, len(nonce))
	}
	if len(tag) != aead.Overhead() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTagLength, len(tag))
	}

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := aead.Open(nil, nonce, sealed, aad)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}
	return plaintext, nil
}
