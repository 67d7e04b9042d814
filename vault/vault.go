// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/MKhiriev/crypto-vault/internal/crypto"
)

// Vault is the open, in-memory form of a vault: the decoded Value plus the
// key and salt it was sealed with.
//
// A Vault only exists after successful decryption, authentication and
// decoding (or after [Sealer.New]). The key lives in locked memory until
// [Vault.Close] destroys it; callers should always defer Close. A Vault
// built any other way, including the zero value, holds no key and behaves
// as closed.
//
// Reseal and Close may be called concurrently. Value belongs to the caller,
// who must synchronize mutations of it.
type Vault[T any] struct {
	// Value is the decrypted payload. It may be modified freely before the
	// next Reseal.
	Value T

	key    *crypto.SecretKey
	salt   []byte
	params KDFParams
	cipher crypto.Cipher
	codec  Codec[T]
}

// Reseal encodes Value and seals it with the key and salt held by the vault
// under a fresh random nonce. It never derives a key and never needs the
// password.
//
// Reseal fails only when Value cannot be encoded ([ErrEncodingFailed]) or
// the vault has been closed ([ErrVaultClosed]).
func (v *Vault[T]) Reseal() (*RawVault, error) {
	if v.Closed() || v.cipher == nil || v.codec == nil {
		return nil, ErrVaultClosed
	}

	plaintext, err := v.codec.Encode(v.Value)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodingFailed, err)
	}
	defer crypto.Wipe(plaintext)

	return v.seal(plaintext)
}

func (v *Vault[T]) seal(plaintext []byte) (*RawVault, error) {
	nonce, err := crypto.GenerateNonce(v.cipher.Suite())
	if err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	raw := &RawVault{
		Suite: v.cipher.Suite(),
		KDF:   v.params,
		Salt:  bytes.Clone(v.salt),
		Nonce: nonce,
	}
	aad := raw.header()

	var sealErr error
	used := v.key.Use(func(key []byte) {
		raw.Ciphertext, raw.Tag, sealErr = v.cipher.Seal(key, nonce, plaintext, aad)
	})
	if !used {
		return nil, ErrVaultClosed
	}
	if sealErr != nil {
		return nil, fmt.Errorf("seal: %w", sealErr)
	}

	return raw, nil
}

// Close destroys the key. It is idempotent. Value is left untouched; wiping
// it, if needed, is up to the payload type.
func (v *Vault[T]) Close() error {
	if v == nil {
		return nil
	}
	v.key.Destroy()
	return nil
}

// Closed reports whether Close has been called.
func (v *Vault[T]) Closed() bool {
	return v == nil || !v.key.Alive()
}

// Salt returns a copy of the salt the key was derived with.
func (v *Vault[T]) Salt() []byte {
	return bytes.Clone(v.salt)
}

// KDFParams returns the key-derivation costs the key was derived with.
func (v *Vault[T]) KDFParams() KDFParams {
	return v.params
}

// Suite returns the cipher suite used by Reseal, or zero for a vault that
// was not produced by a [Sealer].
func (v *Vault[T]) Suite() Suite {
	if v.cipher == nil {
		return 0
	}
	return v.cipher.Suite()
}

// String renders the vault for diagnostics. Key material is never printed.
func (v *Vault[T]) String() string {
	if v == nil {
		return "Vault{<nil>}"
	}
	state := "open"
	if v.Closed() {
		state = "closed"
	}
	value := "<none>"
	if v.codec != nil {
		value = v.codec.Describe(v.Value)
	}
	return fmt.Sprintf("Vault{state: %s, suite: %s, salt: %s, key: [REDACTED], value: %s}",
		state, v.Suite(), hex.EncodeToString(v.salt), value)
}
