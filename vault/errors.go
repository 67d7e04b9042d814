// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import "errors"

// Failure taxonomy of vault operations. Use [errors.Is] to branch on them;
// the detail wrapped behind ErrMalformedPayload, ErrEncodingFailed and
// ErrInvalidRawVault is for diagnostics only.
var (
	// ErrWrongPasswordOrCorrupted is returned when authenticated decryption
	// fails. A wrong password and tampered data are indistinguishable on
	// purpose, and no underlying cause is wrapped.
	ErrWrongPasswordOrCorrupted = errors.New("vault: wrong password or corrupted data")

	// ErrMalformedPayload is returned when decryption succeeded but the
	// plaintext does not decode into the requested payload type, e.g. the
	// vault was written for a different type.
	ErrMalformedPayload = errors.New("vault: malformed payload")

	// ErrEncodingFailed is returned when the payload cannot be encoded while
	// sealing.
	ErrEncodingFailed = errors.New("vault: payload encoding failed")

	// ErrInvalidRawVault is returned when a sealed vault fails structural
	// validation before any decryption is attempted.
	ErrInvalidRawVault = errors.New("vault: invalid raw vault")

	// ErrNoPasswordSpecified is returned for an empty password.
	ErrNoPasswordSpecified = errors.New("vault: no password specified")

	// ErrVaultClosed is returned by [Vault.Reseal] after [Vault.Close].
	ErrVaultClosed = errors.New("vault: closed")
)

// ErrInvalidSalt reports a caller-supplied salt of unacceptable length. It is
// a contract violation by the caller rather than a runtime vault failure.
var ErrInvalidSalt = errors.New("vault: invalid salt")
