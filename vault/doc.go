// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package vault keeps a single typed value under a password.
//
// A [RawVault] is the sealed, at-rest form: salt, nonce, ciphertext and
// authentication tag plus the cipher suite and key-derivation costs needed to
// reopen it. A [Vault] is the open, in-memory form: the decoded value together
// with the derived key, so it can be sealed again without asking for the
// password.
//
//	raw, err := vault.Encrypt(profile, password, nil)
//	...
//	v, err := vault.Decrypt[Profile](raw, password)
//	if errors.Is(err, vault.ErrWrongPasswordOrCorrupted) {
//		// ask again
//	}
//	defer v.Close()
//	v.Value.Name = "b"
//	raw, err = v.Reseal()
//
// The package performs no I/O and no logging. Every failure is returned as
// one of the sentinel errors declared in errors.go and can be matched with
// [errors.Is].
package vault
