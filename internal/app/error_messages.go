// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer messages used by the
// command-line client.
//
// All Msg* constants are human-readable strings printed to the user when a
// command fails. Keeping them in one place ensures consistent wording, and
// [UserMessage] picks the right one for an error.
package app

import (
	"errors"

	"github.com/MKhiriev/crypto-vault/internal/config"
	"github.com/MKhiriev/crypto-vault/internal/service"
	"github.com/MKhiriev/crypto-vault/internal/store"
	"github.com/MKhiriev/crypto-vault/vault"
)

const (
	// MsgWrongPasswordOrCorrupted is printed when a vault fails
	// authentication. The two causes are indistinguishable on purpose.
	MsgWrongPasswordOrCorrupted = "wrong password or corrupted vault"

	// MsgMalformedPayload is printed when a vault opens but its content is
	// not the expected JSON object.
	MsgMalformedPayload = "vault content has an unexpected format"

	// MsgInvalidRawVault is printed when stored or imported bytes are not a
	// vault at all.
	MsgInvalidRawVault = "not a valid vault"

	MsgNoPasswordSpecified = "no password specified"

	// MsgVaultNotFound is printed when no vault is stored under the name.
	MsgVaultNotFound = "vault not found"

	// MsgVaultExists is printed by init and import when the name is taken.
	MsgVaultExists = "vault already exists"

	// MsgVersionConflict is printed when the vault was saved by another
	// process since it was opened. Running the command again is safe.
	MsgVersionConflict = "vault was changed by someone else, please retry"

	MsgInvalidName = "invalid vault name: use up to 128 letters, digits, '.', '_' or '-', not starting with '.'"

	// MsgNoVaults is printed by verify when nothing is stored.
	MsgNoVaults = "no vaults stored"

	// MsgInvalidConfig is printed when flags, environment or the config
	// file hold invalid settings.
	MsgInvalidConfig = "invalid configuration"
)

var messages = []struct {
	err error
	msg string
}{
	{vault.ErrWrongPasswordOrCorrupted, MsgWrongPasswordOrCorrupted},
	{vault.ErrMalformedPayload, MsgMalformedPayload},
	{vault.ErrInvalidRawVault, MsgInvalidRawVault},
	{vault.ErrNoPasswordSpecified, MsgNoPasswordSpecified},
	{store.ErrRawVaultNotFound, MsgVaultNotFound},
	{store.ErrRawVaultExists, MsgVaultExists},
	{store.ErrVersionConflict, MsgVersionConflict},
	{store.ErrInvalidName, MsgInvalidName},
	{service.ErrNoVaultsToVerify, MsgNoVaults},
}

// UserMessage returns the text to show for err. Errors without a dedicated
// message are shown as is; configuration errors keep their detail.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	for _, m := range messages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}

	for _, cfgErr := range []error{
		config.ErrInvalidVaultConfigs,
		config.ErrInvalidStorageConfigs,
		config.ErrInvalidWorkerConfigs,
		config.ErrInvalidLogConfigs,
	} {
		if errors.Is(err, cfgErr) {
			return MsgInvalidConfig + ": " + err.Error()
		}
	}

	return err.Error()
}
