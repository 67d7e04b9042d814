// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the command-line client of the vault store.
//
// An [App] parses a command and its arguments, prompts for the password when
// the command needs one, and drives the vault service. Payloads are read
// from and written to the configured streams as JSON so the commands compose
// with pipes.
package client
