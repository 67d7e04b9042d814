// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import "context"

// Client defines the minimal lifecycle contract for runnable client
// applications.
type Client interface {
	// Run executes the command in args and returns when it is done.
	Run(ctx context.Context, args []string) error
}

// PasswordReader obtains a password for the prompt. Implementations must
// not echo the password.
type PasswordReader interface {
	ReadPassword(prompt string) ([]byte, error)
}

// Clipboard receives values copied by the copy command.
type Clipboard interface {
	WriteAll(text string) error
}
