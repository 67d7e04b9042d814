package client

import "errors"

var (
	ErrUsage            = errors.New("usage error")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrKeyNotFound      = errors.New("key not found in vault")
	ErrNoTerminal       = errors.New("no terminal to prompt for a password, set " + PasswordEnv)
)

// ExitCode maps the result of [App.Run] to a process exit status:
// 0 on success, 2 for usage errors, 1 otherwise.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrUsage):
		return 2
	default:
		return 1
	}
}
