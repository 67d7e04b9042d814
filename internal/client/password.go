package client

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// PasswordEnv names the environment variable consulted before prompting.
const PasswordEnv = "CRYPTO_VAULT_PASSWORD"

type termPasswordReader struct {
	fd  int
	out io.Writer
}

// NewTermPasswordReader prompts on out and reads without echo from the
// terminal behind in.
func NewTermPasswordReader(in *os.File, out io.Writer) PasswordReader {
	return &termPasswordReader{fd: int(in.Fd()), out: out}
}

func (r *termPasswordReader) ReadPassword(prompt string) ([]byte, error) {
	if !term.IsTerminal(r.fd) {
		return nil, ErrNoTerminal
	}

	fmt.Fprint(r.out, prompt)
	password, err := term.ReadPassword(r.fd)
	fmt.Fprintln(r.out)
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}
	return password, nil
}

type envPasswordReader struct {
	lookup func(key string) (string, bool)
	next   PasswordReader
}

// NewEnvPasswordReader returns the value of [PasswordEnv] when it is set
// and falls back to next otherwise.
func NewEnvPasswordReader(lookup func(key string) (string, bool), next PasswordReader) PasswordReader {
	return &envPasswordReader{lookup: lookup, next: next}
}

func (r *envPasswordReader) ReadPassword(prompt string) ([]byte, error) {
	if password, ok := r.lookup(PasswordEnv); ok {
		return []byte(password), nil
	}
	return r.next.ReadPassword(prompt)
}
