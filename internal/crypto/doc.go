// Package crypto contains the cryptographic primitives behind a vault:
// password-based key derivation, authenticated encryption with a detached
// tag, and a locked-memory holder for derived keys.
//
// The package knows nothing about payloads, storage or password prompts.
// It turns bytes into keys and keys into sealed bytes.
package crypto
