package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/crypto_mock.go -package=mock -exclude_interfaces=Cipher

// KeyDeriver turns a password and a per-vault salt into a fixed-length
// symmetric key.
//
// Implementations must be deterministic: the same (password, salt, params)
// triple always yields the same key, otherwise a vault sealed today could not
// be reopened tomorrow. They must also be expensive enough to make offline
// password guessing impractical.
type KeyDeriver interface {
	// DeriveKey returns a [KeyLen]-byte key. The caller owns the returned
	// slice and is responsible for wiping it.
	DeriveKey(password, salt []byte, params KDFParams) []byte
}

// Cipher is an authenticated cipher with a detached tag.
//
// Open must fail closed: a single flipped bit in the ciphertext, tag, nonce
// or associated data, or a wrong key, yields [ErrAuthenticationFailed] and
// never a plaintext.
type Cipher interface {
	// Suite reports which cipher suite the implementation provides.
	Suite() Suite

	// NonceSize is the exact nonce length accepted by Seal and Open.
	NonceSize() int

	// Seal encrypts plaintext and authenticates it together with aad.
	// The nonce must never be reused with the same key.
	Seal(key, nonce, plaintext, aad []byte) (ciphertext, tag []byte, err error)

	// Open verifies tag over ciphertext and aad and returns the plaintext.
	Open(key, nonce, ciphertext, tag, aad []byte) ([]byte, error)
}
