package crypto

import "errors"

var (
	// ErrAuthenticationFailed is returned by [Cipher.Open] when the tag does
	// not verify. Wrong key and tampered input are deliberately the same error.
	ErrAuthenticationFailed = errors.New("crypto: message authentication failed")

	// ErrUnsupportedSuite is returned for an unknown [Suite] id.
	ErrUnsupportedSuite = errors.New("crypto: unsupported cipher suite")

	// ErrUnsupportedKDF is returned for an unknown [KDFAlgorithm] id.
	ErrUnsupportedKDF = errors.New("crypto: unsupported key derivation function")

	// ErrInvalidKDFParams is returned by [KDFParams.Validate] when a cost
	// parameter is out of the accepted range.
	ErrInvalidKDFParams = errors.New("crypto: invalid key derivation parameters")

	ErrInvalidKeyLength   = errors.New("crypto: invalid key length")
	ErrInvalidNonceLength = errors.New("crypto: invalid nonce length")
	ErrInvalidTagLength   = errors.New("crypto: invalid tag length")
)
