// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allSuites = []Suite{SuiteAES256GCM, SuiteXChaCha20Poly1305}

func testKey() []byte {
	return bytes.Repeat([]byte{0x2A}, KeyLen)
}

func TestCipher_SealOpen_RoundTrip(t *testing.T) {
	for _, suite := range allSuites {
		t.Run(suite.String(), func(t *testing.T) {
			c, err := NewCipher(suite)
			require.NoError(t, err)
			assert.Equal(t, suite, c.Suite())

			nonce, err := GenerateNonce(suite)
			require.NoError(t, err)
			require.Len(t, nonce, c.NonceSize())

			plaintext := []byte(`{"name":"a"}`)
			aad := []byte("header")

			ct, tag, err := c.Seal(testKey(), nonce, plaintext, aad)
			require.NoError(t, err)
			assert.Len(t, ct, len(plaintext))
			assert.Len(t, tag, TagLen)
			assert.NotEqual(t, plaintext, ct)

			got, err := c.Open(testKey(), nonce, ct, tag, aad)
			require.NoError(t, err)
			assert.Equal(t, plaintext, got)
		})
	}
}

func TestCipher_Open_EmptyPlaintext(t *testing.T) {
	for _, suite := range allSuites {
		t.Run(suite.String(), func(t *testing.T) {
			c, err := NewCipher(suite)
			require.NoError(t, err)
			nonce, err := GenerateNonce(suite)
			require.NoError(t, err)

			ct, tag, err := c.Seal(testKey(), nonce, nil, nil)
			require.NoError(t, err)
			assert.Empty(t, ct)

			got, err := c.Open(testKey(), nonce, ct, tag, nil)
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

// TestCipher_Open_FailsClosedOnEveryBitFlip flips every single bit of the
// ciphertext, tag, nonce and associated data in turn.
func TestCipher_Open_FailsClosedOnEveryBitFlip(t *testing.T) {
	for _, suite := range allSuites {
		t.Run(suite.String(), func(t *testing.T) {
			c, err := NewCipher(suite)
			require.NoError(t, err)
			nonce, err := GenerateNonce(suite)
			require.NoError(t, err)
			aad := []byte("aad")

			ct, tag, err := c.Seal(testKey(), nonce, []byte("secret payload"), aad)
			require.NoError(t, err)

			parts := map[string][]byte{"ciphertext": ct, "tag": tag, "nonce": nonce, "aad": aad}
			for name, part := range parts {
				for i := 0; i < len(part)*8; i++ {
					part[i/8] ^= 1 << (i % 8)
					_, err := c.Open(testKey(), nonce, ct, tag, aad)
					part[i/8] ^= 1 << (i % 8)

					require.ErrorIs(t, err, ErrAuthenticationFailed, "%s bit %d", name, i)
				}
			}

			// Sanity: untouched input still opens.
			_, err = c.Open(testKey(), nonce, ct, tag, aad)
			require.NoError(t, err)
		})
	}
}

func TestCipher_Open_WrongKey(t *testing.T) {
	for _, suite := range allSuites {
		t.Run(suite.String(), func(t *testing.T) {
			c, err := NewCipher(suite)
			require.NoError(t, err)
			nonce, err := GenerateNonce(suite)
			require.NoError(t, err)

			ct, tag, err := c.Seal(testKey(), nonce, []byte("data"), nil)
			require.NoError(t, err)

			wrong := bytes.Repeat([]byte{0x2B}, KeyLen)
			_, err = c.Open(wrong, nonce, ct, tag, nil)
			assert.ErrorIs(t, err, ErrAuthenticationFailed)
		})
	}
}

func TestCipher_Seal_DoesNotAliasTag(t *testing.T) {
	c, err := NewCipher(SuiteAES256GCM)
	require.NoError(t, err)
	nonce, err := GenerateNonce(SuiteAES256GCM)
	require.NoError(t, err)

	ct, tag, err := c.Seal(testKey(), nonce, []byte("abc"), nil)
	require.NoError(t, err)

	tagCopy := append([]byte(nil), tag...)
	ct = append(ct, 0xFF) // would overwrite the tag if the slices shared memory
	assert.Equal(t, tagCopy, tag)
}

func TestCipher_InvalidLengths(t *testing.T) {
	for _, suite := range allSuites {
		t.Run(suite.String(), func(t *testing.T) {
			c, err := NewCipher(suite)
			require.NoError(t, err)
			nonce, err := GenerateNonce(suite)
			require.NoError(t, err)

			_, _, err = c.Seal(make([]byte, 16), nonce, []byte("x"), nil)
			assert.ErrorIs(t, err, ErrInvalidKeyLength)

			_, _, err = c.Seal(testKey(), nonce[:len(nonce)-1], []byte("x"), nil)
			assert.ErrorIs(t, err, ErrInvalidNonceLength)

			ct, tag, err := c.Seal(testKey(), nonce, []byte("x"), nil)
			require.NoError(t, err)

			_, err = c.Open(testKey(), nonce, ct, tag[:TagLen-1], nil)
			assert.ErrorIs(t, err, ErrInvalidTagLength)

			_, err = c.Open(testKey(), append(nonce, 0), ct, tag, nil)
			assert.ErrorIs(t, err, ErrInvalidNonceLength)
		})
	}
}

func TestGenerateNonce_Unique(t *testing.T) {
	for _, suite := range allSuites {
		n1, err := GenerateNonce(suite)
		require.NoError(t, err)
		n2, err := GenerateNonce(suite)
		require.NoError(t, err)
		assert.NotEqual(t, n1, n2, suite.String())
	}
}

func TestNewCipher_UnknownSuite(t *testing.T) {
	_, err := NewCipher(Suite(42))
	assert.ErrorIs(t, err, ErrUnsupportedSuite)

	_, err = GenerateNonce(Suite(42))
	assert.ErrorIs(t, err, ErrUnsupportedSuite)
}

func TestParseSuite(t *testing.T) {
	tests := []struct {
		in      string
		want    Suite
		wantErr bool
	}{
		{in: "aes-256-gcm", want: SuiteAES256GCM},
		{in: " AES-GCM ", want: SuiteAES256GCM},
		{in: "xchacha20-poly1305", want: SuiteXChaCha20Poly1305},
		{in: "xchacha", want: SuiteXChaCha20Poly1305},
		{in: "rot13", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSuite(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedSuite)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, mustParse(t, got.String()))
		})
	}
}

func mustParse(t *testing.T, name string) Suite {
	t.Helper()
	s, err := ParseSuite(name)
	require.NoError(t, err)
	return s
}
