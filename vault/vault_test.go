// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import (
	"bytes"
	"testing"

	"github.com/MKhiriev/crypto-vault/internal/crypto"
	"github.com/MKhiriev/crypto-vault/internal/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"google.golang.org/protobuf/types/known/structpb"
)

// testParams keeps Argon2id cheap; production costs are exercised in the
// crypto package.
var testParams = KDFParams{Algorithm: crypto.KDFArgon2id, Time: 1, Memory: 64, Threads: 1}

type profile struct {
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Tags  []string `json:"tags,omitempty"`
}

type invoice struct {
	Number int     `json:"number"`
	Amount float64 `json:"amount"`
}

func newTestSealer[T any](opts ...Option) *Sealer[T] {
	return NewSealer[T](JSONCodec[T]{}, append([]Option{WithKDFParams(testParams)}, opts...)...)
}

func TestVault_RoundTrip_AllSuites(t *testing.T) {
	for _, suite := range []Suite{SuiteAES256GCM, SuiteXChaCha20Poly1305} {
		t.Run(suite.String(), func(t *testing.T) {
			s := newTestSealer[profile](WithSuite(suite))
			value := profile{Name: "a", Email: "a@example.com", Tags: []string{"x", "y"}}

			raw, err := s.Encrypt(value, []byte("correct-horse"), nil)
			require.NoError(t, err)
			assert.Equal(t, suite, raw.Suite)
			assert.Equal(t, testParams, raw.KDF)
			assert.Len(t, raw.Salt, crypto.SaltLen)
			assert.Len(t, raw.Nonce, suite.NonceSize())
			assert.Len(t, raw.Tag, crypto.TagLen)
			assert.NotContains(t, string(raw.Ciphertext), "a@example.com")

			v, err := s.Decrypt(raw, []byte("correct-horse"))
			require.NoError(t, err)
			defer v.Close()

			assert.Equal(t, value, v.Value)
			assert.Equal(t, raw.Salt, v.Salt())
			assert.Equal(t, suite, v.Suite())
			assert.Equal(t, testParams, v.KDFParams())
		})
	}
}

// TestVault_Scenario walks the example from the package documentation:
// correct password opens, wrong password and a corrupted byte do not.
func TestVault_Scenario(t *testing.T) {
	value := map[string]string{"name": "a"}

	raw1, err := Encrypt(value, []byte("correct-horse"), nil, WithKDFParams(testParams))
	require.NoError(t, err)

	v, err := Decrypt[map[string]string](raw1, []byte("correct-horse"))
	require.NoError(t, err)
	assert.Equal(t, value, v.Value)
	require.NoError(t, v.Close())

	_, err = Decrypt[map[string]string](raw1, []byte("wrong-password"))
	assert.ErrorIs(t, err, ErrWrongPasswordOrCorrupted)

	raw1.Ciphertext[0] ^= 0xFF
	_, err = Decrypt[map[string]string](raw1, []byte("correct-horse"))
	assert.ErrorIs(t, err, ErrWrongPasswordOrCorrupted)
}

func TestVault_WrongPassword(t *testing.T) {
	s := newTestSealer[profile]()

	raw, err := s.Encrypt(profile{Name: "a"}, []byte("p1"), nil)
	require.NoError(t, err)

	v, err := s.Decrypt(raw, []byte("p2"))
	assert.ErrorIs(t, err, ErrWrongPasswordOrCorrupted)
	assert.Nil(t, v)
	assert.Equal(t, ErrWrongPasswordOrCorrupted, err, "no cause may be wrapped")
}

func TestVault_TamperDetection_EveryBit(t *testing.T) {
	s := newTestSealer[profile]()
	password := []byte("pw")

	raw, err := s.Encrypt(profile{Name: "tamper"}, password, nil)
	require.NoError(t, err)

	for name, part := range map[string][]byte{"ciphertext": raw.Ciphertext, "tag": raw.Tag} {
		for i := 0; i < len(part)*8; i++ {
			part[i/8] ^= 1 << (i % 8)
			v, err := s.Decrypt(raw, password)
			part[i/8] ^= 1 << (i % 8)

			require.ErrorIs(t, err, ErrWrongPasswordOrCorrupted, "%s bit %d", name, i)
			require.Nil(t, v)
		}
	}

	v, err := s.Decrypt(raw, password)
	require.NoError(t, err)
	v.Close()
}

// TestVault_TamperDetection_Header flips bytes of the salt and nonce, which
// are authenticated as associated data.
func TestVault_TamperDetection_Header(t *testing.T) {
	s := newTestSealer[profile]()
	password := []byte("pw")

	raw, err := s.Encrypt(profile{Name: "header"}, password, nil)
	require.NoError(t, err)

	for i := range raw.Salt {
		tampered := raw.Clone()
		tampered.Salt[i] ^= 0x01
		_, err := s.Decrypt(tampered, password)
		require.ErrorIs(t, err, ErrWrongPasswordOrCorrupted, "salt byte %d", i)
	}
	for i := range raw.Nonce {
		tampered := raw.Clone()
		tampered.Nonce[i] ^= 0x01
		_, err := s.Decrypt(tampered, password)
		require.ErrorIs(t, err, ErrWrongPasswordOrCorrupted, "nonce byte %d", i)
	}

	tampered := raw.Clone()
	tampered.KDF.Time = 2
	_, err = s.Decrypt(tampered, password)
	assert.ErrorIs(t, err, ErrWrongPasswordOrCorrupted)
}

func TestVault_NonceUniqueness_SameSalt(t *testing.T) {
	s := newTestSealer[profile]()
	value := profile{Name: "same"}
	password := []byte("pw")
	salt := bytes.Repeat([]byte{0x42}, crypto.SaltLen)

	raw1, err := s.Encrypt(value, password, salt)
	require.NoError(t, err)
	raw2, err := s.Encrypt(value, password, salt)
	require.NoError(t, err)

	assert.Equal(t, salt, raw1.Salt)
	assert.Equal(t, raw1.Salt, raw2.Salt)
	assert.NotEqual(t, raw1.Nonce, raw2.Nonce)
	assert.NotEqual(t, raw1.Ciphertext, raw2.Ciphertext)
	assert.NotEqual(t, raw1.Tag, raw2.Tag)

	for _, raw := range []*RawVault{raw1, raw2} {
		v, err := s.Decrypt(raw, password)
		require.NoError(t, err)
		assert.Equal(t, value, v.Value)
		v.Close()
	}
}

func TestVault_Encrypt_DoesNotRetainCallerSalt(t *testing.T) {
	s := newTestSealer[profile]()
	salt := bytes.Repeat([]byte{0x42}, crypto.SaltLen)

	v, err := s.New(profile{}, []byte("pw"), salt)
	require.NoError(t, err)
	defer v.Close()

	salt[0] = 0x00
	assert.Equal(t, byte(0x42), v.Salt()[0])
}

func TestVault_Reseal_RoundTripsWithoutPassword(t *testing.T) {
	s := newTestSealer[profile]()
	password := []byte("pw")

	raw, err := s.Encrypt(profile{Name: "before"}, password, nil)
	require.NoError(t, err)

	v, err := s.Decrypt(raw, password)
	require.NoError(t, err)
	defer v.Close()

	v.Value.Name = "after"
	resealed, err := v.Reseal()
	require.NoError(t, err)

	assert.Equal(t, raw.Salt, resealed.Salt)
	assert.NotEqual(t, raw.Nonce, resealed.Nonce)

	reopened, err := s.Decrypt(resealed, password)
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, "after", reopened.Value.Name)
}

// TestVault_Reseal_NeverDerives verifies with a mocked deriver that the key
// is derived once on Decrypt and never again on Reseal.
func TestVault_Reseal_NeverDerives(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	argon := crypto.NewKeyDeriver()
	password := []byte("pw")

	raw, err := newTestSealer[profile]().Encrypt(profile{Name: "x"}, password, nil)
	require.NoError(t, err)

	kdf := mock.NewMockKeyDeriver(ctrl)
	kdf.EXPECT().
		DeriveKey(password, raw.Salt, testParams).
		DoAndReturn(argon.DeriveKey).
		Times(1)

	s := newTestSealer[profile](WithKeyDeriver(kdf))
	v, err := s.Decrypt(raw, password)
	require.NoError(t, err)
	defer v.Close()

	for i := 0; i < 3; i++ {
		_, err := v.Reseal()
		require.NoError(t, err)
	}
}

func TestVault_Decrypt_ExcessiveKDFCostsNeverDerive(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	raw, err := newTestSealer[profile]().Encrypt(profile{Name: "x"}, []byte("pw"), nil)
	require.NoError(t, err)
	raw.KDF = KDFParams{Algorithm: crypto.KDFArgon2id, Time: 64, Memory: 4 << 20, Threads: 1}

	kdf := mock.NewMockKeyDeriver(ctrl)
	kdf.EXPECT().DeriveKey(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err = newTestSealer[profile](WithKeyDeriver(kdf)).Decrypt(raw, []byte("pw"))
	assert.ErrorIs(t, err, ErrInvalidRawVault)
}

func TestVault_Decrypt_ShortKeyFromDeriver(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	raw, err := newTestSealer[profile]().Encrypt(profile{}, []byte("pw"), nil)
	require.NoError(t, err)

	kdf := mock.NewMockKeyDeriver(ctrl)
	kdf.EXPECT().DeriveKey(gomock.Any(), gomock.Any(), gomock.Any()).Return(make([]byte, 8))

	_, err = newTestSealer[profile](WithKeyDeriver(kdf)).Decrypt(raw, []byte("pw"))
	assert.ErrorIs(t, err, crypto.ErrInvalidKeyLength)
}

func TestVault_MalformedPayload_DifferentType(t *testing.T) {
	password := []byte("pw")

	raw, err := newTestSealer[profile]().Encrypt(profile{Name: "a"}, password, nil)
	require.NoError(t, err)

	v, err := newTestSealer[invoice]().Decrypt(raw, password)
	assert.ErrorIs(t, err, ErrMalformedPayload)
	assert.NotErrorIs(t, err, ErrWrongPasswordOrCorrupted)
	assert.Nil(t, v)

	_, err = newTestSealer[int]().Decrypt(raw, password)
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestVault_EncodingFailed(t *testing.T) {
	s := newTestSealer[map[string]any]()

	_, err := s.Encrypt(map[string]any{"ch": make(chan int)}, []byte("pw"), nil)
	assert.ErrorIs(t, err, ErrEncodingFailed)

	v, err := s.New(map[string]any{"ok": 1}, []byte("pw"), nil)
	require.NoError(t, err)
	defer v.Close()

	v.Value["ch"] = make(chan int)
	_, err = v.Reseal()
	assert.ErrorIs(t, err, ErrEncodingFailed)
}

func TestVault_NoPasswordSpecified(t *testing.T) {
	s := newTestSealer[profile]()

	_, err := s.Encrypt(profile{}, nil, nil)
	assert.ErrorIs(t, err, ErrNoPasswordSpecified)

	_, err = s.New(profile{}, []byte{}, nil)
	assert.ErrorIs(t, err, ErrNoPasswordSpecified)

	raw, err := s.Encrypt(profile{}, []byte("pw"), nil)
	require.NoError(t, err)

	_, err = s.Decrypt(raw, nil)
	assert.ErrorIs(t, err, ErrNoPasswordSpecified)
}

func TestVault_InvalidSalt(t *testing.T) {
	s := newTestSealer[profile]()

	_, err := s.Encrypt(profile{}, []byte("pw"), []byte("short"))
	assert.ErrorIs(t, err, ErrInvalidSalt)

	_, err = s.Encrypt(profile{}, []byte("pw"), make([]byte, crypto.MaxSaltLen+1))
	assert.ErrorIs(t, err, ErrInvalidSalt)
}

func TestVault_Decrypt_InvalidRawVault(t *testing.T) {
	s := newTestSealer[profile]()

	_, err := s.Decrypt(nil, []byte("pw"))
	assert.ErrorIs(t, err, ErrInvalidRawVault)

	raw, err := s.Encrypt(profile{}, []byte("pw"), nil)
	require.NoError(t, err)

	bad := raw.Clone()
	bad.Tag = bad.Tag[:4]
	_, err = s.Decrypt(bad, []byte("pw"))
	assert.ErrorIs(t, err, ErrInvalidRawVault)

	bad = raw.Clone()
	bad.Suite = 99
	_, err = s.Decrypt(bad, []byte("pw"))
	assert.ErrorIs(t, err, ErrInvalidRawVault)
}

func TestVault_InvalidSealerConfig(t *testing.T) {
	_, err := newTestSealer[profile](WithSuite(99)).Encrypt(profile{}, []byte("pw"), nil)
	assert.ErrorIs(t, err, crypto.ErrUnsupportedSuite)

	_, err = NewSealer[profile](JSONCodec[profile]{}, WithKDFParams(KDFParams{})).Encrypt(profile{}, []byte("pw"), nil)
	assert.ErrorIs(t, err, crypto.ErrUnsupportedKDF)
}

func TestVault_Close(t *testing.T) {
	s := newTestSealer[profile]()

	v, err := s.New(profile{Name: "a"}, []byte("pw"), nil)
	require.NoError(t, err)
	assert.False(t, v.Closed())

	require.NoError(t, v.Close())
	require.NoError(t, v.Close())
	assert.True(t, v.Closed())

	_, err = v.Reseal()
	assert.ErrorIs(t, err, ErrVaultClosed)
}

func TestVault_ZeroValueBehavesClosed(t *testing.T) {
	var v Vault[string]
	v.Value = "literal"

	assert.True(t, v.Closed())
	assert.Equal(t, Suite(0), v.Suite())
	assert.Contains(t, v.String(), "state: closed")
	assert.NotContains(t, v.String(), "literal")

	_, err := v.Reseal()
	assert.ErrorIs(t, err, ErrVaultClosed)
	assert.NoError(t, v.Close())

	var nilVault *Vault[string]
	assert.True(t, nilVault.Closed())
	assert.NoError(t, nilVault.Close())
	assert.Equal(t, "Vault{<nil>}", nilVault.String())
}

func TestVault_String_RedactsKey(t *testing.T) {
	s := newTestSealer[profile]()

	v, err := s.New(profile{Name: "visible"}, []byte("pw"), nil)
	require.NoError(t, err)

	str := v.String()
	assert.Contains(t, str, "state: open")
	assert.Contains(t, str, "[REDACTED]")
	assert.Contains(t, str, "visible")

	v.Close()
	assert.Contains(t, v.String(), "state: closed")
}

func TestVault_ProtoCodec_RoundTrip(t *testing.T) {
	value, err := structpb.NewStruct(map[string]any{"name": "a", "age": 42.0})
	require.NoError(t, err)

	s := NewSealer[*structpb.Struct](ProtoCodec[*structpb.Struct]{}, WithKDFParams(testParams))

	raw, err := s.Encrypt(value, []byte("pw"), nil)
	require.NoError(t, err)

	v, err := s.Decrypt(raw, []byte("pw"))
	require.NoError(t, err)
	defer v.Close()

	assert.Equal(t, value.AsMap(), v.Value.AsMap())
	assert.Contains(t, v.String(), "name")
}
