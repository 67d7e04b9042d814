package vault

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/MKhiriev/crypto-vault/internal/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sealedFixture(t *testing.T, suite Suite) *RawVault {
	t.Helper()

	raw, err := newTestSealer[profile](WithSuite(suite)).Encrypt(profile{Name: "fixture", Email: "f@example.com"}, []byte("pw"), nil)
	require.NoError(t, err)
	return raw
}

func TestRawVault_BinaryRoundTrip(t *testing.T) {
	for _, suite := range []Suite{SuiteAES256GCM, SuiteXChaCha20Poly1305} {
		t.Run(suite.String(), func(t *testing.T) {
			raw := sealedFixture(t, suite)

			data, err := raw.MarshalBinary()
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(data, []byte(Magic)))
			assert.Equal(t, byte(FormatVersion), data[4])
			assert.Equal(t, byte(suite), data[5])

			parsed, err := ParseBinary(data)
			require.NoError(t, err)
			assert.Equal(t, raw, parsed)

			v, err := newTestSealer[profile]().Decrypt(parsed, []byte("pw"))
			require.NoError(t, err)
			defer v.Close()
			assert.Equal(t, "fixture", v.Value.Name)
		})
	}
}

func TestRawVault_UnmarshalBinary_DoesNotAlias(t *testing.T) {
	data, err := sealedFixture(t, SuiteAES256GCM).MarshalBinary()
	require.NoError(t, err)

	parsed, err := ParseBinary(data)
	require.NoError(t, err)
	before := parsed.Clone()

	for i := range data {
		data[i] = 0
	}
	assert.Equal(t, before, parsed)
}

func TestRawVault_UnmarshalBinary_EveryTruncation(t *testing.T) {
	data, err := sealedFixture(t, SuiteXChaCha20Poly1305).MarshalBinary()
	require.NoError(t, err)

	for n := 0; n < len(data); n++ {
		_, err := ParseBinary(data[:n])
		require.ErrorIs(t, err, ErrInvalidRawVault, "prefix of %d bytes", n)
	}
}

func TestRawVault_UnmarshalBinary_Invalid(t *testing.T) {
	valid, err := sealedFixture(t, SuiteAES256GCM).MarshalBinary()
	require.NoError(t, err)

	mutate := func(fn func(b []byte) []byte) []byte {
		return fn(bytes.Clone(valid))
	}

	tests := []struct {
		name string
		data []byte
	}{
		{name: "nil", data: nil},
		{name: "trailing byte", data: mutate(func(b []byte) []byte { return append(b, 0x00) })},
		{name: "bad magic", data: mutate(func(b []byte) []byte { b[0] = 'X'; return b })},
		{name: "unknown version", data: mutate(func(b []byte) []byte { b[4] = 0x02; return b })},
		{name: "unknown suite", data: mutate(func(b []byte) []byte { b[5] = 0x7F; return b })},
		{name: "unknown kdf", data: mutate(func(b []byte) []byte { b[6] = 0x09; return b })},
		{name: "zero time cost", data: mutate(func(b []byte) []byte { copy(b[7:11], []byte{0, 0, 0, 0}); return b })},
		{name: "zero threads", data: mutate(func(b []byte) []byte { b[15] = 0; return b })},
		{name: "salt too short", data: mutate(func(b []byte) []byte { b[16] = 8; return b })},
		{name: "nonce length mismatch", data: mutate(func(b []byte) []byte {
			b[fixedHeaderLen+1+int(b[16])]++
			return b
		})},
		{name: "ciphertext length overstates", data: mutate(func(b []byte) []byte {
			off := fixedHeaderLen + 1 + int(b[16]) + 1 + 12 + crypto.TagLen
			b[off+3]++
			return b
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := &RawVault{Suite: SuiteAES256GCM}

			err := raw.UnmarshalBinary(tt.data)

			assert.ErrorIs(t, err, ErrInvalidRawVault)
			assert.Equal(t, &RawVault{Suite: SuiteAES256GCM}, raw, "receiver must be untouched on error")
		})
	}
}

func TestRawVault_UnmarshalBinary_RejectsExcessiveKDFCosts(t *testing.T) {
	valid, err := sealedFixture(t, SuiteAES256GCM).MarshalBinary()
	require.NoError(t, err)

	tests := []struct {
		name   string
		time   uint32
		memory uint32
	}{
		{name: "4GiB and 64 passes", time: 64, memory: 4 << 20},
		{name: "memory above limit", time: 1, memory: crypto.MaxKDFMemory + 1},
		{name: "time above limit", time: crypto.MaxKDFTime + 1, memory: 64},
		{name: "max uint32 memory", time: 1, memory: ^uint32(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := bytes.Clone(valid)
			binary.BigEndian.PutUint32(data[7:11], tt.time)
			binary.BigEndian.PutUint32(data[11:15], tt.memory)

			_, err := ParseBinary(data)
			assert.ErrorIs(t, err, ErrInvalidRawVault)
		})
	}
}

func TestRawVault_Validate(t *testing.T) {
	base := sealedFixture(t, SuiteAES256GCM)
	require.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(r *RawVault)
	}{
		{name: "unknown suite", mutate: func(r *RawVault) { r.Suite = 0 }},
		{name: "nonce for other suite", mutate: func(r *RawVault) { r.Suite = SuiteXChaCha20Poly1305 }},
		{name: "empty salt", mutate: func(r *RawVault) { r.Salt = nil }},
		{name: "oversized salt", mutate: func(r *RawVault) { r.Salt = make([]byte, crypto.MaxSaltLen+1) }},
		{name: "short tag", mutate: func(r *RawVault) { r.Tag = r.Tag[:15] }},
		{name: "invalid kdf", mutate: func(r *RawVault) { r.KDF.Threads = 0 }},
		{name: "kdf memory above limit", mutate: func(r *RawVault) { r.KDF.Memory = crypto.MaxKDFMemory + 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := base.Clone()
			tt.mutate(raw)

			assert.ErrorIs(t, raw.Validate(), ErrInvalidRawVault)

			_, err := raw.MarshalBinary()
			assert.ErrorIs(t, err, ErrInvalidRawVault)
		})
	}

	var nilRaw *RawVault
	assert.ErrorIs(t, nilRaw.Validate(), ErrInvalidRawVault)
}

func TestRawVault_TextRoundTrip(t *testing.T) {
	raw := sealedFixture(t, SuiteXChaCha20Poly1305)
	raw.Ciphertext = bytes.Repeat([]byte{0xAB}, 200)

	text, err := raw.MarshalText()
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(string(text), "\n"))

	lines := strings.Split(strings.TrimSuffix(string(text), "\n"), "\n")
	require.Greater(t, len(lines), 1)
	for _, line := range lines[:len(lines)-1] {
		assert.Len(t, line, armorLineLen)
	}

	parsed, err := ParseText(text)
	require.NoError(t, err)
	assert.Equal(t, raw, parsed)

	crlf := strings.ReplaceAll(string(text), "\n", "\r\n")
	parsed, err = ParseText([]byte("  " + crlf + "\t"))
	require.NoError(t, err)
	assert.Equal(t, raw, parsed)
}

func TestRawVault_UnmarshalText_Invalid(t *testing.T) {
	_, err := ParseText([]byte("not*base64!"))
	assert.ErrorIs(t, err, ErrInvalidRawVault)

	_, err = ParseText([]byte("Q1ZMVA==\n"))
	assert.ErrorIs(t, err, ErrInvalidRawVault)

	_, err = ParseText(nil)
	assert.ErrorIs(t, err, ErrInvalidRawVault)
}

func TestRawVault_Clone(t *testing.T) {
	raw := sealedFixture(t, SuiteAES256GCM)
	clone := raw.Clone()

	clone.Salt[0] ^= 0xFF
	clone.Nonce[0] ^= 0xFF
	clone.Tag[0] ^= 0xFF
	clone.Ciphertext[0] ^= 0xFF

	assert.NotEqual(t, raw.Salt, clone.Salt)
	assert.NotEqual(t, raw.Nonce, clone.Nonce)
	assert.NotEqual(t, raw.Tag, clone.Tag)
	assert.NotEqual(t, raw.Ciphertext, clone.Ciphertext)

	var nilRaw *RawVault
	assert.Nil(t, nilRaw.Clone())
}

func TestRawVault_String(t *testing.T) {
	raw := sealedFixture(t, SuiteAES256GCM)

	s := raw.String()

	assert.Contains(t, s, "aes-256-gcm")
	assert.Contains(t, s, "argon2id")
	assert.NotContains(t, s, "fixture")
}
