// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/MKhiriev/crypto-vault/internal/crypto"
)

// Binary layout of a sealed vault, format version 1. Integers are big-endian.
//
//	offset    size  field
//	0         4     magic "CVLT"
//	4         1     format version (0x01)
//	5         1     cipher suite id
//	6         1     KDF id
//	7         4     KDF time cost
//	11        4     KDF memory cost (KiB)
//	15        1     KDF parallelism
//	16        1     salt length S
//	17        S     salt
//	17+S      1     nonce length N
//	18+S      N     nonce
//	18+S+N    16    authentication tag
//	34+S+N    4     ciphertext length L
//	38+S+N    L     ciphertext
//
// Bytes [0, 18+S+N) are the header. The header is authenticated as
// associated data, so altering any of its fields fails decryption.
const (
	Magic         = "CVLT"
	FormatVersion = 0x01

	fixedHeaderLen = 4 + 1 + 1 + 1 + 4 + 4 + 1
	minEncodedLen  = fixedHeaderLen + 1 + crypto.MinSaltLen + 1 + 12 + crypto.TagLen + 4
)

// Suite identifies the authenticated cipher used by a vault.
type Suite = crypto.Suite

// KDFParams are the key-derivation cost parameters recorded in a vault.
type KDFParams = crypto.KDFParams

// KeyDeriver derives a vault key from a password and a salt.
type KeyDeriver = crypto.KeyDeriver

// Supported cipher suites.
const (
	SuiteAES256GCM         = crypto.SuiteAES256GCM
	SuiteXChaCha20Poly1305 = crypto.SuiteXChaCha20Poly1305
)

// DefaultKDFParams returns the Argon2id costs used when none are configured.
func DefaultKDFParams() KDFParams {
	return crypto.DefaultKDFParams()
}

// RawVault is the sealed, at-rest form of a vault. It never holds the
// password or the derived key and is safe to store or transmit.
//
// A RawVault is treated as immutable: sealing always produces a new value
// with a fresh nonce.
type RawVault struct {
	Suite      Suite
	KDF        KDFParams
	Salt       []byte
	Nonce      []byte
	Tag        []byte
	Ciphertext []byte
}

// Validate checks the structural invariants of r without touching any key
// material. It returns an error wrapping [ErrInvalidRawVault].
func (r *RawVault) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil", ErrInvalidRawVault)
	}

	nonceSize := r.Suite.NonceSize()
	if nonceSize == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidRawVault, crypto.ErrUnsupportedSuite)
	}
	if err := r.KDF.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRawVault, err)
	}
	if err := crypto.ValidateSalt(r.Salt); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRawVault, err)
	}
	if len(r.Nonce) != nonceSize {
		return fmt.Errorf("%w: nonce length %d, want %d", ErrInvalidRawVault, len(r.Nonce), nonceSize)
	}
	if len(r.Tag) != crypto.TagLen {
		return fmt.Errorf("%w: tag length %d, want %d", ErrInvalidRawVault, len(r.Tag), crypto.TagLen)
	}
	if uint64(len(r.Ciphertext)) > math.MaxUint32 {
		return fmt.Errorf("%w: ciphertext too large", ErrInvalidRawVault)
	}

	return nil
}

// header encodes the authenticated header. The caller must have validated r.
func (r *RawVault) header() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, fixedHeaderLen+2+len(r.Salt)+len(r.Nonce)))

	buf.WriteString(Magic)
	buf.WriteByte(FormatVersion)
	buf.WriteByte(byte(r.Suite))
	buf.WriteByte(byte(r.KDF.Algorithm))
	_ = binary.Write(buf, binary.BigEndian, r.KDF.Time)
	_ = binary.Write(buf, binary.BigEndian, r.KDF.Memory)
	buf.WriteByte(r.KDF.Threads)

	buf.WriteByte(uint8(len(r.Salt)))
	buf.Write(r.Salt)

	buf.WriteByte(uint8(len(r.Nonce)))
	buf.Write(r.Nonce)

	return buf.Bytes()
}

// MarshalBinary implements [encoding.BinaryMarshaler] using the version 1
// layout documented at the top of this file.
func (r *RawVault) MarshalBinary() ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	header := r.header()
	out := make([]byte, 0, len(header)+crypto.TagLen+4+len(r.Ciphertext))
	out = append(out, header...)
	out = append(out, r.Tag...)
	out = binary.BigEndian.AppendUint32(out, uint32(len(r.Ciphertext)))
	out = append(out, r.Ciphertext...)

	return out, nil
}

// UnmarshalBinary implements [encoding.BinaryUnmarshaler]. Truncated input,
// trailing bytes, an unknown magic or version, and any field that fails
// [RawVault.Validate] are reported as [ErrInvalidRawVault]. The decoded
// fields never alias data.
func (r *RawVault) UnmarshalBinary(data []byte) error {
	if len(data) < minEncodedLen {
		return fmt.Errorf("%w: %d bytes is too short", ErrInvalidRawVault, len(data))
	}

	rd := bytes.NewReader(data)
	var decoded RawVault

	magic := make([]byte, len(Magic))
	if err := readFull(rd, magic); err != nil {
		return err
	}
	if string(magic) != Magic {
		return fmt.Errorf("%w: bad magic %q", ErrInvalidRawVault, magic)
	}

	var fixed struct {
		Version uint8
		Suite   uint8
		KDF     uint8
		Time    uint32
		Memory  uint32
		Threads uint8
	}
	if err := binary.Read(rd, binary.BigEndian, &fixed); err != nil {
		return truncated(err)
	}
	if fixed.Version != FormatVersion {
		return fmt.Errorf("%w: unsupported format version %d", ErrInvalidRawVault, fixed.Version)
	}
	decoded.Suite = Suite(fixed.Suite)
	decoded.KDF = KDFParams{
		Algorithm: crypto.KDFAlgorithm(fixed.KDF),
		Time:      fixed.Time,
		Memory:    fixed.Memory,
		Threads:   fixed.Threads,
	}

	var err error
	if decoded.Salt, err = readPrefixed(rd); err != nil {
		return err
	}
	if decoded.Nonce, err = readPrefixed(rd); err != nil {
		return err
	}

	decoded.Tag = make([]byte, crypto.TagLen)
	if err = readFull(rd, decoded.Tag); err != nil {
		return err
	}

	var ctLen uint32
	if err = binary.Read(rd, binary.BigEndian, &ctLen); err != nil {
		return truncated(err)
	}
	if int64(ctLen) != int64(rd.Len()) {
		return fmt.Errorf("%w: ciphertext length %d, %d bytes remain", ErrInvalidRawVault, ctLen, rd.Len())
	}
	decoded.Ciphertext = make([]byte, ctLen)
	if err = readFull(rd, decoded.Ciphertext); err != nil {
		return err
	}

	if err = decoded.Validate(); err != nil {
		return err
	}

	*r = decoded
	return nil
}

// Clone returns a deep copy of r.
func (r *RawVault) Clone() *RawVault {
	if r == nil {
		return nil
	}
	return &RawVault{
		Suite:      r.Suite,
		KDF:        r.KDF,
		Salt:       bytes.Clone(r.Salt),
		Nonce:      bytes.Clone(r.Nonce),
		Tag:        bytes.Clone(r.Tag),
		Ciphertext: bytes.Clone(r.Ciphertext),
	}
}

// String renders the non-secret envelope fields for diagnostics.
func (r *RawVault) String() string {
	if r == nil {
		return "RawVault(nil)"
	}
	return fmt.Sprintf("RawVault{suite: %s, kdf: %s t=%d m=%dKiB p=%d, salt: %s, nonce: %s, ciphertext: %d bytes}",
		r.Suite, r.KDF.Algorithm, r.KDF.Time, r.KDF.Memory, r.KDF.Threads,
		hex.EncodeToString(r.Salt), hex.EncodeToString(r.Nonce), len(r.Ciphertext))
}

// ParseBinary decodes a sealed vault from its binary layout.
func ParseBinary(data []byte) (*RawVault, error) {
	raw := new(RawVault)
	if err := raw.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return raw, nil
}

func readPrefixed(rd *bytes.Reader) ([]byte, error) {
	n, err := rd.ReadByte()
	if err != nil {
		return nil, truncated(err)
	}
	b := make([]byte, n)
	if err := readFull(rd, b); err != nil {
		return nil, err
	}
	return b, nil
}

func readFull(rd io.Reader, b []byte) error {
	if _, err := io.ReadFull(rd, b); err != nil {
		return truncated(err)
	}
	return nil
}

func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: truncated data", ErrInvalidRawVault)
	}
	return fmt.Errorf("%w: %w", ErrInvalidRawVault, err)
}
