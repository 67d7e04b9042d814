// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// armorLineLen is the MIME line length used for the text form.
const armorLineLen = 76

// MarshalText implements [encoding.TextMarshaler]. The text form is the
// standard base64 encoding of [RawVault.MarshalBinary], wrapped at 76
// columns and terminated by a newline, suitable for pasting into config
// files or e-mail.
func (r *RawVault) MarshalText() ([]byte, error) {
	bin, err := r.MarshalBinary()
	if err != nil {
		return nil, err
	}

	encoded := base64.StdEncoding.EncodeToString(bin)

	var sb strings.Builder
	sb.Grow(len(encoded) + len(encoded)/armorLineLen + 1)
	for len(encoded) > armorLineLen {
		sb.WriteString(encoded[:armorLineLen])
		sb.WriteByte('\n')
		encoded = encoded[armorLineLen:]
	}
	sb.WriteString(encoded)
	sb.WriteByte('\n')

	return []byte(sb.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler]. ASCII whitespace,
// including CRLF line endings, is ignored.
func (r *RawVault) UnmarshalText(text []byte) error {
	compact := strings.Map(func(c rune) rune {
		switch c {
		case ' ', '\t', '\r', '\n':
			return -1
		}
		return c
	}, string(text))

	bin, err := base64.StdEncoding.DecodeString(compact)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRawVault, err)
	}
	return r.UnmarshalBinary(bin)
}

// ParseText decodes a sealed vault from its armored text form.
func ParseText(text []byte) (*RawVault, error) {
	raw := new(RawVault)
	if err := raw.UnmarshalText(text); err != nil {
		return nil, err
	}
	return raw, nil
}
