package app

import (
	"errors"
	"fmt"
	"testing"

	"github.com/MKhiriev/crypto-vault/internal/config"
	"github.com/MKhiriev/crypto-vault/internal/store"
	"github.com/MKhiriev/crypto-vault/vault"
	"github.com/stretchr/testify/assert"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "wrong password", err: fmt.Errorf("open vault %q: %w", "main", vault.ErrWrongPasswordOrCorrupted), want: MsgWrongPasswordOrCorrupted},
		{name: "malformed payload", err: fmt.Errorf("%w: bad json", vault.ErrMalformedPayload), want: MsgMalformedPayload},
		{name: "not found", err: fmt.Errorf("load vault: %w", store.ErrRawVaultNotFound), want: MsgVaultNotFound},
		{name: "exists", err: store.ErrRawVaultExists, want: MsgVaultExists},
		{name: "conflict", err: store.ErrVersionConflict, want: MsgVersionConflict},
		{name: "invalid name", err: store.ErrInvalidName, want: MsgInvalidName},
		{name: "config", err: fmt.Errorf("%w: workers must be positive", config.ErrInvalidWorkerConfigs), want: MsgInvalidConfig + ": invalid worker configuration: workers must be positive"},
		{name: "other", err: errors.New("disk on fire"), want: "disk on fire"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}
