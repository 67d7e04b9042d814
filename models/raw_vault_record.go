package models

import "time"

// RawVaultRecord is a sealed vault as kept by a storage backend.
//
// Data holds the binary RawVault layout and is opaque to storages: they
// never decrypt it. List results leave Data empty.
type RawVaultRecord struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Data      []byte     `json:"data,omitempty"`
	Version   int64      `json:"version"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

