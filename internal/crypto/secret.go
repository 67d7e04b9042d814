// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"sync"

	"github.com/awnumar/memguard"
)

// SecretKey holds key material in a memguard locked buffer: the pages are
// mlocked, surrounded by guard pages and wiped when the key is destroyed.
//
// Destroy must be called explicitly. The garbage collector is never relied
// on to clean up key material.
type SecretKey struct {
	mu  sync.RWMutex
	buf *memguard.LockedBuffer
}

// NewSecretKey moves key into locked memory. The source slice is wiped.
func NewSecretKey(key []byte) *SecretKey {
	buf := memguard.NewBufferFromBytes(key)
	buf.Freeze()
	return &SecretKey{buf: buf}
}

// Use calls fn with the raw key bytes while holding a read lock, so a
// concurrent Destroy waits until fn returns. fn must not retain the slice.
// Use reports false without calling fn once the key has been destroyed, or
// when k is nil.
func (k *SecretKey) Use(fn func(key []byte)) bool {
	if k == nil {
		return false
	}
	k.mu.RLock()
	defer k.mu.RUnlock()

	if k.buf == nil || !k.buf.IsAlive() {
		return false
	}
	fn(k.buf.Bytes())
	return true
}

// Alive reports whether the key has not been destroyed yet.
func (k *SecretKey) Alive() bool {
	if k == nil {
		return false
	}
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.buf != nil && k.buf.IsAlive()
}

// Destroy wipes and releases the key. It is safe to call more than once
// and on a nil key.
func (k *SecretKey) Destroy() {
	if k == nil {
		return
	}
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.buf != nil {
		k.buf.Destroy()
		k.buf = nil
	}
}

// Wipe overwrites b with zeros.
func Wipe(b []byte) {
	memguard.WipeBytes(b)
}
