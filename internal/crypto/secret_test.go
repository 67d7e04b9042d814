package crypto

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSecretKey_WipesSource(t *testing.T) {
	src := bytes.Repeat([]byte{0x5A}, KeyLen)
	k := NewSecretKey(src)
	defer k.Destroy()

	assert.Equal(t, make([]byte, KeyLen), src, "source slice must be wiped")

	var seen []byte
	ok := k.Use(func(key []byte) { seen = append(seen, key...) })
	require.True(t, ok)
	assert.Equal(t, bytes.Repeat([]byte{0x5A}, KeyLen), seen)
}

func TestSecretKey_DestroyIsIdempotent(t *testing.T) {
	k := NewSecretKey(bytes.Repeat([]byte{0x01}, KeyLen))
	require.True(t, k.Alive())

	k.Destroy()
	k.Destroy()

	assert.False(t, k.Alive())
	called := false
	assert.False(t, k.Use(func([]byte) { called = true }))
	assert.False(t, called)
}

func TestSecretKey_NilIsDestroyed(t *testing.T) {
	var k *SecretKey

	assert.False(t, k.Alive())
	assert.False(t, k.Use(func([]byte) { t.Fatal("fn must not be called") }))
	assert.NotPanics(t, k.Destroy)
}

func TestSecretKey_ConcurrentUseAndDestroy(t *testing.T) {
	k := NewSecretKey(bytes.Repeat([]byte{0x01}, KeyLen))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			k.Use(func(key []byte) {
				if len(key) != KeyLen {
					t.Errorf("key length = %d", len(key))
				}
			})
		}()
	}
	k.Destroy()
	wg.Wait()

	assert.False(t, k.Alive())
}

func TestWipe(t *testing.T) {
	b := []byte("sensitive")
	Wipe(b)
	assert.Equal(t, make([]byte, len("sensitive")), b)
}
