package protocol

import (
	"crypto/aes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCFB8RoundTrip(t *testing.T) {
	key := make([]byte, 16)
	_, err := rand.Read(key)
	require.NoError(t, err)

	plaintext := make([]byte, 513)
	_, err = rand.Read(plaintext)
	require.NoError(t, err)

	encBlock, err := aes.NewCipher(key)
	require.NoError(t, err)
	decBlock, err := aes.NewCipher(key)
	require.NoError(t, err)

	enc := newCFB8(encBlock, key, false)
	dec := newCFB8(decBlock, key, true)

	ciphertext := make([]byte, len(plaintext))
	enc.XORKeyStream(ciphertext, plaintext)

	got := make([]byte, len(plaintext))
	dec.XORKeyStream(got, ciphertext)

	require.Equal(t, plaintext, got)
}

func TestCFB8StreamsAcrossMultipleCalls(t *testing.T) {
	key := make([]byte, 16)
	for i := range key {
		key[i] = byte(i)
	}
	plaintext := []byte("the quick brown fox jumps over the lazy dog")

	encBlock, _ := aes.NewCipher(key)
	enc := newCFB8(encBlock, key, false)
	whole := make([]byte, len(plaintext))
	enc.XORKeyStream(whole, plaintext)

	encBlock2, _ := aes.NewCipher(key)
	enc2 := newCFB8(encBlock2, key, false)
	split := make([]byte, len(plaintext))
	enc2.XORKeyStream(split[:10], plaintext[:10])
	enc2.XORKeyStream(split[10:], plaintext[10:])

	require.Equal(t, whole, split)
}
