package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"

	"github.com/stretchr/testify/require"
)

func encryptPKCS1v15(t *testing.T, kp *KeyPair, plain []byte) []byte {
	t.Helper()
	ciphertext, err := rsa.EncryptPKCS1v15(rand.Reader, &kp.private.PublicKey, plain)
	require.NoError(t, err)
	return ciphertext
}

func TestGenerateKeyPairRoundTripsDecrypt(t *testing.T) {
	kp, err := GenerateKeyPair()
	require.NoError(t, err)
	require.NotEmpty(t, kp.PublicKeyDER())

	secret := []byte("0123456789abcdef") // 16-byte AES key
	ciphertext := encryptPKCS1v15(t, kp, secret)

	plain, err := kp.Decrypt(ciphertext)
	require.NoError(t, err)
	require.Equal(t, secret, plain)
}

func TestServerIDHashMatchesKnownVectors(t *testing.T) {
	// Vectors from the well-known Notchian serverId hash examples (a SHA-1
	// digest of just the ASCII input, used here as a stand-in for
	// sharedSecret ∥ publicKeyDER to pin the signed-hex rendering itself).
	require.Equal(t, "4ed1f46bbe04bc756bcb17c0c7ce3e4632f06177", signedHexOf(t, "Notch"))
	require.Equal(t, "-7c9d5b0044c130109a5d7b5fb5c317c02b4e28c1", signedHexOf(t, "jeb_"))
	require.Equal(t, "88e16a1019277b15d58faf0541e11910eb756f6", signedHexOf(t, "simon"))
}

func signedHexOf(t *testing.T, s string) string {
	t.Helper()
	return ServerIDHash(nil, []byte(s))
}
