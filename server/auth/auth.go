// Package auth implements Mojang-authenticated login: the server's RSA
// login key, the serverId session hash, and the hasJoined session-service
// client used to resolve an authenticated profile during the login
// handshake.
package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	"fmt"
	"math/big"
)

// KeyPair is the server's RSA-1024 login key. It is generated once at
// startup and shared read-only by every connection's login handler; nothing
// here mutates after GenerateKeyPair returns.
type KeyPair struct {
	private   *rsa.PrivateKey
	publicDER []byte
}

// GenerateKeyPair creates a fresh 1024-bit RSA key pair, the size the Java
// Edition login handshake expects for its PKCS#1 v1.5 encryption request.
func GenerateKeyPair() (*KeyPair, error) {
	key, err := rsa.GenerateKey(rand.Reader, 1024)
	if err != nil {
		return nil, fmt.Errorf("auth: generate rsa key: %w", err)
	}
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("auth: marshal public key: %w", err)
	}
	return &KeyPair{private: key, publicDER: der}, nil
}

// PublicKeyDER returns the X.509 SubjectPublicKeyInfo encoding sent to the
// client in the Hello (EncryptionRequest) packet.
func (k *KeyPair) PublicKeyDER() []byte { return k.publicDER }

// Decrypt reverses the client's PKCS#1 v1.5 RSA encryption of the shared
// secret or nonce sent back in the Key packet.
func (k *KeyPair) Decrypt(ciphertext []byte) ([]byte, error) {
	plain, err := rsa.DecryptPKCS1v15(rand.Reader, k.private, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("auth: decrypt: %w", err)
	}
	return plain, nil
}

// ServerIDHash computes the Mojang "serverId" session hash used by
// hasJoined: SHA-1 over sharedSecret ∥ publicKeyDER, rendered as a signed
// hex big integer (Mojang's convention, not standard hex).
func ServerIDHash(sharedSecret, publicKeyDER []byte) string {
	h := sha1.New()
	h.Write(sharedSecret)
	h.Write(publicKeyDER)
	return signedHex(h.Sum(nil))
}

// signedHex interprets digest as a big-endian two's-complement signed
// integer and renders it in base 16, matching the digest the Mojang session
// service expects for the serverId query parameter.
func signedHex(digest []byte) string {
	n := new(big.Int).SetBytes(digest)
	if digest[0]&0x80 != 0 {
		n.Sub(n, new(big.Int).Lsh(big.NewInt(1), uint(len(digest))*8))
	}
	return n.Text(16)
}
