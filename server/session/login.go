package session

import (
	"bytes"
	"context"
	"crypto/rand"
	"fmt"

	"github.com/tesseract-mc/tesseract/server/auth"
	"github.com/tesseract-mc/tesseract/server/protocol/packet"
)

// nonceSize is the length of the verify token sent in EncryptionRequest,
// matching the size the Notchian client and server use.
const nonceSize = 4

// LoginConfig carries what PerformLogin needs beyond the connection itself:
// the server's login key pair, the Mojang session-service client, and
// whether (and at what threshold) to switch on compression once encryption
// is live. A negative CompressionThreshold disables compression entirely.
type LoginConfig struct {
	Keys                 *auth.KeyPair
	Sessions             *auth.Client
	CompressionThreshold int32
	CompressionLevel     int
}

// PerformLogin drives conn through the Mojang-authenticated login
// handshake: Hello, EncryptionRequest/Key, hasJoined, optional
// LoginCompression, and GameProfile. conn must already be in the Login
// state with ServerboundHello as its next unread packet. On success conn is
// left with encryption (and, if configured, compression) enabled and in the
// Play state; on error the caller is responsible for telling the client why
// before closing the connection.
func PerformLogin(ctx context.Context, conn *Conn, cfg LoginConfig) (auth.Profile, error) {
	hello, err := expectHello(conn)
	if err != nil {
		return auth.Profile{}, err
	}

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return auth.Profile{}, fmt.Errorf("session: generate nonce: %w", err)
	}
	if err := conn.WriteDirect(&packet.EncryptionRequest{
		PublicKey: cfg.Keys.PublicKeyDER(),
		Nonce:     nonce,
	}); err != nil {
		return auth.Profile{}, fmt.Errorf("session: write encryption request: %w", err)
	}

	key, err := expectKey(conn)
	if err != nil {
		return auth.Profile{}, err
	}

	sharedSecret, err := cfg.Keys.Decrypt(key.EncryptedKey)
	if err != nil {
		return auth.Profile{}, err
	}
	decryptedNonce, err := cfg.Keys.Decrypt(key.EncryptedNonce)
	if err != nil {
		return auth.Profile{}, err
	}
	if !bytes.Equal(decryptedNonce, nonce) {
		return auth.Profile{}, ErrNonceMismatch
	}

	hash := auth.ServerIDHash(sharedSecret, cfg.Keys.PublicKeyDER())
	profile, err := cfg.Sessions.HasJoined(ctx, hello.Name, hash)
	if err != nil {
		return auth.Profile{}, err
	}

	if err := conn.EnableEncryption(sharedSecret); err != nil {
		return auth.Profile{}, fmt.Errorf("session: enable encryption: %w", err)
	}

	if cfg.CompressionThreshold >= 0 {
		if err := conn.WriteDirect(&packet.LoginCompression{Threshold: cfg.CompressionThreshold}); err != nil {
			return auth.Profile{}, fmt.Errorf("session: write login compression: %w", err)
		}
		if err := conn.EnableCompression(cfg.CompressionThreshold, cfg.CompressionLevel); err != nil {
			return auth.Profile{}, fmt.Errorf("session: enable compression: %w", err)
		}
	}

	if err := conn.WriteDirect(&packet.GameProfile{
		UUID:       profile.ID,
		Name:       profile.Name,
		Properties: toUserProperties(profile.Properties),
	}); err != nil {
		return auth.Profile{}, fmt.Errorf("session: write game profile: %w", err)
	}

	conn.SetState(packet.StatePlay)
	return profile, nil
}

func expectHello(conn *Conn) (*packet.ServerboundHello, error) {
	p, err := conn.ReadDirect()
	if err != nil {
		return nil, fmt.Errorf("session: read hello: %w", err)
	}
	hello, ok := p.(*packet.ServerboundHello)
	if !ok {
		return nil, fmt.Errorf("%w: expected ServerboundHello, got %T", ErrUnexpectedPacket, p)
	}
	return hello, nil
}

func expectKey(conn *Conn) (*packet.ServerboundKey, error) {
	p, err := conn.ReadDirect()
	if err != nil {
		return nil, fmt.Errorf("session: read key: %w", err)
	}
	key, ok := p.(*packet.ServerboundKey)
	if !ok {
		return nil, fmt.Errorf("%w: expected ServerboundKey, got %T", ErrUnexpectedPacket, p)
	}
	return key, nil
}

func toUserProperties(props []auth.Property) []packet.UserProperty {
	out := make([]packet.UserProperty, len(props))
	for i, p := range props {
		out[i] = packet.UserProperty{
			Name:      p.Name,
			Value:     p.Value,
			HasSig:    p.Signature != "",
			Signature: p.Signature,
		}
	}
	return out
}
