package session

import "errors"

// ErrNonceMismatch is returned when the client's decrypted verify token does
// not match the nonce the server sent in EncryptionRequest, a sign the
// client is not holding the private key counterpart it claims.
var ErrNonceMismatch = errors.New("session: verify token mismatch")

// ErrKeepAliveTimeout is the close reason recorded when a keep-alive
// interval elapses with the previous one still unacknowledged.
var ErrKeepAliveTimeout = errors.New("session: keep-alive timed out")

// ErrUnexpectedPacket is returned when a login step receives a packet type
// other than the one it was waiting for.
var ErrUnexpectedPacket = errors.New("session: unexpected packet")
