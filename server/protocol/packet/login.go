package packet

import (
	"github.com/google/uuid"
	"github.com/tesseract-mc/tesseract/server/protocol"
)

// Serverbound Login union.

// ServerboundHello is the client's request to begin authentication, carrying
// its chosen username and (on 1.19.1+) its locally-known UUID.
type ServerboundHello struct {
	Name    string
	HasUUID bool
	UUID    uuid.UUID
}

var _ Packet = (*ServerboundHello)(nil)

func (*ServerboundHello) ID() int32 { return 0 }

func (p *ServerboundHello) Encode(w *protocol.Writer) {
	w.String(p.Name)
	w.Bool(p.HasUUID)
	if p.HasUUID {
		w.UUID(p.UUID)
	}
}

func (p *ServerboundHello) Decode(r *protocol.Reader) {
	p.Name = r.String()
	p.HasUUID = r.Bool()
	if p.HasUUID {
		p.UUID = r.UUID()
	}
}

// ServerboundKey answers the server's encryption request with the client's
// shared secret and the server-issued nonce, both RSA-encrypted under the
// server's public key.
type ServerboundKey struct {
	EncryptedKey   []byte
	EncryptedNonce []byte
}

var _ Packet = (*ServerboundKey)(nil)

func (*ServerboundKey) ID() int32 { return 1 }

func (p *ServerboundKey) Encode(w *protocol.Writer) {
	w.ByteArray(p.EncryptedKey)
	w.ByteArray(p.EncryptedNonce)
}

func (p *ServerboundKey) Decode(r *protocol.Reader) {
	p.EncryptedKey = r.ByteArray()
	p.EncryptedNonce = r.ByteArray()
}

// ServerboundLoginCustomQuery answers a server-sent plugin-channel query
// during login.
type ServerboundLoginCustomQuery struct {
	TransactionID int32
	Data          []byte
}

var _ Packet = (*ServerboundLoginCustomQuery)(nil)

func (*ServerboundLoginCustomQuery) ID() int32 { return 2 }

func (p *ServerboundLoginCustomQuery) Encode(w *protocol.Writer) {
	w.VarInt32(p.TransactionID)
	w.Bytes(p.Data)
}

func (p *ServerboundLoginCustomQuery) Decode(r *protocol.Reader) {
	p.TransactionID = r.VarInt32()
	p.Data = r.Remaining()
}
