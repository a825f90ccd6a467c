package packet

import (
	"github.com/google/uuid"
	"github.com/tesseract-mc/tesseract/server/protocol"
)

// Clientbound Login union.

// LoginDisconnect rejects the login attempt with a chat-component reason,
// serialized as its JSON text.
type LoginDisconnect struct {
	Reason string
}

var _ Packet = (*LoginDisconnect)(nil)

func (*LoginDisconnect) ID() int32 { return 0 }

func (p *LoginDisconnect) Encode(w *protocol.Writer) { w.String(p.Reason) }
func (p *LoginDisconnect) Decode(r *protocol.Reader) { p.Reason = r.String() }

// EncryptionRequest starts the Mojang-authenticated handshake: a per-server
// identifier used in the session-server hash, the server's RSA public key
// (X.509 SubjectPublicKeyInfo DER), and a random nonce the client must echo
// back encrypted.
type EncryptionRequest struct {
	ServerID  string
	PublicKey []byte
	Nonce     []byte
}

var _ Packet = (*EncryptionRequest)(nil)

func (*EncryptionRequest) ID() int32 { return 1 }

func (p *EncryptionRequest) Encode(w *protocol.Writer) {
	w.String(p.ServerID)
	w.ByteArray(p.PublicKey)
	w.ByteArray(p.Nonce)
}

func (p *EncryptionRequest) Decode(r *protocol.Reader) {
	p.ServerID = r.String()
	p.PublicKey = r.ByteArray()
	p.Nonce = r.ByteArray()
}

// UserProperty is one signed profile property (e.g. "textures") as returned
// by the Mojang session service.
type UserProperty struct {
	Name      string
	Value     string
	HasSig    bool
	Signature string
}

// GameProfile completes login with the authenticated Mojang profile.
type GameProfile struct {
	UUID       uuid.UUID
	Name       string
	Properties []UserProperty
}

var _ Packet = (*GameProfile)(nil)

func (*GameProfile) ID() int32 { return 2 }

func (p *GameProfile) Encode(w *protocol.Writer) {
	w.UUID(p.UUID)
	w.String(p.Name)
	w.VarInt32(int32(len(p.Properties)))
	for _, prop := range p.Properties {
		w.String(prop.Name)
		w.String(prop.Value)
		w.Bool(prop.HasSig)
		if prop.HasSig {
			w.String(prop.Signature)
		}
	}
}

func (p *GameProfile) Decode(r *protocol.Reader) {
	p.UUID = r.UUID()
	p.Name = r.String()
	n := r.VarInt32()
	p.Properties = make([]UserProperty, n)
	for i := range p.Properties {
		p.Properties[i].Name = r.String()
		p.Properties[i].Value = r.String()
		p.Properties[i].HasSig = r.Bool()
		if p.Properties[i].HasSig {
			p.Properties[i].Signature = r.String()
		}
	}
}

// LoginCompression tells the client to switch on zlib compression above
// Threshold bytes for every subsequent packet, in both directions.
type LoginCompression struct {
	Threshold int32
}

var _ Packet = (*LoginCompression)(nil)

func (*LoginCompression) ID() int32 { return 3 }

func (p *LoginCompression) Encode(w *protocol.Writer) { w.VarInt32(p.Threshold) }
func (p *LoginCompression) Decode(r *protocol.Reader) { p.Threshold = r.VarInt32() }

// ClientboundLoginCustomQuery asks the client to answer a plugin-channel
// query before login completes.
type ClientboundLoginCustomQuery struct {
	TransactionID int32
	Identifier    string
	Data          []byte
}

var _ Packet = (*ClientboundLoginCustomQuery)(nil)

func (*ClientboundLoginCustomQuery) ID() int32 { return 4 }

func (p *ClientboundLoginCustomQuery) Encode(w *protocol.Writer) {
	w.VarInt32(p.TransactionID)
	w.String(p.Identifier)
	w.Bytes(p.Data)
}

func (p *ClientboundLoginCustomQuery) Decode(r *protocol.Reader) {
	p.TransactionID = r.VarInt32()
	p.Identifier = r.String()
	p.Data = r.Remaining()
}
