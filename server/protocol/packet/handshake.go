package packet

import "github.com/tesseract-mc/tesseract/server/protocol"

// Intention is the sole Handshake packet. It selects whether the connection
// proceeds into the Status or Login union.
type Intention struct {
	ProtocolVersion int32
	HostName        string
	Port            uint16
	Intent          NextState
}

var _ Packet = (*Intention)(nil)

func (*Intention) ID() int32 { return 0 }

func (p *Intention) Encode(w *protocol.Writer) {
	w.VarInt32(p.ProtocolVersion)
	w.String(p.HostName)
	w.Uint16(p.Port)
	w.VarInt32(int32(p.Intent))
}

func (p *Intention) Decode(r *protocol.Reader) {
	p.ProtocolVersion = r.VarInt32()
	p.HostName = r.String()
	p.Port = r.Uint16()
	p.Intent = NextState(r.VarInt32())
}
