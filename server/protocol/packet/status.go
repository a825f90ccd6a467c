package packet

import "github.com/tesseract-mc/tesseract/server/protocol"

// StatusRequest asks the server to describe itself; it carries no fields.
type StatusRequest struct{}

var _ Packet = (*StatusRequest)(nil)

func (*StatusRequest) ID() int32              { return 0 }
func (*StatusRequest) Encode(*protocol.Writer) {}
func (*StatusRequest) Decode(*protocol.Reader) {}

// StatusResponse answers StatusRequest with a JSON document describing
// version, player count/sample and MOTD.
type StatusResponse struct {
	JSON string
}

var _ Packet = (*StatusResponse)(nil)

func (*StatusResponse) ID() int32 { return 0 }

func (p *StatusResponse) Encode(w *protocol.Writer) { w.String(p.JSON) }
func (p *StatusResponse) Decode(r *protocol.Reader) { p.JSON = r.String() }

// PingRequest carries an opaque timestamp the server must echo verbatim.
type PingRequest struct {
	Time int64
}

var _ Packet = (*PingRequest)(nil)

func (*PingRequest) ID() int32 { return 1 }

func (p *PingRequest) Encode(w *protocol.Writer) { w.Int64(p.Time) }
func (p *PingRequest) Decode(r *protocol.Reader) { p.Time = r.Int64() }

// PongResponse echoes PingRequest.Time.
type PongResponse struct {
	Time int64
}

var _ Packet = (*PongResponse)(nil)

func (*PongResponse) ID() int32 { return 1 }

func (p *PongResponse) Encode(w *protocol.Writer) { w.Int64(p.Time) }
func (p *PongResponse) Decode(r *protocol.Reader) { p.Time = r.Int64() }
