package packet

import "github.com/tesseract-mc/tesseract/server/protocol"

// ServerboundKeepAlive echoes a ClientboundKeepAlive's id back to the
// server within the keep-alive window.
type ServerboundKeepAlive struct {
	KeepAliveID int64
}

var _ Packet = (*ServerboundKeepAlive)(nil)

func (*ServerboundKeepAlive) ID() int32 { return 0x11 }

func (p *ServerboundKeepAlive) Encode(w *protocol.Writer) { w.Int64(p.KeepAliveID) }
func (p *ServerboundKeepAlive) Decode(r *protocol.Reader) { p.KeepAliveID = r.Int64() }

// TeleportConfirm acknowledges a PlayerPosition packet by echoing its
// TeleportID.
type TeleportConfirm struct {
	TeleportID int32
}

var _ Packet = (*TeleportConfirm)(nil)

func (*TeleportConfirm) ID() int32 { return 0x00 }

func (p *TeleportConfirm) Encode(w *protocol.Writer) { w.VarInt32(p.TeleportID) }
func (p *TeleportConfirm) Decode(r *protocol.Reader) { p.TeleportID = r.VarInt32() }

// ChatVisibility mirrors the client's chat display preference, carried in
// ClientInformation.
type ChatVisibility int32

const (
	ChatVisibilityFull ChatVisibility = iota
	ChatVisibilitySystem
	ChatVisibilityHidden
)

// ClientInformation reports client-side settings the server needs,
// principally ViewDistance (which drives the player's area-of-interest
// subscription radius).
type ClientInformation struct {
	Locale              string
	ViewDistance        int8
	ChatVisibility      ChatVisibility
	ChatColors          bool
	DisplayedSkinParts  uint8
	MainHand            int32
	EnableTextFiltering bool
	AllowServerListing  bool
}

var _ Packet = (*ClientInformation)(nil)

func (*ClientInformation) ID() int32 { return 0x08 }

func (p *ClientInformation) Encode(w *protocol.Writer) {
	w.String(p.Locale)
	w.Int8(p.ViewDistance)
	w.VarInt32(int32(p.ChatVisibility))
	w.Bool(p.ChatColors)
	w.Uint8(p.DisplayedSkinParts)
	w.VarInt32(p.MainHand)
	w.Bool(p.EnableTextFiltering)
	w.Bool(p.AllowServerListing)
}

func (p *ClientInformation) Decode(r *protocol.Reader) {
	p.Locale = r.String()
	p.ViewDistance = r.Int8()
	p.ChatVisibility = ChatVisibility(r.VarInt32())
	p.ChatColors = r.Bool()
	p.DisplayedSkinParts = r.Uint8()
	p.MainHand = r.VarInt32()
	p.EnableTextFiltering = r.Bool()
	p.AllowServerListing = r.Bool()
}

// ServerboundMovePlayerPos reports the client's position every tick it
// moves, driving the world's actor-chunk-membership tracking.
type ServerboundMovePlayerPos struct {
	X, Y, Z  float64
	OnGround bool
}

var _ Packet = (*ServerboundMovePlayerPos)(nil)

func (*ServerboundMovePlayerPos) ID() int32 { return 0x14 }

func (p *ServerboundMovePlayerPos) Encode(w *protocol.Writer) {
	w.Float64(p.X)
	w.Float64(p.Y)
	w.Float64(p.Z)
	w.Bool(p.OnGround)
}

func (p *ServerboundMovePlayerPos) Decode(r *protocol.Reader) {
	p.X = r.Float64()
	p.Y = r.Float64()
	p.Z = r.Float64()
	p.OnGround = r.Bool()
}

// ServerboundMovePlayerPosRot additionally carries rotation, sent instead
// of ServerboundMovePlayerPos when the client's look direction changed too.
type ServerboundMovePlayerPosRot struct {
	X, Y, Z    float64
	Yaw, Pitch float32
	OnGround   bool
}

var _ Packet = (*ServerboundMovePlayerPosRot)(nil)

func (*ServerboundMovePlayerPosRot) ID() int32 { return 0x15 }

func (p *ServerboundMovePlayerPosRot) Encode(w *protocol.Writer) {
	w.Float64(p.X)
	w.Float64(p.Y)
	w.Float64(p.Z)
	w.Float32(p.Yaw)
	w.Float32(p.Pitch)
	w.Bool(p.OnGround)
}

func (p *ServerboundMovePlayerPosRot) Decode(r *protocol.Reader) {
	p.X = r.Float64()
	p.Y = r.Float64()
	p.Z = r.Float64()
	p.Yaw = r.Float32()
	p.Pitch = r.Float32()
	p.OnGround = r.Bool()
}
