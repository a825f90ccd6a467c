package packet

import (
	"github.com/google/uuid"
	"github.com/tesseract-mc/tesseract/server/protocol"
)

// PlayerInfoAction is one bit of PlayerInfoUpdate's action bitmask. The set
// of actions present determines which fields each entry in the packet
// carries.
type PlayerInfoAction uint8

const (
	PlayerInfoAddPlayer PlayerInfoAction = 1 << iota
	PlayerInfoInitializeChat
	PlayerInfoUpdateGameMode
	PlayerInfoUpdateListed
	PlayerInfoUpdateLatency
	PlayerInfoUpdateDisplayName
)

// PlayerInfoEntry carries whichever fields Actions selects for one player.
type PlayerInfoEntry struct {
	UUID uuid.UUID

	Name       string
	Properties []UserProperty

	HasChatSession bool
	SessionID      uuid.UUID

	GameMode int32

	Listed bool

	LatencyMillis int32

	HasDisplayName bool
	DisplayName    string
}

// PlayerInfoUpdate adds, removes, or patches tab-list/player-registry
// entries. Actions selects which fields Entries carries; every entry in one
// packet shares the same action set.
type PlayerInfoUpdate struct {
	Actions PlayerInfoAction
	Entries []PlayerInfoEntry
}

var _ Packet = (*PlayerInfoUpdate)(nil)

func (*PlayerInfoUpdate) ID() int32 { return 0x3D }

func (p *PlayerInfoUpdate) Encode(w *protocol.Writer) {
	w.Uint8(uint8(p.Actions))
	w.VarInt32(int32(len(p.Entries)))
	for _, e := range p.Entries {
		w.UUID(e.UUID)
		if p.Actions&PlayerInfoAddPlayer != 0 {
			w.String(e.Name)
			w.VarInt32(int32(len(e.Properties)))
			for _, prop := range e.Properties {
				w.String(prop.Name)
				w.String(prop.Value)
				w.Bool(prop.HasSig)
				if prop.HasSig {
					w.String(prop.Signature)
				}
			}
		}
		if p.Actions&PlayerInfoInitializeChat != 0 {
			w.Bool(e.HasChatSession)
			if e.HasChatSession {
				w.UUID(e.SessionID)
			}
		}
		if p.Actions&PlayerInfoUpdateGameMode != 0 {
			w.VarInt32(e.GameMode)
		}
		if p.Actions&PlayerInfoUpdateListed != 0 {
			w.Bool(e.Listed)
		}
		if p.Actions&PlayerInfoUpdateLatency != 0 {
			w.VarInt32(e.LatencyMillis)
		}
		if p.Actions&PlayerInfoUpdateDisplayName != 0 {
			w.Bool(e.HasDisplayName)
			if e.HasDisplayName {
				w.String(e.DisplayName)
			}
		}
	}
}

func (p *PlayerInfoUpdate) Decode(r *protocol.Reader) {
	p.Actions = PlayerInfoAction(r.Uint8())
	n := r.VarInt32()
	p.Entries = make([]PlayerInfoEntry, n)
	for i := range p.Entries {
		e := &p.Entries[i]
		e.UUID = r.UUID()
		if p.Actions&PlayerInfoAddPlayer != 0 {
			e.Name = r.String()
			propCount := r.VarInt32()
			e.Properties = make([]UserProperty, propCount)
			for j := range e.Properties {
				e.Properties[j].Name = r.String()
				e.Properties[j].Value = r.String()
				e.Properties[j].HasSig = r.Bool()
				if e.Properties[j].HasSig {
					e.Properties[j].Signature = r.String()
				}
			}
		}
		if p.Actions&PlayerInfoInitializeChat != 0 {
			e.HasChatSession = r.Bool()
			if e.HasChatSession {
				e.SessionID = r.UUID()
			}
		}
		if p.Actions&PlayerInfoUpdateGameMode != 0 {
			e.GameMode = r.VarInt32()
		}
		if p.Actions&PlayerInfoUpdateListed != 0 {
			e.Listed = r.Bool()
		}
		if p.Actions&PlayerInfoUpdateLatency != 0 {
			e.LatencyMillis = r.VarInt32()
		}
		if p.Actions&PlayerInfoUpdateDisplayName != 0 {
			e.HasDisplayName = r.Bool()
			if e.HasDisplayName {
				e.DisplayName = r.String()
			}
		}
	}
}
