// Package packet implements the typed packet schema for protocol version
// 762 ("1.19.4"): the Handshake, Status, Login and Play packet unions for
// both directions, plus the handful of fields with non-obvious wire
// encodings (EntityData, SetEquipmentSlots, PlayerInfoUpdate, Commands,
// Recipe).
package packet

import "github.com/tesseract-mc/tesseract/server/protocol"

// State names a connection's current packet union. The client requests
// Status or Login out of Handshake; only Login can transition further, into
// Play.
type State uint8

const (
	StateHandshake State = iota
	StateStatus
	StateLogin
	StatePlay
)

// Direction names which side of the connection originates a packet. Each
// (State, Direction) pair has its own discriminator space, assigned in
// declaration order starting at 0.
type Direction uint8

const (
	Serverbound Direction = iota
	Clientbound
)

// Packet is implemented by every packet variant. ID returns the variant's
// VarInt32 discriminator within its (State, Direction) union.
type Packet interface {
	ID() int32
	Encode(w *protocol.Writer)
	Decode(r *protocol.Reader)
}

// NextState names the next state requested by the Intention packet.
type NextState int32

const (
	NextStateStatus NextState = 1
	NextStateLogin  NextState = 2
)
