package session

import (
	"time"

	"github.com/tesseract-mc/tesseract/server/auth"
	"github.com/tesseract-mc/tesseract/server/protocol/packet"
	"github.com/tesseract-mc/tesseract/server/replication"
	"github.com/tesseract-mc/tesseract/server/world"
)

// defaultReplicationRadius is used until the client's first ClientInformation
// reports an actual view distance, corresponding to the common 10-chunk
// default render distance.
var defaultReplicationRadius = replication.Radius(10)

// Session is one authenticated Play connection: the framed Conn underneath
// it, the world Actor it controls, its network entity id, and the
// keep-alive and view-distance state the tick thread consults every tick.
// Session implements replication.Viewer.
var _ replication.Viewer = (*Session)(nil)

type Session struct {
	conn     *Conn
	profile  auth.Profile
	actor    *world.Actor
	entityID int32

	keepAlive     *KeepAlive
	nextKeepAlive time.Time

	replicationRadius int32
	lastTeleportID    int32
	placed            bool
}

// NewSession wires a logged-in connection to the world actor and network
// entity id allocated for it. The caller has already run PerformLogin and
// switched the world/connection into Play state.
func NewSession(conn *Conn, profile auth.Profile, actor *world.Actor, entityID int32) *Session {
	return &Session{
		conn:              conn,
		profile:           profile,
		actor:             actor,
		entityID:          entityID,
		keepAlive:         &KeepAlive{},
		replicationRadius: defaultReplicationRadius,
	}
}

// Send queues p for delivery, satisfying replication.Viewer.
func (s *Session) Send(p packet.Packet) { s.conn.Send(p) }

// Actor returns the world actor this session controls, satisfying
// replication.Viewer.
func (s *Session) Actor() *world.Actor { return s.actor }

// EntityID returns the network entity id allocated to this session.
func (s *Session) EntityID() int32 { return s.entityID }

// Profile returns the authenticated Mojang profile this session logged in
// with.
func (s *Session) Profile() auth.Profile { return s.profile }

// ReplicationRadius returns the chunk radius (view distance plus the
// server-side padding Radius adds) this session's subscription window
// should use.
func (s *Session) ReplicationRadius() int32 { return s.replicationRadius }

// Latency returns the session's rolling keep-alive round-trip estimate.
func (s *Session) Latency() time.Duration { return s.keepAlive.Latency() }

// Conn returns the underlying framed connection.
func (s *Session) Conn() *Conn { return s.conn }

// MarkPlaced reports whether this session's actor has already been placed
// into the world once (by a prior call), and marks it placed for future
// calls. The caller uses this to tell an actor's very first world placement,
// which has no previous chunk to release, from a later move that does.
func (s *Session) MarkPlaced() (alreadyPlaced bool) {
	alreadyPlaced = s.placed
	s.placed = true
	return alreadyPlaced
}

// SendTeleport sends a forced-position PlayerPosition packet and remembers
// its teleport id so a later TeleportConfirm can be matched against it.
func (s *Session) SendTeleport(p *packet.PlayerPosition) {
	s.lastTeleportID = p.TeleportID
	s.Send(p)
}

// TickKeepAlive sends a liveness probe if keepAliveInterval has elapsed
// since the last one, or closes the connection if the previous probe is
// still unacknowledged. Meant to be called once per tick by the tick
// thread; it is a no-op between intervals.
func (s *Session) TickKeepAlive(now time.Time) {
	if now.Before(s.nextKeepAlive) {
		return
	}
	s.nextKeepAlive = now.Add(keepAliveInterval)

	if s.keepAlive.Tick(now, func(id int64) {
		s.Send(&packet.ClientboundKeepAlive{KeepAliveID: id})
	}) {
		s.conn.Close(ErrKeepAliveTimeout)
	}
}

// HandlePlayPacket applies a decoded Play-state packet's direct effect on
// session state: keep-alive acknowledgement and the view distance
// ClientInformation reports. Movement packets are intentionally not handled
// here since applying them requires the world and replication.Tracker this
// package holds no reference to; the caller translates
// ServerboundMovePlayerPos/PosRot into World.MoveActor and
// Tracker.MoveActor/UpdateView calls itself.
func (s *Session) HandlePlayPacket(p packet.Packet, now time.Time) {
	switch p := p.(type) {
	case *packet.ServerboundKeepAlive:
		s.keepAlive.Ack(p.KeepAliveID, now)
	case *packet.ClientInformation:
		s.replicationRadius = replication.Radius(int32(p.ViewDistance))
	}
}
