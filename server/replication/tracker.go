package replication

import (
	"sort"

	"github.com/google/uuid"
	"golang.org/x/exp/maps"

	"github.com/tesseract-mc/tesseract/server/protocol"
	"github.com/tesseract-mc/tesseract/server/protocol/packet"
	"github.com/tesseract-mc/tesseract/server/world"
	"github.com/tesseract-mc/tesseract/server/world/chunk"
)

// Viewer is a connection subscribing to a Tracker's area of interest: it
// can be sent packets and carries the Actor whose position the subscription
// window follows.
type Viewer interface {
	Send(p packet.Packet)
	Actor() *world.Actor
}

// chunkState is the replication bookkeeping for one chunk column, distinct
// from world.ChunkHandle's subscriber set: a chunk can be subscribed here
// before it has terrain (awaiting generation) and tracks which actors have
// actually been announced to which viewers, not just which viewers want it.
type chunkState struct {
	subscribers      map[Viewer]struct{}
	replicatedActors map[*world.Actor]struct{}
	terrainSent      bool
}

func newChunkState() *chunkState {
	return &chunkState{
		subscribers:      make(map[Viewer]struct{}),
		replicatedActors: make(map[*world.Actor]struct{}),
	}
}

// viewerState is a viewer's last computed subscription window, kept so the
// next UpdateView call can diff against it rather than recomputing from
// scratch.
type viewerState struct {
	center ChunkPos
	radius int32
	window map[ChunkPos]struct{}
}

// EntityLookup resolves the wire identity (network entity id, UUID, and
// whether the entity is itself a player) of an actor, since Tracker's world
// package dependency carries no entity-id allocation of its own.
type EntityLookup interface {
	EntityID(actor *world.Actor) int32
	EntityUUID(actor *world.Actor) uuid.UUID
	IsPlayer(actor *world.Actor) bool
}

// Tracker drives area-of-interest replication for every viewer subscribed
// to one World: it turns (center, radius) window changes, newly generated
// terrain, per-tick block deltas and actor movement into the packet
// sequences described for area-of-interest replication.
type Tracker struct {
	world   *world.World
	air     uint32
	lookup  EntityLookup
	chunks  map[ChunkPos]*chunkState
	viewers map[Viewer]*viewerState
}

// NewTracker constructs a Tracker over w. air is the block state id used to
// compute non-air block counts when serializing chunk sections.
func NewTracker(w *world.World, air uint32, lookup EntityLookup) *Tracker {
	return &Tracker{
		world:   w,
		air:     air,
		lookup:  lookup,
		chunks:  make(map[ChunkPos]*chunkState),
		viewers: make(map[Viewer]*viewerState),
	}
}

// ViewerWindow reports the (center, radius) a viewer last called UpdateView
// with.
func (t *Tracker) ViewerWindow(viewer Viewer) (center ChunkPos, radius int32, ok bool) {
	vs, ok := t.viewers[viewer]
	if !ok {
		return ChunkPos{}, 0, false
	}
	return vs.center, vs.radius, true
}

func (t *Tracker) state(pos ChunkPos) *chunkState {
	cs, ok := t.chunks[pos]
	if !ok {
		cs = newChunkState()
		t.chunks[pos] = cs
	}
	return cs
}

func toSet(positions []ChunkPos) map[ChunkPos]struct{} {
	set := make(map[ChunkPos]struct{}, len(positions))
	for _, p := range positions {
		set[p] = struct{}{}
	}
	return set
}

// UpdateView recomputes viewer's subscription window around center with the
// given radius, releasing chunks that fell out of the window and acquiring
// ones that entered it. Released chunks are told to forget already-replicated
// actors before the chunk itself is forgotten; acquired chunks with terrain
// already generated get that terrain plus their already-replicated actors
// immediately, matching the release-then-acquire ordering required per
// tick.
func (t *Tracker) UpdateView(viewer Viewer, center ChunkPos, radius int32) {
	vs, ok := t.viewers[viewer]
	if !ok {
		vs = &viewerState{window: make(map[ChunkPos]struct{})}
		t.viewers[viewer] = vs
	}
	vs.center = center
	vs.radius = radius

	newWindow := toSet(Spiral(center, radius))

	released := maps.Keys(vs.window)
	sort.Slice(released, func(i, j int) bool {
		if released[i].X != released[j].X {
			return released[i].X < released[j].X
		}
		return released[i].Z < released[j].Z
	})
	for _, pos := range released {
		if _, stillIn := newWindow[pos]; stillIn {
			continue
		}
		t.release(viewer, pos)
	}

	for _, pos := range Spiral(center, radius) {
		if _, already := vs.window[pos]; already {
			continue
		}
		t.acquire(viewer, pos)
	}

	vs.window = newWindow
	viewer.Send(&packet.SetChunkCacheCenter{ChunkX: center.X, ChunkZ: center.Z})
}

// RemoveViewer releases every chunk in viewer's current window and drops
// its tracked state, for use when a connection disconnects.
func (t *Tracker) RemoveViewer(viewer Viewer) {
	vs, ok := t.viewers[viewer]
	if !ok {
		return
	}
	for pos := range vs.window {
		t.release(viewer, pos)
	}
	delete(t.viewers, viewer)
}

// release unsubscribes viewer from pos: its already-replicated actors are
// despawned on viewer first, then the chunk itself is forgotten.
func (t *Tracker) release(viewer Viewer, pos ChunkPos) {
	cs := t.state(pos)
	delete(cs.subscribers, viewer)

	ids := make([]int32, 0, len(cs.replicatedActors))
	for actor := range cs.replicatedActors {
		ids = append(ids, t.lookup.EntityID(actor))
	}
	if len(ids) > 0 {
		viewer.Send(&packet.RemoveEntities{EntityIDs: ids})
	}
	viewer.Send(&packet.ForgetLevelChunk{ChunkX: pos.X, ChunkZ: pos.Z})

	if len(cs.subscribers) == 0 && len(cs.replicatedActors) == 0 {
		delete(t.chunks, pos)
		t.world.Evict(pos.X, pos.Z)
	}
}

// acquire subscribes viewer to pos. If the chunk already has generated
// terrain it is sent immediately, followed by spawn packets for any actor
// already replicated into that chunk; otherwise the acquisition is deferred
// until TerrainReady reports the chunk's generation completed.
func (t *Tracker) acquire(viewer Viewer, pos ChunkPos) {
	cs := t.state(pos)
	cs.subscribers[viewer] = struct{}{}

	handle := t.world.Chunk(pos.X, pos.Z)
	if handle.Requested() {
		return
	}
	t.sendTerrain(viewer, pos, handle.Column())
	for actor := range cs.replicatedActors {
		t.sendSpawn(viewer, actor)
	}
}

func (t *Tracker) sendTerrain(viewer Viewer, pos ChunkPos, column *chunk.Column) {
	data, err := column.Encode(t.air)
	if err != nil {
		return
	}
	viewer.Send(&packet.LevelChunkWithLight{
		ChunkX:     pos.X,
		ChunkZ:     pos.Z,
		Heightmaps: chunk.Heightmaps(),
		Data:       data,
	})
}

func (t *Tracker) sendSpawn(viewer Viewer, actor *world.Actor) {
	p := actor.Position()
	id := t.lookup.EntityID(actor)
	u := t.lookup.EntityUUID(actor)
	if t.lookup.IsPlayer(actor) {
		viewer.Send(&packet.AddPlayer{EntityID: id, UUID: u, X: p.X(), Y: p.Y(), Z: p.Z()})
		return
	}
	viewer.Send(&packet.AddEntity{EntityID: id, UUID: u, X: p.X(), Y: p.Y(), Z: p.Z()})
}

// TerrainReady is called once a chunk finishes generation or loading: every
// viewer already subscribed to it but waiting on terrain receives the chunk
// now, fulfilling the deferred half of acquire.
func (t *Tracker) TerrainReady(pos ChunkPos) {
	cs, ok := t.chunks[pos]
	if !ok || cs.terrainSent {
		return
	}
	cs.terrainSent = true

	handle := t.world.Chunk(pos.X, pos.Z)
	column := handle.Column()
	for viewer := range cs.subscribers {
		t.sendTerrain(viewer, pos, column)
	}
}

// AddActor introduces actor, positioned in chunk pos, to every viewer
// already subscribed there, and records it as replicated for future
// acquisitions of that chunk.
func (t *Tracker) AddActor(pos ChunkPos, actor *world.Actor) {
	cs := t.state(pos)
	cs.replicatedActors[actor] = struct{}{}
	for viewer := range cs.subscribers {
		if viewer.Actor() == actor {
			continue
		}
		t.sendSpawn(viewer, actor)
	}
}

// RemoveActor despawns actor from every viewer subscribed to pos and drops
// it from that chunk's replicated set.
func (t *Tracker) RemoveActor(pos ChunkPos, actor *world.Actor) {
	cs, ok := t.chunks[pos]
	if !ok {
		return
	}
	delete(cs.replicatedActors, actor)
	id := t.lookup.EntityID(actor)
	for viewer := range cs.subscribers {
		if viewer.Actor() == actor {
			continue
		}
		viewer.Send(&packet.RemoveEntities{EntityIDs: []int32{id}})
	}
}

// MoveActor announces actor's new position to every viewer subscribed to
// its current chunk, and its new head yaw alongside it.
func (t *Tracker) MoveActor(pos ChunkPos, actor *world.Actor, yaw, pitch, headYaw float32) {
	cs, ok := t.chunks[pos]
	if !ok {
		return
	}
	p := actor.Position()
	id := t.lookup.EntityID(actor)
	for viewer := range cs.subscribers {
		if viewer.Actor() == actor {
			continue
		}
		viewer.Send(&packet.TeleportEntity{EntityID: id, X: p.X(), Y: p.Y(), Z: p.Z(), Yaw: yaw, Pitch: pitch})
		viewer.Send(&packet.RotateHead{EntityID: id, HeadYaw: headYaw})
	}
}

// FlushBlockChanges emits one SectionBlocksUpdate per dirty section in
// column to every viewer subscribed to pos, then clears the sections'
// change-sets. Called once per tick, after actor acquisition/release and
// before the next tick's movement deltas are computed.
func (t *Tracker) FlushBlockChanges(pos ChunkPos, column *chunk.Column) {
	cs, ok := t.chunks[pos]
	if !ok || len(cs.subscribers) == 0 {
		for _, section := range column.Sections {
			section.FlushChanges()
		}
		return
	}

	for sectionIdx, section := range column.Sections {
		indices := section.Changed()
		if len(indices) == 0 {
			continue
		}
		sectionY := int32(sectionIdx) + column.YOffset
		updates := make([]protocol.SectionBlockUpdate, 0, len(indices))
		for _, idx := range indices {
			x := uint8(idx & 0xF)
			z := uint8((idx >> 4) & 0xF)
			y := uint8(idx >> 8)
			updates = append(updates, protocol.SectionBlockUpdate{X: x, Y: y, Z: z, State: int64(section.Block(x, int32(y), z))})
		}
		p := &packet.SectionBlocksUpdate{
			Section: protocol.SectionPos{X: pos.X, Y: sectionY, Z: pos.Z},
			Blocks:  updates,
		}
		for viewer := range cs.subscribers {
			viewer.Send(p)
		}
		section.FlushChanges()
	}
}
