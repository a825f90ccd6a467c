package replication

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tesseract-mc/tesseract/server/protocol/packet"
	"github.com/tesseract-mc/tesseract/server/world"
)

type fakeViewer struct {
	name  string
	actor *world.Actor
	sent  []packet.Packet
}

func newFakeViewer(name string, actor *world.Actor) *fakeViewer {
	return &fakeViewer{name: name, actor: actor}
}

func (v *fakeViewer) Send(p packet.Packet) { v.sent = append(v.sent, p) }
func (v *fakeViewer) Actor() *world.Actor  { return v.actor }

func packetsOfType[T packet.Packet](v *fakeViewer) []T {
	var out []T
	for _, p := range v.sent {
		if t, ok := p.(T); ok {
			out = append(out, t)
		}
	}
	return out
}

type fakeLookup struct {
	ids     map[*world.Actor]int32
	uuids   map[*world.Actor]uuid.UUID
	players map[*world.Actor]bool
}

func newFakeLookup() *fakeLookup {
	return &fakeLookup{
		ids:     make(map[*world.Actor]int32),
		uuids:   make(map[*world.Actor]uuid.UUID),
		players: make(map[*world.Actor]bool),
	}
}

func (l *fakeLookup) add(actor *world.Actor, id int32, isPlayer bool) {
	l.ids[actor] = id
	l.uuids[actor] = uuid.New()
	l.players[actor] = isPlayer
}

func (l *fakeLookup) EntityID(actor *world.Actor) int32       { return l.ids[actor] }
func (l *fakeLookup) EntityUUID(actor *world.Actor) uuid.UUID { return l.uuids[actor] }
func (l *fakeLookup) IsPlayer(actor *world.Actor) bool        { return l.players[actor] }

func newTestTracker() (*Tracker, *world.World, *fakeLookup) {
	w := world.New(1, 0, 0 /* air */, 0 /* default biome */)
	lookup := newFakeLookup()
	return NewTracker(w, 0, lookup), w, lookup
}

func TestUpdateViewSendsTerrainForGeneratedChunk(t *testing.T) {
	tr, w, _ := newTestTracker()
	w.Generate(0, 0)

	viewer := newFakeViewer("v", world.NewActor())
	tr.UpdateView(viewer, ChunkPos{0, 0}, 1)

	chunks := packetsOfType[*packet.LevelChunkWithLight](viewer)
	require.Len(t, chunks, 1)
	require.Equal(t, int32(0), chunks[0].ChunkX)
	require.Equal(t, int32(0), chunks[0].ChunkZ)

	centers := packetsOfType[*packet.SetChunkCacheCenter](viewer)
	require.Len(t, centers, 1)
}

func TestUpdateViewDefersUngeneratedChunkUntilTerrainReady(t *testing.T) {
	tr, _, _ := newTestTracker()

	viewer := newFakeViewer("v", world.NewActor())
	tr.UpdateView(viewer, ChunkPos{0, 0}, 1)
	require.Empty(t, packetsOfType[*packet.LevelChunkWithLight](viewer))

	tr.world.Generate(0, 0)
	tr.TerrainReady(ChunkPos{0, 0})
	require.Len(t, packetsOfType[*packet.LevelChunkWithLight](viewer), 1)
}

func TestUpdateViewReleasesChunksOutsideNewWindow(t *testing.T) {
	tr, w, _ := newTestTracker()
	w.Generate(0, 0)
	w.Generate(100, 100)

	viewer := newFakeViewer("v", world.NewActor())
	tr.UpdateView(viewer, ChunkPos{0, 0}, 1)
	require.Empty(t, packetsOfType[*packet.ForgetLevelChunk](viewer))

	tr.UpdateView(viewer, ChunkPos{100, 100}, 1)
	forgotten := packetsOfType[*packet.ForgetLevelChunk](viewer)
	require.Len(t, forgotten, 1)
	require.Equal(t, int32(0), forgotten[0].ChunkX)

	acquired := packetsOfType[*packet.LevelChunkWithLight](viewer)
	require.Len(t, acquired, 2) // original acquire + new acquire
	require.Equal(t, int32(100), acquired[1].ChunkX)
}

func TestAddActorSpawnsToSubscribedViewer(t *testing.T) {
	tr, w, lookup := newTestTracker()
	w.Generate(0, 0)

	observer := newFakeViewer("observer", world.NewActor())
	tr.UpdateView(observer, ChunkPos{0, 0}, 1)

	newcomer := world.NewActor()
	lookup.add(newcomer, 42, false)
	tr.AddActor(ChunkPos{0, 0}, newcomer)

	spawns := packetsOfType[*packet.AddEntity](observer)
	require.Len(t, spawns, 1)
	require.Equal(t, int32(42), spawns[0].EntityID)
}

func TestAddActorSkipsSelfView(t *testing.T) {
	tr, w, lookup := newTestTracker()
	w.Generate(0, 0)

	actor := world.NewActor()
	lookup.add(actor, 1, true)
	viewer := newFakeViewer("self", actor)
	tr.UpdateView(viewer, ChunkPos{0, 0}, 1)

	tr.AddActor(ChunkPos{0, 0}, actor)
	require.Empty(t, packetsOfType[*packet.AddPlayer](viewer))
}

func TestRemoveActorDespawnsFromSubscribedViewer(t *testing.T) {
	tr, w, lookup := newTestTracker()
	w.Generate(0, 0)

	observer := newFakeViewer("observer", world.NewActor())
	tr.UpdateView(observer, ChunkPos{0, 0}, 1)

	actor := world.NewActor()
	lookup.add(actor, 7, false)
	tr.AddActor(ChunkPos{0, 0}, actor)
	tr.RemoveActor(ChunkPos{0, 0}, actor)

	removals := packetsOfType[*packet.RemoveEntities](observer)
	require.Len(t, removals, 1)
	require.Equal(t, []int32{7}, removals[0].EntityIDs)
}

func TestMoveActorSendsTeleportAndRotateHead(t *testing.T) {
	tr, w, lookup := newTestTracker()
	w.Generate(0, 0)

	observer := newFakeViewer("observer", world.NewActor())
	tr.UpdateView(observer, ChunkPos{0, 0}, 1)

	actor := world.NewActor()
	lookup.add(actor, 9, true)
	tr.AddActor(ChunkPos{0, 0}, actor)

	tr.MoveActor(ChunkPos{0, 0}, actor, 90, 0, 90)

	require.Len(t, packetsOfType[*packet.TeleportEntity](observer), 1)
	require.Len(t, packetsOfType[*packet.RotateHead](observer), 1)
}

func TestFlushBlockChangesEmitsSectionBlocksUpdatePerDirtySection(t *testing.T) {
	tr, w, _ := newTestTracker()
	handle := w.Generate(0, 0)

	observer := newFakeViewer("observer", world.NewActor())
	tr.UpdateView(observer, ChunkPos{0, 0}, 1)

	column := handle.Column()
	column.SetBlock(1, 2, 3, 99)

	tr.FlushBlockChanges(ChunkPos{0, 0}, column)

	updates := packetsOfType[*packet.SectionBlocksUpdate](observer)
	require.Len(t, updates, 1)
	require.Len(t, updates[0].Blocks, 1)
	require.Equal(t, int64(99), updates[0].Blocks[0].State)

	require.Empty(t, column.Sections[0].Changed())
}

func TestRemoveViewerReleasesEntireWindow(t *testing.T) {
	tr, w, _ := newTestTracker()
	w.Generate(0, 0)

	viewer := newFakeViewer("v", world.NewActor())
	tr.UpdateView(viewer, ChunkPos{0, 0}, 1)
	tr.RemoveViewer(viewer)

	require.Len(t, packetsOfType[*packet.ForgetLevelChunk](viewer), 1)
	_, _, ok := tr.ViewerWindow(viewer)
	require.False(t, ok)
}
