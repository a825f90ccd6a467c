// Package world holds the chunk map and actor-to-chunk membership tracking
// for a single dimension: chunk lookup by (x, z), lifecycle (create on
// demand, retain while subscribed, evict once idle), and the bookkeeping
// that moves an actor between chunks as it crosses chunk boundaries.
package world

import (
	"sync"

	"github.com/brentp/intintmap"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/tesseract-mc/tesseract/server/world/chunk"
)

// chunkPos packs a chunk's (x, z) into the single int64 key intintmap
// indexes on.
func chunkPos(x, z int32) int64 {
	return int64(x)<<32 | int64(uint32(z))
}

// ChunkXZ returns the (x, z) a world uses to key a column at the block
// position (x, z): floor division by 16.
func ChunkXZ(blockX, blockZ int32) (int32, int32) {
	return blockX >> 4, blockZ >> 4
}

// ChunkHandle owns one Column plus the set of Actors subscribed to it. A
// chunk is retained while its subscriber set is non-empty; once it drops to
// zero it becomes eligible for eviction.
type ChunkHandle struct {
	mu          sync.RWMutex
	column      *chunk.Column
	subscribers map[*Actor]struct{}
	requested   bool
}

// Column returns the handle's backing chunk data.
func (h *ChunkHandle) Column() *chunk.Column {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.column
}

// SetColumn installs freshly generated or loaded data into a previously
// empty/requested handle.
func (h *ChunkHandle) SetColumn(c *chunk.Column) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.column = c
	h.requested = false
}

// Requested reports whether the handle is a placeholder awaiting
// generation or disk load.
func (h *ChunkHandle) Requested() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.requested
}

// Subscribe adds actor to the handle's subscriber set.
func (h *ChunkHandle) Subscribe(actor *Actor) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscribers[actor] = struct{}{}
}

// Unsubscribe removes actor from the handle's subscriber set and reports
// whether the set is now empty (i.e. the chunk is eviction-eligible).
func (h *ChunkHandle) Unsubscribe(actor *Actor) (empty bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subscribers, actor)
	return len(h.subscribers) == 0
}

// Subscribers returns a snapshot of the handle's current subscriber set.
func (h *ChunkHandle) Subscribers() []*Actor {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*Actor, 0, len(h.subscribers))
	for a := range h.subscribers {
		out = append(out, a)
	}
	return out
}

// Actor is anything with a position tracked by a World's chunk membership
// (a player session, an entity). Actor itself carries no replication logic;
// package replication drives subscription windows on top of it.
type Actor struct {
	mu       sync.Mutex
	position mgl64.Vec3
	chunkX   int32
	chunkZ   int32
	inWorld  bool
}

// NewActor constructs an actor not yet attached to any chunk.
func NewActor() *Actor {
	return &Actor{}
}

// Position returns the actor's last recorded position.
func (a *Actor) Position() mgl64.Vec3 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.position
}

// World owns the chunk map for one dimension. Lookups key on packed
// (x, z) via intintmap for O(1) average-case access without the overhead
// of a map[[2]int32]*ChunkHandle's interface-keyed hashing.
type World struct {
	mu       sync.RWMutex
	index    *intintmap.Map
	handles  []*ChunkHandle
	freeList []int64

	sectionCount int
	yOffset      int32
	air          uint32
	defaultBiome uint32
}

// New constructs an empty World. sectionCount and yOffset describe the
// dimension's vertical extent (e.g. 24 sections, yOffset -4 for the
// overworld's y in [-64, 320)).
func New(sectionCount int, yOffset int32, air, defaultBiome uint32) *World {
	return &World{
		index:        intintmap.New(1024, 0.75),
		sectionCount: sectionCount,
		yOffset:      yOffset,
		air:          air,
		defaultBiome: defaultBiome,
	}
}

// Chunk returns the handle for chunk (x, z), creating and marking it
// requested if it does not yet exist.
func (w *World) Chunk(x, z int32) *ChunkHandle {
	key := chunkPos(x, z)

	w.mu.RLock()
	if idx, ok := w.index.Get(key); ok {
		h := w.handles[idx]
		w.mu.RUnlock()
		return h
	}
	w.mu.RUnlock()

	w.mu.Lock()
	defer w.mu.Unlock()
	if idx, ok := w.index.Get(key); ok {
		return w.handles[idx]
	}
	h := &ChunkHandle{
		subscribers: make(map[*Actor]struct{}),
		requested:   true,
	}

	if n := len(w.freeList); n > 0 {
		idx := w.freeList[n-1]
		w.freeList = w.freeList[:n-1]
		w.handles[idx] = h
		w.index.Put(key, idx)
		return h
	}

	w.handles = append(w.handles, h)
	w.index.Put(key, int64(len(w.handles)-1))
	return h
}

// Generate installs an empty, fully generated column into chunk (x, z),
// clearing its requested flag.
func (w *World) Generate(x, z int32) *ChunkHandle {
	h := w.Chunk(x, z)
	h.SetColumn(chunk.NewColumn(x, z, w.sectionCount, w.yOffset, w.air, w.defaultBiome))
	return h
}

// MoveActor updates actor's tracked chunk membership for a move to pos,
// unsubscribing it from its previous chunk and subscribing it to the new
// one whenever the move crosses a chunk boundary. It reports the previous
// chunk's handle when a boundary crossing made that chunk subscriber-empty,
// so the caller can evict it.
func (w *World) MoveActor(actor *Actor, pos mgl64.Vec3) (vacated *ChunkHandle, crossedBoundary bool) {
	x, z := ChunkXZ(int32(pos.X()), int32(pos.Z()))

	actor.mu.Lock()
	prevX, prevZ, wasInWorld := actor.chunkX, actor.chunkZ, actor.inWorld
	actor.position = pos
	actor.chunkX, actor.chunkZ, actor.inWorld = x, z, true
	actor.mu.Unlock()

	if wasInWorld && prevX == x && prevZ == z {
		return nil, false
	}

	newHandle := w.Chunk(x, z)
	newHandle.Subscribe(actor)

	if !wasInWorld {
		return nil, true
	}

	oldHandle := w.Chunk(prevX, prevZ)
	if oldHandle.Unsubscribe(actor) {
		return oldHandle, true
	}
	return nil, true
}

// RemoveActor detaches actor from whichever chunk it currently occupies. It
// reports the handle when removal left that chunk subscriber-empty.
func (w *World) RemoveActor(actor *Actor) (vacated *ChunkHandle) {
	actor.mu.Lock()
	x, z, wasInWorld := actor.chunkX, actor.chunkZ, actor.inWorld
	actor.inWorld = false
	actor.mu.Unlock()

	if !wasInWorld {
		return nil
	}
	h := w.Chunk(x, z)
	if h.Unsubscribe(actor) {
		return h
	}
	return nil
}

// Evict removes chunk (x, z) from the world's index if it is currently
// subscriber-empty. Returns false (a no-op) if the chunk gained a
// subscriber between the caller observing it empty and calling Evict.
func (w *World) Evict(x, z int32) bool {
	key := chunkPos(x, z)

	w.mu.Lock()
	defer w.mu.Unlock()
	idx, ok := w.index.Get(key)
	if !ok {
		return false
	}
	h := w.handles[idx]
	if len(h.Subscribers()) != 0 {
		return false
	}
	w.index.Remove(key)
	w.handles[idx] = nil
	w.freeList = append(w.freeList, idx)
	return true
}

// Loaded reports whether chunk (x, z) currently has a handle in the index
// (requested or fully loaded).
func (w *World) Loaded(x, z int32) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.index.Get(chunkPos(x, z))
	return ok
}
