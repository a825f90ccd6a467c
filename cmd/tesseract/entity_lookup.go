package main

import (
	"github.com/google/uuid"

	"github.com/tesseract-mc/tesseract/server/world"
)

// entityLookup resolves the network identity of a world actor for
// replication.Tracker. It is only ever touched while the server's mu is
// held, so it carries no lock of its own.
type entityLookup struct {
	nextID  int32
	ids     map[*world.Actor]int32
	uuids   map[*world.Actor]uuid.UUID
	players map[*world.Actor]bool
}

func newEntityLookup() *entityLookup {
	return &entityLookup{
		ids:     make(map[*world.Actor]int32),
		uuids:   make(map[*world.Actor]uuid.UUID),
		players: make(map[*world.Actor]bool),
	}
}

// register allocates a fresh network entity id for actor and records its
// UUID and player-ness.
func (l *entityLookup) register(actor *world.Actor, id uuid.UUID, isPlayer bool) int32 {
	l.nextID++
	eid := l.nextID
	l.ids[actor] = eid
	l.uuids[actor] = id
	l.players[actor] = isPlayer
	return eid
}

func (l *entityLookup) unregister(actor *world.Actor) {
	delete(l.ids, actor)
	delete(l.uuids, actor)
	delete(l.players, actor)
}

func (l *entityLookup) EntityID(actor *world.Actor) int32       { return l.ids[actor] }
func (l *entityLookup) EntityUUID(actor *world.Actor) uuid.UUID { return l.uuids[actor] }
func (l *entityLookup) IsPlayer(actor *world.Actor) bool        { return l.players[actor] }
