package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/tesseract-mc/tesseract/server/auth"
	"github.com/tesseract-mc/tesseract/server/nbt"
	"github.com/tesseract-mc/tesseract/server/protocol/packet"
	"github.com/tesseract-mc/tesseract/server/registry"
	"github.com/tesseract-mc/tesseract/server/replication"
	"github.com/tesseract-mc/tesseract/server/session"
	"github.com/tesseract-mc/tesseract/server/world"
)

// protocolVersion is the wire protocol this server speaks: Java Edition
// 1.19.4.
const protocolVersion = 762

const tickInterval = 50 * time.Millisecond

// server owns every piece of shared state a connection goroutine or the
// tick loop can touch: the world, its replication tracker, the set of live
// sessions, and the registries loaded at startup. mu serializes all of it;
// the tick loop and every connection goroutine take it for the duration of
// whatever they need to read or mutate.
type server struct {
	mu sync.Mutex

	cfg  config
	log  *slog.Logger
	keys *auth.KeyPair
	auth *auth.Client

	world         *world.World
	lookup        *entityLookup
	tracker       *replication.Tracker
	registryCodec *nbt.Compound
	blocks        *registry.BlocksReport

	sessions map[*session.Session]struct{}
}

func newServer(cfg config, log *slog.Logger) (*server, error) {
	keys, err := auth.GenerateKeyPair()
	if err != nil {
		return nil, fmt.Errorf("generate login key pair: %w", err)
	}

	blocks, err := registry.LoadBlocksReport(cfg.Data.BlocksReport)
	if err != nil {
		log.Warn("blocks report unavailable, block-state lookups will fail", "path", cfg.Data.BlocksReport, "err", err)
		blocks = nil
	}

	w := world.New(cfg.World.SectionCount, cfg.World.YOffset, cfg.World.AirState, cfg.World.DefaultBiome)
	lookup := newEntityLookup()

	srv := &server{
		cfg:           cfg,
		log:           log,
		keys:          keys,
		auth:          auth.NewClient(),
		world:         w,
		lookup:        lookup,
		registryCodec: buildRegistryCodec(),
		blocks:        blocks,
		sessions:      make(map[*session.Session]struct{}),
	}
	srv.tracker = replication.NewTracker(w, cfg.World.AirState, lookup)
	return srv, nil
}

func (srv *server) statusJSON() string {
	srv.mu.Lock()
	count := len(srv.sessions)
	srv.mu.Unlock()
	return fmt.Sprintf(
		`{"version":{"name":"1.19.4","protocol":%d},"players":{"max":20,"online":%d},"description":{"text":"tesseract"}}`,
		protocolVersion, count,
	)
}

// handleConn drives one accepted TCP connection through the Handshake
// packet and into whichever of Status or Login it selects.
func (srv *server) handleConn(conn *session.Conn) {
	defer conn.Close(nil)

	first, err := conn.ReadDirect()
	if err != nil {
		return
	}
	intent, ok := first.(*packet.Intention)
	if !ok {
		return
	}

	switch intent.Intent {
	case packet.NextStateStatus:
		conn.SetState(packet.StateStatus)
		srv.handleStatus(conn)
	case packet.NextStateLogin:
		conn.SetState(packet.StateLogin)
		srv.handleLogin(conn)
	}
}

func (srv *server) handleStatus(conn *session.Conn) {
	for {
		p, err := conn.ReadDirect()
		if err != nil {
			return
		}
		switch p := p.(type) {
		case *packet.StatusRequest:
			if err := conn.WriteDirect(&packet.StatusResponse{JSON: srv.statusJSON()}); err != nil {
				return
			}
		case *packet.PingRequest:
			conn.WriteDirect(&packet.PongResponse{Time: p.Time})
			return
		}
	}
}

func (srv *server) handleLogin(conn *session.Conn) {
	loginCfg := session.LoginConfig{
		Keys:                 srv.keys,
		Sessions:             srv.auth,
		CompressionThreshold: srv.cfg.Compression.Threshold,
		CompressionLevel:     srv.cfg.Compression.Level,
	}
	profile, err := session.PerformLogin(context.Background(), conn, loginCfg)
	if err != nil {
		srv.log.Warn("login rejected", "addr", conn.RemoteAddr(), "err", err)
		conn.WriteDirect(&packet.LoginDisconnect{Reason: fmt.Sprintf(`{"text":%q}`, err.Error())})
		return
	}

	actor := world.NewActor()
	srv.mu.Lock()
	entityID := srv.lookup.register(actor, profile.ID, true)
	sess := session.NewSession(conn, profile, actor, entityID)
	srv.sessions[sess] = struct{}{}
	srv.mu.Unlock()

	srv.log.Info("player joined", "name", profile.Name, "uuid", profile.ID, "addr", conn.RemoteAddr())

	srv.sendJoinGame(sess)

	srv.mu.Lock()
	srv.placeActor(sess, mgl64.Vec3{0, 64, 0}, 0, 0)
	srv.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := conn.Run(ctx); err != nil {
			srv.log.Debug("connection closed", "name", profile.Name, "err", err)
		}
	}()

	for p := range conn.Inbound() {
		now := time.Now()
		srv.mu.Lock()
		sess.HandlePlayPacket(p, now)
		switch p := p.(type) {
		case *packet.ServerboundMovePlayerPos:
			srv.placeActor(sess, mgl64.Vec3{p.X, p.Y, p.Z}, 0, 0)
		case *packet.ServerboundMovePlayerPosRot:
			srv.placeActor(sess, mgl64.Vec3{p.X, p.Y, p.Z}, p.Yaw, p.Pitch)
		case *packet.ClientInformation:
			srv.updateView(sess)
		}
		srv.mu.Unlock()
	}

	srv.mu.Lock()
	srv.tracker.RemoveViewer(sess)
	srv.world.RemoveActor(actor)
	srv.lookup.unregister(actor)
	delete(srv.sessions, sess)
	srv.mu.Unlock()

	srv.log.Info("player left", "name", profile.Name, "uuid", profile.ID)
}

func (srv *server) sendJoinGame(sess *session.Session) {
	sess.Send(&packet.Login{
		EntityID:            sess.EntityID(),
		Gamemode:            0,
		PreviousGamemode:    -1,
		DimensionNames:      []string{"minecraft:overworld"},
		RegistryCodec:       srv.registryCodec,
		DimensionType:       "minecraft:overworld",
		DimensionName:       "minecraft:overworld",
		MaxPlayers:          20,
		ViewDistance:        10,
		SimulationDistance:  10,
		EnableRespawnScreen: true,
	})
	sess.Send(&packet.SetDefaultSpawnPosition{})
}

// placeActor moves actor to pos, updating both the world's chunk membership
// and the replication tracker's per-chunk actor bookkeeping, including
// across a chunk-boundary crossing. Callers must hold srv.mu.
func (srv *server) placeActor(sess *session.Session, pos mgl64.Vec3, yaw, pitch float32) {
	actor := sess.Actor()
	prevPos := actor.Position()
	hadPrevious := sess.MarkPlaced()

	_, crossedBoundary := srv.world.MoveActor(actor, pos)
	newChunk := chunkOf(pos)

	switch {
	case !hadPrevious:
		srv.tracker.AddActor(newChunk, actor)
	case crossedBoundary:
		srv.tracker.RemoveActor(chunkOf(prevPos), actor)
		srv.tracker.AddActor(newChunk, actor)
	}
	srv.tracker.MoveActor(newChunk, actor, yaw, pitch, yaw)
}

func (srv *server) updateView(sess *session.Session) {
	center := chunkOf(sess.Actor().Position())
	radius := sess.ReplicationRadius()
	for _, pos := range replication.Spiral(center, radius) {
		srv.ensureGenerated(pos)
	}
	srv.tracker.UpdateView(sess, center, radius)
}

// ensureGenerated installs a flat stone floor into chunk pos the first time
// it is requested. Procedural world generation is out of scope; this is
// just enough terrain for a client to have something to stand on. Callers
// must hold srv.mu.
func (srv *server) ensureGenerated(pos replication.ChunkPos) {
	if srv.world.Loaded(pos.X, pos.Z) {
		return
	}
	handle := srv.world.Generate(pos.X, pos.Z)
	if srv.blocks == nil {
		return
	}
	state, ok := srv.blocks.DefaultState("minecraft:stone")
	if !ok {
		return
	}
	column := handle.Column()
	for x := uint8(0); x < 16; x++ {
		for z := uint8(0); z < 16; z++ {
			column.SetBlock(x, -64, z, state)
		}
	}
}

func chunkOf(pos mgl64.Vec3) replication.ChunkPos {
	x, z := world.ChunkXZ(int32(pos.X()), int32(pos.Z()))
	return replication.ChunkPos{X: x, Z: z}
}

// tick runs the server's 20Hz heartbeat: every session's keep-alive probe is
// checked once per tick. The tick loop never performs blocking I/O itself;
// Session.Send only ever queues onto a connection's bounded outbound
// channel.
func (srv *server) tick() {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for now := range ticker.C {
		srv.mu.Lock()
		for sess := range srv.sessions {
			sess.TickKeepAlive(now)
		}
		srv.mu.Unlock()
	}
}
