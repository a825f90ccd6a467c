package packet

import (
	"github.com/google/uuid"
	"github.com/tesseract-mc/tesseract/server/nbt"
	"github.com/tesseract-mc/tesseract/server/protocol"
)

// Login is the first Play packet, establishing world identity, gameplay
// mode and the dimension/biome registry the client must use to interpret
// every chunk that follows.
type Login struct {
	EntityID            int32
	IsHardcore          bool
	Gamemode            uint8
	PreviousGamemode    int8
	DimensionNames      []string
	RegistryCodec       *nbt.Compound
	DimensionType       string
	DimensionName       string
	HashedSeed          int64
	MaxPlayers          int32
	ViewDistance        int32
	SimulationDistance  int32
	ReducedDebugInfo    bool
	EnableRespawnScreen bool
	IsDebug             bool
	IsFlat              bool
	HasDeathLocation    bool
	DeathDimension      string
	DeathLocation       protocol.BlockPos
	PortalCooldown      int32
}

var _ Packet = (*Login)(nil)

func (*Login) ID() int32 { return 0x25 }

func (p *Login) Encode(w *protocol.Writer) {
	w.Int32(p.EntityID)
	w.Bool(p.IsHardcore)
	w.Uint8(p.Gamemode)
	w.Int8(p.PreviousGamemode)
	w.VarInt32(int32(len(p.DimensionNames)))
	for _, name := range p.DimensionNames {
		w.String(name)
	}
	w.NBT(p.RegistryCodec)
	w.String(p.DimensionType)
	w.String(p.DimensionName)
	w.Int64(p.HashedSeed)
	w.VarInt32(p.MaxPlayers)
	w.VarInt32(p.ViewDistance)
	w.VarInt32(p.SimulationDistance)
	w.Bool(p.ReducedDebugInfo)
	w.Bool(p.EnableRespawnScreen)
	w.Bool(p.IsDebug)
	w.Bool(p.IsFlat)
	w.Bool(p.HasDeathLocation)
	if p.HasDeathLocation {
		w.String(p.DeathDimension)
		w.BlockPos(p.DeathLocation)
	}
	w.VarInt32(p.PortalCooldown)
}

func (p *Login) Decode(r *protocol.Reader) {
	p.EntityID = r.Int32()
	p.IsHardcore = r.Bool()
	p.Gamemode = r.Uint8()
	p.PreviousGamemode = r.Int8()
	n := r.VarInt32()
	p.DimensionNames = make([]string, n)
	for i := range p.DimensionNames {
		p.DimensionNames[i] = r.String()
	}
	p.RegistryCodec = r.NBT()
	p.DimensionType = r.String()
	p.DimensionName = r.String()
	p.HashedSeed = r.Int64()
	p.MaxPlayers = r.VarInt32()
	p.ViewDistance = r.VarInt32()
	p.SimulationDistance = r.VarInt32()
	p.ReducedDebugInfo = r.Bool()
	p.EnableRespawnScreen = r.Bool()
	p.IsDebug = r.Bool()
	p.IsFlat = r.Bool()
	p.HasDeathLocation = r.Bool()
	if p.HasDeathLocation {
		p.DeathDimension = r.String()
		p.DeathLocation = r.BlockPos()
	}
	p.PortalCooldown = r.VarInt32()
}

// SetDefaultSpawnPosition tells the client where compasses and the respawn
// point default to.
type SetDefaultSpawnPosition struct {
	Location protocol.BlockPos
	Angle    float32
}

var _ Packet = (*SetDefaultSpawnPosition)(nil)

func (*SetDefaultSpawnPosition) ID() int32 { return 0x4B }

func (p *SetDefaultSpawnPosition) Encode(w *protocol.Writer) {
	w.BlockPos(p.Location)
	w.Float32(p.Angle)
}

func (p *SetDefaultSpawnPosition) Decode(r *protocol.Reader) {
	p.Location = r.BlockPos()
	p.Angle = r.Float32()
}

// PlayerPositionFlags marks which of PlayerPosition's fields are relative
// offsets from the client's current position rather than absolutes.
type PlayerPositionFlags uint8

const (
	PlayerPositionRelativeX PlayerPositionFlags = 1 << iota
	PlayerPositionRelativeY
	PlayerPositionRelativeZ
	PlayerPositionRelativeYaw
	PlayerPositionRelativePitch
)

// PlayerPosition teleports the client and must be acknowledged with a
// TeleportConfirm carrying the same TeleportID.
type PlayerPosition struct {
	X, Y, Z    float64
	Yaw, Pitch float32
	Flags      PlayerPositionFlags
	TeleportID int32
}

var _ Packet = (*PlayerPosition)(nil)

func (*PlayerPosition) ID() int32 { return 0x3C }

func (p *PlayerPosition) Encode(w *protocol.Writer) {
	w.Float64(p.X)
	w.Float64(p.Y)
	w.Float64(p.Z)
	w.Float32(p.Yaw)
	w.Float32(p.Pitch)
	w.Uint8(uint8(p.Flags))
	w.VarInt32(p.TeleportID)
}

func (p *PlayerPosition) Decode(r *protocol.Reader) {
	p.X = r.Float64()
	p.Y = r.Float64()
	p.Z = r.Float64()
	p.Yaw = r.Float32()
	p.Pitch = r.Float32()
	p.Flags = PlayerPositionFlags(r.Uint8())
	p.TeleportID = r.VarInt32()
}

// SetChunkCacheCenter tells the client which chunk its view-distance window
// is now centered on, so it can discard chunks outside the new square
// without waiting for explicit ForgetLevelChunk packets.
type SetChunkCacheCenter struct {
	ChunkX, ChunkZ int32
}

var _ Packet = (*SetChunkCacheCenter)(nil)

func (*SetChunkCacheCenter) ID() int32 { return 0x4A }

func (p *SetChunkCacheCenter) Encode(w *protocol.Writer) {
	w.VarInt32(p.ChunkX)
	w.VarInt32(p.ChunkZ)
}

func (p *SetChunkCacheCenter) Decode(r *protocol.Reader) {
	p.ChunkX = r.VarInt32()
	p.ChunkZ = r.VarInt32()
}

// LevelChunkWithLight ships one chunk column's full block and biome data
// plus its light arrays. Data is the pre-encoded section payload produced
// by the chunk package (paletted containers back to back).
type LevelChunkWithLight struct {
	ChunkX, ChunkZ int32
	Heightmaps     *nbt.Compound
	Data           []byte
	BlockEntities  []byte // pre-encoded list; empty when the chunk has none
	SkyLightMask   []int64
	BlockLightMask []int64
	EmptySkyMask   []int64
	EmptyBlockMask []int64
	SkyLight       [][]byte
	BlockLight     [][]byte
}

var _ Packet = (*LevelChunkWithLight)(nil)

func (*LevelChunkWithLight) ID() int32 { return 0x21 }

func (p *LevelChunkWithLight) Encode(w *protocol.Writer) {
	w.Int32(p.ChunkX)
	w.Int32(p.ChunkZ)
	w.NBT(p.Heightmaps)
	w.ByteArray(p.Data)
	w.VarInt32(int32(len(p.BlockEntities)))
	w.Bytes(p.BlockEntities)
	w.Bool(true) // trust edges
	writeLongArray(w, p.SkyLightMask)
	writeLongArray(w, p.BlockLightMask)
	writeLongArray(w, p.EmptySkyMask)
	writeLongArray(w, p.EmptyBlockMask)
	w.VarInt32(int32(len(p.SkyLight)))
	for _, section := range p.SkyLight {
		w.ByteArray(section)
	}
	w.VarInt32(int32(len(p.BlockLight)))
	for _, section := range p.BlockLight {
		w.ByteArray(section)
	}
}

func (p *LevelChunkWithLight) Decode(r *protocol.Reader) {
	p.ChunkX = r.Int32()
	p.ChunkZ = r.Int32()
	p.Heightmaps = r.NBT()
	p.Data = r.ByteArray()
	n := r.VarInt32()
	p.BlockEntities = r.Bytes(int(n))
	r.Bool() // trust edges
	p.SkyLightMask = readLongArray(r)
	p.BlockLightMask = readLongArray(r)
	p.EmptySkyMask = readLongArray(r)
	p.EmptyBlockMask = readLongArray(r)
	skyCount := r.VarInt32()
	p.SkyLight = make([][]byte, skyCount)
	for i := range p.SkyLight {
		p.SkyLight[i] = r.ByteArray()
	}
	blockCount := r.VarInt32()
	p.BlockLight = make([][]byte, blockCount)
	for i := range p.BlockLight {
		p.BlockLight[i] = r.ByteArray()
	}
}

func writeLongArray(w *protocol.Writer, v []int64) {
	w.VarInt32(int32(len(v)))
	for _, x := range v {
		w.Int64(x)
	}
}

func readLongArray(r *protocol.Reader) []int64 {
	n := r.VarInt32()
	out := make([]int64, n)
	for i := range out {
		out[i] = r.Int64()
	}
	return out
}

// ForgetLevelChunk tells the client to unload a chunk column outright.
type ForgetLevelChunk struct {
	ChunkX, ChunkZ int32
}

var _ Packet = (*ForgetLevelChunk)(nil)

func (*ForgetLevelChunk) ID() int32 { return 0x1D }

func (p *ForgetLevelChunk) Encode(w *protocol.Writer) {
	w.Int32(p.ChunkX)
	w.Int32(p.ChunkZ)
}

func (p *ForgetLevelChunk) Decode(r *protocol.Reader) {
	p.ChunkX = r.Int32()
	p.ChunkZ = r.Int32()
}

// AddEntity spawns a non-player entity on the client.
type AddEntity struct {
	EntityID                        int32
	UUID                            uuid.UUID
	Type                            int32
	X, Y, Z                         float64
	Pitch, Yaw, HeadYaw             float32
	Data                            int32
	VelocityX, VelocityY, VelocityZ int16
}

var _ Packet = (*AddEntity)(nil)

func (*AddEntity) ID() int32 { return 0x00 }

func (p *AddEntity) Encode(w *protocol.Writer) {
	w.VarInt32(p.EntityID)
	w.UUID(p.UUID)
	w.VarInt32(p.Type)
	w.Float64(p.X)
	w.Float64(p.Y)
	w.Float64(p.Z)
	w.Angle(p.Pitch)
	w.Angle(p.Yaw)
	w.Angle(p.HeadYaw)
	w.VarInt32(p.Data)
	w.Int16(p.VelocityX)
	w.Int16(p.VelocityY)
	w.Int16(p.VelocityZ)
}

func (p *AddEntity) Decode(r *protocol.Reader) {
	p.EntityID = r.VarInt32()
	p.UUID = r.UUID()
	p.Type = r.VarInt32()
	p.X = r.Float64()
	p.Y = r.Float64()
	p.Z = r.Float64()
	p.Pitch = r.Angle()
	p.Yaw = r.Angle()
	p.HeadYaw = r.Angle()
	p.Data = r.VarInt32()
	p.VelocityX = r.Int16()
	p.VelocityY = r.Int16()
	p.VelocityZ = r.Int16()
}

// AddPlayer spawns a player entity, whose appearance the client resolves
// from the UUID via the profile it already received through PlayerInfoUpdate.
type AddPlayer struct {
	EntityID   int32
	UUID       uuid.UUID
	X, Y, Z    float64
	Yaw, Pitch float32
}

var _ Packet = (*AddPlayer)(nil)

func (*AddPlayer) ID() int32 { return 0x02 }

func (p *AddPlayer) Encode(w *protocol.Writer) {
	w.VarInt32(p.EntityID)
	w.UUID(p.UUID)
	w.Float64(p.X)
	w.Float64(p.Y)
	w.Float64(p.Z)
	w.Angle(p.Yaw)
	w.Angle(p.Pitch)
}

func (p *AddPlayer) Decode(r *protocol.Reader) {
	p.EntityID = r.VarInt32()
	p.UUID = r.UUID()
	p.X = r.Float64()
	p.Y = r.Float64()
	p.Z = r.Float64()
	p.Yaw = r.Angle()
	p.Pitch = r.Angle()
}

// RemoveEntities despawns a batch of entities by id at once.
type RemoveEntities struct {
	EntityIDs []int32
}

var _ Packet = (*RemoveEntities)(nil)

func (*RemoveEntities) ID() int32 { return 0x3B }

func (p *RemoveEntities) Encode(w *protocol.Writer) {
	w.VarInt32(int32(len(p.EntityIDs)))
	for _, id := range p.EntityIDs {
		w.VarInt32(id)
	}
}

func (p *RemoveEntities) Decode(r *protocol.Reader) {
	n := r.VarInt32()
	p.EntityIDs = make([]int32, n)
	for i := range p.EntityIDs {
		p.EntityIDs[i] = r.VarInt32()
	}
}

// TeleportEntity snaps an already-spawned entity to an absolute position.
type TeleportEntity struct {
	EntityID   int32
	X, Y, Z    float64
	Yaw, Pitch float32
	OnGround   bool
}

var _ Packet = (*TeleportEntity)(nil)

func (*TeleportEntity) ID() int32 { return 0x64 }

func (p *TeleportEntity) Encode(w *protocol.Writer) {
	w.VarInt32(p.EntityID)
	w.Float64(p.X)
	w.Float64(p.Y)
	w.Float64(p.Z)
	w.Angle(p.Yaw)
	w.Angle(p.Pitch)
	w.Bool(p.OnGround)
}

func (p *TeleportEntity) Decode(r *protocol.Reader) {
	p.EntityID = r.VarInt32()
	p.X = r.Float64()
	p.Y = r.Float64()
	p.Z = r.Float64()
	p.Yaw = r.Angle()
	p.Pitch = r.Angle()
	p.OnGround = r.Bool()
}

// RotateHead updates just an entity's head yaw, sent alongside movement
// packets that don't themselves carry head rotation.
type RotateHead struct {
	EntityID int32
	HeadYaw  float32
}

var _ Packet = (*RotateHead)(nil)

func (*RotateHead) ID() int32 { return 0x3E }

func (p *RotateHead) Encode(w *protocol.Writer) {
	w.VarInt32(p.EntityID)
	w.Angle(p.HeadYaw)
}

func (p *RotateHead) Decode(r *protocol.Reader) {
	p.EntityID = r.VarInt32()
	p.HeadYaw = r.Angle()
}

// SectionBlocksUpdate batches every block change accumulated in one chunk
// section during a tick into a single packet.
type SectionBlocksUpdate struct {
	Section       protocol.SectionPos
	SuppressLight bool
	Blocks        []protocol.SectionBlockUpdate
}

var _ Packet = (*SectionBlocksUpdate)(nil)

func (*SectionBlocksUpdate) ID() int32 { return 0x40 }

func (p *SectionBlocksUpdate) Encode(w *protocol.Writer) {
	w.Int64(p.Section.Pack())
	w.Bool(p.SuppressLight)
	w.VarInt32(int32(len(p.Blocks)))
	for _, b := range p.Blocks {
		w.VarInt64(b.Pack())
	}
}

func (p *SectionBlocksUpdate) Decode(r *protocol.Reader) {
	p.Section = protocol.UnpackSectionPos(r.Int64())
	p.SuppressLight = r.Bool()
	n := r.VarInt32()
	p.Blocks = make([]protocol.SectionBlockUpdate, n)
	for i := range p.Blocks {
		p.Blocks[i] = protocol.UnpackSectionBlockUpdate(r.VarInt64())
	}
}

// ClientboundKeepAlive must be echoed by the client within the keep-alive
// window or the connection is dropped.
type ClientboundKeepAlive struct {
	KeepAliveID int64
}

var _ Packet = (*ClientboundKeepAlive)(nil)

func (*ClientboundKeepAlive) ID() int32 { return 0x1F }

func (p *ClientboundKeepAlive) Encode(w *protocol.Writer) { w.Int64(p.KeepAliveID) }
func (p *ClientboundKeepAlive) Decode(r *protocol.Reader) { p.KeepAliveID = r.Int64() }

// Disconnect ends the Play session with a chat-component reason.
type Disconnect struct {
	Reason string
}

var _ Packet = (*Disconnect)(nil)

func (*Disconnect) ID() int32 { return 0x19 }

func (p *Disconnect) Encode(w *protocol.Writer) { w.String(p.Reason) }
func (p *Disconnect) Decode(r *protocol.Reader) { p.Reason = r.String() }
