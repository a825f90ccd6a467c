package packet

// Pool maps a packet id to a constructor for one (State, Direction) pair.
// It lets a connection allocate the right concrete Packet before decoding a
// frame, without a giant switch statement at every call site.
type Pool map[int32]func() Packet

// pools is keyed by [State][Direction]. Handshake has no clientbound
// packets, so that slot is left nil.
var pools = map[State]map[Direction]Pool{
	StateHandshake: {
		Serverbound: Pool{
			(&Intention{}).ID(): func() Packet { return new(Intention) },
		},
	},
	StateStatus: {
		Serverbound: Pool{
			(&StatusRequest{}).ID(): func() Packet { return new(StatusRequest) },
			(&PingRequest{}).ID():   func() Packet { return new(PingRequest) },
		},
		Clientbound: Pool{
			(&StatusResponse{}).ID(): func() Packet { return new(StatusResponse) },
			(&PongResponse{}).ID():   func() Packet { return new(PongResponse) },
		},
	},
	StateLogin: {
		Serverbound: Pool{
			(&ServerboundHello{}).ID():           func() Packet { return new(ServerboundHello) },
			(&ServerboundKey{}).ID():             func() Packet { return new(ServerboundKey) },
			(&ServerboundLoginCustomQuery{}).ID(): func() Packet { return new(ServerboundLoginCustomQuery) },
		},
		Clientbound: Pool{
			(&LoginDisconnect{}).ID():             func() Packet { return new(LoginDisconnect) },
			(&EncryptionRequest{}).ID():           func() Packet { return new(EncryptionRequest) },
			(&GameProfile{}).ID():                 func() Packet { return new(GameProfile) },
			(&LoginCompression{}).ID():            func() Packet { return new(LoginCompression) },
			(&ClientboundLoginCustomQuery{}).ID(): func() Packet { return new(ClientboundLoginCustomQuery) },
		},
	},
	StatePlay: {
		Serverbound: Pool{
			(&ServerboundKeepAlive{}).ID():       func() Packet { return new(ServerboundKeepAlive) },
			(&TeleportConfirm{}).ID():            func() Packet { return new(TeleportConfirm) },
			(&ClientInformation{}).ID():          func() Packet { return new(ClientInformation) },
			(&ServerboundMovePlayerPos{}).ID():    func() Packet { return new(ServerboundMovePlayerPos) },
			(&ServerboundMovePlayerPosRot{}).ID(): func() Packet { return new(ServerboundMovePlayerPosRot) },
		},
		Clientbound: Pool{
			(&Login{}).ID():                   func() Packet { return new(Login) },
			(&SetDefaultSpawnPosition{}).ID(): func() Packet { return new(SetDefaultSpawnPosition) },
			(&PlayerPosition{}).ID():          func() Packet { return new(PlayerPosition) },
			(&SetChunkCacheCenter{}).ID():     func() Packet { return new(SetChunkCacheCenter) },
			(&LevelChunkWithLight{}).ID():     func() Packet { return new(LevelChunkWithLight) },
			(&ForgetLevelChunk{}).ID():        func() Packet { return new(ForgetLevelChunk) },
			(&AddEntity{}).ID():               func() Packet { return new(AddEntity) },
			(&AddPlayer{}).ID():               func() Packet { return new(AddPlayer) },
			(&RemoveEntities{}).ID():          func() Packet { return new(RemoveEntities) },
			(&TeleportEntity{}).ID():          func() Packet { return new(TeleportEntity) },
			(&RotateHead{}).ID():              func() Packet { return new(RotateHead) },
			(&SectionBlocksUpdate{}).ID():     func() Packet { return new(SectionBlocksUpdate) },
			(&ClientboundKeepAlive{}).ID():    func() Packet { return new(ClientboundKeepAlive) },
			(&Disconnect{}).ID():              func() Packet { return new(Disconnect) },
			(&SetEquipment{}).ID():            func() Packet { return new(SetEquipment) },
			(&PlayerInfoUpdate{}).ID():        func() Packet { return new(PlayerInfoUpdate) },
			(&UpdateRecipes{}).ID():           func() Packet { return new(UpdateRecipes) },
			(&Commands{}).ID():                func() Packet { return new(Commands) },
		},
	},
}

// New allocates the zero-value Packet registered for id under (state,
// direction), or ErrUnknownPacketID if none is registered.
func New(state State, direction Direction, id int32) (Packet, error) {
	pool, ok := pools[state][direction]
	if !ok {
		return nil, ErrUnknownPacketID
	}
	factory, ok := pool[id]
	if !ok {
		return nil, ErrUnknownPacketID
	}
	return factory(), nil
}
