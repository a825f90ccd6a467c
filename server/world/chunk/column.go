package chunk

// Block-state and biome container configuration, fixed by the wire format:
// block states pack 4096 entries (a 16x16x16 section) per section, biomes
// pack 64 entries (a 4x4x4 downsampled section).
const (
	BlockStatesPerSection = 4096
	BiomesPerSection      = 64

	blockMinBits    = 4
	blockMaxBits    = 8
	blockGlobalBits = 15

	biomeMinBits    = 3
	biomeMaxBits    = 3
	biomeGlobalBits = 6
)

// DataSection is one 16-block-tall horizontal slice of a chunk column: a
// block-state container, a biome container, and the set of block indices
// changed since the section's change-set was last flushed to subscribers.
type DataSection struct {
	BlockStates *PalettedContainer
	Biomes      *PalettedContainer

	changed map[uint16]struct{}
}

// NewDataSection builds an empty section, all-air block states and the
// given default biome.
func NewDataSection(air, defaultBiome uint32) *DataSection {
	return &DataSection{
		BlockStates: NewPalettedContainer(BlockStatesPerSection, blockMinBits, blockMaxBits, blockGlobalBits, air),
		Biomes:      NewPalettedContainer(BiomesPerSection, biomeMinBits, biomeMaxBits, biomeGlobalBits, defaultBiome),
		changed:     make(map[uint16]struct{}),
	}
}

// sectionBlockIndex packs a local (x, y, z) in [0,16) into the container
// index used by BlockStates, y-major so consecutive indices walk a single
// Y-layer's X rows before advancing Z, matching the section's XZY fill
// order on the wire.
func sectionBlockIndex(x, y, z uint8) uint32 {
	return uint32(y)<<8 | uint32(z)<<4 | uint32(x)
}

// SetBlock writes state at local (x, y, z) and records the index as
// changed iff the stored value actually changed.
func (s *DataSection) SetBlock(x, y, z uint8, state uint32) {
	index := sectionBlockIndex(x, y, z)
	old := s.BlockStates.GetAndSet(index, state)
	if old != state {
		s.changed[uint16(index)] = struct{}{}
	}
}

// Block reads the block state at local (x, y, z).
func (s *DataSection) Block(x, y, z uint8) uint32 {
	return s.BlockStates.Get(sectionBlockIndex(x, y, z))
}

// Changed reports the section's dirty block indices, packed as
// sectionBlockIndex. Callers consume them via FlushChanges.
func (s *DataSection) Changed() []uint16 {
	if len(s.changed) == 0 {
		return nil
	}
	indices := make([]uint16, 0, len(s.changed))
	for i := range s.changed {
		indices = append(indices, i)
	}
	return indices
}

// FlushChanges clears the section's change-set, to be called once its
// dirty indices have been emitted to every subscriber.
func (s *DataSection) FlushChanges() {
	clear(s.changed)
}

// Column is one chunk's full vertical stack of sections, identified by
// its (X, Z) position in chunk coordinates (world blocks / 16).
type Column struct {
	X, Z int32

	Sections []*DataSection

	// YOffset is the section index of the world's lowest section: world Y
	// coordinates are mapped to a section index by (y>>4) - YOffset.
	YOffset int32
}

// NewColumn allocates sectionCount empty sections for a column at (x, z).
func NewColumn(x, z int32, sectionCount int, yOffset int32, air, defaultBiome uint32) *Column {
	sections := make([]*DataSection, sectionCount)
	for i := range sections {
		sections[i] = NewDataSection(air, defaultBiome)
	}
	return &Column{X: x, Z: z, Sections: sections, YOffset: yOffset}
}

// sectionIndex maps a world Y coordinate to its section's slice index, and
// reports whether that section exists within the column.
func (c *Column) sectionIndex(y int32) (int, bool) {
	idx := int((y >> 4) - c.YOffset)
	return idx, idx >= 0 && idx < len(c.Sections)
}

// SetBlock writes state at world (x, y, z), where x and z are local to the
// column (0..16). It is a no-op if y falls outside the column's sections.
func (c *Column) SetBlock(x uint8, y int32, z uint8, state uint32) {
	idx, ok := c.sectionIndex(y)
	if !ok {
		return
	}
	c.Sections[idx].SetBlock(x, uint8(y&0xF), z, state)
}

// Block reads the block state at world (x, y, z), local x/z. Positions
// outside the column's sections read as zero (air).
func (c *Column) Block(x uint8, y int32, z uint8) uint32 {
	idx, ok := c.sectionIndex(y)
	if !ok {
		return 0
	}
	return c.Sections[idx].Block(x, uint8(y&0xF), z)
}
