package chunk

import (
	"bytes"

	"github.com/tesseract-mc/tesseract/server/nbt"
	"github.com/tesseract-mc/tesseract/server/protocol"
)

// Encode serializes the column's sections back to back, each as
// [non-air block count: i16][BlockStates][Biomes], the payload
// LevelChunkWithLight carries in its Data field. air identifies the block
// state the non-air count excludes.
func (c *Column) Encode(air uint32) ([]byte, error) {
	var buf bytes.Buffer
	w := protocol.NewWriter(&buf)
	for _, section := range c.Sections {
		w.Int16(int16(section.BlockStates.nonAirCount(air)))
		section.BlockStates.Encode(w)
		section.Biomes.Encode(w)
	}
	if err := w.Err(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// nonAirCount walks every entry in the container, counting those that
// differ from air. Section encoding only runs once per full chunk send, so
// the linear scan isn't on any hot per-tick path.
func (c *PalettedContainer) nonAirCount(air uint32) int {
	count := 0
	for i := uint32(0); i < c.n; i++ {
		if c.Get(i) != air {
			count++
		}
	}
	return count
}

// Heightmaps builds the minimal heightmap compound LevelChunkWithLight
// requires: a MOTION_BLOCKING long array of zero height for every column,
// since the core does not track per-column surface height and an all-zero
// heightmap only costs clients an extra ray when placing particles or
// checking fall distance, not correctness of block data itself.
func Heightmaps() *nbt.Compound {
	c := nbt.NewCompound()
	c.PutLongArray("MOTION_BLOCKING", make([]int64, 37))
	return c
}
