package chunk

import "github.com/tesseract-mc/tesseract/server/protocol"

// representation names which of the three PalettedContainer encodings
// currently backs a container. The representation only ever promotes
// (Single -> Indirect -> Direct) as distinct values accumulate; it never
// demotes during mutation.
type representation uint8

const (
	repSingle representation = iota
	repIndirect
	repDirect
)

// PalettedContainer is a compact mapping from index 0..N -> u32 value,
// backed by whichever of Single/Indirect/Direct currently needs the fewest
// bits to represent the distinct values seen so far.
//
// BlockStatesContainer uses (N=4096, minBits=4, maxBits=8, globalBits=15);
// BiomesContainer uses (N=64, minBits=3, maxBits=3, globalBits=6).
type PalettedContainer struct {
	rep representation

	// Single
	singleValue uint32

	// Indirect
	palette []uint32
	storage *BitStorage

	n          uint32
	minBits    uint32
	maxBits    uint32
	globalBits uint32
}

// NewPalettedContainer builds an empty container of n entries, all equal to
// initial, using the Single representation.
func NewPalettedContainer(n, minBits, maxBits, globalBits, initial uint32) *PalettedContainer {
	return &PalettedContainer{
		rep:         repSingle,
		singleValue: initial,
		n:           n,
		minBits:     minBits,
		maxBits:     maxBits,
		globalBits:  globalBits,
	}
}

// Get returns the value at index.
func (c *PalettedContainer) Get(index uint32) uint32 {
	switch c.rep {
	case repSingle:
		return c.singleValue
	case repIndirect:
		return c.palette[c.storage.Get(index)]
	default: // repDirect
		return uint32(c.storage.Get(index))
	}
}

// GetAndSet stores value at index and returns the value previously there,
// promoting the container's representation if the new value doesn't fit.
func (c *PalettedContainer) GetAndSet(index, value uint32) uint32 {
	switch c.rep {
	case repSingle:
		old := c.singleValue
		if value == old {
			return old
		}
		c.promoteSingleToIndirect(index, old, value)
		return old

	case repIndirect:
		paletteIndex, ok := c.paletteIndexOf(value)
		if !ok {
			if uint32(len(c.palette)) >= uint32(c.storage.Mask())+1 {
				c.promoteIndirect()
				return c.GetAndSet(index, value)
			}
			c.palette = append(c.palette, value)
			paletteIndex = uint32(len(c.palette) - 1)
		}
		oldPaletteIndex := c.storage.GetAndSet(index, uint64(paletteIndex))
		return c.palette[oldPaletteIndex]

	default: // repDirect
		return uint32(c.storage.GetAndSet(index, uint64(value)))
	}
}

// Set stores value at index, discarding the previous value.
func (c *PalettedContainer) Set(index, value uint32) {
	c.GetAndSet(index, value)
}

func (c *PalettedContainer) paletteIndexOf(value uint32) (uint32, bool) {
	for i, v := range c.palette {
		if v == value {
			return uint32(i), true
		}
	}
	return 0, false
}

func (c *PalettedContainer) promoteSingleToIndirect(index, old, new uint32) {
	storage := NewBitStorage(c.n, c.minBits)
	storage.Set(index, 1)
	c.rep = repIndirect
	c.palette = []uint32{old, new}
	c.storage = storage
}

// promoteIndirect widens the current Indirect storage by one bit, or
// promotes all the way to Direct if it was already at maxBits.
func (c *PalettedContainer) promoteIndirect() {
	if c.storage.Bits() < c.maxBits {
		next := NewBitStorage(c.n, c.storage.Bits()+1)
		for i := uint32(0); i < c.n; i++ {
			next.Set(i, c.storage.Get(i))
		}
		c.storage = next
		return
	}

	next := NewBitStorage(c.n, c.globalBits)
	for i := uint32(0); i < c.n; i++ {
		next.Set(i, uint64(c.palette[c.storage.Get(i)]))
	}
	c.rep = repDirect
	c.palette = nil
	c.storage = next
}

// Fix coerces a just-decoded Indirect container up to minBits if the wire
// sent fewer bits per entry than the format requires.
func (c *PalettedContainer) Fix() {
	if c.rep != repIndirect || c.storage.Bits() >= c.minBits {
		return
	}
	next := NewBitStorage(c.n, c.minBits)
	for i := uint32(0); i < c.n; i++ {
		next.Set(i, c.storage.Get(i))
	}
	c.storage = next
}

// Encode writes the container as bits-byte, palette (Indirect only), then
// the backing BitStorage's longs, matching the wire's three representation
// shapes: Single carries its value inline with a zero-length data array,
// Indirect carries an explicit palette, Direct carries neither.
func (c *PalettedContainer) Encode(w *protocol.Writer) {
	switch c.rep {
	case repSingle:
		w.Uint8(0)
		w.VarInt32(int32(c.singleValue))
		w.VarInt32(0)
	case repIndirect:
		w.Uint8(uint8(c.storage.Bits()))
		w.VarInt32(int32(len(c.palette)))
		for _, v := range c.palette {
			w.VarInt32(int32(v))
		}
		data := c.storage.Data()
		w.VarInt32(int32(len(data)))
		for _, cell := range data {
			w.Int64(int64(cell))
		}
	default: // repDirect
		w.Uint8(uint8(c.storage.Bits()))
		data := c.storage.Data()
		w.VarInt32(int32(len(data)))
		for _, cell := range data {
			w.Int64(int64(cell))
		}
	}
}

// DecodePalettedContainer reads a container of n entries, bits in
// [minBits, maxBits] for block states (or [minBits, maxBits] for biomes),
// promoting straight to the representation the wire used. An Indirect
// container decoded with fewer than minBits is coerced via Fix, since the
// wire format requires bits >= minBits whenever a palette is present.
func DecodePalettedContainer(r *protocol.Reader, n, minBits, maxBits, globalBits uint32) *PalettedContainer {
	bits := uint32(r.Uint8())
	c := &PalettedContainer{n: n, minBits: minBits, maxBits: maxBits, globalBits: globalBits}

	switch {
	case bits == 0:
		value := r.VarInt32()
		r.VarInt32() // data array length, always 0 for Single
		c.rep = repSingle
		c.singleValue = uint32(value)

	case bits <= maxBits:
		paletteLen := r.VarInt32()
		palette := make([]uint32, paletteLen)
		for i := range palette {
			palette[i] = uint32(r.VarInt32())
		}
		dataLen := r.VarInt32()
		data := make([]uint64, dataLen)
		for i := range data {
			data[i] = uint64(r.Int64())
		}
		storage, err := NewBitStorageFromData(n, bits, data)
		if err != nil {
			r.Fail(err)
			return c
		}
		c.rep = repIndirect
		c.palette = palette
		c.storage = storage
		c.Fix()

	default:
		dataLen := r.VarInt32()
		data := make([]uint64, dataLen)
		for i := range data {
			data[i] = uint64(r.Int64())
		}
		storage, err := NewBitStorageFromData(n, bits, data)
		if err != nil {
			r.Fail(err)
			return c
		}
		c.rep = repDirect
		c.storage = storage
	}

	return c
}
