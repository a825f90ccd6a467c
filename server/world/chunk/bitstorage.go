// Package chunk implements the bit-packed paletted voxel container used by
// a chunk section's block-state and biome storage.
package chunk

import "fmt"

// BitStorage packs Size entries of Bits width each into a Vec of u64 cells,
// values_per_long entries per cell, matching Minecraft's SimpleBitStorage
// layout (entries never straddle a cell boundary; a cell's unused high bits,
// when values_per_long doesn't evenly divide 64, are left zero).
type BitStorage struct {
	data []uint64

	bits          uint32
	mask          uint64
	size          uint32
	valuesPerLong uint32
}

// NewBitStorage allocates a zeroed storage for size entries of bits width
// each. bits must be in [1, 32].
func NewBitStorage(size, bits uint32) *BitStorage {
	return newBitStorageFromData(size, bits, nil)
}

// NewBitStorageFromData wraps an existing data slice (e.g. decoded off the
// wire) as a BitStorage. len(data) must equal the cell count implied by
// size and bits.
func NewBitStorageFromData(size, bits uint32, data []uint64) (*BitStorage, error) {
	want := cellCount(size, bits)
	if uint32(len(data)) != want {
		return nil, fmt.Errorf("chunk: bit storage expects %d longs for size=%d bits=%d, got %d", want, size, bits, len(data))
	}
	return newBitStorageFromData(size, bits, data), nil
}

func cellCount(size, bits uint32) uint32 {
	valuesPerLong := 64 / bits
	return (size + valuesPerLong - 1) / valuesPerLong
}

func newBitStorageFromData(size, bits uint32, data []uint64) *BitStorage {
	valuesPerLong := uint32(64) / bits
	if data == nil {
		data = make([]uint64, cellCount(size, bits))
	}
	return &BitStorage{
		data:          data,
		bits:          bits,
		mask:          (uint64(1) << bits) - 1,
		size:          size,
		valuesPerLong: valuesPerLong,
	}
}

func (b *BitStorage) cellAndBitIndex(index uint32) (cell, bit uint32) {
	cell = index / b.valuesPerLong
	bit = (index % b.valuesPerLong) * b.bits
	return
}

// Get returns the value stored at index.
func (b *BitStorage) Get(index uint32) uint64 {
	cell, bit := b.cellAndBitIndex(index)
	return (b.data[cell] >> bit) & b.mask
}

// Set stores value at index, truncated to Bits width.
func (b *BitStorage) Set(index uint32, value uint64) {
	cell, bit := b.cellAndBitIndex(index)
	b.data[cell] = b.data[cell]&^(b.mask<<bit) | (value&b.mask)<<bit
}

// GetAndSet stores value at index and returns the value previously there.
func (b *BitStorage) GetAndSet(index uint32, value uint64) uint64 {
	old := b.Get(index)
	b.Set(index, value)
	return old
}

// Bits reports the per-entry width.
func (b *BitStorage) Bits() uint32 { return b.bits }

// Size reports the entry count.
func (b *BitStorage) Size() uint32 { return b.size }

// Mask reports (1<<Bits)-1, the maximum representable raw entry value.
func (b *BitStorage) Mask() uint64 { return b.mask }

// Data returns the packed backing storage, in the order it is written to
// the wire.
func (b *BitStorage) Data() []uint64 { return b.data }
