package chunk

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDataSectionSetBlockRecordsChangeOnlyWhenDiffers(t *testing.T) {
	s := NewDataSection(0, 0)
	s.SetBlock(1, 2, 3, 0) // same as default air, no change
	require.Empty(t, s.Changed())

	s.SetBlock(1, 2, 3, 5)
	require.Equal(t, []uint16{uint16(sectionBlockIndex(1, 2, 3))}, s.Changed())

	s.SetBlock(1, 2, 3, 5) // unchanged, still just one entry
	require.Equal(t, []uint16{uint16(sectionBlockIndex(1, 2, 3))}, s.Changed())

	s.FlushChanges()
	require.Empty(t, s.Changed())
}

func TestColumnSetBlockAndBlockRoundTrip(t *testing.T) {
	c := NewColumn(0, 0, 24, -4, 0, 0)
	c.SetBlock(5, 70, 9, 42)
	require.Equal(t, uint32(42), c.Block(5, 70, 9))
	require.Equal(t, uint32(0), c.Block(5, 71, 9))
}

func TestColumnBlockOutsideSectionsReadsAir(t *testing.T) {
	c := NewColumn(0, 0, 24, -4, 0, 0)
	require.Equal(t, uint32(0), c.Block(0, 10000, 0))
	c.SetBlock(0, 10000, 0, 1) // no-op, out of range
}
