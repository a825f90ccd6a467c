package chunk

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tesseract-mc/tesseract/server/protocol"
)

func TestPalettedContainerSingleValueInvariant(t *testing.T) {
	c := NewPalettedContainer(4096, 4, 8, 15, 0)
	for i := uint32(0); i < 4096; i++ {
		require.Equal(t, uint32(0), c.Get(i))
	}
}

func TestPalettedContainerPromotionSequence(t *testing.T) {
	c := NewPalettedContainer(4096, 4, 8, 15, 0)

	old := c.GetAndSet(1, 1)
	require.Equal(t, uint32(0), old)
	require.Equal(t, repIndirect, c.rep)
	require.Equal(t, uint32(4), c.storage.Bits())

	for v := uint32(2); v <= 15; v++ {
		c.GetAndSet(v, v)
	}
	require.Equal(t, 16, len(c.palette))
	require.Equal(t, uint32(4), c.storage.Bits())

	c.GetAndSet(16, 16)
	require.Equal(t, uint32(5), c.storage.Bits())
	require.Equal(t, 17, len(c.palette))

	for v := uint32(17); v <= 256; v++ {
		c.GetAndSet(v, v)
	}
	require.Equal(t, repDirect, c.rep)

	for i := uint32(0); i <= 256; i++ {
		require.Equalf(t, i, c.Get(i), "index %d", i)
	}
}

func TestPalettedContainerEncodeDecodeSingle(t *testing.T) {
	c := NewPalettedContainer(64, 3, 3, 6, 7)

	var buf bytes.Buffer
	w := protocol.NewWriter(&buf)
	c.Encode(w)
	require.NoError(t, w.Err())

	r := protocol.NewReader(&buf)
	got := DecodePalettedContainer(r, 64, 3, 3, 6)
	require.NoError(t, r.Err())
	for i := uint32(0); i < 64; i++ {
		require.Equal(t, uint32(7), got.Get(i))
	}
}

func TestPalettedContainerEncodeDecodeIndirect(t *testing.T) {
	c := NewPalettedContainer(4096, 4, 8, 15, 0)
	for i := uint32(0); i < 10; i++ {
		c.Set(i, i+100)
	}

	var buf bytes.Buffer
	w := protocol.NewWriter(&buf)
	c.Encode(w)
	require.NoError(t, w.Err())

	r := protocol.NewReader(&buf)
	got := DecodePalettedContainer(r, 4096, 4, 8, 15)
	require.NoError(t, r.Err())
	for i := uint32(0); i < 4096; i++ {
		require.Equalf(t, c.Get(i), got.Get(i), "index %d", i)
	}
}

func TestPalettedContainerEncodeDecodeDirect(t *testing.T) {
	c := NewPalettedContainer(4096, 4, 8, 15, 0)
	for i := uint32(0); i <= 300; i++ {
		c.Set(i, i)
	}
	require.Equal(t, repDirect, c.rep)

	var buf bytes.Buffer
	w := protocol.NewWriter(&buf)
	c.Encode(w)
	require.NoError(t, w.Err())

	r := protocol.NewReader(&buf)
	got := DecodePalettedContainer(r, 4096, 4, 8, 15)
	require.NoError(t, r.Err())
	for i := uint32(0); i <= 300; i++ {
		require.Equalf(t, i, got.Get(i), "index %d", i)
	}
}

func TestDecodePalettedContainerFixesUndersizedIndirect(t *testing.T) {
	storage := NewBitStorage(64, 2)
	storage.Set(0, 1)

	var buf bytes.Buffer
	w := protocol.NewWriter(&buf)
	w.Uint8(2) // below minBits=4
	w.VarInt32(2)
	w.VarInt32(0)
	w.VarInt32(1)
	data := storage.Data()
	w.VarInt32(int32(len(data)))
	for _, cell := range data {
		w.Int64(int64(cell))
	}
	require.NoError(t, w.Err())

	r := protocol.NewReader(&buf)
	got := DecodePalettedContainer(r, 64, 4, 8, 15)
	require.NoError(t, r.Err())
	require.Equal(t, uint32(4), got.storage.Bits())
	require.Equal(t, uint32(1), got.Get(0))
}
