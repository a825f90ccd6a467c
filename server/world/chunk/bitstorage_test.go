package chunk

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBitStorageSetAndGet(t *testing.T) {
	for bits := uint32(1); bits <= 16; bits++ {
		b := NewBitStorage(256, bits)
		rng := rand.New(rand.NewSource(0))
		want := make([]uint64, 256)
		for i := range want {
			want[i] = uint64(rng.Intn(1 << bits))
			b.Set(uint32(i), want[i])
		}
		for i := range want {
			require.Equalf(t, want[i], b.Get(uint32(i)), "bits=%d index=%d", bits, i)
		}
	}
}

func TestBitStorageGetAndSetReturnsPrevious(t *testing.T) {
	b := NewBitStorage(16, 4)
	b.Set(3, 5)
	old := b.GetAndSet(3, 9)
	require.Equal(t, uint64(5), old)
	require.Equal(t, uint64(9), b.Get(3))
}

func TestBitStorageDoesNotDisturbAdjacentEntries(t *testing.T) {
	b := NewBitStorage(4, 5)
	b.Set(0, 31)
	b.Set(1, 17)
	b.Set(2, 3)
	b.Set(3, 31)
	require.Equal(t, uint64(31), b.Get(0))
	require.Equal(t, uint64(17), b.Get(1))
	require.Equal(t, uint64(3), b.Get(2))
	require.Equal(t, uint64(31), b.Get(3))
}

func TestNewBitStorageFromDataRejectsWrongLength(t *testing.T) {
	_, err := NewBitStorageFromData(4096, 8, make([]uint64, 1))
	require.Error(t, err)
}

func TestNewBitStorageFromDataAcceptsCorrectLength(t *testing.T) {
	data := make([]uint64, cellCount(4096, 8))
	b, err := NewBitStorageFromData(4096, 8, data)
	require.NoError(t, err)
	require.Equal(t, uint32(4096), b.Size())
	require.Equal(t, uint32(8), b.Bits())
}
