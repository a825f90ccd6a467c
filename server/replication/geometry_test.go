package replication

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func sortedPositions(positions []ChunkPos) []ChunkPos {
	out := append([]ChunkPos(nil), positions...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].X != out[j].X {
			return out[i].X < out[j].X
		}
		return out[i].Z < out[j].Z
	})
	return out
}

func TestWindowSizeMatchesSquareSide(t *testing.T) {
	const radius = 3
	positions := Window(ChunkPos{}, radius)
	require.Len(t, positions, (2*radius-1)*(2*radius-1))
}

func TestWindowRadiusOneIsJustCenter(t *testing.T) {
	positions := Window(ChunkPos{X: 5, Z: -2}, 1)
	require.Equal(t, []ChunkPos{{X: 5, Z: -2}}, positions)
}

func TestSpiralCoversSameSetAsWindow(t *testing.T) {
	const radius = 4
	center := ChunkPos{X: 10, Z: -10}
	require.Equal(t, sortedPositions(Window(center, radius)), sortedPositions(Spiral(center, radius)))
}

func TestSpiralStartsAtCenter(t *testing.T) {
	center := ChunkPos{X: 2, Z: 7}
	positions := Spiral(center, 3)
	require.Equal(t, center, positions[0])
}

func TestSpiralHasNoDuplicates(t *testing.T) {
	center := ChunkPos{X: -1, Z: 1}
	positions := Spiral(center, 5)
	seen := make(map[ChunkPos]struct{}, len(positions))
	for _, p := range positions {
		_, dup := seen[p]
		require.False(t, dup, "duplicate position %v", p)
		seen[p] = struct{}{}
	}
}

func TestRadiusAddsTwoToViewDistance(t *testing.T) {
	require.Equal(t, int32(12), Radius(10))
}
