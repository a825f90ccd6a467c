package registry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testBiome struct {
	Temperature float32 `json:"temperature"`
}

func writeJSON(t *testing.T, dir, name string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
}

func TestLoadDataRegistryAssignsFilenameSortedIDs(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, dir, "plains.json", testBiome{Temperature: 0.8})
	writeJSON(t, dir, "desert.json", testBiome{Temperature: 2.0})
	writeJSON(t, dir, "badlands.json", testBiome{Temperature: 2.0})

	reg, err := LoadDataRegistry[testBiome](dir, "minecraft:worldgen/biome")
	require.NoError(t, err)
	require.Equal(t, 3, reg.Len())

	// Sorted filenames: badlands, desert, plains.
	id, ok := reg.ID("minecraft:badlands")
	require.True(t, ok)
	require.Equal(t, uint32(0), id)

	id, ok = reg.ID("minecraft:desert")
	require.True(t, ok)
	require.Equal(t, uint32(1), id)

	id, ok = reg.ID("minecraft:plains")
	require.True(t, ok)
	require.Equal(t, uint32(2), id)

	entries := reg.Entries()
	require.Equal(t, "minecraft:badlands", entries[0].Name)
	require.Equal(t, float32(0.8), entries[2].Value.Temperature)
}

func TestLoadDataRegistryUnknownNameNotFound(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, dir, "plains.json", testBiome{})

	reg, err := LoadDataRegistry[testBiome](dir, "minecraft:worldgen/biome")
	require.NoError(t, err)

	_, ok := reg.ID("minecraft:nether_wastes")
	require.False(t, ok)
}

func TestLoadDataRegistryIgnoresNonJSONFiles(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, dir, "plains.json", testBiome{})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("hi"), 0o644))

	reg, err := LoadDataRegistry[testBiome](dir, "minecraft:worldgen/biome")
	require.NoError(t, err)
	require.Equal(t, 1, reg.Len())
}
