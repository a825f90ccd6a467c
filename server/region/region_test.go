package region

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/require"
)

// writeTestRegion builds a minimal single-chunk .mca file at localIndex 0
// (chunk (0,0) within its region) with blob compressed per scheme.
func writeTestRegion(t *testing.T, path string, raw []byte, scheme CompressionScheme) {
	t.Helper()

	var compressed bytes.Buffer
	switch scheme {
	case CompressionGZip:
		zw := gzip.NewWriter(&compressed)
		_, err := zw.Write(raw)
		require.NoError(t, err)
		require.NoError(t, zw.Close())
	case CompressionZlib:
		zw := zlib.NewWriter(&compressed)
		_, err := zw.Write(raw)
		require.NoError(t, err)
		require.NoError(t, zw.Close())
	case CompressionUncompressed:
		compressed.Write(raw)
	}

	blob := append([]byte{byte(scheme)}, compressed.Bytes()...)
	var lengthPrefixed bytes.Buffer
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(blob)))
	lengthPrefixed.Write(lenBuf[:])
	lengthPrefixed.Write(blob)

	sectorCount := (lengthPrefixed.Len() + sectorSize - 1) / sectorSize
	padded := make([]byte, sectorCount*sectorSize)
	copy(padded, lengthPrefixed.Bytes())

	header := make([]byte, headerSize)
	loc := uint32(2)<<8 | uint32(sectorCount) // sector offset 2 (right after header)
	binary.BigEndian.PutUint32(header[0:4], loc)
	binary.BigEndian.PutUint32(header[4096:4100], 1) // timestamp, arbitrary

	var file bytes.Buffer
	file.Write(header)
	file.Write(padded)
	require.NoError(t, os.WriteFile(path, file.Bytes(), 0o644))
}

func TestStorageReadsZlibCompressedChunk(t *testing.T) {
	dir := t.TempDir()
	writeTestRegion(t, filepath.Join(dir, "r.0.0.mca"), []byte("hello chunk data"), CompressionZlib)

	s := NewStorage(dir)
	data, err := s.Read(0, 0)
	require.NoError(t, err)
	require.Equal(t, []byte("hello chunk data"), data)
}

func TestStorageReadsGZipCompressedChunk(t *testing.T) {
	dir := t.TempDir()
	writeTestRegion(t, filepath.Join(dir, "r.0.0.mca"), []byte("gzip payload"), CompressionGZip)

	s := NewStorage(dir)
	data, err := s.Read(0, 0)
	require.NoError(t, err)
	require.Equal(t, []byte("gzip payload"), data)
}

func TestStorageReadsUncompressedChunk(t *testing.T) {
	dir := t.TempDir()
	writeTestRegion(t, filepath.Join(dir, "r.0.0.mca"), []byte("raw"), CompressionUncompressed)

	s := NewStorage(dir)
	data, err := s.Read(0, 0)
	require.NoError(t, err)
	require.Equal(t, []byte("raw"), data)
}

func TestStorageReadMissingRegionFileReturnsNilNoError(t *testing.T) {
	s := NewStorage(t.TempDir())
	data, err := s.Read(5, 5)
	require.NoError(t, err)
	require.Nil(t, data)
}

func TestStorageReadUnwrittenChunkSlotReturnsNilNoError(t *testing.T) {
	dir := t.TempDir()
	writeTestRegion(t, filepath.Join(dir, "r.0.0.mca"), []byte("x"), CompressionUncompressed)

	s := NewStorage(dir)
	data, err := s.Read(1, 0) // different slot, never written
	require.NoError(t, err)
	require.Nil(t, data)
}

func TestStorageCachesOpenRegionFiles(t *testing.T) {
	dir := t.TempDir()
	writeTestRegion(t, filepath.Join(dir, "r.0.0.mca"), []byte("cached"), CompressionUncompressed)

	s := NewStorage(dir)
	_, err := s.Read(0, 0)
	require.NoError(t, err)
	require.Len(t, s.open, 1)

	_, err = s.Read(3, 3) // same region (3>>5 == 0)
	require.NoError(t, err)
	require.Len(t, s.open, 1)

	require.NoError(t, s.Close())
}
