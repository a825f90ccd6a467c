// Package region reads Anvil-format region files (.mca): the on-disk chunk
// storage format described in spec §6. The core only ever reads this
// layout; nothing here writes it back out.
package region

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zlib"
)

const (
	sectorSize = 4096
	headerSize = 2 * sectorSize
)

// CompressionScheme identifies how one chunk's NBT blob is compressed
// within its region file, per the 1-byte tag preceding the blob.
type CompressionScheme uint8

const (
	CompressionGZip         CompressionScheme = 1
	CompressionZlib         CompressionScheme = 2
	CompressionUncompressed CompressionScheme = 3
)

// Storage caches one open region file per accessed region coordinate,
// mirroring the original RegionStorage's cache-by-region-file pattern so
// repeated reads of chunks in the same region don't reopen its file.
type Storage struct {
	mu   sync.Mutex
	dir  string
	open map[[2]int32]*regionFile
}

// NewStorage returns a Storage reading .mca files out of dir (typically
// "<level>/region").
func NewStorage(dir string) *Storage {
	return &Storage{dir: dir, open: make(map[[2]int32]*regionFile)}
}

// Read returns the decompressed NBT chunk blob for chunk (x, z), or nil
// with no error if neither the region file nor the chunk slot within it
// exists.
func (s *Storage) Read(x, z int32) ([]byte, error) {
	rf, err := s.regionFile(x, z)
	if err != nil {
		return nil, err
	}
	if rf == nil {
		return nil, nil
	}
	return rf.read(localIndex(x, z))
}

// localIndex computes a chunk's slot within its region file's header:
// (cx&31) | (cz&31)<<5.
func localIndex(x, z int32) int {
	return int(uint32(x)&31) | int(uint32(z)&31)<<5
}

func regionCoord(x, z int32) [2]int32 {
	return [2]int32{x >> 5, z >> 5}
}

func (s *Storage) regionFile(x, z int32) (*regionFile, error) {
	coord := regionCoord(x, z)

	s.mu.Lock()
	defer s.mu.Unlock()
	if rf, ok := s.open[coord]; ok {
		return rf, nil
	}

	path := filepath.Join(s.dir, fmt.Sprintf("r.%d.%d.mca", coord[0], coord[1]))
	rf, err := openRegionFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	s.open[coord] = rf
	return rf, nil
}

// Close closes every region file this Storage has opened so far.
func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var firstErr error
	for coord, rf := range s.open {
		if err := rf.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(s.open, coord)
	}
	return firstErr
}

type regionFile struct {
	mu     sync.Mutex
	file   *os.File
	header [headerSize]byte
}

func openRegionFile(path string) (*regionFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	rf := &regionFile{file: f}
	if _, err := io.ReadFull(f, rf.header[:]); err != nil {
		f.Close()
		return nil, fmt.Errorf("region: %s: read header: %w", path, err)
	}
	return rf, nil
}

// read decompresses the chunk blob at index, or returns (nil, nil) if the
// slot has never been written (location entry of zero).
func (rf *regionFile) read(index int) ([]byte, error) {
	rf.mu.Lock()
	defer rf.mu.Unlock()

	location := binary.BigEndian.Uint32(rf.header[index*4:])
	if location == 0 {
		return nil, nil
	}
	sectorOffset := int64(location>>8) * sectorSize
	sectorCount := int64(location & 0xFF)
	if sectorOffset < headerSize {
		return nil, fmt.Errorf("region: chunk %d: sector offset %d inside header", index, sectorOffset)
	}

	var lengthBuf [4]byte
	if _, err := rf.file.ReadAt(lengthBuf[:], sectorOffset); err != nil {
		return nil, fmt.Errorf("region: chunk %d: read length: %w", index, err)
	}
	length := binary.BigEndian.Uint32(lengthBuf[:])
	if int64(length) > sectorCount*sectorSize {
		return nil, fmt.Errorf("region: chunk %d: length %d exceeds %d allocated sectors", index, length, sectorCount)
	}

	blob := make([]byte, length)
	if _, err := rf.file.ReadAt(blob, sectorOffset+4); err != nil {
		return nil, fmt.Errorf("region: chunk %d: read blob: %w", index, err)
	}

	scheme := CompressionScheme(blob[0])
	payload := blob[1:]
	switch scheme {
	case CompressionGZip:
		zr, err := gzip.NewReader(bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("region: chunk %d: gzip: %w", index, err)
		}
		defer zr.Close()
		return io.ReadAll(zr)
	case CompressionZlib:
		zr, err := zlib.NewReader(bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("region: chunk %d: zlib: %w", index, err)
		}
		defer zr.Close()
		return io.ReadAll(zr)
	case CompressionUncompressed:
		return payload, nil
	default:
		return nil, fmt.Errorf("region: chunk %d: unknown compression scheme %d", index, scheme)
	}
}
