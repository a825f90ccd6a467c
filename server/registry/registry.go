// Package registry loads the read-only registry tables a server consults at
// startup: generic protocol-id reports (registries.json, blocks.json) and
// data-driven registries that ship as one JSON file per entry (dimension
// types, biomes, damage types). Every table here is built once during boot
// and never mutated afterward, matching the read-only sharing model described
// for the registry tables.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/exp/slices"
)

// Entry is one named, numbered member of a data-driven registry.
type Entry[T any] struct {
	Name  string
	ID    uint32
	Value T
}

// bucket holds the entries that share a hash, so a collision never loses an
// entry the way a bare map[uint64]uint32 keyed purely by hash would.
type bucket[T any] struct {
	hash    uint64
	entries []*Entry[T]
}

// DataRegistry holds one registry loaded from a directory of JSON files, one
// file per entry. Entries are assigned runtime ids in filename-sorted order,
// per the on-disk layout contract: index in that order is the id.
type DataRegistry[T any] struct {
	Type    string
	entries []Entry[T]
	index   map[uint64]*bucket[T]
}

// LoadDataRegistry reads every *.json file directly under dir, sorted by
// filename, and assigns runtime ids 0..n-1 in that order. typeName is the
// registry's protocol identifier (e.g. "minecraft:dimension_type").
func LoadDataRegistry[T any](dir, typeName string) (*DataRegistry[T], error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("registry: read %s: %w", dir, err)
	}
	names := make([]string, 0, len(dirEntries))
	for _, e := range dirEntries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		names = append(names, e.Name())
	}
	slices.Sort(names)

	reg := &DataRegistry[T]{
		Type:    typeName,
		entries: make([]Entry[T], 0, len(names)),
		index:   make(map[uint64]*bucket[T], len(names)),
	}
	for i, fileName := range names {
		data, err := os.ReadFile(filepath.Join(dir, fileName))
		if err != nil {
			return nil, fmt.Errorf("registry: read %s: %w", fileName, err)
		}
		var value T
		if err := json.Unmarshal(data, &value); err != nil {
			return nil, fmt.Errorf("registry: decode %s: %w", fileName, err)
		}
		name := "minecraft:" + stem(fileName)
		reg.entries = append(reg.entries, Entry[T]{Name: name, ID: uint32(i), Value: value})
	}
	for i := range reg.entries {
		reg.insert(&reg.entries[i])
	}
	return reg, nil
}

func stem(fileName string) string {
	return fileName[:len(fileName)-len(filepath.Ext(fileName))]
}

func (r *DataRegistry[T]) insert(e *Entry[T]) {
	h := xxhash.Sum64String(e.Name)
	b, ok := r.index[h]
	if !ok {
		b = &bucket[T]{hash: h}
		r.index[h] = b
	}
	b.entries = append(b.entries, e)
}

// ID returns the runtime id assigned to name, or false if name is not a
// member of the registry. The xxhash lookup is a fast path over the
// underlying []Entry scan; a genuine hash collision falls back to an exact
// name compare within the matched bucket rather than returning either entry
// blindly.
func (r *DataRegistry[T]) ID(name string) (uint32, bool) {
	b, ok := r.index[xxhash.Sum64String(name)]
	if !ok {
		return 0, false
	}
	for _, e := range b.entries {
		if e.Name == name {
			return e.ID, true
		}
	}
	return 0, false
}

// Entries returns the registry's members in runtime-id order.
func (r *DataRegistry[T]) Entries() []Entry[T] { return r.entries }

// Len reports the registry's entry count.
func (r *DataRegistry[T]) Len() int { return len(r.entries) }
