package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/segmentio/fasthash/fnv1a"
)

// RegistriesReport is the decoded generated/reports/registries.json shape:
// registry name -> { entries: { name -> protocol_id } }. Unlike
// DataRegistry, these assignments come straight from the report rather than
// filename order, since the report already carries the protocol id.
type RegistriesReport struct {
	registries map[string]registryReport
}

type registryReport struct {
	Entries map[string]struct {
		ProtocolID uint32 `json:"protocol_id"`
	} `json:"entries"`
}

// LoadRegistriesReport reads a registries.json report from path.
func LoadRegistriesReport(path string) (*RegistriesReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("registry: read %s: %w", path, err)
	}
	var registries map[string]registryReport
	if err := json.Unmarshal(data, &registries); err != nil {
		return nil, fmt.Errorf("registry: decode %s: %w", path, err)
	}
	return &RegistriesReport{registries: registries}, nil
}

// ID looks up the protocol id assigned to name within registryName (e.g.
// registryName "minecraft:entity_type", name "minecraft:zombie").
func (r *RegistriesReport) ID(registryName, name string) (uint32, bool) {
	reg, ok := r.registries[registryName]
	if !ok {
		return 0, false
	}
	entry, ok := reg.Entries[name]
	return entry.ProtocolID, ok
}

// Names returns the registered names of registryName, unordered.
func (r *RegistriesReport) Names(registryName string) []string {
	reg, ok := r.registries[registryName]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(reg.Entries))
	for name := range reg.Entries {
		names = append(names, name)
	}
	return names
}

// BlockStateReport is one permutation of a block: a property assignment and
// the block-state id the server and client agree to use for it on the wire.
type BlockStateReport struct {
	Properties map[string]string `json:"properties,omitempty"`
	ID         uint32            `json:"id"`
	Default    bool              `json:"default,omitempty"`
}

// BlockReport lists every block-state permutation for one block.
type BlockReport struct {
	Properties map[string][]string `json:"properties,omitempty"`
	States     []BlockStateReport  `json:"states"`
}

// BlocksReport is the decoded generated/reports/blocks.json report: every
// block's full set of state permutations and their assigned ids.
type BlocksReport struct {
	blocks map[string]BlockReport

	// permutations indexes every (block, properties) permutation across
	// every block by a fnv1a hash of its canonical encoding, so resolving
	// many block states at once (e.g. populating a chunk's palette from
	// saved property data) does not have to walk a block's States slice
	// linearly on every lookup.
	permutations map[uint64]uint32
	defaults     map[string]uint32
}

// LoadBlocksReport reads a blocks.json report from path.
func LoadBlocksReport(path string) (*BlocksReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("registry: read %s: %w", path, err)
	}
	var blocks map[string]BlockReport
	if err := json.Unmarshal(data, &blocks); err != nil {
		return nil, fmt.Errorf("registry: decode %s: %w", path, err)
	}

	report := &BlocksReport{
		blocks:       blocks,
		permutations: make(map[uint64]uint32),
		defaults:     make(map[string]uint32),
	}
	for name, block := range blocks {
		for _, state := range block.States {
			report.permutations[permutationHash(name, state.Properties)] = state.ID
			if state.Default {
				report.defaults[name] = state.ID
			}
		}
	}
	return report, nil
}

// permutationHash canonicalizes a block name and property assignment (sorted
// by key, so map iteration order never affects the result) and folds it
// through fnv1a, the way draco's block-state hashing sorts and concatenates
// property keys before hashing a permutation.
func permutationHash(block string, properties map[string]string) uint64 {
	keys := make([]string, 0, len(properties))
	for k := range properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := fnv1a.HashString64(block)
	for _, k := range keys {
		h = fnv1a.AddString64(h, k)
		h = fnv1a.AddString64(h, properties[k])
	}
	return h
}

// State resolves the block-state id for block with the given property
// assignment.
func (r *BlocksReport) State(block string, properties map[string]string) (uint32, bool) {
	id, ok := r.permutations[permutationHash(block, properties)]
	return id, ok
}

// DefaultState resolves block's default permutation's block-state id.
func (r *BlocksReport) DefaultState(block string) (uint32, bool) {
	id, ok := r.defaults[block]
	return id, ok
}

// Block returns the full permutation report for block, and whether it is
// known at all.
func (r *BlocksReport) Block(block string) (BlockReport, bool) {
	b, ok := r.blocks[block]
	return b, ok
}
