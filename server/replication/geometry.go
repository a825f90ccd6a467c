// Package replication drives each connection's area-of-interest: which
// chunks and entities a viewer currently knows about, and the sequence of
// packets that keeps that knowledge in sync with a moving (center, radius)
// window as the world changes underneath it.
package replication

// ChunkPos identifies a chunk column by its (X, Z) chunk coordinates.
type ChunkPos struct {
	X, Z int32
}

// Radius turns a view distance (in chunks, as negotiated with the client)
// into the subscription radius: the server replicates one ring beyond the
// client's own render distance so entities and block changes at the edge
// are visible before the client's view would otherwise reveal them.
func Radius(viewDistance int32) int32 {
	return viewDistance + 2
}

// Window enumerates every chunk position within radius of center, the
// axis-aligned square of side 2*radius-1 that a (center, radius) pair
// subscribes to.
func Window(center ChunkPos, radius int32) []ChunkPos {
	if radius <= 0 {
		return []ChunkPos{center}
	}
	out := make([]ChunkPos, 0, (2*radius-1)*(2*radius-1))
	for dx := -(radius - 1); dx <= radius-1; dx++ {
		for dz := -(radius - 1); dz <= radius-1; dz++ {
			out = append(out, ChunkPos{X: center.X + dx, Z: center.Z + dz})
		}
	}
	return out
}

// Spiral enumerates the same window as Window but in outward-ring order,
// nearest chunks first, so a viewer's terrain fills in from the center out
// rather than in raster order.
func Spiral(center ChunkPos, radius int32) []ChunkPos {
	if radius <= 0 {
		return []ChunkPos{center}
	}
	out := make([]ChunkPos, 0, (2*radius-1)*(2*radius-1))
	out = append(out, center)
	for ring := int32(1); ring <= radius-1; ring++ {
		out = append(out, ringPositions(center, ring)...)
	}
	return out
}

// ringPositions enumerates the square ring of side 2*ring+1 at exactly
// distance ring (in Chebyshev distance) from center, without revisiting a
// corner from two different edges: the top and bottom rows walk the full
// x range, the left and right columns walk only the interior z range.
func ringPositions(center ChunkPos, ring int32) []ChunkPos {
	out := make([]ChunkPos, 0, 8*ring)
	for dx := -ring; dx <= ring; dx++ {
		out = append(out, ChunkPos{X: center.X + dx, Z: center.Z - ring})
		out = append(out, ChunkPos{X: center.X + dx, Z: center.Z + ring})
	}
	for dz := -ring + 1; dz <= ring-1; dz++ {
		out = append(out, ChunkPos{X: center.X - ring, Z: center.Z + dz})
		out = append(out, ChunkPos{X: center.X + ring, Z: center.Z + dz})
	}
	return out
}
