package protocol

import (
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// BlockPos packs (x, z, y) into a single i64 as (x:26, z:26, y:12), matching
// the Java Edition wire encoding used by BlockUpdate, UseItemOn, and related
// packets.
type BlockPos struct {
	X, Y, Z int32
}

// Pack encodes p into its wire i64 representation.
func (p BlockPos) Pack() int64 {
	return (int64(p.X)&0x3FFFFFF)<<38 | (int64(p.Z)&0x3FFFFFF)<<12 | (int64(p.Y) & 0xFFF)
}

// UnpackBlockPos decodes a wire i64 back into a BlockPos, sign-extending
// each field from its bit width.
func UnpackBlockPos(v int64) BlockPos {
	x := int32(v >> 38)
	y := int32(v << 52 >> 52)
	z := int32(v << 26 >> 38)
	return BlockPos{X: x, Y: y, Z: z}
}

// SectionPos packs (x, z, y) into an i64 as (x:22, z:22, y:20), used by
// SectionBlocksUpdate's leading position field.
type SectionPos struct {
	X, Y, Z int32
}

func (p SectionPos) Pack() int64 {
	return int64(p.X)<<42 | (int64(p.Z)&0x3FFFFF)<<20 | (int64(p.Y) & 0xFFFFF)
}

func UnpackSectionPos(v int64) SectionPos {
	return SectionPos{
		X: int32(v >> 42),
		Y: int32(v << 44 >> 44),
		Z: int32(v << 22 >> 42),
	}
}

// SectionBlockUpdate packs a single (x, y, z, state) tuple into a VarI64 as
// (state:52, x:4, z:4, y:4), used inside SectionBlocksUpdate's entry list.
//
// The original reference implementation's Decode does not mirror its own
// Encode (Decode reads y from the low nibble and z from the next one; Encode
// writes the inverse). Per spec.md §9 this port treats decode's bit layout
// as authoritative and keeps encode symmetric with it, rather than
// preserving the original's self-inconsistency.
type SectionBlockUpdate struct {
	X, Y, Z uint8
	State   int64
}

func (u SectionBlockUpdate) Pack() int64 {
	return u.State<<12 | (int64(u.X)<<8 | int64(u.Z)<<4 | int64(u.Y))
}

func UnpackSectionBlockUpdate(v int64) SectionBlockUpdate {
	return SectionBlockUpdate{
		X:     uint8(v>>8) & 0xF,
		Y:     uint8(v) & 0xF,
		Z:     uint8(v>>4) & 0xF,
		State: v >> 12,
	}
}

// EncodeAngle scales a rotation in degrees [0, 360) to the single-byte wire
// representation (256 units per full turn).
func EncodeAngle(degrees float32) byte {
	return byte(int32(degrees*256.0/360.0) & 0xFF)
}

// DecodeAngle converts a wire angle byte back to degrees.
func DecodeAngle(b byte) float32 {
	return float32(b) * 360.0 / 256.0
}

// modifiedUTF8 validates and transcodes string payloads using the
// replacement-on-error UTF-8 codec: realized packet/NBT string payloads are
// ASCII-compatible, so strict UTF-8 is Modified-UTF-8 compatible per
// spec.md §4.2, but we still run bytes through golang.org/x/text so that
// any stray surrogate or invalid sequence a buggy client sends is replaced
// rather than propagated as a decode panic.
var modifiedUTF8 = unicode.UTF8.NewDecoder()

// SanitizeString replaces invalid UTF-8 byte sequences in s so that string
// fields decoded off the wire never carry unpaired surrogates or truncated
// multi-byte sequences into the rest of the server.
func SanitizeString(s string) string {
	out, _, err := transform.String(transform.Chain(modifiedUTF8, runes.ReplaceIllFormed()), s)
	if err != nil {
		return s
	}
	return out
}
