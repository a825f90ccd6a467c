// Package protocol implements the Java Edition wire codec: variable-length
// integers, packet framing, zlib compression and AES-128/CFB8 encryption,
// and the typed packet schema for protocol version 762 ("1.19.4").
package protocol

import (
	"errors"
	"io"
)

// ErrVarIntTooWide is returned when a varint exceeds the maximum number of
// bytes allowed for its width (5 for a 32-bit value, 10 for 64-bit, 3 for the
// 21-bit length-prefix variant).
var ErrVarIntTooWide = errors.New("protocol: varint too wide")

const (
	segmentBits = 0x7F
	continueBit = 0x80
)

// WriteVarInt32 writes v to w using the standard 7-bits-per-byte LEB128-style
// encoding, continuation bit set on every byte but the last. Negative values
// always cost the maximum 5 bytes, since they are transmitted as the
// two's-complement bit pattern of their unsigned 32-bit representation.
func WriteVarInt32(w io.ByteWriter, v int32) error {
	u := uint32(v)
	for {
		if u&^uint32(segmentBits) == 0 {
			return w.WriteByte(byte(u))
		}
		if err := w.WriteByte(byte(u&segmentBits) | continueBit); err != nil {
			return err
		}
		u >>= 7
	}
}

// ReadVarInt32 reads a VarInt32, aborting with ErrVarIntTooWide once more
// than 5 bytes have been consumed.
func ReadVarInt32(r io.ByteReader) (int32, error) {
	var value uint32
	var position uint
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		value |= uint32(b&segmentBits) << position
		if b&continueBit == 0 {
			return int32(value), nil
		}
		position += 7
		if position >= 35 {
			return 0, ErrVarIntTooWide
		}
	}
}

// SizeVarInt32 returns the number of bytes WriteVarInt32 would emit for v.
func SizeVarInt32(v int32) int {
	u := uint32(v)
	n := 1
	for u&^uint32(segmentBits) != 0 {
		u >>= 7
		n++
	}
	return n
}

// WriteVarInt64 is the 64-bit counterpart of WriteVarInt32, capped at 10
// bytes.
func WriteVarInt64(w io.ByteWriter, v int64) error {
	u := uint64(v)
	for {
		if u&^uint64(segmentBits) == 0 {
			return w.WriteByte(byte(u))
		}
		if err := w.WriteByte(byte(u&segmentBits) | continueBit); err != nil {
			return err
		}
		u >>= 7
	}
}

// ReadVarInt64 reads a VarInt64, aborting past 10 bytes.
func ReadVarInt64(r io.ByteReader) (int64, error) {
	var value uint64
	var position uint
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		value |= uint64(b&segmentBits) << position
		if b&continueBit == 0 {
			return int64(value), nil
		}
		position += 7
		if position >= 70 {
			return 0, ErrVarIntTooWide
		}
	}
}

func SizeVarInt64(v int64) int {
	u := uint64(v)
	n := 1
	for u&^uint64(segmentBits) != 0 {
		u >>= 7
		n++
	}
	return n
}

// WriteVarInt21 writes v using at most 3 bytes (21 bits of payload). It is
// used only for the outer packet length prefix, which the encoder reserves
// space for up front and back-patches once the body length is known.
func WriteVarInt21(w io.ByteWriter, v int32) error {
	if v < 0 || v >= 1<<21 {
		return ErrVarIntTooWide
	}
	return WriteVarInt32(w, v)
}

// ReadVarInt21 reads a VarInt that must fit in 3 bytes.
func ReadVarInt21(r io.ByteReader) (int32, error) {
	var value uint32
	var position uint
	for i := 0; i < 3; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		value |= uint32(b&segmentBits) << position
		if b&continueBit == 0 {
			return int32(value), nil
		}
		position += 7
	}
	return 0, ErrVarIntTooWide
}

// PutVarInt21Padded3 encodes v into exactly 3 bytes, setting the
// continuation bit on the first two regardless of whether it is needed. This
// is the fixed-width form used to back-patch a reserved length slot.
func PutVarInt21Padded3(buf []byte, v int32) {
	_ = buf[2]
	buf[0] = byte(v&segmentBits) | continueBit
	buf[1] = byte((v>>7)&segmentBits) | continueBit
	buf[2] = byte((v >> 14) & segmentBits)
}
