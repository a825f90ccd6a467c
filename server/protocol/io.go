package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/google/uuid"
	"github.com/tesseract-mc/tesseract/server/nbt"
)

// Writer accumulates a single packet body (the leading id VarInt plus
// fields) in declaration order. Packets implement Encode(*Writer) so the
// same field-writing code reads top to bottom as the wire layout.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter returns a Writer over w. Pass the returned Writer's Err after a
// sequence of field writes instead of checking every call individually.
func NewWriter(w io.Writer) *Writer { return &Writer{w: w} }

// Err returns the first error encountered by any write call, if any.
func (w *Writer) Err() error { return w.err }

func (w *Writer) write(b []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(b)
}

func (w *Writer) VarInt32(v int32) {
	if w.err != nil {
		return
	}
	w.err = WriteVarInt32(byteWriterAdapter{w}, v)
}

func (w *Writer) VarInt64(v int64) {
	if w.err != nil {
		return
	}
	w.err = WriteVarInt64(byteWriterAdapter{w}, v)
}

func (w *Writer) Bool(v bool) {
	if v {
		w.write([]byte{1})
	} else {
		w.write([]byte{0})
	}
}

func (w *Writer) Uint8(v uint8)   { w.write([]byte{v}) }
func (w *Writer) Int8(v int8)     { w.write([]byte{byte(v)}) }
func (w *Writer) Angle(v float32) { w.write([]byte{EncodeAngle(v)}) }

func (w *Writer) Int16(v int16) {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], uint16(v))
	w.write(buf[:])
}

func (w *Writer) Uint16(v uint16) {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	w.write(buf[:])
}

func (w *Writer) Int32(v int32) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(v))
	w.write(buf[:])
}

func (w *Writer) Int64(v int64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(v))
	w.write(buf[:])
}

func (w *Writer) Float32(v float32) { w.Int32(int32(math.Float32bits(v))) }
func (w *Writer) Float64(v float64) { w.Int64(int64(math.Float64bits(v))) }

func (w *Writer) String(v string) {
	w.VarInt32(int32(len(v)))
	w.write([]byte(v))
}

func (w *Writer) Bytes(v []byte) { w.write(v) }

func (w *Writer) ByteArray(v []byte) {
	w.VarInt32(int32(len(v)))
	w.write(v)
}

func (w *Writer) UUID(v uuid.UUID) { w.write(v[:]) }

func (w *Writer) BlockPos(p BlockPos) { w.Int64(p.Pack()) }

// NBT writes c as an unnamed NBT document (the root name is always empty in
// the network protocol, unlike world-save NBT files).
func (w *Writer) NBT(c *nbt.Compound) {
	if w.err != nil {
		return
	}
	if c == nil {
		c = nbt.NewCompound()
	}
	var buf bytes.Buffer
	if err := nbt.Encode(&buf, "", c); err != nil {
		w.err = err
		return
	}
	w.write(buf.Bytes())
}

// Fail records err as the Writer's first error, for callers that detect a
// problem outside the normal field-write helpers.
func (w *Writer) Fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

// Reader consumes a single decoded packet body. Decode(*Reader) methods read
// fields in the exact order Encode wrote them.
type Reader struct {
	r   io.Reader
	br  io.ByteReader
	err error
}

// NewReader wraps a packet body (already framed, decompressed and
// decrypted) for field-by-field decoding.
func NewReader(r io.Reader) *Reader {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = singleByteReader{r}
	}
	return &Reader{r: r, br: br}
}

// singleByteReader adapts a plain io.Reader to io.ByteReader one byte at a
// time, for callers that hand Reader something other than *bytes.Buffer or
// *bytes.Reader.
type singleByteReader struct{ io.Reader }

func (s singleByteReader) ReadByte() (byte, error) {
	var buf [1]byte
	if _, err := io.ReadFull(s.Reader, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// Err returns the first error encountered by any read call, if any.
func (r *Reader) Err() error { return r.err }

func (r *Reader) readFull(buf []byte) {
	if r.err != nil {
		return
	}
	_, r.err = io.ReadFull(r.r, buf)
}

func (r *Reader) VarInt32() int32 {
	if r.err != nil {
		return 0
	}
	v, err := ReadVarInt32(r.br)
	r.err = err
	return v
}

func (r *Reader) VarInt64() int64 {
	if r.err != nil {
		return 0
	}
	v, err := ReadVarInt64(r.br)
	r.err = err
	return v
}

func (r *Reader) Bool() bool {
	var buf [1]byte
	r.readFull(buf[:])
	return buf[0] != 0
}

func (r *Reader) Uint8() uint8 {
	var buf [1]byte
	r.readFull(buf[:])
	return buf[0]
}

func (r *Reader) Int8() int8 { return int8(r.Uint8()) }

func (r *Reader) Angle() float32 { return DecodeAngle(r.Uint8()) }

func (r *Reader) Int16() int16 {
	var buf [2]byte
	r.readFull(buf[:])
	return int16(binary.BigEndian.Uint16(buf[:]))
}

func (r *Reader) Uint16() uint16 {
	var buf [2]byte
	r.readFull(buf[:])
	return binary.BigEndian.Uint16(buf[:])
}

func (r *Reader) Int32() int32 {
	var buf [4]byte
	r.readFull(buf[:])
	return int32(binary.BigEndian.Uint32(buf[:]))
}

func (r *Reader) Int64() int64 {
	var buf [8]byte
	r.readFull(buf[:])
	return int64(binary.BigEndian.Uint64(buf[:]))
}

func (r *Reader) Float32() float32 { return math.Float32frombits(uint32(r.Int32())) }
func (r *Reader) Float64() float64 { return math.Float64frombits(uint64(r.Int64())) }

// maxStringLen bounds String decoding against a hostile or corrupt length
// prefix; 32767 UTF-8 code points at up to 3 bytes each is the largest
// legitimate Java Edition chat/identifier string.
const maxStringLen = 32767 * 3

func (r *Reader) String() string {
	n := r.VarInt32()
	if r.err != nil {
		return ""
	}
	if n < 0 || n > maxStringLen {
		r.err = fmt.Errorf("protocol: string length %d exceeds limit", n)
		return ""
	}
	buf := make([]byte, n)
	r.readFull(buf)
	return SanitizeString(string(buf))
}

func (r *Reader) ByteArray() []byte {
	n := r.VarInt32()
	if r.err != nil {
		return nil
	}
	buf := make([]byte, n)
	r.readFull(buf)
	return buf
}

func (r *Reader) Bytes(n int) []byte {
	buf := make([]byte, n)
	r.readFull(buf)
	return buf
}

// Remaining reads and returns every byte left in the packet body. It is
// used for trailing fields whose length is implied by the outer frame
// rather than self-prefixed (e.g. plugin-channel payloads).
func (r *Reader) Remaining() []byte {
	if r.err != nil {
		return nil
	}
	buf, err := io.ReadAll(r.r)
	r.err = err
	return buf
}

func (r *Reader) UUID() uuid.UUID {
	var u uuid.UUID
	r.readFull(u[:])
	return u
}

func (r *Reader) BlockPos() BlockPos { return UnpackBlockPos(r.Int64()) }

// NBT reads an unnamed NBT document, as emitted by Writer.NBT.
func (r *Reader) NBT() *nbt.Compound {
	if r.err != nil {
		return nil
	}
	_, c, err := nbt.Decode(r.r)
	r.err = err
	return c
}

// Fail records err as the Reader's first error, for callers that detect a
// problem outside the normal field-read helpers.
func (r *Reader) Fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

type byteWriterAdapter struct{ w *Writer }

func (b byteWriterAdapter) WriteByte(c byte) error {
	b.w.write([]byte{c})
	return b.w.err
}
