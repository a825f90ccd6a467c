package protocol

import (
	"bufio"
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// MaxCompressionThreshold is the largest compression threshold a Conn will
// accept. It exists because the outer frame length is written into a
// pre-reserved 3-byte slot whose last byte must stay a non-continuation
// byte, limiting it to 21 bits split as two full continuation bytes.
const MaxCompressionThreshold = 16384

var (
	// ErrFrameTooLarge is returned by WritePacket when the framed body would
	// not fit in the 3-byte outer length prefix.
	ErrFrameTooLarge = errors.New("protocol: framed packet exceeds 21-bit length prefix")
	// ErrCompressionThresholdTooLarge is returned by EnableCompression.
	ErrCompressionThresholdTooLarge = errors.New("protocol: compression threshold exceeds 16384")
)

// Conn layers Java Edition packet framing, zlib compression and AES-128/CFB8
// encryption over a bidirectional byte stream. It speaks in terms of raw,
// already-identified packet bodies (id byte(s) plus fields already encoded);
// packet-level marshaling lives in the codec table built on top of Conn.
type Conn struct {
	rw     io.Writer
	reader *bufio.Reader

	enc cipher.Stream
	dec cipher.Stream

	compressionThreshold int32 // negative disables compression
	compressionLevel     int
}

// NewConn wraps rw with no compression and no encryption. Call
// EnableCompression and EnableEncryption once login negotiation determines
// they apply.
func NewConn(rw io.ReadWriter) *Conn {
	return &Conn{
		rw:                   rw,
		reader:               bufio.NewReader(rw),
		compressionThreshold: -1,
		compressionLevel:     zlib.DefaultCompression,
	}
}

// EnableEncryption switches the connection to AES-128/CFB8 using key as both
// the cipher key and the initial feedback register, matching the Java
// Edition login handshake where the shared secret serves both roles.
func (c *Conn) EnableEncryption(key []byte) error {
	block, err := aes.NewCipher(key)
	if err != nil {
		return fmt.Errorf("protocol: enable encryption: %w", err)
	}
	c.enc = newCFB8(block, key, false)
	c.dec = newCFB8(block, key, true)
	return nil
}

// EnableCompression turns on zlib compression for outbound packets whose
// encoded body exceeds threshold bytes, and enables the compressed framing
// (leading uncompressed-length VarInt) for both directions.
func (c *Conn) EnableCompression(threshold int32, level int) error {
	if threshold > MaxCompressionThreshold {
		return ErrCompressionThresholdTooLarge
	}
	c.compressionThreshold = threshold
	c.compressionLevel = level
	return nil
}

// WritePacket frames body (a fully encoded packet, including its leading id
// VarInt) and writes it to the underlying stream, compressing and
// encrypting as configured.
func (c *Conn) WritePacket(body []byte) error {
	var framed []byte
	switch {
	case c.compressionThreshold < 0:
		framed = body
	case int32(len(body)) > c.compressionThreshold:
		var compressed bytes.Buffer
		zw, err := zlib.NewWriterLevel(&compressed, c.compressionLevel)
		if err != nil {
			return err
		}
		if _, err := zw.Write(body); err != nil {
			return err
		}
		if err := zw.Close(); err != nil {
			return err
		}
		var inner bytes.Buffer
		if err := WriteVarInt32(&inner, int32(len(body))); err != nil {
			return err
		}
		inner.Write(compressed.Bytes())
		framed = inner.Bytes()
	default:
		var inner bytes.Buffer
		if err := WriteVarInt32(&inner, 0); err != nil {
			return err
		}
		inner.Write(body)
		framed = inner.Bytes()
	}

	if len(framed) >= 1<<21 {
		return ErrFrameTooLarge
	}

	out := make([]byte, 3+len(framed))
	PutVarInt21Padded3(out[:3], int32(len(framed)))
	copy(out[3:], framed)

	if c.enc != nil {
		c.enc.XORKeyStream(out, out)
	}
	_, err := c.rw.Write(out)
	return err
}

// ReadPacket blocks until a full frame has arrived, decrypts and
// decompresses it, and returns the raw packet body (id VarInt plus fields).
func (c *Conn) ReadPacket() ([]byte, error) {
	length, err := ReadVarInt21(connByteReader{c})
	if err != nil {
		return nil, err
	}
	frame := make([]byte, length)
	if err := c.readFull(frame); err != nil {
		return nil, err
	}

	if c.compressionThreshold < 0 {
		return frame, nil
	}

	r := bytes.NewReader(frame)
	uncompressedLen, err := ReadVarInt32(r)
	if err != nil {
		return nil, err
	}
	rest := frame[len(frame)-r.Len():]
	if uncompressedLen == 0 {
		return rest, nil
	}

	zr, err := zlib.NewReader(bytes.NewReader(rest))
	if err != nil {
		return nil, fmt.Errorf("protocol: decompress packet: %w", err)
	}
	defer zr.Close()
	body := make([]byte, uncompressedLen)
	if _, err := io.ReadFull(zr, body); err != nil {
		return nil, fmt.Errorf("protocol: decompress packet: %w", err)
	}
	return body, nil
}

func (c *Conn) readByte() (byte, error) {
	b, err := c.reader.ReadByte()
	if err != nil {
		return 0, err
	}
	if c.dec != nil {
		var out [1]byte
		c.dec.XORKeyStream(out[:], []byte{b})
		b = out[0]
	}
	return b, nil
}

func (c *Conn) readFull(buf []byte) error {
	if _, err := io.ReadFull(c.reader, buf); err != nil {
		return err
	}
	if c.dec != nil {
		c.dec.XORKeyStream(buf, buf)
	}
	return nil
}

// connByteReader adapts Conn's decrypting byte reads to io.ByteReader so the
// VarInt helpers can read the outer length prefix one (decrypted) byte at a
// time.
type connByteReader struct{ c *Conn }

func (r connByteReader) ReadByte() (byte, error) { return r.c.readByte() }
