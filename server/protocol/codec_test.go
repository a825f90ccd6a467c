package protocol

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

// pipeRW presents a single in-memory byte stream as the duplex io.ReadWriter
// Conn expects, so tests can exercise WritePacket/ReadPacket without a real
// socket.
type pipeRW struct {
	buf bytes.Buffer
}

func (p *pipeRW) Write(b []byte) (int, error) { return p.buf.Write(b) }
func (p *pipeRW) Read(b []byte) (int, error)  { return p.buf.Read(b) }

func TestWriteReadPacketPlain(t *testing.T) {
	rw := &pipeRW{}
	conn := NewConn(rw)

	body := []byte("hello packet body")
	require.NoError(t, conn.WritePacket(body))

	got, err := conn.ReadPacket()
	require.NoError(t, err)
	require.Equal(t, body, got)
}

func TestWriteReadPacketCompressedBelowThreshold(t *testing.T) {
	rw := &pipeRW{}
	conn := NewConn(rw)
	require.NoError(t, conn.EnableCompression(256, 6))

	body := []byte("short body, stays uncompressed")
	require.NoError(t, conn.WritePacket(body))

	got, err := conn.ReadPacket()
	require.NoError(t, err)
	require.Equal(t, body, got)
}

func TestWriteReadPacketCompressedAboveThreshold(t *testing.T) {
	rw := &pipeRW{}
	conn := NewConn(rw)
	require.NoError(t, conn.EnableCompression(16, 6))

	body := bytes.Repeat([]byte("x"), 4096)
	require.NoError(t, conn.WritePacket(body))

	got, err := conn.ReadPacket()
	require.NoError(t, err)
	require.Equal(t, body, got)
}

func TestWriteReadPacketEncryptedPlain(t *testing.T) {
	rw := &pipeRW{}
	connA := NewConn(rw)
	connB := NewConn(rw)

	key := bytes.Repeat([]byte{0x2A}, 16)
	require.NoError(t, connA.EnableEncryption(key))
	require.NoError(t, connB.EnableEncryption(key))

	body := []byte("a secret packet")
	require.NoError(t, connA.WritePacket(body))

	got, err := connB.ReadPacket()
	require.NoError(t, err)
	require.Equal(t, body, got)
}

func TestWriteReadPacketEncryptedAndCompressed(t *testing.T) {
	rw := &pipeRW{}
	connA := NewConn(rw)
	connB := NewConn(rw)

	key := bytes.Repeat([]byte{0x7, 0x3}, 8)
	require.NoError(t, connA.EnableEncryption(key))
	require.NoError(t, connB.EnableEncryption(key))
	require.NoError(t, connA.EnableCompression(8, 6))
	require.NoError(t, connB.EnableCompression(8, 6))

	bodies := [][]byte{
		[]byte("s"),
		bytes.Repeat([]byte("z"), 1000),
		[]byte("another short one"),
	}
	for _, b := range bodies {
		require.NoError(t, connA.WritePacket(b))
	}
	for _, want := range bodies {
		got, err := connB.ReadPacket()
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestEnableCompressionRejectsThresholdOverflow(t *testing.T) {
	conn := NewConn(&pipeRW{})
	require.ErrorIs(t, conn.EnableCompression(MaxCompressionThreshold+1, 6), ErrCompressionThresholdTooLarge)
}

func TestReadPacketPropagatesShortRead(t *testing.T) {
	rw := &pipeRW{}
	conn := NewConn(rw)
	// A length prefix claiming more bytes than are actually written.
	rw.buf.Write([]byte{0x05, 'a', 'b'})
	_, err := conn.ReadPacket()
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
