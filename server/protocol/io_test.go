package protocol

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.VarInt32(-12345)
	w.VarInt64(1 << 40)
	w.Bool(true)
	w.Uint8(200)
	w.Int16(-1000)
	w.Int32(123456)
	w.Int64(-987654321)
	w.Float32(1.5)
	w.Float64(2.25)
	w.String("hello, minecraft")
	w.ByteArray([]byte{1, 2, 3})
	id := uuid.New()
	w.UUID(id)
	w.BlockPos(BlockPos{X: 1, Y: -2, Z: 3})
	require.NoError(t, w.Err())

	r := NewReader(&buf)
	require.Equal(t, int32(-12345), r.VarInt32())
	require.Equal(t, int64(1<<40), r.VarInt64())
	require.Equal(t, true, r.Bool())
	require.Equal(t, uint8(200), r.Uint8())
	require.Equal(t, int16(-1000), r.Int16())
	require.Equal(t, int32(123456), r.Int32())
	require.Equal(t, int64(-987654321), r.Int64())
	require.Equal(t, float32(1.5), r.Float32())
	require.Equal(t, float64(2.25), r.Float64())
	require.Equal(t, "hello, minecraft", r.String())
	require.Equal(t, []byte{1, 2, 3}, r.ByteArray())
	require.Equal(t, id, r.UUID())
	require.Equal(t, BlockPos{X: 1, Y: -2, Z: 3}, r.BlockPos())
	require.NoError(t, r.Err())
}

func TestReaderRejectsOversizedString(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.VarInt32(1 << 20)
	r := NewReader(&buf)
	r.String()
	require.Error(t, r.Err())
}
