package protocol

import (
	"bytes"
	"math/bits"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVarInt32Literals(t *testing.T) {
	cases := []struct {
		v    int32
		want []byte
	}{
		{-1, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x0F}},
		{127, []byte{0x7F}},
		{128, []byte{0x80, 0x01}},
		{2147483647, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x07}},
	}
	for _, c := range cases {
		var buf bytes.Buffer
		require.NoError(t, WriteVarInt32(&buf, c.v))
		require.Equal(t, c.want, buf.Bytes())
	}
}

func TestVarInt32RoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 10000; i++ {
		v := int32(r.Uint32())
		var buf bytes.Buffer
		require.NoError(t, WriteVarInt32(&buf, v))
		require.GreaterOrEqual(t, buf.Len(), 1)
		require.LessOrEqual(t, buf.Len(), 5)

		got, err := ReadVarInt32(&buf)
		require.NoError(t, err)
		require.Equal(t, v, got)

		wantWidth := 1
		if v >= 0 {
			u := uint32(v)
			clz := bits.LeadingZeros32(u)
			if u != 0 {
				wantWidth = max(1, (32-clz+6)/7)
			}
		} else {
			wantWidth = 5
		}
		require.Equal(t, wantWidth, SizeVarInt32(v))
	}
}

func TestVarInt32TooWide(t *testing.T) {
	// 6 continuation bytes is one past the 5-byte limit for a 32-bit value.
	buf := bytes.NewReader([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x01})
	_, err := ReadVarInt32(buf)
	require.ErrorIs(t, err, ErrVarIntTooWide)
}

func TestVarInt64RoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for i := 0; i < 10000; i++ {
		v := int64(r.Uint64())
		var buf bytes.Buffer
		require.NoError(t, WriteVarInt64(&buf, v))
		require.LessOrEqual(t, buf.Len(), 10)

		got, err := ReadVarInt64(&buf)
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestVarInt21RoundTrip(t *testing.T) {
	for _, v := range []int32{0, 1, 127, 128, 16383, 16384, (1 << 21) - 1} {
		var buf bytes.Buffer
		require.NoError(t, WriteVarInt21(&buf, v))
		require.LessOrEqual(t, buf.Len(), 3)
		got, err := ReadVarInt21(&buf)
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestVarInt21RejectsOverflow(t *testing.T) {
	require.ErrorIs(t, WriteVarInt21(&bytes.Buffer{}, 1<<21), ErrVarIntTooWide)
}

func TestPutVarInt21Padded3(t *testing.T) {
	buf := make([]byte, 3)
	PutVarInt21Padded3(buf, 5)
	got, err := ReadVarInt21(bytes.NewReader(buf))
	require.NoError(t, err)
	require.Equal(t, int32(5), got)
}
