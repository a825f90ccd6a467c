package nbt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	in := NewCompound()
	in.PutByte("byte", -12)
	in.PutShort("short", 1234)
	in.PutInt("int", -70000)
	in.PutLong("long", 1<<40)
	in.PutFloat("float", 3.5)
	in.PutDouble("double", 2.25)
	in.PutString("string", "hello, world")
	in.PutByteArray("bytes", []int8{1, -2, 3})
	in.PutIntArray("ints", []int32{1, 2, 3})
	in.PutLongArray("longs", []int64{1, 2, 3})

	nested := NewCompound()
	nested.PutString("inner", "value")
	in.PutCompound("nested", nested)

	in.PutList("list", &List{Elem: TagInt, Values: []any{int32(1), int32(2), int32(3)}})

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, "root", in))

	name, out, err := Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, "root", name)

	require.Equal(t, in.Names(), out.Names())

	_, v, _ := out.Get("byte")
	require.Equal(t, int8(-12), v)
	_, v, _ = out.Get("short")
	require.Equal(t, int16(1234), v)
	require.Equal(t, int32(-70000), out.Int("int"))
	require.Equal(t, int64(1<<40), out.Long("long"))
	_, v, _ = out.Get("float")
	require.Equal(t, float32(3.5), v)
	_, v, _ = out.Get("double")
	require.Equal(t, float64(2.25), v)
	require.Equal(t, "hello, world", out.String("string"))
	_, v, _ = out.Get("bytes")
	require.Equal(t, []int8{1, -2, 3}, v)
	_, v, _ = out.Get("ints")
	require.Equal(t, []int32{1, 2, 3}, v)
	_, v, _ = out.Get("longs")
	require.Equal(t, []int64{1, 2, 3}, v)

	gotNested, ok := out.Compound("nested")
	require.True(t, ok)
	require.Equal(t, "value", gotNested.String("inner"))

	_, lv, ok := out.Get("list")
	require.True(t, ok)
	l := lv.(*List)
	require.Equal(t, TagInt, l.Elem)
	require.Equal(t, []any{int32(1), int32(2), int32(3)}, l.Values)
}

func TestEncodeEmptyCompound(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, "", NewCompound()))
	require.Equal(t, []byte{byte(TagCompound), 0x00, 0x00, byte(TagEnd)}, buf.Bytes())
}

func TestDecodeTruncatedInputIsUnexpectedEOF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, "root", NewCompound()))
	truncated := buf.Bytes()[:buf.Len()-1]
	_, _, err := Decode(bytes.NewReader(truncated))
	require.ErrorIs(t, err, ErrUnexpectedEOF)
}

func TestDecodeUnknownTagByte(t *testing.T) {
	// A compound whose single field declares an out-of-range tag id (13).
	data := []byte{byte(TagCompound), 0x00, 0x00, 0x0D, 0x00, 0x01, 'x'}
	_, _, err := Decode(bytes.NewReader(data))
	require.ErrorIs(t, err, ErrUnknownTag)
}
