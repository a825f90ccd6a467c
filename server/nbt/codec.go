package nbt

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"unicode/utf8"
)

// Encode writes name/c to w as a complete named NBT document: a root tag
// byte (always TagCompound), the root's name, and the compound's payload.
func Encode(w io.Writer, name string, c *Compound) error {
	if err := writeTagHeader(w, TagCompound, name); err != nil {
		return err
	}
	return encodeCompoundPayload(w, c)
}

func writeTagHeader(w io.Writer, tag Tag, name string) error {
	if _, err := w.Write([]byte{byte(tag)}); err != nil {
		return err
	}
	return writeString(w, name)
}

func writeString(w io.Writer, s string) error {
	if len(s) > 0xFFFF {
		return fmt.Errorf("nbt: string %q exceeds 65535 bytes", s)
	}
	if err := binary.Write(w, binary.BigEndian, uint16(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func encodeCompoundPayload(w io.Writer, c *Compound) error {
	for _, e := range c.entries {
		if err := writeTagHeader(w, e.tag, e.name); err != nil {
			return err
		}
		if err := encodePayload(w, e.tag, e.value); err != nil {
			return err
		}
	}
	_, err := w.Write([]byte{byte(TagEnd)})
	return err
}

func encodePayload(w io.Writer, tag Tag, value any) error {
	switch tag {
	case TagByte:
		return binary.Write(w, binary.BigEndian, value.(int8))
	case TagShort:
		return binary.Write(w, binary.BigEndian, value.(int16))
	case TagInt:
		return binary.Write(w, binary.BigEndian, value.(int32))
	case TagLong:
		return binary.Write(w, binary.BigEndian, value.(int64))
	case TagFloat:
		return binary.Write(w, binary.BigEndian, value.(float32))
	case TagDouble:
		return binary.Write(w, binary.BigEndian, value.(float64))
	case TagByteArray:
		v := value.([]int8)
		if err := binary.Write(w, binary.BigEndian, int32(len(v))); err != nil {
			return err
		}
		return binary.Write(w, binary.BigEndian, v)
	case TagString:
		return writeString(w, value.(string))
	case TagList:
		l := value.(*List)
		if _, err := w.Write([]byte{byte(l.Elem)}); err != nil {
			return err
		}
		if err := binary.Write(w, binary.BigEndian, int32(len(l.Values))); err != nil {
			return err
		}
		for _, v := range l.Values {
			if err := encodePayload(w, l.Elem, v); err != nil {
				return err
			}
		}
		return nil
	case TagCompound:
		return encodeCompoundPayload(w, value.(*Compound))
	case TagIntArray:
		v := value.([]int32)
		if err := binary.Write(w, binary.BigEndian, int32(len(v))); err != nil {
			return err
		}
		return binary.Write(w, binary.BigEndian, v)
	case TagLongArray:
		v := value.([]int64)
		if err := binary.Write(w, binary.BigEndian, int32(len(v))); err != nil {
			return err
		}
		return binary.Write(w, binary.BigEndian, v)
	default:
		return fmt.Errorf("%w: %d", ErrUnknownTag, tag)
	}
}

// Decode reads a complete named NBT document from r, returning its root name
// and compound.
func Decode(r io.Reader) (string, *Compound, error) {
	br := &reader{r: asByteReader(r)}
	tag, err := br.readTag()
	if err != nil {
		return "", nil, err
	}
	if tag != TagCompound {
		return "", nil, fmt.Errorf("nbt: root tag is %d, not compound", tag)
	}
	name, err := br.readString()
	if err != nil {
		return "", nil, err
	}
	c, err := br.readCompoundPayload()
	if err != nil {
		return "", nil, err
	}
	return name, c, nil
}

type reader struct {
	r io.ByteReader
}

func asByteReader(r io.Reader) io.ByteReader {
	if br, ok := r.(io.ByteReader); ok {
		return br
	}
	return bufByteReader{r}
}

// bufByteReader adapts an io.Reader lacking ReadByte by reading one byte at
// a time. Callers decoding off the network pass a *bytes.Buffer, which
// already implements io.ByteReader, so this path only matters for ad-hoc
// callers (tests, tools) that hand in a plain io.Reader.
type bufByteReader struct{ io.Reader }

func (b bufByteReader) ReadByte() (byte, error) {
	var tmp [1]byte
	if _, err := io.ReadFull(b.Reader, tmp[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return 0, ErrUnexpectedEOF
		}
		return 0, err
	}
	return tmp[0], nil
}

func (br *reader) readTag() (Tag, error) {
	b, err := br.r.ReadByte()
	if err != nil {
		if err == io.EOF {
			return 0, ErrUnexpectedEOF
		}
		return 0, err
	}
	if b > byte(TagLongArray) {
		return 0, ErrUnknownTag
	}
	return Tag(b), nil
}

func (br *reader) readN(n int) ([]byte, error) {
	buf := make([]byte, n)
	for i := range buf {
		b, err := br.r.ReadByte()
		if err != nil {
			if err == io.EOF {
				return nil, ErrUnexpectedEOF
			}
			return nil, err
		}
		buf[i] = b
	}
	return buf, nil
}

func (br *reader) readString() (string, error) {
	lenBuf, err := br.readN(2)
	if err != nil {
		return "", err
	}
	n := int(binary.BigEndian.Uint16(lenBuf))
	buf, err := br.readN(n)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(buf) {
		return "", ErrInvalidUTF8
	}
	return string(buf), nil
}

func (br *reader) readInt32() (int32, error) {
	buf, err := br.readN(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(buf)), nil
}

func (br *reader) readPayload(tag Tag) (any, error) {
	switch tag {
	case TagByte:
		b, err := br.r.ReadByte()
		if err != nil {
			if err == io.EOF {
				return nil, ErrUnexpectedEOF
			}
			return nil, err
		}
		return int8(b), nil
	case TagShort:
		buf, err := br.readN(2)
		if err != nil {
			return nil, err
		}
		return int16(binary.BigEndian.Uint16(buf)), nil
	case TagInt:
		return br.readInt32()
	case TagLong:
		buf, err := br.readN(8)
		if err != nil {
			return nil, err
		}
		return int64(binary.BigEndian.Uint64(buf)), nil
	case TagFloat:
		buf, err := br.readN(4)
		if err != nil {
			return nil, err
		}
		var v float32
		if err := binary.Read(bytes.NewReader(buf), binary.BigEndian, &v); err != nil {
			return nil, err
		}
		return v, nil
	case TagDouble:
		buf, err := br.readN(8)
		if err != nil {
			return nil, err
		}
		var v float64
		if err := binary.Read(bytes.NewReader(buf), binary.BigEndian, &v); err != nil {
			return nil, err
		}
		return v, nil
	case TagByteArray:
		n, err := br.readInt32()
		if err != nil {
			return nil, err
		}
		buf, err := br.readN(int(n))
		if err != nil {
			return nil, err
		}
		out := make([]int8, n)
		for i, b := range buf {
			out[i] = int8(b)
		}
		return out, nil
	case TagString:
		return br.readString()
	case TagList:
		elem, err := br.readTag()
		if err != nil {
			return nil, err
		}
		n, err := br.readInt32()
		if err != nil {
			return nil, err
		}
		if n < 0 {
			n = 0
		}
		values := make([]any, n)
		for i := range values {
			v, err := br.readPayload(elem)
			if err != nil {
				return nil, err
			}
			values[i] = v
		}
		return &List{Elem: elem, Values: values}, nil
	case TagCompound:
		return br.readCompoundPayload()
	case TagIntArray:
		n, err := br.readInt32()
		if err != nil {
			return nil, err
		}
		out := make([]int32, n)
		for i := range out {
			v, err := br.readInt32()
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case TagLongArray:
		n, err := br.readInt32()
		if err != nil {
			return nil, err
		}
		out := make([]int64, n)
		for i := range out {
			buf, err := br.readN(8)
			if err != nil {
				return nil, err
			}
			out[i] = int64(binary.BigEndian.Uint64(buf))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownTag, tag)
	}
}

func (br *reader) readCompoundPayload() (*Compound, error) {
	c := NewCompound()
	for {
		tag, err := br.readTag()
		if err != nil {
			return nil, err
		}
		if tag == TagEnd {
			return c, nil
		}
		name, err := br.readString()
		if err != nil {
			return nil, err
		}
		value, err := br.readPayload(tag)
		if err != nil {
			return nil, err
		}
		c.Put(name, tag, value)
	}
}
