package packet

import "github.com/tesseract-mc/tesseract/server/protocol"

// EntityDataValue is one tracked-data slot's tagged payload. Each concrete
// type owns a fixed VarInt32 type id, written immediately after the slot
// index byte.
type EntityDataValue interface {
	EntityDataType() int32
	Encode(w *protocol.Writer)
	Decode(r *protocol.Reader)
}

// entityDataFactories maps a wire type id to a zero-value constructor, used
// by DecodeEntityData to allocate the right concrete type before calling
// its Decode.
var entityDataFactories = map[int32]func() EntityDataValue{
	0: func() EntityDataValue { return new(EntityDataByte) },
	1: func() EntityDataValue { return new(EntityDataInt) },
	3: func() EntityDataValue { return new(EntityDataFloat) },
	4: func() EntityDataValue { return new(EntityDataString) },
	8: func() EntityDataValue { return new(EntityDataBoolean) },
	9: func() EntityDataValue { return new(EntityDataRotations) },
	18: func() EntityDataValue { return new(EntityDataPose) },
}

type EntityDataByte struct{ Value uint8 }

func (*EntityDataByte) EntityDataType() int32    { return 0 }
func (v *EntityDataByte) Encode(w *protocol.Writer) { w.Uint8(v.Value) }
func (v *EntityDataByte) Decode(r *protocol.Reader) { v.Value = r.Uint8() }

type EntityDataInt struct{ Value int32 }

func (*EntityDataInt) EntityDataType() int32    { return 1 }
func (v *EntityDataInt) Encode(w *protocol.Writer) { w.VarInt32(v.Value) }
func (v *EntityDataInt) Decode(r *protocol.Reader) { v.Value = r.VarInt32() }

type EntityDataFloat struct{ Value float32 }

func (*EntityDataFloat) EntityDataType() int32    { return 3 }
func (v *EntityDataFloat) Encode(w *protocol.Writer) { w.Float32(v.Value) }
func (v *EntityDataFloat) Decode(r *protocol.Reader) { v.Value = r.Float32() }

type EntityDataString struct{ Value string }

func (*EntityDataString) EntityDataType() int32    { return 4 }
func (v *EntityDataString) Encode(w *protocol.Writer) { w.String(v.Value) }
func (v *EntityDataString) Decode(r *protocol.Reader) { v.Value = r.String() }

type EntityDataBoolean struct{ Value bool }

func (*EntityDataBoolean) EntityDataType() int32    { return 8 }
func (v *EntityDataBoolean) Encode(w *protocol.Writer) { w.Bool(v.Value) }
func (v *EntityDataBoolean) Decode(r *protocol.Reader) { v.Value = r.Bool() }

// EntityDataRotations carries a packed Euler rotation (e.g. armor stand
// limb pose).
type EntityDataRotations struct{ X, Y, Z float32 }

func (*EntityDataRotations) EntityDataType() int32 { return 9 }

func (v *EntityDataRotations) Encode(w *protocol.Writer) {
	w.Float32(v.X)
	w.Float32(v.Y)
	w.Float32(v.Z)
}

func (v *EntityDataRotations) Decode(r *protocol.Reader) {
	v.X = r.Float32()
	v.Y = r.Float32()
	v.Z = r.Float32()
}

// EntityDataPose carries an entity's current animation pose id (standing,
// sleeping, swimming, ...).
type EntityDataPose struct{ Value int32 }

func (*EntityDataPose) EntityDataType() int32    { return 18 }
func (v *EntityDataPose) Encode(w *protocol.Writer) { w.VarInt32(v.Value) }
func (v *EntityDataPose) Decode(r *protocol.Reader) { v.Value = r.VarInt32() }

// entityDataEnd is the sentinel index byte that terminates an EntityData
// stream; it doubles as a type id outside the real 0-25 range so no valid
// entry can collide with it.
const entityDataEnd = 0xFF

// EncodeEntityData writes fields as a stream of (index, type id, value)
// triples in map order, terminated by 0xFF.
func EncodeEntityData(w *protocol.Writer, fields map[uint8]EntityDataValue) {
	for index, value := range fields {
		w.Uint8(index)
		w.VarInt32(value.EntityDataType())
		value.Encode(w)
	}
	w.Uint8(entityDataEnd)
}

// DecodeEntityData reads an EntityData stream, allocating each entry via
// entityDataFactories keyed by its wire type id.
func DecodeEntityData(r *protocol.Reader) map[uint8]EntityDataValue {
	fields := make(map[uint8]EntityDataValue)
	for {
		index := r.Uint8()
		if r.Err() != nil || index == entityDataEnd {
			return fields
		}
		typeID := r.VarInt32()
		factory, ok := entityDataFactories[typeID]
		if !ok {
			r.Fail(ErrUnknownEntityDataType)
			return fields
		}
		value := factory()
		value.Decode(r)
		fields[index] = value
	}
}
