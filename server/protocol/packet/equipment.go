package packet

import "github.com/tesseract-mc/tesseract/server/protocol"

// EquipmentSlot names one of an entity's rendered equipment slots.
type EquipmentSlot uint8

const (
	EquipmentMainHand EquipmentSlot = iota
	EquipmentOffHand
	EquipmentBoots
	EquipmentLeggings
	EquipmentChestplate
	EquipmentHelmet
)

// ItemStack is the minimal item payload carried by equipment and inventory
// packets: a presence flag, then (when present) a numeric item id, a
// client-side stack count, and arbitrary NBT component data.
type ItemStack struct {
	Present bool
	ItemID  int32
	Count   int8
	NBT     []byte // raw, pre-encoded NBT compound; nil when absent
}

func (s *ItemStack) encode(w *protocol.Writer) {
	w.Bool(s.Present)
	if !s.Present {
		return
	}
	w.VarInt32(s.ItemID)
	w.Int8(s.Count)
	w.VarInt32(int32(len(s.NBT)))
	w.Bytes(s.NBT)
}

func (s *ItemStack) decode(r *protocol.Reader) {
	s.Present = r.Bool()
	if !s.Present {
		return
	}
	s.ItemID = r.VarInt32()
	s.Count = r.Int8()
	n := r.VarInt32()
	if n > 0 {
		s.NBT = r.Bytes(int(n))
	}
}

// Equipment pairs a slot with the stack displayed there.
type Equipment struct {
	Slot EquipmentSlot
	Item ItemStack
}

// EncodeEquipmentSlots writes slots as a stream of (slot_byte, item)
// entries, setting bit 7 on every non-terminal slot byte so the reader
// knows another entry follows.
func EncodeEquipmentSlots(w *protocol.Writer, slots []Equipment) {
	for i, e := range slots {
		b := uint8(e.Slot)
		if i != len(slots)-1 {
			b |= 0x80
		}
		w.Uint8(b)
		e.Item.encode(w)
	}
}

// DecodeEquipmentSlots reads entries until one arrives without the
// continuation bit set.
func DecodeEquipmentSlots(r *protocol.Reader) []Equipment {
	var slots []Equipment
	for {
		b := r.Uint8()
		if r.Err() != nil {
			return slots
		}
		more := b&0x80 != 0
		e := Equipment{Slot: EquipmentSlot(b &^ 0x80)}
		e.Item.decode(r)
		slots = append(slots, e)
		if !more {
			return slots
		}
	}
}

// SetEquipment updates the rendered equipment for a single entity.
type SetEquipment struct {
	EntityID int32
	Slots    []Equipment
}

var _ Packet = (*SetEquipment)(nil)

func (*SetEquipment) ID() int32 { return 0x51 }

func (p *SetEquipment) Encode(w *protocol.Writer) {
	w.VarInt32(p.EntityID)
	EncodeEquipmentSlots(w, p.Slots)
}

func (p *SetEquipment) Decode(r *protocol.Reader) {
	p.EntityID = r.VarInt32()
	p.Slots = DecodeEquipmentSlots(r)
}
