package serverpackets

import (
	"github.com/udisondev/corebank/internal/gameserver/packet"
)

const (
	// OpcodeStatusUpdate is the opcode for StatusUpdate packet (S2C 0x0E)
	OpcodeStatusUpdate = 0x0E
)

// StatusUpdate attribute IDs.
const (
	AttrCurrentHP = 0x09
	AttrMaxHP     = 0x0A
)

// hpHolder is implemented by *model.Character and everything embedding it.
type hpHolder interface {
	ObjectID() uint32
	CurrentHP() int32
	MaxHP() int32
}

// StatusUpdate packet (S2C 0x0E) refreshes HP bars of one object.
type StatusUpdate struct {
	ObjectID   int32
	Attributes []StatusAttribute
}

// StatusAttribute represents a single stat update (ID + value).
type StatusAttribute struct {
	ID    int32
	Value int32
}

// NewStatusUpdate creates StatusUpdate with current and max HP of c.
func NewStatusUpdate(c hpHolder) *StatusUpdate {
	return &StatusUpdate{
		ObjectID: int32(c.ObjectID()),
		Attributes: []StatusAttribute{
			{ID: AttrCurrentHP, Value: c.CurrentHP()},
			{ID: AttrMaxHP, Value: c.MaxHP()},
		},
	}
}

// Write serializes StatusUpdate packet to binary format.
func (p *StatusUpdate) Write() ([]byte, error) {
	w := packet.NewWriter(8 + len(p.Attributes)*8)

	_ = w.WriteByte(OpcodeStatusUpdate)
	w.WriteInt(p.ObjectID)
	w.WriteInt(int32(len(p.Attributes)))
	for _, attr := range p.Attributes {
		w.WriteInt(attr.ID)
		w.WriteInt(attr.Value)
	}

	return w.Bytes(), nil
}
