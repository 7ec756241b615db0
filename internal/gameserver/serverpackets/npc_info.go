package serverpackets

import (
	"github.com/udisondev/corebank/internal/gameserver/packet"
	"github.com/udisondev/corebank/internal/model"
)

const (
	// OpcodeNpcInfo is the opcode for NpcInfo packet (S2C 0x16)
	OpcodeNpcInfo = 0x16

	// npcIDOffset is added to template IDs for client-side caching.
	npcIDOffset = 1000000
)

// NpcInfo packet (S2C 0x16) announces a monster to the client.
// Sent on EnterWorld and on every respawn.
type NpcInfo struct {
	Monster *model.Monster
}

// NewNpcInfo creates NpcInfo packet from Monster model.
func NewNpcInfo(m *model.Monster) NpcInfo {
	return NpcInfo{
		Monster: m,
	}
}

// Write serializes NpcInfo packet to binary format.
func (p *NpcInfo) Write() ([]byte, error) {
	w := packet.NewWriter(64)

	m := p.Monster
	loc := m.Location()

	_ = w.WriteByte(OpcodeNpcInfo)
	w.WriteInt(int32(m.ObjectID()))
	w.WriteInt(m.TemplateID() + npcIDOffset)

	w.WriteInt(loc.X)
	w.WriteInt(loc.Y)
	w.WriteInt(loc.Z)

	w.WriteInt(m.CurrentHP())
	w.WriteInt(m.MaxHP())
	w.WriteBool(m.IsBoss())
	w.WriteString(m.Name())

	return w.Bytes(), nil
}
