package serverpackets

import (
	"github.com/udisondev/corebank/internal/gameserver/packet"
	"github.com/udisondev/corebank/internal/model"
)

// OpcodeRevive is the S2C opcode 0x07.
const OpcodeRevive byte = 0x07

// Revive notifies the client that a character is back at full HP at Location.
type Revive struct {
	ObjectID int32
	Location model.Location
}

// Write serializes the Revive packet.
func (p *Revive) Write() ([]byte, error) {
	w := packet.NewWriter(17)
	_ = w.WriteByte(OpcodeRevive)
	w.WriteInt(p.ObjectID)
	w.WriteInt(p.Location.X)
	w.WriteInt(p.Location.Y)
	w.WriteInt(p.Location.Z)
	return w.Bytes(), nil
}
