package serverpackets

import "github.com/udisondev/corebank/internal/gameserver/packet"

// OpcodeDeleteObject is the S2C opcode 0x12.
const OpcodeDeleteObject byte = 0x12

// DeleteObject removes a despawned monster or a departed player from the client's view.
type DeleteObject struct {
	ObjectID int32
}

// Write serializes DeleteObject packet to binary format.
func (p *DeleteObject) Write() ([]byte, error) {
	w := packet.NewWriter(5)
	_ = w.WriteByte(OpcodeDeleteObject)
	w.WriteInt(p.ObjectID)
	return w.Bytes(), nil
}
