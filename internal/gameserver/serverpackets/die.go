package serverpackets

import "github.com/udisondev/corebank/internal/gameserver/packet"

// OpcodeDie is the S2C opcode 0x06.
const OpcodeDie byte = 0x06

// Die notifies the client that a character has died.
// For players ReviveIn carries the frames until automatic revival.
type Die struct {
	ObjectID int32
	ReviveIn int32
}

// Write serializes the Die packet.
func (p *Die) Write() ([]byte, error) {
	w := packet.NewWriter(9)
	_ = w.WriteByte(OpcodeDie)
	w.WriteInt(p.ObjectID)
	w.WriteInt(p.ReviveIn)
	return w.Bytes(), nil
}
