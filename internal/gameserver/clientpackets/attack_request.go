package clientpackets

import (
	"fmt"

	"github.com/udisondev/corebank/internal/gameserver/packet"
)

// OpcodeAttackRequest is the client packet opcode for attack request.
//
// Packet structure (C2S 0x0A):
//   - objectID (int32) — target objectID
//   - attackID (byte) — 0 = simple click, 1 = shift-click
const OpcodeAttackRequest = 0x0A

// AttackRequest represents client attack request packet.
// Every request is one weapon hit; the server applies core bonuses.
type AttackRequest struct {
	ObjectID uint32
	AttackID byte
}

// ParseAttackRequest parses AttackRequest packet from raw bytes.
// Opcode already stripped by HandlePacket.
func ParseAttackRequest(data []byte) (*AttackRequest, error) {
	r := packet.NewReader(data)

	objectID, err := r.ReadInt()
	if err != nil {
		return nil, fmt.Errorf("reading target: %w", err)
	}
	// attackID необязателен: старые клиенты его не шлют.
	attackID, _ := r.ReadByte()

	return &AttackRequest{
		ObjectID: uint32(objectID),
		AttackID: attackID,
	}, nil
}

// Write serializes AttackRequest including the opcode (client side).
func (p *AttackRequest) Write() []byte {
	w := packet.NewWriter(6)
	_ = w.WriteByte(OpcodeAttackRequest)
	w.WriteInt(int32(p.ObjectID))
	_ = w.WriteByte(p.AttackID)
	return w.Bytes()
}
