package clientpackets

import (
	"fmt"

	"github.com/udisondev/corebank/internal/gameserver/packet"
)

const (
	// OpcodeEnterWorld is the opcode for EnterWorld packet (C2S 0x03)
	OpcodeEnterWorld = 0x03

	// MaxNameLength ограничивает имя персонажа в символах.
	MaxNameLength = 16
)

// EnterWorld spawns a character and loads its core progression.
//
// Packet structure (C2S 0x03):
//   - characterID (int32) — persistent character key
//   - name (string)
type EnterWorld struct {
	CharacterID int32
	Name        string
}

// ParseEnterWorld parses EnterWorld packet from raw bytes.
// Opcode already stripped by HandlePacket.
func ParseEnterWorld(data []byte) (*EnterWorld, error) {
	r := packet.NewReader(data)

	id, err := r.ReadInt()
	if err != nil {
		return nil, fmt.Errorf("reading character id: %w", err)
	}
	if id <= 0 {
		return nil, fmt.Errorf("invalid character id %d", id)
	}
	name, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("reading name: %w", err)
	}
	if name == "" || len([]rune(name)) > MaxNameLength {
		return nil, fmt.Errorf("invalid character name %q", name)
	}

	return &EnterWorld{CharacterID: id, Name: name}, nil
}

// Write serializes EnterWorld including the opcode (client side).
func (p *EnterWorld) Write() []byte {
	w := packet.NewWriter(8 + len(p.Name)*2)
	_ = w.WriteByte(OpcodeEnterWorld)
	w.WriteInt(p.CharacterID)
	w.WriteString(p.Name)
	return w.Bytes()
}
