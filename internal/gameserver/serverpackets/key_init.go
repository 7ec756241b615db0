package serverpackets

import (
	"fmt"

	"github.com/udisondev/corebank/internal/constants"
	"github.com/udisondev/corebank/internal/gameserver/packet"
)

const OpcodeKeyInit = 0x2E

// KeyInit is the first packet sent to the client after TCP connection.
// Carries the session key for encrypting every later frame; it is sent in plaintext.
//
// Structure:
// - byte: opcode (0x2E)
// - short: protocol revision
// - byte[16]: session key
type KeyInit struct {
	Revision int16
	Key      []byte
}

// NewKeyInit creates a KeyInit with the given session key.
func NewKeyInit(key []byte) KeyInit {
	return KeyInit{
		Revision: constants.ProtocolRevision,
		Key:      key,
	}
}

// Write serializes the KeyInit.
func (p *KeyInit) Write() ([]byte, error) {
	if len(p.Key) != constants.BlowfishKeySize {
		return nil, fmt.Errorf("key init: key must be %d bytes, got %d", constants.BlowfishKeySize, len(p.Key))
	}
	w := packet.NewWriter(3 + constants.BlowfishKeySize)

	if err := w.WriteByte(OpcodeKeyInit); err != nil {
		return nil, err
	}
	w.WriteShort(p.Revision)
	w.WriteBytes(p.Key)

	return w.Bytes(), nil
}

// ParseKeyInit decodes a KeyInit payload (client side).
func ParseKeyInit(data []byte) (KeyInit, error) {
	r := packet.NewReader(data)

	op, err := r.ReadByte()
	if err != nil {
		return KeyInit{}, fmt.Errorf("reading opcode: %w", err)
	}
	if op != OpcodeKeyInit {
		return KeyInit{}, fmt.Errorf("unexpected opcode 0x%02X, want 0x%02X", op, OpcodeKeyInit)
	}
	rev, err := r.ReadShort()
	if err != nil {
		return KeyInit{}, fmt.Errorf("reading revision: %w", err)
	}
	key, err := r.ReadBytesCopy(constants.BlowfishKeySize)
	if err != nil {
		return KeyInit{}, fmt.Errorf("reading key: %w", err)
	}
	return KeyInit{Revision: rev, Key: key}, nil
}
