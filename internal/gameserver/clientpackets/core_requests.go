package clientpackets

import (
	"fmt"

	"github.com/udisondev/corebank/internal/gameserver/packet"
)

// OpcodeExtended is the prefix of extended client packets (0xD0 + sub-opcode short).
const OpcodeExtended byte = 0xD0

// Sub-opcodes for core panel requests (0xD0:0x60-0x63).
const (
	SubOpcodeRequestCoreEquip   int16 = 0x60
	SubOpcodeRequestCoreUnequip int16 = 0x61
	SubOpcodeRequestCoreEnhance int16 = 0x62
	SubOpcodeRequestCoreStatus  int16 = 0x63
)

// RequestCoreEquip — put the core with ItemType into Slot (C2S 0xD0:0x60).
type RequestCoreEquip struct {
	Slot     int32
	ItemType int32
}

// ParseRequestCoreEquip parses RequestCoreEquip from raw bytes (opcodes stripped).
func ParseRequestCoreEquip(data []byte) (*RequestCoreEquip, error) {
	r := packet.NewReader(data)
	slot, err := r.ReadInt()
	if err != nil {
		return nil, fmt.Errorf("RequestCoreEquip slot: %w", err)
	}
	itemType, err := r.ReadInt()
	if err != nil {
		return nil, fmt.Errorf("RequestCoreEquip item type: %w", err)
	}
	return &RequestCoreEquip{Slot: slot, ItemType: itemType}, nil
}

// Write serializes RequestCoreEquip including opcodes (client side).
func (p *RequestCoreEquip) Write() []byte {
	w := extended(SubOpcodeRequestCoreEquip, 8)
	w.WriteInt(p.Slot)
	w.WriteInt(p.ItemType)
	return w.Bytes()
}

// RequestCoreUnequip — empty Slot (C2S 0xD0:0x61).
type RequestCoreUnequip struct {
	Slot int32
}

// ParseRequestCoreUnequip parses RequestCoreUnequip from raw bytes.
func ParseRequestCoreUnequip(data []byte) (*RequestCoreUnequip, error) {
	slot, err := packet.NewReader(data).ReadInt()
	if err != nil {
		return nil, fmt.Errorf("RequestCoreUnequip slot: %w", err)
	}
	return &RequestCoreUnequip{Slot: slot}, nil
}

// Write serializes RequestCoreUnequip including opcodes (client side).
func (p *RequestCoreUnequip) Write() []byte {
	w := extended(SubOpcodeRequestCoreUnequip, 4)
	w.WriteInt(p.Slot)
	return w.Bytes()
}

// RequestCoreEnhance — spend upgrade material on the core in Slot (C2S 0xD0:0x62).
type RequestCoreEnhance struct {
	Slot int32
}

// ParseRequestCoreEnhance parses RequestCoreEnhance from raw bytes.
func ParseRequestCoreEnhance(data []byte) (*RequestCoreEnhance, error) {
	slot, err := packet.NewReader(data).ReadInt()
	if err != nil {
		return nil, fmt.Errorf("RequestCoreEnhance slot: %w", err)
	}
	return &RequestCoreEnhance{Slot: slot}, nil
}

// Write serializes RequestCoreEnhance including opcodes (client side).
func (p *RequestCoreEnhance) Write() []byte {
	w := extended(SubOpcodeRequestCoreEnhance, 4)
	w.WriteInt(p.Slot)
	return w.Bytes()
}

// RequestCoreStatus — resend the core panel (C2S 0xD0:0x63). No payload.
type RequestCoreStatus struct{}

// Write serializes RequestCoreStatus including opcodes (client side).
func (p *RequestCoreStatus) Write() []byte {
	return extended(SubOpcodeRequestCoreStatus, 0).Bytes()
}

func extended(sub int16, payload int) *packet.Writer {
	w := packet.NewWriter(3 + payload)
	_ = w.WriteByte(OpcodeExtended)
	w.WriteShort(sub)
	return w
}
