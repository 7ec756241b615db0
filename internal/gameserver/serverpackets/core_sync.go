package serverpackets

import (
	"fmt"

	"github.com/udisondev/corebank/internal/gameserver/packet"
	"github.com/udisondev/corebank/internal/world"
)

// Sub-opcodes for core extended packets (0xFE + sub).
const (
	OpcodeExtended byte = 0xFE

	SubOpcodeExCoreSync   int16 = 0xC1
	SubOpcodeExCoreStatus int16 = 0xC2
	SubOpcodeExCoreEffect int16 = 0xC3
)

// CoreSyncSlots is the number of slot entries in ExCoreSync.
const CoreSyncSlots = 3

// ExCoreSync (S2C 0xFE:0xC1) is the observer view of one player's cores.
// Only equipped item types travel; enhancement levels stay on the server.
//
// Format: (ch)dc[ddd]h[ddd]
//
//	opcode (byte) = 0xFE
//	subOpcode (short) = 0xC1
//	ownerID (int32)
//	flags (byte) — bit0 boss defeated, bit1 slots unlocked
//	slots (3 × int32) — item type, 0 = empty
//	regionCount (short)
//	for each: x (int32), y (int32), radius (int32)
type ExCoreSync struct {
	OwnerID int32
	Flags   world.Flags
	Slots   [CoreSyncSlots]int32
	Regions []world.ProtectedRegion
}

// Write serializes ExCoreSync to binary.
func (p *ExCoreSync) Write() ([]byte, error) {
	if len(p.Regions) > 0x7FFF {
		return nil, fmt.Errorf("core sync: too many regions (%d)", len(p.Regions))
	}
	w := packet.NewWriter(3 + 4 + 1 + CoreSyncSlots*4 + 2 + len(p.Regions)*12)

	_ = w.WriteByte(OpcodeExtended)
	w.WriteShort(SubOpcodeExCoreSync)
	w.WriteInt(p.OwnerID)
	_ = w.WriteByte(p.Flags.Bits())
	for _, itemType := range p.Slots {
		w.WriteInt(itemType)
	}
	w.WriteShort(int16(len(p.Regions)))
	for _, r := range p.Regions {
		w.WriteInt(r.X)
		w.WriteInt(r.Y)
		w.WriteInt(r.Radius)
	}

	return w.Bytes(), nil
}

// ParseExCoreSync decodes an ExCoreSync payload. Observers use it to render
// cosmetic core visuals; trailing bytes (checksum padding) are ignored.
func ParseExCoreSync(data []byte) (ExCoreSync, error) {
	var p ExCoreSync
	r := packet.NewReader(data)

	if err := expectExtended(r, SubOpcodeExCoreSync); err != nil {
		return p, err
	}

	var err error
	if p.OwnerID, err = r.ReadInt(); err != nil {
		return p, fmt.Errorf("reading owner: %w", err)
	}
	bits, err := r.ReadByte()
	if err != nil {
		return p, fmt.Errorf("reading flags: %w", err)
	}
	p.Flags = world.FlagsFromBits(bits)

	for i := range p.Slots {
		if p.Slots[i], err = r.ReadInt(); err != nil {
			return p, fmt.Errorf("reading slot %d: %w", i, err)
		}
	}

	count, err := r.ReadShort()
	if err != nil {
		return p, fmt.Errorf("reading region count: %w", err)
	}
	if count < 0 {
		return p, fmt.Errorf("negative region count %d", count)
	}
	if int(count)*12 > r.Remaining() {
		return p, fmt.Errorf("region count %d exceeds payload (%d bytes left): %w", count, r.Remaining(), packet.ErrShortPacket)
	}
	p.Regions = make([]world.ProtectedRegion, count)
	for i := range p.Regions {
		x, _ := r.ReadInt()
		y, _ := r.ReadInt()
		radius, _ := r.ReadInt()
		p.Regions[i] = world.ProtectedRegion{X: x, Y: y, Radius: radius}
	}

	return p, nil
}

func expectExtended(r *packet.Reader, sub int16) error {
	op, err := r.ReadByte()
	if err != nil {
		return fmt.Errorf("reading opcode: %w", err)
	}
	if op != OpcodeExtended {
		return fmt.Errorf("unexpected opcode 0x%02X, want 0x%02X", op, OpcodeExtended)
	}
	got, err := r.ReadShort()
	if err != nil {
		return fmt.Errorf("reading sub-opcode: %w", err)
	}
	if got != sub {
		return fmt.Errorf("unexpected sub-opcode 0x%04X, want 0x%04X", got, sub)
	}
	return nil
}
