package serverpackets

import (
	"github.com/udisondev/corebank/internal/game/core"
	"github.com/udisondev/corebank/internal/gameserver/packet"
)

// CoreSlotInfo is one slot as seen by its owner.
type CoreSlotInfo struct {
	ItemType int32
	Level    int32
}

// ExCoreStatus (S2C 0xFE:0xC2) sends the full core panel to the owner only.
//
// Format: (ch)dc[dd]d[dd]
//
//	opcode (byte) = 0xFE
//	subOpcode (short) = 0xC2
//	weaponBonus (int32) — flat damage added by equipped cores
//	flags (byte)
//	slots (3 × {itemType int32, level int32})
//	ledgerCount (int32)
//	for each: itemType (int32), level (int32)
type ExCoreStatus struct {
	WeaponBonus int32
	FlagBits    byte
	Slots       [CoreSyncSlots]CoreSlotInfo
	Ledger      []core.Enhancement
}

// NewExCoreStatus builds ExCoreStatus from the owner's state.
func NewExCoreStatus(st *core.State) *ExCoreStatus {
	p := &ExCoreStatus{
		WeaponBonus: int32(st.ModifyWeaponDamage(0)),
		FlagBits:    st.Flags().Bits(),
		Ledger:      st.Store().Entries(),
	}
	for i, slot := range st.Bank().Slots() {
		if slot.Empty() {
			continue
		}
		p.Slots[i] = CoreSlotInfo{ItemType: slot.Core.ItemTypeID(), Level: slot.Level}
	}
	return p
}

// Write serializes ExCoreStatus to binary.
func (p *ExCoreStatus) Write() ([]byte, error) {
	w := packet.NewWriter(3 + 4 + 1 + CoreSyncSlots*8 + 4 + len(p.Ledger)*8)

	_ = w.WriteByte(OpcodeExtended)
	w.WriteShort(SubOpcodeExCoreStatus)
	w.WriteInt(p.WeaponBonus)
	_ = w.WriteByte(p.FlagBits)
	for _, s := range p.Slots {
		w.WriteInt(s.ItemType)
		w.WriteInt(s.Level)
	}
	w.WriteInt(int32(len(p.Ledger)))
	for _, e := range p.Ledger {
		w.WriteInt(e.ItemType)
		w.WriteInt(e.Level)
	}

	return w.Bytes(), nil
}
