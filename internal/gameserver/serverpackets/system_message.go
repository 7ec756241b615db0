package serverpackets

import (
	"github.com/udisondev/corebank/internal/gameserver/packet"
)

const (
	OpcodeSystemMessage = 0x64
)

// SystemMessage parameter types
const (
	ParamTypeText     = 0
	ParamTypeNumber   = 1
	ParamTypeNpcName  = 2
	ParamTypeItemName = 3
)

// SystemMessage IDs used by the core panel.
// Клиент хранит тексты локально, сервер шлёт только ID и параметры.
const (
	SysMsgTargetIsNotFound        = 3    // "$s1 does not exist."
	SysMsgCoreRestored            = 5101 // "$s1 restored at enhancement level $s2."
	SysMsgCoreEnhanced            = 5102 // "$s1 enhanced to level $s2."
	SysMsgCoreInvalidSlot         = 5103 // "That core slot does not exist."
	SysMsgCoreSlotLocked          = 5104 // "Defeat the guardian to unlock this slot."
	SysMsgCoreAlreadyEquipped     = 5105 // "$s1 is already equipped in another slot."
	SysMsgCoreNotEquipped         = 5106 // "No core is equipped in that slot."
	SysMsgCoreAlreadyMaxed        = 5107 // "$s1 is already at maximum enhancement."
	SysMsgCoreNotEnoughMaterial   = 5108 // "You need $s1 to enhance a core."
	SysMsgCoreUnknown             = 5109 // "Unknown core."
	SysMsgCoreSlotsUnlocked       = 5110 // "All core slots are now available."
	SysMsgCoreUnequipped          = 5111 // "$s1 has been removed."
	SysMsgCoreTargetOutOfRange    = 5112 // "Your target is out of range."
	SysMsgCoreYouAreDead          = 5113 // "You cannot act while dead."
	SysMsgCoreProgressNotSaved    = 5114 // "Progress could not be saved."
	SysMsgYouHitForS1Damage       = 35   // "You hit for $s1 damage."
	SysMsgS1AbsorbedTheHit        = 5115 // "$s1 absorbed the hit."
	SysMsgS1ReflectedS2Damage     = 5116 // "$s1 reflected $s2 damage."
	SysMsgS1DefeatedTheGuardianS2 = 5117 // "$s1 has defeated $s2."
)

// SystemMessage represents a system message packet (S2C 0x64).
// System messages use predefined message IDs with optional parameters.
type SystemMessage struct {
	MessageID int32
	Params    []systemMessageParam
}

type systemMessageParam struct {
	Type     int32
	IntValue int32
	StrValue string
}

// NewSystemMessage creates a new system message with the given ID.
func NewSystemMessage(messageID int32) *SystemMessage {
	return &SystemMessage{
		MessageID: messageID,
	}
}

// AddNumber adds a number parameter ($s1, $s2, etc.).
func (m *SystemMessage) AddNumber(value int32) *SystemMessage {
	m.Params = append(m.Params, systemMessageParam{
		Type:     ParamTypeNumber,
		IntValue: value,
	})
	return m
}

// AddString adds a string parameter ($s1, etc.).
func (m *SystemMessage) AddString(text string) *SystemMessage {
	m.Params = append(m.Params, systemMessageParam{
		Type:     ParamTypeText,
		StrValue: text,
	})
	return m
}

// AddItemName adds an item name parameter by item ID.
// Client resolves the name from its local data.
func (m *SystemMessage) AddItemName(itemID int32) *SystemMessage {
	m.Params = append(m.Params, systemMessageParam{
		Type:     ParamTypeItemName,
		IntValue: itemID,
	})
	return m
}

// AddNpcName adds an NPC name parameter by template ID.
func (m *SystemMessage) AddNpcName(templateID int32) *SystemMessage {
	m.Params = append(m.Params, systemMessageParam{
		Type:     ParamTypeNpcName,
		IntValue: templateID,
	})
	return m
}

// Write serializes the SystemMessage packet.
func (m *SystemMessage) Write() ([]byte, error) {
	w := packet.NewWriter(16 + len(m.Params)*16)

	_ = w.WriteByte(OpcodeSystemMessage)
	w.WriteInt(m.MessageID)
	w.WriteInt(int32(len(m.Params)))

	for _, p := range m.Params {
		w.WriteInt(p.Type)
		switch p.Type {
		case ParamTypeText:
			w.WriteString(p.StrValue)
		default:
			w.WriteInt(p.IntValue)
		}
	}

	return w.Bytes(), nil
}
