package serverpackets

import (
	"math"

	"github.com/udisondev/corebank/internal/game/core"
	"github.com/udisondev/corebank/internal/gameserver/packet"
)

// ExCoreEffect (S2C 0xFE:0xC3) asks the client to render one core effect.
// Purely cosmetic: HP changes arrive separately as StatusUpdate.
//
// Format: (ch)ccddddddds
//
//	opcode (byte) = 0xFE
//	subOpcode (short) = 0xC3
//	kind (byte), source core (byte)
//	targetID (int32) — 0 for untargeted effects
//	x, y, z (int32)
//	magnitude (int32, rounded)
//	duration (int32, frames)
//	color (int32, 0xRRGGBB)
//	sound (string)
type ExCoreEffect struct {
	Kind      core.EffectKind
	Source    core.CoreType
	TargetID  int32
	X, Y, Z   int32
	Magnitude int32
	Duration  int32
	Color     int32
	Sound     string
}

// NewExCoreEffect converts an effect intent into a packet.
func NewExCoreEffect(e core.Effect, sound string) *ExCoreEffect {
	return &ExCoreEffect{
		Kind:      e.Kind,
		Source:    e.Source,
		TargetID:  int32(e.TargetID),
		X:         e.Position.X,
		Y:         e.Position.Y,
		Z:         e.Position.Z,
		Magnitude: int32(math.Round(min(e.Magnitude, math.MaxInt32))),
		Duration:  e.Duration,
		Color:     int32(e.Color),
		Sound:     sound,
	}
}

// Write serializes ExCoreEffect to binary.
func (p *ExCoreEffect) Write() ([]byte, error) {
	w := packet.NewWriter(3 + 2 + 7*4 + len(p.Sound)*2 + 2)

	_ = w.WriteByte(OpcodeExtended)
	w.WriteShort(SubOpcodeExCoreEffect)
	_ = w.WriteByte(byte(p.Kind))
	_ = w.WriteByte(byte(p.Source))
	w.WriteInt(p.TargetID)
	w.WriteInt(p.X)
	w.WriteInt(p.Y)
	w.WriteInt(p.Z)
	w.WriteInt(p.Magnitude)
	w.WriteInt(p.Duration)
	w.WriteInt(p.Color)
	w.WriteString(p.Sound)

	return w.Bytes(), nil
}
