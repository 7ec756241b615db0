package world

// Flag bits in the sync packet.
const (
	flagBossDefeated  byte = 1 << 0
	flagSlotsUnlocked byte = 1 << 1
)

// Flags are the boolean world-state flags of one player.
type Flags struct {
	BossDefeated  bool
	SlotsUnlocked bool
}

// Bits packs flags into the sync byte.
func (f Flags) Bits() byte {
	var b byte
	if f.BossDefeated {
		b |= flagBossDefeated
	}
	if f.SlotsUnlocked {
		b |= flagSlotsUnlocked
	}
	return b
}

// FlagsFromBits unpacks the sync byte. Unknown bits are ignored.
func FlagsFromBits(b byte) Flags {
	return Flags{
		BossDefeated:  b&flagBossDefeated != 0,
		SlotsUnlocked: b&flagSlotsUnlocked != 0,
	}
}

// ProtectedRegion is a circular area where hostiles do not spawn.
// Sent alongside flags so observers can render it.
type ProtectedRegion struct {
	X, Y   int32
	Radius int32
}

// Contains reports whether (x, y) lies inside the region.
func (r ProtectedRegion) Contains(x, y int32) bool {
	dx := int64(x - r.X)
	dy := int64(y - r.Y)
	rr := int64(r.Radius)
	return dx*dx+dy*dy <= rr*rr
}
