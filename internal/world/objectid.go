package world

import "sync/atomic"

// ObjectIDGenerator hands out object IDs for players and monsters.
//
// ID ranges:
//
//	0x00000000 - 0x0FFFFFFF: reserved (0 = no target)
//	0x10000000 - 0x1FFFFFFF: players
//	0x20000000 - 0x2FFFFFFF: monsters
type ObjectIDGenerator struct {
	nextPlayerID  atomic.Uint32
	nextMonsterID atomic.Uint32
}

const (
	playerIDBase  = 0x10000000
	monsterIDBase = 0x20000000
)

// NewObjectIDGenerator creates a new ID generator.
func NewObjectIDGenerator() *ObjectIDGenerator {
	gen := &ObjectIDGenerator{}
	gen.nextPlayerID.Store(playerIDBase)
	gen.nextMonsterID.Store(monsterIDBase)
	return gen
}

// NextPlayerID generates next unique player object ID.
func (g *ObjectIDGenerator) NextPlayerID() uint32 {
	return g.nextPlayerID.Add(1)
}

// NextMonsterID generates next unique monster object ID.
func (g *ObjectIDGenerator) NextMonsterID() uint32 {
	return g.nextMonsterID.Add(1)
}

// IsMonsterID reports whether id belongs to the monster range.
func IsMonsterID(id uint32) bool {
	return id > monsterIDBase && id < monsterIDBase+0x10000000
}
