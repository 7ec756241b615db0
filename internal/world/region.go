package world

import (
	"sync"

	"github.com/udisondev/corebank/internal/model"
)

// Region is one grid cell (RegionSize × RegionSize game units) holding the
// monsters whose position falls into it.
type Region struct {
	rx, ry int32

	mu       sync.RWMutex
	monsters map[uint32]*model.Monster
}

// NewRegion creates an empty region.
func NewRegion(rx, ry int32) *Region {
	return &Region{
		rx:       rx,
		ry:       ry,
		monsters: make(map[uint32]*model.Monster),
	}
}

// RX returns region X index
func (r *Region) RX() int32 {
	return r.rx
}

// RY returns region Y index
func (r *Region) RY() int32 {
	return r.ry
}

func (r *Region) add(m *model.Monster) {
	r.mu.Lock()
	r.monsters[m.ObjectID()] = m
	r.mu.Unlock()
}

func (r *Region) remove(objectID uint32) {
	r.mu.Lock()
	delete(r.monsters, objectID)
	r.mu.Unlock()
}

// Len returns the number of monsters in the region.
func (r *Region) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.monsters)
}

// ForEachMonster iterates over monsters in the region.
// If fn returns false, iteration stops. fn must not modify the world.
func (r *Region) ForEachMonster(fn func(*model.Monster) bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.monsters {
		if !fn(m) {
			return
		}
	}
}
