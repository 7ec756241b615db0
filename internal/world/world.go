package world

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/udisondev/corebank/internal/model"
)

var (
	ErrOutOfBounds   = errors.New("coordinates out of world bounds")
	ErrDuplicateID   = errors.New("object id already in world")
	ErrMonsterAbsent = errors.New("monster not in world")
)

// World is the arena: a sparse region grid plus an object ID index.
// One World is shared by every session; all methods are safe for concurrent use.
type World struct {
	ids *ObjectIDGenerator

	mu       sync.RWMutex
	regions  map[int64]*Region
	monsters map[uint32]*model.Monster
}

// New creates an empty world.
func New() *World {
	return &World{
		ids:      NewObjectIDGenerator(),
		regions:  make(map[int64]*Region),
		monsters: make(map[uint32]*model.Monster),
	}
}

// IDs returns the world's object ID generator.
func (w *World) IDs() *ObjectIDGenerator {
	return w.ids
}

func regionKey(rx, ry int32) int64 {
	return int64(rx)<<32 | int64(uint32(ry))
}

// GetRegion returns region at world coordinates (x, y).
// Returns nil if no monster was ever placed there or coordinates are out of bounds.
func (w *World) GetRegion(x, y int32) *Region {
	if !IsValidCoord(x, y) {
		return nil
	}
	rx, ry := CoordToRegionIndex(x, y)
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.regions[regionKey(rx, ry)]
}

// regionLocked returns (creating if needed) region (rx, ry). Caller holds w.mu.
func (w *World) regionLocked(rx, ry int32) *Region {
	key := regionKey(rx, ry)
	r, ok := w.regions[key]
	if !ok {
		r = NewRegion(rx, ry)
		w.regions[key] = r
	}
	return r
}

// AddMonster places m into the world.
func (w *World) AddMonster(m *model.Monster) error {
	loc := m.Location()
	if !IsValidCoord(loc.X, loc.Y) {
		return fmt.Errorf("adding monster %d at (%d, %d): %w", m.ObjectID(), loc.X, loc.Y, ErrOutOfBounds)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.monsters[m.ObjectID()]; ok {
		return fmt.Errorf("adding monster %d: %w", m.ObjectID(), ErrDuplicateID)
	}

	rx, ry := CoordToRegionIndex(loc.X, loc.Y)
	w.regionLocked(rx, ry).add(m)
	w.monsters[m.ObjectID()] = m
	return nil
}

// RemoveMonster removes a monster from the world and returns it.
func (w *World) RemoveMonster(objectID uint32) (*model.Monster, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	m, ok := w.monsters[objectID]
	if !ok {
		return nil, false
	}
	delete(w.monsters, objectID)

	loc := m.Location()
	rx, ry := CoordToRegionIndex(loc.X, loc.Y)
	if r := w.regions[regionKey(rx, ry)]; r != nil {
		r.remove(objectID)
	}
	return m, true
}

// MoveMonster changes a monster's position, keeping the region index in sync.
func (w *World) MoveMonster(objectID uint32, loc model.Location) error {
	if !IsValidCoord(loc.X, loc.Y) {
		return fmt.Errorf("moving monster %d to (%d, %d): %w", objectID, loc.X, loc.Y, ErrOutOfBounds)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	m, ok := w.monsters[objectID]
	if !ok {
		return fmt.Errorf("moving monster %d: %w", objectID, ErrMonsterAbsent)
	}

	old := m.Location()
	oldRX, oldRY := CoordToRegionIndex(old.X, old.Y)
	newRX, newRY := CoordToRegionIndex(loc.X, loc.Y)
	m.SetLocation(loc)
	if oldRX != newRX || oldRY != newRY {
		if r := w.regions[regionKey(oldRX, oldRY)]; r != nil {
			r.remove(objectID)
		}
		w.regionLocked(newRX, newRY).add(m)
	}
	return nil
}

// Monster returns a monster by object ID.
func (w *World) Monster(objectID uint32) (*model.Monster, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	m, ok := w.monsters[objectID]
	return m, ok
}

// Target returns a strikable target by object ID.
func (w *World) Target(objectID uint32) (model.Target, bool) {
	m, ok := w.Monster(objectID)
	if !ok {
		return nil, false
	}
	return m, true
}

// HostilesInRange returns monsters within radius of center, ordered by object ID.
// Dead monsters still in the world are included; callers filter by HP.
func (w *World) HostilesInRange(center model.Location, radius int32) []model.Target {
	minX, minY, maxX, maxY := regionSpan(center.X, center.Y, radius)

	var found []*model.Monster
	w.mu.RLock()
	for rx := minX; rx <= maxX; rx++ {
		for ry := minY; ry <= maxY; ry++ {
			r := w.regions[regionKey(rx, ry)]
			if r == nil {
				continue
			}
			r.ForEachMonster(func(m *model.Monster) bool {
				if m.Location().InRange(center, radius) {
					found = append(found, m)
				}
				return true
			})
		}
	}
	w.mu.RUnlock()

	slices.SortFunc(found, func(a, b *model.Monster) int {
		return int(int64(a.ObjectID()) - int64(b.ObjectID()))
	})

	out := make([]model.Target, len(found))
	for i, m := range found {
		out[i] = m
	}
	return out
}

// Monsters returns every monster ordered by object ID.
func (w *World) Monsters() []*model.Monster {
	w.mu.RLock()
	out := make([]*model.Monster, 0, len(w.monsters))
	for _, m := range w.monsters {
		out = append(out, m)
	}
	w.mu.RUnlock()

	slices.SortFunc(out, func(a, b *model.Monster) int {
		return int(int64(a.ObjectID()) - int64(b.ObjectID()))
	})
	return out
}

// MonsterCount returns the number of monsters in the world.
func (w *World) MonsterCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.monsters)
}

// RegionCount returns the number of allocated regions.
func (w *World) RegionCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.regions)
}
