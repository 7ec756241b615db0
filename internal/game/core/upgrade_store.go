package core

import (
	"cmp"
	"log/slog"
	"slices"
)

// Enhancement is one ledger entry.
type Enhancement struct {
	ItemType int32
	Level    int32
}

// UpgradeStore maps core item type → enhancement level.
// It is the only progression data that outlives equip/unequip and is persisted.
// Levels never decrease.
type UpgradeStore struct {
	levels map[int32]int32
}

// NewUpgradeStore creates an empty ledger.
func NewUpgradeStore() *UpgradeStore {
	return &UpgradeStore{levels: make(map[int32]int32)}
}

// Get returns the stored level of itemType (0 if absent).
func (s *UpgradeStore) Get(itemType int32) int32 {
	return s.levels[itemType]
}

// Set stores level for itemType.
// Levels are clamped to 0..MaxEnhanceLevel. A value lower than the stored one
// is rejected and Set returns false.
func (s *UpgradeStore) Set(itemType, level int32) bool {
	level = clampLevel(level)
	cur := s.levels[itemType]
	if level < cur {
		slog.Debug("upgrade store: refusing to lower level",
			"itemType", itemType,
			"stored", cur,
			"requested", level)
		return false
	}
	if level == 0 {
		return true
	}
	s.levels[itemType] = level
	return true
}

// Entries returns non-zero entries sorted by item type.
func (s *UpgradeStore) Entries() []Enhancement {
	out := make([]Enhancement, 0, len(s.levels))
	for itemType, level := range s.levels {
		if level > 0 {
			out = append(out, Enhancement{ItemType: itemType, Level: level})
		}
	}
	slices.SortFunc(out, func(a, b Enhancement) int {
		return cmp.Compare(a.ItemType, b.ItemType)
	})
	return out
}

// Len returns the number of non-zero entries.
func (s *UpgradeStore) Len() int {
	return len(s.levels)
}

// reset drops all entries. Only used when restoring a snapshot into a session.
func (s *UpgradeStore) reset() {
	clear(s.levels)
}
