package core

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/udisondev/corebank/internal/world"
)

// Bag keys.
const (
	KeyKilledBoss       = "killedBoss"
	KeySlotsUnlocked    = "slotsUnlocked"
	KeyEnhancementTypes = "enhancementItemTypes"
	KeyEnhancementVals  = "enhancementValues"
)

// SlotKey returns the bag key of slot i ("slot0".."slot2").
func SlotKey(i int) string {
	return fmt.Sprintf("slot%d", i)
}

// Snapshot is the persisted form of a State.
// Slot levels are not stored: they are rebuilt from Enhancements on restore.
type Snapshot struct {
	KilledBoss    bool
	SlotsUnlocked bool
	Slots         [SlotCount]int32 // item type, 0 = empty
	Enhancements  []Enhancement
}

// Bag is the generic key/value save format.
type Bag map[string]any

// Bag converts the snapshot into a key/value bag. Empty slots are omitted.
func (s Snapshot) Bag() Bag {
	b := Bag{
		KeyKilledBoss:    s.KilledBoss,
		KeySlotsUnlocked: s.SlotsUnlocked,
	}
	for i, itemType := range s.Slots {
		if itemType != 0 {
			b[SlotKey(i)] = itemType
		}
	}

	types := make([]int32, 0, len(s.Enhancements))
	values := make([]int32, 0, len(s.Enhancements))
	for _, e := range s.Enhancements {
		if e.Level <= 0 {
			continue
		}
		types = append(types, e.ItemType)
		values = append(values, e.Level)
	}
	b[KeyEnhancementTypes] = types
	b[KeyEnhancementVals] = values
	return b
}

// SnapshotFromBag reads a bag written by Bag or decoded from YAML/JSON.
// Malformed entries are skipped with a warning; a broken bag yields an empty snapshot.
func SnapshotFromBag(b Bag) Snapshot {
	var s Snapshot
	if b == nil {
		return s
	}

	s.KilledBoss = bagBool(b, KeyKilledBoss)
	s.SlotsUnlocked = bagBool(b, KeySlotsUnlocked)
	for i := range SlotCount {
		v, ok := b[SlotKey(i)]
		if !ok || v == nil {
			continue
		}
		itemType, ok := toInt32(v)
		if !ok {
			slog.Warn("core bag: malformed slot entry", "key", SlotKey(i), "value", v)
			continue
		}
		s.Slots[i] = itemType
	}

	types, okT := toInt32Slice(b[KeyEnhancementTypes])
	values, okV := toInt32Slice(b[KeyEnhancementVals])
	if !okT || !okV {
		slog.Warn("core bag: malformed enhancement ledger, ignoring it")
		return s
	}
	if len(types) != len(values) {
		slog.Warn("core bag: ledger lists differ in length",
			"types", len(types),
			"values", len(values))
	}
	n := min(len(types), len(values))
	for i := range n {
		s.Enhancements = append(s.Enhancements, Enhancement{ItemType: types[i], Level: values[i]})
	}
	return s
}

// Snapshot captures flags, equipped item types and the non-zero ledger.
func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		KilledBoss:    s.flags.BossDefeated,
		SlotsUnlocked: s.flags.SlotsUnlocked,
		Enhancements:  s.store.Entries(),
	}
	for i, slot := range s.bank.Slots() {
		if !slot.Empty() {
			snap.Slots[i] = slot.Core.ItemTypeID()
		}
	}
	return snap
}

// Normalized returns snap the way a session would see it after Restore:
// unknown item types, duplicate cores and locked slots dropped, ledger
// deduplicated (highest level wins) and clamped.
func (s Snapshot) Normalized() Snapshot {
	st := NewState(nil, Options{})
	st.Restore(s)
	out := st.Snapshot()
	if len(out.Enhancements) == 0 {
		out.Enhancements = nil
	}
	return out
}

// Restore replaces the whole state with snap. Timers and marks are reset.
// Unknown item types and out-of-range levels are dropped or clamped; slot
// levels come from the ledger only. No notices are emitted.
func (s *State) Restore(snap Snapshot) {
	s.bank.clear()
	s.store.reset()
	s.scheduler.ResetAll()
	s.marks.Clear()
	s.flags = world.Flags{BossDefeated: snap.KilledBoss, SlotsUnlocked: snap.SlotsUnlocked}

	for _, e := range snap.Enhancements {
		if _, ok := CoreByItemType(e.ItemType); !ok {
			slog.Warn("core restore: unknown item type in ledger", "itemType", e.ItemType, "level", e.Level)
			continue
		}
		if e.Level <= 0 {
			continue
		}
		if e.Level > MaxEnhanceLevel {
			slog.Warn("core restore: level clamped", "itemType", e.ItemType, "level", e.Level)
		}
		s.store.Set(e.ItemType, e.Level)
	}

	for i, itemType := range snap.Slots {
		if itemType == 0 {
			continue
		}
		c, ok := CoreByItemType(itemType)
		if !ok {
			slog.Warn("core restore: unknown item type in slot", "slot", i, "itemType", itemType)
			continue
		}
		if i > 0 && !s.flags.SlotsUnlocked {
			slog.Warn("core restore: slot is locked", "slot", i, "core", c)
			continue
		}
		if _, err := s.bank.Equip(i, c); err != nil {
			slog.Warn("core restore: slot skipped", "slot", i, "core", c, "error", err)
		}
	}
}

func bagBool(b Bag, key string) bool {
	switch v := b[key].(type) {
	case bool:
		return v
	case nil:
		return false
	default:
		slog.Warn("core bag: malformed flag", "key", key, "value", v)
		return false
	}
}

func toInt32(v any) (int32, bool) {
	switch n := v.(type) {
	case int:
		return fitInt32(int64(n))
	case int32:
		return n, true
	case int64:
		return fitInt32(n)
	case uint64:
		if n > math.MaxInt32 {
			return 0, false
		}
		return int32(n), true
	case float64:
		if n < math.MinInt32 || n > math.MaxInt32 || n != math.Trunc(n) {
			return 0, false
		}
		return int32(n), true
	default:
		return 0, false
	}
}

func toInt32Slice(v any) ([]int32, bool) {
	switch list := v.(type) {
	case nil:
		return nil, true
	case []int32:
		return list, true
	case []int:
		out := make([]int32, len(list))
		for i, n := range list {
			v, ok := fitInt32(int64(n))
			if !ok {
				return nil, false
			}
			out[i] = v
		}
		return out, true
	case []any:
		out := make([]int32, 0, len(list))
		for _, item := range list {
			n, ok := toInt32(item)
			if !ok {
				return nil, false
			}
			out = append(out, n)
		}
		return out, true
	default:
		return nil, false
	}
}

// fitInt32 rejects values that would wrap around into a valid-looking item type or level.
func fitInt32(n int64) (int32, bool) {
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, false
	}
	return int32(n), true
}
