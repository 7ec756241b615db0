package core

import (
	"fmt"
	"log/slog"
)

// SlotCount is the number of core slots.
const SlotCount = 3

// Slot is one equipment position.
// Level is materialized from the UpgradeStore on equip and zeroed on unequip.
type Slot struct {
	Core  CoreType
	Level int32
}

// Empty reports whether no core occupies the slot.
func (s Slot) Empty() bool {
	return s.Core == CoreNone
}

// Bank holds the equipped cores.
//
// Invariant: for every occupied slot, Level == store.Get(Core.ItemTypeID()).
// Bank is the only writer of the store.
type Bank struct {
	slots  [SlotCount]Slot
	store  *UpgradeStore
	active CoreSet
}

// NewBank creates an empty bank backed by store.
func NewBank(store *UpgradeStore) *Bank {
	return &Bank{store: store}
}

// Store returns the upgrade ledger backing the bank.
func (b *Bank) Store() *UpgradeStore {
	return b.store
}

// Slot returns a copy of slot i (zero Slot for invalid i).
func (b *Bank) Slot(i int) Slot {
	if !validSlot(i) {
		return Slot{}
	}
	return b.slots[i]
}

// Slots returns a copy of all slots.
func (b *Bank) Slots() [SlotCount]Slot {
	return b.slots
}

// Active returns the set of equipped cores.
// Refreshed on equip/unequip only.
func (b *Bank) Active() CoreSet {
	return b.active
}

// SlotOf returns the slot holding c.
func (b *Bank) SlotOf(c CoreType) (int, bool) {
	if !b.active.Has(c) {
		return -1, false
	}
	for i, s := range b.slots {
		if s.Core == c {
			return i, true
		}
	}
	return -1, false
}

// Equip puts c into slot i and materializes its stored level.
// Equipping over an occupied slot replaces the occupant.
// Returns the materialized level.
func (b *Bank) Equip(i int, c CoreType) (int32, error) {
	if !validSlot(i) {
		return 0, fmt.Errorf("equip slot %d: %w", i, ErrInvalidSlot)
	}
	if !c.Valid() {
		return 0, fmt.Errorf("equip slot %d: %w", i, ErrInvalidCore)
	}
	if other, ok := b.SlotOf(c); ok && other != i {
		return 0, fmt.Errorf("equip %s into slot %d (held by slot %d): %w", c, i, other, ErrAlreadyEquipped)
	}

	level := b.store.Get(c.ItemTypeID())
	b.slots[i] = Slot{Core: c, Level: level}
	b.refreshActive()

	slog.Debug("core equipped", "slot", i, "core", c, "level", level)
	return level, nil
}

// Unequip empties slot i and returns the removed core (CoreNone if the slot
// was already empty). The upgrade store is not touched.
func (b *Bank) Unequip(i int) (CoreType, error) {
	if !validSlot(i) {
		return CoreNone, fmt.Errorf("unequip slot %d: %w", i, ErrInvalidSlot)
	}
	removed := b.slots[i].Core
	b.slots[i] = Slot{}
	b.refreshActive()

	if removed != CoreNone {
		slog.Debug("core unequipped", "slot", i, "core", removed)
	}
	return removed, nil
}

// CanEnhance checks every precondition of Enhance except currency.
func (b *Bank) CanEnhance(i int) error {
	if !validSlot(i) {
		return fmt.Errorf("enhance slot %d: %w", i, ErrInvalidSlot)
	}
	s := b.slots[i]
	if s.Empty() {
		return fmt.Errorf("enhance slot %d: %w", i, ErrNoCoreEquipped)
	}
	if s.Level >= MaxEnhanceLevel {
		return fmt.Errorf("enhance %s: %w", s.Core, ErrAlreadyMaxed)
	}
	return nil
}

// Enhance raises the level of the core in slot i by one and writes it to the store.
// currencyAvailable is the inventory's answer to "does the player hold upgrade material".
func (b *Bank) Enhance(i int, currencyAvailable bool) (int32, error) {
	if err := b.CanEnhance(i); err != nil {
		return 0, err
	}
	if !currencyAvailable {
		return 0, fmt.Errorf("enhance slot %d: %w", i, ErrInsufficientCurrency)
	}

	s := &b.slots[i]
	s.Level++
	b.store.Set(s.Core.ItemTypeID(), s.Level)

	slog.Debug("core enhanced", "slot", i, "core", s.Core, "level", s.Level)
	return s.Level, nil
}

// Multiplier returns 1.0 + 0.2*level of slot i (1.0 for empty or invalid slots).
func (b *Bank) Multiplier(i int) float64 {
	return Multiplier(b.Slot(i).Level)
}

// MultiplierOf returns the multiplier of equipped core c (1.0 if not equipped).
func (b *Bank) MultiplierOf(c CoreType) float64 {
	i, ok := b.SlotOf(c)
	if !ok {
		return 1.0
	}
	return b.Multiplier(i)
}

// clear empties every slot without touching the store.
func (b *Bank) clear() {
	b.slots = [SlotCount]Slot{}
	b.active = 0
}

func (b *Bank) refreshActive() {
	var set CoreSet
	for _, s := range b.slots {
		set = set.With(s.Core)
	}
	b.active = set
}

func validSlot(i int) bool {
	return i >= 0 && i < SlotCount
}
