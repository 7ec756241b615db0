package core

import (
	"fmt"
	"strings"
)

// CoreType identifies which passive module a core activates.
// Declaration order equals tier order: Ember is tier 1, Cosmic is tier 6.
type CoreType uint8

const (
	CoreNone CoreType = iota // empty slot
	CoreEmber
	CoreVerdant
	CoreTidal
	CoreStorm
	CoreMirror
	CoreCosmic
)

// coreTypeCount is the number of real core types (CoreNone excluded).
const coreTypeCount = 6

// itemTypeBase + tier = item type ID of the core in the item database.
const itemTypeBase int32 = 9100

var coreNames = [...]string{
	CoreNone:    "none",
	CoreEmber:   "ember",
	CoreVerdant: "verdant",
	CoreTidal:   "tidal",
	CoreStorm:   "storm",
	CoreMirror:  "mirror",
	CoreCosmic:  "cosmic",
}

// String returns the lowercase core name.
func (c CoreType) String() string {
	if int(c) < len(coreNames) {
		return coreNames[c]
	}
	return fmt.Sprintf("core(%d)", uint8(c))
}

// Valid reports whether c is a real core (not CoreNone, not out of range).
func (c CoreType) Valid() bool {
	return c >= CoreEmber && c <= CoreCosmic
}

// Tier returns the fixed power ranking 1..6 (0 for CoreNone).
func (c CoreType) Tier() int32 {
	if !c.Valid() {
		return 0
	}
	return int32(c)
}

// ItemTypeID returns the item type the upgrade ledger is keyed by.
func (c CoreType) ItemTypeID() int32 {
	if !c.Valid() {
		return 0
	}
	return itemTypeBase + int32(c)
}

// CoreByItemType maps an item type back to its core.
func CoreByItemType(itemType int32) (CoreType, bool) {
	tier := itemType - itemTypeBase
	if tier < int32(CoreEmber) || tier > int32(CoreCosmic) {
		return CoreNone, false
	}
	return CoreType(tier), true
}

// ParseCoreType parses a core name (case-insensitive).
func ParseCoreType(name string) (CoreType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, c := range AllCores() {
		if coreNames[c] == name {
			return c, nil
		}
	}
	return CoreNone, fmt.Errorf("parsing core %q: %w", name, ErrInvalidCore)
}

// AllCores returns every real core in tier order.
func AllCores() []CoreType {
	out := make([]CoreType, 0, coreTypeCount)
	for c := CoreEmber; c <= CoreCosmic; c++ {
		out = append(out, c)
	}
	return out
}

// CoreSet is a bitmask of core types.
// Bit N corresponds to CoreType(N).
type CoreSet uint8

// Has reports whether c is in the set.
func (s CoreSet) Has(c CoreType) bool {
	return c.Valid() && s&(1<<c) != 0
}

// With returns the set with c added.
func (s CoreSet) With(c CoreType) CoreSet {
	if !c.Valid() {
		return s
	}
	return s | 1<<c
}

// Empty reports whether no core is in the set.
func (s CoreSet) Empty() bool {
	return s == 0
}

// Len returns the number of cores in the set.
func (s CoreSet) Len() int {
	n := 0
	for c := CoreEmber; c <= CoreCosmic; c++ {
		if s.Has(c) {
			n++
		}
	}
	return n
}
