package model

import (
	"fmt"
	"sync"
)

// Inventory — счётчики предметов персонажа (itemID → count).
// Хранит только stackable материалы; экипировка core живёт в core.Bank.
type Inventory struct {
	ownerID int64

	counts map[int32]int64

	mu sync.RWMutex
}

// NewInventory создаёт новый инвентарь для персонажа.
func NewInventory(ownerID int64) *Inventory {
	return &Inventory{
		ownerID: ownerID,
		counts:  make(map[int32]int64),
	}
}

// OwnerID возвращает character ID владельца.
func (inv *Inventory) OwnerID() int64 {
	return inv.ownerID
}

// Count returns how many units of itemID the inventory holds.
func (inv *Inventory) Count(itemID int32) int64 {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return inv.counts[itemID]
}

// Add adds count units of itemID.
func (inv *Inventory) Add(itemID int32, count int64) error {
	if count <= 0 {
		return fmt.Errorf("add item %d: count must be positive, got %d", itemID, count)
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.counts[itemID] += count
	return nil
}

// Consume removes count units of itemID.
// Returns false without changes if the inventory holds fewer units.
func (inv *Inventory) Consume(itemID int32, count int64) bool {
	if count <= 0 {
		return false
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()

	have := inv.counts[itemID]
	if have < count {
		return false
	}
	if have == count {
		delete(inv.counts, itemID)
		return true
	}
	inv.counts[itemID] = have - count
	return true
}
