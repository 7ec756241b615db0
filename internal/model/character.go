package model

import "sync"

// Character — базовый класс для живых существ (Player, Monster).
// Добавляет HP к WorldObject.
type Character struct {
	*WorldObject // embedded

	hpMu      sync.RWMutex
	currentHP int32
	maxHP     int32
}

// NewCharacter создаёт нового персонажа с полным HP.
func NewCharacter(objectID uint32, name string, loc Location, maxHP int32) *Character {
	if maxHP < 1 {
		maxHP = 1
	}
	return &Character{
		WorldObject: NewWorldObject(objectID, name, loc),
		currentHP:   maxHP,
		maxHP:       maxHP,
	}
}

// CurrentHP возвращает текущее HP.
func (c *Character) CurrentHP() int32 {
	c.hpMu.RLock()
	defer c.hpMu.RUnlock()
	return c.currentHP
}

// MaxHP возвращает максимальное HP.
func (c *Character) MaxHP() int32 {
	c.hpMu.RLock()
	defer c.hpMu.RUnlock()
	return c.maxHP
}

// SetCurrentHP устанавливает текущее HP с валидацией (clamp 0..maxHP).
func (c *Character) SetCurrentHP(hp int32) {
	c.hpMu.Lock()
	defer c.hpMu.Unlock()
	c.currentHP = clampHP(hp, c.maxHP)
}

// ReduceCurrentHP applies damage and reports whether this call killed the character.
// Damage to an already dead character is ignored.
func (c *Character) ReduceCurrentHP(damage int32) bool {
	if damage <= 0 {
		return false
	}

	c.hpMu.Lock()
	defer c.hpMu.Unlock()

	if c.currentHP <= 0 {
		return false
	}
	c.currentHP = clampHP(c.currentHP-damage, c.maxHP)
	return c.currentHP == 0
}

// Heal restores HP up to maxHP and returns the amount actually restored.
// Dead characters cannot be healed.
func (c *Character) Heal(amount int32) int32 {
	if amount <= 0 {
		return 0
	}

	c.hpMu.Lock()
	defer c.hpMu.Unlock()

	if c.currentHP <= 0 {
		return 0
	}
	before := c.currentHP
	c.currentHP = clampHP(c.currentHP+amount, c.maxHP)
	return c.currentHP - before
}

// IsDead returns true if HP reached 0.
func (c *Character) IsDead() bool {
	return c.CurrentHP() <= 0
}

func clampHP(hp, maxHP int32) int32 {
	if hp < 0 {
		return 0
	}
	if hp > maxHP {
		return maxHP
	}
	return hp
}
