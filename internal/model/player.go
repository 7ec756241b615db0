package model

// Player — игрок, владелец core-слотов.
// characterID — ключ в БД, objectID — runtime ID в мире.
type Player struct {
	*Character

	characterID int64
	inventory   *Inventory
}

// NewPlayer создаёт игрока с пустым инвентарём.
func NewPlayer(objectID uint32, characterID int64, name string, loc Location, maxHP int32) *Player {
	return &Player{
		Character:   NewCharacter(objectID, name, loc, maxHP),
		characterID: characterID,
		inventory:   NewInventory(characterID),
	}
}

// CharacterID returns the persistent character ID.
func (p *Player) CharacterID() int64 {
	return p.characterID
}

// Inventory returns the player's inventory.
func (p *Player) Inventory() *Inventory {
	return p.inventory
}
