package model

// Monster represents a hostile creature that cores can strike.
type Monster struct {
	*Character // embedding Character

	templateID int32
	boss       bool
	attack     int32
}

// NewMonster creates a new Monster instance with full HP.
func NewMonster(objectID uint32, templateID int32, name string, loc Location, maxHP int32) *Monster {
	return &Monster{
		Character:  NewCharacter(objectID, name, loc, maxHP),
		templateID: templateID,
	}
}

// TemplateID returns the NPC template ID.
func (m *Monster) TemplateID() int32 {
	return m.templateID
}

// IsBoss reports whether killing this monster unlocks extra core slots.
func (m *Monster) IsBoss() bool {
	return m.boss
}

// SetBoss marks the monster as a boss. Must be called before it is added to the world.
func (m *Monster) SetBoss(boss bool) {
	m.boss = boss
}

// Attack returns damage dealt by one monster hit.
func (m *Monster) Attack() int32 {
	return m.attack
}

// SetAttack sets damage per hit. Must be called before it is added to the world.
func (m *Monster) SetAttack(attack int32) {
	m.attack = max(attack, 0)
}
