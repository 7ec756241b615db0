package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCharacter_ReduceCurrentHP(t *testing.T) {
	c := NewCharacter(1, "Target", NewLocation(0, 0, 0), 100)

	assert.False(t, c.ReduceCurrentHP(40), "non-lethal hit must not report death")
	assert.Equal(t, int32(60), c.CurrentHP())

	assert.False(t, c.ReduceCurrentHP(0), "zero damage is ignored")
	assert.Equal(t, int32(60), c.CurrentHP())

	assert.True(t, c.ReduceCurrentHP(500), "lethal hit must report death")
	assert.Equal(t, int32(0), c.CurrentHP())
	assert.True(t, c.IsDead())

	assert.False(t, c.ReduceCurrentHP(10), "dead character cannot die twice")
}

func TestCharacter_Heal(t *testing.T) {
	c := NewCharacter(1, "Hero", NewLocation(0, 0, 0), 100)
	c.SetCurrentHP(90)

	assert.Equal(t, int32(10), c.Heal(25), "heal is capped by maxHP")
	assert.Equal(t, int32(100), c.CurrentHP())
	assert.Equal(t, int32(0), c.Heal(-5))

	c.SetCurrentHP(0)
	assert.Equal(t, int32(0), c.Heal(50), "dead character cannot be healed")
}

func TestCharacter_SetCurrentHP_Clamps(t *testing.T) {
	c := NewCharacter(1, "Hero", NewLocation(0, 0, 0), 100)

	c.SetCurrentHP(-10)
	assert.Equal(t, int32(0), c.CurrentHP())

	c.SetCurrentHP(1000)
	assert.Equal(t, int32(100), c.CurrentHP())
}

func TestNewCharacter_MinimumMaxHP(t *testing.T) {
	c := NewCharacter(1, "Ghost", NewLocation(0, 0, 0), 0)
	assert.Equal(t, int32(1), c.MaxHP())
	assert.False(t, c.IsDead())
}
