package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventory_AddConsume(t *testing.T) {
	inv := NewInventory(42)
	assert.Equal(t, int64(42), inv.OwnerID())

	require.NoError(t, inv.Add(9100, 3))
	assert.Equal(t, int64(3), inv.Count(9100))

	assert.True(t, inv.Consume(9100, 1))
	assert.Equal(t, int64(2), inv.Count(9100))

	assert.False(t, inv.Consume(9100, 5), "cannot consume more than held")
	assert.Equal(t, int64(2), inv.Count(9100))

	assert.True(t, inv.Consume(9100, 2))
	assert.Equal(t, int64(0), inv.Count(9100))
}

func TestInventory_InvalidCounts(t *testing.T) {
	inv := NewInventory(1)

	assert.Error(t, inv.Add(9100, 0))
	assert.Error(t, inv.Add(9100, -1))
	assert.False(t, inv.Consume(9100, 0))
	assert.False(t, inv.Consume(9100, 1), "empty inventory")
}

func TestPlayer_Inventory(t *testing.T) {
	p := NewPlayer(0x10000001, 7, "Hero", NewLocation(10, 20, 30), 500)

	assert.Equal(t, int64(7), p.CharacterID())
	assert.Equal(t, int64(7), p.Inventory().OwnerID())
	assert.Equal(t, uint32(0x10000001), p.ObjectID())
	assert.Equal(t, "Hero", p.Name())
	assert.Equal(t, NewLocation(10, 20, 30), p.Location())
}
