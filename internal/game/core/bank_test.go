package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBank_PersistenceAcrossUnequip(t *testing.T) {
	for _, c := range AllCores() {
		for n := int32(0); n <= MaxEnhanceLevel; n++ {
			b := NewBank(NewUpgradeStore())
			_, err := b.Equip(0, c)
			require.NoError(t, err)

			for range n {
				_, err := b.Enhance(0, true)
				require.NoError(t, err)
			}

			removed, err := b.Unequip(0)
			require.NoError(t, err)
			assert.Equal(t, c, removed)
			assert.Equal(t, int32(0), b.Slot(0).Level, "unequip zeroes the slot")
			assert.Equal(t, n, b.Store().Get(c.ItemTypeID()), "unequip keeps the ledger")

			level, err := b.Equip(2, c)
			require.NoError(t, err)
			assert.Equal(t, n, level, "%s level %d", c, n)
			assert.Equal(t, n, b.Slot(2).Level)
		}
	}
}

func TestBank_EnhanceBounded(t *testing.T) {
	b := NewBank(NewUpgradeStore())
	_, err := b.Equip(0, CoreMirror)
	require.NoError(t, err)

	prev := int32(0)
	for range MaxEnhanceLevel {
		level, err := b.Enhance(0, true)
		require.NoError(t, err)
		assert.Greater(t, level, prev)
		prev = level
	}

	for range 3 {
		_, err := b.Enhance(0, true)
		assert.ErrorIs(t, err, ErrAlreadyMaxed)
		assert.Equal(t, MaxEnhanceLevel, b.Slot(0).Level)
	}
	assert.InDelta(t, 2.0, b.Multiplier(0), 1e-9)
}

func TestBank_EnhanceErrors(t *testing.T) {
	b := NewBank(NewUpgradeStore())

	_, err := b.Enhance(0, true)
	assert.ErrorIs(t, err, ErrNoCoreEquipped)

	_, err = b.Enhance(3, true)
	assert.ErrorIs(t, err, ErrInvalidSlot)

	_, err = b.Equip(1, CoreEmber)
	require.NoError(t, err)

	_, err = b.Enhance(1, false)
	assert.ErrorIs(t, err, ErrInsufficientCurrency)
	assert.Equal(t, int32(0), b.Slot(1).Level, "failed enhance must not change level")
	assert.Equal(t, int32(0), b.Store().Get(CoreEmber.ItemTypeID()))
}

func TestBank_EquipValidation(t *testing.T) {
	b := NewBank(NewUpgradeStore())

	_, err := b.Equip(-1, CoreEmber)
	assert.ErrorIs(t, err, ErrInvalidSlot)
	_, err = b.Equip(SlotCount, CoreEmber)
	assert.ErrorIs(t, err, ErrInvalidSlot)
	_, err = b.Equip(0, CoreNone)
	assert.ErrorIs(t, err, ErrInvalidCore)

	_, err = b.Equip(0, CoreStorm)
	require.NoError(t, err)
	_, err = b.Equip(1, CoreStorm)
	assert.ErrorIs(t, err, ErrAlreadyEquipped)

	// Re-equipping into the same slot is allowed.
	_, err = b.Equip(0, CoreStorm)
	assert.NoError(t, err)
	assert.True(t, b.Active().Has(CoreStorm))
	assert.Equal(t, 1, b.Active().Len())
}

func TestBank_EquipReplacesOccupant(t *testing.T) {
	b := NewBank(NewUpgradeStore())
	_, err := b.Equip(0, CoreEmber)
	require.NoError(t, err)
	_, err = b.Equip(0, CoreTidal)
	require.NoError(t, err)

	assert.Equal(t, CoreTidal, b.Slot(0).Core)
	assert.False(t, b.Active().Has(CoreEmber))
	assert.True(t, b.Active().Has(CoreTidal))
}

func TestBank_UnequipIdempotent(t *testing.T) {
	b := NewBank(NewUpgradeStore())

	removed, err := b.Unequip(1)
	require.NoError(t, err)
	assert.Equal(t, CoreNone, removed)

	_, err = b.Unequip(5)
	assert.ErrorIs(t, err, ErrInvalidSlot)
}

func TestMultiplier(t *testing.T) {
	tests := []struct {
		level int32
		want  float64
	}{
		{-1, 1.0},
		{0, 1.0},
		{1, 1.2},
		{3, 1.6},
		{5, 2.0},
		{8, 2.0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Multiplier(tt.level), 1e-9, "level %d", tt.level)
	}
}
