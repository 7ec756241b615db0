package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/corebank/internal/model"
	"github.com/udisondev/corebank/internal/world"
)

func newTestState(p Presenter) (*State, *model.Player) {
	me := owner()
	s := NewState(me, Options{Presenter: p, Rand: &seqRand{values: []float64{0.99}}})
	s.SetFlags(world.Flags{SlotsUnlocked: true})
	return s, me
}

func TestState_TierThreeScenario(t *testing.T) {
	p := &recordingPresenter{}
	s, me := newTestState(p)
	require.NoError(t, me.Inventory().Add(9100, 1))

	level, err := s.Equip(0, CoreTidal)
	require.NoError(t, err)
	assert.Zero(t, level)
	assert.InDelta(t, 106.0, s.ModifyWeaponDamage(100), 1e-9)

	level, err = s.Enhance(0, me.Inventory())
	require.NoError(t, err)
	assert.Equal(t, int32(1), level)
	assert.InDelta(t, 1.2, s.Bank().Multiplier(0), 1e-9)
	assert.InDelta(t, 107.2, s.ModifyWeaponDamage(100), 1e-9)
	assert.Zero(t, me.Inventory().Count(9100), "one upgrade item consumed")

	_, err = s.Unequip(0)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, s.ModifyWeaponDamage(100), 1e-9)

	level, err = s.Equip(0, CoreTidal)
	require.NoError(t, err)
	assert.Equal(t, int32(1), level)

	require.Len(t, p.notices, 2)
	assert.Equal(t, NoticeLevelUp, p.notices[0].Kind)
	assert.Equal(t, Notice{Kind: NoticeRestored, Slot: 0, Core: CoreTidal, Level: 1}, p.notices[1])
}

func TestState_WeaponBonusSumsEquipped(t *testing.T) {
	s, _ := newTestState(nil)
	for i, c := range []CoreType{CoreEmber, CoreStorm, CoreCosmic} {
		_, err := s.Equip(i, c)
		require.NoError(t, err)
	}
	assert.InDelta(t, 122.0, s.ModifyWeaponDamage(100), 1e-9)
}

func TestState_SlotsLockedUntilBoss(t *testing.T) {
	p := &recordingPresenter{}
	me := owner()
	s := NewState(me, Options{Presenter: p})

	_, err := s.Equip(1, CoreEmber)
	assert.ErrorIs(t, err, ErrSlotLocked)
	require.Len(t, p.notices, 1)
	assert.Equal(t, NoticeRejected, p.notices[0].Kind)
	assert.True(t, s.Bank().Slot(1).Empty())

	_, err = s.Equip(0, CoreEmber)
	assert.NoError(t, err, "slot 0 is always open")

	assert.True(t, s.MarkBossDefeated())
	assert.False(t, s.MarkBossDefeated())
	assert.Equal(t, world.Flags{BossDefeated: true, SlotsUnlocked: true}, s.Flags())

	_, err = s.Equip(1, CoreStorm)
	assert.NoError(t, err)
}

func TestState_EnhanceConsumesOnlyOnSuccess(t *testing.T) {
	p := &recordingPresenter{}
	s, me := newTestState(p)
	inv := me.Inventory()

	_, err := s.Enhance(0, inv)
	assert.ErrorIs(t, err, ErrNoCoreEquipped)

	_, err = s.Equip(0, CoreVerdant)
	require.NoError(t, err)

	_, err = s.Enhance(0, inv)
	assert.ErrorIs(t, err, ErrInsufficientCurrency)
	assert.Zero(t, s.Bank().Slot(0).Level)

	require.NoError(t, inv.Add(9100, 10))
	for range MaxEnhanceLevel {
		_, err := s.Enhance(0, inv)
		require.NoError(t, err)
	}
	_, err = s.Enhance(0, inv)
	assert.ErrorIs(t, err, ErrAlreadyMaxed)
	assert.Equal(t, int64(5), inv.Count(9100), "maxed enhance must not consume material")

	_, err = s.Enhance(0, nil)
	assert.ErrorIs(t, err, ErrAlreadyMaxed)
}

func TestState_UnequipCosmicDropsMarks(t *testing.T) {
	s, _ := newTestState(nil)
	target := monster(10, 50, 0, 1000)

	_, err := s.Equip(0, CoreCosmic)
	require.NoError(t, err)
	_, err = s.Equip(1, CoreEmber)
	require.NoError(t, err)

	s.OnOutgoingHit(Hit{Target: target, Damage: 100})
	s.OnOutgoingHit(Hit{Target: target, Damage: 100})
	require.Equal(t, 2, s.Marks().Len())

	_, err = s.Unequip(0)
	require.NoError(t, err)
	assert.Zero(t, s.Marks().Len())

	w := newTestWorld(target)
	for range 120 {
		for _, e := range s.Tick(w) {
			assert.NotEqual(t, CoreCosmic, e.Source, "no debt damage after unequip")
		}
	}
}

func TestState_ReplacingCosmicDropsMarks(t *testing.T) {
	s, _ := newTestState(nil)
	target := monster(10, 50, 0, 1000)

	_, err := s.Equip(0, CoreCosmic)
	require.NoError(t, err)
	s.OnOutgoingHit(Hit{Target: target, Damage: 100})
	require.Equal(t, 1, s.Marks().Len())

	_, err = s.Equip(0, CoreMirror)
	require.NoError(t, err)
	assert.Zero(t, s.Marks().Len())
	assert.Zero(t, s.Scheduler().Counter(CoreCosmic))
}

func TestState_CleanUnequip(t *testing.T) {
	s, _ := newTestState(nil)
	target := monster(10, 50, 0, 100000)
	w := newTestWorld(target)

	_, err := s.Equip(0, CoreEmber)
	require.NoError(t, err)
	_, err = s.Equip(1, CoreCosmic)
	require.NoError(t, err)

	s.OnOutgoingHit(Hit{Target: target, Damage: 100})
	for range 29 {
		s.Tick(w)
	}

	_, _ = s.Unequip(0)
	_, _ = s.Unequip(1)
	assert.Zero(t, s.Marks().Len())
	for _, c := range AllCores() {
		assert.Zero(t, s.Scheduler().Counter(c))
	}

	_, err = s.Equip(0, CoreEmber)
	require.NoError(t, err)
	assert.Empty(t, s.Tick(w))
}

func TestState_TickPresentsThemedEffects(t *testing.T) {
	p := &recordingPresenter{}
	s, _ := newTestState(p)
	target := monster(10, 50, 0, 1000)
	w := newTestWorld(target)

	_, err := s.Equip(0, CoreCosmic)
	require.NoError(t, err)
	s.OnOutgoingHit(Hit{Target: target, Damage: 100})

	var resolved []Effect
	for range 60 {
		for _, e := range s.Tick(w) {
			if e.Kind == EffectDamage {
				resolved = append(resolved, e)
			}
		}
	}
	require.Len(t, resolved, 1)
	assert.InDelta(t, 50.0, resolved[0].Magnitude, 1e-9)
	assert.Equal(t, ClassicTheme{}.Color(CoreCosmic), resolved[0].Color)
	assert.Equal(t, uint64(60), s.Frame())

	// mark placed + 2 aura pulses + resolved mark
	assert.Len(t, p.effects, 4)
	for _, e := range p.effects {
		assert.Equal(t, ClassicTheme{}.Color(CoreCosmic), e.Color)
	}
}

func TestState_IncomingHit(t *testing.T) {
	me := owner()
	s := NewState(me, Options{Rand: &seqRand{values: []float64{0.01}}})

	d, _ := s.OnIncomingHit(Hurt{Damage: 10})
	assert.Equal(t, Unaffected, d)

	_, err := s.Equip(0, CoreTidal)
	require.NoError(t, err)
	d, effects := s.OnIncomingHit(Hurt{Damage: 10})
	assert.Equal(t, Absorbed, d)
	require.Len(t, effects, 1)
	assert.Equal(t, ClassicTheme{}.Color(CoreTidal), effects[0].Color)
}

func TestState_OnKillHealsOwner(t *testing.T) {
	s, _ := newTestState(nil)
	_, err := s.Equip(0, CoreVerdant)
	require.NoError(t, err)

	dead := monster(10, 0, 0, 10)
	dead.SetCurrentHP(0)
	effects := s.OnKill(dead)
	require.Len(t, effects, 1)
	assert.Equal(t, EffectHeal, effects[0].Kind)
}
