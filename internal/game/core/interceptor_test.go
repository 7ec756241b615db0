package core

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInterceptor(t *testing.T, rnd Rand, cores ...CoreType) (*Interceptor, *Bank) {
	t.Helper()
	b := NewBank(NewUpgradeStore())
	for i, c := range cores {
		_, err := b.Equip(i, c)
		require.NoError(t, err)
	}
	return NewInterceptor(DefaultTable(), b, rnd), b
}

func TestInterceptor_DodgeFirst(t *testing.T) {
	rnd := &seqRand{values: []float64{0}}
	ic, _ := newInterceptor(t, rnd, CoreMirror, CoreTidal)
	attacker := monster(10, 30, 0, 100)

	d, effects := ic.OnIncomingHit(Hurt{Attacker: attacker, Damage: 40}, owner())
	assert.Equal(t, Absorbed, d)
	assert.Equal(t, []EffectKind{EffectDodge}, kinds(effects))
	assert.Equal(t, 1, rnd.calls, "reflect must not be rolled after a dodge")
}

func TestInterceptor_ReflectWhenDodgeMisses(t *testing.T) {
	rnd := &seqRand{values: []float64{0.5, 0.05}}
	ic, _ := newInterceptor(t, rnd, CoreTidal, CoreMirror)
	attacker := monster(10, 30, 0, 100)

	d, effects := ic.OnIncomingHit(Hurt{Attacker: attacker, Damage: 40}, owner())
	assert.Equal(t, Reflected, d)
	require.Equal(t, []EffectKind{EffectReflect, EffectDamage}, kinds(effects))
	assert.Equal(t, uint32(10), effects[1].TargetID)
	assert.InDelta(t, 40.0, effects[1].Magnitude, 1e-9)
	assert.True(t, effects[1].Proc)
}

func TestInterceptor_ReflectWithoutAttacker(t *testing.T) {
	ic, _ := newInterceptor(t, &seqRand{values: []float64{0}}, CoreMirror)

	d, effects := ic.OnIncomingHit(Hurt{Damage: 40}, owner())
	assert.Equal(t, Reflected, d)
	assert.Equal(t, []EffectKind{EffectReflect}, kinds(effects))
}

func TestInterceptor_Unaffected(t *testing.T) {
	ic, _ := newInterceptor(t, &seqRand{values: []float64{0.99}}, CoreTidal, CoreMirror)
	d, effects := ic.OnIncomingHit(Hurt{Damage: 40}, owner())
	assert.Equal(t, Unaffected, d)
	assert.Empty(t, effects)

	none, _ := newInterceptor(t, &seqRand{values: []float64{0}}, CoreEmber)
	d, _ = none.OnIncomingHit(Hurt{Damage: 40}, owner())
	assert.Equal(t, Unaffected, d)
}

func TestInterceptor_ChanceScalesWithLevel(t *testing.T) {
	ic, b := newInterceptor(t, &seqRand{values: []float64{0.15}}, CoreTidal)

	d, _ := ic.OnIncomingHit(Hurt{Damage: 10}, owner())
	assert.Equal(t, Unaffected, d)

	for range MaxEnhanceLevel {
		_, err := b.Enhance(0, true)
		require.NoError(t, err)
	}
	d, _ = ic.OnIncomingHit(Hurt{Damage: 10}, owner())
	assert.Equal(t, Absorbed, d, "level 5 doubles dodge chance to 0.2")
}

func TestInterceptor_NoDuplicateInterception(t *testing.T) {
	rnd := rand.New(rand.NewPCG(7, 11))
	ic, b := newInterceptor(t, rnd, CoreTidal, CoreMirror)
	for range MaxEnhanceLevel {
		_, _ = b.Enhance(0, true)
		_, _ = b.Enhance(1, true)
	}
	attacker := monster(10, 30, 0, 100)

	seen := map[Decision]int{}
	for range 5000 {
		d, effects := ic.OnIncomingHit(Hurt{Attacker: attacker, Damage: 10}, owner())
		seen[d]++

		dodges := countKind(effects, EffectDodge, CoreTidal)
		reflects := countKind(effects, EffectReflect, CoreMirror)
		require.LessOrEqual(t, dodges+reflects, 1)
		switch d {
		case Absorbed:
			require.Equal(t, 1, dodges)
		case Reflected:
			require.Equal(t, 1, reflects)
		default:
			require.Empty(t, effects)
		}
	}
	assert.Positive(t, seen[Absorbed])
	assert.Positive(t, seen[Reflected])
	assert.Positive(t, seen[Unaffected])
}
