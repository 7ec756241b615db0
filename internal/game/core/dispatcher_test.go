package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dispatcherFixture struct {
	bank       *Bank
	scheduler  *Scheduler
	marks      *MarkQueue
	dispatcher *Dispatcher
}

func newDispatcherFixture(t *testing.T, cores ...CoreType) *dispatcherFixture {
	t.Helper()
	table := DefaultTable()
	f := &dispatcherFixture{
		bank:      NewBank(NewUpgradeStore()),
		scheduler: NewScheduler(table),
		marks:     NewMarkQueue(),
	}
	f.dispatcher = NewDispatcher(table, f.bank, f.scheduler, f.marks)
	for i, c := range cores {
		_, err := f.bank.Equip(i, c)
		require.NoError(t, err)
	}
	return f
}

func TestDispatcher_EchoCooldownIsTickBased(t *testing.T) {
	f := newDispatcherFixture(t, CoreMirror)
	target := monster(10, 50, 0, 1000)
	w := newTestWorld(target)

	effects := f.dispatcher.OnOutgoingHit(Hit{Target: target, Damage: 100})
	require.Len(t, effects, 1)
	assert.Equal(t, EffectDamage, effects[0].Kind)
	assert.Equal(t, CoreMirror, effects[0].Source)
	assert.InDelta(t, 25.0, effects[0].Magnitude, 1e-9)
	assert.True(t, effects[0].Proc)

	for range 50 {
		assert.Empty(t, f.dispatcher.OnOutgoingHit(Hit{Target: target, Damage: 100}),
			"hits must not shorten the echo cooldown")
	}

	tickN(f.scheduler, 29, f.bank, w)
	assert.Empty(t, f.dispatcher.OnOutgoingHit(Hit{Target: target, Damage: 100}))
	tickN(f.scheduler, 1, f.bank, w)
	assert.Len(t, f.dispatcher.OnOutgoingHit(Hit{Target: target, Damage: 100}), 1)
}

func TestDispatcher_ProcHitsIgnored(t *testing.T) {
	f := newDispatcherFixture(t, CoreMirror, CoreCosmic)
	target := monster(10, 50, 0, 1000)

	assert.Empty(t, f.dispatcher.OnOutgoingHit(Hit{Target: target, Damage: 100, Proc: true}))
	assert.Empty(t, f.dispatcher.OnOutgoingHit(Hit{Target: target, Damage: 0}))
	assert.Empty(t, f.dispatcher.OnOutgoingHit(Hit{Damage: 100}))
	assert.Zero(t, f.marks.Len())
}

func TestDispatcher_CosmicOneMarkPerHit(t *testing.T) {
	f := newDispatcherFixture(t, CoreCosmic)
	target := monster(10, 50, 0, 1000)

	for i := 1; i <= 3; i++ {
		effects := f.dispatcher.OnOutgoingHit(Hit{Target: target, Damage: 80})
		require.Len(t, effects, 1)
		assert.Equal(t, EffectMark, effects[0].Kind)
		assert.InDelta(t, 40.0, effects[0].Magnitude, 1e-9)
		assert.Equal(t, i, f.marks.Len())
	}

	m := f.marks.Marks()[0]
	assert.Equal(t, uint32(10), m.TargetID)
	assert.Equal(t, int32(60), m.Delay)
	assert.Equal(t, target.Location(), m.LastKnown)
}

func TestDispatcher_OnKill(t *testing.T) {
	me := owner()
	dead := monster(10, 0, 0, 100)
	dead.SetCurrentHP(0)
	alive := monster(11, 0, 0, 100)

	f := newDispatcherFixture(t, CoreVerdant)
	effects := f.dispatcher.OnKill(dead, me)
	require.Len(t, effects, 1)
	assert.Equal(t, EffectHeal, effects[0].Kind)
	assert.Equal(t, me.ObjectID(), effects[0].TargetID)
	assert.InDelta(t, 15.0, effects[0].Magnitude, 1e-9)

	assert.Empty(t, f.dispatcher.OnKill(alive, me), "target must really be dead")
	assert.Empty(t, f.dispatcher.OnKill(nil, me))

	without := newDispatcherFixture(t, CoreEmber)
	assert.Empty(t, without.dispatcher.OnKill(dead, me))
}
