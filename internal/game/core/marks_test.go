package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/corebank/internal/model"
)

func TestMarkQueue_ResolvesExactlyOnce(t *testing.T) {
	for _, delay := range []int32{1, 2, 30, 60} {
		q := NewMarkQueue()
		target := monster(10, 100, 0, 1000)
		w := newTestWorld(target)
		q.Push(10, delay, 40, target.Location())

		resolved := 0
		for i := int32(1); i < delay; i++ {
			resolved += len(q.Tick(w))
		}
		assert.Zero(t, resolved, "delay %d: must not resolve before D ticks", delay)
		assert.Equal(t, 1, q.Len())

		effects := q.Tick(w)
		require.Len(t, effects, 1, "delay %d", delay)
		assert.Equal(t, EffectDamage, effects[0].Kind)
		assert.Equal(t, uint32(10), effects[0].TargetID)
		assert.InDelta(t, 40.0, effects[0].Magnitude, 1e-9)
		assert.Zero(t, q.Len())

		for range 5 {
			assert.Empty(t, q.Tick(w), "delay %d: resolved twice", delay)
		}
	}
}

func TestMarkQueue_RemovedTargetFizzles(t *testing.T) {
	q := NewMarkQueue()
	target := monster(10, 100, 0, 1000)
	w := newTestWorld(target)
	q.Push(10, 30, 75, model.NewLocation(0, 0, 0))

	for tick := 1; tick < 30; tick++ {
		if tick == 9 {
			target.SetLocation(model.NewLocation(120, 40, 0))
		}
		if tick == 10 {
			w.remove(10)
		}
		require.Empty(t, q.Tick(w), "tick %d", tick)
	}
	require.Equal(t, 1, q.Len())

	effects := q.Tick(w)
	require.Len(t, effects, 1)
	e := effects[0]
	assert.Equal(t, EffectMarkFizzle, e.Kind)
	assert.False(t, e.IsHarmful(), "fizzle must not deal damage")
	assert.Zero(t, e.TargetID)
	assert.Zero(t, e.Magnitude)
	assert.Equal(t, model.NewLocation(120, 40, 0), e.Position, "fizzle at last known position")
	assert.Zero(t, q.Len())
	assert.Equal(t, int32(1000), target.CurrentHP())
}

func TestMarkQueue_DeadTargetFizzles(t *testing.T) {
	q := NewMarkQueue()
	target := monster(10, 100, 0, 1000)
	w := newTestWorld(target)
	q.Push(10, 2, 75, target.Location())

	target.SetCurrentHP(0)
	q.Tick(w)
	effects := q.Tick(w)
	require.Len(t, effects, 1)
	assert.Equal(t, EffectMarkFizzle, effects[0].Kind)
}

func TestMarkQueue_IndependentMarks(t *testing.T) {
	q := NewMarkQueue()
	w := newTestWorld(monster(10, 0, 0, 1000))
	q.Push(10, 3, 5, model.Location{})
	q.Push(10, 3, 7, model.Location{})
	q.Push(10, 5, 9, model.Location{})

	q.Tick(w)
	q.Tick(w)
	assert.Len(t, q.Tick(w), 2, "marks on the same target are not merged")
	assert.Equal(t, 1, q.Len())
}

func TestMarkQueue_ProgressAndClear(t *testing.T) {
	q := NewMarkQueue()
	w := newTestWorld(monster(10, 0, 0, 1000))
	q.Push(10, 4, 5, model.Location{})
	q.Push(10, 0, 5, model.Location{})

	marks := q.Marks()
	require.Len(t, marks, 2)
	assert.InDelta(t, 0.0, marks[0].Progress(), 1e-9)
	assert.Equal(t, int32(1), marks[1].Delay, "delay is at least one tick")

	q.Tick(w)
	marks = q.Marks()
	require.Len(t, marks, 1)
	assert.InDelta(t, 0.25, marks[0].Progress(), 1e-9)

	marks[0].Countdown = 100
	assert.Equal(t, int32(3), q.Marks()[0].Countdown, "Marks returns copies")

	assert.Equal(t, 1, q.Clear())
	assert.Zero(t, q.Len())
	assert.Empty(t, q.Tick(w))
}
