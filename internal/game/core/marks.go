package core

import "github.com/udisondev/corebank/internal/model"

// Mark is a delayed strike queued against a target.
type Mark struct {
	TargetID  uint32
	Countdown int32 // frames left
	Delay     int32 // initial countdown
	Damage    float64
	LastKnown model.Location
}

// Progress returns 0..1, how far the mark is from resolving.
// Used by warning visuals only.
func (m Mark) Progress() float64 {
	if m.Delay <= 0 {
		return 1
	}
	return 1 - float64(m.Countdown)/float64(m.Delay)
}

// MarkQueue holds pending marks. Marks are neither ordered nor deduplicated
// by target; each resolves on its own.
type MarkQueue struct {
	marks []Mark
}

// NewMarkQueue creates an empty queue.
func NewMarkQueue() *MarkQueue {
	return &MarkQueue{marks: make([]Mark, 0, 8)}
}

// Push appends a mark that resolves after delay frames (minimum 1).
func (q *MarkQueue) Push(targetID uint32, delay int32, damage float64, lastKnown model.Location) {
	if delay < 1 {
		delay = 1
	}
	q.marks = append(q.marks, Mark{
		TargetID:  targetID,
		Countdown: delay,
		Delay:     delay,
		Damage:    damage,
		LastKnown: lastKnown,
	})
}

// Tick counts every mark down by one frame and resolves those reaching zero.
// A mark whose target is gone or dead resolves into a zero-magnitude fizzle
// at its last known position; it never deals damage.
func (q *MarkQueue) Tick(world World) []Effect {
	if len(q.marks) == 0 {
		return nil
	}

	var effects []Effect
	n := 0
	for _, m := range q.marks {
		target, ok := world.Target(m.TargetID)
		live := ok && alive(target)
		if live {
			m.LastKnown = target.Location()
		}

		m.Countdown--
		if m.Countdown > 0 {
			q.marks[n] = m
			n++
			continue
		}

		if live {
			effects = append(effects, Effect{
				Kind:      EffectDamage,
				Source:    CoreCosmic,
				TargetID:  m.TargetID,
				Position:  m.LastKnown,
				Magnitude: m.Damage,
				Proc:      true,
			})
			continue
		}
		effects = append(effects, Effect{
			Kind:     EffectMarkFizzle,
			Source:   CoreCosmic,
			Position: m.LastKnown,
		})
	}
	clear(q.marks[n:])
	q.marks = q.marks[:n]
	return effects
}

// Clear drops every pending mark and returns how many were dropped.
func (q *MarkQueue) Clear() int {
	n := len(q.marks)
	clear(q.marks)
	q.marks = q.marks[:0]
	return n
}

// Len returns the number of pending marks.
func (q *MarkQueue) Len() int {
	return len(q.marks)
}

// Marks returns a copy of pending marks.
func (q *MarkQueue) Marks() []Mark {
	out := make([]Mark, len(q.marks))
	copy(out, q.marks)
	return out
}
