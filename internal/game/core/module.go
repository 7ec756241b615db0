package core

import "github.com/udisondev/corebank/internal/model"

// Env is what a module sees during a tick.
type Env struct {
	World      World
	OwnerID    uint32
	Self       model.Location
	Multiplier float64
}

// Module is the timed part of one core.
// Tick advances internal counters by elapsed frames and returns effects fired
// during this tick. Reset zeroes every counter.
type Module interface {
	Core() CoreType
	Tick(elapsed int32, env Env) []Effect
	Counter() int32
	Reset()
}

// timer fires every period frames; the counter wraps modulo period.
type timer struct {
	period  int32
	counter int32
}

func (t *timer) advance(elapsed int32) bool {
	if t.period <= 0 || elapsed <= 0 {
		return false
	}
	t.counter += elapsed
	if t.counter < t.period {
		return false
	}
	t.counter %= t.period
	return true
}

// emberModule pulses area damage around the owner.
type emberModule struct {
	p     Params
	pulse timer
}

func newEmberModule(p Params) *emberModule {
	return &emberModule{p: p, pulse: timer{period: p.Period}}
}

func (m *emberModule) Core() CoreType { return CoreEmber }
func (m *emberModule) Counter() int32 { return m.pulse.counter }
func (m *emberModule) Reset()         { m.pulse.counter = 0 }

func (m *emberModule) Tick(elapsed int32, env Env) []Effect {
	if !m.pulse.advance(elapsed) {
		return nil
	}

	targets := env.World.HostilesInRange(env.Self, m.p.Radius)
	effects := make([]Effect, 0, len(targets))
	for _, t := range targets {
		if !alive(t) {
			continue
		}
		effects = append(effects, Effect{
			Kind:      EffectDamage,
			Source:    CoreEmber,
			TargetID:  t.ObjectID(),
			Position:  t.Location(),
			Magnitude: m.p.Damage * env.Multiplier,
			Proc:      true,
		})
	}
	return effects
}

// verdantModule slowly regenerates the owner. The kill heal lives in Dispatcher.
type verdantModule struct {
	p     Params
	bloom timer
}

func newVerdantModule(p Params) *verdantModule {
	return &verdantModule{p: p, bloom: timer{period: p.Period}}
}

func (m *verdantModule) Core() CoreType { return CoreVerdant }
func (m *verdantModule) Counter() int32 { return m.bloom.counter }
func (m *verdantModule) Reset()         { m.bloom.counter = 0 }

func (m *verdantModule) Tick(elapsed int32, env Env) []Effect {
	if !m.bloom.advance(elapsed) || m.p.Regen <= 0 {
		return nil
	}
	return []Effect{{
		Kind:      EffectHeal,
		Source:    CoreVerdant,
		TargetID:  env.OwnerID,
		Position:  env.Self,
		Magnitude: m.p.Regen * env.Multiplier,
	}}
}

// stormModule scans for the nearest hostile every period frames and strikes it.
// After a strike it stays silent for Cooldown frames.
type stormModule struct {
	p        Params
	scan     timer
	cooldown int32
}

func newStormModule(p Params) *stormModule {
	return &stormModule{p: p, scan: timer{period: p.Period}}
}

func (m *stormModule) Core() CoreType { return CoreStorm }
func (m *stormModule) Counter() int32 { return m.scan.counter }

func (m *stormModule) Reset() {
	m.scan.counter = 0
	m.cooldown = 0
}

func (m *stormModule) Tick(elapsed int32, env Env) []Effect {
	if m.cooldown > 0 {
		m.cooldown = max(0, m.cooldown-elapsed)
	}
	if !m.scan.advance(elapsed) || m.cooldown > 0 {
		return nil
	}

	target := nearest(env.World.HostilesInRange(env.Self, m.p.Radius), env.Self)
	if target == nil {
		return nil
	}
	m.cooldown = m.p.Cooldown
	return []Effect{{
		Kind:      EffectDamage,
		Source:    CoreStorm,
		TargetID:  target.ObjectID(),
		Position:  target.Location(),
		Magnitude: m.p.Damage * env.Multiplier,
		Proc:      true,
	}}
}

// mirrorModule owns the echo cooldown. It counts down once per frame and
// never on hits.
type mirrorModule struct {
	p            Params
	echoCooldown int32
}

func newMirrorModule(p Params) *mirrorModule {
	return &mirrorModule{p: p}
}

func (m *mirrorModule) Core() CoreType { return CoreMirror }
func (m *mirrorModule) Counter() int32 { return m.echoCooldown }
func (m *mirrorModule) Reset()         { m.echoCooldown = 0 }

func (m *mirrorModule) Tick(elapsed int32, _ Env) []Effect {
	if m.echoCooldown > 0 {
		m.echoCooldown = max(0, m.echoCooldown-elapsed)
	}
	return nil
}

// tryEcho consumes the shared cooldown. Returns false while it is running.
func (m *mirrorModule) tryEcho() bool {
	if m.echoCooldown > 0 {
		return false
	}
	m.echoCooldown = m.p.Cooldown
	return true
}

// cosmicModule periodically slows hostiles near the owner. Marks are placed by Dispatcher.
type cosmicModule struct {
	p    Params
	aura timer
}

func newCosmicModule(p Params) *cosmicModule {
	return &cosmicModule{p: p, aura: timer{period: p.Period}}
}

func (m *cosmicModule) Core() CoreType { return CoreCosmic }
func (m *cosmicModule) Counter() int32 { return m.aura.counter }
func (m *cosmicModule) Reset()         { m.aura.counter = 0 }

func (m *cosmicModule) Tick(elapsed int32, env Env) []Effect {
	if !m.aura.advance(elapsed) {
		return nil
	}

	targets := env.World.HostilesInRange(env.Self, m.p.Radius)
	effects := make([]Effect, 0, len(targets))
	for _, t := range targets {
		if !alive(t) {
			continue
		}
		effects = append(effects, Effect{
			Kind:      EffectDebuff,
			Source:    CoreCosmic,
			TargetID:  t.ObjectID(),
			Position:  t.Location(),
			Magnitude: env.Multiplier,
			Duration:  int32(float64(m.p.Duration) * env.Multiplier),
		})
	}
	return effects
}

// nearest returns the closest living target; ties go to the lower object ID.
func nearest(targets []model.Target, from model.Location) model.Target {
	var best model.Target
	var bestDist int64
	for _, t := range targets {
		if !alive(t) {
			continue
		}
		d := from.DistanceSquared(t.Location())
		if best == nil || d < bestDist || (d == bestDist && t.ObjectID() < best.ObjectID()) {
			best = t
			bestDist = d
		}
	}
	return best
}
