package combat

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/udisondev/corebank/internal/game/core"
	"github.com/udisondev/corebank/internal/model"
	"github.com/udisondev/corebank/internal/world"
)

// AIController is a subset of ai.Controller used by Manager.
type AIController interface {
	NotifyDamage(attackerID uint32, damage int32)
	Slow(frames int32)
}

// ControllerLookup finds the AI controller of a monster.
// Injected to avoid an import cycle with ai.
type ControllerLookup func(objectID uint32) (AIController, bool)

// HitResult describes one applied hit, for packets and tests.
type HitResult struct {
	AttackerID uint32
	TargetID   uint32
	Damage     int32
	Killed     bool
	Source     core.CoreType // CoreNone for the weapon hit
}

// Outcome collects everything that happened while resolving one action.
type Outcome struct {
	Hits         []HitResult
	Killed       []*model.Monster
	Healed       int32
	Decision     core.Decision // incoming hits only
	BossDefeated bool
}

// Manager applies weapon hits and core effect intents to the world.
// It is the only place where HP changes; core.State only produces intents.
//
// Callers hold the owning session's lock for the whole call.
type Manager struct {
	world *world.World

	// aiLookup is used for NotifyDamage and slow debuffs (nil disables both)
	aiLookup ControllerLookup

	// deathFunc is called when a monster dies — triggers despawn + respawn.
	deathFunc func(m *model.Monster)

	// hitObserver — callback для наблюдения за попаданиями (симулятор, тесты).
	hitObserver func(HitResult)
}

// NewManager creates a combat manager over w.
func NewManager(w *world.World, aiLookup ControllerLookup) *Manager {
	return &Manager{world: w, aiLookup: aiLookup}
}

// SetDeathFunc sets the callback for monster death handling.
func (m *Manager) SetDeathFunc(fn func(*model.Monster)) {
	m.deathFunc = fn
}

// SetHitObserver sets callback for observing hits (for tests).
func (m *Manager) SetHitObserver(fn func(HitResult)) {
	m.hitObserver = fn
}

// ExecuteAttack performs a weapon hit of attacker on targetID.
//
// Workflow:
//  1. Validate attacker, target and range
//  2. Weapon damage = State.ModifyWeaponDamage(base)
//  3. Apply damage, notify monster AI
//  4. Feed the hit to State.OnOutgoingHit (echo, marks)
//  5. On kill: State.OnKill, boss flag, despawn
//  6. Apply resulting intents
func (m *Manager) ExecuteAttack(attacker *model.Player, st *core.State, targetID uint32, baseDamage float64) (Outcome, error) {
	var out Outcome

	target, ok := m.world.Monster(targetID)
	if !ok {
		return out, fmt.Errorf("attack %d: %w", targetID, ErrTargetNotFound)
	}
	if err := ValidateAttack(attacker, target); err != nil {
		return out, err
	}

	damage := toDamage(st.ModifyWeaponDamage(baseDamage))
	killed := m.hit(attacker, target, damage, core.CoreNone, &out)

	effects := st.OnOutgoingHit(core.Hit{Target: target, Damage: float64(damage)})
	if killed {
		effects = append(effects, m.kill(attacker, st, target, &out)...)
	}
	m.apply(attacker, st, effects, &out)

	slog.Debug("attack executed",
		"attacker", attacker.Name(),
		"target", target.Name(),
		"damage", damage,
		"killed", killed)
	return out, nil
}

// ApplyEffects applies intents produced by State.Tick.
func (m *Manager) ApplyEffects(owner *model.Player, st *core.State, effects []core.Effect) Outcome {
	var out Outcome
	m.apply(owner, st, effects, &out)
	return out
}

// MonsterAttack resolves a monster hit on victim through the defensive cores.
// Absorbed and reflected hits leave the victim's HP untouched.
func (m *Manager) MonsterAttack(monster *model.Monster, victim *model.Player, st *core.State) Outcome {
	var out Outcome
	if monster.IsDead() || victim.IsDead() {
		return out
	}

	damage := monster.Attack()
	d, effects := st.OnIncomingHit(core.Hurt{Attacker: monster, Damage: float64(damage)})
	out.Decision = d

	if d == core.Unaffected && damage > 0 {
		died := victim.ReduceCurrentHP(damage)
		m.observe(HitResult{AttackerID: monster.ObjectID(), TargetID: victim.ObjectID(), Damage: damage, Killed: died}, &out)
		if died {
			slog.Info("player died", "player", victim.Name(), "killer", monster.Name())
		}
	}

	m.apply(victim, st, effects, &out)
	return out
}

// apply resolves intents breadth-first; kills may append heal intents.
// Core damage is never fed back into OnOutgoingHit.
func (m *Manager) apply(owner *model.Player, st *core.State, effects []core.Effect, out *Outcome) {
	queue := effects
	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]

		switch e.Kind {
		case core.EffectDamage:
			if e.TargetID == 0 || e.TargetID == owner.ObjectID() {
				continue
			}
			target, ok := m.world.Monster(e.TargetID)
			if !ok || target.IsDead() {
				continue
			}
			if m.hit(owner, target, toDamage(e.Magnitude), e.Source, out) {
				queue = append(queue, m.kill(owner, st, target, out)...)
			}

		case core.EffectHeal:
			if e.TargetID != owner.ObjectID() {
				continue
			}
			out.Healed += owner.Heal(toDamage(e.Magnitude))

		case core.EffectDebuff:
			if ctrl, ok := m.controller(e.TargetID); ok {
				ctrl.Slow(e.Duration)
			}
		}
	}
}

func (m *Manager) hit(attacker *model.Player, target *model.Monster, damage int32, source core.CoreType, out *Outcome) bool {
	if damage <= 0 {
		return false
	}
	killed := target.ReduceCurrentHP(damage)
	if !killed {
		if ctrl, ok := m.controller(target.ObjectID()); ok {
			ctrl.NotifyDamage(attacker.ObjectID(), damage)
		}
	}
	m.observe(HitResult{
		AttackerID: attacker.ObjectID(),
		TargetID:   target.ObjectID(),
		Damage:     damage,
		Killed:     killed,
		Source:     source,
	}, out)
	return killed
}

// kill runs death handling exactly once per monster (ReduceCurrentHP reports the kill once).
func (m *Manager) kill(killer *model.Player, st *core.State, target *model.Monster, out *Outcome) []core.Effect {
	effects := st.OnKill(target)

	if target.IsBoss() && st.MarkBossDefeated() {
		out.BossDefeated = true
	}
	out.Killed = append(out.Killed, target)
	if m.deathFunc != nil {
		m.deathFunc(target)
	}

	slog.Info("target died",
		"victim", target.Name(),
		"killer", killer.Name(),
		"boss", target.IsBoss())
	return effects
}

func (m *Manager) observe(h HitResult, out *Outcome) {
	out.Hits = append(out.Hits, h)
	if m.hitObserver != nil {
		m.hitObserver(h)
	}
}

func (m *Manager) controller(objectID uint32) (AIController, bool) {
	if m.aiLookup == nil {
		return nil, false
	}
	return m.aiLookup(objectID)
}

// toDamage rounds an intent magnitude to whole HP; any positive magnitude deals at least 1.
func toDamage(magnitude float64) int32 {
	if magnitude <= 0 || math.IsNaN(magnitude) {
		return 0
	}
	if magnitude >= math.MaxInt32 {
		return math.MaxInt32
	}
	return max(int32(math.Round(magnitude)), 1)
}
