package core

import "github.com/udisondev/corebank/internal/model"

// Hit is an outgoing hit reported by the combat pipeline.
type Hit struct {
	Target model.Target
	Damage float64
	// Proc is true when the hit itself came from a core effect.
	// Such hits never trigger echo or marks.
	Proc bool
}

// Dispatcher reacts to outgoing hits and kills.
// Each hook produces at most one effect per module.
type Dispatcher struct {
	table     Table
	bank      *Bank
	scheduler *Scheduler
	marks     *MarkQueue
}

// NewDispatcher wires a dispatcher to session state.
func NewDispatcher(t Table, bank *Bank, scheduler *Scheduler, marks *MarkQueue) *Dispatcher {
	return &Dispatcher{table: t, bank: bank, scheduler: scheduler, marks: marks}
}

// OnOutgoingHit is called once per hit the owner lands.
// Mirror echoes a share of the hit while its cooldown is idle;
// Cosmic places exactly one mark.
func (d *Dispatcher) OnOutgoingHit(hit Hit) []Effect {
	if hit.Proc || hit.Target == nil || hit.Damage <= 0 {
		return nil
	}
	active := d.bank.Active()
	if active.Empty() {
		return nil
	}

	var effects []Effect
	targetID := hit.Target.ObjectID()
	pos := hit.Target.Location()

	if active.Has(CoreMirror) {
		if m := d.scheduler.mirror(); m != nil && m.tryEcho() {
			p := d.table.Params(CoreMirror)
			effects = append(effects, Effect{
				Kind:      EffectDamage,
				Source:    CoreMirror,
				TargetID:  targetID,
				Position:  pos,
				Magnitude: hit.Damage * p.Percent * d.bank.MultiplierOf(CoreMirror),
				Proc:      true,
			})
		}
	}

	if active.Has(CoreCosmic) {
		p := d.table.Params(CoreCosmic)
		damage := hit.Damage * p.Percent * d.bank.MultiplierOf(CoreCosmic)
		d.marks.Push(targetID, p.Delay, damage, pos)
		effects = append(effects, Effect{
			Kind:      EffectMark,
			Source:    CoreCosmic,
			TargetID:  targetID,
			Position:  pos,
			Magnitude: damage,
			Duration:  p.Delay,
		})
	}

	return effects
}

// OnKill is called when a blow owned by the player kills target.
// Verdant heals the owner only if the target is really dead.
func (d *Dispatcher) OnKill(target model.Target, owner Owner) []Effect {
	if target == nil || target.CurrentHP() > 0 {
		return nil
	}
	if !d.bank.Active().Has(CoreVerdant) {
		return nil
	}

	p := d.table.Params(CoreVerdant)
	return []Effect{{
		Kind:      EffectHeal,
		Source:    CoreVerdant,
		TargetID:  owner.ObjectID(),
		Position:  owner.Location(),
		Magnitude: p.Heal * d.bank.MultiplierOf(CoreVerdant),
	}}
}
