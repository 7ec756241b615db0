package core

import "github.com/udisondev/corebank/internal/model"

// Decision is the outcome of an incoming hit check.
type Decision uint8

const (
	Unaffected Decision = iota
	Absorbed
	Reflected
)

func (d Decision) String() string {
	switch d {
	case Absorbed:
		return "absorbed"
	case Reflected:
		return "reflected"
	default:
		return "unaffected"
	}
}

// Hurt describes an incoming hit.
type Hurt struct {
	Attacker model.Target // may be nil (environment damage)
	Damage   float64
}

// Interceptor decides whether an incoming hit is dodged or reflected.
// Order is fixed: Tidal dodge first, Mirror reflect only if the dodge missed.
type Interceptor struct {
	table Table
	bank  *Bank
	rnd   Rand
}

// NewInterceptor creates an interceptor drawing from rnd.
func NewInterceptor(t Table, bank *Bank, rnd Rand) *Interceptor {
	return &Interceptor{table: t, bank: bank, rnd: rnd}
}

// OnIncomingHit returns at most one interception per hit.
// A reflected hit comes back as a damage intent against the attacker.
func (i *Interceptor) OnIncomingHit(h Hurt, owner Owner) (Decision, []Effect) {
	active := i.bank.Active()

	if active.Has(CoreTidal) && i.roll(CoreTidal) {
		return Absorbed, []Effect{{
			Kind:      EffectDodge,
			Source:    CoreTidal,
			TargetID:  owner.ObjectID(),
			Position:  owner.Location(),
			Magnitude: h.Damage,
		}}
	}

	if active.Has(CoreMirror) && i.roll(CoreMirror) {
		effects := []Effect{{
			Kind:      EffectReflect,
			Source:    CoreMirror,
			TargetID:  owner.ObjectID(),
			Position:  owner.Location(),
			Magnitude: h.Damage,
		}}
		if alive(h.Attacker) && h.Damage > 0 {
			effects = append(effects, Effect{
				Kind:      EffectDamage,
				Source:    CoreMirror,
				TargetID:  h.Attacker.ObjectID(),
				Position:  h.Attacker.Location(),
				Magnitude: h.Damage,
				Proc:      true,
			})
		}
		return Reflected, effects
	}

	return Unaffected, nil
}

// roll draws once: success if draw < chance * multiplier.
func (i *Interceptor) roll(c CoreType) bool {
	chance := i.table.Params(c).Chance * i.bank.MultiplierOf(c)
	if chance <= 0 {
		return false
	}
	return i.rnd.Float64() < chance
}
