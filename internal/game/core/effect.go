package core

import "github.com/udisondev/corebank/internal/model"

// EffectKind is the type of an effect intent.
type EffectKind uint8

const (
	EffectDamage     EffectKind = iota + 1 // damage TargetID
	EffectHeal                             // heal TargetID (the owner)
	EffectDebuff                           // slow TargetID for Duration frames
	EffectMark                             // cosmetic: a mark was placed on TargetID
	EffectMarkFizzle                       // cosmetic: a mark expired with no target left
	EffectDodge                            // cosmetic: an incoming hit was absorbed
	EffectReflect                          // cosmetic: an incoming hit was reflected
)

var effectKindNames = [...]string{
	EffectDamage:     "damage",
	EffectHeal:       "heal",
	EffectDebuff:     "debuff",
	EffectMark:       "mark",
	EffectMarkFizzle: "mark_fizzle",
	EffectDodge:      "dodge",
	EffectReflect:    "reflect",
}

func (k EffectKind) String() string {
	if int(k) < len(effectKindNames) && effectKindNames[k] != "" {
		return effectKindNames[k]
	}
	return "unknown"
}

// Effect is an intent produced by a module.
// The core never applies it; the combat pipeline applies damage/heal and the
// Presenter renders it.
type Effect struct {
	Kind      EffectKind
	Source    CoreType
	TargetID  uint32 // 0 when the effect has no target
	Position  model.Location
	Magnitude float64
	Duration  int32 // frames, debuffs only
	Color     Color

	// Proc marks damage produced by a core; the combat pipeline must not feed
	// it back into OnOutgoingHit.
	Proc bool
}

// IsHarmful reports whether the effect changes a target's HP downwards.
func (e Effect) IsHarmful() bool {
	return e.Kind == EffectDamage && e.TargetID != 0 && e.Magnitude > 0
}
