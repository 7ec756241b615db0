package core

import "github.com/udisondev/corebank/internal/config"

// MaxEnhanceLevel is the highest enhancement level a core can reach.
const MaxEnhanceLevel int32 = 5

// levelStep is the multiplier gained per enhancement level (+20%).
const levelStep = 0.2

// Params holds the base numbers of one module.
type Params struct {
	Damage   float64
	Heal     float64
	Regen    float64
	Percent  float64
	Chance   float64
	Radius   int32
	Period   int32
	Cooldown int32
	Delay    int32
	Duration int32
}

// Table is the per-session tuning of all modules.
// It is built once from config and passed to NewState; nothing mutates it afterwards.
type Table struct {
	TierBonus     float64
	UpgradeItemID int32

	params [coreTypeCount + 1]Params
}

// NewTable builds a Table from config.
func NewTable(cfg config.Cores) Table {
	t := Table{
		TierBonus:     cfg.TierBonus,
		UpgradeItemID: cfg.UpgradeItemID,
	}
	t.params[CoreEmber] = paramsFromConfig(cfg.Ember)
	t.params[CoreVerdant] = paramsFromConfig(cfg.Verdant)
	t.params[CoreTidal] = paramsFromConfig(cfg.Tidal)
	t.params[CoreStorm] = paramsFromConfig(cfg.Storm)
	t.params[CoreMirror] = paramsFromConfig(cfg.Mirror)
	t.params[CoreCosmic] = paramsFromConfig(cfg.Cosmic)
	return t
}

// DefaultTable returns the stock tuning.
func DefaultTable() Table {
	return NewTable(config.DefaultCores())
}

// Params returns base numbers of core c (zero Params for CoreNone).
func (t Table) Params(c CoreType) Params {
	if !c.Valid() {
		return Params{}
	}
	return t.params[c]
}

// Bonus returns the flat weapon damage bonus of c at level 0.
func (t Table) Bonus(c CoreType) float64 {
	return float64(c.Tier()) * t.TierBonus
}

// Multiplier converts an enhancement level into an effect multiplier:
// 1.0 at level 0, 2.0 at level 5.
func Multiplier(level int32) float64 {
	level = clampLevel(level)
	return 1.0 + float64(level)*levelStep
}

func clampLevel(level int32) int32 {
	if level < 0 {
		return 0
	}
	if level > MaxEnhanceLevel {
		return MaxEnhanceLevel
	}
	return level
}

func paramsFromConfig(p config.CoreParams) Params {
	return Params{
		Damage:   p.Damage,
		Heal:     p.Heal,
		Regen:    p.Regen,
		Percent:  p.Percent,
		Chance:   p.Chance,
		Radius:   p.Radius,
		Period:   p.Period,
		Cooldown: p.Cooldown,
		Delay:    p.Delay,
		Duration: p.Duration,
	}
}
