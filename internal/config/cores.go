package config

// CoreParams holds base numbers of one core module.
// Unused fields stay zero.
type CoreParams struct {
	Damage   float64 `yaml:"damage"`
	Heal     float64 `yaml:"heal"`
	Regen    float64 `yaml:"regen"`
	Percent  float64 `yaml:"percent"`
	Chance   float64 `yaml:"chance"`
	Radius   int32   `yaml:"radius"`
	Period   int32   `yaml:"period"`   // frames
	Cooldown int32   `yaml:"cooldown"` // frames
	Delay    int32   `yaml:"delay"`    // frames
	Duration int32   `yaml:"duration"` // frames
}

// Cores holds tuning of all core modules.
type Cores struct {
	TierBonus     float64 `yaml:"tier_bonus"`      // flat weapon damage per tier
	UpgradeItemID int32   `yaml:"upgrade_item_id"` // material consumed by enhance

	Ember   CoreParams `yaml:"ember"`
	Verdant CoreParams `yaml:"verdant"`
	Tidal   CoreParams `yaml:"tidal"`
	Storm   CoreParams `yaml:"storm"`
	Mirror  CoreParams `yaml:"mirror"`
	Cosmic  CoreParams `yaml:"cosmic"`
}

// DefaultCores returns the stock core tuning.
func DefaultCores() Cores {
	return Cores{
		TierBonus:     2,
		UpgradeItemID: 9100,
		Ember:         CoreParams{Damage: 12, Radius: 200, Period: 60},
		Verdant:       CoreParams{Heal: 15, Regen: 3, Period: 40},
		Tidal:         CoreParams{Chance: 0.10},
		Storm:         CoreParams{Damage: 30, Radius: 480, Period: 20, Cooldown: 45},
		Mirror:        CoreParams{Chance: 0.12, Percent: 0.25, Cooldown: 30},
		Cosmic:        CoreParams{Percent: 0.5, Delay: 60, Radius: 160, Period: 30, Duration: 90},
	}
}
