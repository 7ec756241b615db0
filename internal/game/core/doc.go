// Package core implements equippable cores: three slots, each granting a
// passive combat module, a tier weapon bonus and an enhancement level 0..5
// that outlives unequip/re-equip.
//
// Flow:
//  1. Bank holds the transient slot state; UpgradeStore holds the persistent
//     ledger keyed by core item type. Only equip/unequip/enhance write them.
//  2. Scheduler and MarkQueue advance once per frame (State.Tick).
//  3. Dispatcher and Interceptor react to hits produced by the combat pipeline.
//
// Every reaction is returned as an Effect intent; applying damage/heal and
// rendering are left to the caller and the Presenter.
package core
