package ai

import "github.com/udisondev/corebank/internal/model"

// Ticker is anything advanced once per frame by TickManager.
type Ticker interface {
	Tick(frame uint64)
}

// Controller represents AI controller interface for monsters
type Controller interface {
	Ticker

	// Start starts AI controller
	Start()

	// Stop stops AI controller
	Stop()

	// CurrentIntention returns current AI intention
	CurrentIntention() model.Intention

	// NotifyDamage is called when a player hits the monster
	NotifyDamage(attackerID uint32, damage int32)

	// Slow stretches the attack interval for the next frames
	Slow(frames int32)
}

// TickerFunc adapts a plain function to Ticker.
type TickerFunc func(frame uint64)

// Tick calls f(frame).
func (f TickerFunc) Tick(frame uint64) { f(frame) }
