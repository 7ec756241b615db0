package ai

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/udisondev/corebank/internal/model"
)

// AttackFunc executes a monster hit on a player.
// Injected by the game server to avoid an import cycle with combat.
type AttackFunc func(monster *model.Monster, targetID uint32)

// LocateFunc looks up a player by object ID.
type LocateFunc func(objectID uint32) (model.Target, bool)

const (
	attackRange    = 300 // monsters do not move; targets beyond this are forgotten
	attackInterval = 90  // frames between hits
	slowFactor     = 2   // interval multiplier while slowed
)

// RetaliationAI makes a stationary monster strike back at whoever hit it last.
// IDLE → ATTACK on damage; back to IDLE when the target dies, leaves range or logs out.
type RetaliationAI struct {
	monster *model.Monster
	running atomic.Bool

	mu        sync.Mutex
	intention model.Intention
	targetID  uint32
	counter   int32
	slowLeft  int32

	attackFunc AttackFunc
	locateFunc LocateFunc
}

// NewRetaliationAI creates a controller for monster.
func NewRetaliationAI(monster *model.Monster, attackFunc AttackFunc, locateFunc LocateFunc) *RetaliationAI {
	return &RetaliationAI{
		monster:    monster,
		attackFunc: attackFunc,
		locateFunc: locateFunc,
	}
}

// Start starts the AI controller.
func (ai *RetaliationAI) Start() {
	ai.running.Store(true)
	ai.setIdle()
}

// Stop stops the AI controller.
func (ai *RetaliationAI) Stop() {
	ai.running.Store(false)
	ai.setIdle()
}

// CurrentIntention returns current AI intention
func (ai *RetaliationAI) CurrentIntention() model.Intention {
	ai.mu.Lock()
	defer ai.mu.Unlock()
	return ai.intention
}

// TargetID returns the player being attacked (0 when idle).
func (ai *RetaliationAI) TargetID() uint32 {
	ai.mu.Lock()
	defer ai.mu.Unlock()
	return ai.targetID
}

// NotifyDamage switches to ATTACK against attackerID.
func (ai *RetaliationAI) NotifyDamage(attackerID uint32, damage int32) {
	if !ai.running.Load() || damage <= 0 || ai.monster.IsDead() {
		return
	}

	ai.mu.Lock()
	defer ai.mu.Unlock()
	if ai.intention == model.IntentionAttack && ai.targetID == attackerID {
		return
	}
	ai.intention = model.IntentionAttack
	ai.targetID = attackerID
	ai.counter = 0

	if IsDebugEnabled() {
		slog.Debug("monster retaliates",
			"npc", ai.monster.Name(),
			"objectID", ai.monster.ObjectID(),
			"target", attackerID)
	}
}

// Slow doubles the attack interval for frames ticks. Overlapping slows keep the longer one.
func (ai *RetaliationAI) Slow(frames int32) {
	ai.mu.Lock()
	ai.slowLeft = max(ai.slowLeft, frames)
	ai.mu.Unlock()
}

// Slowed reports whether a slow is active.
func (ai *RetaliationAI) Slowed() bool {
	ai.mu.Lock()
	defer ai.mu.Unlock()
	return ai.slowLeft > 0
}

// Tick advances one frame. The attack callback runs without holding the lock:
// a reflected hit may call NotifyDamage on this controller.
func (ai *RetaliationAI) Tick(uint64) {
	if !ai.running.Load() {
		return
	}
	if ai.monster.IsDead() {
		ai.setIdle()
		return
	}

	ai.mu.Lock()
	interval := int32(attackInterval)
	if ai.slowLeft > 0 {
		ai.slowLeft--
		interval *= slowFactor
	}
	if ai.intention != model.IntentionAttack {
		ai.mu.Unlock()
		return
	}
	targetID := ai.targetID
	ai.mu.Unlock()

	target, ok := ai.locateFunc(targetID)
	if !ok || target.CurrentHP() <= 0 || !target.Location().InRange(ai.monster.Location(), attackRange) {
		ai.setIdle()
		return
	}

	ai.mu.Lock()
	ai.counter++
	fire := ai.counter >= interval
	if fire {
		ai.counter = 0
	}
	ai.mu.Unlock()

	if fire && ai.attackFunc != nil {
		ai.attackFunc(ai.monster, targetID)
	}
}

func (ai *RetaliationAI) setIdle() {
	ai.mu.Lock()
	ai.intention = model.IntentionIdle
	ai.targetID = 0
	ai.counter = 0
	ai.mu.Unlock()
}
