package combat

import (
	"errors"
	"fmt"

	"github.com/udisondev/corebank/internal/model"
)

// MaxAttackRange is the maximum weapon attack range (units).
const MaxAttackRange = 600

var (
	ErrAttackerDead   = errors.New("attacker is dead")
	ErrTargetNotFound = errors.New("target not found")
	ErrTargetDead     = errors.New("target is dead")
	ErrOutOfRange     = errors.New("target out of attack range")
)

// ValidateAttack validates an attack request before any damage is dealt.
//
// Checks:
//   - Attacker alive
//   - Target alive
//   - Target in attack range
func ValidateAttack(attacker *model.Player, target *model.Monster) error {
	if attacker.IsDead() {
		return ErrAttackerDead
	}
	if target.IsDead() {
		return fmt.Errorf("attack %d: %w", target.ObjectID(), ErrTargetDead)
	}
	if !IsInAttackRange(attacker.Location(), target.Location()) {
		return fmt.Errorf("attack %d: %w", target.ObjectID(), ErrOutOfRange)
	}
	return nil
}

// IsInAttackRange reports whether to is within MaxAttackRange of from.
func IsInAttackRange(from, to model.Location) bool {
	return from.InRange(to, MaxAttackRange)
}
