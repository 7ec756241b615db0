package core

import "github.com/udisondev/corebank/internal/model"

// World answers spatial queries about hostile targets.
// HostilesInRange must return targets in a stable order.
type World interface {
	Target(objectID uint32) (model.Target, bool)
	HostilesInRange(center model.Location, radius int32) []model.Target
}

// Owner is the player the cores are attached to.
type Owner interface {
	ObjectID() uint32
	Location() model.Location
}

// Inventory is the external holder of upgrade material.
type Inventory interface {
	Count(itemID int32) int64
	Consume(itemID int32, count int64) bool
}

// Rand is the random source of reactive checks. *rand.Rand from math/rand/v2 implements it.
type Rand interface {
	Float64() float64
}

func alive(t model.Target) bool {
	return t != nil && t.CurrentHP() > 0
}
