package model

// Target is anything a core effect can be aimed at.
// *Monster and *Player implement it.
type Target interface {
	ObjectID() uint32
	Location() Location
	CurrentHP() int32
}
