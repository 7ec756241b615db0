package model

// Intention — состояние AI монстра.
type Intention int32

const (
	IntentionIdle   Intention = iota // стоит на точке спавна
	IntentionAttack                  // бьёт в ответ последнего обидчика
)

func (i Intention) String() string {
	switch i {
	case IntentionIdle:
		return "idle"
	case IntentionAttack:
		return "attack"
	}
	return "unknown"
}
