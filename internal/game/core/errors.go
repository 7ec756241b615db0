package core

import "errors"

// Errors returned by slot operations. All of them leave state untouched.
var (
	ErrInvalidSlot          = errors.New("invalid core slot")
	ErrSlotLocked           = errors.New("core slot is locked")
	ErrInvalidCore          = errors.New("unknown core type")
	ErrAlreadyEquipped      = errors.New("core already equipped in another slot")
	ErrNoCoreEquipped       = errors.New("no core equipped in slot")
	ErrAlreadyMaxed         = errors.New("core enhancement already at max level")
	ErrInsufficientCurrency = errors.New("not enough upgrade material")
)
