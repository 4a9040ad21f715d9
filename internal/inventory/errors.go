package inventory

import "errors"

// Error variables for inventory operations.
var (
	ErrOutOfRange       = errors.New("slot index out of range")
	ErrUnknownSlot      = errors.New("unknown slot id")
	ErrInvalidSlotIndex = errors.New("invalid slot index")
	ErrUnknownContainer = errors.New("unknown container")
	ErrItemIDEmpty      = errors.New("item id is empty")
	ErrItemNotFound     = errors.New("item not found")
	ErrDuplicateID      = errors.New("item id already in another slot")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidRarity    = errors.New("invalid rarity")
	ErrCorrupt          = errors.New("saved data is corrupt")
	ErrCapacity         = errors.New("container length does not match capacity")
	ErrStorageNil       = errors.New("storage is nil")
)
