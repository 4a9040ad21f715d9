package inventory

import (
	"fmt"
	"strconv"
	"strings"
)

// Slot id prefixes shared with the presentation layer.
const (
	BackpackSlotPrefix = "backpack-slot-"
	ChestSlotPrefix    = "storage-chest-slot-"
)

// SlotRef addresses one slot by container and true index.
type SlotRef struct {
	Container ContainerID
	Index     int
}

// BackpackSlot returns a reference to backpack slot i.
func BackpackSlot(i int) SlotRef { return SlotRef{Container: Backpack, Index: i} }

// ChestSlot returns a reference to chest slot i.
func ChestSlot(i int) SlotRef { return SlotRef{Container: Chest, Index: i} }

// String renders the slot id understood by [ParseSlotID].
func (r SlotRef) String() string {
	switch r.Container {
	case Backpack:
		return BackpackSlotPrefix + strconv.Itoa(r.Index)
	case Chest:
		return ChestSlotPrefix + strconv.Itoa(r.Index)
	default:
		return fmt.Sprintf("%s-slot-%d", r.Container, r.Index)
	}
}

// InRange reports whether the index fits the container's capacity.
func (r SlotRef) InRange() bool {
	return r.Index >= 0 && r.Index < r.Container.Capacity()
}

// ParseSlotID decodes "backpack-slot-<N>" or "storage-chest-slot-<N>".
// N is base 10, non-negative, and may carry leading zeros. The index is not
// checked against capacity; use [SlotRef.InRange] for that.
func ParseSlotID(id string) (SlotRef, error) {
	var (
		container ContainerID
		suffix    string
	)

	if rest, ok := strings.CutPrefix(id, BackpackSlotPrefix); ok {
		container, suffix = Backpack, rest
	} else if rest, ok := strings.CutPrefix(id, ChestSlotPrefix); ok {
		container, suffix = Chest, rest
	} else {
		return SlotRef{}, fmt.Errorf("%w: %q", ErrUnknownSlot, id)
	}

	// ParseUint rejects signs, so "-1" and "+1" both fail here.
	n, err := strconv.ParseUint(suffix, 10, 31)
	if err != nil {
		return SlotRef{}, fmt.Errorf("%w: %q", ErrInvalidSlotIndex, id)
	}

	return SlotRef{Container: container, Index: int(n)}, nil
}
