package inventory

import "fmt"

// Fixed container capacities.
const (
	BackpackCapacity = 3
	ChestCapacity    = 10
)

// ContainerID names one of the two containers.
type ContainerID int

// Containers. The zero value is deliberately invalid.
const (
	Backpack ContainerID = iota + 1
	Chest
)

// String returns the short container name used in messages.
func (id ContainerID) String() string {
	switch id {
	case Backpack:
		return "backpack"
	case Chest:
		return "chest"
	default:
		return fmt.Sprintf("container(%d)", int(id))
	}
}

// Capacity returns the fixed slot count of the container, or 0 if id is unknown.
func (id ContainerID) Capacity() int {
	switch id {
	case Backpack:
		return BackpackCapacity
	case Chest:
		return ChestCapacity
	default:
		return 0
	}
}

// Container is a fixed-length sequence of slots. A nil slot is empty.
// Clearing a slot leaves a hole; nothing is ever compacted.
//
// Get and Slots hand out copies, so items read from a container cannot be
// used to edit it.
type Container struct {
	slots []*Item
}

// NewContainer returns an all-empty container with the given capacity.
func NewContainer(capacity int) Container {
	return Container{slots: make([]*Item, capacity)}
}

// ContainerOf builds a container from slots. The slice length is the capacity.
func ContainerOf(slots ...*Item) Container {
	c := Container{slots: make([]*Item, len(slots))}
	for i, it := range slots {
		c.slots[i] = cloneItem(it)
	}

	return c
}

// Len returns the capacity.
func (c Container) Len() int {
	return len(c.slots)
}

// Get returns a copy of the item at index, or nil for an empty slot.
func (c Container) Get(index int) (*Item, error) {
	if index < 0 || index >= len(c.slots) {
		return nil, fmt.Errorf("%w: %d (capacity %d)", ErrOutOfRange, index, len(c.slots))
	}

	return cloneItem(c.slots[index]), nil
}

// Set writes item at index. A nil item clears the slot.
func (c *Container) Set(index int, item *Item) error {
	if index < 0 || index >= len(c.slots) {
		return fmt.Errorf("%w: %d (capacity %d)", ErrOutOfRange, index, len(c.slots))
	}

	c.slots[index] = cloneItem(item)

	return nil
}

// Clear empties the slot at index.
func (c *Container) Clear(index int) error {
	return c.Set(index, nil)
}

// IndexOf returns the index of the first slot holding id, or -1.
func (c Container) IndexOf(id string) int {
	for i, it := range c.slots {
		if it != nil && it.ID == id {
			return i
		}
	}

	return -1
}

// Slots returns a copy of every slot.
func (c Container) Slots() []*Item {
	out := make([]*Item, len(c.slots))
	for i, it := range c.slots {
		out[i] = cloneItem(it)
	}

	return out
}

// Items returns the non-empty slots in order.
func (c Container) Items() []Item {
	var out []Item

	for _, it := range c.slots {
		if it != nil {
			out = append(out, *it)
		}
	}

	return out
}

// Clone returns an independent copy.
func (c Container) Clone() Container {
	return ContainerOf(c.slots...)
}

// Equal reports whether both containers hold the same items in the same slots.
func (c Container) Equal(other Container) bool {
	if len(c.slots) != len(other.slots) {
		return false
	}

	for i := range c.slots {
		a, b := c.slots[i], other.slots[i]
		if (a == nil) != (b == nil) {
			return false
		}

		if a != nil && *a != *b {
			return false
		}
	}

	return true
}
