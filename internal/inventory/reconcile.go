package inventory

import (
	"context"
	"fmt"
)

// OutcomeKind classifies the result of a drop.
type OutcomeKind int

const (
	// Cancelled means nothing changed.
	Cancelled OutcomeKind = iota
	// Moved means the item went to an empty slot and its old slot is now empty.
	Moved
	// Swapped means the item and the target's occupant traded places.
	Swapped
	// Returned means the item was dropped on its own slot.
	Returned
)

func (k OutcomeKind) String() string {
	switch k {
	case Cancelled:
		return "cancelled"
	case Moved:
		return "moved"
	case Swapped:
		return "swapped"
	case Returned:
		return "returned"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// CancelReason says why a drop changed nothing. Cancels are not errors.
type CancelReason int

// Cancel reasons.
const (
	CancelNone CancelReason = iota
	CancelNoTarget
	CancelBadTarget
	CancelOutOfRange
	CancelUnknownItem
)

func (r CancelReason) String() string {
	switch r {
	case CancelNone:
		return ""
	case CancelNoTarget:
		return "no drop target"
	case CancelBadTarget:
		return "unrecognised drop target"
	case CancelOutOfRange:
		return "drop target out of range"
	case CancelUnknownItem:
		return "dragged item not found"
	default:
		return fmt.Sprintf("CancelReason(%d)", int(r))
	}
}

// Outcome describes what a drop did.
type Outcome struct {
	Kind   OutcomeKind
	Reason CancelReason

	// Item is the dragged item; nil when the drop was cancelled before the
	// item was found.
	Item *Item
	From SlotRef
	To   SlotRef

	// Displaced is the target's previous occupant, now at From. Set for swaps.
	Displaced *Item
}

func cancelled(reason CancelReason) Outcome {
	return Outcome{Kind: Cancelled, Reason: reason}
}

// Changed reports whether the drop wrote anything.
func (o Outcome) Changed() bool {
	return o.Kind != Cancelled
}

func (o Outcome) String() string {
	switch o.Kind {
	case Moved:
		return fmt.Sprintf("Moved %s from %s to %s", o.Item.ID, o.From, o.To)
	case Swapped:
		return fmt.Sprintf("Swapped %s (%s -> %s) with %s (%s -> %s)",
			o.Item.ID, o.From, o.To, o.Displaced.ID, o.To, o.From)
	case Returned:
		return fmt.Sprintf("Returned %s to %s", o.Item.ID, o.To)
	default:
		return fmt.Sprintf("Cancelled (%s)", o.Reason)
	}
}

// Move drops the item with itemID onto target. The source is found by id:
// backpack first, then a linear scan of the chest.
//
// The dragged item is written to target. If target held another item, that
// item goes to the source slot; otherwise the source is cleared. Both writes
// are committed and persisted together, including for a drop onto the item's
// own slot, which leaves the state unchanged.
//
// An unknown item or an out-of-range target cancels the drop without writing.
// Only storage failures are returned as errors.
func (s *Store) Move(ctx context.Context, itemID string, target SlotRef) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !target.InRange() {
		return cancelled(CancelOutOfRange), nil
	}

	source, ok := locate(itemID, s.backpack, s.chest)
	if !ok {
		return cancelled(CancelUnknownItem), nil
	}

	var out Outcome

	err := s.updateLocked(ctx, func(backpack, chest *Container) error {
		src, err := pick(source.Container, backpack, chest)
		if err != nil {
			return err
		}

		dst, err := pick(target.Container, backpack, chest)
		if err != nil {
			return err
		}

		dragged, err := src.Get(source.Index)
		if err != nil {
			return err
		}

		occupant, err := dst.Get(target.Index)
		if err != nil {
			return err
		}

		err = dst.Set(target.Index, dragged)
		if err != nil {
			return err
		}

		if occupant != nil {
			err = src.Set(source.Index, occupant)
		} else {
			err = src.Clear(source.Index)
		}

		if err != nil {
			return err
		}

		out = Outcome{Kind: Moved, Item: dragged, From: source, To: target}

		switch {
		case source == target:
			out.Kind = Returned
		case occupant != nil:
			out.Kind = Swapped
			out.Displaced = occupant
		}

		return nil
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("move %s to %s: %w", itemID, target, err)
	}

	return out, nil
}
