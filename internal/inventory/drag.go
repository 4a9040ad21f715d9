package inventory

import (
	"context"
	"sync"
)

// Session tracks one drag gesture at a time and turns its end into a
// [Store.Move]. It is Idle until Start finds an item and goes back to Idle on
// every End or Cancel.
type Session struct {
	store *Store

	mu       sync.Mutex
	active   *Item
	activeID string
}

// NewSession returns an idle session over store.
func NewSession(store *Store) *Session {
	return &Session{store: store}
}

// Start begins dragging the item with id activeID, searching the backpack and
// then the chest. It reports whether an item was found; if not the session
// stays idle.
func (s *Session) Start(activeID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ref, ok := s.store.Locate(activeID)
	if !ok {
		s.active, s.activeID = nil, ""

		return false
	}

	item, err := s.store.Get(ref)
	if err != nil || item == nil {
		s.active, s.activeID = nil, ""

		return false
	}

	s.active, s.activeID = item, activeID

	return true
}

// Dragging returns the item being dragged, if any.
func (s *Session) Dragging() (*Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return cloneItem(s.active), s.active != nil
}

// Cancel abandons the gesture.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active, s.activeID = nil, ""
}

// End finishes the gesture for activeID dropped on overID. An empty overID
// means the item was released outside every slot. Unrecognised or malformed
// slot ids cancel the drop; they are not errors.
func (s *Session) End(ctx context.Context, activeID, overID string) (Outcome, error) {
	s.Cancel()

	if overID == "" {
		return cancelled(CancelNoTarget), nil
	}

	target, err := ParseSlotID(overID)
	if err != nil {
		return cancelled(CancelBadTarget), nil //nolint:nilerr // bad targets are silent cancels
	}

	return s.store.Move(ctx, activeID, target)
}
