package inventory

import (
	"context"
	"fmt"
	"sync"
)

// Store owns both containers and the filter. It is the only writer of either
// and persists after every successful mutation. A mutation that fails to
// persist leaves the in-memory state untouched.
//
// Store is safe for concurrent use; every method runs under one mutex so
// mutations never interleave.
type Store struct {
	mu       sync.Mutex
	storage  Storage
	backpack Container
	chest    Container
	filter   Filter
	report   LoadReport
}

// Open loads state from storage, falling back to defaults per key.
func Open(ctx context.Context, storage Storage) (*Store, error) {
	if storage == nil {
		return nil, ErrStorageNil
	}

	snap, report, err := loadSnapshot(ctx, storage)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	return &Store{
		storage:  storage,
		backpack: snap.backpack,
		chest:    snap.chest,
		filter:   snap.filter,
		report:   report,
	}, nil
}

// Report returns how the initial state was loaded.
func (s *Store) Report() LoadReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.report
}

// Backpack returns a copy of the backpack.
func (s *Store) Backpack() Container {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.backpack.Clone()
}

// Chest returns a copy of the chest.
func (s *Store) Chest() Container {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.chest.Clone()
}

// Filter returns the current filter.
func (s *Store) Filter() Filter {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.filter
}

// Get returns a copy of the item at ref, or nil for an empty slot.
func (s *Store) Get(ref SlotRef) (*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := pick(ref.Container, &s.backpack, &s.chest)
	if err != nil {
		return nil, err
	}

	return c.Get(ref.Index)
}

// Locate finds the slot holding id, searching the backpack first and then the
// chest. Within a container the first match wins.
func (s *Store) Locate(id string) (SlotRef, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return locate(id, s.backpack, s.chest)
}

func locate(id string, backpack, chest Container) (SlotRef, bool) {
	if id == "" {
		return SlotRef{}, false
	}

	if i := backpack.IndexOf(id); i >= 0 {
		return BackpackSlot(i), true
	}

	if i := chest.IndexOf(id); i >= 0 {
		return ChestSlot(i), true
	}

	return SlotRef{}, false
}

// Place writes item into the slot at ref, replacing any occupant. It fails
// with [ErrDuplicateID] if the id already lives in a different slot.
func (s *Store) Place(ctx context.Context, ref SlotRef, item Item) error {
	err := item.Validate()
	if err != nil {
		return err
	}

	return s.update(ctx, func(backpack, chest *Container) error {
		c, err := pick(ref.Container, backpack, chest)
		if err != nil {
			return err
		}

		return c.Set(ref.Index, &item)
	})
}

// Clear empties the slot at ref.
func (s *Store) Clear(ctx context.Context, ref SlotRef) error {
	return s.update(ctx, func(backpack, chest *Container) error {
		c, err := pick(ref.Container, backpack, chest)
		if err != nil {
			return err
		}

		return c.Clear(ref.Index)
	})
}

// SetCategoryFilter selects a category, or [AnyCategory].
func (s *Store) SetCategoryFilter(ctx context.Context, c Category) error {
	if c != AnyCategory && !c.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, c)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.storage.Put(ctx, map[string]string{KeyCategory: string(c)})
	if err != nil {
		return fmt.Errorf("save category filter: %w", err)
	}

	s.filter.Category = c

	return nil
}

// SetRarityFilter selects a rarity, or [AnyRarity].
func (s *Store) SetRarityFilter(ctx context.Context, r Rarity) error {
	if r != AnyRarity && !r.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRarity, r)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.storage.Put(ctx, map[string]string{KeyRarity: string(r)})
	if err != nil {
		return fmt.Errorf("save rarity filter: %w", err)
	}

	s.filter.Rarity = r

	return nil
}

// Reset deletes every persisted key and goes back to the default dataset.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.storage.Delete(ctx, Keys()...)
	if err != nil {
		return fmt.Errorf("reset: %w", err)
	}

	snap := defaultSnapshot()
	s.backpack, s.chest, s.filter = snap.backpack, snap.chest, snap.filter
	s.report = LoadReport{Status: LoadFresh, Missing: Keys()}

	return nil
}

// View is a read-only rendering of the store for front ends.
type View struct {
	Backpack []ViewSlot `json:"backpack"`
	Chest    []ViewSlot `json:"chest"`
	Filter   Filter     `json:"filter"`
}

// View returns the backpack and the filtered chest. With unfiltered set the
// chest lists every slot regardless of the filter.
func (s *Store) View(unfiltered bool) View {
	s.mu.Lock()
	defer s.mu.Unlock()

	chest := s.filter.Apply(Chest, s.chest)
	if unfiltered {
		chest = viewAll(Chest, s.chest)
	}

	return View{
		Backpack: viewAll(Backpack, s.backpack),
		Chest:    chest,
		Filter:   s.filter,
	}
}

// update runs fn against working copies of both containers and commits them
// only if the result keeps ids unique and both containers persist.
func (s *Store) update(ctx context.Context, fn func(backpack, chest *Container) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.updateLocked(ctx, fn)
}

func (s *Store) updateLocked(ctx context.Context, fn func(backpack, chest *Container) error) error {
	backpack, chest := s.backpack.Clone(), s.chest.Clone()

	err := fn(&backpack, &chest)
	if err != nil {
		return err
	}

	if id := findDuplicateID(backpack, chest); id != "" {
		return fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}

	encodedBackpack, err := encodeContainer(backpack)
	if err != nil {
		return err
	}

	encodedChest, err := encodeContainer(chest)
	if err != nil {
		return err
	}

	err = s.storage.Put(ctx, map[string]string{
		KeyBackpack: encodedBackpack,
		KeyChest:    encodedChest,
	})
	if err != nil {
		return fmt.Errorf("save containers: %w", err)
	}

	s.backpack, s.chest = backpack, chest

	return nil
}

func pick(id ContainerID, backpack, chest *Container) (*Container, error) {
	switch id {
	case Backpack:
		return backpack, nil
	case Chest:
		return chest, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownContainer, int(id))
	}
}
