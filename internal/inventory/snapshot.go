package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Persisted keys. Each is stored independently.
const (
	KeyBackpack = "backpackItems"
	KeyChest    = "chestItems"
	KeyCategory = "selectedCategory"
	KeyRarity   = "selectedRarity"
)

// Keys returns every persisted key.
func Keys() []string {
	return []string{KeyBackpack, KeyChest, KeyCategory, KeyRarity}
}

// Storage is the durable key-value medium behind a [Store].
type Storage interface {
	// Get returns the value stored under key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Put writes all entries as one unit. On error none of them is visible.
	Put(ctx context.Context, entries map[string]string) error

	// Delete removes keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}

// LoadStatus says where the store's initial state came from.
type LoadStatus int

const (
	// LoadFresh means nothing was saved; defaults are in use.
	LoadFresh LoadStatus = iota
	// LoadRestored means saved state was read back.
	LoadRestored
	// LoadRecovered means at least one saved entry could not be decoded and
	// was replaced by its default.
	LoadRecovered
)

func (s LoadStatus) String() string {
	switch s {
	case LoadFresh:
		return "fresh"
	case LoadRestored:
		return "restored"
	case LoadRecovered:
		return "recovered"
	default:
		return fmt.Sprintf("LoadStatus(%d)", int(s))
	}
}

// LoadReport describes how [Open] built the initial state.
type LoadReport struct {
	Status  LoadStatus
	Missing []string // keys absent from storage
	Corrupt []string // keys that failed to decode
}

type snapshot struct {
	backpack Container
	chest    Container
	filter   Filter
}

func defaultSnapshot() snapshot {
	return snapshot{
		backpack: DefaultBackpack(),
		chest:    DefaultChest(),
		filter:   DefaultFilter(),
	}
}

// loadSnapshot reads all four keys. Storage errors are returned; decode errors
// fall back to the key's default and are recorded in the report.
func loadSnapshot(ctx context.Context, storage Storage) (snapshot, LoadReport, error) {
	snap := defaultSnapshot()

	var report LoadReport

	raw := make(map[string]string, 4)

	for _, key := range Keys() {
		value, ok, err := storage.Get(ctx, key)
		if err != nil {
			return snapshot{}, LoadReport{}, fmt.Errorf("load %s: %w", key, err)
		}

		if !ok {
			report.Missing = append(report.Missing, key)

			continue
		}

		raw[key] = value
	}

	if value, ok := raw[KeyBackpack]; ok {
		c, err := decodeContainer(value, BackpackCapacity)
		if err != nil {
			report.Corrupt = append(report.Corrupt, KeyBackpack)
		} else {
			snap.backpack = c
		}
	}

	if value, ok := raw[KeyChest]; ok {
		c, err := decodeContainer(value, ChestCapacity)
		if err != nil {
			report.Corrupt = append(report.Corrupt, KeyChest)
		} else {
			snap.chest = c
		}
	}

	// Each container can be valid alone and still collide with the other, or
	// with the default that replaced a corrupt one. Both go back to defaults.
	if findDuplicateID(snap.backpack, snap.chest) != "" {
		snap.backpack, snap.chest = DefaultBackpack(), DefaultChest()

		for _, key := range []string{KeyBackpack, KeyChest} {
			if !containsKey(report.Corrupt, key) {
				report.Corrupt = append(report.Corrupt, key)
			}
		}
	}

	if value, ok := raw[KeyCategory]; ok {
		c, err := ParseCategorySelector(value)
		if err != nil {
			report.Corrupt = append(report.Corrupt, KeyCategory)
		} else {
			snap.filter.Category = c
		}
	}

	if value, ok := raw[KeyRarity]; ok {
		r, err := ParseRaritySelector(value)
		if err != nil {
			report.Corrupt = append(report.Corrupt, KeyRarity)
		} else {
			snap.filter.Rarity = r
		}
	}

	switch {
	case len(report.Corrupt) > 0:
		report.Status = LoadRecovered
	case len(report.Missing) == len(Keys()):
		report.Status = LoadFresh
	default:
		report.Status = LoadRestored
	}

	return snap, report, nil
}

func containsKey(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}

	return false
}

// encodeContainer renders a container as a JSON array of item-or-null.
func encodeContainer(c Container) (string, error) {
	data, err := json.Marshal(c.slots)
	if err != nil {
		return "", fmt.Errorf("encode container: %w", err)
	}

	return string(data), nil
}

// decodeContainer parses a JSON array of item-or-null. The array must have
// exactly capacity entries and every item must validate.
func decodeContainer(raw string, capacity int) (Container, error) {
	var slots []*Item

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()

	err := dec.Decode(&slots)
	if err != nil {
		return Container{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	if slots == nil || len(slots) != capacity {
		return Container{}, fmt.Errorf("%w: %w: got %d, want %d", ErrCorrupt, ErrCapacity, len(slots), capacity)
	}

	seen := make(map[string]bool, capacity)

	for _, it := range slots {
		if it == nil {
			continue
		}

		err := it.Validate()
		if err != nil {
			return Container{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}

		if seen[it.ID] {
			return Container{}, fmt.Errorf("%w: %w: %s", ErrCorrupt, ErrDuplicateID, it.ID)
		}

		seen[it.ID] = true
	}

	return Container{slots: slots}, nil
}

// findDuplicateID returns the first id that occurs in more than one slot across
// the given containers, or "".
func findDuplicateID(containers ...Container) string {
	seen := make(map[string]bool)

	for _, c := range containers {
		for _, it := range c.slots {
			if it == nil {
				continue
			}

			if seen[it.ID] {
				return it.ID
			}

			seen[it.ID] = true
		}
	}

	return ""
}
