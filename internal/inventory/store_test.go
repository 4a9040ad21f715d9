package inventory_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yizune/Inventory-Manager/internal/inventory"
	"github.com/Yizune/Inventory-Manager/internal/kv"
)

func seed(t *testing.T, storage inventory.Storage, backpack, chest inventory.Container) {
	t.Helper()

	b, err := json.Marshal(backpack.Slots())
	require.NoError(t, err)

	c, err := json.Marshal(chest.Slots())
	require.NoError(t, err)

	err = storage.Put(context.Background(), map[string]string{
		inventory.KeyBackpack: string(b),
		inventory.KeyChest:    string(c),
	})
	require.NoError(t, err)
}

func TestOpenFreshUsesDefaults(t *testing.T) {
	t.Parallel()

	s := openStore(t, kv.NewMemory())

	assert.Equal(t, inventory.LoadFresh, s.Report().Status)
	requireSlots(t, []string{"item1", "", ""}, s.Backpack())
	requireSlots(t, []string{"item2", "item3", "item4", "", "", "", "", "", "", ""}, s.Chest())
	assert.Equal(t, inventory.DefaultFilter(), s.Filter())
}

func TestOpenRestoresSavedState(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	storage := kv.NewMemory()

	first := openStore(t, storage)
	_, err := first.Move(ctx, "item1", inventory.ChestSlot(5))
	require.NoError(t, err)
	require.NoError(t, first.SetCategoryFilter(ctx, inventory.CategoryAttack))
	require.NoError(t, first.SetRarityFilter(ctx, inventory.RarityCommon))

	second := openStore(t, storage)
	assert.Equal(t, inventory.LoadRestored, second.Report().Status)
	requireSlots(t, []string{"", "", ""}, second.Backpack())
	requireSlots(t, []string{"item2", "item3", "item4", "", "", "item1", "", "", "", ""}, second.Chest())
	assert.Equal(t, inventory.Filter{Category: inventory.CategoryAttack, Rarity: inventory.RarityCommon}, second.Filter())
}

func TestOpenRecoversFromCorruptEntries(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name        string
		entries     map[string]string
		wantCorrupt []string
	}{
		{
			name:        "not json",
			entries:     map[string]string{inventory.KeyBackpack: "{oops"},
			wantCorrupt: []string{inventory.KeyBackpack},
		},
		{
			name:        "wrong length",
			entries:     map[string]string{inventory.KeyChest: "[null,null]"},
			wantCorrupt: []string{inventory.KeyChest},
		},
		{
			name:        "bad category",
			entries:     map[string]string{inventory.KeyBackpack: `[{"id":"x","category":"Magic","rarity":"Rare"},null,null]`},
			wantCorrupt: []string{inventory.KeyBackpack},
		},
		{
			name: "id shared across containers",
			entries: map[string]string{
				inventory.KeyBackpack: `[{"id":"item2","name":"Shield","category":"Defense","rarity":"Uncommon"},null,null]`,
			},
			wantCorrupt: []string{inventory.KeyBackpack, inventory.KeyChest},
		},
		{
			name:        "bad selector",
			entries:     map[string]string{inventory.KeyRarity: "Legendary"},
			wantCorrupt: []string{inventory.KeyRarity},
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			storage := kv.NewMemory()
			require.NoError(t, storage.Put(context.Background(), tt.entries))

			s := openStore(t, storage)

			report := s.Report()
			assert.Equal(t, inventory.LoadRecovered, report.Status)
			assert.ElementsMatch(t, tt.wantCorrupt, report.Corrupt)
			if contains(tt.wantCorrupt, inventory.KeyBackpack) {
				assert.True(t, inventory.DefaultBackpack().Equal(s.Backpack()), "corrupt backpack falls back to default")
			}

			assert.Equal(t, inventory.DefaultFilter(), s.Filter())
		})
	}
}

func contains(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}

	return false
}

func TestPlaceRejectsDuplicateIDs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	storage := newFlaky()
	s := openStore(t, storage)

	sword, err := s.Get(inventory.BackpackSlot(0))
	require.NoError(t, err)

	err = s.Place(ctx, inventory.ChestSlot(9), *sword)
	require.ErrorIs(t, err, inventory.ErrDuplicateID)
	assert.Zero(t, storage.puts, "rejected mutation must not persist")

	requireSlots(t, []string{"item1", "", ""}, s.Backpack())

	err = s.Place(ctx, inventory.BackpackSlot(0), *sword)
	require.NoError(t, err, "rewriting an item onto its own slot is allowed")
}

func TestPlaceAndClearPersistEveryMutation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	storage := newFlaky()
	s := openStore(t, storage)

	require.NoError(t, s.Clear(ctx, inventory.ChestSlot(0)))
	require.NoError(t, s.Place(ctx, inventory.BackpackSlot(2), *item("gem", "Gem", inventory.CategoryOther, inventory.RarityRare)))
	assert.Equal(t, 2, storage.puts)

	err := s.Clear(ctx, inventory.BackpackSlot(3))
	require.ErrorIs(t, err, inventory.ErrOutOfRange)
	assert.Equal(t, 2, storage.puts)

	reopened := openStore(t, storage)
	requireSlots(t, []string{"item1", "", "gem"}, reopened.Backpack())
	requireSlots(t, []string{"", "item3", "item4", "", "", "", "", "", "", ""}, reopened.Chest())
}

func TestStorageFailureLeavesStateUnchanged(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	storage := newFlaky()
	s := openStore(t, storage)

	storage.failing = true

	_, err := s.Move(ctx, "item1", inventory.ChestSlot(0))
	require.ErrorIs(t, err, errInjected)

	err = s.SetCategoryFilter(ctx, inventory.CategoryAttack)
	require.ErrorIs(t, err, errInjected)

	err = s.Reset(ctx)
	require.ErrorIs(t, err, errInjected)

	requireSlots(t, []string{"item1", "", ""}, s.Backpack())
	requireSlots(t, []string{"item2", "item3", "item4", "", "", "", "", "", "", ""}, s.Chest())
	assert.Equal(t, inventory.DefaultFilter(), s.Filter())
}

func TestReset(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	storage := kv.NewMemory()
	s := openStore(t, storage)

	_, err := s.Move(ctx, "item4", inventory.BackpackSlot(0))
	require.NoError(t, err)
	require.NoError(t, s.SetRarityFilter(ctx, inventory.RarityRare))

	require.NoError(t, s.Reset(ctx))

	requireSlots(t, []string{"item1", "", ""}, s.Backpack())
	requireSlots(t, []string{"item2", "item3", "item4", "", "", "", "", "", "", ""}, s.Chest())
	assert.Equal(t, inventory.DefaultFilter(), s.Filter())

	for _, key := range inventory.Keys() {
		_, ok, err := storage.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok, "%s should be deleted", key)
	}

	assert.Equal(t, inventory.LoadFresh, openStore(t, storage).Report().Status)
}

func TestSetFilterValidates(t *testing.T) {
	t.Parallel()

	s := openStore(t, kv.NewMemory())

	err := s.SetCategoryFilter(context.Background(), inventory.Category("Magic"))
	require.ErrorIs(t, err, inventory.ErrInvalidCategory)

	err = s.SetRarityFilter(context.Background(), inventory.Rarity("Epic"))
	require.ErrorIs(t, err, inventory.ErrInvalidRarity)
}

func TestViewUsesTrueIndicesWhileFiltering(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openStore(t, kv.NewMemory())

	require.NoError(t, s.SetCategoryFilter(ctx, inventory.CategoryDefense))

	view := s.View(false)
	require.Len(t, view.Chest, 2)
	assert.Equal(t, "storage-chest-slot-0", view.Chest[0].Slot)
	assert.Equal(t, "storage-chest-slot-2", view.Chest[1].Slot)
	assert.Len(t, view.Backpack, inventory.BackpackCapacity, "backpack is never filtered")

	// Dropping onto the second visible slot lands on true index 2.
	out, err := s.Move(ctx, "item1", inventory.ChestSlot(view.Chest[1].Index))
	require.NoError(t, err)
	assert.Equal(t, inventory.Swapped, out.Kind)
	requireSlots(t, []string{"item4", "", ""}, s.Backpack())

	assert.Len(t, s.View(true).Chest, inventory.ChestCapacity)
}
