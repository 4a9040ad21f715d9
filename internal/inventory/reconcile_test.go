package inventory_test

import (
	"context"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yizune/Inventory-Manager/internal/inventory"
	"github.com/Yizune/Inventory-Manager/internal/kv"
)

// busyState has items in both containers and empty slots in both.
func busyState(t *testing.T) *inventory.Store {
	t.Helper()

	storage := kv.NewMemory()
	seed(t, storage,
		inventory.ContainerOf(
			item("sword", "Sword", inventory.CategoryAttack, inventory.RarityCommon),
			nil,
			item("ring", "Ring", inventory.CategoryOther, inventory.RarityRare),
		),
		inventory.ContainerOf(
			item("shield", "Shield", inventory.CategoryDefense, inventory.RarityUncommon),
			nil,
			item("potion", "Potion", inventory.CategoryOther, inventory.RarityCommon),
			item("helmet", "Helmet", inventory.CategoryDefense, inventory.RarityRare),
			nil, nil, nil, nil, nil, nil,
		),
	)

	return openStore(t, storage)
}

func sortedItems(s *inventory.Store) []inventory.Item {
	items := append(s.Backpack().Items(), s.Chest().Items()...)
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })

	return items
}

func TestSwapAcrossContainers(t *testing.T) {
	t.Parallel()

	storage := kv.NewMemory()
	seed(t, storage,
		inventory.ContainerOf(item("sword", "Sword", inventory.CategoryAttack, inventory.RarityCommon), nil, nil),
		inventory.ContainerOf(nil, nil, nil,
			item("helmet", "Helmet", inventory.CategoryDefense, inventory.RarityRare),
			nil, nil, nil, nil, nil, nil),
	)
	s := openStore(t, storage)

	session := inventory.NewSession(s)
	require.True(t, session.Start("sword"))

	out, err := session.End(context.Background(), "sword", "storage-chest-slot-3")
	require.NoError(t, err)

	assert.Equal(t, inventory.Swapped, out.Kind)
	assert.Equal(t, "helmet", out.Displaced.ID)
	requireSlots(t, []string{"helmet", "", ""}, s.Backpack())
	requireSlots(t, []string{"", "", "", "sword", "", "", "", "", "", ""}, s.Chest())
}

func TestMoveCases(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name         string
		itemID       string
		target       inventory.SlotRef
		wantKind     inventory.OutcomeKind
		wantBackpack []string
		wantChest    []string
	}{
		{
			name:         "backpack to empty chest slot",
			itemID:       "sword",
			target:       inventory.ChestSlot(4),
			wantKind:     inventory.Moved,
			wantBackpack: []string{"", "", "ring"},
			wantChest:    []string{"shield", "", "potion", "helmet", "sword", "", "", "", "", ""},
		},
		{
			name:         "chest to occupied backpack slot",
			itemID:       "helmet",
			target:       inventory.BackpackSlot(2),
			wantKind:     inventory.Swapped,
			wantBackpack: []string{"sword", "", "helmet"},
			wantChest:    []string{"shield", "", "potion", "ring", "", "", "", "", "", ""},
		},
		{
			name:         "chest to empty backpack slot",
			itemID:       "potion",
			target:       inventory.BackpackSlot(1),
			wantKind:     inventory.Moved,
			wantBackpack: []string{"sword", "potion", "ring"},
			wantChest:    []string{"shield", "", "", "helmet", "", "", "", "", "", ""},
		},
		{
			name:         "within backpack swap",
			itemID:       "sword",
			target:       inventory.BackpackSlot(2),
			wantKind:     inventory.Swapped,
			wantBackpack: []string{"ring", "", "sword"},
			wantChest:    []string{"shield", "", "potion", "helmet", "", "", "", "", "", ""},
		},
		{
			name:         "within chest move",
			itemID:       "shield",
			target:       inventory.ChestSlot(9),
			wantKind:     inventory.Moved,
			wantBackpack: []string{"sword", "", "ring"},
			wantChest:    []string{"", "", "potion", "helmet", "", "", "", "", "", "shield"},
		},
		{
			name:         "self drop",
			itemID:       "helmet",
			target:       inventory.ChestSlot(3),
			wantKind:     inventory.Returned,
			wantBackpack: []string{"sword", "", "ring"},
			wantChest:    []string{"shield", "", "potion", "helmet", "", "", "", "", "", ""},
		},
		{
			name:         "target out of range",
			itemID:       "sword",
			target:       inventory.BackpackSlot(3),
			wantKind:     inventory.Cancelled,
			wantBackpack: []string{"sword", "", "ring"},
			wantChest:    []string{"shield", "", "potion", "helmet", "", "", "", "", "", ""},
		},
		{
			name:         "unknown item",
			itemID:       "ghost",
			target:       inventory.ChestSlot(0),
			wantKind:     inventory.Cancelled,
			wantBackpack: []string{"sword", "", "ring"},
			wantChest:    []string{"shield", "", "potion", "helmet", "", "", "", "", "", ""},
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := busyState(t)

			out, err := s.Move(context.Background(), tt.itemID, tt.target)
			require.NoError(t, err)

			assert.Equal(t, tt.wantKind, out.Kind, "outcome %s", out)
			requireSlots(t, tt.wantBackpack, s.Backpack())
			requireSlots(t, tt.wantChest, s.Chest())
		})
	}
}

// TestMoveProperties drops every item on every slot of a fresh busy state and
// checks conservation, id uniqueness, swap symmetry and self-drop idempotence.
func TestMoveProperties(t *testing.T) {
	t.Parallel()

	ids := []string{"sword", "ring", "shield", "potion", "helmet"}

	for _, id := range ids {
		for _, slot := range allTargets() {
			s := busyState(t)
			ctx := context.Background()

			source, ok := s.Locate(id)
			require.True(t, ok)

			target, err := inventory.ParseSlotID(slot)
			require.NoError(t, err)

			beforeItems := sortedItems(s)
			beforeBackpack, beforeChest := s.Backpack(), s.Chest()

			occupant, err := s.Get(target)
			require.NoError(t, err)

			out, err := s.Move(ctx, id, target)
			require.NoError(t, err)

			if diff := cmp.Diff(beforeItems, sortedItems(s)); diff != "" {
				t.Fatalf("%s -> %s: items not conserved (-before +after):\n%s", id, slot, diff)
			}

			seen := map[string]bool{}
			for _, it := range sortedItems(s) {
				require.False(t, seen[it.ID], "%s -> %s: duplicate id %s", id, slot, it.ID)
				seen[it.ID] = true
			}

			landed, err := s.Get(target)
			require.NoError(t, err)
			require.NotNil(t, landed)
			assert.Equal(t, id, landed.ID, "%s -> %s: dragged item at target", id, slot)

			back, err := s.Get(source)
			require.NoError(t, err)

			switch {
			case source == target:
				assert.Equal(t, inventory.Returned, out.Kind)
				assert.True(t, beforeBackpack.Equal(s.Backpack()) && beforeChest.Equal(s.Chest()),
					"%s: self drop must not change state", slot)
			case occupant == nil:
				assert.Nil(t, back, "%s -> %s: source emptied", id, slot)
			default:
				require.NotNil(t, back)
				assert.Equal(t, occupant.ID, back.ID, "%s -> %s: occupant swapped to source", id, slot)
			}
		}
	}
}

func TestSelfDropStillPersists(t *testing.T) {
	t.Parallel()

	storage := newFlaky()
	s := openStore(t, storage)

	out, err := s.Move(context.Background(), "item1", inventory.BackpackSlot(0))
	require.NoError(t, err)
	assert.Equal(t, inventory.Returned, out.Kind)
	assert.Equal(t, 1, storage.puts)
}

func TestMoveFirstChestMatchWins(t *testing.T) {
	t.Parallel()

	// Only reachable through a container built outside the store; the store
	// itself refuses duplicate ids.
	chest := inventory.ContainerOf(nil, item("a", "A", inventory.CategoryOther, inventory.RarityCommon), item("a", "A", inventory.CategoryOther, inventory.RarityCommon))
	assert.Equal(t, 1, chest.IndexOf("a"))
}
