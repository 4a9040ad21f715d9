package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/Yizune/Inventory-Manager/internal/inventory"
	"github.com/Yizune/Inventory-Manager/internal/kv"
)

var errInjected = errors.New("injected storage failure")

// flakyStorage wraps a memory store and fails Put/Delete while failing is set.
type flakyStorage struct {
	*kv.Memory
	failing bool
	puts    int
}

func (f *flakyStorage) Put(ctx context.Context, entries map[string]string) error {
	if f.failing {
		return errInjected
	}

	f.puts++

	return f.Memory.Put(ctx, entries)
}

func (f *flakyStorage) Delete(ctx context.Context, keys ...string) error {
	if f.failing {
		return errInjected
	}

	return f.Memory.Delete(ctx, keys...)
}

func newFlaky() *flakyStorage {
	return &flakyStorage{Memory: kv.NewMemory()}
}

func openStore(t *testing.T, storage inventory.Storage) *inventory.Store {
	t.Helper()

	s, err := inventory.Open(context.Background(), storage)
	require.NoError(t, err)

	return s
}

func item(id, name string, c inventory.Category, r inventory.Rarity) *inventory.Item {
	return &inventory.Item{ID: id, Name: name, Icon: name, Category: c, Rarity: r, Stats: "+1"}
}

// slotIDs renders a container as item ids with "" for empty slots, which
// keeps diffs readable.
func slotIDs(c inventory.Container) []string {
	out := make([]string, c.Len())

	for i, it := range c.Slots() {
		if it != nil {
			out[i] = it.ID
		}
	}

	return out
}

func requireSlots(t *testing.T, want []string, c inventory.Container) {
	t.Helper()

	if diff := cmp.Diff(want, slotIDs(c)); diff != "" {
		t.Fatalf("slots mismatch (-want +got):\n%s", diff)
	}
}

func allTargets() []string {
	var out []string

	for i := range inventory.BackpackCapacity {
		out = append(out, inventory.BackpackSlot(i).String())
	}

	for i := range inventory.ChestCapacity {
		out = append(out, inventory.ChestSlot(i).String())
	}

	return out
}
