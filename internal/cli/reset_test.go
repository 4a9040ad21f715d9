package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Yizune/Inventory-Manager/internal/cli"
	"github.com/Yizune/Inventory-Manager/internal/inventory"
)

func Test_Reset_Restores_Defaults_When_State_Changed(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	fresh := c.MustRun("show", "--json")

	c.MustRun("move", "item4", "backpack-slot-2")
	c.MustRun("filter", "--rarity", "Rare")

	if got, want := c.MustRun("reset"), "Inventory reset to defaults"; got != want {
		t.Errorf("stdout=%q, want=%q", got, want)
	}

	if got := c.MustRun("show", "--json"); got != fresh {
		t.Errorf("state after reset:\n%s\nwant:\n%s", got, fresh)
	}

	for _, key := range inventory.Keys() {
		_, err := os.Stat(filepath.Join(c.DataDir(), key))
		if !os.IsNotExist(err) {
			t.Errorf("%s should be deleted, stat err=%v", key, err)
		}
	}
}

func Test_Reset_Clears_Corrupt_State_Without_Warning(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteKey(inventory.KeyBackpack, "[1,2,3]")

	_, _, code := c.Run("show")
	if got, want := code, 1; got != want {
		t.Fatalf("show code=%d, want=%d", got, want)
	}

	c.MustRun("reset")

	_, stderr, code := c.Run("show")
	if code != 0 || stderr != "" {
		t.Errorf("show after reset: code=%d stderr=%q", code, stderr)
	}
}
