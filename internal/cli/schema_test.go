package cli_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Yizune/Inventory-Manager/internal/cli"
)

type schemaDoc struct {
	Title      string `json:"title"`
	Properties map[string]struct {
		Type     string   `json:"type"`
		Enum     []string `json:"enum"`
		MinItems *int     `json:"minItems"`
		Items    struct {
			Properties map[string]json.RawMessage `json:"properties"`
		} `json:"items"`
	} `json:"properties"`
}

func Test_Schema_Describes_Saved_Keys_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	var doc schemaDoc

	err := json.Unmarshal([]byte(c.MustRun("schema")), &doc)
	if err != nil {
		t.Fatalf("decode schema: %v", err)
	}

	for _, key := range []string{"backpackItems", "chestItems", "selectedCategory", "selectedRarity"} {
		if _, ok := doc.Properties[key]; !ok {
			t.Errorf("schema is missing %s", key)
		}
	}

	chest := doc.Properties["chestItems"]
	if chest.MinItems == nil || *chest.MinItems != 10 {
		t.Errorf("chestItems minItems=%v, want 10", chest.MinItems)
	}

	if _, ok := chest.Items.Properties["rarity"]; !ok {
		t.Errorf("chest items should describe rarity, got %v", chest.Items.Properties)
	}

	if got, want := len(doc.Properties["selectedRarity"].Enum), 4; got != want {
		t.Errorf("selectedRarity enum len=%d, want=%d", got, want)
	}
}

func Test_Schema_Writes_File_When_Out_Set(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("schema", "--out", "docs/state.schema.json")

	path := filepath.Join(c.Dir, "docs", "state.schema.json")
	cli.AssertContains(t, stdout, "Wrote "+path)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}

	cli.AssertContains(t, string(data), `"title": "Inventory saved state"`)
}
