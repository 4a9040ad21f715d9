package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"
	"github.com/natefinch/atomic"
	flag "github.com/spf13/pflag"

	"github.com/Yizune/Inventory-Manager/internal/config"
	"github.com/Yizune/Inventory-Manager/internal/inventory"
)

// PersistedState documents the four saved keys as one object. Each key is
// stored separately; the object only exists for the schema.
type PersistedState struct {
	BackpackItems    []*inventory.Item `json:"backpackItems" jsonschema:"minItems=3,maxItems=3,description=Backpack slots in order; null is an empty slot"`
	ChestItems       []*inventory.Item `json:"chestItems" jsonschema:"minItems=10,maxItems=10,description=Chest slots in order; null is an empty slot"`
	SelectedCategory string            `json:"selectedCategory" jsonschema:"enum=All,enum=Attack,enum=Defense,enum=Other"`
	SelectedRarity   string            `json:"selectedRarity" jsonschema:"enum=All,enum=Common,enum=Uncommon,enum=Rare"`
}

// SchemaCmd returns the schema command.
func SchemaCmd(cfg *config.Config) *Command {
	flags := flag.NewFlagSet("schema", flag.ContinueOnError)
	out := flags.String("out", "", "Write the schema to `path` instead of stdout")

	return &Command{
		Flags: flags,
		Usage: "schema [--out path]",
		Short: "Print the JSON schema of the saved state",
		Long: "Print a JSON schema describing the saved keys backpackItems, chestItems,\n" +
			"selectedCategory and selectedRarity.",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			data, err := json.MarshalIndent(buildSchema(), "", "  ")
			if err != nil {
				return fmt.Errorf("marshal schema: %w", err)
			}

			data = append(data, '\n')

			if *out == "" {
				o.Printf("%s", data)

				return nil
			}

			path := *out
			if !filepath.IsAbs(path) {
				path = filepath.Join(cfg.EffectiveCwd, path)
			}

			err = writeSchema(path, data)
			if err != nil {
				return err
			}

			o.Println("Wrote", path)

			return nil
		},
	}
}

func buildSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		DoNotReference: true,
	}

	schema := reflector.Reflect(new(PersistedState))
	schema.Title = "Inventory saved state"
	schema.Description = "Keys written by inv to its data directory"

	return schema
}

func writeSchema(path string, data []byte) error {
	err := os.MkdirAll(filepath.Dir(path), 0o750)
	if err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	err = atomic.WriteFile(path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("write schema: %w", err)
	}

	return nil
}
