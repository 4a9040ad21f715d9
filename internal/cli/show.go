package cli

import (
	"context"
	"encoding/json"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/Yizune/Inventory-Manager/internal/inventory"
)

// ShowCmd returns the show command.
func ShowCmd(a *app) *Command {
	flags := flag.NewFlagSet("show", flag.ContinueOnError)
	asJSON := flags.Bool("json", false, "Print the view as JSON")
	all := flags.Bool("all", false, "List every chest slot, ignoring the filter")

	return &Command{
		Flags: flags,
		Usage: "show [--json] [--all]",
		Short: "Show backpack, chest and filter",
		Long: "Print the backpack, the chest as seen through the current filter, and the filter.\n" +
			"Slot ids always name the true slot, so they can be passed to 'inv move'.",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("%w: %v", ErrTooManyArgs, args)
			}

			store, err := a.open(ctx, o)
			if err != nil {
				return err
			}

			view := store.View(*all)

			if *asJSON {
				enc := json.NewEncoder(o.Writer())
				enc.SetIndent("", "  ")

				return enc.Encode(view)
			}

			printView(o, view)

			return nil
		},
	}
}

func printView(o *IO, view inventory.View) {
	o.Println("Backpack:")
	printSlots(o, view.Backpack)

	o.Printf("Chest (category=%s rarity=%s):\n", view.Filter.Category, view.Filter.Rarity)

	if len(view.Chest) == 0 {
		o.Println("  (no matching items)")

		return
	}

	printSlots(o, view.Chest)
}

func printSlots(o *IO, slots []inventory.ViewSlot) {
	for _, s := range slots {
		if s.Item == nil {
			o.Printf("  %-22s (empty)\n", s.Slot)

			continue
		}

		o.Printf("  %-22s %-8s %-8s %s/%s", s.Slot, s.Item.ID, s.Item.Name, s.Item.Category, s.Item.Rarity)

		if s.Item.Stats != "" {
			o.Printf("  %s", s.Item.Stats)
		}

		o.Println()
	}
}
