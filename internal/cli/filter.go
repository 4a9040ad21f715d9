package cli

import (
	"context"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/Yizune/Inventory-Manager/internal/inventory"
)

// FilterCmd returns the filter command.
func FilterCmd(a *app) *Command {
	flags := flag.NewFlagSet("filter", flag.ContinueOnError)
	category := flags.String("category", "", "Attack, Defense, Other or All")
	rarity := flags.String("rarity", "", "Common, Uncommon, Rare or All")

	return &Command{
		Flags: flags,
		Usage: "filter [--category C] [--rarity R]",
		Short: "Set or show the chest filter",
		Long: "Narrow the chest view by category and rarity. Values are case-insensitive;\n" +
			"All clears a selector. Without flags the current filter is printed.\n" +
			"Filtering never moves items.",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("%w: %v", ErrTooManyArgs, args)
			}

			store, err := a.open(ctx, o)
			if err != nil {
				return err
			}

			err = applyFilter(ctx, store, *category, *rarity)
			if err != nil {
				return err
			}

			f := store.Filter()
			o.Printf("category=%s rarity=%s\n", f.Category, f.Rarity)

			return nil
		},
	}
}

// applyFilter sets each non-empty selector. Both are validated before either
// is written.
func applyFilter(ctx context.Context, store *inventory.Store, category, rarity string) error {
	var (
		c   inventory.Category
		r   inventory.Rarity
		err error
	)

	if category != "" {
		c, err = inventory.ParseCategorySelector(category)
		if err != nil {
			return err
		}
	}

	if rarity != "" {
		r, err = inventory.ParseRaritySelector(rarity)
		if err != nil {
			return err
		}
	}

	if category != "" {
		err = store.SetCategoryFilter(ctx, c)
		if err != nil {
			return err
		}
	}

	if rarity != "" {
		err = store.SetRarityFilter(ctx, r)
		if err != nil {
			return err
		}
	}

	return nil
}
