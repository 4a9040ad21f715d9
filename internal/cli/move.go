package cli

import (
	"context"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/Yizune/Inventory-Manager/internal/inventory"
)

// MoveCmd returns the move command.
func MoveCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("move", flag.ContinueOnError),
		Usage: "move <item-id> [<slot-id>]",
		Short: "Drag an item onto a slot",
		Long: "Pick up the item with the given id and drop it on a slot such as\n" +
			"backpack-slot-1 or storage-chest-slot-4. An occupied target swaps with the\n" +
			"dragged item. Without a slot id the drag is cancelled and nothing changes.",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				return ErrItemIDRequired
			}

			if len(args) > 2 {
				return fmt.Errorf("%w: %v", ErrTooManyArgs, args[2:])
			}

			store, err := a.open(ctx, o)
			if err != nil {
				return err
			}

			over := ""
			if len(args) == 2 {
				over = args[1]
			}

			session := inventory.NewSession(store)
			session.Start(args[0])

			out, err := session.End(ctx, args[0], over)
			if err != nil {
				return err
			}

			printOutcome(o, out)

			return nil
		},
	}
}

// printOutcome prints a drop result. Cancels other than a deliberate drop
// outside every slot are warnings, since the user most likely mistyped an id.
func printOutcome(o *IO, out inventory.Outcome) {
	o.Println(out.String())

	switch out.Reason {
	case inventory.CancelNone, inventory.CancelNoTarget:
	case inventory.CancelUnknownItem:
		o.Warn("drop cancelled: "+out.Reason.String(), "list item ids with 'inv show --all'")
	default:
		o.Warn("drop cancelled: "+out.Reason.String(),
			fmt.Sprintf("use backpack-slot-0..%d or storage-chest-slot-0..%d",
				inventory.BackpackCapacity-1, inventory.ChestCapacity-1))
	}
}
