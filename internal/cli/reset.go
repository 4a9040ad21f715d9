package cli

import (
	"context"
	"fmt"

	flag "github.com/spf13/pflag"
)

// ResetCmd returns the reset command.
func ResetCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("reset", flag.ContinueOnError),
		Usage: "reset",
		Short: "Restore the default inventory",
		Long:  "Delete all saved state and go back to the default items and an empty filter.",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("%w: %v", ErrTooManyArgs, args)
			}

			// Reset discards whatever was unreadable, so no load warning.
			store, err := a.open(ctx, nil)
			if err != nil {
				return err
			}

			err = store.Reset(ctx)
			if err != nil {
				return err
			}

			o.Println("Inventory reset to defaults")

			return nil
		},
	}
}
