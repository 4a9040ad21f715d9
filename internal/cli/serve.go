package cli

import (
	"context"
	"fmt"
	"log"

	flag "github.com/spf13/pflag"

	"github.com/Yizune/Inventory-Manager/internal/icons"
	"github.com/Yizune/Inventory-Manager/internal/server"
)

// ServeCmd returns the serve command.
func ServeCmd(a *app) *Command {
	flags := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := flags.String("addr", "", "Listen on `host:port` (default from config)")

	return &Command{
		Flags: flags,
		Usage: "serve [--addr host:port]",
		Short: "Serve the inventory over HTTP and websocket",
		Long: "Serve the inventory to a browser front end. Routes:\n" +
			"  GET  /api/state          current state\n" +
			"  POST /api/filter         {category?, rarity?}\n" +
			"  POST /api/reset          restore defaults\n" +
			"  POST /api/drag/start     {active}\n" +
			"  POST /api/drag/end       {active, over?}\n" +
			"  GET  /icons/<ref>.png    item icon, ?size=N to scale\n" +
			"  GET  /ws                 websocket; state is pushed after every event\n" +
			"Stops on interrupt.",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("%w: %v", ErrTooManyArgs, args)
			}

			store, err := a.open(ctx, o)
			if err != nil {
				return err
			}

			listen := *addr
			if listen == "" {
				listen = a.cfg.ListenAddr
			}

			srv := server.New(store, server.Config{
				AllowedOrigin: a.cfg.AllowedOrigin,
				Icons:         icons.NewResolver(a.cfg.IconDirAbs, a.cfg.IconSize),
				Logger:        log.New(a.errOut, "inv: ", log.LstdFlags),
			})

			o.Printf("Serving inventory on http://%s\n", listen)

			return srv.ListenAndServe(ctx, listen)
		},
	}
}
