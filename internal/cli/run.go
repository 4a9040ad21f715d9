// Package cli implements the inv command line: one-shot commands, the
// interactive shell and the serve command, all over one inventory store.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/Yizune/Inventory-Manager/internal/config"
	"github.com/Yizune/Inventory-Manager/internal/inventory"
	"github.com/Yizune/Inventory-Manager/internal/kv"
)

// Errors returned by commands.
var (
	ErrItemIDRequired  = errors.New("item id is required")
	ErrTooManyArgs     = errors.New("too many arguments")
	ErrUnknownCommand  = errors.New("unknown command")
	ErrNotInteractive  = errors.New("command is not available in the shell")
	ErrNothingDragging = errors.New("nothing is being dragged")
)

// Run is the main entry point. Returns exit code.
func Run(in io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	globals := flag.NewFlagSet("inv", flag.ContinueOnError)
	globals.SetInterspersed(false)
	globals.SetOutput(&strings.Builder{})

	workDir := globals.StringP("cwd", "C", "", "Run as if started in `dir`")
	configPath := globals.StringP("config", "c", "", "Use config `file` instead of .inv.json")
	dataDir := globals.String("data-dir", "", "Store inventory data in `dir`")
	backend := globals.String("backend", "", "Storage backend: file, sqlite or memory")
	help := globals.BoolP("help", "h", false, "Show help")

	if len(args) > 0 {
		args = args[1:]
	}

	err := globals.Parse(args)
	if err != nil {
		fprintln(errOut, "error:", err)
		printUsage(errOut, globals)

		return 1
	}

	rest := globals.Args()
	if *help || len(rest) == 0 {
		printUsage(out, globals)

		return 0
	}

	cfg, err := config.Load(config.LoadInput{
		WorkDirOverride: *workDir,
		ConfigPath:      *configPath,
		Overrides:       config.Overrides{DataDir: *dataDir, Backend: *backend},
		Env:             env,
	})
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sigCh != nil {
		go func() {
			select {
			case <-sigCh:
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	a := &app{cfg: cfg, in: in, errOut: errOut}
	defer a.close()

	name := rest[0]

	cmd, ok := a.commands()[name]
	if !ok {
		fprintln(errOut, "error:", fmt.Errorf("%w: %s", ErrUnknownCommand, name))
		printUsage(errOut, globals)

		return 1
	}

	o := NewIO(out, errOut)

	code := cmd.Run(ctx, o, rest[1:])
	if code != 0 {
		return code
	}

	return o.Finish()
}

// app holds what commands share within one invocation. The store is opened
// on first use so that commands like print-config never touch the data dir.
type app struct {
	cfg    config.Config
	in     io.Reader
	errOut io.Writer

	kv      kv.Store
	store   *inventory.Store
	session *inventory.Session
}

// open returns the store, opening the backend on first call. A recovered load
// is reported as a warning on o, unless o is nil.
func (a *app) open(ctx context.Context, o *IO) (*inventory.Store, error) {
	if a.store != nil {
		return a.store, nil
	}

	backend, err := kv.Open(ctx, a.cfg.Backend, a.cfg.DataDirAbs)
	if err != nil {
		return nil, err
	}

	store, err := inventory.Open(ctx, backend)
	if err != nil {
		_ = backend.Close()

		return nil, err
	}

	report := store.Report()
	if o != nil && report.Status == inventory.LoadRecovered {
		o.Warn(
			fmt.Sprintf("saved %s unreadable, defaults loaded", strings.Join(report.Corrupt, ", ")),
			"run 'inv reset' to discard the saved state, or restore it in "+a.cfg.DataDirAbs,
		)
	}

	a.kv, a.store = backend, store
	a.session = inventory.NewSession(store)

	return store, nil
}

func (a *app) close() {
	if a.kv != nil {
		_ = a.kv.Close()
	}
}

// commands returns every command keyed by name.
func (a *app) commands() map[string]*Command {
	all := a.commandList()
	byName := make(map[string]*Command, len(all))

	for _, cmd := range all {
		byName[cmd.Name()] = cmd
	}

	return byName
}

func (a *app) commandList() []*Command {
	return []*Command{
		ShowCmd(a),
		MoveCmd(a),
		FilterCmd(a),
		ResetCmd(a),
		PrintConfigCmd(&a.cfg),
		SchemaCmd(&a.cfg),
		ShellCmd(a),
		ServeCmd(a),
	}
}

func printUsage(w io.Writer, globals *flag.FlagSet) {
	fprintln(w, "inv - backpack and storage chest inventory manager")
	fprintln(w)
	fprintln(w, "Usage: inv [global flags] <command> [args]")
	fprintln(w)
	fprintln(w, "Global flags:")

	var buf strings.Builder

	globals.SetOutput(&buf)
	globals.PrintDefaults()
	globals.SetOutput(&strings.Builder{})
	fprint(w, buf.String())

	fprintln(w)
	fprintln(w, "Commands:")

	for _, cmd := range (&app{}).commandList() {
		fprintln(w, cmd.HelpLine())
	}
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func fprint(w io.Writer, a ...any) {
	_, _ = fmt.Fprint(w, a...)
}
