package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"
)

// ShellCmd returns the shell command.
func ShellCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("shell", flag.ContinueOnError),
		Usage: "shell",
		Short: "Interactive drag and drop session",
		Long: "Start an interactive session over the inventory. Pick an item up with\n" +
			"'start <item-id>', then 'drop <slot-id>' or 'cancel'. The show, filter,\n" +
			"move and reset commands work as on the command line. Reads commands from\n" +
			"stdin when it is not a terminal.",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("%w: %v", ErrTooManyArgs, args)
			}

			_, err := a.open(ctx, o)
			if err != nil {
				return err
			}

			sh := &shell{app: a, out: o.out, errOut: o.errOut}

			return sh.run(ctx, o, sh.reader())
		},
	}
}

// lineReader yields one command line at a time. io.EOF ends the session.
type lineReader interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

type shell struct {
	app    *app
	out    io.Writer
	errOut io.Writer
}

// reader picks liner for a terminal on stdin and a plain scanner otherwise.
func (sh *shell) reader() lineReader {
	if sh.app.in == nil {
		return &scanReader{scanner: bufio.NewScanner(strings.NewReader(""))}
	}

	if f, ok := sh.app.in.(*os.File); ok && f == os.Stdin && liner.TerminalSupported() {
		return newLinerReader(sh.completer)
	}

	return &scanReader{scanner: bufio.NewScanner(sh.app.in)}
}

func (sh *shell) run(ctx context.Context, o *IO, r lineReader) error {
	defer func() { _ = r.Close() }()

	o.Println("inv shell - type 'help' for commands")

	for ctx.Err() == nil {
		line, err := r.ReadLine("inv> ")
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		fields := strings.Fields(line)
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		if !sh.exec(ctx, strings.ToLower(fields[0]), fields[1:]) {
			return nil
		}
	}

	return nil
}

// exec runs one line and reports whether the session continues. Each line
// gets its own IO so warnings print right after the command that caused them.
func (sh *shell) exec(ctx context.Context, name string, args []string) bool {
	o := NewIO(sh.out, sh.errOut)
	defer o.Finish()

	switch name {
	case "quit", "exit", "q":
		return false
	case "help", "?":
		sh.printHelp(o)
	case "start":
		sh.start(o, args)
	case "drop":
		sh.drop(ctx, o, args)
	case "cancel":
		sh.app.session.Cancel()
		o.Println("Drag cancelled")
	case "shell", "serve":
		o.ErrPrintln("error:", fmt.Errorf("%w: %s", ErrNotInteractive, name))
	default:
		cmd, ok := sh.app.commands()[name]
		if !ok {
			o.ErrPrintln("error:", fmt.Errorf("%w: %s (type 'help' for commands)", ErrUnknownCommand, name))

			return true
		}

		cmd.Run(ctx, o, args)
	}

	return true
}

func (sh *shell) start(o *IO, args []string) {
	if len(args) != 1 {
		o.ErrPrintln("error:", ErrItemIDRequired)

		return
	}

	if !sh.app.session.Start(args[0]) {
		o.Warn("no item "+args[0], "list item ids with 'show --all'")

		return
	}

	it, _ := sh.app.session.Dragging()
	o.Printf("Dragging %s (%s)\n", it.ID, it.Name)
}

func (sh *shell) drop(ctx context.Context, o *IO, args []string) {
	it, ok := sh.app.session.Dragging()
	if !ok {
		o.ErrPrintln("error:", ErrNothingDragging)

		return
	}

	if len(args) > 1 {
		o.ErrPrintln("error:", fmt.Errorf("%w: %v", ErrTooManyArgs, args[1:]))

		return
	}

	over := ""
	if len(args) == 1 {
		over = args[0]
	}

	out, err := sh.app.session.End(ctx, it.ID, over)
	if err != nil {
		o.ErrPrintln("error:", err)

		return
	}

	printOutcome(o, out)
}

func (sh *shell) printHelp(o *IO) {
	o.Println("Commands:")
	o.Println("  start <item-id>          Pick an item up")
	o.Println("  drop [<slot-id>]         Drop it on a slot; no slot cancels")
	o.Println("  cancel                   Put the item back")

	for _, cmd := range sh.app.commandList() {
		switch cmd.Name() {
		case "shell", "serve":
			continue
		}

		o.Println(cmd.HelpLine())
	}

	o.Println("  help                     Show this help")
	o.Println("  exit / quit / q          Exit")
}

func (sh *shell) completer(line string) []string {
	words := []string{"start", "drop", "cancel", "help", "exit", "quit"}

	for _, cmd := range sh.app.commandList() {
		switch cmd.Name() {
		case "shell", "serve":
			continue
		}

		words = append(words, cmd.Name())
	}

	sort.Strings(words)

	var completions []string

	lower := strings.ToLower(line)
	for _, w := range words {
		if strings.HasPrefix(w, lower) {
			completions = append(completions, w)
		}
	}

	return completions
}

type scanReader struct {
	scanner *bufio.Scanner
}

func (r *scanReader) ReadLine(string) (string, error) {
	if r.scanner.Scan() {
		return r.scanner.Text(), nil
	}

	err := r.scanner.Err()
	if err != nil {
		return "", err
	}

	return "", io.EOF
}

func (r *scanReader) Close() error { return nil }

type linerReader struct {
	state *liner.State
}

func newLinerReader(completer func(string) []string) *linerReader {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	state.SetCompleter(completer)

	if f, err := os.Open(historyFile()); err == nil {
		_, _ = state.ReadHistory(f)
		_ = f.Close()
	}

	return &linerReader{state: state}
}

func (r *linerReader) ReadLine(prompt string) (string, error) {
	line, err := r.state.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", io.EOF
	}

	if err != nil {
		return "", err
	}

	if strings.TrimSpace(line) != "" {
		r.state.AppendHistory(line)
	}

	return line, nil
}

func (r *linerReader) Close() error {
	if path := historyFile(); path != "" {
		if f, err := os.Create(path); err == nil {
			_, _ = r.state.WriteHistory(f)
			_ = f.Close()
		}
	}

	return r.state.Close()
}

// historyFile returns the path to the shell history file.
func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".inv_history")
}
