package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/Yizune/Inventory-Manager/internal/cli"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	err := os.MkdirAll(filepath.Dir(path), 0o750)
	if err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	err = os.WriteFile(path, []byte(content), 0o600)
	if err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func Test_Run_Prints_Usage_When_No_Command(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer

	code := cli.Run(nil, &out, &errOut, []string{"inv"}, nil, nil)
	if got, want := code, 0; got != want {
		t.Fatalf("code=%d, want=%d", got, want)
	}

	cli.AssertContains(t, out.String(), "Usage: inv [global flags] <command> [args]")
	cli.AssertContains(t, out.String(), "move <item-id> [<slot-id>]")
	cli.AssertContains(t, out.String(), "--data-dir")
}

func Test_Run_Prints_Usage_When_Help_Flag(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("--help")
	cli.AssertContains(t, stdout, "Commands:")
	cli.AssertContains(t, stdout, "serve [--addr host:port]")
}

func Test_Run_Fails_When_Unknown_Command(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("teleport")
	cli.AssertContains(t, stderr, "unknown command: teleport")
	cli.AssertContains(t, stderr, "Usage: inv")
}

func Test_Run_Fails_When_Unknown_Global_Flag(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("--colour", "show")
	cli.AssertContains(t, stderr, "unknown flag: --colour")
}

func Test_Run_Fails_When_Unknown_Backend(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("--backend", "redis", "show")
	cli.AssertContains(t, stderr, "unknown backend")
}

func Test_Command_Help_When_Help_Flag(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("move", "--help")
	cli.AssertContains(t, stdout, "Usage: inv move <item-id> [<slot-id>]")
	cli.AssertContains(t, stdout, "storage-chest-slot-4")
}

func Test_Command_Fails_When_Unknown_Flag(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("show", "--colour")
	cli.AssertContains(t, stderr, "unknown flag: --colour")
	cli.AssertContains(t, stderr, "Usage: inv show")
}
