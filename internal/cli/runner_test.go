package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/shoplist/internal/list"
	"github.com/idilsaglam/shoplist/internal/model"
)

type env struct {
	t   *testing.T
	dir string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	for _, k := range []string{
		"SHOPLIST_DATA_DIR", "SHOPLIST_STORAGE", "SHOPLIST_KEY", "SHOPLIST_THEME",
		"NO_COLOR", "SHOPLIST_LOG_LEVEL", "SHOPLIST_LOG_FILE",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	dir := t.TempDir()
	t.Setenv("SHOPLIST_DATA_DIR", dir)
	t.Setenv("SHOPLIST_THEME", "mono")
	return &env{t: t, dir: dir}
}

// run executes one CLI invocation and returns exit code, stdout and stderr.
func (e *env) run(args ...string) (int, string, string) {
	e.t.Helper()
	var out, errOut bytes.Buffer
	code := Run(context.Background(), args, Options{Stdout: &out, Stderr: &errOut})
	return code, out.String(), errOut.String()
}

func (e *env) mustRun(args ...string) string {
	e.t.Helper()
	code, out, errOut := e.run(args...)
	if code != 0 {
		e.t.Fatalf("%v: exit %d\nstdout: %s\nstderr: %s", args, code, out, errOut)
	}
	return out
}

func (e *env) snapshot() model.Snapshot {
	e.t.Helper()
	var snap model.Snapshot
	if err := json.Unmarshal([]byte(e.mustRun("export")), &snap); err != nil {
		e.t.Fatalf("decode export: %v", err)
	}
	return snap
}

func TestAddAndListPersistAcrossRuns(t *testing.T) {
	e := newEnv(t)
	e.mustRun("add", "Oat", "milk")
	e.mustRun("add", "Eggs")
	e.mustRun("inc", "1")
	e.mustRun("inc", "1")
	e.mustRun("inc", "2")

	out := e.mustRun("ls")
	for _, want := range []string{"Oat milk", "Eggs", "Items : 3", "Total : 2", " 1. [ ] Oat milk  ×2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("ls output missing %q:\n%s", want, out)
		}
	}

	if _, err := os.Stat(filepath.Join(e.dir, list.DefaultKey+".json")); err != nil {
		t.Fatalf("expected slot file: %v", err)
	}
}

func TestBlankAddChangesNothing(t *testing.T) {
	e := newEnv(t)
	out := e.mustRun("add", "   ")
	if !strings.Contains(out, "nothing to add") {
		t.Fatalf("unexpected output %q", out)
	}
	if _, err := os.Stat(filepath.Join(e.dir, list.DefaultKey+".json")); !os.IsNotExist(err) {
		t.Fatalf("expected no slot file, got %v", err)
	}
}

func TestDecDoneRm(t *testing.T) {
	e := newEnv(t)
	e.mustRun("add", "Milk")
	e.mustRun("add", "Eggs")
	e.mustRun("dec", "1")
	e.mustRun("done", "2")

	snap := e.snapshot()
	if snap.Items[0].Quantity != 0 {
		t.Fatalf("quantity went below zero: %+v", snap.Items[0])
	}
	if !snap.Items[1].Completed {
		t.Fatalf("expected Eggs completed: %+v", snap.Items[1])
	}

	e.mustRun("rm", "1")
	snap = e.snapshot()
	if len(snap.Items) != 1 || snap.Items[0].Name != "Eggs" || snap.Totals.Items != 1 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestRenameLeavesEditModeAsFound(t *testing.T) {
	e := newEnv(t)
	e.mustRun("add", "Milk")

	e.mustRun("rename", "1", "Oat", "milk")
	it := e.snapshot().Items[0]
	if it.Name != "Oat milk" || it.Editing {
		t.Fatalf("unexpected item: %+v", it)
	}

	e.mustRun("edit", "1")
	e.mustRun("rename", "1", "Soy")
	it = e.snapshot().Items[0]
	if it.Name != "Soy" || !it.Editing {
		t.Fatalf("expected still editing after rename: %+v", it)
	}
}

func TestUsageErrors(t *testing.T) {
	e := newEnv(t)
	e.mustRun("add", "Milk")

	cases := []struct {
		args []string
		want string
	}{
		{[]string{"inc", "3"}, "index out of range: have 1, got 3"},
		{[]string{"rm", "0"}, "index out of range"},
		{[]string{"done", "x"}, "done: not a number: x"},
		{[]string{"inc"}, "usage: shoplist inc <index>"},
		{[]string{"add"}, "usage: shoplist add <name...>"},
		{[]string{"fly"}, "unknown subcommand: fly"},
		{[]string{"export", "--format", "xml"}, "unknown format"},
		{[]string{"ls", "--nope"}, "unknown flag"},
	}
	for _, tc := range cases {
		code, _, errOut := e.run(tc.args...)
		if code != 2 {
			t.Fatalf("%v: expected exit 2, got %d (%s)", tc.args, code, errOut)
		}
		if !strings.Contains(errOut, tc.want) {
			t.Fatalf("%v: stderr %q missing %q", tc.args, errOut, tc.want)
		}
	}
}

func TestNoArgsPrintsHelp(t *testing.T) {
	e := newEnv(t)
	code, out, _ := e.run()
	if code != 2 {
		t.Fatalf("expected exit 2, got %d", code)
	}
	if !strings.Contains(out, "Subcommands:") {
		t.Fatalf("expected help text, got %q", out)
	}
}

func TestExportYAML(t *testing.T) {
	e := newEnv(t)
	e.mustRun("add", "Milk")
	e.mustRun("inc", "1")

	var snap model.Snapshot
	if err := yaml.Unmarshal([]byte(e.mustRun("export", "-f", "yaml")), &snap); err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	if len(snap.Items) != 1 || snap.Items[0].Name != "Milk" || snap.Totals.Quantity != 1 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestSQLiteStorageFlag(t *testing.T) {
	e := newEnv(t)
	e.mustRun("--storage", "sqlite", "add", "Milk")
	e.mustRun("--storage", "sqlite", "inc", "1")

	out := e.mustRun("--storage", "sqlite", "totals")
	if strings.TrimSpace(out) != "Item : 1   Total : 1" {
		t.Fatalf("unexpected totals %q", out)
	}
	// the file backend holds a separate list
	if out := e.mustRun("totals"); strings.TrimSpace(out) != "Item : 0   Total : 0" {
		t.Fatalf("unexpected file totals %q", out)
	}
}

func TestCorruptSlotStartsEmpty(t *testing.T) {
	e := newEnv(t)
	path := filepath.Join(e.dir, list.DefaultKey+".json")
	if err := os.WriteFile(path, []byte("{oops"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	t.Setenv("SHOPLIST_LOG_LEVEL", "error")

	if out := e.mustRun("totals"); strings.TrimSpace(out) != "Item : 0   Total : 0" {
		t.Fatalf("unexpected totals %q", out)
	}
	e.mustRun("add", "Milk")
	if n := len(e.snapshot().Items); n != 1 {
		t.Fatalf("expected 1 item, got %d", n)
	}
}

func TestTUICommandGetsStore(t *testing.T) {
	newEnv(t)
	var got *list.Store
	var out, errOut bytes.Buffer
	code := Run(context.Background(), []string{"tui"}, Options{
		Stdout: &out,
		Stderr: &errOut,
		RunTUI: func(ctx context.Context, s *list.Store) error {
			got = s
			return nil
		},
	})
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut.String())
	}
	if got == nil || got.Key() != list.DefaultKey {
		t.Fatalf("expected store for default key, got %v", got)
	}
}

func TestNoColorAcceptsAnyValue(t *testing.T) {
	e := newEnv(t)
	t.Setenv("NO_COLOR", "yes")

	e.mustRun("add", "Milk")
	if out := e.mustRun("ls"); !strings.Contains(out, "Milk") {
		t.Fatalf("expected Milk in listing:\n%s", out)
	}
}
