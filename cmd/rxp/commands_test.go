package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/LISSConsulting/LISSTech.RXP/internal/config"
)

// newProject writes a default rxp.toml to a temp dir and returns the dir.
func newProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if _, err := config.InitFile(dir); err != nil {
		t.Fatalf("InitFile: %v", err)
	}
	return dir
}

// runCLI executes the root command against the project in dir and returns
// stdout and stderr.
func runCLI(t *testing.T, dir string, args ...string) (string, string, error) {
	t.Helper()
	root := rootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--config", filepath.Join(dir, config.FileName)}, args...))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

// mustRun is runCLI that fails the test on error.
func mustRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, errOut, err := runCLI(t, dir, args...)
	if err != nil {
		t.Fatalf("rxp %s: %v\nstderr:\n%s", strings.Join(args, " "), err, errOut)
	}
	return out
}

// newUnit runs "rxp new" and returns the new unit's id.
func newUnit(t *testing.T, dir, name string, texts ...string) string {
	t.Helper()
	out := mustRun(t, dir, append([]string{"new", name}, texts...)...)
	fields := strings.Fields(out)
	if len(fields) == 0 {
		t.Fatalf("rxp new printed nothing")
	}
	return fields[0]
}

func TestCLI_BuildIsStateless(t *testing.T) {
	dir := newProject(t)

	out := mustRun(t, dir, "build", "sample", "occurs:3", "atStart")
	if got, want := strings.TrimSpace(out), `/^(?:(?:sample){3})/`; got != want {
		t.Errorf("build = %q, want %q", got, want)
	}

	out = mustRun(t, dir, "build", "--flags", "gi", "a")
	if got, want := strings.TrimSpace(out), `/a/gi`; got != want {
		t.Errorf("build with flags = %q, want %q", got, want)
	}

	if _, err := os.Stat(filepath.Join(dir, config.DefaultJournal)); !os.IsNotExist(err) {
		t.Errorf("build should not create the journal; stat err = %v", err)
	}
}

func TestCLI_BuildRejectsUnavailableStep(t *testing.T) {
	dir := newProject(t)
	_, _, err := runCLI(t, dir, "build", "a", "atEnd", "or:b")
	if err == nil || !strings.Contains(err.Error(), "step 2 (or:b)") {
		t.Errorf("err = %v, want it to name step 2 (or:b)", err)
	}
}

func TestCLI_EditsPersistAcrossInvocations(t *testing.T) {
	dir := newProject(t)
	id := newUnit(t, dir, "digits", "x")

	if got := mustRun(t, dir, "add", id[:8], "occurs:2", "atStart"); strings.TrimSpace(got) != `/^(?:(?:x){2})/` {
		t.Errorf("add = %q", got)
	}
	if got := mustRun(t, dir, "edit", id, "1", "occursBetween:2,4"); strings.TrimSpace(got) != `/^(?:(?:x){2,4})/` {
		t.Errorf("edit = %q", got)
	}
	if got := mustRun(t, dir, "undo", id); strings.TrimSpace(got) != `/(?:x){2,4}/` {
		t.Errorf("undo = %q", got)
	}

	show := mustRun(t, dir, "show", id)
	for _, want := range []string{"digits", "occursBetween:2,4", `/(?:x){2,4}/`, "compiles", "✓"} {
		if !strings.Contains(show, want) {
			t.Errorf("show should contain %q\ngot:\n%s", want, show)
		}
	}

	log := mustRun(t, dir, "log", id)
	for _, want := range []string{"create", "add", "replace", "step 1 → occursBetween:2,4", "undo"} {
		if !strings.Contains(log, want) {
			t.Errorf("log should contain %q\ngot:\n%s", want, log)
		}
	}
}

func TestCLI_UndoSeedFails(t *testing.T) {
	dir := newProject(t)
	id := newUnit(t, dir, "seed", "a")
	if _, _, err := runCLI(t, dir, "undo", id); err == nil {
		t.Error("undoing the seed step should fail")
	}
	if got := mustRun(t, dir, "show", id); !strings.Contains(got, "/a/") {
		t.Errorf("unit should be unchanged, got:\n%s", got)
	}
}

func TestCLI_EditStaleNeedsTruncate(t *testing.T) {
	dir := newProject(t)
	id := newUnit(t, dir, "stale", "x")
	mustRun(t, dir, "add", id, "occurs:2", "atEnd")

	_, _, err := runCLI(t, dir, "edit", id, "1", "followedBy:a")
	if err == nil || !strings.Contains(err.Error(), "--truncate") {
		t.Fatalf("err = %v, want a hint about --truncate", err)
	}

	out, errOut, err := runCLI(t, dir, "edit", "--truncate", id, "1", "followedBy:a")
	if err != nil {
		t.Fatalf("edit --truncate: %v", err)
	}
	if got, want := strings.TrimSpace(out), `/x(?=a)/`; got != want {
		t.Errorf("edit --truncate = %q, want %q", got, want)
	}
	if !strings.Contains(errOut, "dropped steps 2-2") {
		t.Errorf("stderr = %q, want it to report the dropped step", errOut)
	}
	if log := mustRun(t, dir, "log", id); !strings.Contains(log, "reset") {
		t.Errorf("log should record the reset:\n%s", log)
	}
}

func TestCLI_PermissiveEditsSurvivePolicyChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.FileName)
	writeConfig := func(policy string) {
		t.Helper()
		if err := os.WriteFile(path, []byte("[store]\nreplay = \""+policy+"\"\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	writeConfig("permissive")
	id := newUnit(t, dir, "loose", "x")
	mustRun(t, dir, "add", id, "occurs:2", "atEnd")
	if got := mustRun(t, dir, "edit", id, "1", "followedBy:y"); strings.TrimSpace(got) != `/(?:x(?=y))$/` {
		t.Fatalf("permissive edit = %q", got)
	}

	writeConfig("strict")
	if got := mustRun(t, dir, "show", id); !strings.Contains(got, `/(?:x(?=y))$/`) {
		t.Errorf("strict reload lost the permissive edit:\n%s", got)
	}
	mustRun(t, dir, "compact")
	if got := mustRun(t, dir, "show", id); !strings.Contains(got, `/(?:x(?=y))$/`) {
		t.Errorf("compacted journal lost the permissive edit:\n%s", got)
	}
}

func TestCLI_ListRenameClose(t *testing.T) {
	dir := newProject(t)

	if got := mustRun(t, dir, "list"); !strings.Contains(got, "No open units") {
		t.Errorf("empty list = %q", got)
	}

	a := newUnit(t, dir, "alpha", "a")
	b := newUnit(t, dir, "beta", "b")
	mustRun(t, dir, "rename", a, "first")
	mustRun(t, dir, "close", b)

	list := mustRun(t, dir, "list")
	if !strings.Contains(list, "first") || strings.Contains(list, "beta") {
		t.Errorf("list should show the renamed unit only:\n%s", list)
	}
	all := mustRun(t, dir, "list", "--all")
	if !strings.Contains(all, "beta") || !strings.Contains(all, "closed") {
		t.Errorf("list --all should include the closed unit:\n%s", all)
	}

	status := mustRun(t, dir, "status")
	for _, want := range []string{"Open units:", "Closed units:", "strict"} {
		if !strings.Contains(status, want) {
			t.Errorf("status should contain %q\ngot:\n%s", want, status)
		}
	}
}

func TestCLI_OpsAndMatch(t *testing.T) {
	dir := newProject(t)
	id := newUnit(t, dir, "m", "ab")
	mustRun(t, dir, "add", id, "atEnd")

	ops := mustRun(t, dir, "ops", id)
	if strings.Contains(ops, "L2") || !strings.Contains(ops, "isOptional") {
		t.Errorf("ops after atEnd:\n%s", ops)
	}
	if all := mustRun(t, dir, "ops"); !strings.Contains(all, "init") {
		t.Errorf("ops without a unit should list every operation:\n%s", all)
	}

	out := mustRun(t, dir, "match", id, "xxab")
	if !strings.Contains(out, `"ab"`) {
		t.Errorf("match should find ab:\n%s", out)
	}
	out = mustRun(t, dir, "match", id, "abx")
	if !strings.Contains(out, "no match") {
		t.Errorf("match should report no match:\n%s", out)
	}
}

func TestCLI_ExportImportCompact(t *testing.T) {
	src := newProject(t)
	id := newUnit(t, src, "exported", "a")
	mustRun(t, src, "add", id, "isOptional")

	file := filepath.Join(t.TempDir(), "units.yaml")
	mustRun(t, src, "export", "-o", file)

	dst := newProject(t)
	out := mustRun(t, dst, "import", file)
	if !strings.Contains(out, "Imported") || !strings.Contains(out, "/(?:a)?/") {
		t.Errorf("import = %q", out)
	}
	if got := mustRun(t, dst, "show", id); !strings.Contains(got, "isOptional") {
		t.Errorf("imported unit should keep its steps:\n%s", got)
	}

	mustRun(t, dst, "undo", id)
	out = mustRun(t, dst, "compact")
	if !strings.Contains(out, "1 open units") || !strings.Contains(out, "Backup") {
		t.Errorf("compact = %q", out)
	}
	if got := mustRun(t, dst, "show", id); !strings.Contains(got, "/a/") {
		t.Errorf("compacted journal should replay to the undone state:\n%s", got)
	}
}

func TestCLI_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.FileName)
	if err := os.WriteFile(path, []byte("[store]\nreplay = \"sometimes\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, _, err := runCLI(t, dir, "list")
	if err == nil || !strings.Contains(err.Error(), "store.replay") {
		t.Errorf("err = %v, want a store.replay validation error", err)
	}
}

func TestCLI_InitScaffolds(t *testing.T) {
	dir := t.TempDir()
	orig, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(orig) })
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	root := rootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"init"})
	if err := root.Execute(); err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(out.String(), config.FileName) {
		t.Errorf("init output = %q", out.String())
	}
	if _, err := os.Stat(filepath.Join(dir, config.FileName)); err != nil {
		t.Errorf("rxp.toml not created: %v", err)
	}
}
